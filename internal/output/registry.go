package output

import (
	"fmt"

	"github.com/avass/simstep/internal/domain"
)

// View is a read-only typed projection of one payload's bytes.
type View interface {
	Tag() Tag
}

// Decoder validates a payload body and wraps it in a typed view. Decoders do
// not copy the body; the view reads the buffer lazily on each accessor call.
type Decoder func(body []byte) (View, error)

// Registry maps payload tags to decoders. Bindings are configured once at
// startup; re-registering a tag is a configuration error, never a runtime
// condition.
type Registry struct {
	decoders map[Tag]Decoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[Tag]Decoder)}
}

// Default returns a registry with the built-in tags bound.
func Default() *Registry {
	r := NewRegistry()
	for tag, dec := range map[Tag]Decoder{
		TagTime:       decodeFrameTime,
		TagTransforms: decodeTransforms,
		TagRigState:   decodeRigState,
		TagVersion:    decodeVersion,
	} {
		if err := r.Register(tag, dec); err != nil {
			panic(err)
		}
	}
	return r
}

// Register binds a decoder to a tag. Each tag owns exactly one schema.
func (r *Registry) Register(tag Tag, dec Decoder) error {
	if dec == nil {
		return fmt.Errorf("%w: nil decoder for tag %q", domain.ErrConfig, tag)
	}
	if _, exists := r.decoders[tag]; exists {
		return fmt.Errorf("%w: tag %q registered twice", domain.ErrConfig, tag)
	}
	r.decoders[tag] = dec
	return nil
}

// Resolve returns the decoder bound to tag. A missing binding is not an
// error: callers ignore payloads they do not recognize, which is what keeps
// older clients compatible with newer engines.
func (r *Registry) Resolve(tag Tag) (Decoder, bool) {
	dec, ok := r.decoders[tag]
	return dec, ok
}
