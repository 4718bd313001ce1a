package output

import (
	"encoding/binary"
	"fmt"

	"github.com/avass/simstep/internal/domain"
)

// Payload is one tagged block of a response batch. Body aliases the transport
// buffer; it is never copied.
type Payload struct {
	Tag  Tag
	Body []byte
}

// Frame is one decoded response batch. The sentinel time payload is always
// present and always last. A Frame and every view derived from it are valid
// only until the next exchange begins: the transport buffer backing them may
// be overwritten by a future frame. Do not retain either.
type Frame struct {
	payloads []Payload
	time     FrameTime
	registry *Registry
}

// Split demultiplexes a raw response batch. The wire format is a uint32
// payload count followed by count length-prefixed payloads, each starting
// with its 4-byte tag. Any mismatch between the declared framing and the
// buffer is a protocol error: it means the engine and client disagree on the
// protocol version, which must surface rather than truncate silently.
func Split(raw []byte, registry *Registry) (*Frame, error) {
	if len(raw) < 4 {
		return nil, fmt.Errorf("%w: response batch is %d bytes, too short for payload count", domain.ErrProtocol, len(raw))
	}
	declared := int(binary.LittleEndian.Uint32(raw[0:4]))
	if declared == 0 {
		return nil, fmt.Errorf("%w: response batch declares zero payloads, sentinel time payload missing", domain.ErrProtocol)
	}

	// A payload occupies at least 8 bytes on the wire (length prefix plus
	// tag), so cap the allocation hint: a corrupt count must fail as a
	// protocol error, not as a giant allocation.
	capacity := declared
	if most := len(raw) / 8; capacity > most {
		capacity = most
	}
	payloads := make([]Payload, 0, capacity)
	rest := raw[4:]
	for i := 0; i < declared; i++ {
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: declared %d payloads, found %d", domain.ErrProtocol, declared, i)
		}
		length := int(binary.LittleEndian.Uint32(rest[0:4]))
		rest = rest[4:]
		if length > len(rest) {
			return nil, fmt.Errorf("%w: payload %d declares %d bytes, %d remain in buffer", domain.ErrProtocol, i, length, len(rest))
		}
		if length < tagSize {
			return nil, fmt.Errorf("%w: payload %d is %d bytes, too short for a tag", domain.ErrProtocol, i, length)
		}
		var tag Tag
		copy(tag[:], rest[:tagSize])
		payloads = append(payloads, Payload{Tag: tag, Body: rest[tagSize:length]})
		rest = rest[length:]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d bytes remain after %d declared payloads", domain.ErrProtocol, len(rest), declared)
	}

	last := payloads[len(payloads)-1]
	if last.Tag != TagTime {
		return nil, fmt.Errorf("%w: last payload is %q, want sentinel %q", domain.ErrProtocol, last.Tag, TagTime)
	}
	view, err := decodeFrameTime(last.Body)
	if err != nil {
		return nil, err
	}

	return &Frame{payloads: payloads, time: view.(FrameTime), registry: registry}, nil
}

// Len is the number of payloads, sentinel included.
func (f *Frame) Len() int { return len(f.payloads) }

// Payloads returns the payloads in wire order, sentinel last.
func (f *Frame) Payloads() []Payload { return f.payloads }

// Time is the decoded sentinel.
func (f *Frame) Time() FrameTime { return f.time }

// View decodes payload i. Views are built lazily on each call; an
// unrecognized tag yields Unknown rather than an error.
func (f *Frame) View(i int) (View, error) {
	p := f.payloads[i]
	dec, ok := f.registry.Resolve(p.Tag)
	if !ok {
		return Unknown{tag: p.Tag, body: p.Body}, nil
	}
	return dec(p.Body)
}

// Find decodes the first payload carrying tag. The second return is false if
// no such payload exists in this frame, which callers treat as "no update".
func (f *Frame) Find(tag Tag) (View, bool, error) {
	for i, p := range f.payloads {
		if p.Tag == tag {
			v, err := f.View(i)
			return v, err == nil, err
		}
	}
	return nil, false, nil
}
