// Package output demultiplexes an engine response batch into tagged payloads
// and decodes them into read-only typed views.
//
// Each payload starts with a fixed 4-byte ASCII tag naming its schema. The
// Registry is the only place tag-to-schema bindings exist. Views are lazy
// projections over the response buffer: they never copy or mutate payload
// bytes and must not be retained past the frame that produced them.
package output

// Tag is a fixed 4-character ASCII payload schema identifier.
type Tag [4]byte

// Built-in tags understood by this client. Engines may emit further tags;
// unrecognized tags are not an error and decode to Unknown.
var (
	TagTime       = MustTag("time")
	TagTransforms = MustTag("tran")
	TagRigState   = MustTag("drig")
	TagVersion    = MustTag("vers")
)

// MustTag converts a 4-character string into a Tag, panicking on any other
// length. For registration-time constants only.
func MustTag(s string) Tag {
	if len(s) != tagSize {
		panic("output: tag must be exactly 4 characters: " + s)
	}
	var t Tag
	copy(t[:], s)
	return t
}

func (t Tag) String() string { return string(t[:]) }

const tagSize = 4
