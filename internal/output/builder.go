package output

import (
	"encoding/binary"
	"math"

	"github.com/avass/simstep/internal/domain"
)

// BatchBuilder assembles a wire-format response batch. It exists for the
// engine side of the boundary: mock engines in tests and fixtures use it to
// produce the exact framing Split consumes.
type BatchBuilder struct {
	payloads [][]byte
}

// Add appends one payload with the given tag and body.
func (b *BatchBuilder) Add(tag Tag, body []byte) *BatchBuilder {
	p := make([]byte, 0, tagSize+len(body))
	p = append(p, tag[:]...)
	p = append(p, body...)
	b.payloads = append(b.payloads, p)
	return b
}

// Build appends the sentinel time payload and serializes the batch.
func (b *BatchBuilder) Build(seconds float64, frame uint64) []byte {
	body := make([]byte, frameTimeSize)
	binary.LittleEndian.PutUint64(body[0:8], math.Float64bits(seconds))
	binary.LittleEndian.PutUint64(body[8:16], frame)
	b.Add(TagTime, body)

	size := 4
	for _, p := range b.payloads {
		size += 4 + len(p)
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.payloads)))
	for _, p := range b.payloads {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(p)))
		out = append(out, p...)
	}
	b.payloads = nil
	return out
}

// TransformEntry is one object's transform for EncodeTransforms.
type TransformEntry struct {
	ID       domain.EntityID
	Position domain.Vec3
	Rotation [4]float32
}

// EncodeTransforms builds a body in the "tran" schema.
func EncodeTransforms(entries []TransformEntry) []byte {
	out := make([]byte, 0, 4+len(entries)*transformRecordSize)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(entries)))
	for _, e := range entries {
		out = binary.LittleEndian.AppendUint32(out, uint32(e.ID))
		out = appendFloat32(out, float32(e.Position.X))
		out = appendFloat32(out, float32(e.Position.Y))
		out = appendFloat32(out, float32(e.Position.Z))
		for _, q := range e.Rotation {
			out = appendFloat32(out, q)
		}
	}
	return out
}

// RigEntry is one joint's state for EncodeRigState.
type RigEntry struct {
	JointID domain.EntityID
	Axes    [3]float64
}

// EncodeRigState builds a body in the "drig" schema.
func EncodeRigState(entries []RigEntry) []byte {
	out := make([]byte, 0, 4+len(entries)*rigRecordSize)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(entries)))
	for _, e := range entries {
		out = binary.LittleEndian.AppendUint32(out, uint32(e.JointID))
		for _, a := range e.Axes {
			out = appendFloat32(out, float32(a))
		}
	}
	return out
}

// EncodeVersion builds a body in the "vers" schema.
func EncodeVersion(engine, protocol string) []byte {
	out := make([]byte, 0, 2+len(engine)+len(protocol))
	out = append(out, byte(len(engine)))
	out = append(out, engine...)
	out = append(out, byte(len(protocol)))
	out = append(out, protocol...)
	return out
}

func appendFloat32(out []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
}
