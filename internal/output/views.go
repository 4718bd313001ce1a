package output

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/avass/simstep/internal/domain"
)

// FrameTime is the sentinel payload closing every response batch.
type FrameTime struct {
	body []byte
}

const frameTimeSize = 16

func decodeFrameTime(body []byte) (View, error) {
	if len(body) != frameTimeSize {
		return nil, fmt.Errorf("%w: time payload is %d bytes, want %d", domain.ErrProtocol, len(body), frameTimeSize)
	}
	return FrameTime{body: body}, nil
}

func (FrameTime) Tag() Tag { return TagTime }

// Seconds is the engine's simulated time.
func (v FrameTime) Seconds() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(v.body[0:8]))
}

// Frame is the engine's frame counter.
func (v FrameTime) Frame() uint64 {
	return binary.LittleEndian.Uint64(v.body[8:16])
}

// Transforms is the per-object transform snapshot for one frame. Record
// layout: id uint32, position 3xfloat32, rotation quaternion 4xfloat32.
type Transforms struct {
	body []byte
}

const transformRecordSize = 32

func decodeTransforms(body []byte) (View, error) {
	if err := checkRecords(body, transformRecordSize); err != nil {
		return nil, fmt.Errorf("transforms: %w", err)
	}
	return Transforms{body: body}, nil
}

func (Transforms) Tag() Tag { return TagTransforms }

func (v Transforms) Count() int {
	return int(binary.LittleEndian.Uint32(v.body[0:4]))
}

func (v Transforms) ID(i int) domain.EntityID {
	return domain.EntityID(binary.LittleEndian.Uint32(v.record(i, transformRecordSize)))
}

func (v Transforms) Position(i int) domain.Vec3 {
	rec := v.record(i, transformRecordSize)
	return domain.Vec3{
		X: float64(float32At(rec, 4)),
		Y: float64(float32At(rec, 8)),
		Z: float64(float32At(rec, 12)),
	}
}

// Rotation is the object's orientation as an xyzw quaternion.
func (v Transforms) Rotation(i int) [4]float32 {
	rec := v.record(i, transformRecordSize)
	return [4]float32{
		float32At(rec, 16),
		float32At(rec, 20),
		float32At(rec, 24),
		float32At(rec, 28),
	}
}

func (v Transforms) record(i, size int) []byte {
	off := 4 + i*size
	return v.body[off : off+size]
}

// RigState is the per-joint snapshot for one frame. Record layout: joint id
// uint32, then three float32 axis values. Revolute joints report degrees per
// axis, prismatic joints report meters along the drive axis.
type RigState struct {
	body []byte
}

const rigRecordSize = 16

func decodeRigState(body []byte) (View, error) {
	if err := checkRecords(body, rigRecordSize); err != nil {
		return nil, fmt.Errorf("rig state: %w", err)
	}
	return RigState{body: body}, nil
}

func (RigState) Tag() Tag { return TagRigState }

func (v RigState) Count() int {
	return int(binary.LittleEndian.Uint32(v.body[0:4]))
}

func (v RigState) JointID(i int) domain.EntityID {
	off := 4 + i*rigRecordSize
	return domain.EntityID(binary.LittleEndian.Uint32(v.body[off : off+4]))
}

func (v RigState) Axes(i int) [3]float64 {
	off := 4 + i*rigRecordSize
	rec := v.body[off : off+rigRecordSize]
	return [3]float64{
		float64(float32At(rec, 4)),
		float64(float32At(rec, 8)),
		float64(float32At(rec, 12)),
	}
}

// Version reports the engine build and protocol versions. Body is two
// length-prefixed ASCII strings.
type Version struct {
	body []byte
}

func decodeVersion(body []byte) (View, error) {
	rest, err := skipString(body)
	if err == nil {
		rest, err = skipString(rest)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: version payload: %v", domain.ErrProtocol, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: version payload has %d trailing bytes", domain.ErrProtocol, len(rest))
	}
	return Version{body: body}, nil
}

func (Version) Tag() Tag { return TagVersion }

func (v Version) Engine() string {
	s, _ := readString(v.body)
	return s
}

func (v Version) Protocol() string {
	rest, _ := skipString(v.body)
	s, _ := readString(rest)
	return s
}

// Unknown wraps a payload whose tag has no registered decoder. Carrying it as
// an explicit variant lets callers skip payload kinds emitted by newer
// engines without treating them as errors.
type Unknown struct {
	tag  Tag
	body []byte
}

func (v Unknown) Tag() Tag     { return v.tag }
func (v Unknown) Body() []byte { return v.body }

func checkRecords(body []byte, recordSize int) error {
	if len(body) < 4 {
		return fmt.Errorf("%w: body too short for record count", domain.ErrProtocol)
	}
	n := int(binary.LittleEndian.Uint32(body[0:4]))
	if want := 4 + n*recordSize; len(body) != want {
		return fmt.Errorf("%w: %d records need %d bytes, body has %d", domain.ErrProtocol, n, want, len(body))
	}
	return nil
}

func float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}

func readString(b []byte) (string, error) {
	if len(b) < 1 || len(b) < 1+int(b[0]) {
		return "", fmt.Errorf("truncated string")
	}
	return string(b[1 : 1+int(b[0])]), nil
}

func skipString(b []byte) ([]byte, error) {
	if len(b) < 1 || len(b) < 1+int(b[0]) {
		return nil, fmt.Errorf("truncated string")
	}
	return b[1+int(b[0]):], nil
}
