package output

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avass/simstep/internal/domain"
)

func TestSplitPreservesOrderAndSentinel(t *testing.T) {
	t.Parallel()

	var b BatchBuilder
	b.Add(TagVersion, EncodeVersion("engine-1.4", "7"))
	b.Add(TagTransforms, EncodeTransforms(nil))
	raw := b.Build(1.25, 42)

	frame, err := Split(raw, Default())
	require.NoError(t, err)

	require.Equal(t, 3, frame.Len())
	payloads := frame.Payloads()
	assert.Equal(t, TagVersion, payloads[0].Tag)
	assert.Equal(t, TagTransforms, payloads[1].Tag)
	assert.Equal(t, TagTime, payloads[2].Tag)

	assert.Equal(t, 1.25, frame.Time().Seconds())
	assert.Equal(t, uint64(42), frame.Time().Frame())
}

func TestSplitCountMismatch(t *testing.T) {
	t.Parallel()

	// Declares 3 payloads but carries only 2.
	var b BatchBuilder
	b.Add(TagTransforms, EncodeTransforms(nil))
	raw := b.Build(0, 1)
	binary.LittleEndian.PutUint32(raw[0:4], 3)

	_, err := Split(raw, Default())
	require.ErrorIs(t, err, domain.ErrProtocol)
	assert.ErrorContains(t, err, "declared 3 payloads, found 2")
}

func TestSplitPayloadLengthExceedsBuffer(t *testing.T) {
	t.Parallel()

	var b BatchBuilder
	raw := b.Build(0, 1)
	// Inflate the sentinel's declared length past the end of the buffer.
	binary.LittleEndian.PutUint32(raw[4:8], 9999)

	_, err := Split(raw, Default())
	require.ErrorIs(t, err, domain.ErrProtocol)
}

func TestSplitHugeDeclaredCount(t *testing.T) {
	t.Parallel()

	// A corrupt header declaring billions of payloads must fail as a
	// protocol error, not as a matching allocation.
	raw := binary.LittleEndian.AppendUint32(nil, 0xFFFFFFFF)

	_, err := Split(raw, Default())
	require.ErrorIs(t, err, domain.ErrProtocol)
	assert.ErrorContains(t, err, "found 0")
}

func TestSplitTrailingBytes(t *testing.T) {
	t.Parallel()

	var b BatchBuilder
	raw := b.Build(0, 1)
	raw = append(raw, 0xAA, 0xBB)

	_, err := Split(raw, Default())
	require.ErrorIs(t, err, domain.ErrProtocol)
	assert.ErrorContains(t, err, "remain after")
}

func TestSplitMissingSentinel(t *testing.T) {
	t.Parallel()

	_, err := Split(binary.LittleEndian.AppendUint32(nil, 0), Default())
	require.ErrorIs(t, err, domain.ErrProtocol)
	assert.ErrorContains(t, err, "sentinel")

	// A batch whose last payload is not the time sentinel is also malformed.
	body := EncodeTransforms(nil)
	raw := binary.LittleEndian.AppendUint32(nil, 1)
	raw = binary.LittleEndian.AppendUint32(raw, uint32(4+len(body)))
	raw = append(raw, TagTransforms[:]...)
	raw = append(raw, body...)

	_, err = Split(raw, Default())
	require.ErrorIs(t, err, domain.ErrProtocol)
}

func TestSplitDoesNotCopyPayloadBytes(t *testing.T) {
	t.Parallel()

	var b BatchBuilder
	b.Add(TagVersion, EncodeVersion("engine-1.4", "7"))
	raw := b.Build(0, 1)

	frame, err := Split(raw, Default())
	require.NoError(t, err)

	body := frame.Payloads()[0].Body
	require.NotEmpty(t, body)
	raw[8+tagSize] ^= 0xFF
	assert.Equal(t, raw[8+tagSize], body[0], "payload body must alias the transport buffer")
}

func TestViewUnknownTag(t *testing.T) {
	t.Parallel()

	var b BatchBuilder
	b.Add(MustTag("xyzq"), []byte{1, 2, 3})
	raw := b.Build(0, 1)

	frame, err := Split(raw, Default())
	require.NoError(t, err)

	view, err := frame.View(0)
	require.NoError(t, err)
	unknown, ok := view.(Unknown)
	require.True(t, ok)
	assert.Equal(t, MustTag("xyzq"), unknown.Tag())
	assert.Equal(t, []byte{1, 2, 3}, unknown.Body())
}

func TestFindAbsentTag(t *testing.T) {
	t.Parallel()

	var b BatchBuilder
	raw := b.Build(0, 1)

	frame, err := Split(raw, Default())
	require.NoError(t, err)

	_, ok, err := frame.Find(TagTransforms)
	require.NoError(t, err)
	assert.False(t, ok)
}
