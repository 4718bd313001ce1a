package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avass/simstep/internal/domain"
)

func TestTransformsAccessors(t *testing.T) {
	t.Parallel()

	body := EncodeTransforms([]TransformEntry{
		{ID: 7, Position: domain.Vec3{X: 1, Y: 2, Z: 3}, Rotation: [4]float32{0, 0, 0, 1}},
		{ID: 9, Position: domain.Vec3{X: -0.5, Y: 0, Z: 0.25}},
	})

	view, err := decodeTransforms(body)
	require.NoError(t, err)
	tran := view.(Transforms)

	require.Equal(t, 2, tran.Count())
	assert.Equal(t, domain.EntityID(7), tran.ID(0))
	assert.Equal(t, domain.Vec3{X: 1, Y: 2, Z: 3}, tran.Position(0))
	assert.Equal(t, [4]float32{0, 0, 0, 1}, tran.Rotation(0))
	assert.Equal(t, domain.EntityID(9), tran.ID(1))
	assert.InDelta(t, -0.5, tran.Position(1).X, 1e-6)
}

func TestTransformsRejectsTruncatedBody(t *testing.T) {
	t.Parallel()

	body := EncodeTransforms([]TransformEntry{{ID: 1}})
	_, err := decodeTransforms(body[:len(body)-4])
	require.ErrorIs(t, err, domain.ErrProtocol)
}

func TestRigStateAccessors(t *testing.T) {
	t.Parallel()

	body := EncodeRigState([]RigEntry{
		{JointID: 3, Axes: [3]float64{90, 0, -45}},
	})

	view, err := decodeRigState(body)
	require.NoError(t, err)
	rig := view.(RigState)

	require.Equal(t, 1, rig.Count())
	assert.Equal(t, domain.EntityID(3), rig.JointID(0))
	axes := rig.Axes(0)
	assert.InDelta(t, 90, axes[0], 1e-6)
	assert.InDelta(t, -45, axes[2], 1e-6)
}

func TestVersionAccessors(t *testing.T) {
	t.Parallel()

	view, err := decodeVersion(EncodeVersion("engine-2.0", "9"))
	require.NoError(t, err)
	v := view.(Version)

	assert.Equal(t, "engine-2.0", v.Engine())
	assert.Equal(t, "9", v.Protocol())
}

func TestVersionRejectsTruncatedBody(t *testing.T) {
	t.Parallel()

	body := EncodeVersion("engine-2.0", "9")
	_, err := decodeVersion(body[:len(body)-1])
	require.ErrorIs(t, err, domain.ErrProtocol)
}

func TestFrameTimeRejectsWrongSize(t *testing.T) {
	t.Parallel()

	_, err := decodeFrameTime(make([]byte, 8))
	require.ErrorIs(t, err, domain.ErrProtocol)
}
