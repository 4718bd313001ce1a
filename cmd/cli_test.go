package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codec "github.com/avass/simstep/internal/adapters/codec/msgpack"
	"github.com/avass/simstep/internal/application"
	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/output"
	"github.com/avass/simstep/internal/version"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version.Version, strings.TrimSpace(out.String()))
}

func TestRunCommandFailsFastWithoutEngine(t *testing.T) {
	t.Parallel()

	cmd := newRunCmd(config{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--endpoint", "ws://127.0.0.1:1/step", "--frames", "1"})

	err := cmd.Execute()
	require.ErrorIs(t, err, domain.ErrTransport)
}

type stubTransport struct{ frames uint64 }

func (t *stubTransport) Exchange(context.Context, []byte) ([]byte, error) {
	t.frames++
	var b output.BatchBuilder
	return b.Build(float64(t.frames)*0.01, t.frames), nil
}

func (t *stubTransport) Close() error { return nil }

// flakyAddOn fails its first post-receive hook, then recovers.
type flakyAddOn struct{ failures int }

func (a *flakyAddOn) Initialize(application.Registrar) ([]domain.Command, error) { return nil, nil }

func (a *flakyAddOn) BeforeSend(*domain.Batch) error { return nil }

func (a *flakyAddOn) AfterReceive(*output.Frame, application.Registrar) ([]domain.Command, error) {
	if a.failures > 0 {
		a.failures--
		return nil, errors.New("joint data missing")
	}
	return nil, nil
}

func TestFaultLinesAccumulateAcrossFrames(t *testing.T) {
	t.Parallel()

	c := application.NewController(&stubTransport{}, codec.Encoder{}, application.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer c.Close()
	c.Register(&flakyAddOn{failures: 1})

	var lines []string
	for i := 0; i < 3; i++ {
		_, err := c.Step(context.Background(), nil)
		require.NoError(t, err)
		lines = appendFaultLines(lines, c)
	}

	// The fault from the first frame stays in the run's record even though
	// the controller has since reset its per-frame list.
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "joint data missing")
	assert.Empty(t, c.Faults())
}

func TestRunCommandRejectsBrokenRigFile(t *testing.T) {
	t.Parallel()

	cmd := newRunCmd(config{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--rig", "/nonexistent/rig.toml", "--frames", "1"})

	err := cmd.Execute()
	require.ErrorIs(t, err, domain.ErrConfig)
}
