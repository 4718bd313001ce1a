package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/output"
	"github.com/avass/simstep/internal/ports"
)

const defaultInitDrainCap = 32

// Config tunes the frame loop. Zero values pick the defaults.
type Config struct {
	// Registry resolves response payload tags. Defaults to output.Default().
	Registry *output.Registry
	// InitDrainCap bounds the initialization drain of a single frame.
	InitDrainCap int
	// Logger receives add-on fault diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Controller is the frame exchange loop. Exactly one exchange is in flight at
// a time; Step, Register and ForceReinitialize must all be called from the
// same goroutine.
type Controller struct {
	transport ports.Transport
	encoder   ports.BatchEncoder
	registry  *output.Registry
	life      *lifecycle
	frames    uint64
}

func NewController(transport ports.Transport, encoder ports.BatchEncoder, cfg Config) *Controller {
	if cfg.Registry == nil {
		cfg.Registry = output.Default()
	}
	if cfg.InitDrainCap <= 0 {
		cfg.InitDrainCap = defaultInitDrainCap
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Controller{
		transport: transport,
		encoder:   encoder,
		registry:  cfg.Registry,
		life:      newLifecycle(cfg.InitDrainCap, cfg.Logger),
	}
}

// Register appends an add-on to the sequence. Its Initialize hook runs at the
// start of the next Step.
func (c *Controller) Register(a AddOn) { c.life.Register(a) }

// ForceReinitialize re-arms a registered add-on so the next Step runs its
// Initialize hook exactly once more.
func (c *Controller) ForceReinitialize(a AddOn) bool { return c.life.ForceReinitialize(a) }

// Faults reports the add-on faults recorded during the most recent Step.
func (c *Controller) Faults() []*domain.HookFault {
	out := make([]*domain.HookFault, len(c.life.faults))
	copy(out, c.life.faults)
	return out
}

// Frames is the number of completed exchanges.
func (c *Controller) Frames() uint64 { return c.frames }

// Step advances the simulation by one frame. An empty commands slice is the
// idiom for "advance with no new instructions".
//
// The transmitted batch order is fixed: caller commands first, then add-on
// initialization commands, then pre-send appends, then commands queued by the
// previous frame's post-receive hooks. The returned frame is valid only until
// the next Step call.
func (c *Controller) Step(ctx context.Context, commands []domain.Command) (*output.Frame, error) {
	batch := domain.NewBatch(commands)

	c.life.beginFrame()
	if err := c.life.initializeAll(); err != nil {
		return nil, fmt.Errorf("frame %d not sent: %w", c.frames, err)
	}
	// Initialization commands stay staged until the batch carrying them
	// reaches the engine, so an aborted frame cannot drop them.
	c.life.appendStaged(batch)
	if err := c.life.beforeSend(batch); err != nil {
		return nil, fmt.Errorf("frame %d not sent: %w", c.frames, err)
	}
	c.life.appendPending(batch)

	wire, err := c.encoder.EncodeBatch(batch.Commands())
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", c.frames, err)
	}

	raw, err := c.transport.Exchange(ctx, wire)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", c.frames, err)
	}
	c.life.commitStaged()

	frame, err := output.Split(raw, c.registry)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", c.frames, err)
	}

	c.life.afterReceive(frame)
	c.frames++
	return frame, nil
}

// Close releases the transport. The engine process is stateful and cannot be
// resumed over a new connection, so a closed controller is done for good.
func (c *Controller) Close() error {
	return c.transport.Close()
}
