package application

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/output"
)

type entry struct {
	addOn       AddOn
	initialized bool
	// Commands returned by Initialize, staged until a batch carrying them
	// actually reaches the engine. An aborted frame must not lose them:
	// Initialize runs exactly once, so there is no second chance to ask.
	staged []domain.Command
	// Commands returned by AfterReceive on frame N, transmitted on frame N+1.
	pending []domain.Command
	// A hook fault skips the entry's remaining hooks for the current frame
	// only; the add-on participates again next frame.
	faulted bool
}

// lifecycle holds the ordered add-on list and drives the hook passes. The
// registration order is the contract for both injection and consumption
// order within a frame.
type lifecycle struct {
	entries  []*entry
	index    map[AddOn]*entry
	drainCap int
	log      *slog.Logger
	faults   []*domain.HookFault
}

func newLifecycle(drainCap int, log *slog.Logger) *lifecycle {
	return &lifecycle{
		index:    make(map[AddOn]*entry),
		drainCap: drainCap,
		log:      log,
	}
}

// Register appends an add-on to the sequence. Registering an instance that is
// already present is a no-op: initialization runs exactly once per lifetime.
func (l *lifecycle) Register(a AddOn) {
	if a == nil {
		return
	}
	if _, ok := l.index[a]; ok {
		return
	}
	e := &entry{addOn: a}
	l.entries = append(l.entries, e)
	l.index[a] = e
}

// ForceReinitialize re-arms an add-on so its next frame begins with exactly
// one more Initialize call. Returns false if the add-on is not registered.
func (l *lifecycle) ForceReinitialize(a AddOn) bool {
	e, ok := l.index[a]
	if !ok {
		return false
	}
	e.initialized = false
	return true
}

func (l *lifecycle) beginFrame() {
	l.faults = l.faults[:0]
	for _, e := range l.entries {
		e.faulted = false
	}
}

// initializeAll drains the uninitialized set to a fixed point, staging each
// add-on's initialization commands on its entry. Add-ons registered by a hook
// during the drain are picked up in the same drain. The pass cap turns cyclic
// self-registration into a configuration error instead of a hang.
func (l *lifecycle) initializeAll() error {
	for pass := 0; ; pass++ {
		todo := l.uninitialized()
		if len(todo) == 0 {
			break
		}
		if pass >= l.drainCap {
			return fmt.Errorf("%w: add-on registration did not settle after %d initialization passes (cyclic self-registration?)", domain.ErrConfig, l.drainCap)
		}
		for _, e := range todo {
			cmds, err := e.addOn.Initialize(l)
			e.initialized = true
			if err != nil {
				l.fault(e, domain.HookInitialize, err)
				continue
			}
			e.staged = append(e.staged, cmds...)
		}
	}
	return l.escalateFaults()
}

// appendStaged merges staged initialization commands into the batch in
// registration order. The staging survives an aborted frame; commitStaged
// clears it once the batch has reached the engine.
func (l *lifecycle) appendStaged(batch *domain.Batch) {
	for _, e := range l.entries {
		batch.Append(e.staged...)
	}
}

func (l *lifecycle) commitStaged() {
	for _, e := range l.entries {
		e.staged = nil
	}
}

// beforeSend runs every initialized add-on's pre-send hook in registration
// order. Any fault makes the batch incomplete, so the caller must not
// transmit it.
func (l *lifecycle) beforeSend(batch *domain.Batch) error {
	for _, e := range l.entries {
		if !e.initialized || e.faulted {
			continue
		}
		if err := e.addOn.BeforeSend(batch); err != nil {
			l.fault(e, domain.HookBeforeSend, err)
		}
	}
	return l.escalateFaults()
}

// appendPending flushes commands queued by the previous frame's post-receive
// hooks, in registration order, after everything this frame produced.
func (l *lifecycle) appendPending(batch *domain.Batch) {
	for _, e := range l.entries {
		if len(e.pending) == 0 {
			continue
		}
		batch.Append(e.pending...)
		e.pending = nil
	}
}

// afterReceive fans the decoded frame out to every initialized add-on in
// registration order. Faults here are diagnostics, not frame failures: the
// exchange already happened and the other add-ons still get their data.
func (l *lifecycle) afterReceive(frame *output.Frame) {
	for _, e := range l.entries {
		if !e.initialized || e.faulted {
			continue
		}
		cmds, err := e.addOn.AfterReceive(frame, l)
		if err != nil {
			l.fault(e, domain.HookAfterReceive, err)
			continue
		}
		e.pending = append(e.pending, cmds...)
	}
}

func (l *lifecycle) uninitialized() []*entry {
	var todo []*entry
	for _, e := range l.entries {
		if !e.initialized {
			todo = append(todo, e)
		}
	}
	return todo
}

func (l *lifecycle) fault(e *entry, hook string, err error) {
	e.faulted = true
	f := &domain.HookFault{AddOn: addOnName(e.addOn), Hook: hook, Err: err}
	l.faults = append(l.faults, f)
	l.log.Warn("add-on hook failed", "add_on", f.AddOn, "hook", f.Hook, "err", err)
}

func (l *lifecycle) escalateFaults() error {
	if len(l.faults) == 0 {
		return nil
	}
	errs := make([]error, len(l.faults))
	for i, f := range l.faults {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func addOnName(a AddOn) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", a), "*")
}
