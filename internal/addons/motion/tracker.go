// Package motion tracks per-joint and per-object movement across consecutive
// frames and derives a "still moving" predicate.
package motion

import (
	"math"

	"github.com/avass/simstep/internal/application"
	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/output"
)

const (
	// DefaultAngularThreshold is the settle threshold for revolute joints,
	// in degrees per frame.
	DefaultAngularThreshold = 0.1
	// DefaultLinearThreshold is the settle threshold for prismatic joints
	// and object positions, in meters per frame.
	DefaultLinearThreshold = 1e-3
)

// Config describes what the tracker watches. The rig's static description
// decides the metric per joint: revolute joints settle in degrees, prismatic
// joints in meters. Objects seen in transform payloads always use the linear
// metric.
type Config struct {
	Rig              domain.Rig
	AngularThreshold float64
	LinearThreshold  float64
}

// Tracker is an add-on comparing each frame's snapshot against the previous
// one. Queries are answered from the last completed frame; callers poll
// IsMoving across successive Step calls rather than blocking.
type Tracker struct {
	rig     domain.Rig
	angular float64
	linear  float64
	prev    map[domain.EntityID][3]float64
	moving  map[domain.EntityID]bool
}

var _ application.AddOn = (*Tracker)(nil)

func New(cfg Config) *Tracker {
	if cfg.AngularThreshold <= 0 {
		cfg.AngularThreshold = DefaultAngularThreshold
	}
	if cfg.LinearThreshold <= 0 {
		cfg.LinearThreshold = DefaultLinearThreshold
	}
	return &Tracker{
		rig:     cfg.Rig,
		angular: cfg.AngularThreshold,
		linear:  cfg.LinearThreshold,
		prev:    make(map[domain.EntityID][3]float64),
		moving:  make(map[domain.EntityID]bool),
	}
}

func (t *Tracker) Initialize(application.Registrar) ([]domain.Command, error) {
	return []domain.Command{
		domain.SendTransforms(),
		domain.SendRigState(),
	}, nil
}

func (t *Tracker) BeforeSend(*domain.Batch) error { return nil }

// AfterReceive updates movement flags from this frame's snapshots. A frame
// without transform or rig payloads means "no update"; existing flags stand.
func (t *Tracker) AfterReceive(frame *output.Frame, _ application.Registrar) ([]domain.Command, error) {
	if view, ok, err := frame.Find(output.TagRigState); err != nil {
		return nil, err
	} else if ok {
		rig := view.(output.RigState)
		for i := 0; i < rig.Count(); i++ {
			id := rig.JointID(i)
			threshold := t.linear
			if joint, known := t.rig.Joint(id); known {
				switch joint.Kind {
				case domain.JointFixed:
					t.moving[id] = false
					continue
				case domain.JointRevolute:
					threshold = t.angular
				}
			}
			t.observe(id, rig.Axes(i), threshold)
		}
	}

	if view, ok, err := frame.Find(output.TagTransforms); err != nil {
		return nil, err
	} else if ok {
		tran := view.(output.Transforms)
		for i := 0; i < tran.Count(); i++ {
			p := tran.Position(i)
			t.observe(tran.ID(i), [3]float64{p.X, p.Y, p.Z}, t.linear)
		}
	}

	return nil, nil
}

// IsMoving reports whether any queried id is currently flagged as moving.
// With no ids given it answers for every tracked id.
func (t *Tracker) IsMoving(ids ...domain.EntityID) bool {
	if len(ids) == 0 {
		for _, m := range t.moving {
			if m {
				return true
			}
		}
		return false
	}
	for _, id := range ids {
		if t.moving[id] {
			return true
		}
	}
	return false
}

// Tracked returns the number of ids seen so far.
func (t *Tracker) Tracked() int { return len(t.moving) }

func (t *Tracker) observe(id domain.EntityID, snapshot [3]float64, threshold float64) {
	prev, seen := t.prev[id]
	if !seen {
		// First sighting: assume motion until two comparable snapshots agree.
		t.prev[id] = snapshot
		t.moving[id] = true
		return
	}
	if delta(prev, snapshot) <= threshold {
		t.moving[id] = false
		return
	}
	t.moving[id] = true
	t.prev[id] = snapshot
}

func delta(a, b [3]float64) float64 {
	var max float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > max {
			max = d
		}
	}
	return max
}
