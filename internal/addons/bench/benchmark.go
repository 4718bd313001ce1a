// Package bench measures wall time per frame exchange.
package bench

import (
	"time"

	"github.com/avass/simstep/internal/application"
	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/output"
	"github.com/avass/simstep/internal/ports"
)

// Benchmark is an add-on timing each exchange between its pre-send and
// post-receive hooks. It injects no commands.
type Benchmark struct {
	clock        ports.Clock
	times        []time.Duration
	benchmarking bool
	t0           time.Time
}

var _ application.AddOn = (*Benchmark)(nil)

func New(clock ports.Clock) *Benchmark {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Benchmark{clock: clock}
}

func (b *Benchmark) Initialize(application.Registrar) ([]domain.Command, error) {
	return nil, nil
}

func (b *Benchmark) BeforeSend(*domain.Batch) error {
	if b.benchmarking {
		b.t0 = b.clock.Now()
	}
	return nil
}

func (b *Benchmark) AfterReceive(*output.Frame, application.Registrar) ([]domain.Command, error) {
	if b.benchmarking {
		b.times = append(b.times, b.clock.Now().Sub(b.t0))
	}
	return nil, nil
}

// Start clears collected timings and begins benchmarking each exchange.
func (b *Benchmark) Start() {
	b.times = b.times[:0]
	b.benchmarking = true
}

// Stop ends benchmarking.
func (b *Benchmark) Stop() {
	b.benchmarking = false
}

// Frames is the number of timed exchanges.
func (b *Benchmark) Frames() int { return len(b.times) }

// Speed is the average wall time per exchange, or zero before any exchange
// was timed.
func (b *Benchmark) Speed() time.Duration {
	if len(b.times) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range b.times {
		total += t
	}
	return total / time.Duration(len(b.times))
}

// FPS is the average exchange rate, or zero before any exchange was timed.
func (b *Benchmark) FPS() float64 {
	speed := b.Speed()
	if speed <= 0 {
		return 0
	}
	return float64(time.Second) / float64(speed)
}
