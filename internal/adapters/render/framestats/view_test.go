package framestats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderFullReport(t *testing.T) {
	output := Render(Report{
		Endpoint:  "ws://127.0.0.1:1071/step",
		Engine:    "engine-2.1",
		Protocol:  "9",
		Frames:    250,
		Simulated: 4.167,
		Speed:     8 * time.Millisecond,
		FPS:       125,
		Tracked:   6,
		Moving:    false,
	})

	assert.Contains(t, output, "Simulation run")
	assert.Contains(t, output, "ws://127.0.0.1:1071/step")
	assert.Contains(t, output, "engine-2.1 (protocol 9)")
	assert.Contains(t, output, "250")
	assert.Contains(t, output, "4.167s")
	assert.Contains(t, output, "125.0 fps")
	assert.Contains(t, output, "6 ids, settled")
	assert.Contains(t, output, "no add-on faults")
}

func TestRenderFaultsAndMotion(t *testing.T) {
	output := Render(Report{
		Endpoint: "ws://localhost/step",
		Frames:   1,
		Tracked:  2,
		Moving:   true,
		Faults:   []string{"motion.Tracker.after_receive: malformed joint data"},
	})

	assert.Contains(t, output, "still moving")
	assert.Contains(t, output, "fault: motion.Tracker.after_receive")
	assert.NotContains(t, output, "no add-on faults")
}
