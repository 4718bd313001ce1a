// Package framestats renders a terminal summary of a finished run.
package framestats

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Report is everything the CLI shows after a run or benchmark.
type Report struct {
	Endpoint  string
	Engine    string
	Protocol  string
	Frames    uint64
	Simulated float64
	Speed     time.Duration
	FPS       float64
	Tracked   int
	Moving    bool
	Faults    []string
}

func Render(r Report) string {
	return renderView(r, newStyles())
}

func renderView(r Report, s styles) string {
	lines := []string{
		s.title.Render("Simulation run"),
		s.header.Render(fmt.Sprintf("endpoint: %s", r.Endpoint)),
	}

	if r.Engine != "" {
		lines = append(lines, keyValue(s, "engine", fmt.Sprintf("%s (protocol %s)", r.Engine, r.Protocol)))
	}
	lines = append(lines,
		keyValue(s, "frames", fmt.Sprintf("%d", r.Frames)),
		keyValue(s, "simulated", fmt.Sprintf("%.3fs", r.Simulated)),
	)

	if r.Speed > 0 {
		lines = append(lines,
			keyValue(s, "per frame", r.Speed.String()),
			keyValue(s, "rate", fmt.Sprintf("%.1f fps", r.FPS)),
		)
	}

	if r.Tracked > 0 {
		state := "settled"
		if r.Moving {
			state = "still moving"
		}
		lines = append(lines, keyValue(s, "tracked", fmt.Sprintf("%d ids, %s", r.Tracked, state)))
	}

	if len(r.Faults) == 0 {
		lines = append(lines, s.empty.Render("no add-on faults"))
	} else {
		for _, f := range r.Faults {
			lines = append(lines, s.warning.Render("fault: "+f))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func keyValue(s styles, key, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.key.Render(key+": "), s.value.Render(value))
}
