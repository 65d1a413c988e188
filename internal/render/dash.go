package render

import (
	"github.com/OCAP2/radar/internal/geo"
	"github.com/OCAP2/radar/pkg/core"
)

// Segment is a drawn piece of a dashed line.
type Segment struct {
	A, B core.Vec2
}

// DashSegments splits the line a-b into the drawn pieces of the dash
// pattern. An empty or non-positive pattern yields the whole line.
func DashSegments(a, b core.Vec2, pattern []float64) []Segment {
	line, err := geo.Segment(a, b)
	if err != nil {
		return nil
	}
	total := line.Length()

	var sum float64
	for _, p := range pattern {
		if p < 0 {
			return []Segment{{A: a, B: b}}
		}
		sum += p
	}
	if len(pattern) == 0 || sum <= 0 {
		return []Segment{{A: a, B: b}}
	}

	var out []Segment
	pos, i, draw := 0.0, 0, true
	for pos < total {
		step := pattern[i%len(pattern)]
		end := pos + step
		if end > total {
			end = total
		}
		if draw && end > pos {
			out = append(out, Segment{A: geo.Along(a, b, pos), B: geo.Along(a, b, end)})
		}
		pos = end
		draw = !draw
		i++
	}
	return out
}
