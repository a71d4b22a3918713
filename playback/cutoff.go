// Package playback maps an animation clock onto partial stroke geometry and
// arbitrates segment advancement across the two independent timelines of a
// narrated whiteboard: audio playback and drawing progress.
package playback

import (
	"sort"

	"github.com/scribeware/chalk"
)

// drawFrac is the fraction of a stroke's draw time spent actually extending
// the path. Local phases above it clamp to 1.0, a deliberate settle pause at
// the end of each stroke.
const drawFrac = 0.8

// Rendered is one stroke's contribution to a frame: the prefix of its
// display points that should be painted.
type Rendered struct {
	Stroke *chalk.Stroke

	// Points is the visible prefix of Stroke.Points.
	Points []chalk.Point

	// Complete is true when the stroke is fully drawn.
	Complete bool
}

// Cutoff converts a normalized progress fraction t in [0,1] over an ordered
// stroke list into per-stroke partial geometry.
//
// Time is walked as alternating travel and draw phases. A stroke whose draw
// phase has fully elapsed renders complete; a stroke not yet reached (or
// still within its travel phase) does not render at all; the single stroke
// currently drawing maps its eased local phase to a point cutoff through the
// stroke's cumulative draw cost — never a naive linear index fraction, since
// cost already encodes curvature slowdown.
func Cutoff(strokes []*chalk.Stroke, t float64) []Rendered {
	if len(strokes) == 0 {
		return nil
	}
	t = clamp01(t)
	elapsed := chalk.TotalWeight(strokes) * t

	var out []Rendered
	var strokeStart float64

	for _, s := range strokes {
		travelEnd := strokeStart + s.TravelBeforeSec
		strokeEnd := travelEnd + s.DrawTimeSec

		switch {
		case elapsed >= strokeEnd:
			out = append(out, Rendered{Stroke: s, Points: s.Points, Complete: true})

		case elapsed <= strokeStart || elapsed < travelEnd:
			// Not reached, or the pen is still traveling. Nothing after
			// this stroke can be visible either.
			return out

		default:
			local := 0.0
			if s.DrawTimeSec > 0 {
				local = (elapsed - travelEnd) / s.DrawTimeSec
			}
			eased := easePhase(local)
			if pts := cutPoints(s, eased); len(pts) > 0 {
				out = append(out, Rendered{Stroke: s, Points: pts, Complete: eased >= 1})
			}
			return out
		}

		strokeStart = strokeEnd
	}
	return out
}

// easePhase applies the settle-pause easing: phases at or above drawFrac
// clamp to 1.0, below it the phase is stretched linearly.
func easePhase(phase float64) float64 {
	if phase >= drawFrac {
		return 1.0
	}
	return phase / drawFrac
}

// cutPoints returns the point prefix whose cumulative draw cost covers the
// eased phase, found by binary search for the first index meeting the
// target cost.
func cutPoints(s *chalk.Stroke, eased float64) []chalk.Point {
	if eased >= 1 {
		return s.Points
	}
	if eased <= 0 {
		return nil
	}

	target := eased * s.DrawCostTotal
	idx := sort.SearchFloat64s(s.CumDrawCost, target)
	if idx >= len(s.Points) {
		idx = len(s.Points) - 1
	}
	return s.Points[:idx+1]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
