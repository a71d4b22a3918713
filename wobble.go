package chalk

import (
	"math"
	"math/rand"
)

// WobbleConfig controls the bounded perpendicular displacement that gives
// strokes a hand-drawn texture. Wobble is applied after all geometry and
// cost metrics are computed, so it never affects timing or cost lookups.
type WobbleConfig struct {
	// BaseAmp is the base displacement amplitude in display pixels.
	BaseAmp float64

	// MaxAmp caps the computed amplitude.
	MaxAmp float64

	// Frequency is the number of displacement waves over a full stroke.
	Frequency float64

	// Seed makes the displacement deterministic. Identical points,
	// amplitude, frequency and seed produce identical output.
	Seed int64
}

// DefaultWobbleConfig returns a WobbleConfig with default settings.
func DefaultWobbleConfig() WobbleConfig {
	return WobbleConfig{
		BaseAmp:   1.6,
		MaxAmp:    3.5,
		Frequency: 2.25,
		Seed:      1,
	}
}

// applyWobble fills every stroke's display Points from its OriginalPoints,
// displacing each point perpendicular to the local tangent. The amplitude
// grows with normalized stroke length and shrinks with curvature, and is
// suppressed entirely for strokes shorter than 2% of the object diagonal.
// A sine envelope tapers the displacement to zero at both endpoints so
// stroke junctions stay visually connected.
func (b *Builder) applyWobble(strokes []*Stroke, origin Point) {
	if len(strokes) == 0 {
		return
	}

	bounds := strokes[0].Bounds
	for _, s := range strokes[1:] {
		bounds = unionRect(bounds, s.Bounds)
	}
	diag := bounds.Diagonal()
	if diag <= 0 {
		diag = 1
	}

	cfg := b.cfg.Wobble
	for idx, s := range strokes {
		if s.LengthPx < 0.02*diag || cfg.BaseAmp <= 0 {
			s.Points = append([]Point(nil), s.OriginalPoints...)
			continue
		}

		lenNorm := clamp(s.LengthPx/diag, 0, 1)
		curvNorm := clamp(s.CurvatureDeg/70, 0, 1)
		amp := cfg.BaseAmp * (0.5 + 0.8*math.Pow(lenNorm, 0.7)) * (0.6 + 0.4*(1-curvNorm))
		amp = clamp(amp, 0, cfg.MaxAmp)

		s.Points = wobblePoints(s.OriginalPoints, amp, cfg.Frequency, cfg.Seed+int64(idx))
	}
}

// wobblePoints returns a displaced copy of points. The displacement is a
// perpendicular sinusoid over the stroke parameter t, tapered to zero at
// both endpoints via a sine envelope. The phase is drawn from a seeded
// source, so output is fully reproducible.
func wobblePoints(points []Point, amp, freq float64, seed int64) []Point {
	n := len(points)
	out := make([]Point, n)
	copy(out, points)
	if n < 3 || amp <= 0 {
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	phase := rng.Float64() * 2 * math.Pi

	for i := 1; i < n-1; i++ {
		t := float64(i) / float64(n-1)

		// Local tangent from the neighboring points.
		tangent := points[i+1].Sub(points[i-1])
		if tangent.LengthSquared() < 1e-12 {
			continue
		}
		perp := tangent.Normalize().Perp()

		envelope := math.Sin(math.Pi * t)
		offset := amp * math.Sin(2*math.Pi*freq*t+phase) * envelope
		out[i] = points[i].Add(perp.Scale(offset))
	}
	return out
}

func unionRect(a, b Rect) Rect {
	if b.MinX < a.MinX {
		a.MinX = b.MinX
	}
	if b.MinY < a.MinY {
		a.MinY = b.MinY
	}
	if b.MaxX > a.MaxX {
		a.MaxX = b.MaxX
	}
	if b.MaxY > a.MaxY {
		a.MaxY = b.MaxY
	}
	return a
}
