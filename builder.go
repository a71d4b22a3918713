package chalk

import "math"

// Cubic is a cubic Bezier segment. A raw curve stroke is an ordered
// sequence of these.
type Cubic struct {
	P0, C1, C2, P1 Point
}

// Eval evaluates the curve at parameter t using de Casteljau's algorithm.
func (c Cubic) Eval(t float64) Point {
	q0 := c.P0.Lerp(c.C1, t)
	q1 := c.C1.Lerp(c.C2, t)
	q2 := c.C2.Lerp(c.P1, t)
	r0 := q0.Lerp(q1, t)
	r1 := q1.Lerp(q2, t)
	return r0.Lerp(r1, t)
}

// BuilderConfig holds the geometry-shaping parameters of a Builder.
type BuilderConfig struct {
	// TargetResolution is the reference display resolution. Raw input is
	// upscaled by TargetResolution / max(sourceW, sourceH) before the
	// object scale is applied.
	TargetResolution float64

	// MaxDisplayPoints is the per-stroke point budget at object scale 1.0.
	MaxDisplayPoints int

	// CurveSteps is the number of samples per cubic segment.
	CurveSteps int

	// DuplicateEps is the minimum distance between consecutive sampled
	// points; nearer points are skipped.
	DuplicateEps float64

	// CurvatureProfile scales how strongly corners slow the drawing pace.
	CurvatureProfile float64

	// AngleScaleDeg is the turning angle (degrees) that corresponds to
	// full sharpness.
	AngleScaleDeg float64

	// Wobble controls the hand-drawn displacement applied to display points.
	Wobble WobbleConfig

	// Timing provides the initial per-stroke draw time, so a stroke is
	// valid even before a batch-level timing pass runs.
	Timing TimingConfig
}

// DefaultBuilderConfig returns a BuilderConfig with default settings.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		TargetResolution: 1000,
		MaxDisplayPoints: 120,
		CurveSteps:       16,
		DuplicateEps:     0.25,
		CurvatureProfile: 0.8,
		AngleScaleDeg:    45,
		Wobble:           DefaultWobbleConfig(),
		Timing:           DefaultTimingConfig(),
	}
}

// Builder converts raw polylines and cubic curves plus placement parameters
// into fully described animatable strokes.
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder creates a Builder with the given configuration.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Config returns the builder configuration.
func (b *Builder) Config() BuilderConfig {
	return b.cfg
}

// Build converts raw geometry into placed, animatable strokes.
//
// All input strokes are translated as one rigid unit: the shared geometric
// center of the combined input lands at origin after scaling, so multi-stroke
// objects keep their internal arrangement. Strokes that end up with fewer
// than 2 points are dropped silently; that is expected for degenerate input,
// not an error.
func (b *Builder) Build(groupID string, origin Point, objectScale float64, polylines [][]Point, curves [][]Cubic, sourceW, sourceH float64) []*Stroke {
	raw := make([][]Point, 0, len(polylines)+len(curves))
	for _, pl := range polylines {
		raw = append(raw, b.dedupe(pl))
	}
	for _, cv := range curves {
		raw = append(raw, b.sampleCurve(cv))
	}

	if objectScale <= 0 {
		objectScale = 1.0
	}

	maxDim := math.Max(sourceW, sourceH)
	if maxDim <= 0 {
		maxDim = 1
	}
	scale := (b.cfg.TargetResolution / maxDim) * objectScale

	// Shared center of the combined input, so the object stays rigid.
	var all []Point
	for _, pts := range raw {
		all = append(all, pts...)
	}
	center := BoundsOf(all).Center()

	budget := b.pointBudget(objectScale)

	strokes := make([]*Stroke, 0, len(raw))
	for _, pts := range raw {
		if len(pts) < 2 {
			continue
		}

		placed := make([]Point, len(pts))
		for i, p := range pts {
			placed[i] = Point{
				X: origin.X + (p.X-center.X)*scale,
				Y: origin.Y + (p.Y-center.Y)*scale,
			}
		}

		placed = resampleUniform(placed, budget)
		if len(placed) < 2 {
			continue
		}

		s := &Stroke{
			GroupID:        groupID,
			Origin:         origin,
			Scale:          objectScale,
			OriginalPoints: placed,
			LengthPx:       PathLength(placed),
			Centroid:       CentroidOf(placed),
			Bounds:         BoundsOf(placed),
			CurvatureDeg:   CurvatureDeg(placed),
		}
		b.accumulateCost(s)
		strokes = append(strokes, s)
	}

	b.applyWobble(strokes, origin)

	// Initial timing so strokes are animatable before a batch pass runs.
	for _, s := range strokes {
		s.DrawTimeSec = objectDrawTime(s, b.cfg.Timing)
		s.TravelBeforeSec = 0
		s.TimeWeight = s.DrawTimeSec
	}

	return strokes
}

// pointBudget returns the per-stroke point budget for an object scale.
// The budget grows sub-linearly above scale 1.0 so large objects do not
// explode in point count.
func (b *Builder) pointBudget(objectScale float64) int {
	factor := objectScale
	if objectScale > 1 {
		factor = 1 + 0.4*(objectScale-1)
	}
	factor = clamp(factor, 0.1, 3.0)

	budget := int(math.Round(float64(b.cfg.MaxDisplayPoints) * factor))
	if budget < 8 {
		budget = 8
	}
	if budget > b.cfg.MaxDisplayPoints {
		budget = b.cfg.MaxDisplayPoints
	}
	return budget
}

// sampleCurve samples a sequence of cubic segments into a polyline with a
// fixed number of steps per segment, skipping near-duplicate points.
func (b *Builder) sampleCurve(segments []Cubic) []Point {
	steps := b.cfg.CurveSteps
	if steps < 2 {
		steps = 2
	}

	var pts []Point
	for _, seg := range segments {
		for i := 0; i <= steps; i++ {
			p := seg.Eval(float64(i) / float64(steps))
			if n := len(pts); n > 0 && p.Distance(pts[n-1]) < b.cfg.DuplicateEps {
				continue
			}
			pts = append(pts, p)
		}
	}
	return pts
}

// dedupe drops consecutive points closer than DuplicateEps.
func (b *Builder) dedupe(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]Point, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if p.Distance(out[len(out)-1]) < b.cfg.DuplicateEps {
			continue
		}
		out = append(out, p)
	}
	return out
}

// resampleUniform resamples points to at most budget points, spaced
// uniformly by arclength. The first and last points are always preserved.
func resampleUniform(points []Point, budget int) []Point {
	if len(points) <= budget {
		return points
	}

	total := PathLength(points)
	if total <= 0 {
		// All points coincide; keep the endpoints only.
		return []Point{points[0], points[len(points)-1]}
	}

	out := make([]Point, 0, budget)
	out = append(out, points[0])

	step := total / float64(budget-1)
	target := step
	var walked float64

	for i := 1; i < len(points) && len(out) < budget-1; i++ {
		seg := points[i].Distance(points[i-1])
		for walked+seg >= target && len(out) < budget-1 {
			t := (target - walked) / seg
			out = append(out, points[i-1].Lerp(points[i], t))
			target += step
		}
		walked += seg
	}

	out = append(out, points[len(points)-1])
	return out
}

// accumulateCost fills the stroke's cumulative arclength and draw-cost
// arrays. The per-segment cost is the geometric length times a slowdown
// factor derived from the exponentially smoothed local sharpness, which
// makes corners draw more slowly than straight runs.
func (b *Builder) accumulateCost(s *Stroke) {
	pts := s.OriginalPoints
	n := len(pts)
	s.CumGeomLen = make([]float64, n)
	s.CumDrawCost = make([]float64, n)

	var smoothed float64
	for i := 1; i < n; i++ {
		seg := pts[i].Distance(pts[i-1])

		var sharp float64
		if i >= 2 {
			turn := turningAngleDeg(pts[i-2], pts[i-1], pts[i])
			sharp = clamp(turn/b.cfg.AngleScaleDeg, 0, 1.5)
		}
		smoothed = 0.7*smoothed + 0.3*sharp

		cost := seg * (1 + b.cfg.CurvatureProfile*smoothed)
		s.CumGeomLen[i] = s.CumGeomLen[i-1] + seg
		s.CumDrawCost[i] = s.CumDrawCost[i-1] + cost
	}

	s.DrawCostTotal = s.CumDrawCost[n-1]
	if s.DrawCostTotal <= 0 {
		// Degenerate stroke: substitute a uniform linear ramp so cost-based
		// lookups remain well-defined.
		for i := range s.CumDrawCost {
			s.CumDrawCost[i] = float64(i)
		}
		s.DrawCostTotal = float64(n - 1)
	}
}

// turningAngleDeg returns the unsigned angle in degrees between the segment
// vectors a->b and b->c, or 0 when either segment is degenerate.
func turningAngleDeg(a, b, c Point) float64 {
	v0 := b.Sub(a)
	v1 := c.Sub(b)
	if v0.LengthSquared() < 1e-12 || v1.LengthSquared() < 1e-12 {
		return 0
	}
	dot := v0.Normalize().Dot(v1.Normalize())
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot) * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
