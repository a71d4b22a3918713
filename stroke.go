package chalk

// Stroke is one continuous drawable path, the atomic animatable unit.
//
// Strokes are created by a Builder and re-timed by an Engine whenever the
// timing configuration or stroke ordering changes. All geometry metrics
// (LengthPx, Centroid, Bounds, CurvatureDeg and the cumulative arrays) are
// computed from OriginalPoints, before wobble displacement; Points carries
// the displaced geometry a consumer actually paints.
type Stroke struct {
	// GroupID names the logical object this stroke belongs to, so a whole
	// object can be erased as one unit.
	GroupID string

	// Origin and Scale are the placement parameters of the owning object.
	Origin Point
	Scale  float64

	// Points is the display geometry, post-wobble.
	Points []Point

	// OriginalPoints is the pre-wobble geometry used for all metrics.
	OriginalPoints []Point

	LengthPx     float64
	Centroid     Point
	Bounds       Rect
	CurvatureDeg float64

	// CumGeomLen[i] is the geometric arclength from the first point up to
	// point i. CumDrawCost[i] is the curvature-weighted drawing cost over the
	// same prefix. Both are monotonically non-decreasing, have exactly
	// len(Points) entries, and CumDrawCost[len-1] == DrawCostTotal.
	CumGeomLen  []float64
	CumDrawCost []float64

	// DrawCostTotal is the total curvature-weighted cost of the stroke.
	DrawCostTotal float64

	// Timing fields, assigned by an Engine. Invariant:
	// TimeWeight == TravelBeforeSec + DrawTimeSec.
	DrawTimeSec     float64
	TravelBeforeSec float64
	TimeWeight      float64
}

// First returns the first pre-wobble point of the stroke.
func (s *Stroke) First() Point {
	return s.OriginalPoints[0]
}

// Last returns the last pre-wobble point of the stroke.
func (s *Stroke) Last() Point {
	return s.OriginalPoints[len(s.OriginalPoints)-1]
}

// TotalWeight returns the sum of the time weights of strokes.
func TotalWeight(strokes []*Stroke) float64 {
	var total float64
	for _, s := range strokes {
		total += s.TimeWeight
	}
	return total
}
