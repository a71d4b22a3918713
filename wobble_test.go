package chalk

import (
	"math"
	"testing"
)

func TestWobblePoints_Deterministic(t *testing.T) {
	pts := manyPointLine(400)

	a := wobblePoints(pts, 2.0, 2.25, 42)
	b := wobblePoints(pts, 2.0, 2.25, 42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between identical runs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := wobblePoints(pts, 2.0, 2.25, 43)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical output")
	}
}

func TestWobblePoints_EndpointsFixed(t *testing.T) {
	pts := manyPointLine(400)
	out := wobblePoints(pts, 3.0, 2.25, 7)

	if out[0] != pts[0] {
		t.Errorf("first point moved: %+v", out[0])
	}
	if out[len(out)-1] != pts[len(pts)-1] {
		t.Errorf("last point moved: %+v", out[len(out)-1])
	}
}

func TestWobblePoints_DisplacementBounded(t *testing.T) {
	pts := manyPointLine(400)
	amp := 2.5
	out := wobblePoints(pts, amp, 2.25, 11)

	for i, p := range out {
		d := p.Distance(pts[i])
		if d > amp+1e-9 {
			t.Errorf("point %d displaced %v, amplitude %v", i, d, amp)
		}
	}
}

func TestWobblePoints_ZeroAmpIsIdentity(t *testing.T) {
	pts := manyPointLine(100)
	out := wobblePoints(pts, 0, 2.25, 1)
	for i := range pts {
		if out[i] != pts[i] {
			t.Fatalf("point %d moved with zero amplitude", i)
		}
	}
}

func TestApplyWobble_SuppressedForShortStrokes(t *testing.T) {
	b := NewBuilder(DefaultBuilderConfig())

	// A long stroke sets the object diagonal; the tick is well under 2% of it.
	long := manyPointLine(1000)
	tick := []Point{{0, 500}, {2, 500}, {4, 500}, {6, 500}}
	strokes := b.Build("mixed", Pt(500, 500), 1.0, [][]Point{long, tick}, nil, 1000, 1000)

	if len(strokes) != 2 {
		t.Fatalf("got %d strokes, want 2", len(strokes))
	}
	short := strokes[1]
	for i := range short.Points {
		if short.Points[i] != short.OriginalPoints[i] {
			t.Fatalf("short stroke point %d wobbled: %+v vs %+v",
				i, short.Points[i], short.OriginalPoints[i])
		}
	}
}

func TestApplyWobble_MetricsUnaffected(t *testing.T) {
	b := NewBuilder(DefaultBuilderConfig())
	strokes := b.Build("sq", Pt(500, 500), 1.0, [][]Point{squarePolyline()}, nil, 100, 100)

	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	s := strokes[0]

	// Metrics come from the pre-wobble geometry.
	if got := PathLength(s.OriginalPoints); math.Abs(got-s.LengthPx) > 1e-9 {
		t.Errorf("LengthPx %v does not match original geometry %v", s.LengthPx, got)
	}
	if len(s.Points) != len(s.OriginalPoints) {
		t.Errorf("wobble changed point count: %d vs %d", len(s.Points), len(s.OriginalPoints))
	}
}
