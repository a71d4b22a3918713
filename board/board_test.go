package board

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/scribeware/chalk"
	"github.com/scribeware/chalk/layout"
	"github.com/scribeware/chalk/timeline"
	"github.com/scribeware/chalk/vectorize"
)

// stubVectorizer returns a fixed rectangle contour unless polys or err
// override the result.
type stubVectorizer struct {
	calls int
	polys []vectorize.Polyline
	err   error
}

func (v *stubVectorizer) Vectorize(ctx context.Context, imageBytes []byte, tuning vectorize.Tuning) ([]vectorize.Polyline, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	if v.polys != nil {
		return v.polys, nil
	}
	return []vectorize.Polyline{
		{{X: 0, Y: 0}, {X: 80, Y: 0}, {X: 80, Y: 60}, {X: 0, Y: 60}, {X: 0, Y: 0}},
	}, nil
}

// pngBase64 encodes a small PNG as base64 for ImageBase64 actions.
func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestBoard(v vectorize.Client) *Board {
	state := layout.NewState(layout.DefaultPage(), nil)
	return New(state, Options{
		BoardID:    "test-board",
		Vectorizer: v,
	})
}

func imageAction(t *testing.T) timeline.DrawingAction {
	return timeline.DrawingAction{
		Kind:        timeline.KindSketchImage,
		ImageBase64: pngBase64(t, 80, 60),
	}
}

func TestBoard_ApplySegment_Images(t *testing.T) {
	vec := &stubVectorizer{}
	b := newTestBoard(vec)

	seg := &timeline.Segment{
		Sequence:            1,
		ActualAudioDuration: 4,
		Actions: []timeline.DrawingAction{
			imageAction(t),
			imageAction(t),
		},
	}

	res := b.ApplySegment(context.Background(), seg)
	if res.Failed != 0 {
		t.Fatalf("Failed = %d, want 0", res.Failed)
	}
	if vec.calls != 2 {
		t.Errorf("vectorizer ran %d times, want 2", vec.calls)
	}
	if len(b.Objects()) != 2 {
		t.Fatalf("got %d objects, want 2", len(b.Objects()))
	}
	if res.ImageSeconds <= 0 {
		t.Errorf("ImageSeconds = %v, want > 0", res.ImageSeconds)
	}
	if res.TextSeconds != 0 {
		t.Errorf("TextSeconds = %v, want 0 for an image-only segment", res.TextSeconds)
	}
	if len(b.Strokes()) == 0 {
		t.Error("board has no strokes after applying images")
	}

	// The tracker is armed with the image drawing duration.
	if b.Tracker().CanAdvance() {
		t.Error("tracker should be pending right after ApplySegment")
	}
	if b.Tracker().Remaining() <= 0 {
		t.Error("tracker Remaining should be positive")
	}

	// Analysis counted the image actions.
	if res.Analysis.ImageActionCount != 2 {
		t.Errorf("ImageActionCount = %d, want 2", res.Analysis.ImageActionCount)
	}
	if res.Analysis.ImageSeconds != 6.0 {
		t.Errorf("analysis ImageSeconds = %v, want 6.0", res.Analysis.ImageSeconds)
	}
}

func TestBoard_ApplySegment_IsolatesFailures(t *testing.T) {
	vec := &stubVectorizer{}
	b := newTestBoard(vec)

	seg := &timeline.Segment{
		Actions: []timeline.DrawingAction{
			{Kind: timeline.KindSketchImage, ImageURL: ""}, // no source at all
			imageAction(t),
			{Kind: timeline.KindHeading, Text: "title"}, // no text renderer
		},
	}

	res := b.ApplySegment(context.Background(), seg)
	if res.Failed != 2 {
		t.Errorf("Failed = %d, want 2", res.Failed)
	}
	if len(b.Objects()) != 1 {
		t.Errorf("got %d objects, want 1 (only the good image)", len(b.Objects()))
	}
}

func TestBoard_ApplySegment_FailedVectorizeLeavesLayoutUntouched(t *testing.T) {
	state := layout.NewState(layout.DefaultPage(), nil)
	b := New(state, Options{
		BoardID:    "test-board",
		Vectorizer: &stubVectorizer{err: errors.New("service down")},
	})
	startY := state.CursorY

	seg := &timeline.Segment{Actions: []timeline.DrawingAction{imageAction(t)}}
	res := b.ApplySegment(context.Background(), seg)

	if res.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", res.Failed)
	}
	if len(state.Blocks) != 0 {
		t.Errorf("got %d placed blocks after failed action, want 0", len(state.Blocks))
	}
	if state.CursorY != startY {
		t.Errorf("cursor moved %v -> %v on failed action", startY, state.CursorY)
	}
	if state.ColumnIndex != 0 {
		t.Errorf("ColumnIndex = %d, want 0", state.ColumnIndex)
	}
}

func TestBoard_ApplySegment_StrokelessImageRollsBackPlacement(t *testing.T) {
	// Single-point contours survive vectorization but build no strokes,
	// so the failure surfaces only after the block was placed.
	state := layout.NewState(layout.DefaultPage(), nil)
	b := New(state, Options{
		BoardID:    "test-board",
		Vectorizer: &stubVectorizer{polys: []vectorize.Polyline{{{X: 1, Y: 1}}}},
	})
	startY := state.CursorY

	seg := &timeline.Segment{Actions: []timeline.DrawingAction{imageAction(t)}}
	res := b.ApplySegment(context.Background(), seg)

	if res.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", res.Failed)
	}
	if len(state.Blocks) != 0 {
		t.Errorf("placement not rolled back, %d blocks remain", len(state.Blocks))
	}
	if state.CursorY != startY {
		t.Errorf("cursor not restored: %v -> %v", startY, state.CursorY)
	}
}

func TestBoard_ApplySegment_ExplicitPlacement(t *testing.T) {
	b := newTestBoard(&stubVectorizer{})

	a := imageAction(t)
	a.Placement = &timeline.Placement{X: 1000, Y: 400, Width: 160, Height: 120}

	seg := &timeline.Segment{Actions: []timeline.DrawingAction{a}}
	if res := b.ApplySegment(context.Background(), seg); res.Failed != 0 {
		t.Fatalf("Failed = %d, want 0", res.Failed)
	}

	// Every stroke stays within the pinned region, generously padded for
	// wobble.
	bounds := chalk.BoundsOf(allPoints(b.Strokes()))
	if bounds.MinX < 990 || bounds.MaxX > 1170 || bounds.MinY < 390 || bounds.MaxY > 530 {
		t.Errorf("stroke bounds %+v escape placement (1000,400,160,120)", bounds)
	}
}

func TestBoard_Erase(t *testing.T) {
	b := newTestBoard(&stubVectorizer{})

	seg := &timeline.Segment{Actions: []timeline.DrawingAction{imageAction(t), imageAction(t)}}
	if res := b.ApplySegment(context.Background(), seg); res.Failed != 0 {
		t.Fatalf("Failed = %d, want 0", res.Failed)
	}

	victim := b.Objects()[0].GroupID
	b.Erase(victim)

	if len(b.Objects()) != 1 {
		t.Fatalf("got %d objects after erase, want 1", len(b.Objects()))
	}
	if b.Objects()[0].GroupID == victim {
		t.Error("erased object still present")
	}
}

func TestBoard_Clear(t *testing.T) {
	b := newTestBoard(&stubVectorizer{})
	seg := &timeline.Segment{Actions: []timeline.DrawingAction{imageAction(t)}}
	b.ApplySegment(context.Background(), seg)

	b.Clear()
	if len(b.Objects()) != 0 || len(b.Strokes()) != 0 {
		t.Error("board not empty after Clear")
	}
	if !b.Tracker().CanAdvance() {
		t.Error("tracker still pending after Clear")
	}
}

func TestBoard_GroupIDsAreUnique(t *testing.T) {
	b := newTestBoard(&stubVectorizer{})
	seg := &timeline.Segment{Actions: []timeline.DrawingAction{
		imageAction(t), imageAction(t), imageAction(t),
	}}
	b.ApplySegment(context.Background(), seg)

	seen := make(map[string]bool)
	for _, obj := range b.Objects() {
		if seen[obj.GroupID] {
			t.Errorf("duplicate group id %q", obj.GroupID)
		}
		seen[obj.GroupID] = true
	}
}

func TestIndentLevel(t *testing.T) {
	tests := []struct {
		name string
		a    timeline.DrawingAction
		want int
	}{
		{"heading", timeline.DrawingAction{Kind: timeline.KindHeading}, 0},
		{"bullet", timeline.DrawingAction{Kind: timeline.KindBullet}, 1},
		{"subbullet", timeline.DrawingAction{Kind: timeline.KindSubBullet}, 2},
		{"label with level", timeline.DrawingAction{Kind: timeline.KindLabel, Level: 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := indentLevel(tt.a); got != tt.want {
				t.Errorf("indentLevel = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTextStyle_SizeFor(t *testing.T) {
	st := DefaultTextStyle()
	if st.sizeFor(timeline.KindHeading) != st.HeadingSize {
		t.Error("heading size mismatch")
	}
	if st.sizeFor(timeline.KindBullet) != st.BulletSize {
		t.Error("bullet size mismatch")
	}
	if st.sizeFor(timeline.KindFormula) != st.FormulaSize {
		t.Error("formula size mismatch")
	}
}
