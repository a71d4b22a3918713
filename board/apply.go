package board

import (
	"context"
	"fmt"
	"time"

	"github.com/scribeware/chalk"
	"github.com/scribeware/chalk/layout"
	"github.com/scribeware/chalk/store"
	"github.com/scribeware/chalk/timeline"
	"github.com/scribeware/chalk/vectorize"
)

// errGrace is the bounded delay added before segment advancement when an
// action failed, so playback never hard-stops on a bad asset.
const errGrace = 1500 * time.Millisecond

// SegmentResult summarizes one applied segment.
type SegmentResult struct {
	Analysis chalk.DurationAnalysis

	// TextSeconds and ImageSeconds are the drawing durations actually
	// produced, after timing.
	TextSeconds  float64
	ImageSeconds float64

	// Failed counts actions that were skipped after an isolated failure.
	Failed int
}

// ApplySegment applies every drawing action of a parsed segment to the
// board and arms the rendezvous tracker with the resulting drawing
// durations. Each action's fetch/vectorize/place sequence is isolated: a
// failure is logged, surfaced as status, and the remaining actions still
// process.
func (b *Board) ApplySegment(ctx context.Context, seg *timeline.Segment) SegmentResult {
	b.tracker.Clear()

	res := SegmentResult{
		Analysis: b.opts.Engine.AnalyzeDurations(
			seg.TextPayloads(), seg.ImageActionCount(),
			seg.ActualAudioDuration, chalk.DefaultAnalysisConfig()),
	}
	chalk.Logger().Info("board: segment analysis",
		"sequence", seg.Sequence,
		"chars", res.Analysis.TotalChars,
		"dictation", res.Analysis.IsDictation,
		"drawSeconds", res.Analysis.DrawSeconds)

	for i, action := range seg.Actions {
		b.setStatus(fmt.Sprintf("drawing %s (%d/%d)", action.Kind, i+1, len(seg.Actions)))

		obj, err := b.applyAction(ctx, action)
		if err != nil {
			res.Failed++
			chalk.Logger().Warn("board: action skipped",
				"kind", action.Kind.String(), "error", err)
			b.setStatus(fmt.Sprintf("skipped %s: %v", action.Kind, err))
			continue
		}

		b.objects = append(b.objects, obj)
		dur := b.opts.Engine.TotalDuration(obj.Strokes)
		if action.Kind.IsText() {
			res.TextSeconds += dur
		} else {
			res.ImageSeconds += dur
		}
	}

	grace := time.Duration(0)
	if res.Failed > 0 {
		grace = errGrace
	}
	if res.TextSeconds > 0 {
		b.tracker.SetTextEnd(secondsToDuration(res.TextSeconds) + grace)
	}
	if res.ImageSeconds > 0 {
		b.tracker.SetImageEnd(secondsToDuration(res.ImageSeconds) + grace)
	}
	return res
}

// WaitSegment blocks until both the audio and the drawing timeline of the
// current segment have finished, or ctx is canceled.
func (b *Board) WaitSegment(ctx context.Context) error {
	return b.tracker.Wait(ctx)
}

// applyAction routes one action to its pipeline.
func (b *Board) applyAction(ctx context.Context, a timeline.DrawingAction) (DrawnObject, error) {
	if a.Kind.IsText() {
		return b.applyText(a)
	}
	return b.applyImage(ctx, a)
}

// applyText renders handwritten text, reserves a layout slot, and times the
// strokes as one continuous gesture.
func (b *Board) applyText(a timeline.DrawingAction) (DrawnObject, error) {
	if b.opts.TextRenderer == nil {
		return DrawnObject{}, errNoRenderer
	}

	style := b.opts.Style
	size := style.sizeFor(a.Kind)
	groupID := b.nextGroupID(a.Kind)

	w, h := b.opts.TextRenderer.Measure(a.Text, size, style.LetterGap)
	indent := style.Indent * float64(indentLevel(a))

	prevY, prevCol := b.state.CursorY, b.state.ColumnIndex

	var origin chalk.Point
	if a.Placement != nil {
		origin = chalk.Pt(a.Placement.X+w/2, a.Placement.Y+h/2)
		b.state.AddBlock(layout.PlacedBlock{
			ID:   groupID,
			Kind: a.Kind.String(),
			Bounds: chalk.Rect{
				MinX: a.Placement.X, MinY: a.Placement.Y,
				MaxX: a.Placement.X + w, MaxY: a.Placement.Y + h,
			},
		})
	} else {
		plc := b.state.PlaceBlock(groupID, a.Kind.String(), indent+w, h, style.Margin)
		origin = chalk.Pt(plc.X+indent+w/2, plc.Y+h/2)
	}

	strokes := b.opts.TextRenderer.RenderText(groupID, a.Text, origin, size, style.LetterGap)
	if len(strokes) == 0 {
		b.rollbackPlacement(groupID, prevY, prevCol)
		return DrawnObject{}, fmt.Errorf("text %q produced no strokes", a.Text)
	}
	b.opts.Engine.TimeStrokes(strokes, chalk.ModeText)

	// The text payload rides along in metadata so Restore can re-render it.
	meta := map[string]any{"text": a.Text}
	for k, v := range a.Metadata {
		meta[k] = v
	}
	b.persist(store.BoardObject{
		BoardID:    b.opts.BoardID,
		Name:       groupID,
		Kind:       store.KindText,
		PosX:       origin.X,
		PosY:       origin.Y,
		Scale:      1,
		LetterSize: size,
		LetterGap:  style.LetterGap,
		Metadata:   meta,
	})
	return DrawnObject{GroupID: groupID, Kind: a.Kind, Strokes: strokes}, nil
}

// applyImage fetches, normalizes and vectorizes an image, places it, and
// times the strokes in object mode.
func (b *Board) applyImage(ctx context.Context, a timeline.DrawingAction) (DrawnObject, error) {
	if b.opts.Vectorizer == nil {
		return DrawnObject{}, errNoVector
	}

	groupID := b.nextGroupID(a.Kind)

	data, err := vectorize.FetchImage(ctx, b.opts.HTTPClient, a.ImageURL, a.ImageBase64)
	if err != nil {
		return DrawnObject{}, err
	}
	data, err = vectorize.NormalizeImage(data)
	if err != nil {
		return DrawnObject{}, err
	}
	imgW, imgH, err := vectorize.ImageSize(data)
	if err != nil {
		return DrawnObject{}, err
	}

	// Vectorize before touching layout state, so a bad asset never
	// reserves a block or moves the cursor.
	polys, err := b.opts.Vectorizer.Vectorize(ctx, data, b.opts.Tuning)
	if err != nil {
		return DrawnObject{}, err
	}

	var explicit *layout.ExplicitPlacement
	if a.Placement != nil {
		explicit = &layout.ExplicitPlacement{
			X: a.Placement.X, Y: a.Placement.Y,
			Width: a.Placement.Width, Height: a.Placement.Height,
			Scale: a.Placement.Scale,
		}
	}
	prevY, prevCol := b.state.CursorY, b.state.ColumnIndex
	plc := b.state.PlaceImage(float64(imgW), float64(imgH), layout.ImageOptions{
		ID:       groupID,
		Explicit: explicit,
		Margin:   b.opts.Style.Margin,
	})
	if plc.ColumnAdvanced {
		chalk.Logger().Debug("board: image advanced column", "group", groupID)
	}

	// Convert placement size to the builder's object scale: the effective
	// scale must map source pixels onto the placed width.
	cfg := b.opts.Builder.Config()
	maxDim := float64(imgW)
	if imgH > imgW {
		maxDim = float64(imgH)
	}
	objectScale := (plc.Width / float64(imgW)) * maxDim / cfg.TargetResolution

	origin := chalk.Pt(plc.X+plc.Width/2, plc.Y+plc.Height/2)
	lines := make([][]chalk.Point, len(polys))
	for i, p := range polys {
		lines[i] = []chalk.Point(p)
	}
	strokes := b.opts.Builder.Build(groupID, origin, objectScale, lines, nil, float64(imgW), float64(imgH))
	if len(strokes) == 0 {
		b.rollbackPlacement(groupID, prevY, prevCol)
		return DrawnObject{}, fmt.Errorf("image produced no strokes")
	}
	b.opts.Engine.TimeStrokes(strokes, chalk.ModeObject)

	b.persist(store.BoardObject{
		BoardID:  b.opts.BoardID,
		Name:     groupID,
		Kind:     store.KindSketchImage,
		PosX:     plc.X,
		PosY:     plc.Y,
		Scale:    objectScale,
		Width:    plc.Width,
		Height:   plc.Height,
		ImageURL: a.ImageURL,
		Metadata: a.Metadata,
	})
	return DrawnObject{GroupID: groupID, Kind: a.Kind, Strokes: strokes}, nil
}

// rollbackPlacement undoes a block reservation after a failed action so
// layout state never records work that produced no strokes.
func (b *Board) rollbackPlacement(groupID string, cursorY float64, column int) {
	b.state.RemoveGroup(groupID)
	b.state.CursorY = cursorY
	b.state.ColumnIndex = column
}

// persist issues a non-blocking save when persistence is configured.
// Sync failures never mutate board state; they surface as status only.
func (b *Board) persist(obj store.BoardObject) {
	if b.opts.Persist != nil {
		b.opts.Persist.SaveAsync(obj)
	}
}

// indentLevel maps an action to its bullet indent level.
func indentLevel(a timeline.DrawingAction) int {
	switch a.Kind {
	case timeline.KindBullet:
		return 1
	case timeline.KindSubBullet:
		return 2
	default:
		if a.Level > 0 {
			return a.Level
		}
		return 0
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
