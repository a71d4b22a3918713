package board

import (
	"context"

	"github.com/scribeware/chalk"
	"github.com/scribeware/chalk/layout"
	"github.com/scribeware/chalk/store"
	"github.com/scribeware/chalk/timeline"
)

// Restore reconstructs the board's stroke sets from persisted records.
// Records are replayed through the same build pipelines as live authoring;
// a record that fails to rebuild (missing font glyphs, unreachable image)
// is logged and skipped so the rest of the board still loads.
func (b *Board) Restore(ctx context.Context, st *store.Store) error {
	records, err := st.List(ctx, b.opts.BoardID)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if err := b.restoreObject(ctx, rec); err != nil {
			chalk.Logger().Warn("board: restore skipped object",
				"name", rec.Name, "kind", rec.Kind, "error", err)
		}
	}
	return nil
}

func (b *Board) restoreObject(ctx context.Context, rec store.BoardObject) error {
	switch rec.Kind {
	case store.KindText:
		if b.opts.TextRenderer == nil {
			return errNoRenderer
		}
		name, ok := textNameFromMetadata(rec)
		if !ok {
			return errNoText
		}
		strokes := b.opts.TextRenderer.RenderText(rec.Name, name,
			chalk.Pt(rec.PosX, rec.PosY), rec.LetterSize, rec.LetterGap)
		if len(strokes) == 0 {
			return errNoText
		}
		b.opts.Engine.TimeStrokes(strokes, chalk.ModeText)
		b.objects = append(b.objects, DrawnObject{
			GroupID: rec.Name, Kind: timeline.KindBullet, Strokes: strokes,
		})
		b.state.AddBlock(layout.PlacedBlock{
			ID:     rec.Name,
			Kind:   rec.Kind,
			Bounds: chalk.BoundsOf(allPoints(strokes)),
		})
		return nil

	case store.KindImage, store.KindSketchImage:
		if b.opts.Vectorizer == nil || rec.ImageURL == "" {
			return errNoImage
		}
		action := timeline.DrawingAction{
			Kind:     timeline.KindSketchImage,
			ImageURL: rec.ImageURL,
			Placement: &timeline.Placement{
				X: rec.PosX, Y: rec.PosY,
				Width: rec.Width, Height: rec.Height,
			},
			Metadata: rec.Metadata,
		}
		obj, err := b.applyImage(ctx, action)
		if err != nil {
			return err
		}
		b.objects = append(b.objects, obj)
		return nil

	default:
		return errUnknownKind
	}
}

// textNameFromMetadata recovers the original text payload stored alongside
// a text record.
func textNameFromMetadata(rec store.BoardObject) (string, bool) {
	if rec.Metadata == nil {
		return "", false
	}
	s, ok := rec.Metadata["text"].(string)
	return s, ok && s != ""
}

// allPoints flattens stroke display points for a bounds computation.
func allPoints(strokes []*chalk.Stroke) []chalk.Point {
	var pts []chalk.Point
	for _, s := range strokes {
		pts = append(pts, s.Points...)
	}
	return pts
}
