// Package board orchestrates authoring and playback of one whiteboard:
// it applies parsed timeline segments by fetching and vectorizing images,
// rendering text to strokes, placing everything collision-free, timing the
// result and holding the rendezvous barrier before segment advancement.
package board

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/scribeware/chalk"
	"github.com/scribeware/chalk/layout"
	"github.com/scribeware/chalk/playback"
	"github.com/scribeware/chalk/store"
	"github.com/scribeware/chalk/text"
	"github.com/scribeware/chalk/timeline"
	"github.com/scribeware/chalk/vectorize"
)

// TextStyle maps action kinds to handwriting sizes.
type TextStyle struct {
	HeadingSize   float64
	BulletSize    float64
	SubBulletSize float64
	LabelSize     float64
	FormulaSize   float64

	// LetterGap is extra horizontal spacing per glyph.
	LetterGap float64

	// Indent is the per-level horizontal inset for bullets.
	Indent float64

	// Margin is the vertical gap between placed blocks.
	Margin float64
}

// DefaultTextStyle returns sizes tuned for a 1920x1080 page.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		HeadingSize:   46,
		BulletSize:    34,
		SubBulletSize: 28,
		LabelSize:     24,
		FormulaSize:   36,
		LetterGap:     1.5,
		Indent:        42,
		Margin:        14,
	}
}

// sizeFor returns the handwriting size for an action kind.
func (st TextStyle) sizeFor(kind timeline.ActionKind) float64 {
	switch kind {
	case timeline.KindHeading:
		return st.HeadingSize
	case timeline.KindSubBullet:
		return st.SubBulletSize
	case timeline.KindLabel:
		return st.LabelSize
	case timeline.KindFormula:
		return st.FormulaSize
	default:
		return st.BulletSize
	}
}

// Options configures a Board.
type Options struct {
	BoardID string

	Builder *chalk.Builder
	Engine  *chalk.Engine

	// TextRenderer draws handwritten text. Required for text actions.
	TextRenderer *text.Renderer

	// Vectorizer extracts strokes from images. Required for image actions.
	Vectorizer vectorize.Client

	// Persist records object CRUD as fire-and-forget side effects.
	// Optional; a nil Persist disables persistence.
	Persist *store.Async

	// HTTPClient fetches source images. nil uses a bounded default.
	HTTPClient *http.Client

	// Tuning is forwarded opaquely to the vectorizer.
	Tuning vectorize.Tuning

	Style TextStyle

	// Status receives running human-readable progress lines. Optional.
	Status func(string)
}

// DrawnObject is one object's strokes in drawing order.
type DrawnObject struct {
	GroupID string
	Kind    timeline.ActionKind
	Strokes []*chalk.Stroke
}

// Board is the mutable authoring/playback state of one whiteboard page.
// It is owned by a single playback sequence and is not safe for concurrent
// use; only the EndTracker is shared across goroutines.
type Board struct {
	opts  Options
	state *layout.State

	objects []DrawnObject

	tracker *playback.EndTracker
	seq     atomic.Int64
}

// New creates a board over the given layout state.
func New(state *layout.State, opts Options) *Board {
	if opts.Builder == nil {
		opts.Builder = chalk.NewBuilder(chalk.DefaultBuilderConfig())
	}
	if opts.Engine == nil {
		opts.Engine = chalk.NewEngine(chalk.DefaultTimingConfig())
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: vectorize.DefaultTimeout}
	}
	if opts.Style == (TextStyle{}) {
		opts.Style = DefaultTextStyle()
	}
	return &Board{
		opts:    opts,
		state:   state,
		tracker: playback.NewEndTracker(),
	}
}

// Tracker returns the segment rendezvous barrier.
func (b *Board) Tracker() *playback.EndTracker {
	return b.tracker
}

// Objects returns the drawn objects in drawing order.
func (b *Board) Objects() []DrawnObject {
	return b.objects
}

// Strokes returns every stroke on the board in drawing order, the input
// expected by playback.Cutoff.
func (b *Board) Strokes() []*chalk.Stroke {
	var all []*chalk.Stroke
	for _, obj := range b.objects {
		all = append(all, obj.Strokes...)
	}
	return all
}

// Erase removes one object's strokes and layout block and issues the
// persistence delete as a side effect.
func (b *Board) Erase(groupID string) {
	kept := b.objects[:0]
	for _, obj := range b.objects {
		if obj.GroupID != groupID {
			kept = append(kept, obj)
		}
	}
	b.objects = kept
	b.state.RemoveGroup(groupID)

	if b.opts.Persist != nil {
		b.opts.Persist.DeleteAsync(b.opts.BoardID, groupID)
	}
}

// Clear erases the whole board and resets layout state.
func (b *Board) Clear() {
	b.objects = nil
	b.state.Reset()
	b.tracker.Clear()
}

// nextGroupID mints a unique object name.
func (b *Board) nextGroupID(kind timeline.ActionKind) string {
	return kind.String() + "-" + strconv.FormatInt(b.seq.Add(1), 10)
}

// setStatus publishes a human-readable progress line.
func (b *Board) setStatus(msg string) {
	if b.opts.Status != nil {
		b.opts.Status(msg)
	}
}
