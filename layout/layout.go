// Package layout places text and image blocks on a paginated, optionally
// multi-column whiteboard surface without visual overlap.
//
// The layout model is deliberately one-directional: content flows down the
// current column, collision avoidance only ever pushes a candidate further
// down, and a column advance resets the cursor to the page top. Placement is
// best-effort, never an error.
package layout

import (
	"github.com/scribeware/chalk"
)

// Collision avoidance and column advance bounds.
const (
	// maxCollisionIters bounds the push-down loop. Past the bound the
	// best-effort y is returned rather than failing.
	maxCollisionIters = 100

	// columnAdvanceThreshold is the remaining vertical space, in page
	// units, below which auto-placement moves to the next column.
	columnAdvanceThreshold = 100.0
)

// Page describes the drawable page: outer size and margins.
type Page struct {
	Width, Height    float64
	MarginX, MarginY float64
}

// DefaultPage returns a 1920x1080 page with comfortable margins.
func DefaultPage() Page {
	return Page{Width: 1920, Height: 1080, MarginX: 80, MarginY: 60}
}

// Top returns the y coordinate of the content top.
func (p Page) Top() float64 { return p.MarginY }

// Bottom returns the y coordinate of the content bottom.
func (p Page) Bottom() float64 { return p.Height - p.MarginY }

// Left returns the x coordinate of the content left edge.
func (p Page) Left() float64 { return p.MarginX }

// ContentWidth returns the usable horizontal extent.
func (p Page) ContentWidth() float64 { return p.Width - 2*p.MarginX }

// ContentHeight returns the usable vertical extent.
func (p Page) ContentHeight() float64 { return p.Height - 2*p.MarginY }

// Columns configures an optional N-column layout with a gutter between
// columns.
type Columns struct {
	Count  int
	Gutter float64
}

// PlacedBlock records one block already placed on the page.
type PlacedBlock struct {
	ID     string
	Kind   string
	Bounds chalk.Rect
}

// State is the mutable layout state for one rendered page. It is owned by a
// single authoring/playback sequence and is not safe for concurrent use.
type State struct {
	Page    Page
	Columns *Columns // nil means a single full-width column

	CursorY     float64
	ColumnIndex int
	Blocks      []PlacedBlock
}

// NewState creates layout state with the cursor at the page top.
func NewState(page Page, cols *Columns) *State {
	return &State{Page: page, Columns: cols, CursorY: page.Top()}
}

// Reset clears the cursor, column index and placed blocks.
func (s *State) Reset() {
	s.CursorY = s.Page.Top()
	s.ColumnIndex = 0
	s.Blocks = s.Blocks[:0]
}

// columnCount returns the number of columns, at least 1.
func (s *State) columnCount() int {
	if s.Columns == nil || s.Columns.Count < 2 {
		return 1
	}
	return s.Columns.Count
}

// ColumnWidth returns the width of a single column.
func (s *State) ColumnWidth() float64 {
	n := s.columnCount()
	if n == 1 {
		return s.Page.ContentWidth()
	}
	return (s.Page.ContentWidth() - float64(n-1)*s.Columns.Gutter) / float64(n)
}

// ColumnLeft returns the x coordinate of the current column's left edge.
func (s *State) ColumnLeft() float64 {
	if s.columnCount() == 1 {
		return s.Page.Left()
	}
	return s.Page.Left() + float64(s.ColumnIndex)*(s.ColumnWidth()+s.Columns.Gutter)
}

// RemainingHeight returns the vertical space left between the cursor and
// the page bottom.
func (s *State) RemainingHeight() float64 {
	return s.Page.Bottom() - s.CursorY
}

// AdvanceColumn moves to the next column and resets the cursor to the page
// top. It returns false when no further column exists.
func (s *State) AdvanceColumn() bool {
	if s.ColumnIndex >= s.columnCount()-1 {
		return false
	}
	s.ColumnIndex++
	s.CursorY = s.Page.Top()
	return true
}

// AddBlock records a placed block for future collision checks.
func (s *State) AddBlock(b PlacedBlock) {
	s.Blocks = append(s.Blocks, b)
}

// RemoveGroup drops every placed block whose ID matches, used when an
// object is erased.
func (s *State) RemoveGroup(id string) {
	kept := s.Blocks[:0]
	for _, b := range s.Blocks {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	s.Blocks = kept
}

// NextFreeY finds the lowest y at or below startY where a w x h box at x
// does not intersect any placed block. A block whose ID equals ignoreID is
// skipped, which allows re-placing an existing block. On any intersection
// the candidate moves just below the colliding block plus margin and is
// retested; after maxCollisionIters the best-effort y is returned.
func (s *State) NextFreeY(x, w, h, startY, margin float64, ignoreID string) float64 {
	y := startY
	for iter := 0; iter < maxCollisionIters; iter++ {
		moved := false
		candidate := chalk.Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}

		for _, b := range s.Blocks {
			if ignoreID != "" && b.ID == ignoreID {
				continue
			}
			if candidate.Intersects(b.Bounds) {
				y = b.Bounds.MaxY + margin
				moved = true
				break
			}
		}
		if !moved {
			return y
		}
	}

	chalk.Logger().Warn("layout: collision loop hit iteration bound, returning best-effort y",
		"x", x, "startY", startY, "y", y)
	return y
}
