package layout

import "github.com/scribeware/chalk"

// DefaultMaxWidthFrac is the fraction of the column width an auto-placed
// image may occupy.
const DefaultMaxWidthFrac = 0.85

// ExplicitPlacement pins an image to caller-provided coordinates. Width and
// Height of 0 fall back to the column default with aspect ratio preserved;
// Scale of 0 means 1.0.
type ExplicitPlacement struct {
	X, Y          float64
	Width, Height float64
	Scale         float64
}

// ImageOptions configures PlaceImage.
type ImageOptions struct {
	// ID identifies the placed block for collision bookkeeping.
	ID string

	// Explicit pins the image instead of auto-placing it.
	Explicit *ExplicitPlacement

	// MaxWidthFrac caps the image width as a fraction of the column
	// width. 0 means DefaultMaxWidthFrac.
	MaxWidthFrac float64

	// Margin is the vertical gap kept below colliding blocks and after
	// the placed image.
	Margin float64
}

// PlacementResult is the outcome of one image placement.
type PlacementResult struct {
	X, Y          float64
	Width, Height float64

	// ColumnAdvanced reports that auto-placement moved to the next column
	// before placing; callers may re-flow subsequent content.
	ColumnAdvanced bool
}

// PlaceImage computes a collision-free placement for an image of intrinsic
// size imgW x imgH, records the block, and advances the cursor past it.
//
// With an explicit placement the coordinates are used as given; width and
// height default to the column fraction with aspect ratio preserved, and an
// optional scale multiplies both. Otherwise the image is centered in the
// current column; when the remaining vertical space is under the advance
// threshold and another column exists, placement moves there first.
func (s *State) PlaceImage(imgW, imgH float64, opts ImageOptions) PlacementResult {
	if imgW <= 0 {
		imgW = 1
	}
	if imgH <= 0 {
		imgH = 1
	}
	frac := opts.MaxWidthFrac
	if frac <= 0 {
		frac = DefaultMaxWidthFrac
	}

	var res PlacementResult
	if opts.Explicit != nil {
		res = s.placeExplicit(imgW, imgH, frac, *opts.Explicit)
	} else {
		res = s.placeAuto(imgW, imgH, frac, opts.Margin, opts.ID)
	}

	s.AddBlock(PlacedBlock{
		ID:     opts.ID,
		Kind:   "image",
		Bounds: boundsOfPlacement(res),
	})
	if bottom := res.Y + res.Height + opts.Margin; bottom > s.CursorY {
		s.CursorY = bottom
	}
	return res
}

// placeExplicit applies caller-pinned coordinates.
func (s *State) placeExplicit(imgW, imgH, frac float64, ex ExplicitPlacement) PlacementResult {
	w := ex.Width
	if w <= 0 {
		w = s.ColumnWidth() * frac
	}
	h := ex.Height
	if h <= 0 {
		h = w * imgH / imgW
	}
	if ex.Scale > 0 {
		w *= ex.Scale
		h *= ex.Scale
	}
	return PlacementResult{X: ex.X, Y: ex.Y, Width: w, Height: h}
}

// placeAuto centers the image in the current column, advancing to the next
// column when the current one is nearly full.
func (s *State) placeAuto(imgW, imgH, frac, margin float64, id string) PlacementResult {
	advanced := false
	if s.RemainingHeight() < columnAdvanceThreshold && s.AdvanceColumn() {
		advanced = true
	}

	colW := s.ColumnWidth()
	maxW := colW * frac
	remaining := s.RemainingHeight()

	heightFactor := remaining / imgH
	if heightFactor < 0.1 {
		heightFactor = 0.1
	}
	scale := maxW / imgW
	if heightFactor < scale {
		scale = heightFactor
	}

	w := imgW * scale
	h := imgH * scale
	x := s.ColumnLeft() + (colW-w)/2
	y := s.NextFreeY(x, w, h, s.CursorY, margin, id)

	return PlacementResult{X: x, Y: y, Width: w, Height: h, ColumnAdvanced: advanced}
}

// boundsOfPlacement converts a placement to a collision rectangle.
func boundsOfPlacement(r PlacementResult) chalk.Rect {
	return boundsOfXYWH(r.X, r.Y, r.Width, r.Height)
}

func boundsOfXYWH(x, y, w, h float64) chalk.Rect {
	return chalk.Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// PlaceBlock reserves a collision-free w x h slot at the current cursor in
// the current column and records it. It is the text-row counterpart of
// PlaceImage: headings, bullets and labels flow through it.
func (s *State) PlaceBlock(id, kind string, w, h, margin float64) PlacementResult {
	advanced := false
	if s.RemainingHeight() < columnAdvanceThreshold && s.AdvanceColumn() {
		advanced = true
	}

	x := s.ColumnLeft()
	y := s.NextFreeY(x, w, h, s.CursorY, margin, id)

	s.AddBlock(PlacedBlock{
		ID:     id,
		Kind:   kind,
		Bounds: boundsOfXYWH(x, y, w, h),
	})
	if bottom := y + h + margin; bottom > s.CursorY {
		s.CursorY = bottom
	}
	return PlacementResult{X: x, Y: y, Width: w, Height: h, ColumnAdvanced: advanced}
}
