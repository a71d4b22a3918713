package text

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/scribeware/chalk"
)

// GlyphTemplate is one glyph's drawable geometry at a specific pixel size:
// one cubic-curve contour per closed outline, plus the horizontal advance.
// Templates are position-independent and cached; callers translate them to
// the pen position.
type GlyphTemplate struct {
	Contours [][]chalk.Cubic
	Advance  float64
}

// IsEmpty reports whether the glyph has no drawable outline (e.g. space).
func (g GlyphTemplate) IsEmpty() bool {
	return len(g.Contours) == 0
}

// extractTemplate loads a glyph outline at sizePx and converts it to cubic
// contours. Line segments are emitted as degenerate cubics (controls on the
// line) so one contour stays one continuous stroke. Missing glyphs yield an
// empty template, not an error: the pen simply advances.
func (f *Font) extractTemplate(gid uint16, sizePx float64) GlyphTemplate {
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(sizePx * 64)

	segments, err := f.sfnt.LoadGlyph(&buf, sfnt.GlyphIndex(gid), ppem, nil)
	if err != nil {
		return GlyphTemplate{Advance: f.glyphAdvance(&buf, gid, sizePx)}
	}

	var contours [][]chalk.Cubic
	var contour []chalk.Cubic
	var cur chalk.Point

	flush := func() {
		if len(contour) > 0 {
			contours = append(contours, contour)
			contour = nil
		}
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			cur = fixedPt(seg.Args[0])

		case sfnt.SegmentOpLineTo:
			to := fixedPt(seg.Args[0])
			contour = append(contour, lineCubic(cur, to))
			cur = to

		case sfnt.SegmentOpQuadTo:
			ctrl := fixedPt(seg.Args[0])
			to := fixedPt(seg.Args[1])
			contour = append(contour, quadToCubic(cur, ctrl, to))
			cur = to

		case sfnt.SegmentOpCubeTo:
			contour = append(contour, chalk.Cubic{
				P0: cur,
				C1: fixedPt(seg.Args[0]),
				C2: fixedPt(seg.Args[1]),
				P1: fixedPt(seg.Args[2]),
			})
			cur = fixedPt(seg.Args[2])
		}
	}
	flush()

	return GlyphTemplate{
		Contours: contours,
		Advance:  f.glyphAdvance(&buf, gid, sizePx),
	}
}

// glyphAdvance returns the horizontal advance in pixels.
func (f *Font) glyphAdvance(buf *sfnt.Buffer, gid uint16, sizePx float64) float64 {
	ppem := fixed.Int26_6(sizePx * 64)
	adv, err := f.sfnt.GlyphAdvance(buf, sfnt.GlyphIndex(gid), ppem, 0)
	if err != nil {
		return 0
	}
	return float64(adv) / 64.0
}

// fixedPt converts a 26.6 fixed point to a chalk point.
func fixedPt(p fixed.Point26_6) chalk.Point {
	return chalk.Point{X: float64(p.X) / 64.0, Y: float64(p.Y) / 64.0}
}

// lineCubic represents a straight segment as a cubic with collinear
// control points.
func lineCubic(from, to chalk.Point) chalk.Cubic {
	return chalk.Cubic{
		P0: from,
		C1: from.Lerp(to, 1.0/3.0),
		C2: from.Lerp(to, 2.0/3.0),
		P1: to,
	}
}

// quadToCubic elevates a quadratic Bezier to a cubic exactly.
func quadToCubic(from, ctrl, to chalk.Point) chalk.Cubic {
	return chalk.Cubic{
		P0: from,
		C1: from.Lerp(ctrl, 2.0/3.0),
		C2: to.Lerp(ctrl, 2.0/3.0),
		P1: to,
	}
}
