package text

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// ShapedGlyph is one positioned glyph of a shaped string. Coordinates are
// in pixels, relative to the string's pen origin.
type ShapedGlyph struct {
	GID  uint16
	X, Y float64
}

// Shape converts a string into positioned glyphs at the given pixel size.
// Direction is detected from the text itself; right-to-left scripts shape
// correctly without caller involvement.
func (f *Font) Shape(text string, sizePx float64) []ShapedGlyph {
	if text == "" || sizePx <= 0 {
		return nil
	}

	runes := []rune(text)
	dir := detectDirection(text)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(f.shaped),
		Size:      floatToFixed(sizePx),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	var shaper shaping.HarfbuzzShaper
	output := shaper.Shape(input)

	glyphs := make([]ShapedGlyph, 0, len(output.Glyphs))
	var penX, penY float64
	for _, g := range output.Glyphs {
		glyphs = append(glyphs, ShapedGlyph{
			GID: uint16(g.GlyphID),
			X:   penX + fixedToFloat(g.XOffset),
			Y:   penY + fixedToFloat(g.YOffset),
		})
		if dir.IsVertical() {
			penY += fixedToFloat(g.Advance)
		} else {
			penX += fixedToFloat(g.Advance)
		}
	}
	return glyphs
}

// detectDirection returns RTL when the bidi algorithm resolves the
// paragraph's first run right-to-left.
func detectDirection(text string) di.Direction {
	p := bidi.Paragraph{}
	_, _ = p.SetString(text)

	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	run := ordering.Run(0)
	if run.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript inspects the runes and returns the script of the first
// non-space character. For mixed-script text callers should split runs
// before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 pixel size to 26.6 fixed point.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a 26.6 fixed point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
