// Package text converts strings into handwritten-looking stroke geometry.
//
// Shaping (glyph selection, kerning, complex-script handling) goes through
// go-text/typesetting's HarfBuzz implementation; outline extraction goes
// through x/image/font/sfnt. Glyph contours feed the stroke builder as
// cubic curves, so letters pick up the same downsampling, cost weighting
// and wobble as any other drawn object.
package text

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
)

// Font wraps one parsed font for both shaping and outline extraction.
// The underlying parsed forms are read-only and safe for concurrent use;
// per-call mutable state (faces, buffers) is created where needed.
type Font struct {
	// ID names the font in cache keys.
	ID string

	shaped *font.Font
	sfnt   *sfnt.Font

	unitsPerEm float64
}

// LoadFont parses TTF/OTF font data. The id must be unique per font file;
// it keys the glyph template cache.
func LoadFont(id string, data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font %q: %w", id, err)
	}

	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font %q outlines: %w", id, err)
	}

	return &Font{
		ID:         id,
		shaped:     face.Font,
		sfnt:       sf,
		unitsPerEm: float64(sf.UnitsPerEm()),
	}, nil
}
