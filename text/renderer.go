package text

import (
	"hash/fnv"

	"github.com/scribeware/chalk"
	"github.com/scribeware/chalk/cache"
)

// GlyphKey identifies one cached glyph template. Size is quantized to
// hundredths of a pixel so equal sizes always hit the same entry.
type GlyphKey struct {
	FontID    string
	GID       uint16
	CentiSize int64
}

// hashGlyphKey computes the shard hash for a glyph key.
func hashGlyphKey(k GlyphKey) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k.FontID))
	_, _ = h.Write([]byte{byte(k.GID), byte(k.GID >> 8)})
	v := uint64(k.CentiSize)
	_, _ = h.Write([]byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	})
	return h.Sum64()
}

// Renderer turns strings into animatable strokes. The glyph template cache
// is owned by the renderer instance; there is no package-global state.
type Renderer struct {
	font    *Font
	builder *chalk.Builder
	glyphs  *cache.LRU[GlyphKey, GlyphTemplate]
}

// NewRenderer creates a renderer for one font. Glyph templates are cached
// per (font, glyph, size).
func NewRenderer(font *Font, builder *chalk.Builder) *Renderer {
	return &Renderer{
		font:    font,
		builder: builder,
		glyphs:  cache.New[GlyphKey, GlyphTemplate](0, hashGlyphKey),
	}
}

// Glyph returns the cached template for a glyph at sizePx, extracting it
// on first use.
func (r *Renderer) Glyph(gid uint16, sizePx float64) GlyphTemplate {
	key := GlyphKey{FontID: r.font.ID, GID: gid, CentiSize: int64(sizePx * 100)}
	return r.glyphs.GetOrCreate(key, func() GlyphTemplate {
		return r.font.extractTemplate(gid, sizePx)
	})
}

// CacheStats exposes glyph cache counters.
func (r *Renderer) CacheStats() cache.Stats {
	return r.glyphs.Stats()
}

// Measure returns the pen width and nominal height of a string at sizePx
// with letterGap extra spacing per glyph, without building strokes.
func (r *Renderer) Measure(text string, sizePx, letterGap float64) (w, h float64) {
	glyphs := r.font.Shape(text, sizePx)
	for _, g := range glyphs {
		adv := r.Glyph(g.GID, sizePx).Advance
		w += adv + letterGap
	}
	if len(glyphs) > 0 {
		w -= letterGap
	}
	return w, sizePx
}

// RenderText shapes text at sizePx, positions each glyph's contours at the
// shaped pen position plus letterGap spacing, and builds strokes centered
// at origin. Strokes come back in writing order, one per glyph contour,
// ready for text-mode timing.
func (r *Renderer) RenderText(groupID, text string, origin chalk.Point, sizePx, letterGap float64) []*chalk.Stroke {
	glyphs := r.font.Shape(text, sizePx)
	if len(glyphs) == 0 {
		return nil
	}

	var contours [][]chalk.Cubic
	for i, g := range glyphs {
		tmpl := r.Glyph(g.GID, sizePx)
		if tmpl.IsEmpty() {
			continue
		}
		dx := g.X + float64(i)*letterGap
		for _, contour := range tmpl.Contours {
			contours = append(contours, translateContour(contour, dx, g.Y))
		}
	}
	if len(contours) == 0 {
		return nil
	}

	// Source dimensions equal to the builder's target resolution keep the
	// shaped pixel size intact through placement scaling.
	target := r.builder.Config().TargetResolution
	return r.builder.Build(groupID, origin, 1.0, nil, contours, target, target)
}

// translateContour returns a copy of a contour displaced by (dx, dy).
func translateContour(contour []chalk.Cubic, dx, dy float64) []chalk.Cubic {
	out := make([]chalk.Cubic, len(contour))
	for i, c := range contour {
		out[i] = chalk.Cubic{
			P0: chalk.Point{X: c.P0.X + dx, Y: c.P0.Y + dy},
			C1: chalk.Point{X: c.C1.X + dx, Y: c.C1.Y + dy},
			C2: chalk.Point{X: c.C2.X + dx, Y: c.C2.Y + dy},
			P1: chalk.Point{X: c.P1.X + dx, Y: c.P1.Y + dy},
		}
	}
	return out
}
