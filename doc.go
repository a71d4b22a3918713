// Package chalk animates hand-drawn-looking strokes on a virtual whiteboard.
//
// # Overview
//
// chalk converts raw vector geometry (polylines and cubic Bezier curves from
// an external vectorizer, or glyph outlines from a font) into time-
// parameterized, placeable, animatable strokes, and synchronizes multi-segment
// playback against narrated audio. It is deliberately independent of any
// rendering surface: the engine produces point lists and timings, a consumer
// decides how to paint them.
//
// # Quick Start
//
//	import "github.com/scribeware/chalk"
//
//	b := chalk.NewBuilder(chalk.DefaultBuilderConfig())
//	strokes := b.Build("box", chalk.Pt(400, 300), 1.0, polylines, nil, 320, 240)
//
//	eng := chalk.NewEngine(chalk.DefaultTimingConfig())
//	eng.TimeStrokes(strokes, chalk.ModeObject)
//
// The playback package maps an animation clock to a partial-path cutoff per
// stroke, and gates segment advancement on both the audio and the drawing
// timeline finishing.
//
// # Architecture
//
// The library is organized into:
//   - Root package: geometry, stroke building, timing, duration analysis
//   - layout: paginated multi-column placement with collision avoidance
//   - playback: partial-path cutoff and the audio/drawing rendezvous
//   - timeline: narrated segment and drawing-action model
//   - text: glyph shaping and outline extraction for handwritten text
//   - vectorize: external vectorizer client and image fetching
//   - store: board object persistence
//   - board: authoring/playback orchestration
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles reported by geometry helpers are in degrees
package chalk

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
