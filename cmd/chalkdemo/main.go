// Command chalkdemo runs a scripted narration segment through the stroke
// engine and prints the resulting timings and placements.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/joho/godotenv"

	"github.com/scribeware/chalk"
	"github.com/scribeware/chalk/board"
	"github.com/scribeware/chalk/layout"
	"github.com/scribeware/chalk/playback"
	"github.com/scribeware/chalk/store"
	"github.com/scribeware/chalk/text"
	"github.com/scribeware/chalk/timeline"
	"github.com/scribeware/chalk/vectorize"
)

// sampleSegment is a small two-action segment with one unknown action type
// that parsing must skip.
const sampleSegment = `{
	"sequence": 1,
	"startTime": 0,
	"endTime": 12,
	"speechText": "The water cycle begins with evaporation.",
	"actualAudioDuration": 11.4,
	"drawingActions": [
		{"type": "heading", "text": "The Water Cycle"},
		{"type": "bullet", "text": "Evaporation", "level": 1},
		{"type": "hologram", "text": "future tech"}
	]
}`

func main() {
	var (
		verbose  = flag.Bool("v", false, "debug logging")
		fontPath = flag.String("font", os.Getenv("CHALK_FONT"), "TTF font for handwriting")
		dbPath   = flag.String("db", os.Getenv("CHALK_DB"), "optional sqlite path for persistence")
	)
	// .env is optional; missing files are fine.
	_ = godotenv.Load()
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	chalk.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	seg, err := timeline.ParseSegment([]byte(sampleSegment))
	if err != nil {
		log.Fatalf("parse segment: %v", err)
	}

	state := layout.NewState(layout.DefaultPage(), &layout.Columns{Count: 2, Gutter: 48})
	opts := board.Options{
		BoardID:    "demo",
		Vectorizer: stubVectorizer{},
		Tuning:     vectorize.DefaultTuning(),
		Status: func(msg string) {
			fmt.Println("status:", msg)
		},
	}

	if *fontPath != "" {
		data, err := os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("read font: %v", err)
		}
		font, err := text.LoadFont("demo-font", data)
		if err != nil {
			log.Fatalf("load font: %v", err)
		}
		opts.TextRenderer = text.NewRenderer(font, chalk.NewBuilder(chalk.DefaultBuilderConfig()))
	}

	if *dbPath != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer st.Close()
		opts.Persist = store.NewAsync(st, func(msg string) {
			fmt.Println("persist:", msg)
		})
		defer opts.Persist.Flush()
	}

	b := board.New(state, opts)
	res := b.ApplySegment(context.Background(), seg)

	fmt.Printf("analysis: chars=%d dictation=%v draw=%.1fs (images %.1fs)\n",
		res.Analysis.TotalChars, res.Analysis.IsDictation,
		res.Analysis.DrawSeconds, res.Analysis.ImageSeconds)
	fmt.Printf("built: %d objects, %d failed actions\n", len(b.Objects()), res.Failed)

	strokes := b.Strokes()
	for _, t := range []float64{0.25, 0.5, 1.0} {
		rendered := playback.Cutoff(strokes, t)
		pts := 0
		for _, r := range rendered {
			pts += len(r.Points)
		}
		fmt.Printf("cutoff t=%.2f: %d strokes visible, %d points\n", t, len(rendered), pts)
	}

	fmt.Printf("rendezvous pending: %s\n", b.Tracker().Remaining())
}

// stubVectorizer produces a circle-ish contour so the demo runs without a
// vectorizer service.
type stubVectorizer struct{}

func (stubVectorizer) Vectorize(_ context.Context, _ []byte, _ vectorize.Tuning) ([]vectorize.Polyline, error) {
	const n = 48
	pl := make(vectorize.Polyline, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / n
		pl[i] = chalk.Pt(100+80*math.Cos(a), 100+80*math.Sin(a))
	}
	return []vectorize.Polyline{pl}, nil
}
