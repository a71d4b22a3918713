// Package timeline models narrated playback segments and their drawing
// actions.
//
// Actions arrive as loosely typed JSON with a string "type" tag. Parsing
// maps them onto a closed variant set; unknown types are logged and skipped,
// never a hard failure, so one malformed action cannot abort a batch.
package timeline

import (
	"encoding/json"
	"fmt"

	"github.com/scribeware/chalk"
)

// ActionKind is the closed set of drawing action variants.
type ActionKind int

const (
	KindHeading ActionKind = iota
	KindBullet
	KindSubBullet
	KindLabel
	KindFormula
	KindSketchImage
)

// String returns the wire name of the kind.
func (k ActionKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindBullet:
		return "bullet"
	case KindSubBullet:
		return "subbullet"
	case KindLabel:
		return "label"
	case KindFormula:
		return "formula"
	case KindSketchImage:
		return "sketch_image"
	default:
		return "unknown"
	}
}

// IsText reports whether the kind draws handwritten text.
func (k ActionKind) IsText() bool {
	return k != KindSketchImage
}

// parseKind maps a wire tag to an ActionKind.
func parseKind(tag string) (ActionKind, bool) {
	switch tag {
	case "heading":
		return KindHeading, true
	case "bullet":
		return KindBullet, true
	case "subbullet", "sub_bullet":
		return KindSubBullet, true
	case "label":
		return KindLabel, true
	case "formula":
		return KindFormula, true
	case "sketch_image":
		return KindSketchImage, true
	default:
		return 0, false
	}
}

// Placement optionally pins an action to explicit board coordinates.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// DrawingAction is one parsed drawing instruction. Only the fields relevant
// to the variant are populated: text kinds carry Text and Level, the sketch
// image kind carries ImageURL or ImageBase64.
type DrawingAction struct {
	Kind      ActionKind
	Text      string
	Level     int
	Placement *Placement

	ImageURL    string
	ImageBase64 string

	Metadata map[string]any
}

// Segment is one narrated playback segment.
type Segment struct {
	Sequence            int
	StartTime           float64
	EndTime             float64
	SpeechText          string
	AudioFile           string
	ActualAudioDuration float64
	Actions             []DrawingAction
}

// rawSegment mirrors the wire format.
type rawSegment struct {
	Sequence            int         `json:"sequence"`
	StartTime           float64     `json:"startTime"`
	EndTime             float64     `json:"endTime"`
	SpeechText          string      `json:"speechText"`
	AudioFile           string      `json:"audioFile"`
	ActualAudioDuration float64     `json:"actualAudioDuration"`
	DrawingActions      []rawAction `json:"drawingActions"`
}

type rawAction struct {
	Type        string         `json:"type"`
	Text        string         `json:"text,omitempty"`
	Level       int            `json:"level,omitempty"`
	Placement   *Placement     `json:"placement,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	ImageBase64 string         `json:"imageBase64,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ParseSegment decodes a wire segment. Actions with an unrecognized type
// tag are logged and dropped; the rest of the segment is returned intact.
func ParseSegment(data []byte) (*Segment, error) {
	var raw rawSegment
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("timeline: decode segment: %w", err)
	}
	return fromRaw(raw), nil
}

// ParseSegments decodes a list of wire segments.
func ParseSegments(data []byte) ([]*Segment, error) {
	var raws []rawSegment
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("timeline: decode segments: %w", err)
	}
	segs := make([]*Segment, len(raws))
	for i, r := range raws {
		segs[i] = fromRaw(r)
	}
	return segs, nil
}

func fromRaw(raw rawSegment) *Segment {
	seg := &Segment{
		Sequence:            raw.Sequence,
		StartTime:           raw.StartTime,
		EndTime:             raw.EndTime,
		SpeechText:          raw.SpeechText,
		AudioFile:           raw.AudioFile,
		ActualAudioDuration: raw.ActualAudioDuration,
	}

	for _, ra := range raw.DrawingActions {
		kind, ok := parseKind(ra.Type)
		if !ok {
			chalk.Logger().Warn("timeline: skipping action with unknown type",
				"type", ra.Type, "sequence", raw.Sequence)
			continue
		}

		a := DrawingAction{
			Kind:      kind,
			Placement: ra.Placement,
			Metadata:  ra.Metadata,
		}
		if kind.IsText() {
			a.Text = ra.Text
			a.Level = ra.Level
		} else {
			a.ImageURL = ra.ImageURL
			a.ImageBase64 = ra.ImageBase64
		}
		seg.Actions = append(seg.Actions, a)
	}
	return seg
}

// TextPayloads returns the text of every text action, for duration
// analysis.
func (s *Segment) TextPayloads() []string {
	var texts []string
	for _, a := range s.Actions {
		if a.Kind.IsText() {
			texts = append(texts, a.Text)
		}
	}
	return texts
}

// ImageActionCount returns the number of image actions in the segment.
func (s *Segment) ImageActionCount() int {
	n := 0
	for _, a := range s.Actions {
		if !a.Kind.IsText() {
			n++
		}
	}
	return n
}
