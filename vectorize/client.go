// Package vectorize talks to the external raster-to-vector service and
// fetches source images.
//
// The vectorization algorithm itself is an external collaborator: this
// package passes tuning parameters through opaquely and consumes only the
// resulting point sequences in image-pixel space.
package vectorize

import (
	"context"

	"github.com/scribeware/chalk"
)

// Polyline is one extracted contour in image-pixel space.
type Polyline []chalk.Point

// Tuning is the opaque parameter block forwarded to the vectorizer.
// The engine never inspects these; they exist so callers can trade detail
// for stroke count per image.
type Tuning struct {
	EdgeLowThreshold  float64 `json:"edgeLowThreshold,omitempty"`
	EdgeHighThreshold float64 `json:"edgeHighThreshold,omitempty"`
	BlurKernel        int     `json:"blurKernel,omitempty"`
	SimplifyEpsilon   float64 `json:"simplifyEpsilon,omitempty"`
	ResampleSpacing   float64 `json:"resampleSpacing,omitempty"`
	MinPerimeter      float64 `json:"minPerimeter,omitempty"`
	AngleThresholdDeg float64 `json:"angleThresholdDeg,omitempty"`
	MergeDistance     float64 `json:"mergeDistance,omitempty"`
	MinStrokeLength   float64 `json:"minStrokeLength,omitempty"`
	MinStrokePoints   int     `json:"minStrokePoints,omitempty"`
}

// DefaultTuning returns tuning suited to diagram-like imagery.
func DefaultTuning() Tuning {
	return Tuning{
		EdgeLowThreshold:  50,
		EdgeHighThreshold: 150,
		BlurKernel:        3,
		SimplifyEpsilon:   1.5,
		ResampleSpacing:   4,
		MinPerimeter:      24,
		AngleThresholdDeg: 35,
		MergeDistance:     6,
		MinStrokeLength:   12,
		MinStrokePoints:   4,
	}
}

// Client extracts polylines from raster image bytes.
type Client interface {
	Vectorize(ctx context.Context, imageBytes []byte, tuning Tuning) ([]Polyline, error)
}
