package chalk

// Mode selects how strokes are paced.
type Mode int

const (
	// ModeObject paces strokes from geometry: length plus curvature, with
	// travel pauses between strokes.
	ModeObject Mode = iota

	// ModeText paces strokes as handwriting: a flat per-stroke base with a
	// curvature bonus and no travel time, since letters are drawn as one
	// continuous gesture.
	ModeText
)

// TimingConfig holds the immutable-per-run numeric timing parameters.
// Swapping the config at runtime requires a full retiming pass over the
// affected strokes.
type TimingConfig struct {
	// MinStrokeSec / MaxStrokeSec bound the per-stroke draw time in
	// object mode.
	MinStrokeSec float64
	MaxStrokeSec float64

	// LengthCoef is seconds of draw time per 1000px of stroke length.
	LengthCoef float64

	// CurveExtraMaxSec is the maximum curvature bonus, reached at a mean
	// turning angle of 70 degrees.
	CurveExtraMaxSec float64

	// Travel parameters: the pause between the end of one stroke and the
	// start of the next, grown by the pen travel distance.
	BaseTravelSec float64
	TravelCoef    float64
	MinTravelSec  float64
	MaxTravelSec  float64

	// Text-mode parameters.
	TextBaseSec        float64
	TextCurveExtraFrac float64

	// SpeedMultiplier divides the total segment duration. 2.0 draws twice
	// as fast.
	SpeedMultiplier float64
}

// DefaultTimingConfig returns a TimingConfig with default settings.
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		MinStrokeSec:       0.18,
		MaxStrokeSec:       0.32,
		LengthCoef:         0.08,
		CurveExtraMaxSec:   0.12,
		BaseTravelSec:      0.06,
		TravelCoef:         0.12,
		MinTravelSec:       0.04,
		MaxTravelSec:       0.40,
		TextBaseSec:        0.26,
		TextCurveExtraFrac: 0.30,
		SpeedMultiplier:    1.0,
	}
}

// Engine assigns draw and travel durations to strokes and analyzes batch
// durations. All operations are pure synchronous computation, safe to call
// from any single execution context.
type Engine struct {
	cfg TimingConfig
}

// NewEngine creates a timing engine with the given configuration.
func NewEngine(cfg TimingConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the active timing configuration.
func (e *Engine) Config() TimingConfig {
	return e.cfg
}

// SetConfig swaps the timing configuration. Callers must retime every
// stroke set built under the previous configuration.
func (e *Engine) SetConfig(cfg TimingConfig) {
	e.cfg = cfg
}

// TimeStrokes assigns DrawTimeSec, TravelBeforeSec and TimeWeight to every
// stroke in order. The first stroke never has travel time.
func (e *Engine) TimeStrokes(strokes []*Stroke, mode Mode) {
	for i, s := range strokes {
		switch mode {
		case ModeText:
			s.DrawTimeSec = textDrawTime(s, e.cfg)
			s.TravelBeforeSec = 0
		default:
			s.DrawTimeSec = objectDrawTime(s, e.cfg)
			if i == 0 {
				s.TravelBeforeSec = 0
			} else {
				s.TravelBeforeSec = travelTime(strokes[i-1], s, e.cfg)
			}
		}
		s.TimeWeight = s.TravelBeforeSec + s.DrawTimeSec
	}
}

// Retime recomputes stroke timings, used after SetConfig or after the
// stroke ordering changes.
func (e *Engine) Retime(strokes []*Stroke, mode Mode) {
	e.TimeStrokes(strokes, mode)
}

// TotalDuration returns the wall-clock duration of a stroke sequence in
// seconds, after the global speed multiplier.
func (e *Engine) TotalDuration(strokes []*Stroke) float64 {
	mult := e.cfg.SpeedMultiplier
	if mult <= 0 {
		mult = 1
	}
	return TotalWeight(strokes) / mult
}

// objectDrawTime computes the object-mode draw time from stroke length and
// normalized curvature.
func objectDrawTime(s *Stroke, cfg TimingConfig) float64 {
	curvNorm := clamp(s.CurvatureDeg/70, 0, 1)
	t := cfg.MinStrokeSec + (s.LengthPx/1000)*cfg.LengthCoef + curvNorm*cfg.CurveExtraMaxSec
	return clamp(t, cfg.MinStrokeSec, cfg.MaxStrokeSec)
}

// textDrawTime computes the text-mode draw time: a flat base with a
// fractional curvature bonus.
func textDrawTime(s *Stroke, cfg TimingConfig) float64 {
	curvNorm := clamp(s.CurvatureDeg/70, 0, 1)
	return cfg.TextBaseSec + cfg.TextBaseSec*cfg.TextCurveExtraFrac*curvNorm
}

// travelTime computes the pen travel pause between two consecutive strokes.
func travelTime(prev, next *Stroke, cfg TimingConfig) float64 {
	gap := prev.Last().Distance(next.First())
	t := cfg.BaseTravelSec + (gap/1000)*cfg.TravelCoef
	return clamp(t, cfg.MinTravelSec, cfg.MaxTravelSec)
}
