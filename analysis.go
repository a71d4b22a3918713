package chalk

// Dictation thresholds: short text narrated by long audio is paced against
// the audio rather than character count.
const (
	dictationMinAudioSec = 5.0
	dictationMaxChars    = 50
	dictationAudioFrac   = 0.85
	dictationMinSec      = 6.0
	dictationMaxSec      = 25.0
)

// AnalysisConfig holds the tunables of batch duration analysis.
type AnalysisConfig struct {
	// SecondsPerImage is the drawing time added per image action.
	SecondsPerImage float64
}

// DefaultAnalysisConfig returns an AnalysisConfig with default settings.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{SecondsPerImage: 3.0}
}

// DurationAnalysis is the result of analyzing one batch of drawing actions
// against optional narration audio. Every component is exposed so callers
// can log or assert on the decision, nothing is hidden.
type DurationAnalysis struct {
	TextActionCount  int
	ImageActionCount int
	TotalChars       int

	// IsDictation is true when long narration audio accompanies short
	// text, in which case drawing is paced against the audio.
	IsDictation bool

	// DrawSeconds is the computed total drawing duration, including
	// ImageSeconds.
	DrawSeconds float64

	// ImageSeconds is the image-only component of DrawSeconds.
	ImageSeconds float64
}

// AnalyzeDurations computes the drawing duration for a batch of actions.
// texts holds the payload of every text action; imageActions counts the
// image actions. audioSec is the narration audio duration, or 0 when no
// audio accompanies the batch.
func (e *Engine) AnalyzeDurations(texts []string, imageActions int, audioSec float64, cfg AnalysisConfig) DurationAnalysis {
	a := DurationAnalysis{
		TextActionCount:  len(texts),
		ImageActionCount: imageActions,
	}
	for _, t := range texts {
		a.TotalChars += len([]rune(t))
	}

	a.IsDictation = audioSec > dictationMinAudioSec && a.TotalChars < dictationMaxChars

	if a.IsDictation {
		a.DrawSeconds = clamp(audioSec*dictationAudioFrac, dictationMinSec, dictationMaxSec)
	} else {
		a.DrawSeconds = charBucketSeconds(a.TotalChars)
	}

	a.ImageSeconds = float64(imageActions) * cfg.SecondsPerImage
	a.DrawSeconds += a.ImageSeconds
	return a
}

// charBucketSeconds maps a character count to a drawing duration bucket.
func charBucketSeconds(chars int) float64 {
	switch {
	case chars < 10:
		return 5.0
	case chars < 20:
		return 7.0
	case chars < 40:
		return 10.0
	case chars < 80:
		return 14.0
	default:
		return 18.0
	}
}
