package playback

import (
	"context"
	"sync"
	"time"
)

// pollInterval is how often Wait re-checks the rendezvous predicate.
const pollInterval = 25 * time.Millisecond

// EndTracker is the rendezvous barrier between the two independently
// clocked finish events of a playback segment: the narration audio's
// natural end and the drawing animation's expected end.
//
// Both ends are recorded as future timestamps; the segment may only advance
// once the current time has passed both. An unset end is vacuously passed.
// EndTracker is safe for concurrent use: the audio transport and the
// drawing loop set their ends from different goroutines.
type EndTracker struct {
	mu  sync.Mutex
	now func() time.Time

	textEnd  time.Time
	imageEnd time.Time
}

// NewEndTracker creates a tracker driven by the wall clock.
func NewEndTracker() *EndTracker {
	return NewEndTrackerWithClock(time.Now)
}

// NewEndTrackerWithClock creates a tracker with an injected clock, used by
// tests to simulate elapsed time.
func NewEndTrackerWithClock(now func() time.Time) *EndTracker {
	return &EndTracker{now: now}
}

// SetTextEnd records that text drawing will finish d from now.
func (t *EndTracker) SetTextEnd(d time.Duration) {
	t.mu.Lock()
	t.textEnd = t.now().Add(d)
	t.mu.Unlock()
}

// SetImageEnd records that image drawing will finish d from now.
func (t *EndTracker) SetImageEnd(d time.Duration) {
	t.mu.Lock()
	t.imageEnd = t.now().Add(d)
	t.mu.Unlock()
}

// Clear forgets both ends. Called at segment boundaries.
func (t *EndTracker) Clear() {
	t.mu.Lock()
	t.textEnd = time.Time{}
	t.imageEnd = time.Time{}
	t.mu.Unlock()
}

// CanAdvance reports whether the current time has passed every recorded
// end timestamp.
func (t *EndTracker) CanAdvance() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.textEnd.IsZero() && now.Before(t.textEnd) {
		return false
	}
	if !t.imageEnd.IsZero() && now.Before(t.imageEnd) {
		return false
	}
	return true
}

// Remaining returns the larger of the two pending deltas, or 0 when
// nothing is pending.
func (t *EndTracker) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var rem time.Duration
	if !t.textEnd.IsZero() {
		if d := t.textEnd.Sub(now); d > rem {
			rem = d
		}
	}
	if !t.imageEnd.IsZero() {
		if d := t.imageEnd.Sub(now); d > rem {
			rem = d
		}
	}
	return rem
}

// Wait blocks until both timelines have finished or the context is
// canceled. It polls the predicate rather than sleeping a fixed duration,
// because either end may be pushed further out while waiting (the audio
// transport reporting completion does not license truncating in-progress
// drawing).
func (t *EndTracker) Wait(ctx context.Context) error {
	if t.CanAdvance() {
		return nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t.CanAdvance() {
				return nil
			}
		}
	}
}
