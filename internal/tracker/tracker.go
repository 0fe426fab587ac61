// Package tracker turns noisy per-frame booleans into durable session
// metrics. Each tracked behavior is an edge-triggered state machine: a
// maximal run of consecutive true samples is one episode, counted once and
// timed from its first true sample to its first false sample.
package tracker

import (
	"sync"
	"time"

	"aicoach-go/internal/models"
	"aicoach-go/internal/vision"
)

// behaviorState holds the live state for one tracked behavior. The
// activation timestamp is set iff the behavior is currently active.
type behaviorState struct {
	active      bool
	activatedAt time.Time
	count       int
	duration    float64 // seconds, accumulated on deactivation only
}

// observe applies one sample. Samples matching the current state are
// ignored, which is what prevents double counting within an episode.
func (b *behaviorState) observe(condition bool, at time.Time) {
	switch {
	case condition && !b.active:
		b.active = true
		b.activatedAt = at
		b.count++
	case !condition && b.active:
		b.duration += at.Sub(b.activatedAt).Seconds()
		b.active = false
		b.activatedAt = time.Time{}
	}
}

// flush closes an episode still open at session end, attributing its
// elapsed time up to the end boundary. The behavior stays active so a
// second flush with the same boundary adds nothing.
func (b *behaviorState) flush(at time.Time) {
	if b.active {
		b.duration += at.Sub(b.activatedAt).Seconds()
		b.activatedAt = at
	}
}

func (b *behaviorState) metric() models.BehaviorMetric {
	return models.BehaviorMetric{Count: b.count, DurationSeconds: b.duration}
}

// Tracker aggregates the three tracked behaviors. It is written by a single
// detection loop; Snapshot may be called from any goroutine and always
// observes a consistent point-in-time copy across all behaviors.
type Tracker struct {
	mu sync.Mutex

	hand       behaviorState
	eyeContact behaviorState
	posture    behaviorState
}

func New() *Tracker {
	return &Tracker{}
}

// Observe classifies one perception frame and advances all three state
// machines. Gaze and posture are only judged when the corresponding
// landmark set was detected at all; an undetected face or pose leaves that
// behavior's state unchanged rather than fabricating a negative sample.
func (t *Tracker) Observe(frame models.PerceptionFrame) {
	at := frame.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.hand.observe(vision.HandPresent(frame.HandLandmarks), at)

	if len(frame.FaceLandmarks) > 0 {
		t.eyeContact.observe(!vision.IsFacingForward(frame.FaceLandmarks), at)
	}

	if len(frame.PoseLandmarks) > 0 {
		t.posture.observe(vision.IsBadPosture(frame.PoseLandmarks), at)
	}
}

// Flush attributes in-progress episode time up to the given end boundary.
// It must be called at session end before the final snapshot is read;
// without it a session ending mid-episode would lose that episode's time.
func (t *Tracker) Flush(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hand.flush(at)
	t.eyeContact.flush(at)
	t.posture.flush(at)
}

// Snapshot returns an atomic copy of all behavior metrics.
func (t *Tracker) Snapshot() models.BehaviorSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return models.BehaviorSnapshot{
		HandDetection:  t.hand.metric(),
		EyeContactLoss: t.eyeContact.metric(),
		BadPosture:     t.posture.metric(),
	}
}
