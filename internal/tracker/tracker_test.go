package tracker

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"aicoach-go/internal/models"
)

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return base.Add(time.Duration(sec) * time.Second) }

// handFrame builds a frame whose only signal is hand presence.
func handFrame(present bool, sec int) models.PerceptionFrame {
	f := models.PerceptionFrame{Timestamp: at(sec)}
	if present {
		f.HandLandmarks = [][]models.Landmark{{{X: 0.5}}}
	}
	return f
}

func TestBehaviorState_EpisodeCounting(t *testing.T) {
	var b behaviorState
	samples := []bool{true, true, false, true, false}
	for i, s := range samples {
		b.observe(s, at(i))
	}

	// Two maximal runs of true samples: [0,2) and [3,4).
	if b.count != 2 {
		t.Fatalf("count = %d, want 2", b.count)
	}
	if b.duration != 3.0 {
		t.Fatalf("duration = %v, want 3.0", b.duration)
	}
}

func TestBehaviorState_RepeatedTrueIsOneEpisode(t *testing.T) {
	var b behaviorState
	for i := 0; i < 5; i++ {
		b.observe(true, at(i))
	}
	if b.count != 1 {
		t.Fatalf("count = %d, want 1", b.count)
	}
	if b.duration != 0 {
		t.Fatalf("duration accumulated before episode closed: %v", b.duration)
	}
}

func TestBehaviorState_FlushClosesOpenEpisode(t *testing.T) {
	var b behaviorState
	b.observe(true, at(0))
	b.flush(at(4))

	if b.duration != 4.0 {
		t.Fatalf("duration = %v, want 4.0", b.duration)
	}

	// Flushing again at the same boundary must not add time.
	b.flush(at(4))
	if b.duration != 4.0 {
		t.Fatalf("repeated flush added time: %v", b.duration)
	}
}

func TestBehaviorState_FlushWithoutOpenEpisode(t *testing.T) {
	var b behaviorState
	b.observe(true, at(0))
	b.observe(false, at(2))
	b.flush(at(10))

	if b.count != 1 || b.duration != 2.0 {
		t.Fatalf("count = %d duration = %v, want 1 and 2.0", b.count, b.duration)
	}
}

func TestTracker_HandEpisodes(t *testing.T) {
	tr := New()
	for i, present := range []bool{true, true, false, false, true} {
		tr.Observe(handFrame(present, i))
	}
	tr.Flush(at(5))

	snap := tr.Snapshot()
	if snap.HandDetection.Count != 2 {
		t.Fatalf("hand count = %d, want 2", snap.HandDetection.Count)
	}
	if snap.HandDetection.DurationSeconds != 3.0 {
		t.Fatalf("hand duration = %v, want 3.0", snap.HandDetection.DurationSeconds)
	}
}

func TestTracker_MissingLandmarksLeaveStateUnchanged(t *testing.T) {
	tr := New()

	// Face looking away for two seconds, with no face landmarks in between.
	away := make([]models.Landmark, 468)
	away[33] = models.Landmark{X: 0.4}
	away[263] = models.Landmark{X: 0.6}
	away[1] = models.Landmark{X: 0.42, Z: 0.0} // off center

	tr.Observe(models.PerceptionFrame{Timestamp: at(0), FaceLandmarks: away})
	tr.Observe(models.PerceptionFrame{Timestamp: at(1)}) // no face detected
	tr.Observe(models.PerceptionFrame{Timestamp: at(2), FaceLandmarks: away})
	tr.Flush(at(3))

	snap := tr.Snapshot()
	if snap.EyeContactLoss.Count != 1 {
		t.Fatalf("eye loss count = %d, want 1 (undetected face must not close the episode)", snap.EyeContactLoss.Count)
	}
	if snap.EyeContactLoss.DurationSeconds != 3.0 {
		t.Fatalf("eye loss duration = %v, want 3.0", snap.EyeContactLoss.DurationSeconds)
	}
}

func TestTracker_SnapshotIsCopy(t *testing.T) {
	tr := New()
	tr.Observe(handFrame(true, 0))

	before := tr.Snapshot()
	tr.Observe(handFrame(false, 2))

	if before.HandDetection.DurationSeconds != 0 {
		t.Fatalf("snapshot mutated after later observation")
	}
	after := tr.Snapshot()
	if after.HandDetection.DurationSeconds != 2.0 {
		t.Fatalf("hand duration = %v, want 2.0", after.HandDetection.DurationSeconds)
	}
}

func TestPublisher_ForwardsSnapshots(t *testing.T) {
	tr := New()
	tr.Observe(handFrame(true, 0))
	tr.Observe(handFrame(false, 3))

	var got models.BehaviorSnapshot
	p := NewPublisher(zap.NewNop(), tr, time.Second, func(s models.BehaviorSnapshot) { got = s })
	p.publish()

	if got.HandDetection.Count != 1 || got.HandDetection.DurationSeconds != 3.0 {
		t.Fatalf("published snapshot = %+v", got.HandDetection)
	}
}

func TestPublisher_NilTrackerIsNoOp(t *testing.T) {
	calls := 0
	p := NewPublisher(zap.NewNop(), nil, time.Second, func(models.BehaviorSnapshot) { calls++ })
	p.publish()
	if calls != 0 {
		t.Fatalf("sink called %d times for nil tracker", calls)
	}
}

func TestPublisher_StartStopIdempotent(t *testing.T) {
	p := NewPublisher(zap.NewNop(), New(), 10*time.Millisecond, func(models.BehaviorSnapshot) {})
	p.Start()
	p.Start()
	p.Stop()
	p.Stop()
}
