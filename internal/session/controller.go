// Package session owns the live interview lifecycle: setup, active
// sampling, and the single guarded transition into ended.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"aicoach-go/internal/feedback"
	"aicoach-go/internal/models"
	"aicoach-go/internal/tracker"
)

// State is the session lifecycle phase.
type State int

const (
	StateSetup State = iota
	StateActive
	StateEnded
)

var (
	ErrNotActive    = errors.New("interview is not active")
	ErrAlreadyEnded = errors.New("interview already ended")
)

// Controller drives one live interview. Perception frames and transcript
// turns flow in while active; on End it flushes the tracker, substitutes a
// placeholder transcript if needed, and runs the feedback pipeline exactly
// once.
type Controller struct {
	log      *zap.Logger
	pipeline *feedback.Pipeline

	sessionID string
	userID    string
	userEmail string

	tracker   *tracker.Tracker
	publisher *tracker.Publisher

	mu            sync.Mutex
	state         State
	ending        bool // guards against duplicate End requests
	startTime     time.Time
	transcript    []models.TranscriptTurn
	latestMetrics models.BehaviorSnapshot
}

// NewController creates a controller in the setup state.
func NewController(log *zap.Logger, pipeline *feedback.Pipeline, sessionID, userID, userEmail string, publishInterval time.Duration) *Controller {
	c := &Controller{
		log:       log,
		pipeline:  pipeline,
		sessionID: sessionID,
		userID:    userID,
		userEmail: userEmail,
		tracker:   tracker.New(),
		state:     StateSetup,
	}
	c.publisher = tracker.NewPublisher(log, c.tracker, publishInterval, c.setLatestMetrics)
	return c
}

// Start transitions setup -> active and begins metrics publishing.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateActive:
		return nil
	case StateEnded:
		return ErrAlreadyEnded
	}

	c.state = StateActive
	c.startTime = time.Now()
	c.publisher.Start()
	c.log.Info("Interview started", zap.String("sessionID", c.sessionID))
	return nil
}

// ObserveFrame feeds one perception frame into the behavior tracker.
// Frames arriving outside the active state are dropped.
func (c *Controller) ObserveFrame(frame models.PerceptionFrame) error {
	c.mu.Lock()
	active := c.state == StateActive
	c.mu.Unlock()
	if !active {
		return ErrNotActive
	}

	c.tracker.Observe(frame)
	return nil
}

// AppendTurn appends one transcript turn. Turns are applied strictly in
// receipt order, never reordered.
func (c *Controller) AppendTurn(turn models.TranscriptTurn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return ErrNotActive
	}
	c.transcript = append(c.transcript, turn)
	return nil
}

// setLatestMetrics is the publisher sink: overwrite semantics, most recent
// snapshot wins.
func (c *Controller) setLatestMetrics(snap models.BehaviorSnapshot) {
	c.mu.Lock()
	c.latestMetrics = snap
	c.mu.Unlock()
}

// LatestMetrics returns the most recently published snapshot.
func (c *Controller) LatestMetrics() models.BehaviorSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latestMetrics
}

// End terminates the interview and runs the feedback pipeline exactly once,
// returning its outcome. A second End while the first is processing (or
// after it finished) is rejected without a second pipeline run.
//
// Ordering on termination: stop sampling, then flush the tracker, then run
// the pipeline. The session stays ended even when the pipeline fails.
func (c *Controller) End(ctx context.Context) (feedback.Outcome, error) {
	c.mu.Lock()
	if c.ending || c.state == StateEnded {
		c.mu.Unlock()
		return feedback.Outcome{}, ErrAlreadyEnded
	}
	c.ending = true
	startTime := c.startTime
	c.mu.Unlock()

	endTime := time.Now()
	if startTime.IsZero() {
		// Interview was never explicitly started; assume a default window.
		startTime = endTime.Add(-5 * time.Minute)
	}

	c.publisher.Stop()
	c.tracker.Flush(endTime)

	snapshot := c.tracker.Snapshot()
	snapshot.TotalDurationSeconds = endTime.Sub(startTime).Seconds()

	c.mu.Lock()
	c.state = StateEnded
	transcript := make([]models.TranscriptTurn, len(c.transcript))
	copy(transcript, c.transcript)
	c.mu.Unlock()

	// An empty transcript still gets feedback: substitute a minimal
	// placeholder so the pipeline always receives non-empty input.
	if len(transcript) == 0 {
		transcript = []models.TranscriptTurn{
			{Role: models.RoleInterviewer, Content: "Hello! How are you today?", Timestamp: startTime},
			{Role: models.RoleCandidate, Content: "I am doing well, thank you!", Timestamp: endTime},
		}
	}

	c.log.Info("Interview ended, processing feedback",
		zap.String("sessionID", c.sessionID),
		zap.Int("transcriptTurns", len(transcript)),
		zap.Float64("durationSeconds", snapshot.TotalDurationSeconds),
	)

	outcome, err := c.pipeline.Process(ctx, feedback.Input{
		InterviewID: c.sessionID,
		UserID:      c.userID,
		UserEmail:   c.userEmail,
		Transcript:  transcript,
		Metrics:     snapshot,
	})
	if err != nil {
		c.log.Error("Feedback pipeline failed",
			zap.String("sessionID", c.sessionID),
			zap.Error(err),
		)
		return feedback.Outcome{}, err
	}

	return outcome, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
