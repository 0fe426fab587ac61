// Package feedback generates and persists the three post-interview analysis
// records: verbal, non-verbal, and combined.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aicoach-go/internal/genai"
	"aicoach-go/internal/models"
)

// Store is the persistence contract the pipeline writes through.
type Store interface {
	SaveVoiceFeedback(ctx context.Context, rec *models.VoiceFeedbackRecord) error
	SaveBodyLanguageFeedback(ctx context.Context, rec *models.BodyLanguageFeedbackRecord) error
	SaveCombinedFeedback(ctx context.Context, rec *models.CombinedFeedbackRecord) error
}

// Input carries everything the pipeline needs from a finished session.
type Input struct {
	InterviewID string
	UserID      string
	UserEmail   string
	Transcript  []models.TranscriptTurn
	Metrics     models.BehaviorSnapshot
}

// Outcome is returned to the session controller after all three records are
// persisted.
type Outcome struct {
	VoiceSessionID    string `json:"voiceSessionId"`
	BodySessionID     string `json:"bodySessionId"`
	CombinedSessionID string `json:"combinedSessionId"`
	VoiceScore        int    `json:"voiceScore"`
	BodyLanguageScore int    `json:"bodyLanguageScore"`
	OverallScore      int    `json:"overallScore"`
}

// Pipeline orchestrates the three feedback stages. Stages run strictly in
// sequence because the combined record references the first two by id.
// Generation never fails (each stage has its own fallback); only a
// persistence failure aborts the pipeline.
type Pipeline struct {
	log   *zap.Logger
	ai    genai.Generator
	store Store
}

func NewPipeline(log *zap.Logger, ai genai.Generator, store Store) *Pipeline {
	return &Pipeline{log: log, ai: ai, store: store}
}

// Process runs all three stages. On error, no combined record exists for
// the interview; the caller decides how to surface the failure.
func (p *Pipeline) Process(ctx context.Context, in Input) (Outcome, error) {
	p.log.Info("Starting feedback processing",
		zap.String("interviewID", in.InterviewID),
		zap.Int("transcriptTurns", len(in.Transcript)),
		zap.Float64("sessionSeconds", in.Metrics.TotalDurationSeconds),
	)

	// Stage 1: verbal.
	voiceData := p.generateVoiceFeedback(ctx, in.Transcript)
	voiceSessionID := uuid.NewString()

	transcriptJSON, err := json.Marshal(in.Transcript)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to encode transcript: %w", err)
	}
	voiceJSON, _ := json.Marshal(voiceData)

	voiceRec := &models.VoiceFeedbackRecord{
		SessionID:          voiceSessionID,
		InterviewID:        in.InterviewID,
		UserID:             in.UserID,
		UserEmail:          in.UserEmail,
		Transcript:         string(transcriptJSON),
		VoiceFeedback:      string(voiceJSON),
		VoiceScore:         voiceData.VoiceScore,
		CommunicationScore: voiceData.CommunicationScore,
		TechnicalScore:     voiceData.TechnicalScore,
		ConfidenceScore:    voiceData.ConfidenceScore,
		CreatedAt:          time.Now(),
	}
	if err := p.store.SaveVoiceFeedback(ctx, voiceRec); err != nil {
		return Outcome{}, fmt.Errorf("failed to save voice feedback: %w", err)
	}

	// Stage 2: non-verbal.
	bodyData := p.generateBodyLanguageFeedback(ctx, in.Metrics)
	bodySessionID := uuid.NewString()
	bodyJSON, _ := json.Marshal(bodyData)

	bodyRec := &models.BodyLanguageFeedbackRecord{
		SessionID:             bodySessionID,
		InterviewID:           in.InterviewID,
		UserID:                in.UserID,
		UserEmail:             in.UserEmail,
		HandDetectionCount:    in.Metrics.HandDetection.Count,
		HandDetectionDuration: in.Metrics.HandDetection.DurationSeconds,
		EyeContactLossCount:   in.Metrics.EyeContactLoss.Count,
		EyeContactLossDur:     in.Metrics.EyeContactLoss.DurationSeconds,
		BadPostureCount:       in.Metrics.BadPosture.Count,
		BadPostureDuration:    in.Metrics.BadPosture.DurationSeconds,
		BodyLanguageFeedback:  string(bodyJSON),
		BodyLanguageScore:     bodyData.BodyLanguageScore,
		PostureScore:          bodyData.PostureScore,
		EyeContactScore:       bodyData.EyeContactScore,
		GestureScore:          bodyData.GestureScore,
		CreatedAt:             time.Now(),
	}
	if err := p.store.SaveBodyLanguageFeedback(ctx, bodyRec); err != nil {
		return Outcome{}, fmt.Errorf("failed to save body language feedback: %w", err)
	}

	// Stage 3: combined, referencing the two records above.
	combinedData := p.generateCombinedFeedback(ctx,
		voiceData.Assessment, bodyData.Assessment,
		voiceData.VoiceScore, bodyData.BodyLanguageScore)

	overallScore := CompositeScore(voiceData.VoiceScore, bodyData.BodyLanguageScore)
	combinedSessionID := uuid.NewString()

	strengthsJSON, _ := json.Marshal(combinedData.Strengths)
	weaknessesJSON, _ := json.Marshal(combinedData.Weaknesses)
	recommendationsJSON, _ := json.Marshal(combinedData.Recommendations)

	combinedRec := &models.CombinedFeedbackRecord{
		SessionID:             combinedSessionID,
		InterviewID:           in.InterviewID,
		VoiceSessionID:        voiceSessionID,
		BodyLanguageSessionID: bodySessionID,
		UserID:                in.UserID,
		UserEmail:             in.UserEmail,
		OverallScore:          overallScore,
		Strengths:             string(strengthsJSON),
		Weaknesses:            string(weaknessesJSON),
		Recommendations:       string(recommendationsJSON),
		FinalAssessment:       combinedData.FinalAssessment,
		CreatedAt:             time.Now(),
	}
	if err := p.store.SaveCombinedFeedback(ctx, combinedRec); err != nil {
		return Outcome{}, fmt.Errorf("failed to save combined feedback: %w", err)
	}

	p.log.Info("Feedback processing completed",
		zap.String("interviewID", in.InterviewID),
		zap.Int("overallScore", overallScore),
	)

	return Outcome{
		VoiceSessionID:    voiceSessionID,
		BodySessionID:     bodySessionID,
		CombinedSessionID: combinedSessionID,
		VoiceScore:        voiceData.VoiceScore,
		BodyLanguageScore: bodyData.BodyLanguageScore,
		OverallScore:      overallScore,
	}, nil
}
