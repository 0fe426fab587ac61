package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"aicoach-go/internal/models"
)

// FeedbackRepo persists the three feedback record kinds. It implements
// feedback.Store.
type FeedbackRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewFeedbackRepo(db *gorm.DB, log *zap.Logger) *FeedbackRepo {
	return &FeedbackRepo{db: db, log: log}
}

func (r *FeedbackRepo) SaveVoiceFeedback(ctx context.Context, rec *models.VoiceFeedbackRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save voice feedback record: %w", err)
	}
	return nil
}

func (r *FeedbackRepo) SaveBodyLanguageFeedback(ctx context.Context, rec *models.BodyLanguageFeedbackRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save body language feedback record: %w", err)
	}
	return nil
}

func (r *FeedbackRepo) SaveCombinedFeedback(ctx context.Context, rec *models.CombinedFeedbackRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save combined feedback record: %w", err)
	}
	return nil
}

// FeedbackReport is the combined record with its two stage records decoded,
// as served to the feedback page.
type FeedbackReport struct {
	InterviewID     string                           `json:"interviewId"`
	OverallScore    int                              `json:"overallScore"`
	Strengths       []string                         `json:"strengths"`
	Weaknesses      []string                         `json:"weaknesses"`
	Recommendations []string                         `json:"recommendations"`
	FinalAssessment string                           `json:"finalAssessment"`
	Voice           *models.VoiceFeedbackData        `json:"voice,omitempty"`
	BodyLanguage    *models.BodyLanguageFeedbackData `json:"bodyLanguage,omitempty"`
	BodyMetrics     models.BehaviorSnapshot          `json:"bodyMetrics"`
	CreatedAt       string                           `json:"createdAt"`
}

// GetReport assembles the full feedback report for an interview. A missing
// combined record means no feedback exists; partially decodable stage
// payloads degrade to nil rather than failing the report.
func (r *FeedbackRepo) GetReport(ctx context.Context, interviewID string) (*FeedbackReport, error) {
	var combined models.CombinedFeedbackRecord
	err := r.db.WithContext(ctx).Where("interview_id = ?", interviewID).First(&combined).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load combined feedback: %w", err)
	}

	report := &FeedbackReport{
		InterviewID:     combined.InterviewID,
		OverallScore:    combined.OverallScore,
		Strengths:       decodeStringList(combined.Strengths),
		Weaknesses:      decodeStringList(combined.Weaknesses),
		Recommendations: decodeStringList(combined.Recommendations),
		FinalAssessment: combined.FinalAssessment,
		CreatedAt:       combined.CreatedAt.Format("02-01-2006"),
	}

	var voice models.VoiceFeedbackRecord
	if err := r.db.WithContext(ctx).Where("session_id = ?", combined.VoiceSessionID).First(&voice).Error; err == nil {
		var data models.VoiceFeedbackData
		if jsonErr := json.Unmarshal([]byte(voice.VoiceFeedback), &data); jsonErr == nil {
			report.Voice = &data
		} else {
			r.log.Warn("Voice feedback payload undecodable",
				zap.String("sessionID", voice.SessionID),
				zap.Error(jsonErr),
			)
		}
	}

	var body models.BodyLanguageFeedbackRecord
	if err := r.db.WithContext(ctx).Where("session_id = ?", combined.BodyLanguageSessionID).First(&body).Error; err == nil {
		var data models.BodyLanguageFeedbackData
		if jsonErr := json.Unmarshal([]byte(body.BodyLanguageFeedback), &data); jsonErr == nil {
			report.BodyLanguage = &data
		} else {
			r.log.Warn("Body language feedback payload undecodable",
				zap.String("sessionID", body.SessionID),
				zap.Error(jsonErr),
			)
		}
		report.BodyMetrics = models.BehaviorSnapshot{
			HandDetection: models.BehaviorMetric{
				Count:           body.HandDetectionCount,
				DurationSeconds: body.HandDetectionDuration,
			},
			EyeContactLoss: models.BehaviorMetric{
				Count:           body.EyeContactLossCount,
				DurationSeconds: body.EyeContactLossDur,
			},
			BadPosture: models.BehaviorMetric{
				Count:           body.BadPostureCount,
				DurationSeconds: body.BadPostureDuration,
			},
		}
	}

	return report, nil
}

func decodeStringList(s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{}
	}
	return out
}
