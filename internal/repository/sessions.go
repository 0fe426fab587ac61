// Package repository implements the session and feedback stores over GORM.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"aicoach-go/internal/models"
)

// ErrNotFound is returned when a record does not exist or its stored
// payload cannot be decoded. A corrupt payload is treated the same as a
// missing record rather than crashing the caller.
var ErrNotFound = errors.New("record not found")

// SessionView is a session with its serialized fields decoded for callers.
type SessionView struct {
	SessionID     string            `json:"sessionId"`
	UserID        string            `json:"userId"`
	UserEmail     string            `json:"userEmail"`
	JobRole       string            `json:"jobRole"`
	Experience    string            `json:"experience"`
	TechStack     []string          `json:"techStack"`
	QuestionCount int               `json:"questionCount"`
	Questions     []models.Question `json:"questions"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// SessionRepo persists interview session records.
type SessionRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSessionRepo(db *gorm.DB, log *zap.Logger) *SessionRepo {
	return &SessionRepo{db: db, log: log}
}

// Create stores a new session record. Questions and tech stack are
// serialized to text at this boundary.
func (r *SessionRepo) Create(ctx context.Context, view SessionView) (*models.InterviewSession, error) {
	rec := &models.InterviewSession{
		SessionID:     view.SessionID,
		UserID:        view.UserID,
		UserEmail:     view.UserEmail,
		JobRole:       view.JobRole,
		Experience:    view.Experience,
		TechStack:     models.JoinTechStack(view.TechStack),
		QuestionCount: view.QuestionCount,
		CreatedAt:     time.Now(),
	}
	if err := rec.SetQuestions(view.Questions); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return rec, nil
}

// GetByID loads and decodes one session.
func (r *SessionRepo) GetByID(ctx context.Context, sessionID string) (*SessionView, error) {
	var rec models.InterviewSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return r.toView(&rec)
}

// ListByUser returns all sessions for one user, newest first.
func (r *SessionRepo) ListByUser(ctx context.Context, userEmail string) ([]SessionView, error) {
	var recs []models.InterviewSession
	err := r.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	views := make([]SessionView, 0, len(recs))
	for i := range recs {
		view, err := r.toView(&recs[i])
		if err != nil {
			// Skip undecodable rows rather than failing the whole listing.
			r.log.Warn("Skipping undecodable session row",
				zap.String("sessionID", recs[i].SessionID),
				zap.Error(err),
			)
			continue
		}
		views = append(views, *view)
	}
	return views, nil
}

// Delete removes one session record.
func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.InterviewSession{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepo) toView(rec *models.InterviewSession) (*SessionView, error) {
	questions, err := rec.Questions()
	if err != nil {
		// Undecodable payload is indistinguishable from a missing record.
		r.log.Warn("Session questions payload undecodable",
			zap.String("sessionID", rec.SessionID),
			zap.Error(err),
		)
		return nil, ErrNotFound
	}
	return &SessionView{
		SessionID:     rec.SessionID,
		UserID:        rec.UserID,
		UserEmail:     rec.UserEmail,
		JobRole:       rec.JobRole,
		Experience:    rec.Experience,
		TechStack:     models.SplitTechStack(rec.TechStack),
		QuestionCount: rec.QuestionCount,
		Questions:     questions,
		CreatedAt:     rec.CreatedAt,
	}, nil
}
