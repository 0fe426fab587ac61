package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Question is one generated interview question. The full list is serialized
// to JSON text in the questions_data column of the session row.
type Question struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	IsPinned   bool   `json:"isPinned"`
	CreatedAt  string `json:"createdAt"`
}

// InterviewSession is the persisted session record created at setup time.
// It is immutable after creation except for the pinned flags inside the
// serialized questions payload.
type InterviewSession struct {
	ID            uint   `gorm:"primaryKey"`
	SessionID     string `gorm:"uniqueIndex;not null"`
	UserID        string `gorm:"index;not null"`
	UserEmail     string `gorm:"index;not null"`
	JobRole       string `gorm:"not null"`
	Experience    string `gorm:"not null"`
	TechStack     string
	QuestionCount int
	QuestionsData string `gorm:"type:text;not null"`
	CreatedAt     time.Time
}

// TranscriptTurn is one conversational turn. Turns are append-only and are
// persisted as a JSON array on the voice feedback record, never row-by-row.
type TranscriptTurn struct {
	Role      string    `json:"role"` // "assistant" or "user"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

const (
	RoleInterviewer = "assistant"
	RoleCandidate   = "user"
)

// JoinTechStack serializes a tech stack list for storage, e.g.
// ["React","Node.js"] -> "React, Node.js".
func JoinTechStack(stack []string) string {
	return strings.Join(stack, ", ")
}

// SplitTechStack reverses JoinTechStack. Empty entries are dropped so a
// round trip yields the original list.
func SplitTechStack(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Questions deserializes the questions payload.
func (s *InterviewSession) Questions() ([]Question, error) {
	if s.QuestionsData == "" {
		return []Question{}, nil
	}
	var qs []Question
	if err := json.Unmarshal([]byte(s.QuestionsData), &qs); err != nil {
		return nil, fmt.Errorf("failed to decode questions payload for session %s: %w", s.SessionID, err)
	}
	return qs, nil
}

// SetQuestions serializes the question list into the storage column.
func (s *InterviewSession) SetQuestions(qs []Question) error {
	data, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("failed to encode questions payload: %w", err)
	}
	s.QuestionsData = string(data)
	return nil
}
