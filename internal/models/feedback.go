package models

import "time"

// VoiceFeedbackData is the validated output of the verbal feedback stage.
// Every field is always populated; the stage guarantees its schema even
// when the provider fails.
type VoiceFeedbackData struct {
	VoiceScore         int      `json:"voiceScore"`
	CommunicationScore int      `json:"communicationScore"`
	TechnicalScore     int      `json:"technicalScore"`
	ConfidenceScore    int      `json:"confidenceScore"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	Assessment         string   `json:"assessment"`
}

// BodyLanguageFeedbackData is the validated output of the non-verbal stage.
type BodyLanguageFeedbackData struct {
	BodyLanguageScore int      `json:"bodyLanguageScore"`
	PostureScore      int      `json:"postureScore"`
	EyeContactScore   int      `json:"eyeContactScore"`
	GestureScore      int      `json:"gestureScore"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	Assessment        string   `json:"assessment"`
}

// CombinedFeedbackData is the validated output of the combined stage.
type CombinedFeedbackData struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	FinalAssessment string   `json:"finalAssessment"`
}

// VoiceFeedbackRecord is the persisted verbal feedback for one interview.
// Transcript and the full feedback payload are serialized to text at the
// store boundary.
type VoiceFeedbackRecord struct {
	ID                 uint   `gorm:"primaryKey"`
	SessionID          string `gorm:"uniqueIndex;not null"`
	InterviewID        string `gorm:"index;not null"`
	UserID             string `gorm:"not null"`
	UserEmail          string
	Transcript         string `gorm:"type:text"`
	VoiceFeedback      string `gorm:"type:text"`
	VoiceScore         int
	CommunicationScore int
	TechnicalScore     int
	ConfidenceScore    int
	CreatedAt          time.Time
}

// BodyLanguageFeedbackRecord is the persisted non-verbal feedback, including
// the raw behavior counters the assessment was generated from.
type BodyLanguageFeedbackRecord struct {
	ID                    uint   `gorm:"primaryKey"`
	SessionID             string `gorm:"uniqueIndex;not null"`
	InterviewID           string `gorm:"index;not null"`
	UserID                string `gorm:"not null"`
	UserEmail             string
	HandDetectionCount    int
	HandDetectionDuration float64
	EyeContactLossCount   int
	EyeContactLossDur     float64
	BadPostureCount       int
	BadPostureDuration    float64
	BodyLanguageFeedback  string `gorm:"type:text"`
	BodyLanguageScore     int
	PostureScore          int
	EyeContactScore       int
	GestureScore          int
	CreatedAt             time.Time
}

// CombinedFeedbackRecord ties the two stage records together and carries the
// composite score. It is only ever written after both referenced records
// exist.
type CombinedFeedbackRecord struct {
	ID                    uint   `gorm:"primaryKey"`
	SessionID             string `gorm:"uniqueIndex;not null"`
	InterviewID           string `gorm:"uniqueIndex;not null"`
	VoiceSessionID        string `gorm:"not null"`
	BodyLanguageSessionID string `gorm:"not null"`
	UserID                string `gorm:"not null"`
	UserEmail             string
	OverallScore          int
	Strengths             string `gorm:"type:text"`
	Weaknesses            string `gorm:"type:text"`
	Recommendations       string `gorm:"type:text"`
	FinalAssessment       string `gorm:"type:text"`
	CreatedAt             time.Time
}
