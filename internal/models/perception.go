package models

import "time"

// Landmark is one normalized detection point from the perception provider.
// X and Y are in [0,1] image coordinates, Z is depth relative to a reference
// plane. Visibility is only populated for pose landmarks.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
}

// PerceptionFrame is one detection cycle's worth of landmark output.
// Any of the three sets may be absent when the corresponding detector
// found nothing. Frames are transient and never persisted.
type PerceptionFrame struct {
	Timestamp     time.Time    `json:"timestamp"`
	HandLandmarks [][]Landmark `json:"handLandmarks,omitempty"`
	FaceLandmarks []Landmark   `json:"faceLandmarks,omitempty"`
	PoseLandmarks []Landmark   `json:"poseLandmarks,omitempty"`
}

// BehaviorMetric is the durable per-behavior aggregate: how many distinct
// episodes occurred and how long they lasted in total.
type BehaviorMetric struct {
	Count           int     `json:"count"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// BehaviorSnapshot is an atomically read copy of all tracked behaviors.
// TotalDurationSeconds is only populated on the final snapshot taken at
// session end.
type BehaviorSnapshot struct {
	HandDetection        BehaviorMetric `json:"handDetection"`
	EyeContactLoss       BehaviorMetric `json:"eyeContactLoss"`
	BadPosture           BehaviorMetric `json:"badPosture"`
	TotalDurationSeconds float64        `json:"totalDurationSeconds,omitempty"`
}
