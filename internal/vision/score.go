package vision

import (
	"math"

	"aicoach-go/internal/models"
)

// HeuristicBodyLanguageScore converts behavior durations into a 0-100 score
// without involving the generative provider. Deductions kick in when a
// behavior exceeds its acceptable share of the session.
func HeuristicBodyLanguageScore(snap models.BehaviorSnapshot) int {
	total := snap.TotalDurationSeconds
	if total <= 0 {
		return 100
	}

	handPercent := snap.HandDetection.DurationSeconds / total * 100
	eyeLossPercent := snap.EyeContactLoss.DurationSeconds / total * 100
	posturePercent := snap.BadPosture.DurationSeconds / total * 100

	score := 100.0

	// Some gesturing is good; excessive or absent gesturing is not.
	if handPercent > 40 {
		score -= math.Min(20, (handPercent-40)*0.5)
	} else if handPercent < 5 {
		score -= 10
	}

	// Eye contact loss should stay under 20% of the session.
	if eyeLossPercent > 20 {
		score -= math.Min(30, (eyeLossPercent-20)*1.5)
	}

	// Bad posture should stay under 15% of the session.
	if posturePercent > 15 {
		score -= math.Min(30, (posturePercent-15)*2)
	}

	if score < 0 {
		score = 0
	}
	return int(math.Round(score))
}
