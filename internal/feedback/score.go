package feedback

import "math"

// Composite score weights. The verbal channel dominates.
const (
	verbalWeight    = 0.6
	nonVerbalWeight = 0.4
)

// CompositeScore blends the verbal and non-verbal sub-scores into the single
// interview-level number. It is recomputed wherever needed rather than
// stored independently of its inputs.
func CompositeScore(verbal, nonVerbal int) int {
	return int(math.Round(float64(verbal)*verbalWeight + float64(nonVerbal)*nonVerbalWeight))
}
