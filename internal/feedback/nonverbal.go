package feedback

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aicoach-go/internal/models"
	"aicoach-go/internal/vision"
)

const defaultBodyScore = 75

// generateBodyLanguageFeedback produces the non-verbal assessment from the
// final behavior metrics snapshot. Never fails; falls back to a fixed
// deterministic result.
func (p *Pipeline) generateBodyLanguageFeedback(ctx context.Context, snap models.BehaviorSnapshot) models.BodyLanguageFeedbackData {
	prompt := buildBodyLanguagePrompt(snap)

	response, err := p.ai.Generate(ctx, prompt)
	if err != nil {
		p.log.Warn("Body language feedback generation failed, using fallback", zap.Error(err))
		return bodyLanguageFallback()
	}

	parsed, err := parseObject(response)
	if err != nil {
		p.log.Warn("Body language feedback response unparseable, using fallback", zap.Error(err))
		return bodyLanguageFallback()
	}

	return models.BodyLanguageFeedbackData{
		BodyLanguageScore: coerceScore(parsed, "bodyLanguageScore", defaultBodyScore),
		PostureScore:      coerceScore(parsed, "postureScore", defaultBodyScore),
		EyeContactScore:   coerceScore(parsed, "eyeContactScore", defaultBodyScore),
		GestureScore:      coerceScore(parsed, "gestureScore", defaultBodyScore),
		Strengths:         coerceList(parsed, "strengths", defaultBodyStrengths),
		Weaknesses:        coerceList(parsed, "weaknesses", defaultBodyWeaknesses),
		Assessment: coerceString(parsed, "assessment",
			"Body language metrics were recorded. Continue practicing good posture, steady eye contact, and natural hand gestures during interviews."),
	}
}

func buildBodyLanguagePrompt(snap models.BehaviorSnapshot) string {
	total := snap.TotalDurationSeconds
	if total <= 0 {
		total = 1
	}
	handPercent := snap.HandDetection.DurationSeconds / total * 100
	eyeLossPercent := snap.EyeContactLoss.DurationSeconds / total * 100
	posturePercent := snap.BadPosture.DurationSeconds / total * 100
	heuristic := vision.HeuristicBodyLanguageScore(snap)

	return fmt.Sprintf(`You are a professional body language expert and non-verbal communication coach specializing in interview performance. Analyze this candidate's body language during their interview.

MEASURED METRICS (over %.1f seconds):
- Hand gestures detected: %d episodes, %.1fs total (%.1f%% of session)
- Eye contact lost: %d episodes, %.1fs total (%.1f%% of session)
- Bad posture: %d episodes, %.1fs total (%.1f%% of session)
- Locally computed body language score: %d/100

ANALYSIS GUIDELINES:
1. POSTURE ANALYSIS (Score 0-100): ideally under 15%% of the session in bad posture.
2. EYE CONTACT ANALYSIS (Score 0-100): loss should stay under 20%% of the session.
3. GESTURE ANALYSIS (Score 0-100): moderate gesturing (10-30%%) reads as engaged; more reads as nervous.

REQUIRED OUTPUT (STRICT JSON FORMAT):
{
  "bodyLanguageScore": 78,
  "postureScore": 75,
  "eyeContactScore": 82,
  "gestureScore": 77,
  "strengths": ["..."],
  "weaknesses": ["..."],
  "assessment": "A detailed multi-sentence overall assessment."
}

IMPORTANT:
- Return ONLY valid JSON (no markdown, no code blocks)
- Be specific about percentages and timing in strengths/weaknesses
- Provide 5 strengths and 5 weaknesses minimum`,
		total,
		snap.HandDetection.Count, snap.HandDetection.DurationSeconds, handPercent,
		snap.EyeContactLoss.Count, snap.EyeContactLoss.DurationSeconds, eyeLossPercent,
		snap.BadPosture.Count, snap.BadPosture.DurationSeconds, posturePercent,
		heuristic,
	)
}

var defaultBodyStrengths = []string{
	"Maintained presence during the interview session",
	"Engaged with the camera throughout the conversation",
	"Body language analysis was successfully captured",
	"Demonstrated willingness to participate in a video interview",
	"Remained in frame for the full session",
}

var defaultBodyWeaknesses = []string{
	"Analysis could not be completed with full detail",
	"Work on maintaining consistent upright posture throughout",
	"Practice steady eye contact with the camera",
	"Use natural hand gestures to emphasize important points",
	"Avoid excessive movement that may appear nervous",
}

// bodyLanguageFallback is the deterministic substitute used when generation
// fails. Unlike the verbal stage there is no degenerate-input variant; the
// metrics snapshot always exists.
func bodyLanguageFallback() models.BodyLanguageFeedbackData {
	return models.BodyLanguageFeedbackData{
		BodyLanguageScore: defaultBodyScore,
		PostureScore:      defaultBodyScore,
		EyeContactScore:   defaultBodyScore,
		GestureScore:      defaultBodyScore,
		Strengths:         defaultBodyStrengths,
		Weaknesses:        defaultBodyWeaknesses,
		Assessment: "Body language metrics were recorded during your interview. To improve, focus on maintaining " +
			"an upright posture throughout the entire interview, practice looking directly at the camera lens, and " +
			"use natural hand gestures to emphasize key points without excessive movement.",
	}
}
