package feedback

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aicoach-go/internal/models"
)

// generateCombinedFeedback fuses the two stage assessments into one
// development plan. Never fails; falls back to a fixed deterministic result.
func (p *Pipeline) generateCombinedFeedback(ctx context.Context, voiceAssessment, bodyAssessment string, voiceScore, bodyScore int) models.CombinedFeedbackData {
	prompt := buildCombinedPrompt(voiceAssessment, bodyAssessment, voiceScore, bodyScore)

	response, err := p.ai.Generate(ctx, prompt)
	if err != nil {
		p.log.Warn("Combined feedback generation failed, using fallback", zap.Error(err))
		return combinedFallback()
	}

	parsed, err := parseObject(response)
	if err != nil {
		p.log.Warn("Combined feedback response unparseable, using fallback", zap.Error(err))
		return combinedFallback()
	}

	return models.CombinedFeedbackData{
		Strengths:       coerceList(parsed, "strengths", defaultCombinedStrengths),
		Weaknesses:      coerceList(parsed, "weaknesses", defaultCombinedWeaknesses),
		Recommendations: coerceList(parsed, "recommendations", defaultRecommendations),
		FinalAssessment: coerceString(parsed, "finalAssessment", defaultFinalAssessment),
	}
}

func buildCombinedPrompt(voiceAssessment, bodyAssessment string, voiceScore, bodyScore int) string {
	overall := CompositeScore(voiceScore, bodyScore)

	return fmt.Sprintf(`You are a senior interview coach providing comprehensive, actionable feedback combining both verbal and non-verbal performance.

VERBAL PERFORMANCE ANALYSIS:
Score: %d/100
%s

NON-VERBAL PERFORMANCE ANALYSIS:
Score: %d/100
%s

OVERALL COMBINED SCORE: %d/100 (60%% verbal + 40%% body language)

YOUR TASK:
Synthesize the verbal and non-verbal feedback into a comprehensive analysis. Identify patterns, provide specific actionable recommendations, and create a development plan.

REQUIRED OUTPUT (STRICT JSON FORMAT):
{
  "strengths": ["..."],
  "weaknesses": ["..."],
  "recommendations": ["..."],
  "finalAssessment": "A 6-8 sentence final assessment."
}

IMPORTANT:
- Return ONLY valid JSON (no markdown, no code blocks)
- Provide 7 strengths minimum (show how verbal and body language reinforced each other)
- Provide 7 weaknesses minimum (identify misalignments between verbal and body language)
- Provide 10 actionable recommendations minimum (specific, measurable, achievable)
- Focus on the synergy (or lack thereof) between verbal and non-verbal communication`,
		voiceScore, voiceAssessment, bodyScore, bodyAssessment, overall)
}

var defaultCombinedStrengths = []string{
	"Completed the full interview session demonstrating commitment",
	"Engaged with the AI interviewer showing interest in improvement",
	"Demonstrated willingness to participate in practice interviews",
	"Maintained presence across both audio and video channels",
	"Followed the interview through from setup to feedback",
}

var defaultCombinedWeaknesses = []string{
	"Could provide more detailed and structured responses",
	"Body language awareness and consistency needs improvement",
	"Practice maintaining energy levels throughout longer interviews",
	"Verbal and non-verbal communication were not always aligned",
	"Responses would benefit from concrete, measurable examples",
}

var defaultRecommendations = []string{
	"Practice answering common interview questions using the STAR method",
	"Record yourself in mock interviews to review verbal and non-verbal communication",
	"Work on maintaining good posture throughout 30-45 minute sessions",
	"Focus on clear, concise responses with specific examples from experience",
	"Practice with friends or mentors to get real-time feedback",
	"Set up a proper interview environment with good lighting and camera positioning",
	"Review successful interview techniques through online resources",
	"Develop a pre-interview routine to boost confidence",
	"Work on synchronizing confident verbal responses with positive body language",
	"Schedule regular practice sessions and track your scores over time",
}

const defaultFinalAssessment = "You completed the AI-powered interview successfully, demonstrating initiative in " +
	"improving your interview skills. Your performance shows potential, and with focused practice on the specific " +
	"areas identified, you can significantly enhance both your verbal communication and body language. The key is " +
	"consistency: maintain the same energy, posture, and engagement level throughout the entire interview. Focus on " +
	"providing detailed, structured responses with concrete examples from your experience. Practice regularly, " +
	"record your sessions, and actively work on the recommendations provided. Interviews are learned skills; every " +
	"practice session builds your confidence and competence."

func combinedFallback() models.CombinedFeedbackData {
	return models.CombinedFeedbackData{
		Strengths:       defaultCombinedStrengths,
		Weaknesses:      defaultCombinedWeaknesses,
		Recommendations: defaultRecommendations,
		FinalAssessment: defaultFinalAssessment,
	}
}
