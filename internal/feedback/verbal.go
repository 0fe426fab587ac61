package feedback

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"aicoach-go/internal/models"
)

const defaultVoiceScore = 70

// generateVoiceFeedback produces the verbal assessment from the transcript.
// It never fails: provider or parse errors fall back to a deterministic
// canned result whose severity depends only on whether the transcript held
// a meaningful conversation.
func (p *Pipeline) generateVoiceFeedback(ctx context.Context, transcript []models.TranscriptTurn) models.VoiceFeedbackData {
	prompt := buildVoicePrompt(transcript)

	response, err := p.ai.Generate(ctx, prompt)
	if err != nil {
		p.log.Warn("Voice feedback generation failed, using fallback", zap.Error(err))
		return voiceFallback(transcript)
	}

	parsed, err := parseObject(response)
	if err != nil {
		p.log.Warn("Voice feedback response unparseable, using fallback", zap.Error(err))
		return voiceFallback(transcript)
	}

	return models.VoiceFeedbackData{
		VoiceScore:         coerceScore(parsed, "voiceScore", defaultVoiceScore),
		CommunicationScore: coerceScore(parsed, "communicationScore", defaultVoiceScore),
		TechnicalScore:     coerceScore(parsed, "technicalScore", defaultVoiceScore),
		ConfidenceScore:    coerceScore(parsed, "confidenceScore", defaultVoiceScore),
		Strengths:          coerceList(parsed, "strengths", defaultVoiceStrengths),
		Weaknesses:         coerceList(parsed, "weaknesses", defaultVoiceWeaknesses),
		Assessment: coerceString(parsed, "assessment",
			"Interview completed successfully. Continue practicing to improve communication and technical articulation."),
	}
}

func buildVoicePrompt(transcript []models.TranscriptTurn) string {
	var b strings.Builder
	for _, turn := range transcript {
		speaker := "Interviewer"
		if turn.Role == models.RoleCandidate {
			speaker = "Candidate"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, turn.Content)
	}

	return fmt.Sprintf(`You are an expert senior technical recruiter and interview coach with 15+ years of experience. Analyze this mock interview conversation in extreme detail.

CONVERSATION:
%s

EVALUATION CRITERIA (Score each 0-100):
1. Voice quality: clarity, pacing, filler words, articulation.
2. Communication: structure of answers, conciseness, active listening.
3. Technical depth: correctness, examples, edge cases, scalability.
4. Confidence: tone, hedging, ownership of answers.

REQUIRED OUTPUT (STRICT JSON FORMAT):
{
  "voiceScore": 85,
  "communicationScore": 90,
  "technicalScore": 80,
  "confidenceScore": 85,
  "strengths": ["..."],
  "weaknesses": ["..."],
  "assessment": "A detailed multi-sentence overall assessment."
}

IMPORTANT:
- Return ONLY valid JSON (no markdown, no code blocks, no extra text)
- Be extremely specific in strengths and weaknesses (mention exact examples from the conversation)
- Provide 5 strengths and 5 weaknesses minimum
- Scores must reflect actual performance based on the conversation`, b.String())
}

var defaultVoiceStrengths = []string{
	"Successfully engaged in conversation with the AI interviewer",
	"Demonstrated willingness to participate in the mock interview",
	"Completed the interview session from start to finish",
	"Responded to questions asked by the interviewer",
	"Maintained communication throughout the session",
}

var defaultVoiceWeaknesses = []string{
	"Could provide more detailed technical explanations with specific examples",
	"Consider using the STAR method for behavioral questions",
	"More specific examples from past experience would strengthen responses",
	"Could elaborate more on problem-solving approaches and methodologies",
	"Would benefit from discussing metrics and measurable outcomes",
}

// voiceFallback is the deterministic substitute used when generation fails.
// A transcript longer than two turns counts as a real conversation and gets
// the milder variant.
func voiceFallback(transcript []models.TranscriptTurn) models.VoiceFeedbackData {
	hasContent := len(transcript) > 2

	if hasContent {
		return models.VoiceFeedbackData{
			VoiceScore:         75,
			CommunicationScore: 75,
			TechnicalScore:     70,
			ConfidenceScore:    75,
			Strengths:          defaultVoiceStrengths,
			Weaknesses:         defaultVoiceWeaknesses,
			Assessment: "You participated in the interview and provided responses to the questions asked. " +
				"To improve, focus on giving more detailed answers with specific examples from your professional experience. " +
				"Use structured approaches like the STAR method for behavioral questions, and balance technical depth with clarity.",
		}
	}

	return models.VoiceFeedbackData{
		VoiceScore:         60,
		CommunicationScore: 60,
		TechnicalScore:     60,
		ConfidenceScore:    65,
		Strengths: []string{
			"Initiated the interview process showing interest in practice",
			"Showed up for the scheduled interview session",
			"Took the first step toward structured interview preparation",
			"Set up the interview environment end to end",
			"Remained present for the duration of the session",
		},
		Weaknesses: []string{
			"Limited conversation data available for comprehensive analysis",
			"Ensure microphone permissions are properly enabled",
			"Practice speaking more during interviews to demonstrate communication skills",
			"Engage more actively with interviewer questions",
			"Provide longer, more detailed responses",
		},
		Assessment: "The interview session was very brief with limited conversation captured. " +
			"For comprehensive feedback, engage more actively with the interviewer and provide detailed, " +
			"thoughtful responses to each question. Ensure your microphone is working properly and speak clearly.",
	}
}
