package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"aicoach-go/internal/models"
)

// fakeGenerator returns queued responses in order, or a fixed error.
type fakeGenerator struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no queued response")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

// fakeStore records everything saved and can fail a chosen stage.
type fakeStore struct {
	voice    []*models.VoiceFeedbackRecord
	body     []*models.BodyLanguageFeedbackRecord
	combined []*models.CombinedFeedbackRecord

	failVoice    error
	failBody     error
	failCombined error
}

func (f *fakeStore) SaveVoiceFeedback(_ context.Context, rec *models.VoiceFeedbackRecord) error {
	if f.failVoice != nil {
		return f.failVoice
	}
	f.voice = append(f.voice, rec)
	return nil
}

func (f *fakeStore) SaveBodyLanguageFeedback(_ context.Context, rec *models.BodyLanguageFeedbackRecord) error {
	if f.failBody != nil {
		return f.failBody
	}
	f.body = append(f.body, rec)
	return nil
}

func (f *fakeStore) SaveCombinedFeedback(_ context.Context, rec *models.CombinedFeedbackRecord) error {
	if f.failCombined != nil {
		return f.failCombined
	}
	f.combined = append(f.combined, rec)
	return nil
}

func testTranscript(turns int) []models.TranscriptTurn {
	out := make([]models.TranscriptTurn, 0, turns)
	for i := 0; i < turns; i++ {
		role := models.RoleInterviewer
		if i%2 == 1 {
			role = models.RoleCandidate
		}
		out = append(out, models.TranscriptTurn{Role: role, Content: "turn"})
	}
	return out
}

func testMetrics() models.BehaviorSnapshot {
	return models.BehaviorSnapshot{
		HandDetection:        models.BehaviorMetric{Count: 2, DurationSeconds: 3.4},
		EyeContactLoss:       models.BehaviorMetric{Count: 1, DurationSeconds: 12.0},
		BadPosture:           models.BehaviorMetric{Count: 0, DurationSeconds: 0},
		TotalDurationSeconds: 300,
	}
}

func TestPipeline_ProviderDownStillProducesValidRecords(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider unreachable")}
	store := &fakeStore{}
	p := NewPipeline(zap.NewNop(), gen, store)

	out, err := p.Process(context.Background(), Input{
		InterviewID: "iv-1",
		UserID:      "u-1",
		UserEmail:   "u@example.com",
		Transcript:  testTranscript(2),
		Metrics:     testMetrics(),
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(store.voice) != 1 || len(store.body) != 1 || len(store.combined) != 1 {
		t.Fatalf("saved %d/%d/%d records, want 1/1/1", len(store.voice), len(store.body), len(store.combined))
	}

	// Two turns is not a real conversation, so the harsher fallback applies.
	voice := store.voice[0]
	if voice.VoiceScore != 60 {
		t.Fatalf("voice score = %d, want 60", voice.VoiceScore)
	}
	var voiceData models.VoiceFeedbackData
	if err := json.Unmarshal([]byte(voice.VoiceFeedback), &voiceData); err != nil {
		t.Fatalf("voice payload not valid JSON: %v", err)
	}
	if len(voiceData.Strengths) < 5 || len(voiceData.Weaknesses) < 5 {
		t.Fatalf("voice lists too short: %d strengths, %d weaknesses", len(voiceData.Strengths), len(voiceData.Weaknesses))
	}

	body := store.body[0]
	if body.BodyLanguageScore != 75 {
		t.Fatalf("body score = %d, want 75", body.BodyLanguageScore)
	}
	if body.HandDetectionCount != 2 || body.EyeContactLossDur != 12.0 {
		t.Fatalf("behavior counters not carried over: %+v", body)
	}

	combined := store.combined[0]
	if combined.OverallScore != CompositeScore(60, 75) {
		t.Fatalf("overall = %d, want %d", combined.OverallScore, CompositeScore(60, 75))
	}
	var recs []string
	if err := json.Unmarshal([]byte(combined.Recommendations), &recs); err != nil {
		t.Fatalf("recommendations not valid JSON: %v", err)
	}
	if len(recs) < 10 {
		t.Fatalf("recommendations too short: %d", len(recs))
	}
	if combined.FinalAssessment == "" {
		t.Fatalf("final assessment empty")
	}

	// The combined record must reference the two stage records by id.
	if combined.VoiceSessionID != voice.SessionID || combined.BodyLanguageSessionID != body.SessionID {
		t.Fatalf("combined links wrong: %q/%q vs %q/%q",
			combined.VoiceSessionID, combined.BodyLanguageSessionID, voice.SessionID, body.SessionID)
	}
	if out.OverallScore != combined.OverallScore {
		t.Fatalf("outcome overall = %d, record overall = %d", out.OverallScore, combined.OverallScore)
	}
}

func TestPipeline_ParsesProviderResponses(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"```json\n{\"voiceScore\": 85, \"communicationScore\": 88, \"technicalScore\": 80, \"confidenceScore\": 84, \"strengths\": [\"clear\"], \"weaknesses\": [\"pacing\"], \"assessment\": \"Strong showing.\"}\n```",
		`{"bodyLanguageScore": 78, "postureScore": 80, "eyeContactScore": 75, "gestureScore": 79, "strengths": ["steady"], "weaknesses": ["slouch"], "assessment": "Decent presence."}`,
		`{"strengths": ["s"], "weaknesses": ["w"], "recommendations": ["r"], "finalAssessment": "Keep going."}`,
	}}
	store := &fakeStore{}
	p := NewPipeline(zap.NewNop(), gen, store)

	out, err := p.Process(context.Background(), Input{
		InterviewID: "iv-2",
		Transcript:  testTranscript(4),
		Metrics:     testMetrics(),
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if out.VoiceScore != 85 || out.BodyLanguageScore != 78 {
		t.Fatalf("stage scores = %d/%d, want 85/78", out.VoiceScore, out.BodyLanguageScore)
	}
	if out.OverallScore != 82 {
		t.Fatalf("overall = %d, want 82", out.OverallScore)
	}
	if store.combined[0].FinalAssessment != "Keep going." {
		t.Fatalf("final assessment = %q", store.combined[0].FinalAssessment)
	}

	// The non-verbal prompt must carry the measured episode data.
	if len(gen.prompts) != 3 {
		t.Fatalf("provider called %d times, want 3", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[1], "12.0") {
		t.Fatalf("body prompt missing eye contact duration:\n%s", gen.prompts[1])
	}
}

func TestPipeline_MalformedResponseFallsBack(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"I'm sorry, I cannot help with that.",
		"also not json",
		"still not json",
	}}
	store := &fakeStore{}
	p := NewPipeline(zap.NewNop(), gen, store)

	out, err := p.Process(context.Background(), Input{
		InterviewID: "iv-3",
		Transcript:  testTranscript(6),
		Metrics:     testMetrics(),
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// Six turns is a real conversation, so the milder fallback applies.
	if out.VoiceScore != 75 || out.BodyLanguageScore != 75 {
		t.Fatalf("fallback scores = %d/%d, want 75/75", out.VoiceScore, out.BodyLanguageScore)
	}
	if out.OverallScore != 75 {
		t.Fatalf("overall = %d, want 75", out.OverallScore)
	}
}

func TestPipeline_PersistenceFailureAborts(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider unreachable")}
	store := &fakeStore{failBody: errors.New("db down")}
	p := NewPipeline(zap.NewNop(), gen, store)

	_, err := p.Process(context.Background(), Input{
		InterviewID: "iv-4",
		Transcript:  testTranscript(2),
		Metrics:     testMetrics(),
	})
	if err == nil {
		t.Fatalf("expected error when stage persistence fails")
	}
	if len(store.voice) != 1 {
		t.Fatalf("voice record not saved before failure")
	}
	if len(store.combined) != 0 {
		t.Fatalf("combined record saved despite aborted pipeline")
	}
}
