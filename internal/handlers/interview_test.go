package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aicoach-go/internal/feedback"
	"aicoach-go/internal/models"
	"aicoach-go/internal/session"
)

type noopGenerator struct{}

func (noopGenerator) Generate(context.Context, string) (string, error) {
	return "", errors.New("provider disabled in tests")
}

type memoryStore struct {
	combined int
}

func (s *memoryStore) SaveVoiceFeedback(context.Context, *models.VoiceFeedbackRecord) error { return nil }
func (s *memoryStore) SaveBodyLanguageFeedback(context.Context, *models.BodyLanguageFeedbackRecord) error {
	return nil
}
func (s *memoryStore) SaveCombinedFeedback(context.Context, *models.CombinedFeedbackRecord) error {
	s.combined++
	return nil
}

func newInterviewRouter(t *testing.T) (*gin.Engine, *session.Manager, *memoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	store := &memoryStore{}
	manager := session.NewManager(log, feedback.NewPipeline(log, noopGenerator{}, store), time.Second)
	h := NewInterviewHandler(log, nil, manager)

	r := gin.New()
	iv := r.Group("/interview/:sessionId")
	{
		iv.POST("/frames", h.ObserveFrame)
		iv.POST("/transcript", h.AppendTranscript)
		iv.GET("/metrics", h.Metrics)
		iv.POST("/end", h.End)
	}
	return r, manager, store
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestObserveFrame_UnknownSessionIs404(t *testing.T) {
	r, _, _ := newInterviewRouter(t)
	w := doJSON(r, http.MethodPost, "/interview/missing/frames", `{}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestObserveFrame_ActiveSessionAccepts(t *testing.T) {
	r, manager, _ := newInterviewRouter(t)
	ctrl := manager.Acquire("sess-1", "u", "u@example.com")
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	w := doJSON(r, http.MethodPost, "/interview/sess-1/frames",
		`{"handLandmarks":[[{"x":0.5,"y":0.5,"z":0}]]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body %s", w.Code, w.Body.String())
	}
}

func TestObserveFrame_InactiveSessionIs409(t *testing.T) {
	r, manager, _ := newInterviewRouter(t)
	manager.Acquire("sess-1", "u", "u@example.com") // still in setup

	w := doJSON(r, http.MethodPost, "/interview/sess-1/frames", `{}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestAppendTranscript_Validation(t *testing.T) {
	r, manager, _ := newInterviewRouter(t)
	ctrl := manager.Acquire("sess-1", "u", "u@example.com")
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid candidate turn", `{"role":"user","content":"I built a cache layer."}`, http.StatusAccepted},
		{"valid interviewer turn", `{"role":"assistant","content":"Tell me more."}`, http.StatusAccepted},
		{"unknown role", `{"role":"system","content":"hi"}`, http.StatusBadRequest},
		{"empty content", `{"role":"user","content":""}`, http.StatusBadRequest},
		{"not json", `{{{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/interview/sess-1/transcript", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestEnd_RunsPipelineAndReleases(t *testing.T) {
	r, manager, store := newInterviewRouter(t)
	ctrl := manager.Acquire("sess-1", "u", "u@example.com")
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	w := doJSON(r, http.MethodPost, "/interview/sess-1/end", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if store.combined != 1 {
		t.Fatalf("pipeline ran %d times, want 1", store.combined)
	}
	if !strings.Contains(w.Body.String(), "overallScore") {
		t.Fatalf("response missing outcome: %s", w.Body.String())
	}

	// The controller was released, so a repeat end no longer finds it.
	w = doJSON(r, http.MethodPost, "/interview/sess-1/end", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat end status = %d, want 404", w.Code)
	}
}

func TestMetrics_ReturnsLatestSnapshot(t *testing.T) {
	r, manager, _ := newInterviewRouter(t)
	manager.Acquire("sess-1", "u", "u@example.com")

	w := doJSON(r, http.MethodGet, "/interview/sess-1/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "handDetection") {
		t.Fatalf("response missing metrics fields: %s", w.Body.String())
	}
}
