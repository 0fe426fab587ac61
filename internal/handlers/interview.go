package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aicoach-go/internal/models"
	"aicoach-go/internal/repository"
	"aicoach-go/internal/session"
)

// InterviewHandler serves the live interview surface: start, perception
// frame ingestion, transcript events, live metrics, and end.
type InterviewHandler struct {
	log     *zap.Logger
	repo    *repository.SessionRepo
	manager *session.Manager
}

func NewInterviewHandler(log *zap.Logger, repo *repository.SessionRepo, manager *session.Manager) *InterviewHandler {
	return &InterviewHandler{log: log, repo: repo, manager: manager}
}

// Start verifies the session record exists and transitions the live
// controller into the active state.
func (h *InterviewHandler) Start(c *gin.Context) {
	sessionID := c.Param("sessionId")

	view, err := h.repo.GetByID(c.Request.Context(), sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load session for start", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	ctrl := h.manager.Acquire(sessionID, view.UserID, view.UserEmail)
	if err := ctrl.Start(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Interview already ended"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

// ObserveFrame ingests one perception frame. Frames are applied strictly
// in receipt order; there is no reordering buffer.
func (h *InterviewHandler) ObserveFrame(c *gin.Context) {
	ctrl, ok := h.manager.Get(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live interview for session"})
		return
	}

	var frame models.PerceptionFrame
	if err := c.ShouldBindJSON(&frame); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid perception frame"})
		return
	}

	if err := ctrl.ObserveFrame(frame); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Interview is not active"})
		return
	}
	c.Status(http.StatusAccepted)
}

// AppendTranscript ingests one transcript turn event.
func (h *InterviewHandler) AppendTranscript(c *gin.Context) {
	ctrl, ok := h.manager.Get(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live interview for session"})
		return
	}

	var turn models.TranscriptTurn
	if err := c.ShouldBindJSON(&turn); err != nil || turn.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transcript turn"})
		return
	}
	if turn.Role != models.RoleInterviewer && turn.Role != models.RoleCandidate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown transcript role"})
		return
	}

	if err := ctrl.AppendTurn(turn); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Interview is not active"})
		return
	}
	c.Status(http.StatusAccepted)
}

// Metrics returns the most recently published behavior snapshot.
func (h *InterviewHandler) Metrics(c *gin.Context) {
	ctrl, ok := h.manager.Get(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live interview for session"})
		return
	}
	c.JSON(http.StatusOK, ctrl.LatestMetrics())
}

// End terminates the interview, runs the feedback pipeline, and returns
// the outcome. Duplicate end requests are rejected without a second
// pipeline run.
func (h *InterviewHandler) End(c *gin.Context) {
	sessionID := c.Param("sessionId")
	ctrl, ok := h.manager.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live interview for session"})
		return
	}

	outcome, err := ctrl.End(c.Request.Context())
	if errors.Is(err, session.ErrAlreadyEnded) {
		c.JSON(http.StatusConflict, gin.H{"error": "Interview already ended"})
		return
	}
	if err != nil {
		// The session stays ended; the operator can retry from the report
		// endpoint but no partial feedback state is left ambiguous.
		h.log.Error("Failed to process interview feedback",
			zap.String("sessionID", sessionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate feedback"})
		return
	}

	h.manager.Release(sessionID)
	c.JSON(http.StatusOK, outcome)
}
