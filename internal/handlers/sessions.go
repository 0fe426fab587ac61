package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"aicoach-go/internal/config"
	"aicoach-go/internal/questions"
	"aicoach-go/internal/repository"
)

// SessionsHandler serves interview session setup, listing, and deletion.
type SessionsHandler struct {
	log       *zap.Logger
	repo      *repository.SessionRepo
	generator *questions.Generator
}

func NewSessionsHandler(log *zap.Logger, repo *repository.SessionRepo, generator *questions.Generator) *SessionsHandler {
	return &SessionsHandler{log: log, repo: repo, generator: generator}
}

type createSessionRequest struct {
	UserID        string   `json:"userId" binding:"required"`
	UserEmail     string   `json:"userEmail" binding:"required,email"`
	JobRole       string   `json:"jobRole" binding:"required"`
	Experience    string   `json:"experience"`
	TechStack     []string `json:"techStack"`
	QuestionCount int      `json:"questionCount"`
}

// Create generates the question set and stores a new session record.
func (h *SessionsHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session request"})
		return
	}
	if req.Experience == "" {
		req.Experience = "Mid-Level"
	}
	if req.QuestionCount <= 0 && config.Conf != nil {
		req.QuestionCount = config.Conf.Interview.DefaultQuestionCount
	}

	qs, err := h.generator.Generate(c.Request.Context(), questions.Params{
		JobRole:       req.JobRole,
		Experience:    req.Experience,
		TechStack:     req.TechStack,
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		h.log.Error("Failed to generate questions", zap.String("jobRole", req.JobRole), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate interview questions"})
		return
	}

	view := repository.SessionView{
		SessionID:     uuid.NewString(),
		UserID:        req.UserID,
		UserEmail:     req.UserEmail,
		JobRole:       req.JobRole,
		Experience:    req.Experience,
		TechStack:     req.TechStack,
		QuestionCount: len(qs),
		Questions:     qs,
	}
	if _, err := h.repo.Create(c.Request.Context(), view); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	h.log.Info("Interview session created",
		zap.String("sessionID", view.SessionID),
		zap.String("jobRole", view.JobRole),
		zap.Int("questions", len(qs)),
	)
	c.JSON(http.StatusCreated, view)
}

// Get returns one session by id.
func (h *SessionsHandler) Get(c *gin.Context) {
	view, err := h.repo.GetByID(c.Request.Context(), c.Param("sessionId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// List returns all sessions for a user, newest first.
func (h *SessionsHandler) List(c *gin.Context) {
	userEmail := c.Query("userEmail")
	if userEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userEmail query parameter is required"})
		return
	}

	views, err := h.repo.ListByUser(c.Request.Context(), userEmail)
	if err != nil {
		h.log.Error("Failed to list sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// Delete removes one session.
func (h *SessionsHandler) Delete(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("sessionId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to delete session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}
	c.Status(http.StatusNoContent)
}
