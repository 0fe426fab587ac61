package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"aicoach-go/internal/repository"
)

// ResultsHandler serves the post-interview feedback report and its chart.
type ResultsHandler struct {
	log  *zap.Logger
	repo *repository.FeedbackRepo
}

func NewResultsHandler(log *zap.Logger, repo *repository.FeedbackRepo) *ResultsHandler {
	return &ResultsHandler{log: log, repo: repo}
}

// Report returns the full feedback report for an interview.
func (h *ResultsHandler) Report(c *gin.Context) {
	report, err := h.repo.GetReport(c.Request.Context(), c.Param("sessionId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No feedback for this interview"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load feedback report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Chart renders the score breakdown and behavior metrics as an HTML chart
// page.
func (h *ResultsHandler) Chart(c *gin.Context) {
	report, err := h.repo.GetReport(c.Request.Context(), c.Param("sessionId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.String(http.StatusNotFound, "No feedback for this interview")
		return
	}
	if err != nil {
		h.log.Error("Failed to load feedback report for chart", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load feedback report")
		return
	}

	bar := generateScoreChart(report)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := bar.Render(c.Writer); err != nil {
		h.log.Error("Failed to render feedback chart", zap.Error(err))
	}
}

func generateScoreChart(report *repository.FeedbackReport) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Interview Performance",
			Subtitle: fmt.Sprintf("Overall score: %d/100", report.OverallScore),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := []string{"Overall"}
	values := []opts.BarData{{Value: report.OverallScore}}

	if report.Voice != nil {
		labels = append(labels, "Voice", "Communication", "Technical", "Confidence")
		values = append(values,
			opts.BarData{Value: report.Voice.VoiceScore},
			opts.BarData{Value: report.Voice.CommunicationScore},
			opts.BarData{Value: report.Voice.TechnicalScore},
			opts.BarData{Value: report.Voice.ConfidenceScore},
		)
	}
	if report.BodyLanguage != nil {
		labels = append(labels, "Body Language", "Posture", "Eye Contact", "Gestures")
		values = append(values,
			opts.BarData{Value: report.BodyLanguage.BodyLanguageScore},
			opts.BarData{Value: report.BodyLanguage.PostureScore},
			opts.BarData{Value: report.BodyLanguage.EyeContactScore},
			opts.BarData{Value: report.BodyLanguage.GestureScore},
		)
	}

	bar.SetXAxis(labels).AddSeries("Score", values)
	return bar
}
