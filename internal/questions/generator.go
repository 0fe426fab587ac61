// Package questions builds the interview question set at session setup.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"aicoach-go/internal/genai"
	"aicoach-go/internal/models"
)

// Params describes the session the questions are generated for.
type Params struct {
	JobRole       string
	Experience    string
	TechStack     []string
	QuestionCount int
}

// Generator produces interview questions via the generative provider,
// falling back to the YAML question bank when generation or parsing fails.
type Generator struct {
	log  *zap.Logger
	ai   genai.Generator
	bank *models.QuestionBank
}

func NewGenerator(log *zap.Logger, ai genai.Generator, bank *models.QuestionBank) *Generator {
	return &Generator{log: log, ai: ai, bank: bank}
}

// rawQuestion is the shape the provider is asked to emit.
type rawQuestion struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Generate returns a question set for the given params. It never fails as
// long as a question bank is loaded; provider errors degrade to bank
// questions.
func (g *Generator) Generate(ctx context.Context, p Params) ([]models.Question, error) {
	if p.QuestionCount <= 0 {
		p.QuestionCount = 5
	}

	raw, err := g.generateFromProvider(ctx, p)
	if err != nil {
		g.log.Warn("Question generation failed, using question bank",
			zap.String("jobRole", p.JobRole),
			zap.Error(err),
		)
		return g.fromBank(p)
	}

	return assignIDs(raw), nil
}

func (g *Generator) generateFromProvider(ctx context.Context, p Params) ([]rawQuestion, error) {
	techStack := "general programming"
	if len(p.TechStack) > 0 {
		techStack = strings.Join(p.TechStack, ", ")
	}

	prompt := fmt.Sprintf(`Generate %d technical interview questions for a %s level %s position.

Tech stack: %s

For each question provide:
1. Question text
2. Detailed answer
3. Category (Technical/Behavioral/Problem-Solving)
4. Difficulty (Easy/Medium/Hard)

Format as JSON array:
[
  {
    "question": "question text",
    "answer": "detailed answer",
    "category": "Technical",
    "difficulty": "Medium"
  }
]

Return ONLY valid JSON, no markdown.`, p.QuestionCount, p.Experience, p.JobRole, techStack)

	response, err := g.ai.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cleaned := extractJSONArray(response)
	var raw []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("provider returned an empty question list")
	}
	return raw, nil
}

// fromBank selects questions from the YAML bank, preferring questions tagged
// for the requested role.
func (g *Generator) fromBank(p Params) ([]models.Question, error) {
	if g.bank == nil || len(g.bank.Questions) == 0 {
		return nil, fmt.Errorf("no question bank available")
	}

	role := strings.ToLower(p.JobRole)
	var preferred, rest []rawQuestion
	for _, bq := range g.bank.Questions {
		rq := rawQuestion{
			Question:   bq.Question,
			Answer:     bq.Answer,
			Category:   bq.Category,
			Difficulty: bq.Difficulty,
		}
		matched := false
		for _, r := range bq.Roles {
			if strings.Contains(role, strings.ToLower(r)) {
				matched = true
				break
			}
		}
		if matched {
			preferred = append(preferred, rq)
		} else {
			rest = append(rest, rq)
		}
	}

	pool := append(preferred, rest...)
	if len(pool) > p.QuestionCount {
		pool = pool[:p.QuestionCount]
	}
	return assignIDs(pool), nil
}

func assignIDs(raw []rawQuestion) []models.Question {
	now := time.Now()
	out := make([]models.Question, 0, len(raw))
	for i, q := range raw {
		category := q.Category
		if category == "" {
			category = "General"
		}
		difficulty := q.Difficulty
		if difficulty == "" {
			difficulty = "Medium"
		}
		out = append(out, models.Question{
			ID:         fmt.Sprintf("%d-%d", now.UnixMilli(), i),
			Question:   q.Question,
			Answer:     q.Answer,
			Category:   category,
			Difficulty: difficulty,
			IsPinned:   false,
			CreatedAt:  now.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// extractJSONArray strips code fences and slices out the outermost JSON
// array from free-form provider text.
func extractJSONArray(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
