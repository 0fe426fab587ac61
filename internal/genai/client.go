// Package genai wraps the Gemini generateContent REST API behind a small
// text-in, text-out interface. The client is constructed explicitly and
// injected into the components that need it.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Generator is the generative-text provider contract consumed by question
// generation and the feedback stages.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls the Gemini API, trying each configured model in order and
// returning the first success.
type Client struct {
	log        *zap.Logger
	apiKey     string
	models     []string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Gemini client. models are tried in order on every
// Generate call.
func NewClient(log *zap.Logger, apiKey string, models []string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	if len(models) == 0 {
		return nil, errors.New("no gemini models configured")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		log:        log,
		apiKey:     apiKey,
		models:     models,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt to each configured model until one succeeds.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	var lastErr error
	for _, model := range c.models {
		text, err := c.generateWithModel(ctx, model, body)
		if err != nil {
			c.log.Warn("Gemini model failed, trying next",
				zap.String("model", model),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		c.log.Debug("Gemini generation succeeded", zap.String("model", model))
		return text, nil
	}

	return "", fmt.Errorf("all gemini models failed: %w", lastErr)
}

func (c *Client) generateWithModel(ctx context.Context, model string, body []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse api response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates in response")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", errors.New("empty text in response")
	}
	return text, nil
}
