package feedback

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSONObject strips code fences from free-form provider text and
// slices out the outermost JSON object. The provider is instructed to return
// bare JSON but routinely wraps it in prose or fences anyway.
func extractJSONObject(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```javascript", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

// parseObject extracts and decodes a JSON object from provider text.
func parseObject(s string) (map[string]any, error) {
	cleaned := extractJSONObject(s)
	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return nil, fmt.Errorf("failed to parse provider JSON: %w", err)
	}
	return m, nil
}

// coerceScore returns the field as an int, or def when the field is
// missing or not numeric. Downstream code never needs to re-check.
func coerceScore(m map[string]any, key string, def int) int {
	v, ok := m[key]
	if !ok {
		return def
	}
	f, ok := v.(float64)
	if !ok {
		return def
	}
	return int(f)
}

// coerceList returns the field as a string list, or def when the field is
// missing, not a list, or empty. Non-string entries are skipped.
func coerceList(m map[string]any, key string, def []string) []string {
	v, ok := m[key]
	if !ok {
		return def
	}
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return def
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// coerceString returns the field as a non-empty string, or def.
func coerceString(m map[string]any, key string, def string) string {
	if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}
