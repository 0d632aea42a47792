package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FallbackReason records why a documented default was substituted for a model
// answer. Both resolve to the same default value, but callers can tell a dead
// endpoint apart from garbage output when reading stored records or logs.
type FallbackReason string

const (
	FallbackNone             FallbackReason = ""
	FallbackModelUnavailable FallbackReason = "model_unavailable"
	FallbackBadModelOutput   FallbackReason = "bad_model_output"
)

// ExtractJSON pulls the JSON object out of free-form model text and decodes it
// into v. Models routinely wrap their answer in Markdown fences or lead with
// prose, so this strips fences and takes the substring from the first '{' to
// the last '}'. A failed parse here is the expected error path, not an
// anomaly; callers substitute their documented default.
func ExtractJSON(raw string, v interface{}) error {
	cleaned := stripCodeFences(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON object found in model output")
	}

	candidate := cleaned[start : end+1]
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("parse model output: %w", err)
	}
	return nil
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
