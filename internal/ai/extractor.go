// Package ai defines the structured-field extraction contract shared by the
// model providers.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ProfileExtractor turns resume text into a flat key/value object. Values are
// untrusted: strings, lists, numbers or null.
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, text string) (map[string]any, error)
}

// Instruction is sent as the system prompt with every extraction request.
const Instruction = `Extract the following fields from the resume text and return them as a single flat JSON object.
Fields:
- name
- education (undergraduate, graduate or postgraduate)
- degree (degrees obtained)
- skills (key skills, separated by commas)
- interests (key interests, separated by commas)
- location (preferred work location)
- experience (fresher (0 years), 1-2 years, 3-5 years, 5+ years)
Use exactly these keys. Each value must be a string or a list of strings. Use null when a field is not present in the resume.
Return only the JSON object.`

// ParseObject decodes a model response into a JSON object, tolerating
// surrounding code fences.
func ParseObject(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("response is not a json object")
	}

	return data, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
