package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// errNoJSON signals that model output contained no recognisable object.
var errNoJSON = errors.New("no JSON object in model output")

// decodeModelJSON parses a JSON object out of raw model output.
// Models wrap objects in markdown fences or prose often enough that a
// strict json.Unmarshal would reject otherwise usable replies, so the
// outermost {...} span is extracted first.
func decodeModelJSON(raw string, v any) error {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return errNoJSON
	}
	cleaned = cleaned[start : end+1]

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parse model JSON: %w", err)
	}
	return nil
}

// formatHistory renders conversation turns for prompt inclusion.
// Returns "(no prior conversation)" when there are no turns so templates
// never interpolate an empty block.
func formatHistory(turns []domain.Turn) string {
	if len(turns) == 0 {
		return "(no prior conversation)"
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		switch turn.Role {
		case domain.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(turn.Content)
	}
	return b.String()
}
