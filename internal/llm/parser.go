package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanMarkdownWrapper strips markdown code fences that models sometimes
// wrap around JSON despite instructions not to.
func CleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		// Drop the opening fence line (``` or ```json).
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		} else {
			content = strings.TrimPrefix(content, "```")
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}

// DecodeStrict parses a model response into v, rejecting unknown fields.
// Fences are stripped first; anything that still fails to parse is a schema
// violation the caller must recover from.
func DecodeStrict(content string, v any) error {
	cleaned := CleanMarkdownWrapper(content)

	decoder := json.NewDecoder(strings.NewReader(cleaned))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
