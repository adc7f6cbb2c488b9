package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// buildPrompt joins the persona, the user's text and the request context
// into the single prompt sent to the model.
func buildPrompt(systemPrompt, text string, meta map[string]any) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nUser message: ")
	b.WriteString(text)
	b.WriteString("\n\nContext: ")
	b.WriteString(renderContext(meta))
	return b.String()
}

// renderContext prints meta as JSON with sorted keys. Values JSON cannot
// encode fall back to fmt formatting.
func renderContext(meta map[string]any) string {
	if len(meta) == 0 {
		return "{}"
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Sprint(meta)
	}
	return string(b)
}
