package llm

import "strings"

// StripCodeFence removes a markdown code fence wrapped around the whole reply.
// Models sometimes fence plain-text output even when told not to.
// Text that is not fenced is returned unchanged.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return text
	}

	body := strings.TrimPrefix(trimmed, "```")
	body = strings.TrimSuffix(body, "```")

	// Skip a language identifier on the opening line
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := body[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			body = body[idx+1:]
		}
	}

	return strings.Trim(body, "\n")
}
