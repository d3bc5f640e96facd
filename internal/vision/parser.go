package vision

import "strings"

// cleanMarkdownWrapper strips markdown code fences that models
// sometimes wrap around JSON despite instructions not to.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		// Drop the opening fence line, including a language tag like ```json.
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		} else {
			content = strings.TrimPrefix(content, "```")
		}
	}

	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	return strings.TrimSpace(content)
}
