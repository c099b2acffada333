package conversation

import "strings"

// NormalizeRole lowercases a role and maps the Gemini-style "model" role to
// "assistant".
func NormalizeRole(role string) Role {
	r := strings.ToLower(role)
	if r == "model" {
		return RoleAssistant
	}
	return Role(r)
}

// Transcript renders history as chronological "role: content" lines, the
// form the generation prompt embeds.
func Transcript(history []Message) string {
	var sb strings.Builder
	for i, msg := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(string(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
	}
	return sb.String()
}
