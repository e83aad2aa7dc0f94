// Package transcript formats the chat log for display and for model context.
package transcript

import (
	"regexp"
	"strings"

	"github.com/rcliao/aura/internal/model"
)

var (
	boldMark   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicMark = regexp.MustCompile(`\*(.*?)\*`)
)

// questionWords mark queries that should end with a question mark.
var questionWords = []string{
	"how", "what", "who", "where", "when", "why", "which", "whom",
	"can you", "what's", "where's", "how's",
}

// Render formats chat turns into the displayed transcript, one line per turn,
// prefixed with the speaker's name.
func Render(turns []model.Turn, username, assistant string) string {
	var b strings.Builder
	for _, t := range turns {
		name := assistant
		if t.Role == model.RoleUser {
			name = username
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return CleanAnswer(b.String())
}

// CleanAnswer strips markdown emphasis and drops empty lines.
func CleanAnswer(answer string) string {
	answer = boldMark.ReplaceAllString(answer, "$1")
	answer = italicMark.ReplaceAllString(answer, "$1")

	var lines []string
	for _, line := range strings.Split(answer, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

// NormalizeQuery lowercases a query and gives it terminal punctuation: a
// question mark when it reads like a question, otherwise a period. The first
// letter is re-capitalized.
func NormalizeQuery(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}

	isQuestion := false
	for _, w := range questionWords {
		if strings.Contains(q, w+" ") {
			isQuestion = true
			break
		}
	}

	q = strings.TrimRight(q, ".?!")
	if isQuestion {
		q += "?"
	} else {
		q += "."
	}
	return strings.ToUpper(q[:1]) + q[1:]
}

// Window returns the newest max turns, oldest first.
func Window(turns []model.Turn, max int) []model.Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	return turns[len(turns)-max:]
}
