package workflow

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	leadingBullet = regexp.MustCompile(`^[-*•]\s+`)
	terminalPunct = regexp.MustCompile(`[\.!?]`)
)

// PolishAnswer normalizes a quick answer to exactly one terminating sentence:
// whitespace collapsed, bullet markers stripped, truncated at the first
// terminal punctuation mark. The source citation is appended in parentheses
// unless the URL already appears in the sentence.
func PolishAnswer(answer, sourceURL string) string {
	out := strings.TrimSpace(answer)
	out = whitespaceRun.ReplaceAllString(out, " ")
	out = leadingBullet.ReplaceAllString(out, "")

	if loc := terminalPunct.FindStringIndex(out); loc != nil {
		out = strings.TrimSpace(out[:loc[1]])
	} else {
		out = strings.TrimRight(out, ".") + "."
	}

	if sourceURL != "" && !strings.Contains(out, sourceURL) {
		out = strings.TrimRight(out, ".") + " (" + sourceURL + ")."
	}
	return out
}
