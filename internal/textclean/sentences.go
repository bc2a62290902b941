package textclean

import (
	"regexp"
	"strings"
)

var reSentenceEnd = regexp.MustCompile(`[.!?]+`)

// Sentences splits cleaned text into trimmed sentences, dropping empties.
func Sentences(text string) []string {
	if text == "" {
		return nil
	}
	parts := reSentenceEnd.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
