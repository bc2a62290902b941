package skills

import (
	"regexp"
	"strings"
)

var reSplitSeps = regexp.MustCompile(`\s*(?:,|;|/|\band\b|\bor\b|&)\s*`)

// splitMulti breaks a multi-span surface ("communication, teamwork and
// leadership") into its sub-phrases. Fragments shorter than three
// characters are noise from the separator pass and are dropped.
func splitMulti(surface string) []string {
	parts := reSplitSeps.Split(surface, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) < 3 {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		s := strings.TrimSpace(surface)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
