// Package industries assigns a standardised industry code to each advert,
// either from the known-company lookup or by matching the advert's
// company-description sentences against industry paraphrase embeddings.
package industries

import (
	"regexp"
	"strings"
)

var rePunct = regexp.MustCompile(`[^a-z0-9 ]+`)
var reSpace = regexp.MustCompile(`\s+`)

// companyStopwords are legal suffixes and filler tokens stripped from
// company names before hashing. Curated.
var companyStopwords = map[string]bool{
	"limited": true, "ltd": true, "llc": true, "llp": true, "plc": true,
	"inc": true, "co": true, "company": true, "group": true, "holdings": true,
	"uk": true, "gb": true, "services": true, "solutions": true,
	"recruitment": true, "the": true, "and": true,
}

// CleanCompanyName lowercases, strips punctuation and drops the stop-word
// set, collapsing whitespace. Two adverts from the same employer clean to
// the same key regardless of suffix noise.
func CleanCompanyName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = rePunct.ReplaceAllString(s, " ")
	parts := strings.Fields(reSpace.ReplaceAllString(s, " "))
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if companyStopwords[p] {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, " ")
}
