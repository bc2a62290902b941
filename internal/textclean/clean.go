// Package textclean normalises advert description text before sentence
// splitting and embedding. Advert text arrives scraped from HTML: bullet
// glyphs, non-breaking spaces and glued-together camel-case sentences are
// all common and all break the sentence splitter downstream.
package textclean

import (
	"regexp"
	"strings"
)

var (
	reBrackets   = regexp.MustCompile(`[\[\]()【】{}]`)
	reBullets    = regexp.MustCompile(`[•●▪◦‣·*]+`)
	reColonSlash = regexp.MustCompile(`[:/]`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reCamel      = regexp.MustCompile(`([a-z])([A-Z][a-z])`)
	reDots       = regexp.MustCompile(`\.(\s*\.)+`)
)

// camelExceptions are product and technology names whose internal capitals
// are not sentence boundaries. Curated; extend via config when new ones
// show up in adverts.
var camelExceptions = []string{
	"JavaScript", "TypeScript", "WordPress", "DevOps", "DevSecOps", "iOS",
	"NoSQL", "PostgreSQL", "MySQL", "MongoDB", "GitHub", "GitLab", "LinkedIn",
	"YouTube", "PowerPoint", "SharePoint", "McKinsey", "JavaSE", "OpenShift",
	"AutoCAD", "SolidWorks", "BiFold", "InDesign",
}

// Clean applies the standard advert-text normalisation: ampersands become
// "and", non-breaking spaces become spaces, newlines and bullets become
// sentence breaks, brackets are stripped, colons and slashes become spaces,
// and camel-case boundaries are split into sentences unless the word is a
// known exception.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ReplaceAll(text, "&amp;", "and")
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", ". ")
	s = reBrackets.ReplaceAllString(s, "")
	s = reBullets.ReplaceAllString(s, ". ")
	s = reColonSlash.ReplaceAllString(s, " ")

	s = splitCamel(s)

	s = reDots.ReplaceAllString(s, ".")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// splitCamel turns "responsibilitiesYou will" into "responsibilities. You
// will", leaving exception words intact.
func splitCamel(s string) string {
	placeholders := make([]string, 0, len(camelExceptions))
	for i, exc := range camelExceptions {
		if !strings.Contains(s, exc) {
			placeholders = append(placeholders, "")
			continue
		}
		ph := placeholder(i)
		placeholders = append(placeholders, ph)
		s = strings.ReplaceAll(s, exc, ph)
	}

	s = reCamel.ReplaceAllString(s, "$1. $2")

	for i, ph := range placeholders {
		if ph == "" {
			continue
		}
		s = strings.ReplaceAll(s, ph, camelExceptions[i])
	}
	return s
}

func placeholder(i int) string {
	return "\x00" + string(rune('a'+i%26)) + string(rune('a'+i/26)) + "\x00"
}
