package skills

import (
	"strings"

	"greenjobs/internal/domain/measures"
)

// surfaceOverrides pre-empts the embedding mapper for surfaces the mapper
// is known to get wrong. Keys are lower-cased surfaces. Curated.
var surfaceOverrides = map[string]measures.TaxonomyMapping{
	"it": {
		ID:    "S5.6",
		Label: "using digital tools for collaboration, content creation and problem solving",
		Score: 1,
	},
	"r": {
		ID:    "S2.5.1",
		Label: "use statistical analysis software",
		Score: 1,
	},
	"excel": {
		ID:    "S2.5.2",
		Label: "use spreadsheets software",
		Score: 1,
	},
	"word": {
		ID:    "S2.5.3",
		Label: "use word processing software",
		Score: 1,
	},
}

func overrideFor(surface string) (measures.TaxonomyMapping, bool) {
	m, ok := surfaceOverrides[strings.ToLower(strings.TrimSpace(surface))]
	return m, ok
}
