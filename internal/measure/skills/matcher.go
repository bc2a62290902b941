package skills

import (
	"math"
	"sort"

	"greenjobs/internal/domain/measures"
	"greenjobs/internal/pkg/vector"
	"greenjobs/internal/taxonomy"
)

// matchResult is the taxonomy view of one unique surface.
type matchResult struct {
	Green    *measures.TaxonomyMapping
	GreenSim float64
	Full     *measures.TaxonomyMapping
}

type fullLabel struct {
	id        string
	label     string
	vec       []float32
	hierarchy [4]taxonomy.HierarchyLevel
	preferred string
}

// mapper resolves a surface embedding against both skill taxonomies.
type mapper struct {
	th     Thresholds
	store  *taxonomy.Store
	labels []fullLabel
}

func newMapper(store *taxonomy.Store, th Thresholds) *mapper {
	m := &mapper{th: th, store: store}
	for _, lv := range store.FullVectors() {
		e, ok := store.FullEntry(lv.ID)
		if !ok {
			continue
		}
		m.labels = append(m.labels, fullLabel{
			id:        lv.ID,
			label:     lv.Label,
			vec:       lv.Vec,
			hierarchy: e.Hierarchy,
			preferred: e.PreferredLabel,
		})
	}
	return m
}

func (m *mapper) match(vec32 []float32) matchResult {
	res := matchResult{}

	res.GreenSim, res.Green = m.matchGreen(vec32)
	res.Full = m.matchFull(vec32)
	return res
}

// matchGreen returns the raw top similarity against every green-taxonomy
// label and, when it clears the floor, the mapping itself.
func (m *mapper) matchGreen(vec32 []float32) (float64, *measures.TaxonomyMapping) {
	bestSim := math.Inf(-1)
	var bestID, bestLabel string
	for _, lv := range m.store.GreenVectors() {
		sim := vector.Cosine(vec32, lv.Vec)
		if sim > bestSim || (sim == bestSim && lv.ID < bestID) {
			bestSim = sim
			bestID = lv.ID
			bestLabel = lv.Label
		}
	}
	if bestID == "" {
		return 0, nil
	}
	if bestSim < m.th.GreenFloor {
		return bestSim, nil
	}
	// Report the preferred label, not the alternative that happened to win.
	if e, ok := m.store.GreenEntry(bestID); ok {
		bestLabel = e.PreferredLabel
	}
	return bestSim, &measures.TaxonomyMapping{ID: bestID, Label: bestLabel, Score: bestSim}
}

// matchFull resolves the full-taxonomy mapping by the ordered rules: accept
// the top label match outright above SkillMatch, otherwise walk the
// hierarchy from the finest ancestor level down, taking either the
// weighted-majority code or the level's best description match.
func (m *mapper) matchFull(vec32 []float32) *measures.TaxonomyMapping {
	type levelWeights struct {
		weights map[string]int
		descs   map[string]string
		total   int
	}
	levels := map[int]*levelWeights{}
	for _, lvl := range []int{1, 2, 3} {
		levels[lvl] = &levelWeights{weights: map[string]int{}, descs: map[string]string{}}
	}

	bestSim := math.Inf(-1)
	var best *fullLabel
	for i := range m.labels {
		fl := &m.labels[i]
		sim := vector.Cosine(vec32, fl.vec)
		if sim > bestSim || (sim == bestSim && best != nil && fl.id < best.id) {
			bestSim = sim
			best = fl
		}
		w := int(math.Round(sim * 10))
		if w <= 0 {
			continue
		}
		for _, lvl := range []int{1, 2, 3} {
			h := fl.hierarchy[lvl-1]
			if h.Code == "" {
				continue
			}
			lw := levels[lvl]
			lw.weights[h.Code] += w
			lw.total += w
			if h.Description != "" {
				lw.descs[h.Code] = h.Description
			}
		}
	}

	if best == nil {
		return nil
	}
	if bestSim >= m.th.SkillMatch {
		return &measures.TaxonomyMapping{ID: best.id, Label: best.preferred, Score: bestSim}
	}

	for _, lvl := range []int{3, 2, 1} {
		lw := levels[lvl]
		if code, share, ok := topShare(lw.weights, lw.total); ok && share >= m.th.MaxShare[lvl] {
			return &measures.TaxonomyMapping{ID: code, Label: lw.descs[code], Score: share}
		}
		if mp := m.matchLevelDescription(vec32, lvl); mp != nil {
			return mp
		}
	}
	return nil
}

// matchLevelDescription finds the best description match at one hierarchy
// level, accepted only above the TopLevel threshold.
func (m *mapper) matchLevelDescription(vec32 []float32, level int) *measures.TaxonomyMapping {
	bestSim := math.Inf(-1)
	var bestID, bestLabel string
	for _, lv := range m.store.LevelVectors(level) {
		sim := vector.Cosine(vec32, lv.Vec)
		if sim > bestSim || (sim == bestSim && lv.ID < bestID) {
			bestSim = sim
			bestID = lv.ID
			bestLabel = lv.Label
		}
	}
	if bestID == "" || bestSim < m.th.TopLevel {
		return nil
	}
	return &measures.TaxonomyMapping{ID: bestID, Label: bestLabel, Score: bestSim}
}

// topShare is the weighted-plurality reducer over a level's code multiset.
// Ties break by ascending code.
func topShare(weights map[string]int, total int) (string, float64, bool) {
	if len(weights) == 0 || total <= 0 {
		return "", 0, false
	}
	codes := make([]string, 0, len(weights))
	for c := range weights {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	best := codes[0]
	for _, c := range codes[1:] {
		if weights[c] > weights[best] {
			best = c
		}
	}
	return best, float64(weights[best]) / float64(total), true
}
