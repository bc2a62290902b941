package industries

import (
	"strings"

	"greenjobs/internal/domain/measures"
	"greenjobs/internal/pkg/vector"
)

type paraphraseHit struct {
	sic     string
	name    string
	section string
	score   float64
}

// resolve finds the k nearest industry paraphrases to a company-description
// embedding under L2 distance (score 1/(1+d)). The nearest code wins
// outright above the threshold; otherwise the longest shared prefix of
// section+code over the top-k pairs stands in as a coarser identifier.
func (m *Measurer) resolve(advertID string, vec32 []float32) measures.IndustryMatch {
	match := measures.IndustryMatch{AdvertID: advertID}

	paraphrases := m.store.Paraphrases()
	if len(paraphrases) == 0 {
		return match
	}

	scored := make([]vector.Scored, 0, len(paraphrases))
	bySIC := make(map[string]int, len(paraphrases))
	for i, p := range paraphrases {
		d := vector.L2Distance(vec32, p.Embedding)
		scored = append(scored, vector.Scored{ID: p.SIC, Score: 1 / (1 + d)})
		bySIC[p.SIC] = i
	}
	top := vector.TopK(scored, m.th.TopK)

	hits := make([]paraphraseHit, 0, len(top))
	for _, s := range top {
		p := paraphrases[bySIC[s.ID]]
		section, _ := m.store.SectionOf(p.SIC)
		hits = append(hits, paraphraseHit{sic: p.SIC, name: p.Name, section: section, score: s.Score})
	}

	best := hits[0]
	if best.score > m.th.SimThreshold {
		match.SIC = best.sic
		match.SICName = best.name
		match.Section = best.section
		match.Method = measures.IndMethodTop
		match.Confidence = best.score
		return match
	}

	prefix, conf := sharedPrefix(hits)
	if prefix == "" {
		return match
	}
	match.Section = prefix[:1]
	if len(prefix) > 1 {
		match.SIC = prefix[1:]
	}
	if len(match.SIC) == 5 {
		if ind, ok := m.store.IndustryByCode(match.SIC); ok {
			match.SICName = ind.Name
		}
	}
	match.Method = measures.IndMethodMajority
	match.Confidence = conf
	return match
}

// sharedPrefix finds the longest common prefix of section+code over every
// pair of hits, returned with the mean score of the winning pair. Ties
// break toward the earlier (higher-ranked) pair.
func sharedPrefix(hits []paraphraseHit) (string, float64) {
	best := ""
	conf := 0.0
	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			a := hits[i].section + hits[i].sic
			b := hits[j].section + hits[j].sic
			p := commonPrefix(a, b)
			// A prefix without the section letter identifies nothing.
			if len(p) < 1 || hits[i].section == "" {
				continue
			}
			if len(p) > len(best) {
				best = p
				conf = (hits[i].score + hits[j].score) / 2
			}
		}
	}
	return best, conf
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return strings.TrimSpace(a[:i])
}
