package industries

import (
	"context"
	"fmt"
	"log"
	"time"

	"greenjobs/internal/domain/advert"
	"greenjobs/internal/domain/measures"
	"greenjobs/internal/embed"
	"greenjobs/internal/taxonomy"
)

// Thresholds are the calibrated constants of the industry resolver.
type Thresholds struct {
	// SimThreshold accepts the nearest paraphrase outright; the score is
	// 1/(1+d) for L2 distance d.
	SimThreshold float64 `yaml:"sim_threshold"`
	// TopK is how many nearest paraphrases enter prefix resolution.
	TopK int `yaml:"top_k"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{SimThreshold: 0.67, TopK: 5}
}

// Measurer resolves the industry axis: known-company short-circuit first,
// company-description embedding against industry paraphrases second.
type Measurer struct {
	store      *taxonomy.Store
	embedder   embed.Embedder
	classifier SentenceClassifier
	th         Thresholds
	logger     *log.Logger
}

func NewMeasurer(
	store *taxonomy.Store,
	embedder embed.Embedder,
	classifier SentenceClassifier,
	th Thresholds,
	logger *log.Logger,
) *Measurer {
	if logger == nil {
		logger = log.Default()
	}
	return &Measurer{store: store, embedder: embedder, classifier: classifier, th: th, logger: logger}
}

// MeasureBatch resolves every advert in the batch. Classifier or embedder
// failure is batch-scoped; an advert with neither a known company nor a
// usable description yields an empty match and a null count.
func (m *Measurer) MeasureBatch(ctx context.Context, adverts []advert.Advert) ([]measures.IndustryMatch, measures.NullCounts, error) {
	start := time.Now()
	var nulls measures.NullCounts

	out := make([]measures.IndustryMatch, len(adverts))
	needContent := make([]int, 0, len(adverts))
	for i, a := range adverts {
		out[i] = measures.IndustryMatch{AdvertID: a.ID}
		if !a.HasCompany() {
			nulls.NoCompany++
		} else if sic, ok := m.knownCompany(a.CompanyName); ok {
			out[i] = m.join(m.matchForCode(a.ID, sic))
			continue
		}
		if !a.HasText() {
			nulls.NoIndustry++
			continue
		}
		needContent = append(needContent, i)
	}

	if len(needContent) > 0 {
		if err := m.contentRoute(ctx, adverts, needContent, out, &nulls); err != nil {
			return nil, nulls, err
		}
	}

	m.logger.Printf("pipeline=industries status=ok adverts=%d content_route=%d duration=%s",
		len(adverts), len(needContent), time.Since(start))
	return out, nulls, nil
}

func (m *Measurer) knownCompany(name string) (string, bool) {
	cleaned := CleanCompanyName(name)
	if cleaned == "" {
		return "", false
	}
	return m.store.IndustryForCompanyHash(taxonomy.CompanyHash(cleaned))
}

// matchForCode builds the known-company match for a registered 5-digit code.
func (m *Measurer) matchForCode(advertID, sic string) measures.IndustryMatch {
	match := measures.IndustryMatch{
		AdvertID:   advertID,
		SIC:        sic,
		Method:     measures.IndMethodKnownCompany,
		Confidence: 1,
	}
	if ind, ok := m.store.IndustryByCode(sic); ok {
		match.SICName = ind.Name
		match.Section = ind.Section
	}
	return match
}

// contentRoute classifies candidate sentences for every advert that missed
// the lookup, embeds the assembled company descriptions and resolves each
// against the paraphrase embeddings.
func (m *Measurer) contentRoute(ctx context.Context, adverts []advert.Advert, idxs []int, out []measures.IndustryMatch, nulls *measures.NullCounts) error {
	type pending struct {
		idx       int
		sentences []string
	}
	all := make([]string, 0, 64)
	pendings := make([]pending, 0, len(idxs))
	offsets := make([]int, 0, len(idxs))
	for _, i := range idxs {
		sents := candidateSentences(adverts[i].JobText)
		if len(sents) == 0 {
			nulls.NoIndustry++
			continue
		}
		offsets = append(offsets, len(all))
		pendings = append(pendings, pending{idx: i, sentences: sents})
		all = append(all, sents...)
	}
	if len(all) == 0 {
		return nil
	}

	labels, err := m.classifier.Classify(ctx, all)
	if err != nil {
		return fmt.Errorf("industries batch: %w", err)
	}

	descs := make([]string, 0, len(pendings))
	descIdx := make([]int, 0, len(pendings))
	for p, pd := range pendings {
		var kept []string
		for j, s := range pd.sentences {
			if labels[offsets[p]+j] {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			nulls.NoIndustry++
			continue
		}
		descIdx = append(descIdx, pd.idx)
		descs = append(descs, joinSentences(kept))
	}
	if len(descs) == 0 {
		return nil
	}

	vecs, err := m.embedder.Embed(ctx, descs)
	if err != nil {
		return fmt.Errorf("industries batch: %w", err)
	}

	for j, i := range descIdx {
		match := m.resolve(adverts[i].ID, vecs[j])
		match.Description = descs[j]
		if !match.Matched() {
			nulls.BelowThreshold++
			nulls.NoIndustry++
		}
		out[i] = m.join(match)
	}
	return nil
}

// join enriches a resolved match with the emission and green-task tables.
func (m *Measurer) join(match measures.IndustryMatch) measures.IndustryMatch {
	if len(match.SIC) >= 2 {
		if e, ok := m.store.EmissionsFor(match.SIC); ok {
			per := e.PerUnit
			tot := e.Total
			match.GHGPerUnit = &per
			match.GHGTotal = &tot
		}
	}
	if match.Section != "" {
		if g, ok := m.store.GreenTasksFor(match.Section); ok {
			hours := g.PropHoursGreen
			workers := g.PropWorkersGreen
			twenty := g.PropWorkers20pct
			match.PropHoursGreen = &hours
			match.PropWorkersGreen = &workers
			match.PropWorkers20pct = &twenty
		}
	}
	return match
}

func joinSentences(sents []string) string {
	out := ""
	for i, s := range sents {
		if i > 0 {
			out += ". "
		}
		out += s
	}
	return out + "."
}
