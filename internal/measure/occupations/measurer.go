// Package occupations maps free-text job titles to standardised occupation
// codes and joins them to the occupation greenness tables.
package occupations

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"greenjobs/internal/domain/advert"
	"greenjobs/internal/domain/measures"
	"greenjobs/internal/embed"
	"greenjobs/internal/pkg/vector"
	"greenjobs/internal/taxonomy"
)

// Thresholds are the calibrated constants of the title coder.
type Thresholds struct {
	// SimThreshold accepts the top match outright.
	SimThreshold float64 `yaml:"sim_threshold"`
	// TopNSimThreshold admits a match into the majority vote.
	TopNSimThreshold float64 `yaml:"top_n_sim_threshold"`
	// MinimumN is the minimum number of admitted matches for a vote.
	MinimumN int `yaml:"minimum_n"`
	// MinimumProp is the minimum share of the mode code among admitted
	// matches.
	MinimumProp float64 `yaml:"minimum_prop"`
	// TopN is how many nearest titles are considered.
	TopN int `yaml:"top_n"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SimThreshold:     0.67,
		TopNSimThreshold: 0.5,
		MinimumN:         3,
		MinimumProp:      0.5,
		TopN:             10,
	}
}

// Measurer codes job titles by a two-stage rule: top similarity first,
// top-N majority second.
type Measurer struct {
	store    *taxonomy.Store
	embedder embed.Embedder
	th       Thresholds
	logger   *log.Logger
}

func NewMeasurer(store *taxonomy.Store, embedder embed.Embedder, th Thresholds, logger *log.Logger) *Measurer {
	if logger == nil {
		logger = log.Default()
	}
	return &Measurer{store: store, embedder: embedder, th: th, logger: logger}
}

// MeasureBatch codes each advert's title. Unique titles are embedded once
// per batch. Adverts without a title, and titles with no match above the
// thresholds, yield a match of kind "none".
func (m *Measurer) MeasureBatch(ctx context.Context, adverts []advert.Advert) ([]measures.OccupationMatch, measures.NullCounts, error) {
	start := time.Now()
	var nulls measures.NullCounts

	out := make([]measures.OccupationMatch, len(adverts))
	uniq := make(map[string]int)
	titles := make([]string, 0, len(adverts))
	for i, a := range adverts {
		out[i] = measures.OccupationMatch{AdvertID: a.ID, Kind: measures.OccMatchNone}
		if !a.HasTitle() {
			nulls.NoTitle++
			nulls.NoOccupation++
			continue
		}
		key := strings.ToLower(strings.TrimSpace(a.JobTitle))
		if _, ok := uniq[key]; !ok {
			uniq[key] = len(titles)
			titles = append(titles, strings.TrimSpace(a.JobTitle))
		}
	}
	if len(titles) == 0 {
		return out, nulls, nil
	}

	vecs, err := m.embedder.Embed(ctx, titles)
	if err != nil {
		return nil, nulls, fmt.Errorf("occupations batch: %w", err)
	}

	coded := make([]codedTitle, len(titles))
	for i := range titles {
		coded[i] = m.code(vecs[i])
	}

	for i, a := range adverts {
		if !a.HasTitle() {
			continue
		}
		ct := coded[uniq[strings.ToLower(strings.TrimSpace(a.JobTitle))]]
		if ct.kind == measures.OccMatchNone {
			nulls.NoOccupation++
			nulls.BelowThreshold++
			continue
		}
		match := measures.OccupationMatch{
			AdvertID:   a.ID,
			SOC2020EXT: ct.entry.SOC2020EXT,
			SOC2020:    ct.entry.SOC2020,
			SOC2010:    ct.entry.SOC2010,
			Label:      ct.label,
			Kind:       ct.kind,
		}
		if g, ok := m.store.OccupationGreenness(ct.entry.SOC2020EXT); ok {
			cat := g.GLACategory
			ts := g.Timeshare
			topics := len(g.Topics)
			match.GreenCategory = &cat
			match.GreenTimeshare = &ts
			match.GreenTopicCount = &topics
		}
		out[i] = match
	}

	m.logger.Printf("pipeline=occupations status=ok adverts=%d titles=%d duration=%s",
		len(adverts), len(titles), time.Since(start))
	return out, nulls, nil
}

type codedTitle struct {
	entry taxonomy.TitleEntry
	label string
	kind  measures.OccupationMatchKind
}

type titleHit struct {
	idx int
	sim float64
}

// code applies the two-stage decision to one title embedding.
func (m *Measurer) code(vec32 []float32) codedTitle {
	entries := m.store.Titles()
	titleVecs := m.store.TitleVectors()

	hits := make([]titleHit, 0, len(entries))
	for i := range entries {
		hits = append(hits, titleHit{idx: i, sim: vector.Cosine(vec32, titleVecs[i])})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].sim == hits[j].sim {
			return entries[hits[i].idx].Surface < entries[hits[j].idx].Surface
		}
		return hits[i].sim > hits[j].sim
	})
	if len(hits) > m.th.TopN {
		hits = hits[:m.th.TopN]
	}
	if len(hits) == 0 {
		return codedTitle{kind: measures.OccMatchNone}
	}

	top := hits[0]
	if top.sim > m.th.SimThreshold {
		e := entries[top.idx]
		return codedTitle{entry: e, label: e.Title, kind: measures.OccMatchTop}
	}

	// Majority vote over the matches that clear the lower bar.
	admitted := hits[:0:0]
	for _, h := range hits {
		if h.sim > m.th.TopNSimThreshold {
			admitted = append(admitted, h)
		}
	}
	if len(admitted) < m.th.MinimumN {
		return codedTitle{kind: measures.OccMatchNone}
	}

	byCode := make(map[string][]titleHit)
	for _, h := range admitted {
		code := entries[h.idx].SOC2020EXT
		byCode[code] = append(byCode[code], h)
	}
	codes := make([]string, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	mode := codes[0]
	for _, c := range codes[1:] {
		if len(byCode[c]) > len(byCode[mode]) {
			mode = c
		}
	}
	if float64(len(byCode[mode]))/float64(len(admitted)) < m.th.MinimumProp {
		return codedTitle{kind: measures.OccMatchNone}
	}

	// Label is the set of matched titles for the mode code, joined.
	labels := make([]string, 0, len(byCode[mode]))
	seen := make(map[string]bool)
	for _, h := range byCode[mode] {
		t := entries[h.idx].Title
		if !seen[t] {
			seen[t] = true
			labels = append(labels, t)
		}
	}
	sort.Strings(labels)
	return codedTitle{
		entry: entries[byCode[mode][0].idx],
		label: strings.Join(labels, "; "),
		kind:  measures.OccMatchMajority,
	}
}
