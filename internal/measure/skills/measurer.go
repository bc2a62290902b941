package skills

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
	"greenjobs/internal/ner"
	"greenjobs/internal/taxonomy"
)

// Measurer runs the skill pipeline over advert batches: span extraction,
// multi-span expansion, surface dedupe, embedding, taxonomy mapping and
// green classification.
type Measurer struct {
	store      *taxonomy.Store
	embedder   embed.Embedder
	recognizer ner.Recognizer
	classifier *GreenClassifier
	mapper     *mapper
	logger     *log.Logger
}

func NewMeasurer(
	store *taxonomy.Store,
	embedder embed.Embedder,
	recognizer ner.Recognizer,
	classifier *GreenClassifier,
	th Thresholds,
	logger *log.Logger,
) *Measurer {
	if logger == nil {
		logger = log.Default()
	}
	return &Measurer{
		store:      store,
		embedder:   embedder,
		recognizer: recognizer,
		classifier: classifier,
		mapper:     newMapper(store, th),
		logger:     logger,
	}
}

// surfaceInfo is everything computed once per unique surface in a batch.
type surfaceInfo struct {
	match matchResult
	green bool
	prob  float64
}

// MeasureBatch measures every advert in the batch. Recogniser or embedder
// failure is batch-scoped and returned; adverts with no text yield an
// empty measure and a null count.
func (m *Measurer) MeasureBatch(ctx context.Context, adverts []advert.Advert) ([]measures.SkillMeasures, measures.NullCounts, error) {
	start := time.Now()
	var nulls measures.NullCounts

	out := make([]measures.SkillMeasures, len(adverts))
	withText := make([]int, 0, len(adverts))
	texts := make([]string, 0, len(adverts))
	for i, a := range adverts {
		out[i] = measures.SkillMeasures{AdvertID: a.ID}
		if !a.HasText() {
			nulls.NoText++
			nulls.NoSkills++
			continue
		}
		withText = append(withText, i)
		texts = append(texts, a.JobText)
	}
	if len(withText) == 0 {
		return out, nulls, nil
	}

	spanLists, err := m.recognizer.Recognize(ctx, texts)
	if err != nil {
		return nil, nulls, fmt.Errorf("skills batch: %w", err)
	}

	// Expand multi-spans and divert benefits, keeping advert order.
	type advertSpans struct {
		idx      int
		spans    []string
		raw      int
		benefits []string
	}
	expanded := make([]advertSpans, len(withText))
	uniq := make(map[string]int)
	surfaces := make([]string, 0, 64)
	for j, idx := range withText {
		as := advertSpans{idx: idx, raw: len(spanLists[j])}
		for _, sp := range spanLists[j] {
			var parts []string
			if sp.Kind == ner.KindMulti {
				parts = splitMulti(sp.Text)
			} else if s := strings.TrimSpace(sp.Text); s != "" {
				parts = []string{s}
			}
			for _, p := range parts {
				if isBenefit(p) {
					as.benefits = append(as.benefits, p)
					continue
				}
				as.spans = append(as.spans, p)
				key := strings.ToLower(p)
				if _, ok := uniq[key]; !ok {
					uniq[key] = len(surfaces)
					surfaces = append(surfaces, p)
				}
			}
		}
		expanded[j] = as
	}

	infos, err := m.resolveSurfaces(ctx, surfaces)
	if err != nil {
		return nil, nulls, err
	}

	for _, as := range expanded {
		sm := &out[as.idx]
		sm.Benefits = as.benefits
		sm.NumSpans = as.raw
		sm.NumSplitSpans = len(as.spans)

		for _, surface := range as.spans {
			info := infos[uniq[strings.ToLower(surface)]]
			span := measures.SkillSpan{
				AdvertID:         sm.AdvertID,
				Surface:          surface,
				Kind:             measures.SpanSingle,
				FullMapping:      info.match.Full,
				GreenMapping:     info.match.Green,
				Green:            info.green,
				GreenProbability: info.prob,
			}
			if span.Green {
				sm.GreenSpans = append(sm.GreenSpans, span)
			} else {
				sm.OtherSpans = append(sm.OtherSpans, span)
			}
		}

		if sm.NumSplitSpans > 0 {
			sm.PropGreen = float64(len(sm.GreenSpans)) / float64(sm.NumSplitSpans)
		} else {
			nulls.NoSkills++
		}
		sm.GreenSpans = dedupeGreen(sm.GreenSpans)
	}

	m.logger.Printf("pipeline=skills status=ok adverts=%d surfaces=%d duration=%s",
		len(adverts), len(surfaces), time.Since(start))
	return out, nulls, nil
}

// resolveSurfaces embeds the batch's unique surfaces and computes mapping
// and classification once per surface.
func (m *Measurer) resolveSurfaces(ctx context.Context, surfaces []string) ([]surfaceInfo, error) {
	if len(surfaces) == 0 {
		return nil, nil
	}
	vecs, err := m.embedder.Embed(ctx, surfaces)
	if err != nil {
		return nil, fmt.Errorf("skills batch: %w", err)
	}

	infos := make([]surfaceInfo, len(surfaces))
	for i, surface := range surfaces {
		info := surfaceInfo{match: m.mapper.match(vecs[i])}
		if ov, ok := overrideFor(surface); ok {
			ovCopy := ov
			info.match.Full = &ovCopy
		}

		topicSim, topicCount := topicFeatures(surface, vecs[i], m.store)
		info.green, info.prob = m.classifier.Predict(Features{
			GreenTaxonomySim: info.match.GreenSim,
			GreenTopicSim:    topicSim,
			TopicCount:       float64(topicCount),
		})
		infos[i] = info
	}
	return infos, nil
}

// dedupeGreen drops repeated green labels within one advert, keeping the
// first span under a sort by green label.
func dedupeGreen(spans []measures.SkillSpan) []measures.SkillSpan {
	if len(spans) < 2 {
		return spans
	}
	sorted := make([]measures.SkillSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Label() < sorted[j].Label()
	})

	out := sorted[:0]
	var prev string
	for i, sp := range sorted {
		label := sp.Label()
		if i > 0 && label == prev {
			continue
		}
		prev = label
		out = append(out, sp)
	}
	return out
}
