package taxonomy

import (
	"strings"

	"greenjobs/internal/pkg/detrand"
)

// Tables is the in-memory form of the reference corpus set. NewFromTables
// assembles a Store from it directly, bypassing the file loaders; callers
// that already hold the tables (tooling, tests) use this instead of Load.
type Tables struct {
	Green      []Entry
	Full       []FullEntry
	Titles     []TitleEntry
	OccGreen   []OccupationGreenness
	Industries []Industry
	Emissions  []Emissions
	GreenTasks []GreenTasks

	// CompanySIC maps cleaned company names to registered industry codes.
	CompanySIC map[string][]string

	Paraphrases  []IndustryParaphrase
	GreenVectors []LabeledVector
	FullVectors  []LabeledVector
	LevelVectors map[int][]LabeledVector
	TitleVectors [][]float32
	Topics       []string
	TopicVectors []LabeledVector
}

func NewFromTables(t Tables) (*Store, error) {
	s := &Store{
		green:        make(map[string]Entry, len(t.Green)),
		full:         make(map[string]FullEntry, len(t.Full)),
		titles:       t.Titles,
		occGreen:     make(map[string]OccupationGreenness, len(t.OccGreen)),
		industries:   make(map[string]Industry, len(t.Industries)),
		emissions:    make(map[int]map[string]Emissions),
		greenTasks:   make(map[string]GreenTasks, len(t.GreenTasks)),
		paraphrases:  t.Paraphrases,
		companySIC:   make(map[uint64][]string, len(t.CompanySIC)),
		greenVectors: t.GreenVectors,
		fullVectors:  t.FullVectors,
		levelVectors: make(map[int][]LabeledVector),
		titleVectors: t.TitleVectors,
		topicList:    lowerAll(t.Topics),
		topicVectors: t.TopicVectors,
		seed:         detrand.DefaultSeed,
	}

	for _, e := range t.Green {
		s.green[e.ID] = e
	}
	for _, e := range t.Full {
		s.full[e.ID] = e
	}
	for _, g := range t.OccGreen {
		s.occGreen[g.SOC2020EXT] = g
	}
	for _, ind := range t.Industries {
		s.industries[ind.SIC] = ind
	}
	for _, e := range t.Emissions {
		gran := len(e.Code)
		if s.emissions[gran] == nil {
			s.emissions[gran] = make(map[string]Emissions)
		}
		s.emissions[gran][e.Code] = e
	}
	for _, g := range t.GreenTasks {
		s.greenTasks[g.Section] = g
	}
	for name, codes := range t.CompanySIC {
		s.companySIC[CompanyHash(name)] = codes
	}
	for lvl, vecs := range t.LevelVectors {
		s.levelVectors[lvl] = vecs
	}

	if err := s.checkDimensions(); err != nil {
		return nil, err
	}
	return s, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
