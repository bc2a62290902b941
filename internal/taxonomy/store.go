// Package taxonomy loads and serves the read-only reference corpora: the
// green and full skill taxonomies, the job-title index, the occupation
// greenness tables, the industry register with its emission and green-task
// tables, the industry paraphrases and the known-company lookup. Everything
// is loaded once at startup and never mutated afterwards.
package taxonomy

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log"

	"greenjobs/internal/pkg/detrand"
)

var (
	ErrMissingReference = errors.New("missing reference file")
	ErrBadReference     = errors.New("malformed reference file")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Entry is one green-skill taxonomy row.
type Entry struct {
	ID             string
	PreferredLabel string
	AltLabels      []string
	Type           string
}

// HierarchyLevel is one ancestor of a full-taxonomy entry.
type HierarchyLevel struct {
	Code        string
	Description string
}

// FullEntry is one full-skill taxonomy row with its four-level hierarchy;
// Hierarchy[0] is the broadest level.
type FullEntry struct {
	ID             string
	PreferredLabel string
	AltLabels      []string
	Hierarchy      [4]HierarchyLevel
}

// TitleEntry is one job-title index row linking a title surface to the
// occupation code triple. Surface is the embedding text; where the raw
// title is shared by several codes it is extended with the adjacent
// columns until unique.
type TitleEntry struct {
	Title        string
	NaturalOrder string
	Additions    string
	Industry     string
	Surface      string
	SOC2020EXT   string
	SOC2020      string
	SOC2010      string
}

// OccupationGreenness is the greenness join for one 6-digit occupation code.
type OccupationGreenness struct {
	SOC2020EXT  string
	GLACategory string
	Green       bool
	Timeshare   float64
	Topics      []string
}

// Industry is one register row.
type Industry struct {
	SIC     string
	Name    string
	Section string
}

// IndustryParaphrase is one LLM-authored company-description restatement of
// an industry code, with its precomputed embedding.
type IndustryParaphrase struct {
	SIC        string
	Name       string
	Paraphrase string
	Embedding  []float32
}

// Emissions holds the most recent year's figures for one industry code at
// some granularity (2, 3 or 4 digits).
type Emissions struct {
	Code    string
	Year    int
	Total   float64
	PerUnit float64
}

// GreenTasks holds the section-level green-task shares.
type GreenTasks struct {
	Section          string
	Year             int
	PropHoursGreen   float64
	PropWorkersGreen float64
	PropWorkers20pct float64
}

// LabeledVector is one embeddable label of a taxonomy entry: the entry id,
// the label text and its precomputed vector.
type LabeledVector struct {
	ID    string
	Label string
	Vec   []float32
}

// Store is the read-only reference corpus set.
type Store struct {
	green     map[string]Entry
	full      map[string]FullEntry
	titles    []TitleEntry
	occGreen  map[string]OccupationGreenness
	industries map[string]Industry
	emissions map[int]map[string]Emissions // granularity -> code -> row
	greenTasks map[string]GreenTasks
	paraphrases []IndustryParaphrase
	companySIC map[uint64][]string

	greenVectors []LabeledVector
	fullVectors  []LabeledVector
	levelVectors map[int][]LabeledVector // hierarchy level -> description vectors
	titleVectors [][]float32             // aligned with titles
	topicList    []string
	topicVectors []LabeledVector

	dim  int
	seed int64
}

// Load reads every reference file named in paths. A missing or malformed
// file is fatal; a caller getting a Store back can rely on every table
// being present.
func Load(paths Paths, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		emissions:    make(map[int]map[string]Emissions),
		levelVectors: make(map[int][]LabeledVector),
		seed:         detrand.DefaultSeed,
	}

	steps := []struct {
		name string
		fn   func(*Store, Paths) error
	}{
		{"green_skills", loadGreenSkills},
		{"full_skills", loadFullSkills},
		{"title_index", loadTitleIndex},
		{"occupation_greenness", loadOccupationGreenness},
		{"industry_register", loadIndustryRegister},
		{"emissions", loadEmissions},
		{"green_tasks", loadGreenTasks},
		{"company_sic", loadCompanySIC},
		{"paraphrases", loadParaphrases},
		{"green_topics", loadGreenTopics},
		{"embeddings", loadEmbeddings},
	}
	for _, st := range steps {
		if err := st.fn(s, paths); err != nil {
			return nil, fmt.Errorf("taxonomy %s: %w", st.name, err)
		}
		logger.Printf("taxonomy=load table=%s status=ok", st.name)
	}

	if err := s.checkDimensions(); err != nil {
		return nil, err
	}
	logger.Printf("taxonomy=load status=ok green=%d full=%d titles=%d industries=%d paraphrases=%d dim=%d",
		len(s.green), len(s.full), len(s.titles), len(s.industries), len(s.paraphrases), s.dim)
	return s, nil
}

// LabelOf returns the preferred label for an id in either skill taxonomy.
func (s *Store) LabelOf(id string) (string, bool) {
	if e, ok := s.green[id]; ok {
		return e.PreferredLabel, true
	}
	if e, ok := s.full[id]; ok {
		return e.PreferredLabel, true
	}
	return "", false
}

// EmbeddingOf returns the preferred-label vector for an id.
func (s *Store) EmbeddingOf(id string) ([]float32, bool) {
	for _, lv := range s.greenVectors {
		if lv.ID == id && lv.Label == s.green[id].PreferredLabel {
			return lv.Vec, true
		}
	}
	for _, lv := range s.fullVectors {
		if lv.ID == id && lv.Label == s.full[id].PreferredLabel {
			return lv.Vec, true
		}
	}
	return nil, false
}

// HierarchyOf returns the four ancestors of a full-taxonomy entry.
func (s *Store) HierarchyOf(id string) ([4]HierarchyLevel, bool) {
	e, ok := s.full[id]
	if !ok {
		return [4]HierarchyLevel{}, false
	}
	return e.Hierarchy, true
}

func (s *Store) GreenEntry(id string) (Entry, bool) {
	e, ok := s.green[id]
	return e, ok
}

func (s *Store) FullEntry(id string) (FullEntry, bool) {
	e, ok := s.full[id]
	return e, ok
}

// GreenVectors returns every labelled vector of the green skill taxonomy:
// one per preferred and alternative label.
func (s *Store) GreenVectors() []LabeledVector { return s.greenVectors }

// FullVectors returns every labelled vector of the full skill taxonomy.
func (s *Store) FullVectors() []LabeledVector { return s.fullVectors }

// LevelVectors returns the description vectors for one hierarchy level
// (levels 2 and 3 carry label descriptions used in matching).
func (s *Store) LevelVectors(level int) []LabeledVector { return s.levelVectors[level] }

func (s *Store) Titles() []TitleEntry    { return s.titles }
func (s *Store) TitleVectors() [][]float32 { return s.titleVectors }

func (s *Store) OccupationGreenness(soc2020ext string) (OccupationGreenness, bool) {
	g, ok := s.occGreen[soc2020ext]
	return g, ok
}

func (s *Store) IndustryByCode(sic string) (Industry, bool) {
	ind, ok := s.industries[sic]
	return ind, ok
}

// SectionOf returns the single section letter for a 5-digit industry code.
func (s *Store) SectionOf(sic string) (string, bool) {
	ind, ok := s.industries[sic]
	if !ok {
		return "", false
	}
	return ind.Section, true
}

func (s *Store) Paraphrases() []IndustryParaphrase { return s.paraphrases }

// EmissionsFor returns the most recent figures for a code, trying the
// finest granularity first (4 then 3 then 2 digits of the code).
func (s *Store) EmissionsFor(sic string) (Emissions, bool) {
	for _, g := range []int{4, 3, 2} {
		if len(sic) < g {
			continue
		}
		if table, ok := s.emissions[g]; ok {
			if e, ok := table[sic[:g]]; ok {
				return e, true
			}
		}
	}
	return Emissions{}, false
}

func (s *Store) GreenTasksFor(section string) (GreenTasks, bool) {
	g, ok := s.greenTasks[section]
	return g, ok
}

func (s *Store) GreenTopics() []string           { return s.topicList }
func (s *Store) TopicVectors() []LabeledVector   { return s.topicVectors }

// CompanyHash hashes an already-cleaned company name for the known-company
// lookup.
func CompanyHash(cleaned string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(cleaned))
	return h.Sum64()
}

// IndustryForCompanyHash returns the industry code registered for a cleaned
// company-name hash. When several codes are registered, one is chosen
// deterministically from the constant seed.
func (s *Store) IndustryForCompanyHash(h uint64) (string, bool) {
	codes, ok := s.companySIC[h]
	if !ok || len(codes) == 0 {
		return "", false
	}
	return detrand.Pick(codes, s.seed), true
}

// Dim is the embedding dimension shared by every stored vector.
func (s *Store) Dim() int { return s.dim }

func (s *Store) checkDimensions() error {
	check := func(kind string, vecs []LabeledVector) error {
		for _, lv := range vecs {
			if s.dim == 0 {
				s.dim = len(lv.Vec)
			}
			if len(lv.Vec) != s.dim {
				return fmt.Errorf("%w: %s id=%s got=%d want=%d", ErrDimensionMismatch, kind, lv.ID, len(lv.Vec), s.dim)
			}
		}
		return nil
	}
	if err := check("green", s.greenVectors); err != nil {
		return err
	}
	if err := check("full", s.fullVectors); err != nil {
		return err
	}
	for lvl, vecs := range s.levelVectors {
		if err := check(fmt.Sprintf("level%d", lvl), vecs); err != nil {
			return err
		}
	}
	if err := check("topics", s.topicVectors); err != nil {
		return err
	}
	for i, v := range s.titleVectors {
		if s.dim == 0 {
			s.dim = len(v)
		}
		if len(v) != s.dim {
			return fmt.Errorf("%w: title index=%d got=%d want=%d", ErrDimensionMismatch, i, len(v), s.dim)
		}
	}
	for _, p := range s.paraphrases {
		if s.dim == 0 {
			s.dim = len(p.Embedding)
		}
		if len(p.Embedding) != s.dim {
			return fmt.Errorf("%w: paraphrase sic=%s got=%d want=%d", ErrDimensionMismatch, p.SIC, len(p.Embedding), s.dim)
		}
	}
	return nil
}
