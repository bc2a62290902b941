package measures

type SpanKind string

const (
	SpanSingle SpanKind = "single"
	SpanMulti  SpanKind = "multi"
)

// TaxonomyMapping is a resolved reference into one of the skill taxonomies.
// Code may identify a leaf entry or, for the full taxonomy, a hierarchy
// level when only a coarser consensus was reached.
type TaxonomyMapping struct {
	ID    string
	Label string
	Score float64
}

// SkillSpan is one extracted skill mention after multi-span expansion.
type SkillSpan struct {
	AdvertID string
	Surface  string
	Kind     SpanKind

	FullMapping  *TaxonomyMapping
	GreenMapping *TaxonomyMapping

	Green            bool
	GreenProbability float64
}

// Label returns the canonical label for the span: the green-taxonomy label
// when one exists, otherwise the full-taxonomy label, otherwise the surface.
func (s SkillSpan) Label() string {
	if s.GreenMapping != nil && s.GreenMapping.Label != "" {
		return s.GreenMapping.Label
	}
	if s.FullMapping != nil && s.FullMapping.Label != "" {
		return s.FullMapping.Label
	}
	return s.Surface
}

// SkillMeasures is the per-advert skill axis.
type SkillMeasures struct {
	AdvertID      string
	NumSpans      int
	NumSplitSpans int
	PropGreen     float64
	GreenSpans    []SkillSpan
	OtherSpans    []SkillSpan
	Benefits      []string
}
