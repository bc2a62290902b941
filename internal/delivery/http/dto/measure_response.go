package dto

import "greenjobs/internal/domain/measures"

type TaxonomyMappingResponse struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type SkillSpanResponse struct {
	Surface          string                   `json:"surface"`
	Label            string                   `json:"label"`
	Kind             string                   `json:"kind"`
	Green            bool                     `json:"green"`
	GreenProbability float64                  `json:"green_probability"`
	FullMapping      *TaxonomyMappingResponse `json:"full_mapping,omitempty"`
	GreenMapping     *TaxonomyMappingResponse `json:"green_mapping,omitempty"`
}

type SkillMeasuresResponse struct {
	NumSpans      int                 `json:"num_spans"`
	NumSplitSpans int                 `json:"num_split_spans"`
	PropGreen     float64             `json:"prop_green"`
	GreenSkills   []SkillSpanResponse `json:"green_skills"`
	OtherSkills   []SkillSpanResponse `json:"other_skills"`
	Benefits      []string            `json:"benefits"`
}

type OccupationResponse struct {
	SOC2020EXT      string   `json:"soc_2020_ext"`
	SOC2020         string   `json:"soc_2020"`
	SOC2010         string   `json:"soc_2010"`
	Label           string   `json:"label"`
	Kind            string   `json:"match_kind"`
	GreenCategory   *string  `json:"green_category,omitempty"`
	GreenTimeshare  *float64 `json:"green_timeshare,omitempty"`
	GreenTopicCount *int     `json:"green_topic_count,omitempty"`
}

type IndustryResponse struct {
	SIC              string   `json:"sic"`
	SICName          string   `json:"sic_name"`
	Section          string   `json:"section"`
	Method           string   `json:"method"`
	Confidence       float64  `json:"confidence"`
	Description      string   `json:"company_description,omitempty"`
	GHGPerUnit       *float64 `json:"ghg_per_unit,omitempty"`
	GHGTotal         *float64 `json:"ghg_total,omitempty"`
	PropHoursGreen   *float64 `json:"prop_hours_green,omitempty"`
	PropWorkersGreen *float64 `json:"prop_workers_green,omitempty"`
	PropWorkers20pct *float64 `json:"prop_workers_20pct,omitempty"`
}

type MeasureResponse struct {
	AdvertID   string                 `json:"advert_id"`
	Skills     *SkillMeasuresResponse `json:"skills,omitempty"`
	Occupation *OccupationResponse    `json:"occupation,omitempty"`
	Industry   *IndustryResponse      `json:"industry,omitempty"`
}

func NewSkillMeasuresResponse(m measures.SkillMeasures) SkillMeasuresResponse {
	return SkillMeasuresResponse{
		NumSpans:      m.NumSpans,
		NumSplitSpans: m.NumSplitSpans,
		PropGreen:     m.PropGreen,
		GreenSkills:   newSpanResponses(m.GreenSpans),
		OtherSkills:   newSpanResponses(m.OtherSpans),
		Benefits:      m.Benefits,
	}
}

func NewOccupationResponse(m measures.OccupationMatch) OccupationResponse {
	return OccupationResponse{
		SOC2020EXT:      m.SOC2020EXT,
		SOC2020:         m.SOC2020,
		SOC2010:         m.SOC2010,
		Label:           m.Label,
		Kind:            string(m.Kind),
		GreenCategory:   m.GreenCategory,
		GreenTimeshare:  m.GreenTimeshare,
		GreenTopicCount: m.GreenTopicCount,
	}
}

func NewIndustryResponse(m measures.IndustryMatch) IndustryResponse {
	return IndustryResponse{
		SIC:              m.SIC,
		SICName:          m.SICName,
		Section:          m.Section,
		Method:           string(m.Method),
		Confidence:       m.Confidence,
		Description:      m.Description,
		GHGPerUnit:       m.GHGPerUnit,
		GHGTotal:         m.GHGTotal,
		PropHoursGreen:   m.PropHoursGreen,
		PropWorkersGreen: m.PropWorkersGreen,
		PropWorkers20pct: m.PropWorkers20pct,
	}
}

func NewMeasureResponse(m measures.GreenMeasures) MeasureResponse {
	out := MeasureResponse{AdvertID: m.AdvertID}
	if m.Skills != nil {
		sk := NewSkillMeasuresResponse(*m.Skills)
		out.Skills = &sk
	}
	if m.Occupation != nil {
		occ := NewOccupationResponse(*m.Occupation)
		out.Occupation = &occ
	}
	if m.Industry != nil {
		ind := NewIndustryResponse(*m.Industry)
		out.Industry = &ind
	}
	return out
}

func newSpanResponses(spans []measures.SkillSpan) []SkillSpanResponse {
	out := make([]SkillSpanResponse, 0, len(spans))
	for _, s := range spans {
		out = append(out, SkillSpanResponse{
			Surface:          s.Surface,
			Label:            s.Label(),
			Kind:             string(s.Kind),
			Green:            s.Green,
			GreenProbability: s.GreenProbability,
			FullMapping:      newMappingResponse(s.FullMapping),
			GreenMapping:     newMappingResponse(s.GreenMapping),
		})
	}
	return out
}

func newMappingResponse(m *measures.TaxonomyMapping) *TaxonomyMappingResponse {
	if m == nil {
		return nil
	}
	return &TaxonomyMappingResponse{ID: m.ID, Label: m.Label, Score: m.Score}
}
