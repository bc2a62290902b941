package measures

// GreenMeasures joins the three per-advert axes on advert id. Any axis may
// be nil when its measurer could not produce a result for the advert.
type GreenMeasures struct {
	AdvertID   string
	Skills     *SkillMeasures
	Occupation *OccupationMatch
	Industry   *IndustryMatch

	// Advert metadata carried through for aggregation.
	Region    string
	ITL1Code  string
	ITL2Code  string
	ITL3Code  string
	MeanSalary *float64
}

// NullCounts tallies record-scoped gaps across a batch. Record-scoped
// misses are never errors; they are reported per batch for observability.
type NullCounts struct {
	NoTitle        int `json:"no_title"`
	NoCompany      int `json:"no_company"`
	NoText         int `json:"no_text"`
	NoOccupation   int `json:"no_occupation"`
	NoIndustry     int `json:"no_industry"`
	NoSkills       int `json:"no_skills"`
	BelowThreshold int `json:"below_threshold"`
}

func (n *NullCounts) Add(o NullCounts) {
	n.NoTitle += o.NoTitle
	n.NoCompany += o.NoCompany
	n.NoText += o.NoText
	n.NoOccupation += o.NoOccupation
	n.NoIndustry += o.NoIndustry
	n.NoSkills += o.NoSkills
	n.BelowThreshold += o.BelowThreshold
}
