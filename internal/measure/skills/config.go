// Package skills measures the skill axis of advert greenness: it maps the
// recogniser's skill spans onto the green and full skill taxonomies and
// classifies each span as green or not.
package skills

// Thresholds are the calibrated constants of the skill mapper. The zero
// value is not usable; start from DefaultThresholds.
type Thresholds struct {
	// SkillMatch accepts the top full-taxonomy match outright.
	SkillMatch float64 `yaml:"skill_match"`
	// TopLevel accepts a hierarchy level's best description match.
	TopLevel float64 `yaml:"top_level"`
	// MaxShare gates the weighted-majority hierarchy code per level,
	// indexed 1..3 (broadest to finest ancestor level).
	MaxShare map[int]float64 `yaml:"max_share"`
	// GreenFloor is the minimum similarity for a green-taxonomy mapping.
	GreenFloor float64 `yaml:"green_floor"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SkillMatch: 0.7,
		TopLevel:   0.5,
		MaxShare:   map[int]float64{1: 0, 2: 0.2, 3: 0.2},
		GreenFloor: 0.5,
	}
}
