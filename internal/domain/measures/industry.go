package measures

type IndustryMethod string

const (
	IndMethodKnownCompany IndustryMethod = "known-company"
	IndMethodTop          IndustryMethod = "top-similarity"
	IndMethodMajority     IndustryMethod = "group-majority"
)

// IndustryMatch is the per-advert industry axis. SIC is the 5-digit industry
// code; the majority route may yield a shorter shared prefix when the
// nearest paraphrases disagree below the similarity threshold.
type IndustryMatch struct {
	AdvertID    string
	SIC         string
	SICName     string
	Section     string
	Method      IndustryMethod
	Confidence  float64
	Description string

	// Emission and green-task joins; nil when the code has no entry.
	GHGPerUnit       *float64
	GHGTotal         *float64
	PropHoursGreen   *float64
	PropWorkersGreen *float64
	PropWorkers20pct *float64
}

func (m IndustryMatch) Matched() bool { return m.SIC != "" || m.Section != "" }
