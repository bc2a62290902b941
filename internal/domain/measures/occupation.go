package measures

type OccupationMatchKind string

const (
	OccMatchTop      OccupationMatchKind = "top-similarity"
	OccMatchMajority OccupationMatchKind = "group-majority"
	OccMatchNone     OccupationMatchKind = "none"
)

// OccupationMatch is the per-advert occupation axis. Codes follow the
// standardised occupation classification: SOC2020EXT is the 6-digit extended
// code, SOC2020 the 4-digit code and SOC2010 its previous generation.
type OccupationMatch struct {
	AdvertID   string
	SOC2020EXT string
	SOC2020    string
	SOC2010    string
	Label      string
	Kind       OccupationMatchKind

	// Greenness join; nil when the code is absent from the greenness tables
	// or no code was matched at all.
	GreenCategory   *string
	GreenTimeshare  *float64
	GreenTopicCount *int
}

func (m OccupationMatch) Matched() bool {
	return m.Kind != OccMatchNone && m.SOC2020 != ""
}
