package measures

type GroupKey string

const (
	GroupByOccupation GroupKey = "occupation"
	GroupByIndustry   GroupKey = "industry"
	GroupByRegion     GroupKey = "region"
)

type TercileBin string

const (
	BinLow  TercileBin = "low"
	BinMid  TercileBin = "mid"
	BinHigh TercileBin = "high"
)

type CompositeScore string

const (
	ScoreLow     CompositeScore = "low"
	ScoreLowMid  CompositeScore = "low-mid"
	ScoreMidHigh CompositeScore = "mid-high"
	ScoreHigh    CompositeScore = "high"
)

// RankedItem is one entry in a top-N list: an identifier, its display label
// and its normalised share within the group.
type RankedItem struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// RegionQuotient is a region ranked by location quotient: the group's
// advert share in the region over the region's share of all adverts.
type RegionQuotient struct {
	Region   string  `json:"region"`
	Quotient float64 `json:"quotient"`
}

// AggregateRow is one output row of the aggregation layer, keyed by
// occupation code, industry code or region code.
type AggregateRow struct {
	Key        string
	KeyLabel   string
	GroupBy    GroupKey
	NumAdverts int
	PropAdverts float64

	MeanTimeshare        *float64
	MeanPropGreenSkills  *float64
	MeanGHGPerUnit       *float64
	MeanPropHoursGreen   *float64
	MeanPropWorkersGreen *float64
	MeanSalary           *float64

	TopGreenSkills []RankedItem
	TopOtherSkills []RankedItem
	TopIndustries  []RankedItem
	TopOccupations []RankedItem
	TopRegions     []RegionQuotient

	TimeshareBin  *TercileBin
	PropGreenBin  *TercileBin
	GHGBin        *TercileBin
	Composite     *CompositeScore
}
