package advert

import "strings"

// Advert is a single job posting as handed to the engine. All fields except
// ID may be empty; each measurer tolerates the absences it cares about.
type Advert struct {
	ID          string
	JobTitle    string
	CompanyName string
	JobText     string

	// Optional metadata carried through to aggregation.
	ITL1Code  string
	ITL2Code  string
	ITL3Code  string
	MinSalary *float64
	MaxSalary *float64
}

// The presence checks treat whitespace-only fields as absent: a blank
// title must be counted as a null, never matched against the title index.
func (a Advert) HasTitle() bool   { return strings.TrimSpace(a.JobTitle) != "" }
func (a Advert) HasCompany() bool { return strings.TrimSpace(a.CompanyName) != "" }
func (a Advert) HasText() bool    { return strings.TrimSpace(a.JobText) != "" }

// Region returns the finest location code present, preferring ITL3.
func (a Advert) Region() string {
	if a.ITL3Code != "" {
		return a.ITL3Code
	}
	if a.ITL2Code != "" {
		return a.ITL2Code
	}
	return a.ITL1Code
}
