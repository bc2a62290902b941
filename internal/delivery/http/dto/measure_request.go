package dto

import (
	"strings"

	"greenjobs/internal/domain/advert"
)

// MeasureRequest is a single advert submitted for on-demand measurement.
// Field names match the batch JSON-lines input.
type MeasureRequest struct {
	ID          string   `json:"id"`
	JobTitle    string   `json:"job_title"`
	CompanyName string   `json:"company_name"`
	JobText     string   `json:"job_text"`
	ITL1Code    string   `json:"itl_1"`
	ITL2Code    string   `json:"itl_2"`
	ITL3Code    string   `json:"itl_3"`
	MinSalary   *float64 `json:"min_annualised_salary"`
	MaxSalary   *float64 `json:"max_annualised_salary"`
}

func (r MeasureRequest) Validate() string {
	if strings.TrimSpace(r.ID) == "" {
		return "id is required"
	}
	return ""
}

func (r MeasureRequest) ToAdvert() advert.Advert {
	return advert.Advert{
		ID:          strings.TrimSpace(r.ID),
		JobTitle:    strings.TrimSpace(r.JobTitle),
		CompanyName: strings.TrimSpace(r.CompanyName),
		JobText:     r.JobText,
		ITL1Code:    strings.TrimSpace(r.ITL1Code),
		ITL2Code:    strings.TrimSpace(r.ITL2Code),
		ITL3Code:    strings.TrimSpace(r.ITL3Code),
		MinSalary:   r.MinSalary,
		MaxSalary:   r.MaxSalary,
	}
}
