package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"greenjobs/internal/domain/advert"
)

// advertRecord is the wire shape of one input advert (JSON lines).
type advertRecord struct {
	ID          string   `json:"id"`
	JobTitle    string   `json:"job_title"`
	CompanyName string   `json:"company_name"`
	JobText     string   `json:"job_text"`
	ITL1        string   `json:"itl_1,omitempty"`
	ITL2        string   `json:"itl_2,omitempty"`
	ITL3        string   `json:"itl_3,omitempty"`
	MinSalary   *float64 `json:"min_annualised_salary,omitempty"`
	MaxSalary   *float64 `json:"max_annualised_salary,omitempty"`
}

// ReadAdverts decodes a JSON-lines advert stream. limit > 0 stops after
// that many records (the non-production test batch). Records without an id
// are rejected: every downstream join is keyed on it.
func ReadAdverts(r io.Reader, limit int) ([]advert.Advert, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	out := make([]advert.Advert, 0, 1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec advertRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("adverts line %d: %w", line, err)
		}
		if strings.TrimSpace(rec.ID) == "" {
			return nil, fmt.Errorf("adverts line %d: missing id", line)
		}
		out = append(out, advert.Advert{
			ID:          strings.TrimSpace(rec.ID),
			JobTitle:    strings.TrimSpace(rec.JobTitle),
			CompanyName: strings.TrimSpace(rec.CompanyName),
			JobText:     rec.JobText,
			ITL1Code:    rec.ITL1,
			ITL2Code:    rec.ITL2,
			ITL3Code:    rec.ITL3,
			MinSalary:   rec.MinSalary,
			MaxSalary:   rec.MaxSalary,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
