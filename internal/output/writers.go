package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"greenjobs/internal/domain/measures"
)

// skillTuple and greenTuple are the canonical serialisations of the nested
// skill lists: nesting only exists at the output boundary, never inside
// the engine.
type skillTuple struct {
	Surface string    `json:"surface"`
	Match   [2]string `json:"match"` // label, id
}

type greenTuple struct {
	Surface     string  `json:"surface"`
	Probability float64 `json:"probability"`
	Label       string  `json:"label"`
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
}

// WriteSkills emits the per-advert skills file.
func WriteSkills(dir, name string, rows []measures.GreenMeasures) error {
	return WriteAtomic(dir, name, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "PROP_GREEN", "NUM_SPLIT_ENTS", "SKILL", "GREEN_ENTS", "BENEFITS"}); err != nil {
			return err
		}
		for _, r := range rows {
			s := r.Skills
			if s == nil {
				s = &measures.SkillMeasures{AdvertID: r.AdvertID}
			}
			skillCell, err := marshalSkillList(s)
			if err != nil {
				return err
			}
			greenCell, err := marshalGreenList(s)
			if err != nil {
				return err
			}
			benefitsCell, err := jsonCell(s.Benefits)
			if err != nil {
				return err
			}
			rec := []string{
				r.AdvertID,
				formatFloat(s.PropGreen),
				strconv.Itoa(s.NumSplitSpans),
				skillCell,
				greenCell,
				benefitsCell,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func marshalSkillList(s *measures.SkillMeasures) (string, error) {
	tuples := make([]skillTuple, 0, len(s.GreenSpans)+len(s.OtherSpans))
	for _, sp := range append(append([]measures.SkillSpan{}, s.GreenSpans...), s.OtherSpans...) {
		t := skillTuple{Surface: sp.Surface}
		if sp.FullMapping != nil {
			t.Match = [2]string{sp.FullMapping.Label, sp.FullMapping.ID}
		}
		tuples = append(tuples, t)
	}
	return jsonCell(tuples)
}

func marshalGreenList(s *measures.SkillMeasures) (string, error) {
	tuples := make([]greenTuple, 0, len(s.GreenSpans))
	for _, sp := range s.GreenSpans {
		t := greenTuple{Surface: sp.Surface, Probability: sp.GreenProbability}
		if sp.GreenMapping != nil {
			t.Label = sp.GreenMapping.Label
			t.ID = sp.GreenMapping.ID
			t.Score = sp.GreenMapping.Score
		}
		tuples = append(tuples, t)
	}
	return jsonCell(tuples)
}

// WriteOccupations emits the per-advert occupation file.
func WriteOccupations(dir, name string, rows []measures.GreenMeasures) error {
	return WriteAtomic(dir, name, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		header := []string{"id", "SOC_2020_EXT", "SOC_2020", "SOC_2010", "name", "timeshare", "GLA_category", "topic_count"}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, r := range rows {
			rec := []string{r.AdvertID, "", "", "", "", "", "", ""}
			if o := r.Occupation; o != nil {
				rec[1] = o.SOC2020EXT
				rec[2] = o.SOC2020
				rec[3] = o.SOC2010
				rec[4] = o.Label
				rec[5] = formatOptFloat(o.GreenTimeshare)
				rec[6] = strOrEmpty(o.GreenCategory)
				rec[7] = intOrEmpty(o.GreenTopicCount)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteIndustries emits the per-advert industry file.
func WriteIndustries(dir, name string, rows []measures.GreenMeasures) error {
	return WriteAtomic(dir, name, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		header := []string{
			"id", "company_description", "SIC", "SIC_name", "SIC_section", "SIC_method",
			"SIC_confidence", "INDUSTRY_GHG_PER_UNIT", "INDUSTRY_TOTAL_GHG",
			"INDUSTRY_PROP_HOURS_GREEN", "INDUSTRY_PROP_WORKERS_GREEN", "INDUSTRY_PROP_WORKERS_20PCT_GREEN",
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, r := range rows {
			rec := make([]string, len(header))
			rec[0] = r.AdvertID
			if d := r.Industry; d != nil {
				rec[1] = d.Description
				rec[2] = d.SIC
				rec[3] = d.SICName
				rec[4] = d.Section
				rec[5] = string(d.Method)
				rec[6] = formatFloat(d.Confidence)
				rec[7] = formatOptFloat(d.GHGPerUnit)
				rec[8] = formatOptFloat(d.GHGTotal)
				rec[9] = formatOptFloat(d.PropHoursGreen)
				rec[10] = formatOptFloat(d.PropWorkersGreen)
				rec[11] = formatOptFloat(d.PropWorkers20pct)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteAggregates emits one aggregate file for a group key.
func WriteAggregates(dir, name string, rows []measures.AggregateRow) error {
	return WriteAtomic(dir, name, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		header := []string{
			"key", "key_label", "group_by", "num_job_ads", "prop_job_ads",
			"mean_timeshare", "mean_prop_green_skills", "mean_ghg_per_unit",
			"mean_prop_hours_green", "mean_prop_workers_green", "mean_salary",
			"top_green_skills", "top_other_skills", "top_industries", "top_occupations", "top_regions_lq",
			"timeshare_bin", "prop_green_bin", "ghg_bin", "composite_score",
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, r := range rows {
			topGreen, err := jsonCell(r.TopGreenSkills)
			if err != nil {
				return err
			}
			topOther, err := jsonCell(r.TopOtherSkills)
			if err != nil {
				return err
			}
			topInd, err := jsonCell(r.TopIndustries)
			if err != nil {
				return err
			}
			topOcc, err := jsonCell(r.TopOccupations)
			if err != nil {
				return err
			}
			topReg, err := jsonCell(r.TopRegions)
			if err != nil {
				return err
			}
			rec := []string{
				r.Key, r.KeyLabel, string(r.GroupBy),
				strconv.Itoa(r.NumAdverts), formatFloat(r.PropAdverts),
				formatOptFloat(r.MeanTimeshare), formatOptFloat(r.MeanPropGreenSkills),
				formatOptFloat(r.MeanGHGPerUnit), formatOptFloat(r.MeanPropHoursGreen),
				formatOptFloat(r.MeanPropWorkersGreen), formatOptFloat(r.MeanSalary),
				topGreen, topOther, topInd, topOcc, topReg,
				binOrEmpty(r.TimeshareBin), binOrEmpty(r.PropGreenBin), binOrEmpty(r.GHGBin),
				scoreOrEmpty(r.Composite),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func jsonCell(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func binOrEmpty(b *measures.TercileBin) string {
	if b == nil {
		return ""
	}
	return string(*b)
}

func scoreOrEmpty(s *measures.CompositeScore) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
