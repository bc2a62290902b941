package taxonomy

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

func openXLSX(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingReference, path)
		}
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadReference, path, err)
	}
	return f, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellFloat(row []string, i int) (float64, bool) {
	v := cell(row, i)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func cellInt(row []string, i int) (int, bool) {
	v := cell(row, i)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// occupation_greenness.xlsx, first sheet:
// soc2020_ext | gla_category | green_flag | timeshare_pct | topics
func loadOccupationGreenness(s *Store, p Paths) error {
	f, err := openXLSX(p.OccupationGreenXLSX)
	if err != nil {
		return err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: %s: no sheets", ErrBadReference, p.OccupationGreenXLSX)
	}
	rows, err := sheetRows(f, sheets[0])
	if err != nil {
		return err
	}

	s.occGreen = make(map[string]OccupationGreenness, len(rows))
	for _, r := range rows {
		code := cell(r, 0)
		if code == "" {
			continue
		}
		g := OccupationGreenness{
			SOC2020EXT:  code,
			GLACategory: cell(r, 1),
			Green:       parseGreenFlag(cell(r, 2)),
		}
		if v, ok := cellFloat(r, 3); ok {
			g.Timeshare = v
		}
		if topics := cell(r, 4); topics != "" {
			for _, t := range strings.Split(topics, ";") {
				t = strings.TrimSpace(t)
				if t != "" {
					g.Topics = append(g.Topics, t)
				}
			}
		}
		s.occGreen[code] = g
	}
	return nil
}

func parseGreenFlag(v string) bool {
	switch strings.ToLower(v) {
	case "green", "yes", "true", "1":
		return true
	}
	return false
}

// industry_register.xlsx, first sheet: sic_5digit | name | section
func loadIndustryRegister(s *Store, p Paths) error {
	f, err := openXLSX(p.IndustryRegisterXLSX)
	if err != nil {
		return err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: %s: no sheets", ErrBadReference, p.IndustryRegisterXLSX)
	}
	rows, err := sheetRows(f, sheets[0])
	if err != nil {
		return err
	}

	s.industries = make(map[string]Industry, len(rows))
	for _, r := range rows {
		sic := cell(r, 0)
		if len(sic) != 5 {
			continue
		}
		s.industries[sic] = Industry{
			SIC:     sic,
			Name:    cell(r, 1),
			Section: strings.ToUpper(cell(r, 2)),
		}
	}
	return nil
}

// industry_emissions.xlsx, one sheet per granularity ("2_digit", "3_digit",
// "4_digit"): code | year | total_ghg | ghg_per_unit. Only the most recent
// year per code is kept.
func loadEmissions(s *Store, p Paths) error {
	f, err := openXLSX(p.EmissionsXLSX)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, g := range []int{2, 3, 4} {
		sheet := fmt.Sprintf("%d_digit", g)
		rows, err := sheetRows(f, sheet)
		if err != nil {
			return fmt.Errorf("%w: %s: sheet %s: %v", ErrBadReference, p.EmissionsXLSX, sheet, err)
		}
		table := make(map[string]Emissions, len(rows))
		for _, r := range rows {
			code := cell(r, 0)
			if len(code) != g {
				continue
			}
			e := Emissions{Code: code}
			if y, ok := cellInt(r, 1); ok {
				e.Year = y
			}
			if v, ok := cellFloat(r, 2); ok {
				e.Total = v
			}
			if v, ok := cellFloat(r, 3); ok {
				e.PerUnit = v
			}
			if prev, ok := table[code]; ok && prev.Year >= e.Year {
				continue
			}
			table[code] = e
		}
		s.emissions[g] = table
	}
	return nil
}

// green_tasks.xlsx, first sheet:
// section | year | prop_hours_green | prop_workers_green | prop_workers_20pct
func loadGreenTasks(s *Store, p Paths) error {
	f, err := openXLSX(p.GreenTasksXLSX)
	if err != nil {
		return err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: %s: no sheets", ErrBadReference, p.GreenTasksXLSX)
	}
	rows, err := sheetRows(f, sheets[0])
	if err != nil {
		return err
	}

	s.greenTasks = make(map[string]GreenTasks, len(rows))
	for _, r := range rows {
		section := strings.ToUpper(cell(r, 0))
		if section == "" {
			continue
		}
		g := GreenTasks{Section: section}
		if y, ok := cellInt(r, 1); ok {
			g.Year = y
		}
		if v, ok := cellFloat(r, 2); ok {
			g.PropHoursGreen = v
		}
		if v, ok := cellFloat(r, 3); ok {
			g.PropWorkersGreen = v
		}
		if v, ok := cellFloat(r, 4); ok {
			g.PropWorkers20pct = v
		}
		if prev, ok := s.greenTasks[section]; ok && prev.Year >= g.Year {
			continue
		}
		s.greenTasks[section] = g
	}
	return nil
}
