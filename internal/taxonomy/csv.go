package taxonomy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const altLabelSep = "|"

func readCSV(path string, minCols int) ([][]string, error) {
	f, err := openReference(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows := make([][]string, 0, 1024)
	header := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadReference, path, err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) < minCols {
			return nil, fmt.Errorf("%w: %s: row has %d columns, want %d", ErrBadReference, path, len(rec), minCols)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// green_skills.csv: id, preferred_label, alt_labels (pipe-separated), type
func loadGreenSkills(s *Store, p Paths) error {
	rows, err := readCSV(p.GreenSkillsCSV, 4)
	if err != nil {
		return err
	}
	s.green = make(map[string]Entry, len(rows))
	for _, r := range rows {
		e := Entry{
			ID:             strings.TrimSpace(r[0]),
			PreferredLabel: strings.TrimSpace(r[1]),
			AltLabels:      splitAltLabels(r[2]),
			Type:           strings.TrimSpace(r[3]),
		}
		if e.ID == "" || e.PreferredLabel == "" {
			continue
		}
		s.green[e.ID] = e
	}
	return nil
}

// full_skills.csv: id, preferred_label, alt_labels, then code/description
// pairs for the four hierarchy levels (broadest first).
func loadFullSkills(s *Store, p Paths) error {
	rows, err := readCSV(p.FullSkillsCSV, 11)
	if err != nil {
		return err
	}
	s.full = make(map[string]FullEntry, len(rows))
	for _, r := range rows {
		e := FullEntry{
			ID:             strings.TrimSpace(r[0]),
			PreferredLabel: strings.TrimSpace(r[1]),
			AltLabels:      splitAltLabels(r[2]),
		}
		if e.ID == "" || e.PreferredLabel == "" {
			continue
		}
		for lvl := 0; lvl < 4; lvl++ {
			e.Hierarchy[lvl] = HierarchyLevel{
				Code:        strings.TrimSpace(r[3+lvl*2]),
				Description: strings.TrimSpace(r[4+lvl*2]),
			}
		}
		s.full[e.ID] = e
	}
	return nil
}

// title_index.csv: title, natural_order, additions, industry, soc2020_ext,
// soc2020, soc2010. Titles shared by several codes have their surface
// extended with the adjacent columns so the surface-to-code map is unique.
func loadTitleIndex(s *Store, p Paths) error {
	rows, err := readCSV(p.TitleIndexCSV, 7)
	if err != nil {
		return err
	}

	titleCount := make(map[string]int, len(rows))
	entries := make([]TitleEntry, 0, len(rows))
	for _, r := range rows {
		e := TitleEntry{
			Title:        strings.TrimSpace(r[0]),
			NaturalOrder: strings.TrimSpace(r[1]),
			Additions:    strings.TrimSpace(r[2]),
			Industry:     strings.TrimSpace(r[3]),
			SOC2020EXT:   strings.TrimSpace(r[4]),
			SOC2020:      strings.TrimSpace(r[5]),
			SOC2010:      strings.TrimSpace(r[6]),
		}
		if e.Title == "" || e.SOC2020EXT == "" {
			continue
		}
		titleCount[strings.ToLower(e.Title)]++
		entries = append(entries, e)
	}

	for i := range entries {
		e := &entries[i]
		if titleCount[strings.ToLower(e.Title)] == 1 {
			e.Surface = e.Title
			continue
		}
		e.Surface = extendSurface(e)
	}

	s.titles = entries
	return nil
}

func extendSurface(e *TitleEntry) string {
	parts := []string{e.Title}
	for _, extra := range []string{e.NaturalOrder, e.Additions, e.Industry} {
		if extra != "" {
			parts = append(parts, extra)
		}
	}
	return strings.Join(parts, " ")
}

// green_topics.csv: one topic per row, already lower-cased and lemmatised,
// compound phrases manually split.
func loadGreenTopics(s *Store, p Paths) error {
	rows, err := readCSV(p.GreenTopicsCSV, 1)
	if err != nil {
		return err
	}
	s.topicList = make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		t := strings.ToLower(strings.TrimSpace(r[0]))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		s.topicList = append(s.topicList, t)
	}
	return nil
}

func splitAltLabels(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, altLabelSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
