package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"greenjobs/internal/domain/measures"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestWriteSkills(t *testing.T) {
	dir := t.TempDir()
	rows := []measures.GreenMeasures{
		{
			AdvertID: "a1",
			Skills: &measures.SkillMeasures{
				AdvertID:      "a1",
				NumSplitSpans: 2,
				PropGreen:     0.5,
				GreenSpans: []measures.SkillSpan{{
					Surface:          "carbon accounting",
					GreenMapping:     &measures.TaxonomyMapping{ID: "G7", Label: "carbon accounting", Score: 0.91},
					FullMapping:      &measures.TaxonomyMapping{ID: "S1.1", Label: "finance"},
					Green:            true,
					GreenProbability: 0.8,
				}},
				OtherSpans: []measures.SkillSpan{{
					Surface:     "bookkeeping",
					FullMapping: &measures.TaxonomyMapping{ID: "S1.2", Label: "bookkeeping"},
				}},
				Benefits: []string{"pension scheme"},
			},
		},
		{AdvertID: "a2"},
	}

	if err := WriteSkills(dir, "skills.csv", rows); err != nil {
		t.Fatalf("WriteSkills: %v", err)
	}

	records := readCSV(t, filepath.Join(dir, "skills.csv"))
	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus 2 rows", len(records))
	}
	if records[0][0] != "id" || records[0][1] != "PROP_GREEN" {
		t.Fatalf("header = %v", records[0])
	}

	row := records[1]
	if row[0] != "a1" || row[1] != "0.5" || row[2] != "2" {
		t.Fatalf("row = %v", row)
	}

	var skills []skillTuple
	if err := json.Unmarshal([]byte(row[3]), &skills); err != nil {
		t.Fatalf("skill cell: %v", err)
	}
	if len(skills) != 2 || skills[0].Surface != "carbon accounting" || skills[1].Match[1] != "S1.2" {
		t.Fatalf("skills = %+v", skills)
	}

	var greens []greenTuple
	if err := json.Unmarshal([]byte(row[4]), &greens); err != nil {
		t.Fatalf("green cell: %v", err)
	}
	if len(greens) != 1 || greens[0].ID != "G7" || greens[0].Probability != 0.8 {
		t.Fatalf("greens = %+v", greens)
	}
	if !strings.Contains(row[5], "pension scheme") {
		t.Fatalf("benefits cell = %q", row[5])
	}

	// Advert without a skills record still gets a row.
	if records[2][0] != "a2" || records[2][2] != "0" {
		t.Fatalf("empty row = %v", records[2])
	}
}

func TestWriteOccupations(t *testing.T) {
	dir := t.TempDir()
	ts := 0.35
	cat := "Green New & Emerging"
	topics := 4
	rows := []measures.GreenMeasures{
		{
			AdvertID: "a1",
			Occupation: &measures.OccupationMatch{
				SOC2020EXT:      "524901",
				SOC2020:         "5249",
				SOC2010:         "5249",
				Label:           "Wind turbine technicians",
				Kind:            measures.OccMatchTop,
				GreenCategory:   &cat,
				GreenTimeshare:  &ts,
				GreenTopicCount: &topics,
			},
		},
		{AdvertID: "a2"},
	}

	if err := WriteOccupations(dir, "occupations.csv", rows); err != nil {
		t.Fatalf("WriteOccupations: %v", err)
	}

	records := readCSV(t, filepath.Join(dir, "occupations.csv"))
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	row := records[1]
	if row[1] != "524901" || row[4] != "Wind turbine technicians" || row[5] != "0.35" || row[7] != "4" {
		t.Fatalf("row = %v", row)
	}
	for i, cell := range records[2][1:] {
		if cell != "" {
			t.Fatalf("unmatched advert column %d = %q, want empty", i+1, cell)
		}
	}
}

func TestWriteIndustries(t *testing.T) {
	dir := t.TempDir()
	ghg := 2.5
	rows := []measures.GreenMeasures{
		{
			AdvertID: "a1",
			Industry: &measures.IndustryMatch{
				SIC:        "35110",
				SICName:    "Production of electricity",
				Section:    "D",
				Method:     measures.IndMethodKnownCompany,
				Confidence: 1,
				GHGPerUnit: &ghg,
			},
		},
	}

	if err := WriteIndustries(dir, "industries.csv", rows); err != nil {
		t.Fatalf("WriteIndustries: %v", err)
	}

	records := readCSV(t, filepath.Join(dir, "industries.csv"))
	row := records[1]
	if row[2] != "35110" || row[5] != "known-company" || row[7] != "2.5" {
		t.Fatalf("row = %v", row)
	}
	if row[8] != "" {
		t.Fatalf("missing total GHG should be empty, got %q", row[8])
	}
}

func TestWriteAggregates(t *testing.T) {
	dir := t.TempDir()
	mean := 0.42
	bin := measures.BinHigh
	score := measures.ScoreMidHigh
	rows := []measures.AggregateRow{
		{
			Key:           "524901",
			KeyLabel:      "Wind turbine technicians",
			GroupBy:       measures.GroupByOccupation,
			NumAdverts:    120,
			PropAdverts:   0.06,
			MeanTimeshare: &mean,
			TopGreenSkills: []measures.RankedItem{
				{ID: "G7", Label: "carbon accounting", Count: 40, Share: 0.5},
			},
			TopRegions:   []measures.RegionQuotient{{Region: "TLI4", Quotient: 1.31}},
			TimeshareBin: &bin,
			Composite:    &score,
		},
	}

	if err := WriteAggregates(dir, "aggregates.csv", rows); err != nil {
		t.Fatalf("WriteAggregates: %v", err)
	}

	records := readCSV(t, filepath.Join(dir, "aggregates.csv"))
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	row := records[1]
	if row[0] != "524901" || row[2] != "occupation" || row[3] != "120" || row[4] != "0.06" {
		t.Fatalf("row = %v", row)
	}
	if row[5] != "0.42" || row[6] != "" {
		t.Fatalf("means = %q / %q", row[5], row[6])
	}
	var ranked []measures.RankedItem
	if err := json.Unmarshal([]byte(row[11]), &ranked); err != nil || len(ranked) != 1 || ranked[0].ID != "G7" {
		t.Fatalf("top green cell = %q err=%v", row[11], err)
	}
	if row[16] != "high" || row[19] != "mid-high" {
		t.Fatalf("bins = %q composite = %q", row[16], row[19])
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	if err := WriteAtomic(dir, "out.txt", func(w io.Writer) error {
		_, err := w.Write([]byte("done"))
		return err
	}); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil || string(b) != "done" {
		t.Fatalf("content = %q err=%v", b, err)
	}
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	wantErr := errors.New("encode failed")
	err := WriteAtomic(dir, "out.txt", func(w io.Writer) error {
		w.Write([]byte("partial"))
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
	entries, rerr := os.ReadDir(dir)
	if rerr != nil {
		t.Fatalf("readdir: %v", rerr)
	}
	if len(entries) != 0 {
		t.Fatalf("directory not clean after failure: %v", entries)
	}
}
