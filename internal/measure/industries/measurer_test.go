package industries

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"greenjobs/internal/domain/advert"
	"greenjobs/internal/domain/measures"
	"greenjobs/internal/taxonomy"
)

type fakeEmbedder struct {
	vecs map[string][]float32
	err  error
}

func (f *fakeEmbedder) Model() string { return "test-model" }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vecs[t]
		if !ok {
			return nil, fmt.Errorf("no fixture vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

// fakeClassifier labels a sentence as company description when it starts
// with "We are".
type fakeClassifier struct {
	err error
}

func (f *fakeClassifier) Classify(_ context.Context, sentences []string) ([]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]bool, len(sentences))
	for i, s := range sentences {
		out[i] = strings.HasPrefix(s, "We are")
	}
	return out, nil
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

func testStore(t *testing.T) *taxonomy.Store {
	t.Helper()
	s, err := taxonomy.NewFromTables(taxonomy.Tables{
		Industries: []taxonomy.Industry{
			{SIC: "35110", Name: "Production of electricity", Section: "D"},
			{SIC: "35120", Name: "Transmission of electricity", Section: "D"},
			{SIC: "47110", Name: "Retail sale in non-specialised stores", Section: "G"},
			{SIC: "38320", Name: "Recovery of sorted materials", Section: "E"},
		},
		Paraphrases: []taxonomy.IndustryParaphrase{
			{SIC: "35110", Name: "Production of electricity", Paraphrase: "We generate electric power", Embedding: []float32{1, 0, 0}},
			{SIC: "35120", Name: "Transmission of electricity", Paraphrase: "We run the power grid", Embedding: []float32{0, 1, 0}},
			{SIC: "47110", Name: "Retail sale in non-specialised stores", Paraphrase: "We sell groceries", Embedding: []float32{0, 0, 1}},
		},
		Emissions: []taxonomy.Emissions{
			{Code: "351", Year: 2023, Total: 100, PerUnit: 2.5},
			{Code: "383", Year: 2023, Total: 10, PerUnit: 0.3},
		},
		GreenTasks: []taxonomy.GreenTasks{
			{Section: "D", Year: 2023, PropHoursGreen: 0.31, PropWorkersGreen: 0.22, PropWorkers20pct: 0.4},
			{Section: "E", Year: 2023, PropHoursGreen: 0.5, PropWorkersGreen: 0.45, PropWorkers20pct: 0.6},
		},
		CompanySIC: map[string][]string{
			"acme recycling": {"38320"},
		},
	})
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	return s
}

func testIndMeasurer(t *testing.T, emb *fakeEmbedder, cls SentenceClassifier) *Measurer {
	t.Helper()
	return NewMeasurer(testStore(t), emb, cls, DefaultThresholds(), log.New(nullWriter{}, "", 0))
}

func TestMeasureBatchKnownCompany(t *testing.T) {
	m := testIndMeasurer(t, &fakeEmbedder{}, &fakeClassifier{})

	out, nulls, err := m.MeasureBatch(context.Background(), []advert.Advert{
		{ID: "a1", CompanyName: "Acme Recycling Ltd"},
	})
	if err != nil {
		t.Fatalf("MeasureBatch: %v", err)
	}
	got := out[0]
	if got.Method != measures.IndMethodKnownCompany || got.SIC != "38320" {
		t.Fatalf("match = %+v, want known-company 38320", got)
	}
	if got.Confidence != 1 {
		t.Fatalf("confidence = %v, want 1", got.Confidence)
	}
	if got.SICName != "Recovery of sorted materials" || got.Section != "E" {
		t.Fatalf("register join = %q/%q", got.SICName, got.Section)
	}
	if got.GHGPerUnit == nil || *got.GHGPerUnit != 0.3 {
		t.Fatalf("emissions join = %v", got.GHGPerUnit)
	}
	if got.PropHoursGreen == nil || *got.PropHoursGreen != 0.5 {
		t.Fatalf("green-task join = %v", got.PropHoursGreen)
	}
	if nulls.NoIndustry != 0 {
		t.Fatalf("nulls = %+v", nulls)
	}
}

func TestMeasureBatchContentRouteTopSimilarity(t *testing.T) {
	desc := "We are a leading electric power producer."
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"We are a leading electric power producer.": {1, 0, 0},
	}}
	m := testIndMeasurer(t, emb, &fakeClassifier{})

	out, _, err := m.MeasureBatch(context.Background(), []advert.Advert{
		{ID: "a1", CompanyName: "Unknown Energy Co", JobText: desc + " Apply now with your CV."},
	})
	if err != nil {
		t.Fatalf("MeasureBatch: %v", err)
	}
	got := out[0]
	if got.Method != measures.IndMethodTop || got.SIC != "35110" {
		t.Fatalf("match = %+v, want top-similarity 35110", got)
	}
	if got.Section != "D" {
		t.Fatalf("section = %q, want D", got.Section)
	}
	if got.Description != "We are a leading electric power producer." {
		t.Fatalf("description = %q", got.Description)
	}
	if got.GHGTotal == nil || *got.GHGTotal != 100 {
		t.Fatalf("emissions join = %v", got.GHGTotal)
	}
}

func TestMeasureBatchContentRouteSharedPrefix(t *testing.T) {
	// Equidistant from the two electricity paraphrases: neither clears the
	// top threshold but both share section D and code prefix 351.
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"We are in the electricity business.": {0.5, 0.5, 0},
	}}
	m := testIndMeasurer(t, emb, &fakeClassifier{})

	out, _, err := m.MeasureBatch(context.Background(), []advert.Advert{
		{ID: "a1", CompanyName: "Unknown Energy Co", JobText: "We are in the electricity business."},
	})
	if err != nil {
		t.Fatalf("MeasureBatch: %v", err)
	}
	got := out[0]
	if got.Method != measures.IndMethodMajority {
		t.Fatalf("method = %s, want group-majority", got.Method)
	}
	if got.Section != "D" || got.SIC != "351" {
		t.Fatalf("match = %q/%q, want D/351", got.Section, got.SIC)
	}
	if got.GHGPerUnit == nil || *got.GHGPerUnit != 2.5 {
		t.Fatalf("emissions join for prefix = %v", got.GHGPerUnit)
	}
}

func TestMeasureBatchNulls(t *testing.T) {
	m := testIndMeasurer(t, &fakeEmbedder{}, &fakeClassifier{})

	out, nulls, err := m.MeasureBatch(context.Background(), []advert.Advert{
		{ID: "a1"},
		{ID: "a2", CompanyName: "Nobody Knows Us", JobText: "Apply now with your CV today."},
	})
	if err != nil {
		t.Fatalf("MeasureBatch: %v", err)
	}
	if out[0].Matched() || out[1].Matched() {
		t.Fatalf("expected no matches: %+v", out)
	}
	if nulls.NoCompany != 1 {
		t.Fatalf("nulls = %+v, want one no-company", nulls)
	}
	if nulls.NoIndustry != 2 {
		t.Fatalf("nulls = %+v, want two no-industry", nulls)
	}
}

func TestMeasureBatchClassifierFailureIsBatchScoped(t *testing.T) {
	m := testIndMeasurer(t, &fakeEmbedder{}, &fakeClassifier{err: errors.New("classifier down")})

	_, _, err := m.MeasureBatch(context.Background(), []advert.Advert{
		{ID: "a1", CompanyName: "Unknown Energy Co", JobText: "We are in the electricity business."},
	})
	if err == nil {
		t.Fatalf("expected batch error")
	}
}

func TestCandidateSentencesLengthWindow(t *testing.T) {
	long := strings.Repeat("very long sentence ", 20)
	got := candidateSentences("Short. We are a medium sized firm. " + long + ".")
	if len(got) != 1 || got[0] != "We are a medium sized firm" {
		t.Fatalf("candidateSentences = %v", got)
	}
}
