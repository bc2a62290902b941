package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/uuid"

	"greenjobs/internal/domain/advert"
	"greenjobs/internal/domain/measures"
)

type fakeSkillMeasurer struct {
	failID string
}

func (f *fakeSkillMeasurer) MeasureBatch(_ context.Context, adverts []advert.Advert) ([]measures.SkillMeasures, measures.NullCounts, error) {
	var nulls measures.NullCounts
	out := make([]measures.SkillMeasures, len(adverts))
	for i, a := range adverts {
		if f.failID != "" && a.ID == f.failID {
			return nil, measures.NullCounts{}, errors.New("skill service down")
		}
		if !a.HasText() {
			nulls.NoText++
			out[i] = measures.SkillMeasures{AdvertID: a.ID}
			continue
		}
		out[i] = measures.SkillMeasures{AdvertID: a.ID, NumSpans: 1, NumSplitSpans: 1, PropGreen: 1}
	}
	return out, nulls, nil
}

type fakeOccupationMeasurer struct{}

func (fakeOccupationMeasurer) MeasureBatch(_ context.Context, adverts []advert.Advert) ([]measures.OccupationMatch, measures.NullCounts, error) {
	var nulls measures.NullCounts
	out := make([]measures.OccupationMatch, len(adverts))
	for i, a := range adverts {
		if !a.HasTitle() {
			nulls.NoTitle++
			out[i] = measures.OccupationMatch{AdvertID: a.ID, Kind: measures.OccMatchNone}
			continue
		}
		out[i] = measures.OccupationMatch{
			AdvertID:   a.ID,
			SOC2020EXT: "214901",
			SOC2020:    "2149",
			Label:      "Environment professionals",
			Kind:       measures.OccMatchTop,
		}
	}
	return out, nulls, nil
}

type fakeIndustryMeasurer struct{}

func (fakeIndustryMeasurer) MeasureBatch(_ context.Context, adverts []advert.Advert) ([]measures.IndustryMatch, measures.NullCounts, error) {
	var nulls measures.NullCounts
	out := make([]measures.IndustryMatch, len(adverts))
	for i, a := range adverts {
		if !a.HasCompany() {
			nulls.NoCompany++
			out[i] = measures.IndustryMatch{AdvertID: a.ID}
			continue
		}
		out[i] = measures.IndustryMatch{AdvertID: a.ID, SIC: "35110", Method: measures.IndMethodTop}
	}
	return out, nulls, nil
}

type recordingNotifier struct {
	started  int
	batches  []BatchResult
	finished bool
	runID    uuid.UUID
}

func (n *recordingNotifier) RunStarted(runID uuid.UUID, adverts, chunks int) {
	n.started++
	n.runID = runID
}

func (n *recordingNotifier) BatchFinished(_ uuid.UUID, res BatchResult) {
	n.batches = append(n.batches, res)
}

func (n *recordingNotifier) RunFinished(uuid.UUID, measures.NullCounts, int) {
	n.finished = true
}

func testAdverts() []advert.Advert {
	min, max := 20000.0, 30000.0
	return []advert.Advert{
		{ID: "a1", JobTitle: "Ecologist", CompanyName: "Acme", JobText: "Survey habitats.", ITL3Code: "TLI44", MinSalary: &min, MaxSalary: &max},
		{ID: "a2", JobTitle: "Clerk", CompanyName: "Acme", JobText: "File papers."},
		{ID: "a3", JobText: "No title here.", MinSalary: &min},
		{ID: "a4", JobTitle: "Welder", CompanyName: "Acme", JobText: "Weld."},
		{ID: "a5", JobTitle: "Driver", CompanyName: "Acme"},
	}
}

func newTestRunner(skills SkillMeasurer, notifier Notifier, opts Options) *Runner {
	return NewRunner(skills, fakeOccupationMeasurer{}, fakeIndustryMeasurer{}, notifier, opts, log.New(io.Discard, "", 0))
}

func TestRunnerRun(t *testing.T) {
	notifier := &recordingNotifier{}
	runner := newTestRunner(&fakeSkillMeasurer{}, notifier, Options{ChunkSize: 2, Workers: 2})

	adverts := testAdverts()
	out, report, err := runner.Run(context.Background(), adverts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != len(adverts) {
		t.Fatalf("got %d results, want %d", len(out), len(adverts))
	}
	for i, a := range adverts {
		if out[i].AdvertID != a.ID {
			t.Fatalf("result %d is %s, want %s: output order must match input", i, out[i].AdvertID, a.ID)
		}
	}

	if out[0].Skills == nil || out[0].Skills.NumSplitSpans != 1 {
		t.Fatalf("a1 skills = %+v", out[0].Skills)
	}
	if out[0].Occupation == nil || out[0].Occupation.SOC2020EXT != "214901" {
		t.Fatalf("a1 occupation = %+v", out[0].Occupation)
	}
	if out[0].Industry == nil || out[0].Industry.SIC != "35110" {
		t.Fatalf("a1 industry = %+v", out[0].Industry)
	}
	if out[0].Region != "TLI44" {
		t.Fatalf("a1 region = %q", out[0].Region)
	}
	if out[0].MeanSalary == nil || *out[0].MeanSalary != 25000 {
		t.Fatalf("a1 salary = %v, want midpoint 25000", out[0].MeanSalary)
	}

	// a3 has no title or company: the unmatched axes stay nil and the
	// single salary bound passes through unchanged.
	if out[2].Occupation != nil || out[2].Industry != nil {
		t.Fatalf("a3 axes = %+v / %+v, want nil", out[2].Occupation, out[2].Industry)
	}
	if out[2].MeanSalary == nil || *out[2].MeanSalary != 20000 {
		t.Fatalf("a3 salary = %v, want 20000", out[2].MeanSalary)
	}

	if report.Chunks != 3 || report.FailedChunks != 0 {
		t.Fatalf("report = %+v", report)
	}
	if report.Nulls.NoTitle != 1 || report.Nulls.NoCompany != 1 || report.Nulls.NoText != 1 {
		t.Fatalf("nulls = %+v", report.Nulls)
	}

	if notifier.started != 1 || !notifier.finished {
		t.Fatalf("notifier lifecycle: started=%d finished=%v", notifier.started, notifier.finished)
	}
	if len(notifier.batches) != 3 {
		t.Fatalf("got %d batch events, want 3", len(notifier.batches))
	}
	seen := make(map[int]bool)
	for _, b := range notifier.batches {
		seen[b.Index] = true
	}
	for want := 0; want < 3; want++ {
		if !seen[want] {
			t.Fatalf("batch events carry indices %v, want each of 0..2 once", notifier.batches)
		}
	}
	if notifier.runID != report.RunID {
		t.Fatalf("notifier run id %s != report run id %s", notifier.runID, report.RunID)
	}
}

func TestRunnerFirstChunkFailureNamesChunkZero(t *testing.T) {
	runner := newTestRunner(&fakeSkillMeasurer{failID: "a1"}, nil, Options{ChunkSize: 2, Workers: 1})

	_, report, err := runner.Run(context.Background(), testAdverts())
	if err == nil || !strings.Contains(err.Error(), "chunk 0") {
		t.Fatalf("err = %v, want chunk 0 named", err)
	}
	if report.FailedChunks != 1 {
		t.Fatalf("report = %+v", report)
	}
}

func TestRunnerChunkFailureFailsRun(t *testing.T) {
	notifier := &recordingNotifier{}
	runner := newTestRunner(&fakeSkillMeasurer{failID: "a3"}, notifier, Options{ChunkSize: 2, Workers: 1})

	out, report, err := runner.Run(context.Background(), testAdverts())
	if err == nil {
		t.Fatalf("Run succeeded despite failing chunk")
	}
	if out != nil {
		t.Fatalf("partial results returned: %+v", out)
	}
	if !strings.Contains(err.Error(), "chunk 1") {
		t.Fatalf("err = %v, want chunk 1 named", err)
	}
	if report.FailedChunks != 1 || report.Chunks != 3 {
		t.Fatalf("report = %+v", report)
	}
	// The other chunks still run and their null tallies are kept.
	if report.Nulls.NoText != 1 {
		t.Fatalf("nulls = %+v", report.Nulls)
	}
	if len(notifier.batches) != 3 || !notifier.finished {
		t.Fatalf("notifier saw %d batches finished=%v", len(notifier.batches), notifier.finished)
	}
}

func TestRunnerEmptyInput(t *testing.T) {
	runner := newTestRunner(&fakeSkillMeasurer{}, nil, Options{})

	out, report, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 0 || report.Chunks != 0 {
		t.Fatalf("out=%d chunks=%d, want empty run", len(out), report.Chunks)
	}
}

func TestMeanSalary(t *testing.T) {
	min, max := 10000.0, 20000.0
	if got := meanSalary(advert.Advert{MinSalary: &min, MaxSalary: &max}); got == nil || *got != 15000 {
		t.Fatalf("midpoint = %v", got)
	}
	if got := meanSalary(advert.Advert{MaxSalary: &max}); got == nil || *got != 20000 {
		t.Fatalf("max only = %v", got)
	}
	if got := meanSalary(advert.Advert{}); got != nil {
		t.Fatalf("no bounds = %v", got)
	}
}
