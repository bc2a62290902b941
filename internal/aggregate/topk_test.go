package aggregate

import (
	"math"
	"testing"
)

func TestTopRanked(t *testing.T) {
	table := countTable{}
	table.add("b", "Beta")
	table.add("b", "Beta")
	table.add("b", "Beta")
	table.add("a", "Alpha")
	table.add("a", "Alpha")
	table.add("a", "Alpha")
	table.add("c", "Gamma")

	ranked := topRanked(table, 2)
	if len(ranked) != 2 {
		t.Fatalf("got %d items, want 2", len(ranked))
	}
	// a and b tie on count; ascending id wins.
	if ranked[0].ID != "a" || ranked[1].ID != "b" {
		t.Fatalf("order = %s,%s, want a,b", ranked[0].ID, ranked[1].ID)
	}
	if ranked[0].Label != "Alpha" {
		t.Fatalf("label = %q, want Alpha", ranked[0].Label)
	}
	// Shares are over all counted items, including those cut by n.
	want := 3.0 / 7.0
	if math.Abs(ranked[0].Share-want) > 1e-9 {
		t.Fatalf("share = %v, want %v", ranked[0].Share, want)
	}
}

func TestTopRankedEmpty(t *testing.T) {
	if got := topRanked(countTable{}, 5); got != nil {
		t.Fatalf("empty table returned %v", got)
	}
}

func TestCountTableKeepsFirstLabel(t *testing.T) {
	table := countTable{}
	table.add("x", "First")
	table.add("x", "Second")
	if table["x"].label != "First" || table["x"].count != 2 {
		t.Fatalf("entry = %+v", table["x"])
	}
}

func TestLocationQuotients(t *testing.T) {
	groupRegions := map[string]int{"London": 1, "North": 1, "Nowhere": 1}
	globalShares := map[string]float64{"London": 2.0 / 3.0, "North": 1.0 / 3.0}

	got := locationQuotients(groupRegions, globalShares, 5)
	// "Nowhere" has no global share and is skipped.
	if len(got) != 2 {
		t.Fatalf("got %d regions, want 2", len(got))
	}
	if got[0].Region != "North" || got[0].Quotient != 1.0 {
		t.Fatalf("top = %+v, want North 1.0", got[0])
	}
	if got[1].Region != "London" || got[1].Quotient != 0.5 {
		t.Fatalf("second = %+v, want London 0.5", got[1])
	}
}

func TestLocationQuotientsTruncateAndTies(t *testing.T) {
	groupRegions := map[string]int{"A": 1, "B": 1, "C": 1}
	globalShares := map[string]float64{"A": 0.5, "B": 0.5, "C": 0.25}

	got := locationQuotients(groupRegions, globalShares, 2)
	if len(got) != 2 {
		t.Fatalf("got %d regions, want 2", len(got))
	}
	// C has the highest quotient; A and B tie and A sorts first.
	if got[0].Region != "C" || got[1].Region != "A" {
		t.Fatalf("order = %s,%s, want C,A", got[0].Region, got[1].Region)
	}
}

func TestLocationQuotientsEmpty(t *testing.T) {
	if got := locationQuotients(nil, nil, 5); got != nil {
		t.Fatalf("empty input returned %v", got)
	}
}
