package skills

import (
	"reflect"
	"testing"
)

func TestSplitMulti(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"communication, teamwork and leadership", []string{"communication", "teamwork", "leadership"}},
		{"plumbing/heating; gas safety", []string{"plumbing", "heating", "gas safety"}},
		{"health & safety", []string{"health", "safety"}},
		{"python or go", []string{"python"}},
		{"sales", []string{"sales"}},
	}
	for _, tc := range cases {
		got := splitMulti(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitMulti(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSplitMultiKeepsWholeSurfaceWhenAllFragmentsShort(t *testing.T) {
	got := splitMulti("a, b")
	if !reflect.DeepEqual(got, []string{"a, b"}) {
		t.Fatalf("splitMulti short fragments = %v, want the raw surface", got)
	}
}

func TestIsBenefit(t *testing.T) {
	if !isBenefit("Company Pension scheme") {
		t.Fatalf("pension should be a benefit")
	}
	if !isBenefit("25 days annual leave") {
		t.Fatalf("annual leave should be a benefit")
	}
	if isBenefit("welding") {
		t.Fatalf("welding is not a benefit")
	}
}

func TestOverrideFor(t *testing.T) {
	m, ok := overrideFor("Excel")
	if !ok || m.ID != "S2.5.2" {
		t.Fatalf("overrideFor(Excel) = %+v ok=%v", m, ok)
	}
	if _, ok := overrideFor("welding"); ok {
		t.Fatalf("welding should not be overridden")
	}
}
