package dto

import "testing"

func TestMeasureRequestValidate(t *testing.T) {
	if msg := (MeasureRequest{ID: "a1"}).Validate(); msg != "" {
		t.Fatalf("valid request rejected: %s", msg)
	}
	if msg := (MeasureRequest{ID: "  "}).Validate(); msg == "" {
		t.Fatalf("blank id accepted")
	}
}

func TestMeasureRequestToAdvert(t *testing.T) {
	min := 22000.0
	req := MeasureRequest{
		ID:        " a1 ",
		JobTitle:  " Ecologist ",
		JobText:   "  Survey habitats.  ",
		ITL3Code:  "TLI44",
		MinSalary: &min,
	}
	a := req.ToAdvert()
	if a.ID != "a1" || a.JobTitle != "Ecologist" {
		t.Fatalf("advert = %+v, want trimmed fields", a)
	}
	if a.JobText != "  Survey habitats.  " {
		t.Fatalf("job text should pass through untrimmed: %q", a.JobText)
	}
	if a.Region() != "TLI44" || a.MinSalary == nil || *a.MinSalary != 22000 {
		t.Fatalf("advert = %+v", a)
	}
}
