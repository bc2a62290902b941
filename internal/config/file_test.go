package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Skills.SkillMatch != 0.7 || cfg.Occupations.SimThreshold != 0.67 || cfg.Industries.TopK != 5 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measure.yaml")
	body := `
skills:
  skill_match: 0.8
occupations:
  top_n: 20
reference_dates:
  industries: "20230106"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Skills.SkillMatch != 0.8 {
		t.Fatalf("skill_match = %v, want overridden 0.8", cfg.Skills.SkillMatch)
	}
	// Untouched constants keep their defaults.
	if cfg.Skills.GreenFloor != 0.5 || cfg.Occupations.SimThreshold != 0.67 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Occupations.TopN != 20 {
		t.Fatalf("top_n = %d, want 20", cfg.Occupations.TopN)
	}
	if got := cfg.ReferenceDates(); got.Industries != "20230106" || got.Skills != "" {
		t.Fatalf("dates = %+v", got)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/does/not/exist.yaml"); err == nil {
		t.Fatalf("LoadFile succeeded for a missing path")
	}
}
