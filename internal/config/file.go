package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"greenjobs/internal/measure/industries"
	"greenjobs/internal/measure/occupations"
	"greenjobs/internal/measure/skills"
	"greenjobs/internal/taxonomy"
)

// FileConfig is the optional YAML overlay for calibrated thresholds and
// reference-corpus dates. Absent sections keep their defaults, so a file
// can override a single constant.
type FileConfig struct {
	Skills      skills.Thresholds      `yaml:"skills"`
	Occupations occupations.Thresholds `yaml:"occupations"`
	Industries  industries.Thresholds  `yaml:"industries"`
	Dates       struct {
		Skills      string `yaml:"skills"`
		Occupations string `yaml:"occupations"`
		Industries  string `yaml:"industries"`
	} `yaml:"reference_dates"`
}

func DefaultFileConfig() FileConfig {
	return FileConfig{
		Skills:      skills.DefaultThresholds(),
		Occupations: occupations.DefaultThresholds(),
		Industries:  industries.DefaultThresholds(),
	}
}

// LoadFile reads path over the defaults. An empty path returns the
// defaults unchanged.
func LoadFile(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (f FileConfig) ReferenceDates() taxonomy.Dates {
	return taxonomy.Dates{
		Skills:      f.Dates.Skills,
		Occupations: f.Dates.Occupations,
		Industries:  f.Dates.Industries,
	}
}
