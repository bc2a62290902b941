package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths names every reference file the store loads. Build one with
// PathsFor to apply the reference-date stamps the corpora are versioned by.
type Paths struct {
	GreenSkillsCSV      string
	FullSkillsCSV       string
	TitleIndexCSV       string
	OccupationGreenXLSX string
	IndustryRegisterXLSX string
	EmissionsXLSX       string
	GreenTasksXLSX      string
	CompanySICJSON      string
	ParaphrasesJSON     string
	GreenTopicsCSV      string

	GreenEmbeddingsJSON  string
	FullEmbeddingsJSON   string
	LevelEmbeddingsJSON  string
	TitleEmbeddingsJSON  string
	TopicEmbeddingsJSON  string
}

// Dates are the version stamps of the dated corpora, formatted YYYYMMDD.
type Dates struct {
	Skills      string
	Occupations string
	Industries  string
}

// PathsFor lays out the conventional file names under dir.
func PathsFor(dir string, d Dates) Paths {
	stamp := func(base, date, ext string) string {
		if date == "" {
			return filepath.Join(dir, base+ext)
		}
		return filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, date, ext))
	}
	return Paths{
		GreenSkillsCSV:       stamp("green_skills", d.Skills, ".csv"),
		FullSkillsCSV:        stamp("full_skills", d.Skills, ".csv"),
		TitleIndexCSV:        stamp("title_index", d.Occupations, ".csv"),
		OccupationGreenXLSX:  stamp("occupation_greenness", d.Occupations, ".xlsx"),
		IndustryRegisterXLSX: stamp("industry_register", d.Industries, ".xlsx"),
		EmissionsXLSX:        stamp("industry_emissions", d.Industries, ".xlsx"),
		GreenTasksXLSX:       stamp("green_tasks", d.Industries, ".xlsx"),
		CompanySICJSON:       stamp("company_sic", d.Industries, ".json"),
		ParaphrasesJSON:      stamp("sic_paraphrases", d.Industries, ".json"),
		GreenTopicsCSV:       stamp("green_topics", d.Skills, ".csv"),
		GreenEmbeddingsJSON:  filepath.Join(dir, "embeddings", "green_skills.json"),
		FullEmbeddingsJSON:   filepath.Join(dir, "embeddings", "full_skills.json"),
		LevelEmbeddingsJSON:  filepath.Join(dir, "embeddings", "hierarchy_levels.json"),
		TitleEmbeddingsJSON:  filepath.Join(dir, "embeddings", "title_index.json"),
		TopicEmbeddingsJSON:  filepath.Join(dir, "embeddings", "green_topics.json"),
	}
}

func openReference(path string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMissingReference)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingReference, path)
		}
		return nil, err
	}
	return f, nil
}
