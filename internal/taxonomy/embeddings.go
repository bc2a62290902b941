package taxonomy

import (
	"encoding/json"
	"fmt"
)

// labeledVectorFile is the on-disk shape of precomputed embeddings: one
// record per embedded label. For taxonomies the id is the entry id; for
// topic and hierarchy-level files it identifies the topic or level code.
type labeledVectorFile []struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Vec   []float32 `json:"vec"`
}

func readLabeledVectors(path string) ([]LabeledVector, error) {
	f, err := openReference(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows labeledVectorFile
	if err := json.NewDecoder(f).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadReference, path, err)
	}
	out := make([]LabeledVector, 0, len(rows))
	for _, r := range rows {
		if len(r.Vec) == 0 {
			continue
		}
		out = append(out, LabeledVector{ID: r.ID, Label: r.Label, Vec: r.Vec})
	}
	return out, nil
}

func loadEmbeddings(s *Store, p Paths) error {
	var err error
	if s.greenVectors, err = readLabeledVectors(p.GreenEmbeddingsJSON); err != nil {
		return err
	}
	if s.fullVectors, err = readLabeledVectors(p.FullEmbeddingsJSON); err != nil {
		return err
	}
	if s.topicVectors, err = readLabeledVectors(p.TopicEmbeddingsJSON); err != nil {
		return err
	}

	if err := loadLevelEmbeddings(s, p.LevelEmbeddingsJSON); err != nil {
		return err
	}
	if err := loadTitleEmbeddings(s, p.TitleEmbeddingsJSON); err != nil {
		return err
	}
	if err := attachParaphraseEmbeddings(s, p.ParaphrasesJSON); err != nil {
		return err
	}
	return nil
}

// hierarchy_levels.json: {"1": [...], "2": [...], "3": [...]} with the same
// record shape as the per-taxonomy files; id is the hierarchy code.
func loadLevelEmbeddings(s *Store, path string) error {
	f, err := openReference(path)
	if err != nil {
		return err
	}
	defer f.Close()

	raw := make(map[string]labeledVectorFile)
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadReference, path, err)
	}
	for key, rows := range raw {
		var level int
		if _, err := fmt.Sscanf(key, "%d", &level); err != nil || level < 1 || level > 3 {
			return fmt.Errorf("%w: %s: bad level key %q", ErrBadReference, path, key)
		}
		vecs := make([]LabeledVector, 0, len(rows))
		for _, r := range rows {
			if len(r.Vec) == 0 {
				continue
			}
			vecs = append(vecs, LabeledVector{ID: r.ID, Label: r.Label, Vec: r.Vec})
		}
		s.levelVectors[level] = vecs
	}
	return nil
}

// title_index.json: a list of vectors aligned one-to-one with the rows of
// the title index CSV. A length mismatch means the embeddings were built
// against a different index version and is fatal.
func loadTitleEmbeddings(s *Store, path string) error {
	f, err := openReference(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var vecs [][]float32
	if err := json.NewDecoder(f).Decode(&vecs); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadReference, path, err)
	}
	if len(vecs) != len(s.titles) {
		return fmt.Errorf("%w: %s: %d vectors for %d titles", ErrBadReference, path, len(vecs), len(s.titles))
	}
	s.titleVectors = vecs
	return nil
}

// Paraphrase vectors live beside the paraphrase file as
// <paraphrases>.embeddings.json, a list aligned with the paraphrase list.
func attachParaphraseEmbeddings(s *Store, paraphrasePath string) error {
	path := paraphrasePath + ".embeddings.json"
	f, err := openReference(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var vecs [][]float32
	if err := json.NewDecoder(f).Decode(&vecs); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadReference, path, err)
	}
	if len(vecs) != len(s.paraphrases) {
		return fmt.Errorf("%w: %s: %d vectors for %d paraphrases", ErrBadReference, path, len(vecs), len(s.paraphrases))
	}
	for i := range s.paraphrases {
		s.paraphrases[i].Embedding = vecs[i]
	}
	return nil
}
