package taxonomy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// company_sic.json: map from cleaned company name to one or more 5-digit
// codes. Values may be a string or a list of strings.
func loadCompanySIC(s *Store, p Paths) error {
	f, err := openReference(p.CompanySICJSON)
	if err != nil {
		return err
	}
	defer f.Close()

	raw := make(map[string]json.RawMessage)
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadReference, p.CompanySICJSON, err)
	}

	s.companySIC = make(map[uint64][]string, len(raw))
	for name, msg := range raw {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		var codes []string
		var one string
		if err := json.Unmarshal(msg, &one); err == nil {
			codes = []string{one}
		} else if err := json.Unmarshal(msg, &codes); err != nil {
			return fmt.Errorf("%w: %s: company %q: %v", ErrBadReference, p.CompanySICJSON, name, err)
		}
		cleaned := make([]string, 0, len(codes))
		for _, c := range codes {
			c = strings.TrimSpace(c)
			if len(c) == 5 {
				cleaned = append(cleaned, c)
			}
		}
		if len(cleaned) == 0 {
			continue
		}
		s.companySIC[CompanyHash(name)] = cleaned
	}
	return nil
}

// sic_paraphrases.json: list of {sic, name, paraphrase}. Embeddings are
// attached later from the embeddings file, keyed by code.
func loadParaphrases(s *Store, p Paths) error {
	f, err := openReference(p.ParaphrasesJSON)
	if err != nil {
		return err
	}
	defer f.Close()

	var rows []struct {
		SIC        string `json:"sic"`
		Name       string `json:"name"`
		Paraphrase string `json:"paraphrase"`
	}
	if err := json.NewDecoder(f).Decode(&rows); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadReference, p.ParaphrasesJSON, err)
	}

	s.paraphrases = make([]IndustryParaphrase, 0, len(rows))
	for _, r := range rows {
		sic := strings.TrimSpace(r.SIC)
		if len(sic) != 5 || strings.TrimSpace(r.Paraphrase) == "" {
			continue
		}
		s.paraphrases = append(s.paraphrases, IndustryParaphrase{
			SIC:        sic,
			Name:       strings.TrimSpace(r.Name),
			Paraphrase: strings.TrimSpace(r.Paraphrase),
		})
	}
	return nil
}
