package industries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"greenjobs/internal/textclean"
)

const (
	minSentenceLen = 10
	maxSentenceLen = 250
)

var ErrClassifierUnavailable = errors.New("sentence classifier unavailable")

// SentenceClassifier decides, per sentence, whether it describes the
// employing company rather than the role. The fine-tuned model runs in the
// external inference service.
type SentenceClassifier interface {
	Classify(ctx context.Context, sentences []string) ([]bool, error)
}

type httpSentenceClassifier struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

func NewHTTPSentenceClassifier(baseURL string, logger *log.Logger) (SentenceClassifier, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("industries: classifier baseURL required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &httpSentenceClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}, nil
}

func (c *httpSentenceClassifier) Classify(ctx context.Context, sentences []string) ([]bool, error) {
	if len(sentences) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(map[string][]string{"sentences": sentences})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify/company-description", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Printf("industries=classify status=error http_status=%d body=%q", resp.StatusCode, strings.TrimSpace(string(rb)))
		return nil, fmt.Errorf("%w: status=%d", ErrClassifierUnavailable, resp.StatusCode)
	}

	var out struct {
		Labels []bool `json:"labels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	if len(out.Labels) != len(sentences) {
		return nil, fmt.Errorf("%w: %d labels for %d sentences", ErrClassifierUnavailable, len(out.Labels), len(sentences))
	}
	return out.Labels, nil
}

// candidateSentences cleans the advert text, splits it and keeps sentences
// inside the length window the classifier was trained on.
func candidateSentences(text string) []string {
	sentences := textclean.Sentences(textclean.Clean(text))
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if len(s) < minSentenceLen || len(s) > maxSentenceLen {
			continue
		}
		out = append(out, s)
	}
	return out
}
