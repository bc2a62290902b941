package ner

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
)

type httpRecognizer struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

type extractRequest struct {
	Texts []string `json:"texts"`
}

type extractResponse struct {
	Spans [][]Span `json:"spans"`
}

// NewHTTPRecognizer talks to the skill-entity recogniser service. A failure
// on a batch is batch-scoped: the caller fails that batch and moves on.
func NewHTTPRecognizer(baseURL string, logger *log.Logger) (Recognizer, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ner: baseURL required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &httpRecognizer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}, nil
}

func (r *httpRecognizer) Recognize(ctx context.Context, texts []string) ([][]Span, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(extractRequest{Texts: texts})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognizerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		r.logger.Printf("ner=extract status=error http_status=%d body=%q", resp.StatusCode, strings.TrimSpace(string(rb)))
		return nil, fmt.Errorf("%w: status=%d", ErrRecognizerUnavailable, resp.StatusCode)
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognizerUnavailable, err)
	}
	if len(out.Spans) != len(texts) {
		return nil, fmt.Errorf("%w: %d span lists for %d texts", ErrRecognizerUnavailable, len(out.Spans), len(texts))
	}
	return out.Spans, nil
}
