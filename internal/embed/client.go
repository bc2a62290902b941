package embed

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

	"greenjobs/internal/pkg/vector"
)

type ClientOptions struct {
	BaseURL    string
	Model      string
	BatchSize  int
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client calls the sentence-embedding inference service over HTTP.
type Client struct {
	baseURL    string
	model      string
	batchSize  int
	maxRetries int
	client     *http.Client
	logger     *log.Logger
}

type embedRequest struct {
	Model     string   `json:"model"`
	Inputs    []string `json:"inputs"`
	MaxSeqLen int      `json:"max_seq_len"`
}

type embedResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("embed: baseURL required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = 32
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		batchSize:  batch,
		maxRetries: retries,
		client:     hc,
		logger:     logger,
	}, nil
}

func (c *Client) Model() string { return c.model }

// Embed sends texts to the inference service in configured-size batches and
// returns one normalised vector per input, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		vecs, err := c.post(ctx, texts)
		if err == nil {
			return vecs, nil
		}
		lastErr = err
		c.logger.Printf("embed=batch status=retry attempt=%d size=%d err=%v", attempt, len(texts), err)
	}
	return nil, fmt.Errorf("%w: %v", ErrEmbedderUnavailable, lastErr)
}

func (c *Client) post(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Inputs: texts, MaxSeqLen: MaxSeqLen})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embed service status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Vectors) != len(texts) {
		return nil, fmt.Errorf("embed service returned %d vectors for %d inputs", len(out.Vectors), len(texts))
	}
	for i := range out.Vectors {
		out.Vectors[i] = vector.Normalize(out.Vectors[i])
	}
	return out.Vectors, nil
}
