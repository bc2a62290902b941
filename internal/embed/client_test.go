package embed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestClientEmbed(t *testing.T) {
	var gotReqs []embedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotReqs = append(gotReqs, req)
		vecs := make([][]float32, len(req.Inputs))
		for i := range vecs {
			vecs[i] = []float32{3, 4}
		}
		json.NewEncoder(w).Encode(embedResponse{Vectors: vecs})
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{BaseURL: srv.URL, BatchSize: 2, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Fatalf("model = %q, want default", c.Model())
	}

	out, err := c.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d vectors, want 3", len(out))
	}
	// [3,4] normalises to [0.6,0.8].
	if math.Abs(float64(out[0][0])-0.6) > 1e-6 || math.Abs(float64(out[0][1])-0.8) > 1e-6 {
		t.Fatalf("vector not normalised: %v", out[0])
	}

	if len(gotReqs) != 2 {
		t.Fatalf("got %d requests, want 2 batches", len(gotReqs))
	}
	if len(gotReqs[0].Inputs) != 2 || len(gotReqs[1].Inputs) != 1 {
		t.Fatalf("batch sizes = %d,%d", len(gotReqs[0].Inputs), len(gotReqs[1].Inputs))
	}
	if gotReqs[0].Model != DefaultModel || gotReqs[0].MaxSeqLen != MaxSeqLen {
		t.Fatalf("request = %+v", gotReqs[0])
	}
}

func TestClientEmbedServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{BaseURL: srv.URL, MaxRetries: 1, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = c.Embed(context.Background(), []string{"a"})
	if !errors.Is(err, ErrEmbedderUnavailable) {
		t.Fatalf("err = %v, want ErrEmbedderUnavailable", err)
	}
	if calls != 2 {
		t.Fatalf("got %d calls, want initial attempt plus one retry", calls)
	}
}

func TestClientEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Vectors: [][]float32{{1, 0}}})
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{BaseURL: srv.URL, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = c.Embed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrEmbedderUnavailable) {
		t.Fatalf("err = %v, want wrapped ErrEmbedderUnavailable", err)
	}
}

func TestClientEmbedEmpty(t *testing.T) {
	c, err := NewClient(ClientOptions{BaseURL: "http://localhost:0", Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := c.Embed(context.Background(), nil)
	if err != nil || out != nil {
		t.Fatalf("empty input: out=%v err=%v", out, err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(ClientOptions{}); err == nil {
		t.Fatalf("NewClient accepted empty base URL")
	}
}
