package industries

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSentenceClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify/company-description" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Sentences []string `json:"sentences"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		labels := make([]bool, len(req.Sentences))
		labels[0] = true
		_ = json.NewEncoder(w).Encode(map[string]any{"labels": labels})
	}))
	defer srv.Close()

	c, err := NewHTTPSentenceClassifier(srv.URL, log.New(nullWriter{}, "", 0))
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	got, err := c.Classify(context.Background(), []string{"We are a firm", "Apply now"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("labels = %v, want [true false]", got)
	}
}

func TestHTTPSentenceClassifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewHTTPSentenceClassifier(srv.URL, log.New(nullWriter{}, "", 0))
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	_, err = c.Classify(context.Background(), []string{"x y z sentence"})
	if !errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("err = %v, want ErrClassifierUnavailable", err)
	}
}

func TestHTTPSentenceClassifierLabelCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"labels": []bool{true}})
	}))
	defer srv.Close()

	c, err := NewHTTPSentenceClassifier(srv.URL, log.New(nullWriter{}, "", 0))
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	_, err = c.Classify(context.Background(), []string{"one", "two"})
	if !errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("err = %v, want ErrClassifierUnavailable", err)
	}
}

func TestHTTPSentenceClassifierEmptyInput(t *testing.T) {
	c, err := NewHTTPSentenceClassifier("http://localhost:1", log.New(nullWriter{}, "", 0))
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	got, err := c.Classify(context.Background(), nil)
	if err != nil || got != nil {
		t.Fatalf("empty input: %v %v", got, err)
	}
}
