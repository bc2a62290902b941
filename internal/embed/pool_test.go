package embed

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeEmbedder encodes each input's global position into its vector so
// order mix-ups are visible in the output.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls [][]string
	err   error
	byID  map[string][]float32
}

func (f *fakeEmbedder) Model() string { return DefaultModel }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, texts)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.byID[text]; ok {
			out[i] = v
			continue
		}
		out[i] = []float32{float32(len(text)), 1}
	}
	return out, nil
}

func TestPooledEmbedderPreservesOrder(t *testing.T) {
	inner := &fakeEmbedder{byID: map[string][]float32{}}
	texts := make([]string, 10)
	for i := range texts {
		texts[i] = string(rune('a' + i))
		inner.byID[texts[i]] = []float32{float32(i)}
	}

	p := NewPooledEmbedder(inner, 3, 3)
	out, err := p.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(out), len(texts))
	}
	for i, v := range out {
		if v[0] != float32(i) {
			t.Fatalf("vector %d = %v: output order broken", i, v)
		}
	}
	if len(inner.calls) != 4 {
		t.Fatalf("got %d chunk calls, want 4", len(inner.calls))
	}
}

func TestPooledEmbedderSmallInputPassesThrough(t *testing.T) {
	inner := &fakeEmbedder{}
	p := NewPooledEmbedder(inner, 4, 100)

	if _, err := p.Embed(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(inner.calls) != 1 || len(inner.calls[0]) != 2 {
		t.Fatalf("calls = %v, want one direct call", inner.calls)
	}
}

func TestPooledEmbedderPropagatesError(t *testing.T) {
	wantErr := errors.New("inference down")
	inner := &fakeEmbedder{err: wantErr}
	p := NewPooledEmbedder(inner, 2, 1)

	_, err := p.Embed(context.Background(), []string{"a", "b", "c"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want inner error", err)
	}
}
