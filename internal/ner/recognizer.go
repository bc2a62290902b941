// Package ner wraps the external skill-entity recogniser. The model itself
// is out of scope; the engine consumes it as an opaque component that maps
// advert texts to skill spans.
package ner

import (
	"context"
	"errors"
)

var ErrRecognizerUnavailable = errors.New("span recogniser unavailable")

type SpanKind string

const (
	KindSingle SpanKind = "single"
	KindMulti  SpanKind = "multi"
)

// Span is one contiguous passage naming a skill. Kind "multi" means the
// surface concatenates several skills and must be split downstream.
type Span struct {
	Text string   `json:"text"`
	Kind SpanKind `json:"kind"`
}

// Recognizer extracts skill spans from advert texts, one span list per
// input text, in input order.
type Recognizer interface {
	Recognize(ctx context.Context, texts []string) ([][]Span, error)
}
