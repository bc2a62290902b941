package skills

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testForestJSON = `{
	"feature_names": ["green_taxonomy_sim", "green_topic_sim", "topic_count"],
	"scaler": {"mean": [0, 0, 0], "std": [1, 1, 1]},
	"threshold": 0.5,
	"trees": [
		{"nodes": [
			{"feature": 0, "threshold": 0.6, "left": 1, "right": 2},
			{"feature": -1, "value": 0},
			{"feature": -1, "value": 1}
		]}
	]
}`

func writeTestModel(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "green_forest.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestLoadGreenClassifierMissing(t *testing.T) {
	_, err := LoadGreenClassifier(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrMissingModel) {
		t.Fatalf("err = %v, want ErrMissingModel", err)
	}
}

func TestLoadGreenClassifierMalformed(t *testing.T) {
	_, err := LoadGreenClassifier(writeTestModel(t, "{not json"))
	if !errors.Is(err, ErrMissingModel) {
		t.Fatalf("err = %v, want ErrMissingModel", err)
	}
}

func TestLoadGreenClassifierNoTrees(t *testing.T) {
	_, err := LoadGreenClassifier(writeTestModel(t, `{"trees": []}`))
	if !errors.Is(err, ErrMissingModel) {
		t.Fatalf("err = %v, want ErrMissingModel", err)
	}
}

func TestPredict(t *testing.T) {
	c, err := LoadGreenClassifier(writeTestModel(t, testForestJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	green, prob := c.Predict(Features{GreenTaxonomySim: 0.9})
	if !green || prob != 1 {
		t.Fatalf("high-sim span: green=%v prob=%v, want true/1", green, prob)
	}

	green, prob = c.Predict(Features{GreenTaxonomySim: 0.2})
	if green || prob != 0 {
		t.Fatalf("low-sim span: green=%v prob=%v, want false/0", green, prob)
	}
}

func TestPredictAveragesTrees(t *testing.T) {
	body := `{
		"scaler": {"mean": [0, 0, 0], "std": [1, 1, 1]},
		"threshold": 0.5,
		"trees": [
			{"nodes": [{"feature": -1, "value": 1}]},
			{"nodes": [{"feature": -1, "value": 0}]}
		]
	}`
	c, err := LoadGreenClassifier(writeTestModel(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	green, prob := c.Predict(Features{})
	if !green || prob != 0.5 {
		t.Fatalf("green=%v prob=%v, want true/0.5 at the threshold", green, prob)
	}
}

func TestPredictCyclicTreeTerminates(t *testing.T) {
	// Both children of the split point back at it. The walk must give up
	// after visiting as many nodes as the tree holds.
	body := `{
		"scaler": {"mean": [0, 0, 0], "std": [1, 1, 1]},
		"threshold": 0.5,
		"trees": [
			{"nodes": [{"feature": 0, "threshold": 0.5, "left": 0, "right": 0}]}
		]
	}`
	c, err := LoadGreenClassifier(writeTestModel(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	green, prob := c.Predict(Features{GreenTaxonomySim: 0.9})
	if green || prob != 0 {
		t.Fatalf("green=%v prob=%v, want false/0 from the bounded walk", green, prob)
	}
}
