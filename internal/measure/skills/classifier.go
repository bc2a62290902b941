package skills

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrMissingModel = errors.New("missing classifier model")

// forestModel is the exported random-forest artefact: a standard scaler
// plus flattened decision trees. Trained offline on labelled spans with
// class balancing; this side only runs inference.
type forestModel struct {
	FeatureNames []string     `json:"feature_names"`
	Scaler       scalerParams `json:"scaler"`
	Threshold    float64      `json:"threshold"`
	Trees        []forestTree `json:"trees"`
}

type scalerParams struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

type forestTree struct {
	Nodes []treeNode `json:"nodes"`
}

// treeNode is one node of a flattened tree. Feature -1 marks a leaf, whose
// Value is the green-class probability at that leaf.
type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// GreenClassifier decides green / not-green for a span from three fused
// features: green-taxonomy similarity, green-topic similarity and the
// exact-topic substring count.
type GreenClassifier struct {
	model forestModel
}

// LoadGreenClassifier reads the model artefact. A missing or malformed
// model is fatal at initialisation.
func LoadGreenClassifier(path string) (*GreenClassifier, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingModel, path)
		}
		return nil, err
	}
	defer f.Close()

	var m forestModel
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingModel, path, err)
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("%w: %s: no trees", ErrMissingModel, path)
	}
	if len(m.Scaler.Mean) != len(m.Scaler.Std) {
		return nil, fmt.Errorf("%w: %s: scaler mean/std length mismatch", ErrMissingModel, path)
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		m.Threshold = 0.5
	}
	return &GreenClassifier{model: m}, nil
}

// Features is the classifier input for one span.
type Features struct {
	GreenTaxonomySim float64
	GreenTopicSim    float64
	TopicCount       float64
}

// Predict returns the green decision and probability for one span.
func (c *GreenClassifier) Predict(f Features) (bool, float64) {
	x := c.scale([]float64{f.GreenTaxonomySim, f.GreenTopicSim, f.TopicCount})

	var sum float64
	for _, t := range c.model.Trees {
		sum += t.predict(x)
	}
	prob := sum / float64(len(c.model.Trees))
	return prob >= c.model.Threshold, prob
}

func (c *GreenClassifier) scale(x []float64) []float64 {
	m := c.model.Scaler
	if len(m.Mean) != len(x) {
		return x
	}
	out := make([]float64, len(x))
	for i := range x {
		std := m.Std[i]
		if std == 0 {
			std = 1
		}
		out[i] = (x[i] - m.Mean[i]) / std
	}
	return out
}

// predict walks the flattened tree. The walk is bounded by the node count
// so a malformed artefact with a cyclic child pointer cannot loop forever.
func (t forestTree) predict(x []float64) float64 {
	i := 0
	for steps := 0; steps < len(t.Nodes); steps++ {
		if i < 0 || i >= len(t.Nodes) {
			return 0
		}
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if n.Feature >= len(x) {
			return 0
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return 0
}
