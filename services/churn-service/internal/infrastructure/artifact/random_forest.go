package artifact

import (
	"fmt"
)

type forestDocument struct {
	header
	Classes     []string       `json:"classes"`
	Trees       []treeDocument `json:"trees"`
	NumFeatures int            `json:"n_features"`
}

// RandomForest averages the normalized class distributions of its trees'
// leaves. Leaves carry per-class sample counts (or fractions).
type RandomForest struct {
	classes     []string
	trees       []*tree
	numFeatures int
}

// DecodeRandomForest decodes a random_forest document.
func DecodeRandomForest(data []byte) (*RandomForest, error) {
	var doc forestDocument
	if err := decode(data, KindRandomForest, &doc); err != nil {
		return nil, err
	}
	if doc.NumFeatures <= 0 {
		return nil, fmt.Errorf("random_forest: n_features must be positive")
	}
	classes, err := binaryClasses(doc.Classes)
	if err != nil {
		return nil, fmt.Errorf("random_forest: %w", err)
	}
	trees, err := buildTrees(doc.Trees, doc.NumFeatures, len(classes), lessOrEqual)
	if err != nil {
		return nil, fmt.Errorf("random_forest: %w", err)
	}
	for i, t := range trees {
		for node, v := range t.value {
			if t.left[node] != leafMarker {
				continue
			}
			if v[0] < 0 || v[1] < 0 || v[0]+v[1] <= 0 {
				return nil, fmt.Errorf("random_forest: tree %d leaf %d has invalid class counts %v", i, node, v)
			}
		}
	}
	return &RandomForest{classes: classes, trees: trees, numFeatures: doc.NumFeatures}, nil
}

func (m *RandomForest) NumFeatures() int  { return m.numFeatures }
func (m *RandomForest) Classes() []string { return append([]string(nil), m.classes...) }

// PredictProba returns the mean leaf distribution over all trees.
func (m *RandomForest) PredictProba(features []float64) ([]float64, error) {
	if err := checkFeatures(features, m.numFeatures); err != nil {
		return nil, err
	}
	proba := make([]float64, len(m.classes))
	for _, t := range m.trees {
		counts := t.leaf(features)
		total := 0.0
		for _, c := range counts {
			total += c
		}
		for i, c := range counts {
			proba[i] += c / total
		}
	}
	n := float64(len(m.trees))
	for i := range proba {
		proba[i] /= n
	}
	return proba, nil
}

// Predict returns the index of the more probable class.
func (m *RandomForest) Predict(features []float64) (int, error) {
	proba, err := m.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return argmax(proba), nil
}
