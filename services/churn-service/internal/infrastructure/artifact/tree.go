package artifact

import (
	"fmt"
)

// leafMarker in children_left marks a leaf node.
const leafMarker = -1

// treeDocument is a flattened decision tree: node i splits on feature[i] at
// threshold[i] and continues at children_left[i] or children_right[i]. Leaves
// carry value[i].
type treeDocument struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// splitRule decides whether a feature value descends to the left child.
type splitRule func(x, threshold float64) bool

// lessOrEqual is the scikit-learn split rule.
func lessOrEqual(x, threshold float64) bool { return x <= threshold }

// lessThan is the XGBoost split rule.
func lessThan(x, threshold float64) bool { return x < threshold }

type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	value     [][]float64
	goLeft    splitRule
}

// newTree validates doc: every array covers every node, split features are in
// range, children point forward (so descent always terminates) and every leaf
// carries valueWidth values.
func newTree(doc treeDocument, numFeatures, valueWidth int, rule splitRule) (*tree, error) {
	n := len(doc.ChildrenLeft)
	if n == 0 {
		return nil, fmt.Errorf("tree has no nodes")
	}
	if len(doc.ChildrenRight) != n || len(doc.Feature) != n || len(doc.Threshold) != n || len(doc.Value) != n {
		return nil, fmt.Errorf("tree arrays differ in length")
	}

	for i := 0; i < n; i++ {
		if doc.ChildrenLeft[i] == leafMarker {
			if len(doc.Value[i]) != valueWidth {
				return nil, fmt.Errorf("leaf %d has %d values, want %d", i, len(doc.Value[i]), valueWidth)
			}
			if !allFinite(doc.Value[i]...) {
				return nil, fmt.Errorf("leaf %d has a non-finite value", i)
			}
			continue
		}
		l, r := doc.ChildrenLeft[i], doc.ChildrenRight[i]
		if l <= i || l >= n || r <= i || r >= n {
			return nil, fmt.Errorf("node %d has children (%d, %d) out of range", i, l, r)
		}
		if f := doc.Feature[i]; f < 0 || f >= numFeatures {
			return nil, fmt.Errorf("node %d splits on feature %d, model has %d", i, f, numFeatures)
		}
		if !allFinite(doc.Threshold[i]) {
			return nil, fmt.Errorf("node %d has a non-finite threshold", i)
		}
	}

	return &tree{
		left:      doc.ChildrenLeft,
		right:     doc.ChildrenRight,
		feature:   doc.Feature,
		threshold: doc.Threshold,
		value:     doc.Value,
		goLeft:    rule,
	}, nil
}

// leaf returns the values of the leaf that x falls into.
func (t *tree) leaf(x []float64) []float64 {
	node := 0
	for t.left[node] != leafMarker {
		if t.goLeft(x[t.feature[node]], t.threshold[node]) {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.value[node]
}

func buildTrees(docs []treeDocument, numFeatures, valueWidth int, rule splitRule) ([]*tree, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("model has no trees")
	}
	trees := make([]*tree, len(docs))
	for i, doc := range docs {
		t, err := newTree(doc, numFeatures, valueWidth, rule)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees[i] = t
	}
	return trees, nil
}
