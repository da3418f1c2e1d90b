package artifact

import (
	"fmt"
	"math"
)

type boostingDocument struct {
	header
	InitScore    *float64       `json:"init_score"`
	BaseScore    *float64       `json:"base_score"`
	LearningRate *float64       `json:"learning_rate"`
	Classes      []string       `json:"classes"`
	Trees        []treeDocument `json:"trees"`
	NumFeatures  int            `json:"n_features"`
}

// BoostedTrees is a binary gradient-boosted tree ensemble. The raw margin is
// the log-odds of classes[1]:
//
//	margin = init + learningRate * sum(leaf values)
//
// For scikit-learn models init is init_score (already log-odds) and trees split
// with x <= threshold. For XGBoost models init is logit(base_score), leaves are
// already scaled (learning rate 1) and trees split with x < threshold.
type BoostedTrees struct {
	classes      []string
	trees        []*tree
	init         float64
	learningRate float64
	numFeatures  int
}

// DecodeBoostedTrees decodes a gradient_boosting or xgboost document.
func DecodeBoostedTrees(data []byte) (*BoostedTrees, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	var doc boostingDocument
	if err := decode(data, h.Kind, &doc); err != nil {
		return nil, err
	}
	if doc.NumFeatures <= 0 {
		return nil, fmt.Errorf("%s: n_features must be positive", h.Kind)
	}
	classes, err := binaryClasses(doc.Classes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.Kind, err)
	}

	m := &BoostedTrees{classes: classes, numFeatures: doc.NumFeatures}
	var rule splitRule
	switch h.Kind {
	case KindGradientBoosting:
		if doc.InitScore == nil || doc.LearningRate == nil {
			return nil, fmt.Errorf("%s: init_score and learning_rate are required", h.Kind)
		}
		m.init = *doc.InitScore
		m.learningRate = *doc.LearningRate
		rule = lessOrEqual
	case KindXGBoost:
		base := 0.5
		if doc.BaseScore != nil {
			base = *doc.BaseScore
		}
		if base <= 0 || base >= 1 {
			return nil, fmt.Errorf("%s: base_score must be within (0, 1), got %v", h.Kind, base)
		}
		m.init = math.Log(base / (1 - base))
		m.learningRate = 1
		rule = lessThan
	default:
		return nil, fmt.Errorf("artifact kind %q is not a boosted tree model", h.Kind)
	}
	if !allFinite(m.init, m.learningRate) {
		return nil, fmt.Errorf("%s: init score and learning rate must be finite", h.Kind)
	}

	if m.trees, err = buildTrees(doc.Trees, doc.NumFeatures, 1, rule); err != nil {
		return nil, fmt.Errorf("%s: %w", h.Kind, err)
	}
	return m, nil
}

func (m *BoostedTrees) NumFeatures() int  { return m.numFeatures }
func (m *BoostedTrees) Classes() []string { return append([]string(nil), m.classes...) }

func (m *BoostedTrees) margin(features []float64) float64 {
	sum := 0.0
	for _, t := range m.trees {
		sum += t.leaf(features)[0]
	}
	return m.init + m.learningRate*sum
}

// PredictProba returns [P(classes[0]), P(classes[1])].
func (m *BoostedTrees) PredictProba(features []float64) ([]float64, error) {
	if err := checkFeatures(features, m.numFeatures); err != nil {
		return nil, err
	}
	return marginProba(m.margin(features)), nil
}

// Predict returns the index of the more probable class.
func (m *BoostedTrees) Predict(features []float64) (int, error) {
	proba, err := m.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return argmax(proba), nil
}
