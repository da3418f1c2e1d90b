package artifact

import (
	"fmt"
)

type logisticDocument struct {
	header
	Classes   []string  `json:"classes"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// LogisticRegression is a binary linear model; coef . x + intercept is the
// log-odds of classes[1].
type LogisticRegression struct {
	classes   []string
	coef      []float64
	intercept float64
}

// DecodeLogisticRegression decodes a logistic_regression document.
func DecodeLogisticRegression(data []byte) (*LogisticRegression, error) {
	var doc logisticDocument
	if err := decode(data, KindLogisticRegression, &doc); err != nil {
		return nil, err
	}
	classes, err := binaryClasses(doc.Classes)
	if err != nil {
		return nil, fmt.Errorf("logistic_regression: %w", err)
	}
	if len(doc.Coef) == 0 {
		return nil, fmt.Errorf("logistic_regression: coef is empty")
	}
	if !allFinite(doc.Coef...) || !allFinite(doc.Intercept) {
		return nil, fmt.Errorf("logistic_regression: coefficients must be finite")
	}
	return &LogisticRegression{
		classes:   classes,
		coef:      append([]float64(nil), doc.Coef...),
		intercept: doc.Intercept,
	}, nil
}

func (m *LogisticRegression) NumFeatures() int  { return len(m.coef) }
func (m *LogisticRegression) Classes() []string { return append([]string(nil), m.classes...) }

func (m *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	if err := checkFeatures(features, len(m.coef)); err != nil {
		return nil, err
	}
	margin := m.intercept
	for i, w := range m.coef {
		margin += w * features[i]
	}
	return marginProba(margin), nil
}

func (m *LogisticRegression) Predict(features []float64) (int, error) {
	proba, err := m.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return argmax(proba), nil
}
