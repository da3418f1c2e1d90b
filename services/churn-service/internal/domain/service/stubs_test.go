package service_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

// stubScaler multiplies every value by factor.
type stubScaler struct {
	columns []string
	version string
	factor  float64
	width   int // overrides len(columns) when non-zero
}

func (s *stubScaler) InputColumns() []string { return s.columns }
func (s *stubScaler) Version() string        { return s.version }

func (s *stubScaler) OutputWidth() int {
	if s.width != 0 {
		return s.width
	}
	return len(s.columns)
}

func (s *stubScaler) Transform(values []float64) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * s.factor
	}
	return out, nil
}

// stubEncoder one-hot encodes each column against its category list.
type stubEncoder struct {
	categories map[string][]string
	columns    []string
	version    string
}

func (e *stubEncoder) InputColumns() []string { return e.columns }
func (e *stubEncoder) Version() string        { return e.version }

func (e *stubEncoder) OutputWidth() int {
	n := 0
	for _, c := range e.columns {
		n += len(e.categories[c])
	}
	return n
}

func (e *stubEncoder) Transform(values []string) ([]float64, error) {
	var out []float64
	for i, col := range e.columns {
		found := false
		for _, cat := range e.categories[col] {
			if cat == values[i] {
				out = append(out, 1)
				found = true
			} else {
				out = append(out, 0)
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown category %q for column %s", values[i], col)
		}
	}
	return out, nil
}

// stubClassifier returns fixed outputs.
type stubClassifier struct {
	classes     []string
	proba       []float64
	probaErr    error
	predictErr  error
	numFeatures int
	predicted   int
}

func (c *stubClassifier) NumFeatures() int  { return c.numFeatures }
func (c *stubClassifier) Classes() []string { return c.classes }

func (c *stubClassifier) Predict([]float64) (int, error) {
	return c.predicted, c.predictErr
}

func (c *stubClassifier) PredictProba([]float64) ([]float64, error) {
	return c.proba, c.probaErr
}

var churnClasses = []string{"Attrited Customer", "Existing Customer"}

func newStubClassifier(numFeatures int, proba ...float64) *stubClassifier {
	return &stubClassifier{classes: churnClasses, proba: proba, numFeatures: numFeatures}
}

// mockLoader resolves artifact keys through a map and counts calls.
type mockLoader struct {
	classifiers map[string]port.Classifier
	errs        map[string]error
	calls       atomic.Int32
}

func (l *mockLoader) LoadClassifier(_ context.Context, key string) (port.Classifier, error) {
	l.calls.Add(1)
	if err, ok := l.errs[key]; ok {
		return nil, err
	}
	clf, ok := l.classifiers[key]
	if !ok {
		return nil, fmt.Errorf("no artifact %s", key)
	}
	return clf, nil
}

func testTransformers() (*stubScaler, *stubEncoder) {
	scaler := &stubScaler{
		columns: []string{model.ColCustomerAge, model.ColTotalTransAmt, model.ColTotalAmtChngQ4Q1},
		version: "2024.03",
		factor:  0.5,
	}
	encoder := &stubEncoder{
		columns: []string{model.ColGender, model.ColCardCategory},
		categories: map[string][]string{
			model.ColGender:       {"F", "M"},
			model.ColCardCategory: {"Blue", "Gold", "Platinum", "Silver"},
		},
		version: "2024.03",
	}
	return scaler, encoder
}

func testRecord(overrides func(num map[string]float64, cat map[string]string)) *model.CustomerRecord {
	num := map[string]float64{
		model.ColCustomerAge:   45,
		model.ColTotalTransAmt: 5000,
	}
	cat := map[string]string{
		model.ColGender:       "M",
		model.ColCardCategory: "Gold",
	}
	if overrides != nil {
		overrides(num, cat)
	}
	rec, err := model.NewCustomerRecord(num, cat)
	if err != nil {
		panic(err)
	}
	return rec
}
