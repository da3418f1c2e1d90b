package service

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
)

// ChurnClassIndex is the position of the churn class in every model's
// probability output. The artifact codec guarantees this ordering.
const ChurnClassIndex = 0

// probabilitySumTolerance bounds how far a distribution may drift from 1.
const probabilitySumTolerance = 1e-6

// monthsPerYear annualizes the monthly transaction amount.
var monthsPerYear = decimal.NewFromInt(12)

// RiskScorer turns a model's output for an encoded customer into a RiskAssessment.
type RiskScorer struct {
	now      func() time.Time
	currency money.Currency
}

// NewRiskScorer creates a RiskScorer that states annualized values in currency.
func NewRiskScorer(currency money.Currency) *RiskScorer {
	return &RiskScorer{currency: currency, now: time.Now}
}

// Score runs m on vector and classifies the churn probability into a tier.
// The annualized value is Total_Trans_Amt x 12: a linear extrapolation, not a
// forecast. Malformed model output yields a ScoringError; values are never clamped.
func (s *RiskScorer) Score(vector model.FeatureVector, m ScoredModel, record *model.CustomerRecord) (*model.RiskAssessment, error) {
	if want := m.Classifier.NumFeatures(); vector.Len() != want {
		return nil, &ScoringError{
			Model:  m.Name,
			Reason: fmt.Sprintf("feature vector has %d values, model expects %d", vector.Len(), want),
		}
	}

	monthly, err := record.Number(model.ColTotalTransAmt)
	if err != nil {
		return nil, &EncodingError{Column: model.ColTotalTransAmt, Reason: "required for annualized value", Err: err}
	}

	features := vector.Values()
	proba, err := m.Classifier.PredictProba(features)
	if err != nil {
		return nil, &ScoringError{Model: m.Name, Reason: "predict_proba failed: " + err.Error()}
	}
	if err := validateDistribution(proba, len(m.Classifier.Classes())); err != nil {
		return nil, &ScoringError{Model: m.Name, Reason: err.Error()}
	}

	classIdx, err := m.Classifier.Predict(features)
	if err != nil {
		return nil, &ScoringError{Model: m.Name, Reason: "predict failed: " + err.Error()}
	}
	classes := m.Classifier.Classes()
	if classIdx < 0 || classIdx >= len(classes) {
		return nil, &ScoringError{Model: m.Name, Reason: fmt.Sprintf("predicted class index %d out of range", classIdx)}
	}

	annualized := money.New(decimal.NewFromFloat(monthly), s.currency).Multiply(monthsPerYear)

	assessment, err := model.NewRiskAssessment(m.Name, proba[ChurnClassIndex], classes[classIdx], annualized, s.now())
	if err != nil {
		return nil, &ScoringError{Model: m.Name, Reason: err.Error()}
	}
	return assessment, nil
}

func validateDistribution(proba []float64, classes int) error {
	if len(proba) != classes || len(proba) <= ChurnClassIndex {
		return fmt.Errorf("probability vector has %d entries, want %d", len(proba), classes)
	}
	sum := 0.0
	for i, p := range proba {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("probability[%d] is not finite", i)
		}
		if p < 0 || p > 1 {
			return fmt.Errorf("probability[%d] = %v is outside [0, 1]", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > probabilitySumTolerance {
		return fmt.Errorf("probabilities sum to %v, want 1", sum)
	}
	return nil
}
