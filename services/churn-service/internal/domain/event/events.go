package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/bib/pkg/events"
)

const (
	// EventTypeAssessmentCompleted is emitted for every scored customer.
	EventTypeAssessmentCompleted = "churn.assessment.completed"

	// EventTypeHighRiskDetected is emitted when a customer lands in the HIGH tier.
	EventTypeHighRiskDetected = "churn.high_risk.detected"

	AggregateTypeRiskAssessment = "RiskAssessment"
)

// AssessmentCompleted is published when a churn assessment has been produced.
type AssessmentCompleted struct {
	events.BaseEvent
	ModelName        string  `json:"model_name"`
	ChurnProbability float64 `json:"churn_probability"`
	RiskTier         string  `json:"risk_tier"`
	PredictedClass   string  `json:"predicted_class"`
	AnnualizedValue  string  `json:"annualized_value"`
	Currency         string  `json:"currency"`
}

// NewAssessmentCompleted creates an AssessmentCompleted event.
func NewAssessmentCompleted(
	assessmentID uuid.UUID,
	modelName string,
	churnProbability float64,
	riskTier, predictedClass, annualizedValue, currency string,
	scoredAt time.Time,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:        events.NewBaseEvent(EventTypeAssessmentCompleted, assessmentID, AggregateTypeRiskAssessment, scoredAt),
		ModelName:        modelName,
		ChurnProbability: churnProbability,
		RiskTier:         riskTier,
		PredictedClass:   predictedClass,
		AnnualizedValue:  annualizedValue,
		Currency:         currency,
	}
}

// HighRiskDetected is published for HIGH tier assessments so retention
// teams can act on them.
type HighRiskDetected struct {
	events.BaseEvent
	ModelName        string  `json:"model_name"`
	ChurnProbability float64 `json:"churn_probability"`
	AnnualizedValue  string  `json:"annualized_value"`
	Currency         string  `json:"currency"`
}

// NewHighRiskDetected creates a HighRiskDetected event.
func NewHighRiskDetected(
	assessmentID uuid.UUID,
	modelName string,
	churnProbability float64,
	annualizedValue, currency string,
	detectedAt time.Time,
) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:        events.NewBaseEvent(EventTypeHighRiskDetected, assessmentID, AggregateTypeRiskAssessment, detectedAt),
		ModelName:        modelName,
		ChurnProbability: churnProbability,
		AnnualizedValue:  annualizedValue,
		Currency:         currency,
	}
}
