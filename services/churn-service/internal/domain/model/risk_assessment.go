package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/bib/pkg/events"
	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/services/churn-service/internal/domain/event"
	"github.com/bibbank/bib/services/churn-service/internal/domain/valueobject"
)

// RiskAssessment is the aggregate root for one scored customer. It is
// immutable once created.
type RiskAssessment struct {
	scoredAt         time.Time
	annualizedValue  money.Money
	tier             valueobject.RiskTier
	modelName        string
	predictedClass   string
	domainEvents     events.Collector
	churnProbability float64
	id               uuid.UUID
}

// NewRiskAssessment creates an assessment, derives its tier from the churn
// probability and records the matching domain events.
func NewRiskAssessment(
	modelName string,
	churnProbability float64,
	predictedClass string,
	annualizedValue money.Money,
	scoredAt time.Time,
) (*RiskAssessment, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if math.IsNaN(churnProbability) || churnProbability < 0 || churnProbability > 1 {
		return nil, fmt.Errorf("churn probability must be within [0, 1], got %v", churnProbability)
	}
	if annualizedValue.Currency().IsZero() {
		return nil, fmt.Errorf("annualized value currency is required")
	}

	a := &RiskAssessment{
		id:               uuid.New(),
		modelName:        modelName,
		churnProbability: churnProbability,
		predictedClass:   predictedClass,
		tier:             valueobject.RiskTierFromProbability(churnProbability),
		annualizedValue:  annualizedValue,
		scoredAt:         scoredAt.UTC(),
	}

	value := annualizedValue.Amount().StringFixed(2)
	currency := annualizedValue.Currency().Code()

	a.domainEvents.Record(event.NewAssessmentCompleted(
		a.id, a.modelName, a.churnProbability,
		a.tier.String(), a.predictedClass, value, currency,
		a.scoredAt,
	))
	if a.tier.Equal(valueobject.RiskTierHigh) {
		a.domainEvents.Record(event.NewHighRiskDetected(
			a.id, a.modelName, a.churnProbability, value, currency, a.scoredAt,
		))
	}

	return a, nil
}

// Reconstruct rebuilds a RiskAssessment from persisted data (no validation, no events).
func Reconstruct(
	id uuid.UUID,
	modelName string,
	churnProbability float64,
	predictedClass string,
	tier valueobject.RiskTier,
	annualizedValue money.Money,
	scoredAt time.Time,
) *RiskAssessment {
	return &RiskAssessment{
		id:               id,
		modelName:        modelName,
		churnProbability: churnProbability,
		predictedClass:   predictedClass,
		tier:             tier,
		annualizedValue:  annualizedValue,
		scoredAt:         scoredAt,
	}
}

func (a *RiskAssessment) ID() uuid.UUID {
	return a.id
}

func (a *RiskAssessment) ModelName() string {
	return a.modelName
}

func (a *RiskAssessment) ChurnProbability() float64 {
	return a.churnProbability
}

func (a *RiskAssessment) PredictedClass() string {
	return a.predictedClass
}

func (a *RiskAssessment) Tier() valueobject.RiskTier {
	return a.tier
}

func (a *RiskAssessment) AnnualizedValue() money.Money {
	return a.annualizedValue
}

func (a *RiskAssessment) ScoredAt() time.Time {
	return a.scoredAt
}


// DomainEvents returns and clears the events raised by this assessment.
func (a *RiskAssessment) DomainEvents() []events.DomainEvent {
	return a.domainEvents.Drain()
}
