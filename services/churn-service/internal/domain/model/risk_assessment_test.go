package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/services/churn-service/internal/domain/event"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/valueobject"
)

func annual(amount int64) money.Money {
	return money.New(decimal.NewFromInt(amount), money.USD)
}

func TestNewRiskAssessment(t *testing.T) {
	scoredAt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("medium tier emits a completed event only", func(t *testing.T) {
		a, err := model.NewRiskAssessment("Gradient Boosting", 0.42, "Attrited Customer", annual(60000), scoredAt)
		require.NoError(t, err)

		assert.Equal(t, valueobject.RiskTierMedium, a.Tier())
		assert.Equal(t, "Gradient Boosting", a.ModelName())
		assert.Equal(t, 0.42, a.ChurnProbability())
		assert.Equal(t, scoredAt, a.ScoredAt())

		evts := a.DomainEvents()
		require.Len(t, evts, 1)
		completed, ok := evts[0].(event.AssessmentCompleted)
		require.True(t, ok)
		assert.Equal(t, a.ID(), completed.AggregateID())
		assert.Equal(t, "MEDIUM", completed.RiskTier)
		assert.Equal(t, "60000.00", completed.AnnualizedValue)
		assert.Equal(t, "USD", completed.Currency)

		assert.Empty(t, a.DomainEvents(), "events are drained on read")
	})

	t.Run("high tier also emits high risk detected", func(t *testing.T) {
		a, err := model.NewRiskAssessment("XGBoost", 0.91, "Attrited Customer", annual(1200), scoredAt)
		require.NoError(t, err)

		evts := a.DomainEvents()
		require.Len(t, evts, 2)
		assert.Equal(t, event.EventTypeAssessmentCompleted, evts[0].EventType())
		assert.Equal(t, event.EventTypeHighRiskDetected, evts[1].EventType())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := model.NewRiskAssessment("", 0.5, "", annual(1), scoredAt)
		assert.Error(t, err)

		_, err = model.NewRiskAssessment("XGBoost", 1.01, "", annual(1), scoredAt)
		assert.Error(t, err)

		_, err = model.NewRiskAssessment("XGBoost", -0.01, "", annual(1), scoredAt)
		assert.Error(t, err)

		_, err = model.NewRiskAssessment("XGBoost", 0.5, "", money.Money{}, scoredAt)
		assert.Error(t, err)
	})
}

func TestReconstruct(t *testing.T) {
	original, err := model.NewRiskAssessment("Random Forest", 0.1, "Existing Customer", annual(2400), time.Now())
	require.NoError(t, err)

	rebuilt := model.Reconstruct(
		original.ID(), original.ModelName(), original.ChurnProbability(), original.PredictedClass(),
		original.Tier(), original.AnnualizedValue(), original.ScoredAt(),
	)

	assert.Equal(t, original.ID(), rebuilt.ID())
	assert.Equal(t, valueobject.RiskTierLow, rebuilt.Tier())
	assert.True(t, original.AnnualizedValue().Amount().Equal(rebuilt.AnnualizedValue().Amount()))
	assert.Equal(t, original.AnnualizedValue().Currency(), rebuilt.AnnualizedValue().Currency())
	assert.Empty(t, rebuilt.DomainEvents())
}
