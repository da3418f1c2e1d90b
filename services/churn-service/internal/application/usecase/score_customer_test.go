package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/pkg/events"
	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/application/usecase"
	"github.com/bibbank/bib/services/churn-service/internal/domain/event"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
)

type scoreFixture struct {
	logs      *bytes.Buffer
	repo      *mockAssessmentRepository
	publisher *mockEventPublisher
	observer  *recordingObserver
	uc        *usecase.ScoreCustomer
}

func newScoreFixture(t *testing.T, catalog usecase.Catalog) scoreFixture {
	t.Helper()
	f := scoreFixture{
		logs:      &bytes.Buffer{},
		repo:      &mockAssessmentRepository{},
		publisher: &mockEventPublisher{},
		observer:  &recordingObserver{},
	}
	currency := catalog.Profile.Currency
	f.uc = usecase.NewScoreCustomer(
		catalog,
		service.NewRiskScorer(currency),
		service.NewMetricsAggregator(currency),
		f.repo, f.publisher, f.observer,
		slog.New(slog.NewTextHandler(f.logs, nil)),
	)
	return f
}

func TestScoreCustomer_Execute(t *testing.T) {
	t.Run("scores a high-risk customer with the default model", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.82, 0.18))

		resp, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{
			Profile:     validProfile(),
			RequestedBy: "analyst",
		})
		require.NoError(t, err)

		assert.Equal(t, "Gradient Boosting", resp.Assessment.ModelName)
		assert.InDelta(t, 0.82, resp.Assessment.ChurnProbability, 1e-12)
		assert.Equal(t, "HIGH", resp.Assessment.RiskTier)
		assert.Equal(t, "High", resp.Assessment.RiskTierLabel)
		assert.Equal(t, "Attrited Customer", resp.Assessment.PredictedClass)
		assert.Equal(t, "60000.00", resp.Assessment.AnnualizedValue)
		assert.Equal(t, "USD", resp.Assessment.Currency)

		assert.Equal(t, "49200.00", resp.Customer.ExpectedLoss)
		assert.Equal(t, "Urgent retention measures", resp.Recommendation.Strategy)

		require.NotNil(t, resp.Population)
		assert.Equal(t, int64(10127), resp.Population.TotalCustomers)
		require.NotNil(t, resp.Comparison)
		assert.Equal(t, "0.62", resp.Comparison.ProbabilityDelta)
		assert.Equal(t, "1.1353", resp.Comparison.ValueRatio)
		assert.True(t, resp.Comparison.AboveAverageRisk)

		require.Len(t, f.repo.saved, 1)
		assert.Equal(t, resp.Assessment.ID, f.repo.saved[0].ID())

		require.Len(t, f.publisher.published, 2)
		assert.Equal(t, event.EventTypeAssessmentCompleted, f.publisher.published[0].EventType())
		assert.Equal(t, event.EventTypeHighRiskDetected, f.publisher.published[1].EventType())

		require.Len(t, f.observer.scores, 1)
		assert.Equal(t, observation{model: "Gradient Boosting", tier: "HIGH", p: 0.82}, f.observer.scores[0])
		assert.Empty(t, f.observer.failures)
	})

	t.Run("uses the requested model", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.82, 0.18))

		resp, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{
			Profile:   validProfile(),
			ModelName: "XGBoost",
		})
		require.NoError(t, err)
		assert.Equal(t, "XGBoost", resp.Assessment.ModelName)
		assert.Equal(t, "LOW", resp.Assessment.RiskTier)
		assert.Equal(t, "Existing Customer", resp.Assessment.PredictedClass)
		require.Len(t, f.publisher.published, 1)
	})

	t.Run("rejects a model the profile does not offer", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.42, 0.58))

		_, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{
			Profile:   validProfile(),
			ModelName: "Random Forest",
		})
		var unknown *service.UnknownModelError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "Random Forest", unknown.Name)
		assert.Empty(t, f.repo.saved)
		require.Len(t, f.observer.failures, 1)
		assert.Equal(t, service.FailureUnknownModel, f.observer.failures[0].kind)
	})

	t.Run("rejects an out-of-range profile", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.42, 0.58))
		profile := validProfile()
		profile.CustomerAge = dto.Int(12)

		_, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{Profile: profile})
		var verr *dto.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, f.observer.failures, 1)
		assert.Equal(t, "validation", f.observer.failures[0].kind)
	})

	t.Run("omitted numeric attribute is not defaulted", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.42, 0.58))
		profile := validProfile()
		profile.TotalTransAmt = nil

		resp, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{Profile: profile})
		var verr *dto.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "total_trans_amt is required")
		assert.Empty(t, resp.Assessment.RiskTier)
		assert.Empty(t, f.repo.saved)
		assert.Empty(t, f.publisher.published)
	})

	t.Run("unknown category is an encoding error", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.42, 0.58))
		profile := validProfile()
		profile.CardCategory = "Purple"

		_, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{Profile: profile})
		var encErr *service.EncodingError
		require.ErrorAs(t, err, &encErr)
		assert.Empty(t, f.repo.saved)
		assert.Empty(t, f.publisher.published)
		assert.Equal(t, service.FailureEncoding, f.observer.failures[0].kind)
	})

	t.Run("malformed model output is a scoring error", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.7, 0.7))

		_, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{Profile: validProfile()})
		var scoringErr *service.ScoringError
		require.ErrorAs(t, err, &scoringErr)
		assert.Equal(t, service.FailureScoring, f.observer.failures[0].kind)
		assert.Equal(t, 1, strings.Count(f.logs.String(), "level=ERROR"))
		assert.Contains(t, f.logs.String(), "model=")
	})

	t.Run("translates display labels of the profile", func(t *testing.T) {
		catalog := testCatalog(t, 0.42, 0.58)
		labels, err := model.NewLabelMapping(map[string]map[string]string{
			model.ColGender:       {"Мужской": "M", "Женский": "F"},
			model.ColCardCategory: {"Синяя": "Blue"},
		})
		require.NoError(t, err)
		catalog.Profile.Labels = labels
		f := newScoreFixture(t, catalog)

		profile := validProfile()
		profile.Gender = "Женский"
		profile.CardCategory = "Синяя"

		resp, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{Profile: profile})
		require.NoError(t, err)
		assert.Equal(t, "MEDIUM", resp.Assessment.RiskTier)
	})

	t.Run("hides population figures from roles that may not compare", func(t *testing.T) {
		catalog := testCatalog(t, 0.42, 0.58)
		catalog.Profile.ComparisonRoles = []string{"analyst"}
		f := newScoreFixture(t, catalog)

		resp, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{
			Profile: validProfile(),
			Roles:   []string{"viewer"},
		})
		require.NoError(t, err)
		assert.Nil(t, resp.Population)
		assert.Nil(t, resp.Comparison)
		assert.Equal(t, "25200.00", resp.Customer.ExpectedLoss)

		resp, err = f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{
			Profile: validProfile(),
			Roles:   []string{"analyst"},
		})
		require.NoError(t, err)
		assert.NotNil(t, resp.Population)
	})

	t.Run("fails when the assessment cannot be saved", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.42, 0.58))
		f.repo.saveFunc = func(context.Context, *model.RiskAssessment) error {
			return errors.New("connection refused")
		}

		_, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{Profile: validProfile()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save assessment")
		assert.Empty(t, f.publisher.published)
		assert.Equal(t, service.FailureOther, f.observer.failures[0].kind)
	})

	t.Run("broker outage does not fail scoring", func(t *testing.T) {
		f := newScoreFixture(t, testCatalog(t, 0.42, 0.58))
		f.publisher.publishFunc = func(context.Context, ...events.DomainEvent) error {
			return errors.New("leader not available")
		}

		resp, err := f.uc.Execute(context.Background(), dto.ScoreCustomerRequest{Profile: validProfile()})
		require.NoError(t, err)
		assert.Equal(t, "MEDIUM", resp.Assessment.RiskTier)
		require.Len(t, f.repo.saved, 1)
	})

	t.Run("works without history, broker and metrics", func(t *testing.T) {
		catalog := testCatalog(t, 0.42, 0.58)
		uc := usecase.NewScoreCustomer(
			catalog,
			service.NewRiskScorer(catalog.Profile.Currency),
			service.NewMetricsAggregator(catalog.Profile.Currency),
			nil, nil, nil,
			testLogger(),
		)

		resp, err := uc.Execute(context.Background(), dto.ScoreCustomerRequest{Profile: validProfile()})
		require.NoError(t, err)
		assert.InDelta(t, 0.42, resp.Assessment.ChurnProbability, 1e-12)
	})
}
