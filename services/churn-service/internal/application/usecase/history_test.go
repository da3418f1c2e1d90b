package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/pkg/testutil"
	"github.com/bibbank/bib/services/churn-service/internal/application/usecase"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/valueobject"
)

func storedAssessment(id uuid.UUID, p float64) *model.RiskAssessment {
	return model.Reconstruct(
		id, "XGBoost", p, "Attrited Customer",
		valueobject.RiskTierFromProbability(p),
		money.New(decimal.NewFromInt(14400), money.USD),
		testutil.TestScoredAt,
	)
}

func TestGetAssessment_Execute(t *testing.T) {
	t.Run("returns the stored assessment", func(t *testing.T) {
		repo := &mockAssessmentRepository{
			findByIDFunc: func(_ context.Context, id uuid.UUID) (*model.RiskAssessment, error) {
				return storedAssessment(id, 0.91), nil
			},
		}

		resp, err := usecase.NewGetAssessment(repo).Execute(context.Background(), testutil.TestAssessmentID1)
		require.NoError(t, err)
		assert.Equal(t, testutil.TestAssessmentID1, resp.ID)
		assert.Equal(t, "HIGH", resp.RiskTier)
		assert.Equal(t, "14400.00", resp.AnnualizedValue)
		assert.Equal(t, testutil.TestScoredAt, resp.ScoredAt)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := usecase.NewGetAssessment(&mockAssessmentRepository{}).Execute(context.Background(), testutil.TestAssessmentID2)
		assert.ErrorIs(t, err, usecase.ErrAssessmentNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := &mockAssessmentRepository{
			findByIDFunc: func(context.Context, uuid.UUID) (*model.RiskAssessment, error) {
				return nil, errors.New("connection reset")
			},
		}
		_, err := usecase.NewGetAssessment(repo).Execute(context.Background(), testutil.TestAssessmentID1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, usecase.ErrAssessmentNotFound)
	})

	t.Run("history disabled", func(t *testing.T) {
		_, err := usecase.NewGetAssessment(nil).Execute(context.Background(), testutil.TestAssessmentID1)
		assert.ErrorIs(t, err, usecase.ErrHistoryDisabled)
	})
}

func TestListRecentAssessments_Execute(t *testing.T) {
	t.Run("applies the default limit", func(t *testing.T) {
		var gotLimit int
		repo := &mockAssessmentRepository{
			listRecentFunc: func(_ context.Context, limit int) ([]*model.RiskAssessment, error) {
				gotLimit = limit
				return []*model.RiskAssessment{
					storedAssessment(testutil.TestAssessmentID1, 0.91),
					storedAssessment(testutil.TestAssessmentID2, 0.12),
				}, nil
			},
		}

		resp, err := usecase.NewListRecentAssessments(repo).Execute(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, usecase.DefaultListLimit, gotLimit)
		require.Len(t, resp.Assessments, 2)
		assert.Equal(t, "LOW", resp.Assessments[1].RiskTier)
	})

	t.Run("empty history is an empty list", func(t *testing.T) {
		resp, err := usecase.NewListRecentAssessments(&mockAssessmentRepository{}).Execute(context.Background(), 10)
		require.NoError(t, err)
		assert.NotNil(t, resp.Assessments)
		assert.Empty(t, resp.Assessments)
	})

	t.Run("history disabled", func(t *testing.T) {
		_, err := usecase.NewListRecentAssessments(nil).Execute(context.Background(), 10)
		assert.ErrorIs(t, err, usecase.ErrHistoryDisabled)
	})
}
