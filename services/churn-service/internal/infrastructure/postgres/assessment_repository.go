package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/pkg/postgres"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/valueobject"
)

// MaxListLimit caps ListRecent.
const MaxListLimit = 500

const selectAssessment = `
	SELECT id, model_name, churn_probability, predicted_class,
		risk_tier, annualized_value, currency, scored_at
	FROM churn_assessments
`

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	db postgres.Querier
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(db postgres.Querier) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Save persists a risk assessment. Assessments are immutable, so saving the
// same one twice is a no-op.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *model.RiskAssessment) error {
	query := `
		INSERT INTO churn_assessments (
			id, model_name, churn_probability, predicted_class,
			risk_tier, annualized_value, currency, scored_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	value := assessment.AnnualizedValue()
	_, err := r.db.Exec(ctx, query,
		assessment.ID(),
		assessment.ModelName(),
		assessment.ChurnProbability(),
		assessment.PredictedClass(),
		assessment.Tier().String(),
		value.Amount(),
		value.Currency().Code(),
		assessment.ScoredAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// FindByID retrieves an assessment by its unique identifier. It returns
// (nil, nil) when none exists.
func (r *AssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RiskAssessment, error) {
	assessment, err := scanAssessment(r.db.QueryRow(ctx, selectAssessment+`WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return assessment, nil
}

// ListRecent returns up to limit assessments, newest first.
func (r *AssessmentRepository) ListRecent(ctx context.Context, limit int) ([]*model.RiskAssessment, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := r.db.Query(ctx, selectAssessment+`ORDER BY scored_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*model.RiskAssessment
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}

func scanAssessment(row pgx.Row) (*model.RiskAssessment, error) {
	var (
		id             uuid.UUID
		modelName      string
		probability    float64
		predictedClass string
		tierStr        string
		amount         decimal.Decimal
		currencyCode   string
		scoredAt       time.Time
	)

	err := row.Scan(
		&id, &modelName, &probability, &predictedClass,
		&tierStr, &amount, &currencyCode, &scoredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	tier, err := valueobject.RiskTierFromString(tierStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk tier: %w", err)
	}
	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse currency: %w", err)
	}

	return model.Reconstruct(
		id, modelName, probability, predictedClass,
		tier, money.New(amount, currency), scoredAt.UTC(),
	), nil
}
