package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/bib/pkg/events"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
)

// AssessmentRepository persists produced risk assessments.
// FindByID returns (nil, nil) when no assessment has the given ID.
type AssessmentRepository interface {
	Save(ctx context.Context, assessment *model.RiskAssessment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RiskAssessment, error)
	ListRecent(ctx context.Context, limit int) ([]*model.RiskAssessment, error)
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// ErrInvalidCredentials is returned by Authenticator for any unknown user or
// wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies dashboard user credentials against an external store.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (model.Principal, error)
}

// ScoringObserver records scoring outcomes for monitoring.
type ScoringObserver interface {
	ObserveScore(ctx context.Context, modelName, tier string, probability float64, elapsed time.Duration)
	ObserveFailure(ctx context.Context, modelName, kind string)
}
