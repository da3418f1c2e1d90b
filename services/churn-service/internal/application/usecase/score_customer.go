package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
)

var tracer = otel.Tracer("github.com/bibbank/bib/services/churn-service/internal/application/usecase")

// ScoreCustomer is the use case for assessing one customer's churn risk.
type ScoreCustomer struct {
	repo       port.AssessmentRepository
	publisher  port.EventPublisher
	observer   port.ScoringObserver
	scorer     *service.RiskScorer
	aggregator *service.MetricsAggregator
	logger     *slog.Logger
	catalog    Catalog
}

// NewScoreCustomer creates a new ScoreCustomer use case. repo, publisher and
// observer may be nil: history, event publishing and metrics are then skipped.
func NewScoreCustomer(
	catalog Catalog,
	scorer *service.RiskScorer,
	aggregator *service.MetricsAggregator,
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	observer port.ScoringObserver,
	logger *slog.Logger,
) *ScoreCustomer {
	return &ScoreCustomer{
		catalog:    catalog,
		scorer:     scorer,
		aggregator: aggregator,
		repo:       repo,
		publisher:  publisher,
		observer:   observer,
		logger:     logger,
	}
}

// Execute encodes the profile, scores it with the selected model, aggregates
// the presentation figures, then persists the assessment and publishes its events.
func (uc *ScoreCustomer) Execute(ctx context.Context, req dto.ScoreCustomerRequest) (dto.ScoreCustomerResponse, error) {
	profile := uc.catalog.Profile
	modelName := profile.ModelOrDefault(req.ModelName)

	ctx, span := tracer.Start(ctx, "ScoreCustomer", trace.WithAttributes(
		attribute.String("churn.model", modelName),
		attribute.String("churn.requested_by", req.RequestedBy),
	))
	defer span.End()

	start := time.Now()
	resp, err := uc.score(ctx, modelName, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if uc.observer != nil {
			uc.observer.ObserveFailure(ctx, modelName, failureKind(err))
		}
		return dto.ScoreCustomerResponse{}, err
	}

	span.SetAttributes(
		attribute.String("churn.tier", resp.Assessment.RiskTier),
		attribute.Float64("churn.probability", resp.Assessment.ChurnProbability),
	)
	if uc.observer != nil {
		uc.observer.ObserveScore(ctx, modelName, resp.Assessment.RiskTier, resp.Assessment.ChurnProbability, time.Since(start))
	}
	return resp, nil
}

func (uc *ScoreCustomer) score(ctx context.Context, modelName string, req dto.ScoreCustomerRequest) (dto.ScoreCustomerResponse, error) {
	profile := uc.catalog.Profile

	// 1. Only models offered by the profile may be selected.
	if !profile.IsAvailable(modelName) {
		return dto.ScoreCustomerResponse{}, &service.UnknownModelError{Name: modelName, Available: profile.AvailableModels}
	}

	// 2. Validate the form and build the record with model labels.
	if err := req.Profile.Validate(); err != nil {
		return dto.ScoreCustomerResponse{}, err
	}
	record, err := req.Profile.ToRecord(profile.Labels)
	if err != nil {
		return dto.ScoreCustomerResponse{}, &service.EncodingError{Reason: "invalid customer record", Err: err}
	}

	// 3. Encode, resolve and score.
	vector, err := uc.catalog.Encoder.Encode(record)
	if err != nil {
		return dto.ScoreCustomerResponse{}, err
	}
	scoredModel, err := uc.catalog.Registry.Resolve(modelName)
	if err != nil {
		return dto.ScoreCustomerResponse{}, err
	}
	assessment, err := uc.scorer.Score(vector, scoredModel, record)
	if err != nil {
		uc.logger.ErrorContext(ctx, "model produced malformed output",
			slog.String("model", modelName),
			slog.String("error", err.Error()),
		)
		return dto.ScoreCustomerResponse{}, err
	}

	// 4. Aggregate against the population report.
	metrics := uc.aggregator.Aggregate(uc.catalog.Report, assessment)

	// 5. Persist the assessment.
	if uc.repo != nil {
		if err := uc.repo.Save(ctx, assessment); err != nil {
			return dto.ScoreCustomerResponse{}, fmt.Errorf("failed to save assessment: %w", err)
		}
	}

	// 6. Publish domain events. The assessment stands even when the broker is down.
	events := assessment.DomainEvents()
	if uc.publisher != nil && len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			uc.logger.WarnContext(ctx, "failed to publish assessment events",
				slog.String("assessment_id", assessment.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	uc.logger.InfoContext(ctx, "customer scored",
		slog.String("assessment_id", assessment.ID().String()),
		slog.String("model", modelName),
		slog.String("tier", assessment.Tier().String()),
		slog.String("requested_by", req.RequestedBy),
	)

	return dto.FromMetrics(assessment, metrics, profile.CanCompare(req.Roles)), nil
}

func failureKind(err error) string {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		return "validation"
	}
	return service.FailureKind(err)
}
