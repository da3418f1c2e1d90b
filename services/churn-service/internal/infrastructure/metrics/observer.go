// Package metrics records scoring outcomes as OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// probabilityBuckets line up with the risk tier thresholds.
var probabilityBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}

// ScoringObserver implements port.ScoringObserver.
type ScoringObserver struct {
	requests    metric.Int64Counter
	failures    metric.Int64Counter
	probability metric.Float64Histogram
	duration    metric.Float64Histogram
}

// NewScoringObserver creates the scoring instruments on meter.
func NewScoringObserver(meter metric.Meter) (*ScoringObserver, error) {
	requests, err := meter.Int64Counter("scoring_requests",
		metric.WithDescription("Customers scored, by model and risk tier."))
	if err != nil {
		return nil, fmt.Errorf("create scoring_requests counter: %w", err)
	}

	failures, err := meter.Int64Counter("scoring_failures",
		metric.WithDescription("Scoring requests that failed, by model and failure kind."))
	if err != nil {
		return nil, fmt.Errorf("create scoring_failures counter: %w", err)
	}

	probability, err := meter.Float64Histogram("churn_probability",
		metric.WithDescription("Distribution of predicted churn probabilities."),
		metric.WithExplicitBucketBoundaries(probabilityBuckets...))
	if err != nil {
		return nil, fmt.Errorf("create churn_probability histogram: %w", err)
	}

	duration, err := meter.Float64Histogram("scoring_duration",
		metric.WithDescription("Time spent encoding and scoring one customer."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create scoring_duration histogram: %w", err)
	}

	return &ScoringObserver{
		requests:    requests,
		failures:    failures,
		probability: probability,
		duration:    duration,
	}, nil
}

// ObserveScore records one successful assessment.
func (o *ScoringObserver) ObserveScore(ctx context.Context, modelName, tier string, probability float64, elapsed time.Duration) {
	modelAttr := attribute.String("model", modelName)
	o.requests.Add(ctx, 1, metric.WithAttributes(modelAttr, attribute.String("tier", tier)))
	o.probability.Record(ctx, probability, metric.WithAttributes(modelAttr))
	o.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(modelAttr))
}

// ObserveFailure records one failed scoring request.
func (o *ScoringObserver) ObserveFailure(ctx context.Context, modelName, kind string) {
	o.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", modelName),
		attribute.String("kind", kind),
	))
}
