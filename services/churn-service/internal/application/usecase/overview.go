package usecase

import (
	"context"

	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
)

// GetBusinessOverview is the use case for the population-level dashboard.
type GetBusinessOverview struct {
	aggregator *service.MetricsAggregator
	catalog    Catalog
}

// NewGetBusinessOverview creates a new GetBusinessOverview use case.
func NewGetBusinessOverview(catalog Catalog, aggregator *service.MetricsAggregator) *GetBusinessOverview {
	return &GetBusinessOverview{catalog: catalog, aggregator: aggregator}
}

// Execute returns the population figures. Tiers are collapsed when the
// profile asks for it.
func (uc *GetBusinessOverview) Execute(_ context.Context, roles []string) (dto.OverviewResponse, error) {
	if !uc.catalog.Profile.CanCompare(roles) {
		return dto.OverviewResponse{}, ErrForbidden
	}
	figures := uc.aggregator.Overview(uc.catalog.Report, uc.catalog.Profile.CollapseTiers)
	return dto.FromPopulation(figures), nil
}
