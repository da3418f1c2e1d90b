package usecase

import (
	"context"

	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
)

// ListModels is the use case for the model selector.
type ListModels struct {
	catalog Catalog
}

// NewListModels creates a new ListModels use case.
func NewListModels(catalog Catalog) *ListModels {
	return &ListModels{catalog: catalog}
}

// Execute returns the models the profile offers, in profile order.
func (uc *ListModels) Execute(_ context.Context) dto.ListModelsResponse {
	return dto.ListModelsResponse{
		Models:       append([]string(nil), uc.catalog.Profile.AvailableModels...),
		DefaultModel: uc.catalog.Profile.DefaultModel,
		BestModel:    uc.catalog.BestModel.Name,
	}
}

// CompareModels is the use case for the model comparison table.
type CompareModels struct {
	catalog Catalog
}

// NewCompareModels creates a new CompareModels use case.
func NewCompareModels(catalog Catalog) *CompareModels {
	return &CompareModels{catalog: catalog}
}

// Execute lists every available model with its evaluation figures when a
// performance report was shipped for it.
func (uc *CompareModels) Execute(_ context.Context) dto.CompareModelsResponse {
	profile := uc.catalog.Profile
	rows := make([]dto.ModelComparison, 0, len(profile.AvailableModels))
	for _, name := range profile.AvailableModels {
		row := dto.ModelComparison{
			Name:      name,
			IsBest:    name == uc.catalog.BestModel.Name,
			IsDefault: name == profile.DefaultModel,
		}
		if perf, ok := uc.catalog.Performance[name]; ok && !perf.IsZero() {
			row.Performance = dto.FromPerformance(perf)
		}
		rows = append(rows, row)
	}
	return dto.CompareModelsResponse{BestModel: uc.catalog.BestModel.Name, Models: rows}
}
