package usecase

import (
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
)

// Catalog is the read-only state loaded at startup and shared by every use
// case: the active dashboard profile plus the artifact bundle.
type Catalog struct {
	Performance map[string]model.ModelPerformance
	Encoder     *service.FeatureEncoder
	Registry    *service.ModelRegistry
	Report      *model.BusinessReport
	BestModel   model.BestModelInfo
	Profile     model.DashboardProfile
}

// Set groups the use cases served by the transports.
type Set struct {
	ScoreCustomer         *ScoreCustomer
	GetBusinessOverview   *GetBusinessOverview
	CompareModels         *CompareModels
	ListModels            *ListModels
	GetAssessment         *GetAssessment
	ListRecentAssessments *ListRecentAssessments
	Login                 *Login
}
