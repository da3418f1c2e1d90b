package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
	"github.com/bibbank/bib/services/churn-service/internal/domain/valueobject"
)

// ScoreCustomerRequest is the input DTO for the ScoreCustomer use case.
type ScoreCustomerRequest struct {
	ModelName   string          `json:"model_name"`
	RequestedBy string          `json:"-"`
	Roles       []string        `json:"-"`
	Profile     CustomerProfile `json:"profile"`
}

// AssessmentResponse is the output DTO for one risk assessment.
type AssessmentResponse struct {
	ScoredAt         time.Time `json:"scored_at"`
	ModelName        string    `json:"model_name"`
	PredictedClass   string    `json:"predicted_class"`
	RiskTier         string    `json:"risk_tier"`
	RiskTierLabel    string    `json:"risk_tier_label"`
	AnnualizedValue  string    `json:"annualized_value"`
	Currency         string    `json:"currency"`
	ChurnProbability float64   `json:"churn_probability"`
	ID               uuid.UUID `json:"id"`
}

// FromModel maps a domain assessment to the response DTO.
func FromModel(a *model.RiskAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:               a.ID(),
		ModelName:        a.ModelName(),
		ChurnProbability: a.ChurnProbability(),
		PredictedClass:   a.PredictedClass(),
		RiskTier:         a.Tier().String(),
		RiskTierLabel:    a.Tier().Label(),
		AnnualizedValue:  a.AnnualizedValue().Amount().StringFixed(2),
		Currency:         a.AnnualizedValue().Currency().Code(),
		ScoredAt:         a.ScoredAt(),
	}
}

// TierBucketResponse is one slice of the population tier breakdown.
type TierBucketResponse struct {
	Label string `json:"label"`
	Share string `json:"share"`
	Count int64  `json:"count"`
}

// OverviewResponse carries the population figures of the business report.
// Amounts are decimal strings in Currency.
type OverviewResponse struct {
	Currency               string               `json:"currency"`
	ChurnRate              string               `json:"churn_rate"`
	AvgRiskScore           string               `json:"avg_risk_score"`
	AvgTransactionValue    string               `json:"avg_transaction_value"`
	TotalTransactionVolume string               `json:"total_transaction_volume"`
	TotalPotentialLoss     string               `json:"total_potential_loss"`
	PotentialRevenueLoss   string               `json:"potential_revenue_loss"`
	PotentialCreditLoss    string               `json:"potential_credit_loss"`
	Tiers                  []TierBucketResponse `json:"tiers"`
	Recommendations        []string             `json:"recommendations"`
	Insights               []string             `json:"insights"`
	TotalCustomers         int64                `json:"total_customers"`
	HighValueAtRisk        int64                `json:"high_value_at_risk"`
}

// FromPopulation maps aggregated population figures to the response DTO.
func FromPopulation(p service.PopulationFigures) OverviewResponse {
	tiers := make([]TierBucketResponse, 0, len(p.Tiers))
	for _, b := range p.Tiers {
		tiers = append(tiers, TierBucketResponse{Label: b.Label, Count: b.Count, Share: b.Share.String()})
	}
	return OverviewResponse{
		Currency:               p.AvgTransactionValue.Currency().Code(),
		TotalCustomers:         p.TotalCustomers,
		ChurnRate:              p.ChurnRate.String(),
		AvgRiskScore:           p.AvgRiskScore.String(),
		HighValueAtRisk:        p.HighValueAtRisk,
		AvgTransactionValue:    p.AvgTransactionValue.Amount().StringFixed(2),
		TotalTransactionVolume: p.TotalTransactionVolume.Amount().StringFixed(2),
		TotalPotentialLoss:     p.TotalPotentialLoss.Amount().StringFixed(2),
		PotentialRevenueLoss:   p.PotentialRevenueLoss.Amount().StringFixed(2),
		PotentialCreditLoss:    p.PotentialCreditLoss.Amount().StringFixed(2),
		Tiers:                  tiers,
		Recommendations:        p.Recommendations,
		Insights:               p.Insights,
	}
}

// CustomerMetricsResponse carries the figures of one scored customer.
type CustomerMetricsResponse struct {
	ChurnProbability string `json:"churn_probability"`
	AnnualizedValue  string `json:"annualized_value"`
	ExpectedLoss     string `json:"expected_loss"`
	Currency         string `json:"currency"`
	RiskTier         string `json:"risk_tier"`
}

// ComparisonResponse relates one customer to the population averages.
type ComparisonResponse struct {
	ProbabilityDelta  string `json:"probability_delta"`
	ValueRatio        string `json:"value_ratio"`
	AboveAverageRisk  bool   `json:"above_average_risk"`
	AboveAverageValue bool   `json:"above_average_value"`
}

// RecommendationResponse is the retention playbook of a risk tier.
type RecommendationResponse struct {
	Headline string   `json:"headline"`
	Strategy string   `json:"strategy"`
	Actions  []string `json:"actions"`
}

// FromRecommendation maps a tier playbook to the response DTO.
func FromRecommendation(r valueobject.Recommendation) RecommendationResponse {
	return RecommendationResponse{Headline: r.Headline, Strategy: r.Strategy, Actions: r.Actions}
}

// ScoreCustomerResponse is the output DTO of the ScoreCustomer use case.
// Population and Comparison are omitted for callers the profile does not
// allow to compare against the population.
type ScoreCustomerResponse struct {
	Population     *OverviewResponse       `json:"population,omitempty"`
	Comparison     *ComparisonResponse     `json:"comparison,omitempty"`
	Recommendation RecommendationResponse  `json:"recommendation"`
	Customer       CustomerMetricsResponse `json:"customer"`
	Assessment     AssessmentResponse      `json:"assessment"`
}

// FromMetrics builds a ScoreCustomerResponse. withPopulation controls whether
// the population figures and the comparison are included.
func FromMetrics(a *model.RiskAssessment, m service.PresentationMetrics, withPopulation bool) ScoreCustomerResponse {
	resp := ScoreCustomerResponse{
		Assessment: FromModel(a),
		Customer: CustomerMetricsResponse{
			ChurnProbability: m.Customer.ChurnProbability.String(),
			AnnualizedValue:  m.Customer.AnnualizedValue.Amount().StringFixed(2),
			ExpectedLoss:     m.Customer.ExpectedLoss.Amount().StringFixed(2),
			Currency:         m.Customer.AnnualizedValue.Currency().Code(),
			RiskTier:         m.Customer.Tier.String(),
		},
		Recommendation: FromRecommendation(m.Recommendation),
	}
	if withPopulation {
		population := FromPopulation(m.Population)
		resp.Population = &population
		resp.Comparison = &ComparisonResponse{
			ProbabilityDelta:  m.Comparison.ProbabilityDelta.String(),
			ValueRatio:        m.Comparison.ValueRatio.String(),
			AboveAverageRisk:  m.Comparison.AboveAverageRisk,
			AboveAverageValue: m.Comparison.AboveAverageValue,
		}
	}
	return resp
}

// PerformanceResponse carries hold-out evaluation figures of a model.
type PerformanceResponse struct {
	Accuracy       string `json:"accuracy"`
	F1Macro        string `json:"f1_macro"`
	RecallChurn    string `json:"recall_churn"`
	PrecisionChurn string `json:"precision_churn"`
	ROCAUC         string `json:"roc_auc"`
}

// FromPerformance maps model performance figures to the response DTO.
func FromPerformance(p model.ModelPerformance) *PerformanceResponse {
	return &PerformanceResponse{
		Accuracy:       p.Accuracy.String(),
		F1Macro:        p.F1Macro.String(),
		RecallChurn:    p.RecallChurn.String(),
		PrecisionChurn: p.PrecisionChurn.String(),
		ROCAUC:         p.ROCAUC.String(),
	}
}

// ModelComparison is one row of the model comparison table.
type ModelComparison struct {
	Performance *PerformanceResponse `json:"performance,omitempty"`
	Name        string               `json:"name"`
	IsBest      bool                 `json:"is_best"`
	IsDefault   bool                 `json:"is_default"`
}

// CompareModelsResponse is the output DTO of the CompareModels use case.
type CompareModelsResponse struct {
	BestModel string            `json:"best_model"`
	Models    []ModelComparison `json:"models"`
}

// ListModelsResponse is the output DTO of the ListModels use case.
type ListModelsResponse struct {
	DefaultModel string   `json:"default_model"`
	BestModel    string   `json:"best_model"`
	Models       []string `json:"models"`
}

// ListAssessmentsResponse is the output DTO of the ListRecentAssessments use case.
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
}

// LoginRequest is the input DTO for the Login use case.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the output DTO of the Login use case.
type LoginResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
}

// ErrorResponse is the body of every failed REST request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
