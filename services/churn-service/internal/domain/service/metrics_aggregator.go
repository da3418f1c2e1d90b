package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/valueobject"
)

// TierBucket is one slice of the population risk breakdown.
type TierBucket struct {
	Label string
	Count int64
	Share decimal.Decimal
}

// PopulationFigures are the presentable population-level numbers of a report.
type PopulationFigures struct {
	ChurnRate              decimal.Decimal
	AvgRiskScore           decimal.Decimal
	AvgTransactionValue    money.Money
	TotalTransactionVolume money.Money
	TotalPotentialLoss     money.Money
	PotentialRevenueLoss   money.Money
	PotentialCreditLoss    money.Money
	Tiers                  []TierBucket
	Recommendations        []string
	Insights               []string
	TotalCustomers         int64
	HighValueAtRisk        int64
}

// CustomerFigures are the presentable numbers of one assessment.
type CustomerFigures struct {
	ChurnProbability decimal.Decimal
	AnnualizedValue  money.Money
	ExpectedLoss     money.Money
	Tier             valueobject.RiskTier
}

// Comparison relates one customer to the population averages.
type Comparison struct {
	ProbabilityDelta  decimal.Decimal
	ValueRatio        decimal.Decimal
	AboveAverageRisk  bool
	AboveAverageValue bool
}

// PresentationMetrics is everything a dashboard shows for one scored customer.
type PresentationMetrics struct {
	Population     PopulationFigures
	Customer       CustomerFigures
	Comparison     Comparison
	Recommendation valueobject.Recommendation
}

// MetricsAggregator combines the shared population report with one assessment.
// It performs no inference and never mutates the report.
type MetricsAggregator struct {
	currency money.Currency
}

// NewMetricsAggregator creates an aggregator stating amounts in currency.
func NewMetricsAggregator(currency money.Currency) *MetricsAggregator {
	return &MetricsAggregator{currency: currency}
}

// Aggregate produces the presentation figures for assessment against report.
func (a *MetricsAggregator) Aggregate(report *model.BusinessReport, assessment *model.RiskAssessment) PresentationMetrics {
	population := a.Overview(report, false)

	p := decimal.NewFromFloat(assessment.ChurnProbability())
	annualized := assessment.AnnualizedValue()

	customer := CustomerFigures{
		ChurnProbability: p.Round(4),
		AnnualizedValue:  annualized,
		ExpectedLoss:     annualized.Multiply(p).Round(2),
		Tier:             assessment.Tier(),
	}

	annualAverage := money.New(report.AvgTransactionValue().Mul(monthsPerYear), annualized.Currency())
	ratio, err := annualized.Ratio(annualAverage)
	if err != nil {
		ratio = decimal.Zero
	}

	comparison := Comparison{
		ProbabilityDelta:  p.Sub(report.AvgRiskScore()).Round(4),
		ValueRatio:        ratio.Round(4),
		AboveAverageRisk:  p.GreaterThan(report.AvgRiskScore()),
		AboveAverageValue: annualized.Amount().GreaterThan(annualAverage.Amount()),
	}

	return PresentationMetrics{
		Population:     population,
		Customer:       customer,
		Comparison:     comparison,
		Recommendation: valueobject.RecommendationFor(assessment.Tier()),
	}
}

// Overview produces the population figures of report. With collapseTiers the
// Medium and Low buckets are shown as a single Low bucket; the underlying
// three-tier classification is unaffected.
func (a *MetricsAggregator) Overview(report *model.BusinessReport, collapseTiers bool) PopulationFigures {
	avgTx := money.New(report.AvgTransactionValue(), a.currency)
	total := report.TotalCustomers()

	var tiers []TierBucket
	if collapseTiers {
		tiers = []TierBucket{
			bucket(valueobject.RiskTierHigh.Label(), report.HighRiskCustomers(), total),
			bucket(valueobject.RiskTierLow.Label(), report.MediumRiskCustomers()+report.LowRiskCustomers(), total),
		}
	} else {
		tiers = []TierBucket{
			bucket(valueobject.RiskTierHigh.Label(), report.HighRiskCustomers(), total),
			bucket(valueobject.RiskTierMedium.Label(), report.MediumRiskCustomers(), total),
			bucket(valueobject.RiskTierLow.Label(), report.LowRiskCustomers(), total),
		}
	}

	figures := PopulationFigures{
		TotalCustomers:         total,
		ChurnRate:              report.ChurnRate(),
		AvgRiskScore:           report.AvgRiskScore(),
		HighValueAtRisk:        report.HighValueAtRisk(),
		AvgTransactionValue:    avgTx,
		TotalTransactionVolume: avgTx.Multiply(decimal.NewFromInt(total)),
		TotalPotentialLoss:     money.New(report.TotalPotentialLoss(), a.currency),
		PotentialRevenueLoss:   money.New(report.PotentialRevenueLoss(), a.currency),
		PotentialCreditLoss:    money.New(report.PotentialCreditLoss(), a.currency),
		Tiers:                  tiers,
		Insights:               report.Insights(),
	}
	figures.Recommendations = populationRecommendations(report, figures.TotalPotentialLoss)

	return figures
}

func bucket(label string, count, total int64) TierBucket {
	share := decimal.Zero
	if total > 0 {
		share = decimal.NewFromInt(count).Div(decimal.NewFromInt(total)).Round(4)
	}
	return TierBucket{Label: label, Count: count, Share: share}
}

func populationRecommendations(report *model.BusinessReport, potentialLoss money.Money) []string {
	return []string{
		fmt.Sprintf("Focus on the %d high-risk customers", report.HighRiskCustomers()),
		fmt.Sprintf("Protect the %d high-value customers at risk of churning", report.HighValueAtRisk()),
		"Develop retention programmes for the medium-risk segment",
		fmt.Sprintf("Monitor customers whose risk score exceeds %s", report.AvgRiskScore().StringFixed(2)),
		fmt.Sprintf("Size the retention budget against potential losses of %s %s",
			potentialLoss.Amount().StringFixed(0), potentialLoss.Currency().Code()),
	}
}
