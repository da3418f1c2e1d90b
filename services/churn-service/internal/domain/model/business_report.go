package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ModelPerformance holds hold-out evaluation figures of a trained classifier.
type ModelPerformance struct {
	Accuracy       decimal.Decimal
	F1Macro        decimal.Decimal
	RecallChurn    decimal.Decimal
	PrecisionChurn decimal.Decimal
	ROCAUC         decimal.Decimal
}

// IsZero reports whether no figure was supplied.
func (p ModelPerformance) IsZero() bool {
	return p.Accuracy.IsZero() && p.F1Macro.IsZero() && p.RecallChurn.IsZero() &&
		p.PrecisionChurn.IsZero() && p.ROCAUC.IsZero()
}

func (p ModelPerformance) validate() error {
	for name, v := range map[string]decimal.Decimal{
		"accuracy":        p.Accuracy,
		"f1_macro":        p.F1Macro,
		"recall_churn":    p.RecallChurn,
		"precision_churn": p.PrecisionChurn,
		"roc_auc":         p.ROCAUC,
	} {
		if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("model performance %s must be within [0, 1], got %s", name, v)
		}
	}
	return nil
}

// BestModelInfo names the model recommended by offline evaluation.
type BestModelInfo struct {
	Name        string
	Performance ModelPerformance
}

// BusinessReportParams carries the raw figures of a population report.
type BusinessReportParams struct {
	ChurnRate            decimal.Decimal
	TotalPotentialLoss   decimal.Decimal
	PotentialRevenueLoss decimal.Decimal
	PotentialCreditLoss  decimal.Decimal
	AvgRiskScore         decimal.Decimal
	AvgTransactionValue  decimal.Decimal
	Performance          ModelPerformance
	Insights             []string
	TotalCustomers       int64
	HighRiskCustomers    int64
	MediumRiskCustomers  int64
	LowRiskCustomers     int64
	HighValueAtRisk      int64
}

// BusinessReport is the precomputed population-level summary produced by
// offline analysis. It is read-only for the process lifetime.
type BusinessReport struct {
	p BusinessReportParams
}

// NewBusinessReport validates the figures and freezes them into a report.
func NewBusinessReport(p BusinessReportParams) (*BusinessReport, error) {
	if p.TotalCustomers < 0 || p.HighRiskCustomers < 0 || p.MediumRiskCustomers < 0 ||
		p.LowRiskCustomers < 0 || p.HighValueAtRisk < 0 {
		return nil, fmt.Errorf("customer counts must be non-negative")
	}
	if tiers := p.HighRiskCustomers + p.MediumRiskCustomers + p.LowRiskCustomers; tiers > p.TotalCustomers {
		return nil, fmt.Errorf("tier counts (%d) exceed total customers (%d)", tiers, p.TotalCustomers)
	}
	if p.HighValueAtRisk > p.TotalCustomers {
		return nil, fmt.Errorf("high value at risk (%d) exceeds total customers (%d)", p.HighValueAtRisk, p.TotalCustomers)
	}
	one := decimal.NewFromInt(1)
	if p.ChurnRate.IsNegative() || p.ChurnRate.GreaterThan(one) {
		return nil, fmt.Errorf("churn rate must be within [0, 1], got %s", p.ChurnRate)
	}
	if p.AvgRiskScore.IsNegative() || p.AvgRiskScore.GreaterThan(one) {
		return nil, fmt.Errorf("average risk score must be within [0, 1], got %s", p.AvgRiskScore)
	}
	for name, v := range map[string]decimal.Decimal{
		"total_potential_loss":   p.TotalPotentialLoss,
		"potential_revenue_loss": p.PotentialRevenueLoss,
		"potential_credit_loss":  p.PotentialCreditLoss,
		"avg_transaction_value":  p.AvgTransactionValue,
	} {
		if v.IsNegative() {
			return nil, fmt.Errorf("%s must be non-negative, got %s", name, v)
		}
	}
	if err := p.Performance.validate(); err != nil {
		return nil, err
	}

	p.Insights = append([]string(nil), p.Insights...)
	return &BusinessReport{p: p}, nil
}

func (r *BusinessReport) TotalCustomers() int64 {
	return r.p.TotalCustomers
}

func (r *BusinessReport) ChurnRate() decimal.Decimal {
	return r.p.ChurnRate
}

func (r *BusinessReport) HighRiskCustomers() int64 {
	return r.p.HighRiskCustomers
}

func (r *BusinessReport) MediumRiskCustomers() int64 {
	return r.p.MediumRiskCustomers
}

func (r *BusinessReport) LowRiskCustomers() int64 {
	return r.p.LowRiskCustomers
}

func (r *BusinessReport) TotalPotentialLoss() decimal.Decimal {
	return r.p.TotalPotentialLoss
}

func (r *BusinessReport) PotentialRevenueLoss() decimal.Decimal {
	return r.p.PotentialRevenueLoss
}

func (r *BusinessReport) PotentialCreditLoss() decimal.Decimal {
	return r.p.PotentialCreditLoss
}

func (r *BusinessReport) HighValueAtRisk() int64 {
	return r.p.HighValueAtRisk
}

func (r *BusinessReport) AvgRiskScore() decimal.Decimal {
	return r.p.AvgRiskScore
}

func (r *BusinessReport) AvgTransactionValue() decimal.Decimal {
	return r.p.AvgTransactionValue
}

func (r *BusinessReport) Performance() ModelPerformance {
	return r.p.Performance
}


// Insights returns a copy of the report's free-text findings.
func (r *BusinessReport) Insights() []string {
	return append([]string(nil), r.p.Insights...)
}
