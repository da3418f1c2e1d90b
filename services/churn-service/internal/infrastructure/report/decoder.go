// Package report decodes the population report and model evaluation documents
// produced by the offline analysis.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
)

// Decimal fields keep the exact digits written by the analysis job.
type businessMetrics struct {
	ChurnRate            decimal.Decimal `json:"churn_rate"`
	TotalPotentialLoss   decimal.Decimal `json:"total_potential_loss"`
	PotentialRevenueLoss decimal.Decimal `json:"potential_revenue_loss"`
	PotentialCreditLoss  decimal.Decimal `json:"potential_credit_loss"`
	AvgRiskScore         decimal.Decimal `json:"avg_risk_score"`
	AvgTransactionValue  decimal.Decimal `json:"avg_transaction_value"`
	TotalCustomers       *int64          `json:"total_customers"`
	HighRiskCustomers    int64           `json:"high_risk_customers"`
	MediumRiskCustomers  int64           `json:"medium_risk_customers"`
	LowRiskCustomers     int64           `json:"low_risk_customers"`
	HighValueAtRisk      int64           `json:"high_value_at_risk"`
}

type performanceDocument struct {
	Accuracy       decimal.Decimal `json:"accuracy"`
	F1Macro        decimal.Decimal `json:"f1_macro"`
	RecallChurn    decimal.Decimal `json:"recall_churn"`
	PrecisionChurn decimal.Decimal `json:"precision_churn"`
	ROCAUC         decimal.Decimal `json:"roc_auc"`
}

func (d performanceDocument) toModel() model.ModelPerformance {
	return model.ModelPerformance{
		Accuracy:       d.Accuracy,
		F1Macro:        d.F1Macro,
		RecallChurn:    d.RecallChurn,
		PrecisionChurn: d.PrecisionChurn,
		ROCAUC:         d.ROCAUC,
	}
}

type reportDocument struct {
	BusinessMetrics  *businessMetrics     `json:"business_metrics"`
	ModelPerformance *performanceDocument `json:"model_performance"`
	BusinessInsights json.RawMessage      `json:"business_insights"`
}

type bestModelDocument struct {
	ModelName        string               `json:"model_name"`
	BestModelName    string               `json:"best_model_name"`
	ModelPerformance *performanceDocument `json:"model_performance"`
}

// DecodeBusinessReport decodes the business report document.
func DecodeBusinessReport(data []byte) (*model.BusinessReport, error) {
	var doc reportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode business report: %w", err)
	}
	if doc.BusinessMetrics == nil {
		return nil, fmt.Errorf("business report has no business_metrics section")
	}
	m := doc.BusinessMetrics
	if m.TotalCustomers == nil {
		return nil, fmt.Errorf("business report has no total_customers")
	}

	insights, err := decodeInsights(doc.BusinessInsights)
	if err != nil {
		return nil, err
	}

	params := model.BusinessReportParams{
		TotalCustomers:       *m.TotalCustomers,
		ChurnRate:            m.ChurnRate,
		HighRiskCustomers:    m.HighRiskCustomers,
		MediumRiskCustomers:  m.MediumRiskCustomers,
		LowRiskCustomers:     m.LowRiskCustomers,
		TotalPotentialLoss:   m.TotalPotentialLoss,
		PotentialRevenueLoss: m.PotentialRevenueLoss,
		PotentialCreditLoss:  m.PotentialCreditLoss,
		HighValueAtRisk:      m.HighValueAtRisk,
		AvgRiskScore:         m.AvgRiskScore,
		AvgTransactionValue:  m.AvgTransactionValue,
		Insights:             insights,
	}
	if doc.ModelPerformance != nil {
		params.Performance = doc.ModelPerformance.toModel()
	}

	r, err := model.NewBusinessReport(params)
	if err != nil {
		return nil, fmt.Errorf("invalid business report: %w", err)
	}
	return r, nil
}

// decodeInsights accepts either a list of strings or an object of named
// findings. Object entries are rendered as "key: value" in key order.
func decodeInsights(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var named map[string]any
	if err := json.Unmarshal(raw, &named); err != nil {
		return nil, fmt.Errorf("business_insights must be a list or an object: %w", err)
	}
	keys := make([]string, 0, len(named))
	for k := range named {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	insights := make([]string, 0, len(keys))
	for _, k := range keys {
		insights = append(insights, fmt.Sprintf("%s: %v", humanize(k), named[k]))
	}
	return insights, nil
}

func humanize(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// DecodeBestModel decodes the best-model document. The model name may be given
// as model_name or best_model_name.
func DecodeBestModel(data []byte) (model.BestModelInfo, error) {
	var doc bestModelDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.BestModelInfo{}, fmt.Errorf("failed to decode best model info: %w", err)
	}
	name := doc.ModelName
	if name == "" {
		name = doc.BestModelName
	}
	if name == "" {
		return model.BestModelInfo{}, fmt.Errorf("best model info has no model name")
	}

	info := model.BestModelInfo{Name: name}
	if doc.ModelPerformance != nil {
		info.Performance = doc.ModelPerformance.toModel()
	}
	return info, nil
}

// DecodePerformance decodes a per-model evaluation document.
func DecodePerformance(data []byte) (model.ModelPerformance, error) {
	var doc performanceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.ModelPerformance{}, fmt.Errorf("failed to decode model performance: %w", err)
	}
	return doc.toModel(), nil
}
