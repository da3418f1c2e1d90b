package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/pkg/events"
	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/application/usecase"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/artifact"
)

// --- Mock implementations ---

type fixedClassifier struct {
	proba       []float64
	numFeatures int
}

func (c fixedClassifier) NumFeatures() int { return c.numFeatures }
func (c fixedClassifier) Classes() []string {
	return []string{"Attrited Customer", "Existing Customer"}
}
func (c fixedClassifier) PredictProba(_ []float64) ([]float64, error) {
	return append([]float64(nil), c.proba...), nil
}
func (c fixedClassifier) Predict(_ []float64) (int, error) {
	if c.proba[0] >= c.proba[1] {
		return 0, nil
	}
	return 1, nil
}

type mockAssessmentRepository struct {
	saved          []*model.RiskAssessment
	saveFunc       func(ctx context.Context, a *model.RiskAssessment) error
	findByIDFunc   func(ctx context.Context, id uuid.UUID) (*model.RiskAssessment, error)
	listRecentFunc func(ctx context.Context, limit int) ([]*model.RiskAssessment, error)
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a *model.RiskAssessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RiskAssessment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAssessmentRepository) ListRecent(ctx context.Context, limit int) ([]*model.RiskAssessment, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	return nil, nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type observation struct {
	model string
	tier  string
	kind  string
	p     float64
}

type recordingObserver struct {
	scores   []observation
	failures []observation
}

func (o *recordingObserver) ObserveScore(_ context.Context, modelName, tier string, p float64, _ time.Duration) {
	o.scores = append(o.scores, observation{model: modelName, tier: tier, p: p})
}

func (o *recordingObserver) ObserveFailure(_ context.Context, modelName, kind string) {
	o.failures = append(o.failures, observation{model: modelName, kind: kind})
}

// --- Fixtures ---

var numericColumns = []string{
	model.ColCustomerAge, model.ColDependentCount, model.ColMonthsOnBook,
	model.ColTotalRelationshipCount, model.ColMonthsInactive, model.ColContactsCount,
	model.ColCreditLimit, model.ColTotalRevolvingBal, model.ColAvgOpenToBuy,
	model.ColTotalAmtChngQ4Q1, model.ColTotalTransAmt, model.ColTotalTransCt,
	model.ColTotalCtChngQ4Q1, model.ColAvgUtilizationRatio,
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEncoder(t *testing.T) *service.FeatureEncoder {
	t.Helper()
	zeros := make([]float64, len(numericColumns))
	ones := make([]float64, len(numericColumns))
	for i := range ones {
		ones[i] = 1
	}
	scaler, err := artifact.NewStandardScaler("2024.03", numericColumns, zeros, ones)
	require.NoError(t, err)

	encoder, err := artifact.NewOneHotEncoder("2024.03",
		[]string{model.ColGender, model.ColEducationLevel, model.ColMaritalStatus, model.ColIncomeCategory, model.ColCardCategory},
		[][]string{
			{"F", "M"},
			{"College", "Doctorate", "Graduate", "High School", "Post-Graduate", "Uneducated", "Unknown"},
			{"Divorced", "Married", "Single", "Unknown"},
			{"$120K +", "$40K - $60K", "$60K - $80K", "$80K - $120K", "Less than $40K", "Unknown"},
			{"Blue", "Gold", "Platinum", "Silver"},
		},
		artifact.HandleUnknownError,
	)
	require.NoError(t, err)

	fe, err := service.NewFeatureEncoder(scaler, encoder)
	require.NoError(t, err)
	return fe
}

func testReport(t *testing.T) *model.BusinessReport {
	t.Helper()
	report, err := model.NewBusinessReport(model.BusinessReportParams{
		TotalCustomers:       10127,
		ChurnRate:            decimal.RequireFromString("0.1607"),
		HighRiskCustomers:    1520,
		MediumRiskCustomers:  1210,
		LowRiskCustomers:     7397,
		TotalPotentialLoss:   decimal.RequireFromString("8420331.55"),
		PotentialRevenueLoss: decimal.RequireFromString("5421330.10"),
		PotentialCreditLoss:  decimal.RequireFromString("2999001.45"),
		HighValueAtRisk:      310,
		AvgRiskScore:         decimal.RequireFromString("0.2"),
		AvgTransactionValue:  decimal.RequireFromString("4404.09"),
	})
	require.NoError(t, err)
	return report
}

// testCatalog registers "Gradient Boosting" scoring proba and "XGBoost" scoring
// a fixed low-risk distribution.
func testCatalog(t *testing.T, proba ...float64) usecase.Catalog {
	t.Helper()
	fe := testEncoder(t)

	registry, err := service.NewModelRegistry(
		service.ScoredModel{Name: "Gradient Boosting", Classifier: fixedClassifier{proba: proba, numFeatures: fe.Width()}},
		service.ScoredModel{Name: "XGBoost", Classifier: fixedClassifier{proba: []float64{0.1, 0.9}, numFeatures: fe.Width()}},
	)
	require.NoError(t, err)

	return usecase.Catalog{
		Profile: model.DashboardProfile{
			Name:            "test",
			Locale:          "en-US",
			Currency:        money.USD,
			AvailableModels: []string{"Gradient Boosting", "XGBoost"},
			DefaultModel:    "Gradient Boosting",
		},
		Encoder:   fe,
		Registry:  registry,
		Report:    testReport(t),
		BestModel: model.BestModelInfo{Name: "Gradient Boosting"},
		Performance: map[string]model.ModelPerformance{
			"Gradient Boosting": {
				Accuracy:       decimal.RequireFromString("0.9684"),
				F1Macro:        decimal.RequireFromString("0.9412"),
				RecallChurn:    decimal.RequireFromString("0.8862"),
				PrecisionChurn: decimal.RequireFromString("0.9123"),
				ROCAUC:         decimal.RequireFromString("0.9914"),
			},
		},
	}
}

func validProfile() dto.CustomerProfile {
	return dto.CustomerProfile{
		CustomerAge:            dto.Int(45),
		Gender:                 "M",
		DependentCount:         dto.Int(1),
		EducationLevel:         "Graduate",
		MaritalStatus:          "Married",
		IncomeCategory:         "$60K - $80K",
		CardCategory:           "Blue",
		MonthsOnBook:           dto.Int(36),
		TotalRelationshipCount: dto.Int(3),
		MonthsInactive:         dto.Int(2),
		ContactsCount:          dto.Int(2),
		CreditLimit:            dto.Float(5000),
		TotalRevolvingBal:      dto.Float(500),
		TotalTransAmt:          dto.Float(5000),
		TotalTransCt:           dto.Int(50),
		AvgUtilizationRatio:    dto.Float(0.3),
	}
}
