package grpc

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bibbank/bib/pkg/auth"
	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/application/usecase"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/config"
	"github.com/bibbank/bib/services/churn-service/internal/testfixture"
)

// --- Helpers ---

func requireGRPCCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %v", err)
	assert.Equal(t, want, st.Code(), st.Message())
}

func contextWithRoles(roles ...string) context.Context {
	return auth.ContextWithClaims(context.Background(), &auth.Claims{Username: "tester", Roles: roles})
}

func sampleProfile() *dto.CustomerProfile {
	return &dto.CustomerProfile{
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

func buildTestHandler(t *testing.T, profileFile string) (*ChurnServiceHandler, *auth.JWTService) {
	t.Helper()
	profile := config.DefaultProfile()
	if profileFile != "" {
		profile = testfixture.Profile(t, profileFile)
	}
	jwt := testfixture.JWT(t)
	useCases := testfixture.UseCases(t, testfixture.Catalog(t, profile), jwt, testfixture.Options{})
	return NewChurnServiceHandler(useCases, testfixture.Logger()), jwt
}

// --- Handler tests ---

func TestChurnServiceHandler_ScoreCustomer(t *testing.T) {
	h, _ := buildTestHandler(t, "")

	t.Run("scores with the default model", func(t *testing.T) {
		resp, err := h.ScoreCustomer(contextWithRoles(auth.RoleViewer), &ScoreCustomerRequest{Profile: sampleProfile()})
		require.NoError(t, err)

		a := resp.Result.Assessment
		assert.Equal(t, config.ModelGradientBoosting, a.ModelName)
		assert.GreaterOrEqual(t, a.ChurnProbability, 0.0)
		assert.LessOrEqual(t, a.ChurnProbability, 1.0)
		assert.Contains(t, []string{"LOW", "MEDIUM", "HIGH"}, a.RiskTier)
		assert.Equal(t, "60000.00", a.AnnualizedValue)
		assert.NotNil(t, resp.Result.Population)
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, err := h.ScoreCustomer(context.Background(), &ScoreCustomerRequest{Profile: sampleProfile()})
		requireGRPCCode(t, err, codes.Unauthenticated)
	})

	t.Run("requires a profile", func(t *testing.T) {
		_, err := h.ScoreCustomer(contextWithRoles(auth.RoleViewer), &ScoreCustomerRequest{})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("out-of-range profile", func(t *testing.T) {
		p := sampleProfile()
		p.TotalTransCt = dto.Int(500)
		_, err := h.ScoreCustomer(contextWithRoles(auth.RoleViewer), &ScoreCustomerRequest{Profile: p})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown category", func(t *testing.T) {
		p := sampleProfile()
		p.MaritalStatus = "Widowed"
		_, err := h.ScoreCustomer(contextWithRoles(auth.RoleViewer), &ScoreCustomerRequest{Profile: p})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := h.ScoreCustomer(contextWithRoles(auth.RoleViewer), &ScoreCustomerRequest{
			Profile:   sampleProfile(),
			ModelName: "Logistic Regression",
		})
		requireGRPCCode(t, err, codes.NotFound)
	})
}

func TestChurnServiceHandler_LocalizedProfile(t *testing.T) {
	h, _ := buildTestHandler(t, "profile.ru.yaml")

	p := sampleProfile()
	p.Gender = "Женский"
	p.EducationLevel = "Высшее"
	p.MaritalStatus = "Женат/Замужем"
	p.IncomeCategory = "Менее $40K"
	p.CardCategory = "Серебряная"

	resp, err := h.ScoreCustomer(contextWithRoles(auth.RoleViewer), &ScoreCustomerRequest{Profile: p})
	require.NoError(t, err)
	assert.Nil(t, resp.Result.Population, "viewers may not compare under this profile")

	_, err = h.GetBusinessOverview(contextWithRoles(auth.RoleViewer), &GetBusinessOverviewRequest{})
	requireGRPCCode(t, err, codes.PermissionDenied)

	overview, err := h.GetBusinessOverview(contextWithRoles(auth.RoleAnalyst), &GetBusinessOverviewRequest{})
	require.NoError(t, err)
	assert.Len(t, overview.Overview.Tiers, 2)
}

func TestChurnServiceHandler_Models(t *testing.T) {
	h, _ := buildTestHandler(t, "")

	models, err := h.ListModels(contextWithRoles(auth.RoleViewer), &ListModelsRequest{})
	require.NoError(t, err)
	assert.Equal(t, config.ModelGradientBoosting, models.Models.DefaultModel)
	assert.Len(t, models.Models.Models, 3)

	comparison, err := h.CompareModels(contextWithRoles(auth.RoleViewer), &CompareModelsRequest{})
	require.NoError(t, err)
	require.Len(t, comparison.Comparison.Models, 3)
	for _, row := range comparison.Comparison.Models {
		assert.NotNil(t, row.Performance, row.Name)
	}
}

func TestChurnServiceHandler_History(t *testing.T) {
	h, _ := buildTestHandler(t, "")

	_, err := h.GetAssessment(contextWithRoles(auth.RoleViewer), &GetAssessmentRequest{ID: "not-a-uuid"})
	requireGRPCCode(t, err, codes.InvalidArgument)

	_, err = h.GetAssessment(contextWithRoles(auth.RoleViewer), &GetAssessmentRequest{ID: "00000000-0000-0000-0000-000000000101"})
	requireGRPCCode(t, err, codes.Unimplemented)

	_, err = h.ListRecentAssessments(contextWithRoles(auth.RoleViewer), &ListRecentAssessmentsRequest{})
	requireGRPCCode(t, err, codes.PermissionDenied)

	_, err = h.ListRecentAssessments(contextWithRoles(auth.RoleAnalyst), &ListRecentAssessmentsRequest{Limit: 5})
	requireGRPCCode(t, err, codes.Unimplemented)
}

func TestChurnServiceHandler_Login(t *testing.T) {
	h, jwt := buildTestHandler(t, "")

	resp, err := h.Login(context.Background(), &LoginRequest{Username: "manager", Password: testfixture.Password("manager")})
	require.NoError(t, err)
	claims, err := jwt.ValidateToken(resp.Session.Token)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{auth.RoleManager, auth.RoleViewer}, claims.Roles)

	_, err = h.Login(context.Background(), &LoginRequest{Username: "manager", Password: "wrong"})
	requireGRPCCode(t, err, codes.Unauthenticated)
}

// --- Server tests over an in-memory listener ---

func startTestServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	h, jwt := buildTestHandler(t, "")
	srv, err := NewServer(h, ServerConfig{Address: "bufconn"}, testfixture.Logger(), jwt)
	require.NoError(t, err)

	listener := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(listener) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_EndToEnd(t *testing.T) {
	conn := startTestServer(t)
	ctx := context.Background()

	t.Run("health is public", func(t *testing.T) {
		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName},
			grpc.CallContentSubtype("proto"))
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
	})

	t.Run("scoring needs a token", func(t *testing.T) {
		var out ScoreCustomerResponse
		err := conn.Invoke(ctx, MethodScoreCustomer, &ScoreCustomerRequest{Profile: sampleProfile()}, &out)
		requireGRPCCode(t, err, codes.Unauthenticated)
	})

	t.Run("login then score", func(t *testing.T) {
		var login LoginResponse
		err := conn.Invoke(ctx, MethodLogin, &LoginRequest{Username: "analyst", Password: testfixture.Password("analyst")}, &login)
		require.NoError(t, err)
		require.NotEmpty(t, login.Session.Token)

		authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+login.Session.Token)
		var out ScoreCustomerResponse
		err = conn.Invoke(authed, MethodScoreCustomer, &ScoreCustomerRequest{
			Profile:   sampleProfile(),
			ModelName: config.ModelXGBoost,
		}, &out)
		require.NoError(t, err)
		assert.Equal(t, config.ModelXGBoost, out.Result.Assessment.ModelName)
		assert.NotEmpty(t, out.Result.Recommendation.Actions)
	})
}

func TestChurnServiceHandler_ToStatus_ScoringError(t *testing.T) {
	var logs bytes.Buffer
	h := NewChurnServiceHandler(usecase.Set{}, slog.New(slog.NewTextHandler(&logs, nil)))

	err := h.toStatus(context.Background(), "ScoreCustomer", &service.ScoringError{Model: "XGBoost", Reason: "probability is NaN"})

	requireGRPCCode(t, err, codes.Internal)
	assert.NotContains(t, status.Convert(err).Message(), "NaN")
	assert.Empty(t, logs.String(), "model integrity errors are logged once, by the use case")
}
