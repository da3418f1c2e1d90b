// Package testfixture assembles the churn service from the checked-in sample
// artifacts and configuration for transport-level tests.
package testfixture

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/pkg/auth"
	"github.com/bibbank/bib/services/churn-service/internal/application/usecase"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/artifact"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/config"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/identity"
)

// JWTSecret signs the tokens issued by JWT.
const JWTSecret = "testfixture-secret"

// serviceRoot is services/churn-service.
func serviceRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// ArtifactsDir is the sample artifact bundle.
func ArtifactsDir() string { return filepath.Join(serviceRoot(), "testdata", "artifacts") }

// ConfigPath resolves a file under configs/.
func ConfigPath(name string) string { return filepath.Join(serviceRoot(), "configs", name) }

// Password is the development password of a sample user.
func Password(username string) string { return username + "-dev-password" }

// Logger discards everything.
func Logger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// Bundle loads the sample artifact bundle.
func Bundle(t *testing.T) *artifact.Bundle {
	t.Helper()
	bundle, err := artifact.LoadBundle(context.Background(), artifact.NewFileStore(ArtifactsDir()), artifact.DefaultManifestKey, Logger())
	require.NoError(t, err)
	return bundle
}

// Catalog combines the sample bundle with profile.
func Catalog(t *testing.T, profile model.DashboardProfile) usecase.Catalog {
	t.Helper()
	bundle := Bundle(t)
	require.NoError(t, bundle.CheckProfile(profile))
	return usecase.Catalog{
		Profile:     profile,
		Encoder:     bundle.Encoder,
		Registry:    bundle.Registry,
		Report:      bundle.Report,
		BestModel:   bundle.BestModel,
		Performance: bundle.Performance,
	}
}

// Profile loads a profile from configs/.
func Profile(t *testing.T, name string) model.DashboardProfile {
	t.Helper()
	profile, err := config.LoadProfile(ConfigPath(name))
	require.NoError(t, err)
	return profile
}

// JWT returns an HS256 token service.
func JWT(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{Secret: JWTSecret, Issuer: "bib-churn-service"})
	require.NoError(t, err)
	return svc
}

// Token issues a token for a sample user.
func Token(t *testing.T, jwt *auth.JWTService, username string, roles ...string) string {
	t.Helper()
	token, _, err := jwt.GenerateToken(username, roles)
	require.NoError(t, err)
	return token
}

// Options customize UseCases. Zero values disable history and publishing.
type Options struct {
	Repo      port.AssessmentRepository
	Publisher port.EventPublisher
}

// UseCases wires every use case against catalog, the sample credential file
// and jwt.
func UseCases(t *testing.T, catalog usecase.Catalog, jwt *auth.JWTService, opts Options) usecase.Set {
	t.Helper()
	credentials, err := identity.LoadCredentialStore(ConfigPath("credentials.yaml"))
	require.NoError(t, err)

	currency := catalog.Profile.Currency
	aggregator := service.NewMetricsAggregator(currency)
	logger := Logger()

	return usecase.Set{
		ScoreCustomer: usecase.NewScoreCustomer(
			catalog, service.NewRiskScorer(currency), aggregator,
			opts.Repo, opts.Publisher, nil, logger,
		),
		GetBusinessOverview:   usecase.NewGetBusinessOverview(catalog, aggregator),
		CompareModels:         usecase.NewCompareModels(catalog),
		ListModels:            usecase.NewListModels(catalog),
		GetAssessment:         usecase.NewGetAssessment(opts.Repo),
		ListRecentAssessments: usecase.NewListRecentAssessments(opts.Repo),
		Login:                 usecase.NewLogin(credentials, jwt, logger),
	}
}
