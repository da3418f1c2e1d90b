package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bibbank/bib/pkg/auth"
	"github.com/bibbank/bib/pkg/kafka"
	"github.com/bibbank/bib/pkg/observability"
	pgpkg "github.com/bibbank/bib/pkg/postgres"
	"github.com/bibbank/bib/services/churn-service/internal/application/usecase"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/artifact"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/config"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/identity"
	kafkapublisher "github.com/bibbank/bib/services/churn-service/internal/infrastructure/kafka"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/metrics"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/postgres"
	grpcpresentation "github.com/bibbank/bib/services/churn-service/internal/presentation/grpc"
	"github.com/bibbank/bib/services/churn-service/internal/presentation/rest"
)

const serviceName = "churn-service"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})
	slog.SetDefault(logger)

	logger.Info("starting churn-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing is optional.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    !cfg.IsProduction(),
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background())

	observer, err := metrics.NewScoringObserver(meterProvider.Meter(serviceName))
	if err != nil {
		logger.Error("failed to create scoring instruments", "error", err)
		os.Exit(1)
	}

	// Dashboard profile and model artifacts.
	profile := config.DefaultProfile()
	if cfg.ProfilePath != "" {
		if profile, err = config.LoadProfile(cfg.ProfilePath); err != nil {
			logger.Error("failed to load dashboard profile", "error", err)
			os.Exit(1)
		}
	}

	store, err := artifact.NewStore(cfg.ArtifactSource, artifact.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		logger.Error("invalid artifact source", "error", err)
		os.Exit(1)
	}

	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.ArtifactLoadTimeout)
	bundle, err := artifact.LoadBundle(loadCtx, store, cfg.ArtifactManifest, logger)
	loadCancel()
	if err != nil {
		logger.Error("failed to load model artifacts", "source", cfg.ArtifactSource, "error", err)
		os.Exit(1)
	}
	if err := bundle.CheckProfile(profile); err != nil {
		logger.Error("dashboard profile does not match artifacts", "error", err)
		os.Exit(1)
	}
	logger.Info("model artifacts loaded",
		"version", bundle.Manifest.Version,
		"models", bundle.Registry.Names(),
		"best_model", bundle.BestModel.Name,
		"profile", profile.Name,
	)

	// Identity.
	credentials, err := identity.LoadCredentialStore(cfg.CredentialsPath)
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		os.Exit(1)
	}

	jwtService, err := newJWTService(cfg)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	readiness := map[string]rest.ReadinessCheck{
		"artifacts": func(context.Context) error { return nil },
	}

	// Assessment history is optional.
	var repo port.AssessmentRepository
	if cfg.DatabaseURL != "" {
		if err := pgpkg.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := pgpkg.NewPool(dbCtx, pgpkg.Config{URL: cfg.DatabaseURL})
		dbCancel()
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("connected to database")

		repo = postgres.NewAssessmentRepository(pool)
		readiness["database"] = func(ctx context.Context) error { return pgpkg.HealthCheck(ctx, pool) }
	} else {
		logger.Info("DATABASE_URL not set, assessment history disabled")
	}

	// Event publishing is optional.
	var publisher port.EventPublisher
	if brokers := kafka.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		producer, err := kafka.NewProducer(kafka.Config{ClientID: serviceName, Brokers: brokers})
		if err != nil {
			logger.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = kafkapublisher.NewPublisher(producer, cfg.KafkaTopic, logger)
	} else {
		logger.Info("KAFKA_BROKERS not set, event publishing disabled")
	}

	// Wire domain services.
	catalog := usecase.Catalog{
		Profile:     profile,
		Encoder:     bundle.Encoder,
		Registry:    bundle.Registry,
		Report:      bundle.Report,
		BestModel:   bundle.BestModel,
		Performance: bundle.Performance,
	}
	aggregator := service.NewMetricsAggregator(profile.Currency)
	scorer := service.NewRiskScorer(profile.Currency)

	// Wire use cases.
	useCases := usecase.Set{
		ScoreCustomer:         usecase.NewScoreCustomer(catalog, scorer, aggregator, repo, publisher, observer, logger),
		GetBusinessOverview:   usecase.NewGetBusinessOverview(catalog, aggregator),
		CompareModels:         usecase.NewCompareModels(catalog),
		ListModels:            usecase.NewListModels(catalog),
		GetAssessment:         usecase.NewGetAssessment(repo),
		ListRecentAssessments: usecase.NewListRecentAssessments(repo),
		Login:                 usecase.NewLogin(credentials, jwtService, logger),
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewChurnServiceHandler(useCases, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.GRPCTLSCert,
		TLSKeyFile:  cfg.GRPCTLSKey,
		Reflection:  cfg.GRPCReflection,
	}, logger, jwtService)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server.
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	healthHandler := rest.NewHealthHandler(serviceName, readiness)
	var loginLimiter *rest.RateLimiter
	if cfg.LoginRateLimit > 0 {
		loginLimiter = rest.NewRateLimiter(cfg.LoginRateLimit)
	}
	httpHandler := rest.NewHandler(useCases, jwtService, healthHandler, metricsHandler, loginLimiter, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpHandler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("churn-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"history", repo != nil,
		"events", publisher != nil,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down churn-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("churn-service stopped")
}

// newJWTService signs with the RSA key file when one is configured and falls
// back to the shared secret.
func newJWTService(cfg *config.Config) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Expiration: cfg.JWTExpiration,
	}
	if cfg.JWTPrivateKeyFile != "" {
		pem, err := auth.LoadKeyFromFile(cfg.JWTPrivateKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PrivateKeyPEM = string(pem)
	}
	return auth.NewJWTService(jwtCfg)
}
