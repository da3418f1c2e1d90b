package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the churn service.
type Config struct {
	GRPCPort    string
	HTTPPort    string
	Environment string
	LogLevel    string
	LogFormat   string

	ArtifactSource      string
	ArtifactManifest    string
	ArtifactLoadTimeout time.Duration
	S3Endpoint          string
	S3Region            string
	S3AccessKey         string
	S3SecretKey         string

	ProfilePath     string
	CredentialsPath string

	JWTSecret         string
	JWTPrivateKeyFile string
	JWTIssuer         string
	JWTExpiration     time.Duration

	// LoginRateLimit is the number of login attempts per second allowed per
	// client address. Zero disables throttling.
	LoginRateLimit int

	// DatabaseURL enables assessment history when set.
	DatabaseURL   string
	MigrationsDir string

	// KafkaBrokers enables event publishing when set.
	KafkaBrokers string
	KafkaTopic   string

	// OTLPEndpoint enables tracing when set.
	OTLPEndpoint string

	GRPCReflection bool
	GRPCTLSCert    string
	GRPCTLSKey     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		GRPCPort:    getEnv("GRPC_PORT", "8092"),
		HTTPPort:    getEnv("HTTP_PORT", "9092"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", ""),

		ArtifactSource:   getEnv("ARTIFACT_SOURCE", "./artifacts"),
		ArtifactManifest: getEnv("ARTIFACT_MANIFEST", "manifest.json"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),

		ProfilePath:     getEnv("PROFILE_PATH", ""),
		CredentialsPath: getEnv("CREDENTIALS_PATH", "./configs/credentials.yaml"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTPrivateKeyFile: getEnv("JWT_PRIVATE_KEY_FILE", ""),
		JWTIssuer:         getEnv("JWT_ISSUER", "bib-churn-service"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./internal/infrastructure/postgres/migrations"),

		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "churn.events"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		GRPCTLSCert: getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKey:  getEnv("GRPC_TLS_KEY_FILE", ""),
	}

	var err error
	if cfg.ArtifactLoadTimeout, err = getDuration("ARTIFACT_LOAD_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.JWTExpiration, err = getDuration("JWT_EXPIRATION", time.Hour); err != nil {
		return nil, err
	}
	if cfg.GRPCReflection, err = getBool("GRPC_REFLECTION", false); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimit, err = getInt("LOGIN_RATE_LIMIT", 5); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.JWTPrivateKeyFile == "" {
		return fmt.Errorf("JWT_SECRET or JWT_PRIVATE_KEY_FILE is required")
	}
	if (c.GRPCTLSCert == "") != (c.GRPCTLSKey == "") {
		return fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	if c.LoginRateLimit < 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must not be negative")
	}
	if c.ArtifactLoadTimeout <= 0 {
		return fmt.Errorf("ARTIFACT_LOAD_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}
