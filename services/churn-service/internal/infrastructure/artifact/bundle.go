package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/report"
)

// DefaultManifestKey is the manifest location inside an artifact source.
const DefaultManifestKey = "manifest.json"

// Manifest lists the artifacts of one training run. Values are store keys.
type Manifest struct {
	Models         map[string]string `json:"models"`
	ModelReports   map[string]string `json:"model_reports"`
	Version        string            `json:"version"`
	Scaler         string            `json:"scaler"`
	Encoder        string            `json:"encoder"`
	FeatureNames   string            `json:"feature_names"`
	BusinessReport string            `json:"business_report"`
	BestModel      string            `json:"best_model"`
}

func (m Manifest) validate() error {
	var missing []string
	for field, v := range map[string]string{
		"version":         m.Version,
		"scaler":          m.Scaler,
		"encoder":         m.Encoder,
		"feature_names":   m.FeatureNames,
		"business_report": m.BusinessReport,
		"best_model":      m.BestModel,
	} {
		if v == "" {
			missing = append(missing, field)
		}
	}
	if len(m.Models) == 0 {
		missing = append(missing, "models")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("manifest is missing %v", missing)
	}
	return nil
}

// Bundle is everything loaded at startup. It is read-only afterwards.
type Bundle struct {
	Encoder      *service.FeatureEncoder
	Registry     *service.ModelRegistry
	Report       *model.BusinessReport
	Performance  map[string]model.ModelPerformance
	BestModel    model.BestModelInfo
	FeatureNames []string
	Manifest     Manifest

	categories *OneHotEncoder
}

// LoadBundle loads and cross-checks every artifact listed in the manifest at
// manifestKey. Any failure is returned as a *service.LoadError.
func LoadBundle(ctx context.Context, store port.ArtifactStore, manifestKey string, logger *slog.Logger) (*Bundle, error) {
	start := time.Now()
	if manifestKey == "" {
		manifestKey = DefaultManifestKey
	}

	var manifest Manifest
	if err := fetchJSON(ctx, store, manifestKey, &manifest); err != nil {
		return nil, err
	}
	if err := manifest.validate(); err != nil {
		return nil, &service.LoadError{Artifact: manifestKey, Err: err}
	}

	b := &Bundle{Manifest: manifest}

	scaler, err := fetchDecoded(ctx, store, manifest.Scaler, DecodeStandardScaler)
	if err != nil {
		return nil, err
	}
	encoder, err := fetchDecoded(ctx, store, manifest.Encoder, DecodeOneHotEncoder)
	if err != nil {
		return nil, err
	}
	for key, version := range map[string]string{manifest.Scaler: scaler.Version(), manifest.Encoder: encoder.Version()} {
		if version != manifest.Version {
			return nil, &service.LoadError{
				Artifact: key,
				Err:      fmt.Errorf("fitted for version %q, manifest is %q", version, manifest.Version),
			}
		}
	}
	b.categories = encoder
	if b.Encoder, err = service.NewFeatureEncoder(scaler, encoder); err != nil {
		return nil, &service.LoadError{Artifact: manifest.Scaler, Err: err}
	}

	if err := fetchJSON(ctx, store, manifest.FeatureNames, &b.FeatureNames); err != nil {
		return nil, err
	}
	if len(b.FeatureNames) != b.Encoder.Width() {
		return nil, &service.LoadError{
			Artifact: manifest.FeatureNames,
			Err:      fmt.Errorf("lists %d features, transformers produce %d", len(b.FeatureNames), b.Encoder.Width()),
		}
	}

	if b.Registry, err = service.LoadRegistry(ctx, manifest.Models, NewClassifierLoader(store)); err != nil {
		return nil, err
	}
	if b.Registry.NumFeatures() != b.Encoder.Width() {
		return nil, &service.LoadError{
			Artifact: "models",
			Err:      fmt.Errorf("models expect %d features, transformers produce %d", b.Registry.NumFeatures(), b.Encoder.Width()),
		}
	}

	if b.Report, err = fetchDecoded(ctx, store, manifest.BusinessReport, report.DecodeBusinessReport); err != nil {
		return nil, err
	}
	if b.BestModel, err = fetchDecoded(ctx, store, manifest.BestModel, report.DecodeBestModel); err != nil {
		return nil, err
	}
	if _, err := b.Registry.Resolve(b.BestModel.Name); err != nil {
		return nil, &service.LoadError{Artifact: manifest.BestModel, Err: err}
	}

	b.Performance = make(map[string]model.ModelPerformance, len(manifest.ModelReports))
	for name, key := range manifest.ModelReports {
		if _, err := b.Registry.Resolve(name); err != nil {
			return nil, &service.LoadError{Artifact: key, Err: err}
		}
		if b.Performance[name], err = fetchDecoded(ctx, store, key, report.DecodePerformance); err != nil {
			return nil, err
		}
	}
	if _, ok := b.Performance[b.BestModel.Name]; !ok && !b.BestModel.Performance.IsZero() {
		b.Performance[b.BestModel.Name] = b.BestModel.Performance
	}

	logger.Info("artifact bundle loaded",
		slog.String("version", manifest.Version),
		slog.Any("models", b.Registry.Names()),
		slog.String("best_model", b.BestModel.Name),
		slog.Int("features", b.Encoder.Width()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return b, nil
}

// CheckProfile verifies that every model the profile offers is registered and
// that each column of the label table covers exactly the fitted categories.
func (b *Bundle) CheckProfile(profile model.DashboardProfile) error {
	var errs []error
	for _, name := range profile.AvailableModels {
		if _, err := b.Registry.Resolve(name); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, b.checkLabels(profile.Labels)...)
	if len(errs) > 0 {
		return &service.LoadError{Artifact: "profile " + profile.Name, Err: errors.Join(errs...)}
	}
	return nil
}

func (b *Bundle) checkLabels(labels *model.LabelMapping) []error {
	var errs []error
	for _, column := range labels.Columns() {
		fitted := b.categories.Categories(column)
		if fitted == nil {
			errs = append(errs, fmt.Errorf("labels: %s is not a categorical column of the encoder", column))
			continue
		}

		mapped := make(map[string]struct{})
		for _, l := range labels.ModelLabels(column) {
			mapped[l] = struct{}{}
			if !slices.Contains(fitted, l) {
				errs = append(errs, fmt.Errorf("labels: %s maps to %q, which the encoder was not fitted on", column, l))
			}
		}
		for _, category := range fitted {
			if _, ok := mapped[category]; !ok {
				errs = append(errs, fmt.Errorf("labels: %s has no display label for %q", column, category))
			}
		}
	}
	return errs
}

func fetchJSON(ctx context.Context, store port.ArtifactStore, key string, v any) error {
	data, err := store.Fetch(ctx, key)
	if err != nil {
		return &service.LoadError{Artifact: key, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &service.LoadError{Artifact: key, Err: err}
	}
	return nil
}

func fetchDecoded[T any](ctx context.Context, store port.ArtifactStore, key string, decodeFn func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := store.Fetch(ctx, key)
	if err != nil {
		return zero, &service.LoadError{Artifact: key, Err: err}
	}
	v, err := decodeFn(data)
	if err != nil {
		return zero, &service.LoadError{Artifact: key, Err: err}
	}
	return v, nil
}
