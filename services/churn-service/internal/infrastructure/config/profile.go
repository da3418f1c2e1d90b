package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bibbank/bib/pkg/auth"
	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
)

// Model names shipped with the default artifact bundle.
const (
	ModelGradientBoosting = "Gradient Boosting"
	ModelXGBoost          = "XGBoost"
	ModelRandomForest     = "Random Forest"
)

type profileDocument struct {
	Labels          map[string]map[string]string `yaml:"labels"`
	Name            string                       `yaml:"name"`
	Locale          string                       `yaml:"locale"`
	Currency        string                       `yaml:"currency"`
	DefaultModel    string                       `yaml:"default_model"`
	AvailableModels []string                     `yaml:"available_models"`
	ComparisonRoles []string                     `yaml:"comparison_roles"`
	CollapseTiers   bool                         `yaml:"collapse_tiers"`
}

// DefaultProfile is the English dashboard profile used when no profile file is
// configured.
func DefaultProfile() model.DashboardProfile {
	return model.DashboardProfile{
		Name:            "default",
		Locale:          "en-US",
		Currency:        money.USD,
		AvailableModels: []string{ModelGradientBoosting, ModelXGBoost, ModelRandomForest},
		DefaultModel:    ModelGradientBoosting,
	}
}

// LoadProfile reads a dashboard profile from a YAML file. An empty path yields
// DefaultProfile.
func LoadProfile(path string) (model.DashboardProfile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.DashboardProfile{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return model.DashboardProfile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes and validates a YAML dashboard profile. Unknown keys are
// rejected.
func ParseProfile(data []byte) (model.DashboardProfile, error) {
	var doc profileDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return model.DashboardProfile{}, fmt.Errorf("failed to decode profile: %w", err)
	}

	currency, err := money.NewCurrency(doc.Currency)
	if err != nil {
		return model.DashboardProfile{}, err
	}
	for _, role := range doc.ComparisonRoles {
		if !auth.IsKnownRole(role) {
			return model.DashboardProfile{}, fmt.Errorf("comparison_roles: unknown role %q", role)
		}
	}
	labels, err := model.NewLabelMapping(doc.Labels)
	if err != nil {
		return model.DashboardProfile{}, err
	}

	p := model.DashboardProfile{
		Labels:          labels,
		Currency:        currency,
		Name:            doc.Name,
		Locale:          doc.Locale,
		DefaultModel:    doc.DefaultModel,
		AvailableModels: doc.AvailableModels,
		ComparisonRoles: doc.ComparisonRoles,
		CollapseTiers:   doc.CollapseTiers,
	}
	if err := p.Validate(); err != nil {
		return model.DashboardProfile{}, err
	}
	return p, nil
}
