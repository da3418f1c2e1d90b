package model

import (
	"fmt"
	"slices"

	"github.com/bibbank/bib/pkg/money"
)

// DashboardProfile parameterizes how the scoring core is presented: which models
// may be selected, currency and locale, who may see population comparisons and
// how categorical labels are localized.
type DashboardProfile struct {
	Labels          *LabelMapping
	Currency        money.Currency
	Name            string
	Locale          string
	DefaultModel    string
	AvailableModels []string
	ComparisonRoles []string
	CollapseTiers   bool
}

// Validate checks the profile is internally consistent.
func (p DashboardProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.Currency.IsZero() {
		return fmt.Errorf("profile %s: currency is required", p.Name)
	}
	if len(p.AvailableModels) == 0 {
		return fmt.Errorf("profile %s: at least one available model is required", p.Name)
	}
	if !slices.Contains(p.AvailableModels, p.DefaultModel) {
		return fmt.Errorf("profile %s: default model %q is not available", p.Name, p.DefaultModel)
	}
	return nil
}

// IsAvailable reports whether name may be selected under this profile.
func (p DashboardProfile) IsAvailable(name string) bool {
	return slices.Contains(p.AvailableModels, name)
}

// ModelOrDefault returns name, or the default model when name is empty.
func (p DashboardProfile) ModelOrDefault(name string) string {
	if name == "" {
		return p.DefaultModel
	}
	return name
}

// CanCompare reports whether a caller holding roles may see population
// comparisons. An empty ComparisonRoles list means comparisons are not gated.
func (p DashboardProfile) CanCompare(roles []string) bool {
	if len(p.ComparisonRoles) == 0 {
		return true
	}
	for _, r := range roles {
		if slices.Contains(p.ComparisonRoles, r) {
			return true
		}
	}
	return false
}
