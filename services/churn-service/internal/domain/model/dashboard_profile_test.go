package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/bib/pkg/money"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
)

func testProfile() model.DashboardProfile {
	return model.DashboardProfile{
		Name:            "retail",
		Locale:          "en-US",
		Currency:        money.USD,
		AvailableModels: []string{"Gradient Boosting", "XGBoost"},
		DefaultModel:    "Gradient Boosting",
	}
}

func TestDashboardProfile_Validate(t *testing.T) {
	assert.NoError(t, testProfile().Validate())

	p := testProfile()
	p.Name = ""
	assert.Error(t, p.Validate())

	p = testProfile()
	p.Currency = money.Currency{}
	assert.Error(t, p.Validate())

	p = testProfile()
	p.AvailableModels = nil
	assert.Error(t, p.Validate())

	p = testProfile()
	p.DefaultModel = "Random Forest"
	assert.Error(t, p.Validate())
}

func TestDashboardProfile_Models(t *testing.T) {
	p := testProfile()
	assert.True(t, p.IsAvailable("XGBoost"))
	assert.False(t, p.IsAvailable("Random Forest"))
	assert.Equal(t, "Gradient Boosting", p.ModelOrDefault(""))
	assert.Equal(t, "XGBoost", p.ModelOrDefault("XGBoost"))
}

func TestDashboardProfile_CanCompare(t *testing.T) {
	p := testProfile()
	assert.True(t, p.CanCompare(nil), "ungated profile")

	p.ComparisonRoles = []string{"analyst", "admin"}
	assert.True(t, p.CanCompare([]string{"viewer", "analyst"}))
	assert.False(t, p.CanCompare([]string{"viewer"}))
	assert.False(t, p.CanCompare(nil))
}
