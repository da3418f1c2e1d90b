package valueobject

import "fmt"

// Churn probability thresholds. Both bounds are exclusive from below:
// exactly 0.70 is Medium and exactly 0.30 is Low.
const (
	HighRiskThreshold   = 0.70
	MediumRiskThreshold = 0.30
)

// RiskTier is an immutable value object for the discrete churn risk band.
type RiskTier struct {
	value string
}

var (
	RiskTierLow    = RiskTier{value: "LOW"}
	RiskTierMedium = RiskTier{value: "MEDIUM"}
	RiskTierHigh   = RiskTier{value: "HIGH"}
)

// RiskTierFromProbability maps a churn probability onto its tier.
func RiskTierFromProbability(p float64) RiskTier {
	switch {
	case p > HighRiskThreshold:
		return RiskTierHigh
	case p > MediumRiskThreshold:
		return RiskTierMedium
	default:
		return RiskTierLow
	}
}

// RiskTierFromString reconstructs a RiskTier from its string representation.
func RiskTierFromString(s string) (RiskTier, error) {
	switch s {
	case "LOW":
		return RiskTierLow, nil
	case "MEDIUM":
		return RiskTierMedium, nil
	case "HIGH":
		return RiskTierHigh, nil
	default:
		return RiskTier{}, fmt.Errorf("invalid risk tier: %q", s)
	}
}

// String returns the string representation.
func (t RiskTier) String() string {
	return t.value
}

// Label returns the human-readable tier name.
func (t RiskTier) Label() string {
	switch t.value {
	case "HIGH":
		return "High"
	case "MEDIUM":
		return "Medium"
	case "LOW":
		return "Low"
	default:
		return ""
	}
}

// IsZero returns true if the RiskTier has not been set.
func (t RiskTier) IsZero() bool {
	return t.value == ""
}

// Equal checks equality with another RiskTier.
func (t RiskTier) Equal(other RiskTier) bool {
	return t.value == other.value
}
