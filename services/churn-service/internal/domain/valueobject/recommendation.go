package valueobject

// Recommendation is the retention playbook attached to a risk tier.
type Recommendation struct {
	Headline string
	Strategy string
	Actions  []string
}

var recommendations = map[string]Recommendation{
	"HIGH": {
		Headline: "High churn risk",
		Strategy: "Urgent retention measures",
		Actions: []string{
			"Immediate contact from a personal manager",
			"Special credit card terms",
			"Loyalty programme with increased cashback",
			"Personal refinancing offer",
			"Regular activity monitoring",
		},
	},
	"MEDIUM": {
		Headline: "Medium churn risk",
		Strategy: "Proactive engagement",
		Actions: []string{
			"Increase contact frequency to once every two weeks",
			"Offer additional services",
			"Cashback programme for activity",
			"Collect feedback",
			"Invite to financial consultations",
		},
	},
	"LOW": {
		Headline: "Low churn risk",
		Strategy: "Growth strategy",
		Actions: []string{
			"Cross-sell additional products",
			"Premium services",
			"Next-level loyalty programmes",
			"Referral and partner programmes",
			"Regular review of financial goals",
		},
	},
}

// RecommendationFor returns the playbook for tier. The Actions slice is a copy.
func RecommendationFor(tier RiskTier) Recommendation {
	rec, ok := recommendations[tier.value]
	if !ok {
		return Recommendation{}
	}
	rec.Actions = append([]string(nil), rec.Actions...)
	return rec
}
