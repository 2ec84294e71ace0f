// internal/scoring/advice.go
package scoring

type adviceRule struct {
	applies         func(Breakdown) bool
	advice          string
	recommendations [2]string
}

var adviceRules = []adviceRule{
	{
		applies: func(b Breakdown) bool { return b.PaymentHistory < 80 },
		advice:  "Improve payment history by avoiding missed or late payments.",
		recommendations: [2]string{
			"Set up automatic payments for all credit accounts",
			"Contact lenders immediately if you anticipate payment difficulties",
		},
	},
	{
		applies: func(b Breakdown) bool { return b.CreditUtilization < 70 },
		advice:  "Reduce credit utilization below 30% of your credit limit.",
		recommendations: [2]string{
			"Pay down high-balance credit cards first",
			"Request credit limit increases from existing lenders",
		},
	},
	{
		applies: func(b Breakdown) bool { return b.HistoryLength < 50 },
		advice:  "Maintain longer credit history for better scoring.",
		recommendations: [2]string{
			"Keep old credit accounts open and active",
			"Avoid closing accounts with long payment history",
		},
	},
	{
		applies: func(b Breakdown) bool { return b.CreditMix < 50 },
		advice:  "Diversify your credit types for better scoring.",
		recommendations: [2]string{
			"Consider a mix of revolving and installment credit",
			"Apply for different types of credit gradually",
		},
	},
	{
		applies: func(b Breakdown) bool { return b.RecentActivity < 70 },
		advice:  "Avoid too many recent credit applications.",
		recommendations: [2]string{
			"Space out credit applications by 6-12 months",
			"Only apply for credit when necessary",
		},
	},
	{
		applies: func(b Breakdown) bool { return b.IncomeStability < 50 },
		advice:  "Improve your debt-to-income ratio.",
		recommendations: [2]string{
			"Increase your income through side hustles or career advancement",
			"Reduce monthly expenses and create a budget",
		},
	},
}

var (
	rebuildRecommendations = []string{
		"Focus on building positive payment history",
		"Consider secured credit cards to rebuild credit",
		"Work with a credit counselor to develop a plan",
	}
	maintainRecommendations = []string{
		"Continue making on-time payments",
		"Gradually reduce credit utilization",
		"Monitor your credit report regularly",
	}
	optimizeRecommendations = []string{
		"Maintain your excellent credit habits",
		"Consider premium credit products with better terms",
		"Use your good credit to negotiate better rates",
	}
)

// buildAdvice evaluates every factor rule against the rounded breakdown, then appends
// the tier guidance for the final score. Both slices are non-nil.
func buildAdvice(b Breakdown, score int) (advice, recommendations []string) {
	advice = []string{}
	recommendations = []string{}

	for _, rule := range adviceRules {
		if !rule.applies(b) {
			continue
		}
		advice = append(advice, rule.advice)
		recommendations = append(recommendations, rule.recommendations[:]...)
	}

	return advice, append(recommendations, tierRecommendations(score)...)
}

func tierRecommendations(score int) []string {
	switch {
	case score < 500:
		return rebuildRecommendations
	case score < 650:
		return maintainRecommendations
	default:
		return optimizeRecommendations
	}
}
