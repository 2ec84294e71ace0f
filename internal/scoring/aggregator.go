// internal/scoring/aggregator.go
package scoring

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	MinScore = 300
	MaxScore = 900
)

// Factor weights. They are exact decimals so the composite of integral sub-scores
// carries no binary rounding error into the half-up rounding step.
var (
	WeightPaymentHistory    = decimal.RequireFromString("0.30")
	WeightCreditUtilization = decimal.RequireFromString("0.25")
	WeightHistoryLength     = decimal.RequireFromString("0.15")
	WeightCreditMix         = decimal.RequireFromString("0.10")
	WeightRecentActivity    = decimal.RequireFromString("0.10")
	WeightIncomeStability   = decimal.RequireFromString("0.10")
)

var scoreSpan = decimal.NewFromInt((MaxScore - MinScore) / 100)

// TotalWeight is the sum of all factor weights.
func TotalWeight() decimal.Decimal {
	return decimal.Sum(
		WeightPaymentHistory,
		WeightCreditUtilization,
		WeightHistoryLength,
		WeightCreditMix,
		WeightRecentActivity,
		WeightIncomeStability,
	)
}

// composite returns the 0-100 weighted blend of the raw sub-scores.
func composite(b Breakdown) decimal.Decimal {
	return decimal.Sum(
		WeightPaymentHistory.Mul(decimal.NewFromFloat(b.PaymentHistory)),
		WeightCreditUtilization.Mul(decimal.NewFromFloat(b.CreditUtilization)),
		WeightHistoryLength.Mul(decimal.NewFromFloat(b.HistoryLength)),
		WeightCreditMix.Mul(decimal.NewFromFloat(b.CreditMix)),
		WeightRecentActivity.Mul(decimal.NewFromFloat(b.RecentActivity)),
		WeightIncomeStability.Mul(decimal.NewFromFloat(b.IncomeStability)),
	)
}

// rescale maps a 0-100 composite onto 300-900, rounding halves up.
func rescale(c decimal.Decimal) int {
	raw := decimal.NewFromInt(MinScore).Add(c.Mul(scoreSpan))
	score := int(raw.Round(0).IntPart())
	return clampScore(score)
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
