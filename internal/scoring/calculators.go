// internal/scoring/calculators.go
package scoring

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	neutralScore        = 50.0
	noHistoryScore      = 25.0
	noInquiryDataScore  = 70.0
	hoursPerScoringYear = 24 * 365
)

// InquiryMatching selects how the credit inquiries token is read.
type InquiryMatching string

const (
	// InquirySubstring tests the token by digit containment only.
	InquirySubstring InquiryMatching = "substring"
	// InquiryBucketed resolves the known form buckets exactly before falling back
	// to substring tests.
	InquiryBucketed InquiryMatching = "bucketed"
)

var inquiryBuckets = map[string]float64{
	"0-2":  100,
	"3-5":  80,
	"6-10": 60,
	"10+":  40,
}

func paymentHistoryScore(accounts []account) float64 {
	if len(accounts) == 0 {
		return neutralScore
	}

	total := 0.0
	for _, acc := range accounts {
		total += paymentStatusScore(acc.status)
	}

	avg := total / float64(len(accounts))
	if avg > 100 {
		return 100
	}
	return avg
}

// paymentStatusScore expects a lower-cased status. First match wins.
func paymentStatusScore(status string) float64 {
	switch {
	case containsAny(status, "current", "paid"):
		return 100
	case containsAny(status, "30", "late"):
		return 70
	case strings.Contains(status, "60"):
		return 40
	case strings.Contains(status, "90"):
		return 20
	case strings.Contains(status, "120"):
		return 10
	case containsAny(status, "charged", "off", "default"):
		return 0
	default:
		return neutralScore
	}
}

func utilizationScore(accounts []account) float64 {
	total := 0.0
	counted := 0
	for _, acc := range accounts {
		if acc.limit <= 0 {
			continue
		}
		total += acc.balance / acc.limit * 100
		counted++
	}
	if counted == 0 {
		return neutralScore
	}

	avg := total / float64(counted)
	switch {
	case avg <= 10:
		return 100
	case avg <= 30:
		return 90
	case avg <= 50:
		return 70
	case avg <= 70:
		return 50
	case avg <= 90:
		return 30
	default:
		return 10
	}
}

// historyLengthScore pools account ages and employment tenure. Only samples that lie
// in the past count.
func historyLengthScore(np normalizedProfile, now time.Time) float64 {
	total := 0.0
	samples := 0

	for _, acc := range np.accounts {
		if !acc.hasOpened {
			continue
		}
		if years := yearsSince(now, acc.openDate); years > 0 {
			total += years
			samples++
		}
	}

	if np.hasEmploymentStart {
		if years := yearsSince(now, np.employmentStart); years > 0 {
			total += years
			samples++
		}
	}

	if samples == 0 {
		return noHistoryScore
	}

	avg := total / float64(samples)
	switch {
	case avg >= 10:
		return 100
	case avg >= 7:
		return 85
	case avg >= 5:
		return 70
	case avg >= 3:
		return 55
	case avg >= 1:
		return 40
	default:
		return noHistoryScore
	}
}

func creditMixScore(accounts []account) float64 {
	if len(accounts) == 0 {
		return neutralScore
	}

	types := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		types[acc.creditType] = struct{}{}
	}

	switch n := len(types); {
	case n >= 4:
		return 100
	case n == 3:
		return 80
	case n == 2:
		return 60
	default:
		return 40
	}
}

func recentActivityScore(np normalizedProfile, mode InquiryMatching) float64 {
	if !np.hasInquiries {
		return noInquiryDataScore
	}

	if mode == InquiryBucketed {
		if score, ok := inquiryBuckets[strings.TrimSpace(np.inquiries)]; ok {
			return score
		}
	}

	switch token := np.inquiries; {
	case containsAny(token, "0", "1", "2"):
		return 100
	case containsAny(token, "3", "4", "5"):
		return 80
	case containsAny(token, "6", "7", "8", "9", "10"):
		return 60
	default:
		return 40
	}
}

var (
	highIncomeThresholds = []struct {
		above decimal.Decimal
		score float64
	}{
		{decimal.NewFromInt(50000), 90},
		{decimal.NewFromInt(30000), 80},
		{decimal.NewFromInt(20000), 70},
		{decimal.NewFromInt(10000), 60},
	}
	dtiThresholds = []struct {
		atMost decimal.Decimal
		score  float64
	}{
		{decimal.RequireFromString("0.3"), 100},
		{decimal.RequireFromString("0.5"), 80},
		{decimal.RequireFromString("0.7"), 60},
		{decimal.RequireFromString("0.9"), 40},
	}
)

func incomeStabilityScore(np normalizedProfile) float64 {
	income := np.monthlyIncome
	if !income.IsPositive() {
		return neutralScore
	}

	if !np.hasExpenses || !np.monthlyExpenses.IsPositive() {
		for _, t := range highIncomeThresholds {
			if income.GreaterThan(t.above) {
				return t.score
			}
		}
		return neutralScore
	}

	dti := np.monthlyExpenses.Div(income)
	for _, t := range dtiThresholds {
		if dti.LessThanOrEqual(t.atMost) {
			return t.score
		}
	}
	return 20
}

func yearsSince(now, then time.Time) float64 {
	return now.Sub(then).Hours() / hoursPerScoringYear
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
