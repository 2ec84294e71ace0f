// internal/scoring/normalizer.go
package scoring

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

var weeksPerMonth = decimal.RequireFromString("4.33")
var monthsPerYear = decimal.NewFromInt(12)

type account struct {
	creditType string
	status     string
	balance    float64
	limit      float64
	openDate   time.Time
	hasOpened  bool
}

// normalizedProfile is what the calculators read. Every optional input has an
// explicit presence flag.
type normalizedProfile struct {
	accounts []account

	monthlyIncome   decimal.Decimal
	monthlyExpenses decimal.Decimal
	hasExpenses     bool

	employmentStart    time.Time
	hasEmploymentStart bool

	inquiries    string
	hasInquiries bool
}

func normalize(p Profile) normalizedProfile {
	np := normalizedProfile{
		accounts:      make([]account, 0, len(p.CreditAccounts)),
		monthlyIncome: decimal.Zero,
	}

	for _, a := range p.CreditAccounts {
		acc := account{
			creditType: strings.ToLower(a.CreditType),
			status:     strings.ToLower(a.PaymentStatus),
			balance:    nonNegative(a.OutstandingBalance.OrZero()),
			limit:      a.CreditLimit.OrZero(),
		}
		acc.openDate, acc.hasOpened = parseDate(a.AccountOpenDate)
		np.accounts = append(np.accounts, acc)
	}

	for _, src := range p.IncomeSources {
		np.monthlyIncome = np.monthlyIncome.Add(monthlyAmount(src))
	}

	if fs := p.FinancialStability; fs != nil {
		if other, ok := fs.OtherMonthlyIncome.Float64(); ok {
			np.monthlyIncome = np.monthlyIncome.Add(decimal.NewFromFloat(other))
		}
		if expenses, ok := fs.MonthlyExpenses.Float64(); ok {
			np.monthlyExpenses = decimal.NewFromFloat(expenses)
			np.hasExpenses = true
		}
	}

	np.employmentStart, np.hasEmploymentStart = parseDate(p.EmploymentInfo.EmploymentStartDate)

	if inq := strings.ToLower(p.CreditHistory.CreditInquiries); inq != "" {
		np.inquiries = inq
		np.hasInquiries = true
	}

	return np
}

// monthlyAmount converts one income source to a monthly figure. Frequencies are
// matched by containment in this order, so "bi-weekly" is treated as weekly and
// quarterly or irregular income as monthly.
func monthlyAmount(src IncomeSource) decimal.Decimal {
	amount := decimal.NewFromFloat(src.Amount.OrZero())

	frequency := strings.ToLower(strings.TrimSpace(src.Frequency))
	if frequency == "" {
		frequency = "monthly"
	}

	switch {
	case strings.Contains(frequency, "monthly"):
		return amount
	case strings.Contains(frequency, "weekly"):
		return amount.Mul(weeksPerMonth)
	case strings.Contains(frequency, "yearly"), strings.Contains(frequency, "annual"):
		return amount.Div(monthsPerYear)
	default:
		return amount
	}
}

// parseDate accepts YYYY-MM-DD, RFC 3339 timestamps and zone-less date-times.
// Date-only values are midnight UTC.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if d, err := civil.ParseDate(s); err == nil {
		return d.In(time.UTC), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if dt, err := civil.ParseDateTime(s); err == nil {
		return dt.In(time.UTC), true
	}
	return time.Time{}, false
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
