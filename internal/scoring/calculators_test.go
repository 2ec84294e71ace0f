// internal/scoring/calculators_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func accountsWith(mutate ...func(*CreditAccount)) []account {
	raw := make([]CreditAccount, 0, len(mutate))
	for _, m := range mutate {
		acc := CreditAccount{}
		m(&acc)
		raw = append(raw, acc)
	}
	return normalize(Profile{CreditAccounts: raw}).accounts
}

func TestPaymentStatusScore(t *testing.T) {
	tests := []struct {
		status   string
		expected float64
	}{
		{"current", 100},
		{"Paid in full", 100},
		{"30-days", 70},
		{"late", 70},
		{"60-days", 40},
		{"90-days", 20},
		{"120-days", 10},
		{"charged-off", 0},
		{"in default", 0},
		{"150-days", 50},
		{"", 50},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			accounts := accountsWith(func(a *CreditAccount) { a.PaymentStatus = tt.status })
			assert.Equal(t, tt.expected, paymentHistoryScore(accounts))
		})
	}
}

func TestPaymentHistoryScore(t *testing.T) {
	assert.Equal(t, 50.0, paymentHistoryScore(nil))

	accounts := accountsWith(
		func(a *CreditAccount) { a.PaymentStatus = "current" },
		func(a *CreditAccount) { a.PaymentStatus = "60-days" },
		func(a *CreditAccount) { a.PaymentStatus = "charged-off" },
	)
	assert.InDelta(t, 46.667, paymentHistoryScore(accounts), 0.001)
}

func TestUtilizationScore(t *testing.T) {
	tests := []struct {
		name     string
		accounts []account
		expected float64
	}{
		{name: "no accounts", accounts: nil, expected: 50},
		{
			name:     "only unknown limits",
			accounts: accountsWith(func(a *CreditAccount) { a.OutstandingBalance = Num(500) }),
			expected: 50,
		},
		{name: "10 percent", accounts: singleUtilization(1000), expected: 100},
		{name: "30 percent", accounts: singleUtilization(3000), expected: 90},
		{name: "50 percent", accounts: singleUtilization(5000), expected: 70},
		{name: "70 percent", accounts: singleUtilization(7000), expected: 50},
		{name: "90 percent", accounts: singleUtilization(9000), expected: 30},
		{name: "over limit", accounts: singleUtilization(12000), expected: 10},
		{
			name: "zero limit excluded from average",
			accounts: accountsWith(
				func(a *CreditAccount) { a.OutstandingBalance = Num(9000); a.CreditLimit = Num(0) },
				func(a *CreditAccount) { a.OutstandingBalance = Num(500); a.CreditLimit = Num(10000) },
			),
			expected: 100,
		},
		{
			name: "averaged across accounts",
			accounts: accountsWith(
				func(a *CreditAccount) { a.OutstandingBalance = Num(0); a.CreditLimit = Num(10000) },
				func(a *CreditAccount) { a.OutstandingBalance = Num(8000); a.CreditLimit = Num(10000) },
			),
			expected: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, utilizationScore(tt.accounts))
		})
	}
}

func singleUtilization(balance float64) []account {
	return accountsWith(func(a *CreditAccount) {
		a.OutstandingBalance = Num(balance)
		a.CreditLimit = Num(10000)
	})
}

func TestHistoryLengthScore(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected float64
	}{
		{name: "no dates", profile: Profile{}, expected: 25},
		{
			name:     "unparseable date",
			profile:  Profile{CreditAccounts: []CreditAccount{{AccountOpenDate: "last spring"}}},
			expected: 25,
		},
		{
			name:     "future date ignored",
			profile:  Profile{CreditAccounts: []CreditAccount{{AccountOpenDate: "2030-01-01"}}},
			expected: 25,
		},
		{
			name:     "under a year",
			profile:  Profile{CreditAccounts: []CreditAccount{{AccountOpenDate: fixedNow.AddDate(0, -6, 0).Format("2006-01-02")}}},
			expected: 25,
		},
		{name: "one year", profile: openedYearsAgo(1), expected: 40},
		{name: "three years", profile: openedYearsAgo(3), expected: 55},
		{name: "five years", profile: openedYearsAgo(5), expected: 70},
		{name: "seven years", profile: openedYearsAgo(7), expected: 85},
		{name: "ten years", profile: openedYearsAgo(10), expected: 100},
		{
			name: "employment tenure alone",
			profile: Profile{
				EmploymentInfo: EmploymentInfo{EmploymentStartDate: yearsAgo(8)},
			},
			expected: 85,
		},
		{
			name: "employment tenure pooled with accounts",
			profile: Profile{
				CreditAccounts: []CreditAccount{{AccountOpenDate: yearsAgo(12)}},
				EmploymentInfo: EmploymentInfo{EmploymentStartDate: yearsAgo(2)},
			},
			expected: 85,
		},
		{
			name: "timestamp formats",
			profile: Profile{
				CreditAccounts: []CreditAccount{
					{AccountOpenDate: fixedNow.AddDate(-6, 0, 0).Format("2006-01-02T15:04:05Z07:00")},
					{AccountOpenDate: fixedNow.AddDate(-6, 0, 0).Format("2006-01-02T15:04:05")},
				},
			},
			expected: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, historyLengthScore(normalize(tt.profile), fixedNow))
		})
	}
}

func openedYearsAgo(years int) Profile {
	return Profile{CreditAccounts: []CreditAccount{{AccountOpenDate: yearsAgo(years)}}}
}

func TestCreditMixScore(t *testing.T) {
	typed := func(types ...string) []account {
		raw := make([]CreditAccount, 0, len(types))
		for _, ct := range types {
			raw = append(raw, CreditAccount{CreditType: ct})
		}
		return normalize(Profile{CreditAccounts: raw}).accounts
	}

	tests := []struct {
		name     string
		accounts []account
		expected float64
	}{
		{name: "no accounts", accounts: nil, expected: 50},
		{name: "one type", accounts: typed("credit-card"), expected: 40},
		{name: "case folded duplicates", accounts: typed("credit-card", "Credit-Card"), expected: 40},
		{name: "empty type counts", accounts: typed("", "credit-card"), expected: 60},
		{name: "three types", accounts: typed("credit-card", "auto-loan", "home-loan"), expected: 80},
		{name: "four types", accounts: typed("credit-card", "auto-loan", "home-loan", "student-loan"), expected: 100},
		{name: "five types", accounts: typed("credit-card", "auto-loan", "home-loan", "student-loan", "microfinance"), expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, creditMixScore(tt.accounts))
		})
	}
}

func TestRecentActivityScore(t *testing.T) {
	tests := []struct {
		token     string
		substring float64
		bucketed  float64
	}{
		{"", 70, 70},
		{"0-2", 100, 100},
		{"3-5", 80, 80},
		{"6-10", 100, 60},
		{"10+", 100, 40},
		{"7", 60, 60},
		{"4 inquiries", 80, 80},
		{"none", 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			np := normalize(Profile{CreditHistory: CreditHistory{CreditInquiries: tt.token}})
			assert.Equal(t, tt.substring, recentActivityScore(np, InquirySubstring), "substring")
			assert.Equal(t, tt.bucketed, recentActivityScore(np, InquiryBucketed), "bucketed")
		})
	}
}

func TestIncomeStabilityScore(t *testing.T) {
	income := func(amount float64, frequency string) []IncomeSource {
		return []IncomeSource{{Amount: Num(amount), Frequency: frequency}}
	}
	expenses := func(v float64) *FinancialStability {
		return &FinancialStability{MonthlyExpenses: Num(v)}
	}

	tests := []struct {
		name     string
		profile  Profile
		expected float64
	}{
		{name: "no income", profile: Profile{}, expected: 50},
		{name: "negative total", profile: Profile{IncomeSources: income(-100, "monthly")}, expected: 50},
		{name: "above 50000", profile: Profile{IncomeSources: income(60000, "monthly")}, expected: 90},
		{name: "above 30000", profile: Profile{IncomeSources: income(40000, "Monthly")}, expected: 80},
		{name: "above 20000", profile: Profile{IncomeSources: income(25000, "monthly")}, expected: 70},
		{name: "above 10000", profile: Profile{IncomeSources: income(15000, "monthly")}, expected: 60},
		{name: "modest income", profile: Profile{IncomeSources: income(5000, "monthly")}, expected: 50},
		{name: "weekly", profile: Profile{IncomeSources: income(10000, "weekly")}, expected: 80},
		{name: "bi-weekly reads as weekly", profile: Profile{IncomeSources: income(10000, "bi-weekly")}, expected: 80},
		{name: "annual exactly 50000 a month", profile: Profile{IncomeSources: income(600000, "annually")}, expected: 80},
		{name: "yearly", profile: Profile{IncomeSources: income(720000, "yearly")}, expected: 90},
		{name: "quarterly reads as monthly", profile: Profile{IncomeSources: income(40000, "quarterly")}, expected: 80},
		{name: "missing frequency reads as monthly", profile: Profile{IncomeSources: income(40000, "")}, expected: 80},
		{
			name: "other monthly income added",
			profile: Profile{
				IncomeSources:      income(5000, "monthly"),
				FinancialStability: &FinancialStability{OtherMonthlyIncome: Num(30000)},
			},
			expected: 80,
		},
		{
			name:     "zero expenses use income bands",
			profile:  Profile{IncomeSources: income(40000, "monthly"), FinancialStability: expenses(0)},
			expected: 80,
		},
		{name: "dti 0.25", profile: Profile{IncomeSources: income(40000, "monthly"), FinancialStability: expenses(10000)}, expected: 100},
		{name: "dti 0.3", profile: Profile{IncomeSources: income(10000, "monthly"), FinancialStability: expenses(3000)}, expected: 100},
		{name: "dti 0.5", profile: Profile{IncomeSources: income(40000, "monthly"), FinancialStability: expenses(20000)}, expected: 80},
		{name: "dti 0.7", profile: Profile{IncomeSources: income(10000, "monthly"), FinancialStability: expenses(7000)}, expected: 60},
		{name: "dti 0.9", profile: Profile{IncomeSources: income(10000, "monthly"), FinancialStability: expenses(9000)}, expected: 40},
		{name: "dti above 0.9", profile: Profile{IncomeSources: income(10000, "monthly"), FinancialStability: expenses(12000)}, expected: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, incomeStabilityScore(normalize(tt.profile)))
		})
	}
}
