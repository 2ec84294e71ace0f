// internal/scoring/profile.go
package scoring

// CreditAccount is one tradeline as reported by the applicant.
type CreditAccount struct {
	LenderName         string `json:"lenderName"`
	CreditType         string `json:"creditType"`
	OutstandingBalance Number `json:"outstandingBalance"`
	CreditLimit        Number `json:"creditLimit"`
	MonthlyPayment     Number `json:"monthlyPayment"`
	PaymentStatus      string `json:"paymentStatus"`
	AccountOpenDate    string `json:"accountOpenDate"`
	LastPaymentDate    string `json:"lastPaymentDate"`
}

type IncomeSource struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	Amount    Number `json:"amount"`
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate"`
	IsStable  string `json:"isStable"`
}

type EmploymentInfo struct {
	EmploymentType      string `json:"employmentType"`
	Industry            string `json:"industry"`
	CompanyName         string `json:"companyName"`
	JobTitle            string `json:"jobTitle"`
	EmploymentStartDate string `json:"employmentStartDate"`
	WorkExperience      string `json:"workExperience"`
}

type FinancialStability struct {
	MonthlyExpenses      Number `json:"monthlyExpenses"`
	EmergencyFund        Number `json:"emergencyFund"`
	OtherMonthlyIncome   Number `json:"otherMonthlyIncome"`
	ExpectedIncomeGrowth string `json:"expectedIncomeGrowth"`
}

type CreditHistory struct {
	Bankruptcy            string `json:"bankruptcy"`
	AccountsInCollections string `json:"accountsInCollections"`
	CreditInquiries       string `json:"creditInquiries"`
	CreditFreezeStatus    string `json:"creditFreezeStatus"`
}

// Profile is the applicant's self-reported financial profile. FinancialStability is
// nil when the applicant skipped that step entirely.
type Profile struct {
	CreditAccounts     []CreditAccount     `json:"creditAccounts"`
	IncomeSources      []IncomeSource      `json:"incomeSources"`
	EmploymentInfo     EmploymentInfo      `json:"employmentInfo"`
	FinancialStability *FinancialStability `json:"financialStability,omitempty"`
	CreditHistory      CreditHistory       `json:"creditHistory"`
}

// RiskLevel is the ordinal tier derived from the final score.
type RiskLevel string

const (
	RiskExcellent RiskLevel = "Excellent"
	RiskGood      RiskLevel = "Good"
	RiskFair      RiskLevel = "Fair"
	RiskPoor      RiskLevel = "Poor"
	RiskVeryPoor  RiskLevel = "Very Poor"
)

// Breakdown holds the six sub-scores, each in [0,100] with one decimal.
type Breakdown struct {
	PaymentHistory    float64 `json:"payment_history"`
	CreditUtilization float64 `json:"credit_utilization"`
	HistoryLength     float64 `json:"history_length"`
	CreditMix         float64 `json:"credit_mix"`
	RecentActivity    float64 `json:"recent_activity"`
	IncomeStability   float64 `json:"income_stability"`
}

type ScoreResult struct {
	Score           int       `json:"score"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Breakdown       Breakdown `json:"breakdown"`
	Advice          []string  `json:"advice"`
	Recommendations []string  `json:"recommendations"`
}
