// Package scoring turns an applicant's self-reported financial profile into a
// 300-900 credit score, a risk tier and rule-based guidance.
//
// The engine is pure: it performs no I/O, holds no mutable state and never fails.
// Malformed values degrade to the neutral defaults of each factor.
package scoring

import "time"

// Engine computes scores. The zero value is not usable; call NewEngine.
type Engine struct {
	now             func() time.Time
	inquiryMatching InquiryMatching
}

type Option func(*Engine)

// WithClock fixes the reference time used for account ages and employment tenure.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithInquiryMatching selects how credit inquiry tokens are interpreted. Unknown
// modes fall back to substring matching.
func WithInquiryMatching(mode InquiryMatching) Option {
	return func(e *Engine) {
		if mode == InquiryBucketed {
			e.inquiryMatching = InquiryBucketed
			return
		}
		e.inquiryMatching = InquirySubstring
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:             time.Now,
		inquiryMatching: InquirySubstring,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// ComputeScore scores a profile with the default engine.
func ComputeScore(p Profile) ScoreResult {
	return defaultEngine.Compute(p)
}

// Compute runs the full pipeline for one profile.
func (e *Engine) Compute(p Profile) ScoreResult {
	np := normalize(p)

	raw := Breakdown{
		PaymentHistory:    paymentHistoryScore(np.accounts),
		CreditUtilization: utilizationScore(np.accounts),
		HistoryLength:     historyLengthScore(np, e.now()),
		CreditMix:         creditMixScore(np.accounts),
		RecentActivity:    recentActivityScore(np, e.inquiryMatching),
		IncomeStability:   incomeStabilityScore(np),
	}

	score := rescale(composite(raw))
	rounded := raw.rounded()
	advice, recommendations := buildAdvice(rounded, score)

	return ScoreResult{
		Score:           score,
		RiskLevel:       Classify(score),
		Breakdown:       rounded,
		Advice:          advice,
		Recommendations: recommendations,
	}
}

func (b Breakdown) rounded() Breakdown {
	return Breakdown{
		PaymentHistory:    roundTenth(b.PaymentHistory),
		CreditUtilization: roundTenth(b.CreditUtilization),
		HistoryLength:     roundTenth(b.HistoryLength),
		CreditMix:         roundTenth(b.CreditMix),
		RecentActivity:    roundTenth(b.RecentActivity),
		IncomeStability:   roundTenth(b.IncomeStability),
	}
}
