// internal/workers/credit/calculate-credit-score/config.go
package calculatecreditscore

import "time"

type Config struct {
	Timeout         time.Duration
	CacheEnabled    bool
	CacheTTL        time.Duration
	InquiryMatching string // substring | bucketed
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		CacheEnabled:    true,
		CacheTTL:        time.Hour,
		InquiryMatching: "substring",
	}
}
