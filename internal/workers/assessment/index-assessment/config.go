// internal/workers/assessment/index-assessment/config.go
package indexassessment

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
	Refresh string // "", "true", "wait_for"
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Index:   "credit_assessments",
		Refresh: "wait_for",
	}
}
