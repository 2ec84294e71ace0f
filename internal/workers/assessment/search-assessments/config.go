// internal/workers/assessment/search-assessments/config.go
package searchassessments

import "time"

type Config struct {
	Timeout     time.Duration
	Index       string
	DefaultSize int
	MaxSize     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		Index:       "credit_assessments",
		DefaultSize: 20,
		MaxSize:     100,
	}
}
