// internal/workers/communication/send-score-report/config.go
package sendscorereport

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		EmailEnabled: true,
	}
}
