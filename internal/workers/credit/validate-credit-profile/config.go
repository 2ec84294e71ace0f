// internal/workers/credit/validate-credit-profile/config.go
package validatecreditprofile

import "time"

type Config struct {
	Timeout       time.Duration
	FailOnInvalid bool
	RegistryPath  string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		RegistryPath: "configs/activity-registry.json",
	}
}
