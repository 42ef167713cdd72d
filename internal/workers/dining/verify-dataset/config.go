// internal/workers/dining/verify-dataset/config.go
package verifydataset

import "time"

type Config struct {
	Timeout time.Duration
	// MaxAlertProblems bounds how many integrity problems go into one alert body.
	MaxAlertProblems int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		MaxAlertProblems: 20,
	}
}
