// internal/workers/dining/recommend-restaurants/config.go
package recommendrestaurants

import "time"

type Config struct {
	// Timeout covers dataset load, geocoding and ranking.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
