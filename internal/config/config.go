package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration of the map explorer service. All
// values come from the environment; the backend hosts default to the public
// deployments so a bare process is usable out of the box.
type Config struct {
	Port            string
	MaillageBaseURL string
	DataAPIBaseURL  string
	AuthBaseURL     string
	RedisAddr       string
	RequestTimeout  time.Duration
	OutboundRPS     float64
	CacheTTL        time.Duration
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		MaillageBaseURL: getenv("MAILLAGE_BASE_URL", "https://maillage.homepedia.spectrum-app.cloud"),
		DataAPIBaseURL:  getenv("DATA_API_BASE_URL", "https://api.homepedia.spectrum-app.cloud"),
		AuthBaseURL:     getenv("AUTH_BASE_URL", "https://api.homepedia.spectrum-app.cloud"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RequestTimeout:  getduration("REQUEST_TIMEOUT_SECONDS", 10*time.Second),
		OutboundRPS:     getfloat("OUTBOUND_RPS", 20),
		CacheTTL:        getduration("CACHE_TTL_SECONDS", 5*time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
