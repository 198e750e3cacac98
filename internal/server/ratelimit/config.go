package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig sets the budget for one endpoint.
type EndpointConfig struct {
	Path   string // path pattern, prefix match when it ends with "/"
	Method string
	Limit  int // requests per window; <= 0 means unmetered
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit when 0
}

// LoadConfig builds rate limiting configuration from environment
// variables, falling back to the built-in endpoint budgets.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Endpoints:       DefaultEndpointConfigs(),
	}
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Endpoints       []EndpointConfig
}

// DefaultEndpointConfigs returns per-endpoint budgets. Polish calls
// may reach the LLM and PDF rendering starts a headless browser, so
// both get tighter limits than plain page loads.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/download/pdf", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/polish", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/polish_cover", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/build", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/swap", Method: "GET", Limit: 240, Window: time.Minute, Burst: 40},
		{Path: "/health", Method: "GET", Limit: 0},
	}
}

// matchEndpoint finds the first config matching the path and method.
// Exact paths match directly; patterns ending with "/" match as
// prefixes.
func matchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		c := &configs[i]
		if c.Method != "" && c.Method != method {
			continue
		}
		if strings.HasSuffix(c.Path, "/") && c.Path != path {
			if strings.HasPrefix(path, c.Path) {
				return c
			}
			continue
		}
		if c.Path == path {
			return c
		}
	}
	return nil
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
