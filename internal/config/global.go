// Package config loads process-wide settings and merges the three
// precedence layers (global, external config document, request query
// parameters) that together produce one request's ExtraSettings,
// Groups, and Rulesets.
package config

import (
	"os"
	"strconv"
	"time"
)

// GlobalSettings is loaded once at process start from environment
// variables, mirroring the
// teacher's own env-driven configuration style.
type GlobalSettings struct {
	ListenAddr       string
	BasePath         string
	DefaultURL       string
	APIAccessToken   string
	MaxAllowedRulesets int
	MaxAllowedRules    int
	FetchTimeout     time.Duration
	RulesetTimeout   time.Duration
	DefaultSettings  ExtraSettingsDoc
	ManagedConfigPrefix string
}

// LoadGlobalSettings reads every SUBCONVERTER_* environment variable,
// falling back to the documented defaults when unset.
func LoadGlobalSettings() GlobalSettings {
	return GlobalSettings{
		ListenAddr:         envOr("SUBCONVERTER_LISTEN", "127.0.0.1:25500"),
		BasePath:           envOr("SUBCONVERTER_BASE_PATH", "."),
		DefaultURL:         os.Getenv("SUBCONVERTER_DEFAULT_URL"),
		APIAccessToken:     os.Getenv("SUBCONVERTER_API_TOKEN"),
		MaxAllowedRulesets: envInt("SUBCONVERTER_MAX_RULESETS", 64),
		MaxAllowedRules:    envInt("SUBCONVERTER_MAX_RULES", 32768),
		FetchTimeout:       envDuration("SUBCONVERTER_FETCH_TIMEOUT", 15*time.Second),
		RulesetTimeout:     envDuration("SUBCONVERTER_RULESET_TIMEOUT", 10*time.Second),
		ManagedConfigPrefix: os.Getenv("SUBCONVERTER_MANAGED_CONFIG_PREFIX"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
