package config

import (
	"testing"
	"time"
)

func TestLoadGlobalSettingsDefaults(t *testing.T) {
	for _, key := range []string{
		"SUBCONVERTER_LISTEN", "SUBCONVERTER_BASE_PATH", "SUBCONVERTER_DEFAULT_URL",
		"SUBCONVERTER_API_TOKEN", "SUBCONVERTER_MAX_RULESETS", "SUBCONVERTER_MAX_RULES",
		"SUBCONVERTER_FETCH_TIMEOUT", "SUBCONVERTER_RULESET_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	g := LoadGlobalSettings()
	if g.ListenAddr != "127.0.0.1:25500" {
		t.Errorf("expected default listen addr, got %q", g.ListenAddr)
	}
	if g.MaxAllowedRulesets != 64 || g.MaxAllowedRules != 32768 {
		t.Errorf("expected default caps 64/32768, got %d/%d", g.MaxAllowedRulesets, g.MaxAllowedRules)
	}
	if g.FetchTimeout != 15*time.Second || g.RulesetTimeout != 10*time.Second {
		t.Errorf("expected default timeouts 15s/10s, got %v/%v", g.FetchTimeout, g.RulesetTimeout)
	}
}

func TestLoadGlobalSettingsFromEnv(t *testing.T) {
	t.Setenv("SUBCONVERTER_LISTEN", "0.0.0.0:9999")
	t.Setenv("SUBCONVERTER_MAX_RULES", "100")
	t.Setenv("SUBCONVERTER_FETCH_TIMEOUT", "5s")

	g := LoadGlobalSettings()
	if g.ListenAddr != "0.0.0.0:9999" {
		t.Errorf("expected overridden listen addr, got %q", g.ListenAddr)
	}
	if g.MaxAllowedRules != 100 {
		t.Errorf("expected overridden max rules 100, got %d", g.MaxAllowedRules)
	}
	if g.FetchTimeout != 5*time.Second {
		t.Errorf("expected overridden fetch timeout 5s, got %v", g.FetchTimeout)
	}
}
