package config

import (
	"errors"
	"testing"
)

func noFile(string) (string, error) {
	return "", errors.New("no files in this test")
}

func TestParseDocument(t *testing.T) {
	content := "custom_proxy_group=Proxy`select`DIRECT`REJECT\n" +
		"ruleset=Proxy,[]GEOIP,CN\n" +
		"rename=HK@Hong Kong\n" +
		"emoji=HK,🇭🇰\n" +
		"base_config=port: 7890\n" +
		"udp=true\n"

	doc := ParseDocument(content, noFile)

	if len(doc.Groups) != 1 || doc.Groups[0].Name != "Proxy" {
		t.Errorf("expected one group named Proxy, got %+v", doc.Groups)
	}
	if len(doc.Rulesets) != 1 || doc.Rulesets[0].Group != "Proxy" {
		t.Errorf("expected one ruleset for Proxy, got %+v", doc.Rulesets)
	}
	if len(doc.Renames) != 1 || doc.Renames[0].Match != "HK" {
		t.Errorf("expected one rename rule, got %+v", doc.Renames)
	}
	if len(doc.Emojis) != 1 || doc.Emojis[0].Emoji != "🇭🇰" {
		t.Errorf("expected one emoji rule, got %+v", doc.Emojis)
	}
	if doc.BaseConfig != "port: 7890" {
		t.Errorf("expected base_config captured, got %q", doc.BaseConfig)
	}
	if doc.Overrides.UDP == nil || !*doc.Overrides.UDP {
		t.Errorf("expected udp override true, got %+v", doc.Overrides.UDP)
	}
}

func TestParseFlagLineIgnoresMalformed(t *testing.T) {
	var f FlagOverrides
	parseFlagLine("not-a-flag-line", &f)
	parseFlagLine("tfo=notabool", &f)
	if f.TFO != nil {
		t.Errorf("expected TFO to remain unset on malformed input, got %v", f.TFO)
	}
}
