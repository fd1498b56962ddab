package config

import "testing"

func TestParseGroupLine(t *testing.T) {
	g, ok := ParseGroupLine("Proxy`select`DIRECT`REJECT`http://example.com/test`300,5,50")
	if !ok {
		t.Fatalf("expected ParseGroupLine to succeed")
	}
	if g.Name != "Proxy" {
		t.Errorf("expected name Proxy, got %q", g.Name)
	}
	if string(g.Type) != "select" {
		t.Errorf("expected type select, got %q", g.Type)
	}
	if len(g.Proxies) != 2 || g.Proxies[0] != "DIRECT" || g.Proxies[1] != "REJECT" {
		t.Errorf("expected proxies [DIRECT REJECT], got %v", g.Proxies)
	}
	if g.URL != "http://example.com/test" {
		t.Errorf("expected url, got %q", g.URL)
	}
	if g.Interval != 300 || g.Timeout != 5 || g.Tolerance != 50 {
		t.Errorf("expected interval/timeout/tolerance 300/5/50, got %d/%d/%d", g.Interval, g.Timeout, g.Tolerance)
	}
}

func TestParseRulesetLine(t *testing.T) {
	rs, ok := ParseRulesetLine("Proxy,https://example.com/list.txt,3600")
	if !ok {
		t.Fatalf("expected ParseRulesetLine to succeed")
	}
	if rs.Group != "Proxy" {
		t.Errorf("expected group Proxy, got %q", rs.Group)
	}
	if rs.UpdateInterval != 3600 {
		t.Errorf("expected interval 3600, got %d", rs.UpdateInterval)
	}
}

func TestParseRulesetLineDefaultInterval(t *testing.T) {
	rs, ok := ParseRulesetLine("Proxy,[]GEOIP,CN")
	if !ok {
		t.Fatalf("expected ParseRulesetLine to succeed")
	}
	if rs.UpdateInterval != 86400 {
		t.Errorf("expected default interval 86400, got %d", rs.UpdateInterval)
	}
}

func TestParseRenameLine(t *testing.T) {
	r, ok := ParseRenameLine("HK@Hong Kong")
	if !ok || r.Match != "HK" || r.Replacement != "Hong Kong" {
		t.Errorf("unexpected rename result: %+v ok=%v", r, ok)
	}
}

func TestParseEmojiLine(t *testing.T) {
	e, ok := ParseEmojiLine("(?i)hong ?kong|hk,🇭🇰")
	if !ok {
		t.Fatalf("expected ParseEmojiLine to succeed")
	}
	if e.Emoji != "🇭🇰" {
		t.Errorf("expected emoji flag, got %q", e.Emoji)
	}
}

func TestExpandImports(t *testing.T) {
	reads := map[string]string{
		"included.ini": "ruleset=Proxy,[]GEOIP,CN\n",
	}
	readFile := func(path string) (string, error) {
		return reads[path], nil
	}
	lines := []string{"custom_proxy_group=Proxy`select`DIRECT", "!!import:included.ini"}
	out := ExpandImports(lines, readFile)
	if len(out) != 2 {
		t.Fatalf("expected 2 expanded lines, got %d: %v", len(out), out)
	}
	if out[1] != "ruleset=Proxy,[]GEOIP,CN" {
		t.Errorf("expected imported line, got %q", out[1])
	}
}
