package ruleset

import (
	"strings"

	"github.com/samber/lo"
)

// Target names accepted by FilterAllowed, matching the emitter names
// used throughout internal/emitter.
const (
	TargetClash       = "clash"
	TargetSurge       = "surge"
	TargetSurge2      = "surge2"
	TargetSurfboard   = "surfboard"
	TargetQuantumultX = "quantumultx"
	TargetSingBox     = "singbox"
)

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, i := range items {
		m[i] = true
	}
	return m
}

func union(sets ...map[string]bool) map[string]bool {
	m := make(map[string]bool)
	for _, s := range sets {
		for k := range s {
			m[k] = true
		}
	}
	return m
}

func without(base map[string]bool, items ...string) map[string]bool {
	m := make(map[string]bool, len(base))
	for k := range base {
		m[k] = true
	}
	for _, i := range items {
		delete(m, i)
	}
	return m
}

// "RULE" is the synthetic bare-keyword form TransformRuleToCommon
// emits for one-field inputs; every target allow-list accepts it and
// remaps it to its own native catch-all syntax ("MATCH", "FINAL", ...)
// at emit time.
var clashAllow = set(
	"DOMAIN", "DOMAIN-SUFFIX", "DOMAIN-KEYWORD", "IP-CIDR", "IP-CIDR6",
	"SRC-IP-CIDR", "SRC-PORT", "DST-PORT", "GEOIP", "MATCH", "FINAL",
	"PROCESS-NAME", "RULE",
)

var surgeAllow = union(clashAllow, set(
	"USER-AGENT", "URL-REGEX", "AND", "OR", "NOT", "IN-PORT", "DEST-PORT", "SRC-IP",
))

var surge2Allow = without(surgeAllow, "AND", "OR", "NOT")

var quantumultXAllow = set(
	"DOMAIN", "DOMAIN-SUFFIX", "DOMAIN-KEYWORD", "IP-CIDR", "IP-CIDR6",
	"USER-AGENT", "HOST", "HOST-SUFFIX", "HOST-KEYWORD", "GEOIP", "MATCH", "FINAL", "RULE",
)

var singBoxAllow = union(clashAllow, set(
	"IP-VERSION", "INBOUND", "PROTOCOL", "NETWORK", "GEOSITE", "PROCESS-PATH",
	"PACKAGE-NAME", "PORT", "PORT-RANGE", "SRC-PORT-RANGE", "USER", "USER-ID", "DOMAIN-REGEX",
))

var allowLists = map[string]map[string]bool{
	TargetClash:       clashAllow,
	TargetSurge:       surgeAllow,
	TargetSurge2:      surge2Allow,
	TargetSurfboard:   surge2Allow,
	TargetQuantumultX: quantumultXAllow,
	TargetSingBox:     singBoxAllow,
}

// FilterAllowed drops any rule whose type isn't in target's allow-list,
// per §6.4. Unrecognized targets pass every rule through unfiltered.
func FilterAllowed(rules []string, target string) []string {
	allow, ok := allowLists[target]
	if !ok {
		return rules
	}
	return lo.Filter(rules, func(r string, _ int) bool {
		typ := strings.ToUpper(strings.SplitN(r, ",", 2)[0])
		return allow[typ]
	})
}
