package model

import "strings"

// RuleType is the dialect a ruleset's raw content is written in,
// inferred from a URL prefix tag or defaulted to Surge.
type RuleType string

const (
	RuleTypeSurge          RuleType = "surge"
	RuleTypeQuantumultX    RuleType = "quanx"
	RuleTypeClashDomain    RuleType = "clash-domain"
	RuleTypeClashIPCIDR    RuleType = "clash-ipcidr"
	RuleTypeClashClassical RuleType = "clash-classical"
)

// ruleTypeTags maps the dialect tag a ruleset path may be prefixed
// with to its RuleType. No tag is a prefix of another, so the order of
// the entries does not change which one matches.
var ruleTypeTags = []struct {
	tag string
	rt  RuleType
}{
	{"clash-domain:", RuleTypeClashDomain},
	{"clash-ipcidr:", RuleTypeClashIPCIDR},
	{"clash-classical:", RuleTypeClashClassical},
	{"quanx:", RuleTypeQuantumultX},
	{"surge:", RuleTypeSurge},
}

// Ruleset is one group's routing-rule source: a local path, a remote
// URL, or an inline literal (rule_path prefixed with "[]").
type Ruleset struct {
	Group         string
	RulePath      string // original path as given, tag stripped
	RulePathTyped string // original path including its dialect tag, if any
	RuleType      RuleType
	RuleContent   string // populated lazily by the fetcher
	UpdateInterval int
}

// IsInline reports whether RulePath carries literal content rather
// than a fetchable location.
func (r Ruleset) IsInline() bool {
	return strings.HasPrefix(r.RulePath, "[]")
}

// InlineContent returns the literal content after the "[]" marker.
// Callers must check IsInline first.
func (r Ruleset) InlineContent() string {
	return strings.TrimPrefix(r.RulePath, "[]")
}

// ParseRulesetPath splits a raw config-supplied path into its
// stripped RulePath and inferred RuleType, per spec §4.6: strip any
// leading dialect tag and keep the remainder as RulePath.
func ParseRulesetPath(raw string) (rulePath string, ruleType RuleType) {
	for _, e := range ruleTypeTags {
		if strings.HasPrefix(raw, e.tag) {
			return strings.TrimPrefix(raw, e.tag), e.rt
		}
	}
	return raw, RuleTypeSurge
}

// NewRuleset builds a Ruleset from a group name and a raw,
// possibly-tagged path string.
func NewRuleset(group, rawPath string, interval int) Ruleset {
	path, rt := ParseRulesetPath(rawPath)
	return Ruleset{
		Group:          group,
		RulePath:       path,
		RulePathTyped:  rawPath,
		RuleType:       rt,
		UpdateInterval: interval,
	}
}
