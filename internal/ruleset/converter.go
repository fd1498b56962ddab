package ruleset

import (
	"fmt"
	"net"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ToCommon translates a raw ruleset body of the given source dialect
// into lines in the common intermediate form: either a bare one-field
// match-everything keyword with no value (e.g. "FINAL") or
// "TYPE,VALUE[,no-resolve]".
// Target emitters re-tag each line with a group name via
// TransformRuleToCommon and filter kinds their dialect can't express.
func ToCommon(content string, ruleType model.RuleType) []string {
	switch ruleType {
	case model.RuleTypeQuantumultX:
		return quantumultLinesToCommon(content)
	case model.RuleTypeClashDomain, model.RuleTypeClashIPCIDR, model.RuleTypeClashClassical:
		return clashLinesToCommon(content)
	default: // RuleTypeSurge, and the default when no dialect tag was given
		return surgeLinesToCommon(content)
	}
}

func nonEmptyLines(content string) []string {
	lines := strings.Split(content, "\n")
	return lo.FilterMap(lines, func(l string, _ int) (string, bool) {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") || strings.HasPrefix(l, ";") || strings.HasPrefix(l, "//") {
			return "", false
		}
		return l, true
	})
}

// surgeLinesToCommon passes Surge-dialect lines through unchanged;
// Surge's native rule syntax already matches the common form.
func surgeLinesToCommon(content string) []string {
	return nonEmptyLines(content)
}

type clashPayload struct {
	Payload []string `yaml:"payload"`
}

// clashLinesToCommon handles both shapes of Clash-dialect rulesets:
// a `payload:` YAML document (Clash rule-provider format) and a bare
// line list. Each resulting line is either already a fully-typed
// classical rule (passed through) or a bare domain/IP-CIDR entry
// translated per the domain-suffix/keyword/CIDR heuristic.
func clashLinesToCommon(content string) []string {
	var lines []string
	var doc clashPayload
	if err := yaml.Unmarshal([]byte(content), &doc); err == nil && len(doc.Payload) > 0 {
		lines = doc.Payload
	} else {
		lines = nonEmptyLines(content)
	}

	return lo.FilterMap(lines, func(raw string, _ int) (string, bool) {
		line := strings.Trim(strings.TrimSpace(raw), "'\"")
		if line == "" {
			return "", false
		}
		return clashLineToCommon(line), true
	})
}

func clashLineToCommon(line string) string {
	if strings.Contains(line, ",") {
		// already a fully-typed classical rule, e.g. "DOMAIN,x.com,no-resolve"
		return line
	}

	if idx := strings.Index(line, "/"); idx >= 0 {
		host := line[:idx]
		if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
			return "IP-CIDR," + line
		}
		return "IP-CIDR6," + line
	}

	switch {
	case strings.HasSuffix(line, ".*"):
		value := strings.TrimSuffix(line, ".*")
		value = strings.TrimPrefix(strings.TrimPrefix(value, "+."), ".")
		return "DOMAIN-KEYWORD," + value
	case strings.HasPrefix(line, "+."):
		return "DOMAIN-SUFFIX," + strings.TrimPrefix(line, "+.")
	case strings.HasPrefix(line, "."):
		return "DOMAIN-SUFFIX," + strings.TrimPrefix(line, ".")
	default:
		return "DOMAIN," + line
	}
}

var quantumultTypeRewrite = map[string]string{
	"HOST":         "DOMAIN",
	"HOST-SUFFIX":  "DOMAIN-SUFFIX",
	"HOST-KEYWORD": "DOMAIN-KEYWORD",
	"IP6-CIDR":     "IP-CIDR6",
}

// quantumultLinesToCommon swaps Quantumult X's HOST*/IP6-CIDR naming
// for the common DOMAIN*/IP-CIDR6 naming, strips any trailing
// group/policy field, and preserves a no-resolve suffix.
func quantumultLinesToCommon(content string) []string {
	return lo.Map(nonEmptyLines(content), func(line string, _ int) string {
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) == 0 {
			return ""
		}

		fields[0] = strings.ToUpper(fields[0])
		if rewritten, ok := quantumultTypeRewrite[fields[0]]; ok {
			fields[0] = rewritten
		}

		noResolve := len(fields) > 0 && strings.EqualFold(fields[len(fields)-1], "no-resolve")
		if noResolve {
			fields = fields[:len(fields)-1]
		}
		if len(fields) > 2 {
			fields = fields[:2] // drop the source's own trailing group/policy field
		}
		if noResolve {
			fields = append(fields, "no-resolve")
		}
		return strings.Join(fields, ",")
	})
}

// TransformRuleToCommon re-tags a common-form rule line with the
// destination group: a bare one-field line (e.g. "RULE") becomes
// "RULE,group"; a typed line becomes "TYPE,VALUE,group", with its
// no-resolve suffix preserved only when noResolveOnly is true.
func TransformRuleToCommon(rule, group string, noResolveOnly bool) string {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return ""
	}

	fields := strings.Split(rule, ",")
	if len(fields) == 1 {
		return fmt.Sprintf("RULE,%s", group)
	}

	noResolve := strings.EqualFold(strings.TrimSpace(fields[len(fields)-1]), "no-resolve")
	if noResolve {
		fields = fields[:len(fields)-1]
	}

	out := append(append([]string{}, fields...), group)
	if noResolve && noResolveOnly {
		out = append(out, "no-resolve")
	}
	return strings.Join(out, ",")
}
