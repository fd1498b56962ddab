package config

import (
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// Document is one external config layer: an ACL4SSR-style INI
// document contributing its own rulesets, groups, renames, emojis,
// and overrides, read via the same key=value scanning the original
// config document format uses. Fields left at their zero value do
// not override a lower-precedence layer (see Merge).
type Document struct {
	Rulesets    []model.Ruleset
	Groups      []model.Group
	Renames     []model.RenameRule
	Emojis      []model.EmojiRule
	BaseConfig  string
	ManagedConfigPrefix string
	Overrides   FlagOverrides
}

// FlagOverrides holds the subset of ExtraSettings a config document
// or request's query string may set; a nil *bool means "not
// specified", so Merge can tell "false" from "absent".
type FlagOverrides struct {
	TFO              *bool
	UDP              *bool
	SkipCertVerify   *bool
	TLS13            *bool
	AddEmoji         *bool
	RemoveEmoji      *bool
	AppendProxyType  *bool
	NodelistMode     *bool
	EnableRuleGen    *bool
	ClashNewFieldName *bool
	FilterDeprecated *bool
	SortFlag         *bool
}

// ParseDocument reads one external-config document's lines (after
// !!import: expansion), dispatching each recognized key to its
// mini-syntax parser. Unrecognized lines are ignored, matching the
// original ACL4SSR parser's forgiving posture.
func ParseDocument(content string, readFile func(string) (string, error)) Document {
	var doc Document

	lines := splitLines(content)
	lines = ExpandImports(lines, readFile)

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "ruleset="):
			if rs, ok := ParseRulesetLine(strings.TrimPrefix(line, "ruleset=")); ok {
				doc.Rulesets = append(doc.Rulesets, rs)
			}
		case strings.HasPrefix(line, "custom_proxy_group="):
			if g, ok := ParseGroupLine(strings.TrimPrefix(line, "custom_proxy_group=")); ok {
				doc.Groups = append(doc.Groups, g)
			}
		case strings.HasPrefix(line, "rename="):
			if r, ok := ParseRenameLine(strings.TrimPrefix(line, "rename=")); ok {
				doc.Renames = append(doc.Renames, r)
			}
		case strings.HasPrefix(line, "emoji="):
			if e, ok := ParseEmojiLine(strings.TrimPrefix(line, "emoji=")); ok {
				doc.Emojis = append(doc.Emojis, e)
			}
		case strings.HasPrefix(line, "base_config="):
			doc.BaseConfig = strings.TrimPrefix(line, "base_config=")
		case strings.HasPrefix(line, "managed_config_prefix="):
			doc.ManagedConfigPrefix = strings.TrimPrefix(line, "managed_config_prefix=")
		default:
			parseFlagLine(line, &doc.Overrides)
		}
	}
	return doc
}

func parseFlagLine(line string, f *FlagOverrides) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return
	}
	key, value := line[:idx], line[idx+1:]
	b, err := strconv.ParseBool(value)
	if err != nil {
		return
	}
	switch key {
	case "tfo":
		f.TFO = &b
	case "udp":
		f.UDP = &b
	case "skip_cert_verify":
		f.SkipCertVerify = &b
	case "tls13":
		f.TLS13 = &b
	case "add_emoji":
		f.AddEmoji = &b
	case "remove_emoji":
		f.RemoveEmoji = &b
	case "append_proxy_type", "append_type":
		f.AppendProxyType = &b
	case "nodelist", "list":
		f.NodelistMode = &b
	case "enable_rule_generator":
		f.EnableRuleGen = &b
	case "clash_new_field_name":
		f.ClashNewFieldName = &b
	case "filter_deprecated", "fdn":
		f.FilterDeprecated = &b
	case "sort", "sort_flag":
		f.SortFlag = &b
	}
}
