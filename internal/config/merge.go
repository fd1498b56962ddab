package config

import (
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ExtraSettingsDoc is a placeholder name kept for GlobalSettings'
// DefaultSettings field; the zero value means "no global overrides".
type ExtraSettingsDoc = FlagOverrides

// QueryParams is the third, highest-precedence layer: the request's
// own query string, pre-split into its pieces. Include, Exclude,
// Groups, Rulesets, Renames, and Emojis are the raw mini-syntax
// strings for their respective `@`/string-delimited fields; Overrides
// carries the boolean flags. Merge does not read Include or Exclude.
type QueryParams struct {
	Include  []string
	Exclude  []string
	Groups   []string
	Rulesets []string
	Renames  []string
	Emojis   []string
	Overrides FlagOverrides
}

// Merge combines the three precedence layers lowest to highest:
// global settings, an optional external config document, and the
// request's own query parameters. Groups and Rulesets from every
// layer that supplies them are concatenated (a request augments,
// never silently replaces, an external config's declarations);
// boolean flags follow strict override-if-set layering.
func Merge(global GlobalSettings, doc *Document, query QueryParams) (model.ExtraSettings, []model.Group, []model.Ruleset, string) {
	settings := model.ExtraSettings{}
	applyOverrides(&settings, global.DefaultSettings)
	settings.ManagedConfigPrefix = global.ManagedConfigPrefix

	var groups []model.Group
	var rulesets []model.Ruleset
	baseConfig := ""

	if doc != nil {
		applyOverrides(&settings, doc.Overrides)
		groups = append(groups, doc.Groups...)
		rulesets = append(rulesets, doc.Rulesets...)
		settings.RenameArray = append(settings.RenameArray, doc.Renames...)
		settings.EmojiArray = append(settings.EmojiArray, doc.Emojis...)
		if doc.BaseConfig != "" {
			baseConfig = doc.BaseConfig
		}
		if doc.ManagedConfigPrefix != "" {
			settings.ManagedConfigPrefix = doc.ManagedConfigPrefix
		}
	}

	applyOverrides(&settings, query.Overrides)
	for _, g := range query.Groups {
		if parsed, ok := ParseGroupLine(g); ok {
			groups = append(groups, parsed)
		}
	}
	for _, r := range query.Rulesets {
		if parsed, ok := ParseRulesetLine(r); ok {
			rulesets = append(rulesets, parsed)
		}
	}
	for _, r := range query.Renames {
		if parsed, ok := ParseRenameLine(r); ok {
			settings.RenameArray = append(settings.RenameArray, parsed)
		}
	}
	for _, e := range query.Emojis {
		if parsed, ok := ParseEmojiLine(e); ok {
			settings.EmojiArray = append(settings.EmojiArray, parsed)
		}
	}

	return settings, groups, rulesets, baseConfig
}

func applyOverrides(s *model.ExtraSettings, f FlagOverrides) {
	if f.TFO != nil {
		s.TFO = model.TriFromBool(*f.TFO)
	}
	if f.UDP != nil {
		s.UDP = model.TriFromBool(*f.UDP)
	}
	if f.SkipCertVerify != nil {
		s.SkipCertVerify = model.TriFromBool(*f.SkipCertVerify)
	}
	if f.TLS13 != nil {
		s.TLS13 = model.TriFromBool(*f.TLS13)
	}
	if f.AddEmoji != nil {
		s.AddEmoji = *f.AddEmoji
	}
	if f.RemoveEmoji != nil {
		s.RemoveEmoji = *f.RemoveEmoji
	}
	if f.AppendProxyType != nil {
		s.AppendProxyType = *f.AppendProxyType
	}
	if f.NodelistMode != nil {
		s.NodelistMode = *f.NodelistMode
	}
	if f.EnableRuleGen != nil {
		s.EnableRuleGenerator = *f.EnableRuleGen
	}
	if f.ClashNewFieldName != nil {
		s.ClashNewFieldName = *f.ClashNewFieldName
	}
	if f.FilterDeprecated != nil {
		s.FilterDeprecated = *f.FilterDeprecated
	}
	if f.SortFlag != nil {
		s.SortFlag = *f.SortFlag
	}
}

// SplitDelimited splits a query value on the given delimiter, trimming
// empty segments: the `@`-delimited groups/ruleset lists the HTTP
// layer receives.
func SplitDelimited(value, delim string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, delim) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
