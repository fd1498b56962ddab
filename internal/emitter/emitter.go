// Package emitter renders a preprocessed node list, its groups, and
// its converted ruleset lines into one target's native configuration
// syntax, following the shared spine every target implements: parse
// base config, splice in proxies/groups/rules, serialize.
package emitter

import (
	"github.com/subconverter-go/subconverter/internal/groupmatch"
	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

// Input is the shared argument every target emitter receives.
type Input struct {
	Nodes      []model.Node
	BaseConfig string
	Groups     []model.Group
	// RuleLines is already fetched-and-converted common-form rule
	// content per group name (see internal/ruleset.ToCommon), ready for
	// TransformRuleToCommon + FilterAllowed at emit time. Empty when
	// rule generation is disabled.
	RuleLines map[string][]string
	Settings  model.ExtraSettings
}

// groupMembers resolves a Group's matcher expressions against the
// emitted node list, falling back to DIRECT so a group is never left
// empty (per spec's "never fail the group" rule).
func groupMembers(g model.Group, nodes []model.Node) []string {
	return groupmatch.ExpandOrDirect(g.Proxies, nodes, false)
}

// splicedRules builds one target's final rule lines: convert every
// group's fetched ruleset content into common form, re-tag it with
// the group name, then drop kinds the target can't express.
func splicedRules(in Input, target string) []string {
	if !in.Settings.EnableRuleGenerator {
		return nil
	}

	var out []string
	for _, g := range in.Groups {
		for _, line := range in.RuleLines[g.Name] {
			tagged := ruleset.TransformRuleToCommon(line, g.Name, true)
			if tagged != "" {
				out = append(out, tagged)
			}
		}
	}
	return ruleset.FilterAllowed(out, target)
}

// nodeName returns the remark used as every target's proxy/group
// reference name.
func nodeName(n model.Node) string {
	return n.Remark
}
