// Package preprocess runs the fixed node-transformation pipeline:
// filter, rename, emoji, type-prefix, de-duplicate, default-flag
// injection, sort.
package preprocess

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/subconverter-go/subconverter/internal/logger"
	"github.com/subconverter-go/subconverter/internal/model"
)

// Run applies the seven-step pipeline in spec §4.4's fixed order. A
// bad regex in includes/excludes/renames/emojis only disables that
// one rule (logged, skipped); it never aborts the whole pipeline.
func Run(nodes []model.Node, includes, excludes []string, settings model.ExtraSettings) []model.Node {
	nodes = filterByRemark(nodes, includes, excludes)
	nodes = rename(nodes, settings.RenameArray)
	nodes = applyEmoji(nodes, settings)
	if settings.AppendProxyType {
		nodes = appendTypePrefix(nodes)
	}
	nodes = dedupeRemarks(nodes)
	nodes = applyDefaults(nodes, settings)
	if settings.SortFlag {
		nodes = sortByRemark(nodes)
	} else if settings.SortScript != "" {
		logger.Warn("sort_script given but no scripting engine embedded, ignoring")
	}
	return nodes
}

func compileOrWarn(pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		logger.Warn("skip invalid regex rule", "pattern", pattern, "error", err)
		return nil
	}
	return re
}

// filterByRemark keeps a node only if it matches at least one include
// pattern (or the include list is empty) and no exclude pattern.
func filterByRemark(nodes []model.Node, includes, excludes []string) []model.Node {
	includeRes := lo.Filter(lo.Map(includes, func(p string, _ int) *regexp.Regexp { return compileOrWarn(p) }), func(r *regexp.Regexp, _ int) bool { return r != nil })
	excludeRes := lo.Filter(lo.Map(excludes, func(p string, _ int) *regexp.Regexp { return compileOrWarn(p) }), func(r *regexp.Regexp, _ int) bool { return r != nil })

	return lo.Filter(nodes, func(n model.Node, _ int) bool {
		if len(includeRes) > 0 {
			matched := lo.SomeBy(includeRes, func(re *regexp.Regexp) bool { return re.MatchString(n.Remark) })
			if !matched {
				return false
			}
		}
		if lo.SomeBy(excludeRes, func(re *regexp.Regexp) bool { return re.MatchString(n.Remark) }) {
			return false
		}
		return true
	})
}

// rename applies each (match, replacement) rule in order. An
// `!!import:` replacement directive is expected to already be
// expanded by the External-Config Merger before this runs; a literal
// reaching this stage is applied verbatim.
func rename(nodes []model.Node, rules []model.RenameRule) []model.Node {
	compiled := make([]struct {
		re   *regexp.Regexp
		repl string
	}, 0, len(rules))
	for _, r := range rules {
		re := compileOrWarn(r.Match)
		if re == nil {
			continue
		}
		compiled = append(compiled, struct {
			re   *regexp.Regexp
			repl string
		}{re, r.Replacement})
	}

	return lo.Map(nodes, func(n model.Node, _ int) model.Node {
		for _, c := range compiled {
			if strings.HasPrefix(c.repl, "script:") {
				continue // scripted renames are a no-op without an embedded engine
			}
			n.Remark = c.re.ReplaceAllString(n.Remark, c.repl)
		}
		return n
	})
}

// emojiPattern approximates Extended_Pictographic: the common emoji
// blocks plus variation selectors and the zero-width joiner used in
// composed emoji sequences.
var emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}\x{200D}]`)

func applyEmoji(nodes []model.Node, settings model.ExtraSettings) []model.Node {
	return lo.Map(nodes, func(n model.Node, _ int) model.Node {
		if settings.RemoveEmoji {
			n.Remark = strings.TrimSpace(emojiPattern.ReplaceAllString(n.Remark, ""))
		}
		if settings.AddEmoji {
			for _, rule := range settings.EmojiArray {
				re := compileOrWarn(rule.Match)
				if re != nil && re.MatchString(n.Remark) {
					n.Remark = rule.Emoji + " " + n.Remark
					break
				}
			}
		}
		return n
	})
}

func appendTypePrefix(nodes []model.Node) []model.Node {
	return lo.Map(nodes, func(n model.Node, _ int) model.Node {
		n.Remark = fmt.Sprintf("[%s] %s", strings.ToUpper(string(n.ProxyType)), n.Remark)
		return n
	})
}

// dedupeRemarks walks the list in order and appends " 2", " 3", … to
// any remark that collides with one already emitted, satisfying P2.
func dedupeRemarks(nodes []model.Node) []model.Node {
	seen := make(map[string]int)
	out := make([]model.Node, len(nodes))
	for i, n := range nodes {
		base := n.Remark
		seen[base]++
		if count := seen[base]; count > 1 {
			n.Remark = fmt.Sprintf("%s %d", base, count)
			// The new remark may itself collide with an existing one
			// that was produced by an earlier suffix; keep bumping
			// until it's clear.
			for seen[n.Remark] > 0 {
				seen[base]++
				count = seen[base]
				n.Remark = fmt.Sprintf("%s %d", base, count)
			}
			seen[n.Remark] = 1
		}
		out[i] = n
	}
	return out
}

// applyDefaults fills only the tri-state flags left Unset, per §4.1's
// with_defaults / P3.
func applyDefaults(nodes []model.Node, settings model.ExtraSettings) []model.Node {
	return lo.Map(nodes, func(n model.Node, _ int) model.Node {
		n = n.WithDefaults(settings.UDP, settings.TFO, settings.SkipCertVerify)
		n.TLS13 = n.TLS13.WithDefault(settings.TLS13)
		return n
	})
}

func sortByRemark(nodes []model.Node) []model.Node {
	out := make([]model.Node, len(nodes))
	copy(out, nodes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Remark < out[j].Remark })
	return out
}
