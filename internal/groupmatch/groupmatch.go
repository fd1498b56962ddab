// Package groupmatch expands a group's rule expressions
// (!!GROUP=, !!GROUPID=, !!TYPE=, !!PORT=, literal []NAME, trailing
// regex) into a concrete node-name list against a node pool.
package groupmatch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/subconverter-go/subconverter/internal/logger"
	"github.com/subconverter-go/subconverter/internal/model"
)

var predicateTag = regexp.MustCompile(`!!(GROUP|GROUPID|TYPE|PORT)=([^!]+)`)

// Expand resolves one group's list of matcher expressions against
// pool, returning the concrete, de-duplicated node-name list:
// expressions contribute in the order given, each one's matches in
// pool order. If authorized is false, `script:` expressions are skipped
// rather than evaluated.
func Expand(exprs []string, pool []model.Node, authorized bool) []string {
	var names []string
	for _, expr := range exprs {
		names = append(names, expandOne(expr, pool, authorized)...)
	}
	return lo.Uniq(names)
}

func expandOne(expr string, pool []model.Node, authorized bool) []string {
	switch {
	case strings.HasPrefix(expr, "[]"):
		return []string{strings.TrimPrefix(expr, "[]")}

	case strings.HasPrefix(expr, "script:"):
		if !authorized {
			logger.Warn("skip unauthorized group script expression", "expr", expr)
			return nil
		}
		logger.Warn("group script hooks are not evaluated, no embedded scripting engine")
		return nil

	default:
		return matchCompound(expr, pool)
	}
}

// matchCompound matches every embedded !!TAG=value predicate plus an
// optional trailing free-text regex against every node in pool; a
// node qualifies only when ALL predicates hold.
func matchCompound(expr string, pool []model.Node) []string {
	predicates, trailing := extractPredicates(expr)

	var trailingRe *regexp.Regexp
	if trailing != "" {
		re, err := regexp.Compile(trailing)
		if err != nil {
			logger.Warn("skip invalid trailing regex in group expression", "expr", expr, "error", err)
		} else {
			trailingRe = re
		}
	}

	return lo.FilterMap(pool, func(n model.Node, _ int) (string, bool) {
		for _, p := range predicates {
			if !p.matches(n) {
				return "", false
			}
		}
		if trailingRe != nil && !trailingRe.MatchString(n.Remark) {
			return "", false
		}
		return n.Remark, true
	})
}

type predicate struct {
	kind  string // GROUP, GROUPID, TYPE, PORT
	value string
}

func (p predicate) matches(n model.Node) bool {
	switch p.kind {
	case "GROUP":
		return n.Group == p.value
	case "GROUPID":
		id, err := strconv.Atoi(p.value)
		return err == nil && n.GroupID == id
	case "TYPE":
		return strings.EqualFold(string(n.ProxyType), p.value)
	case "PORT":
		port, err := strconv.Atoi(p.value)
		return err == nil && n.Port == port
	default:
		return true
	}
}

// extractPredicates strips every !!TAG=value occurrence out of expr
// and returns them alongside whatever text remains, which is the
// trailing free-text regex.
func extractPredicates(expr string) ([]predicate, string) {
	var predicates []predicate
	remaining := predicateTag.ReplaceAllStringFunc(expr, func(m string) string {
		sub := predicateTag.FindStringSubmatch(m)
		predicates = append(predicates, predicate{kind: sub[1], value: sub[2]})
		return ""
	})
	return predicates, strings.TrimSpace(remaining)
}

// ExpandOrDirect is Expand but falls back to a single "DIRECT" member
// whenever nothing matched; the group's type is not consulted, so every
// group type gets the fallback (spec §4.5's "never fail the group" rule).
func ExpandOrDirect(exprs []string, pool []model.Node, authorized bool) []string {
	names := Expand(exprs, pool, authorized)
	if len(names) == 0 {
		return []string{"DIRECT"}
	}
	return names
}
