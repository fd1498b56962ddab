package config

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ParseGroupLine decodes one backtick-delimited group descriptor:
// name`type`proxy1`proxy2`…`url`interval,timeout,tolerance, the
// syntax shared by all three config layers.
func ParseGroupLine(line string) (model.Group, bool) {
	parts := strings.Split(line, "`")
	if len(parts) < 2 {
		return model.Group{}, false
	}
	g := model.Group{Name: parts[0], Type: model.GroupType(parts[1])}

	for _, part := range parts[2:] {
		switch {
		case strings.HasPrefix(part, "http://") || strings.HasPrefix(part, "https://"):
			g.URL = part
		case isNumericTriplet(part):
			fields := strings.Split(part, ",")
			g.Interval, _ = strconv.Atoi(fields[0])
			if len(fields) > 1 {
				g.Timeout, _ = strconv.Atoi(fields[1])
			}
			if len(fields) > 2 {
				g.Tolerance, _ = strconv.Atoi(fields[2])
			}
		default:
			if part != "" {
				g.Proxies = append(g.Proxies, part)
			}
		}
	}
	return g, true
}

func isNumericTriplet(s string) bool {
	if s == "" {
		return false
	}
	first := strings.SplitN(s, ",", 2)[0]
	if first == "" {
		return false
	}
	_, err := strconv.Atoi(first)
	return err == nil
}

// ParseRulesetLine decodes "group,source[,interval]" into a Ruleset,
// leaving dialect-tag stripping and rule-type inference to
// model.NewRuleset. An inline "[]LITERAL" source takes the rest of the
// line, commas included, with the default interval.
func ParseRulesetLine(line string) (model.Ruleset, bool) {
	fields := strings.SplitN(line, ",", 3)
	if len(fields) < 2 {
		return model.Ruleset{}, false
	}
	if strings.HasPrefix(strings.TrimSpace(fields[1]), "[]") {
		source := strings.SplitN(line, ",", 2)[1]
		return model.NewRuleset(strings.TrimSpace(fields[0]), strings.TrimSpace(source), 86400), true
	}
	interval := 86400
	if len(fields) == 3 {
		if n, err := strconv.Atoi(strings.TrimSpace(fields[2])); err == nil {
			interval = n
		}
	}
	return model.NewRuleset(strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]), interval), true
}

// ParseRenameLine decodes "match@replace" into a RenameRule.
func ParseRenameLine(line string) (model.RenameRule, bool) {
	idx := strings.Index(line, "@")
	if idx < 0 {
		return model.RenameRule{}, false
	}
	return model.RenameRule{Match: line[:idx], Replacement: line[idx+1:]}, true
}

// ParseEmojiLine decodes "match,emoji" into an EmojiRule.
func ParseEmojiLine(line string) (model.EmojiRule, bool) {
	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		return model.EmojiRule{}, false
	}
	return model.EmojiRule{Match: line[:idx], Emoji: line[idx+1:]}, true
}

const importPrefix = "!!import:"

// ExpandImports rewrites any line beginning with "!!import:<path>"
// into the referenced file's own lines, read through readFile. A
// failed import logs nothing here — callers decide whether a missing
// import file is fatal for their layer — and simply drops the line.
func ExpandImports(lines []string, readFile func(path string) (string, error)) []string {
	var out []string
	for _, line := range lines {
		if !strings.HasPrefix(line, importPrefix) {
			out = append(out, line)
			continue
		}
		path := strings.TrimPrefix(line, importPrefix)
		content, err := readFile(path)
		if err != nil {
			continue
		}
		out = append(out, splitLines(content)...)
	}
	return out
}

func splitLines(content string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		l := strings.TrimSpace(scanner.Text())
		if l == "" || strings.HasPrefix(l, ";") || strings.HasPrefix(l, "#") {
			continue
		}
		out = append(out, l)
	}
	return out
}
