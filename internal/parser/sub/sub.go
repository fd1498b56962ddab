// Package sub decodes a whole subscription blob — Clash YAML, SSD,
// Netch JSON, a Surge proxy list, a Quantumult list, or a bare
// base64-wrapped line list — into a list of model.Node.
package sub

import (
	"strings"

	"github.com/subconverter-go/subconverter/internal/logger"
	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/parser/uri"
)

// ExplodeSub probes blob's format in the fixed order spec §4.3
// requires and decodes it into nodes. It returns false only when the
// blob is taken for SSD, Clash YAML or Netch JSON and that decoder
// fails; any other blob goes to the line-list fallback and returns
// true, possibly with no nodes.
func ExplodeSub(blob string) ([]model.Node, bool) {
	trimmed := strings.TrimSpace(blob)

	switch {
	case strings.HasPrefix(trimmed, "ssd://"):
		nodes, err := decodeSSD(trimmed)
		if err != nil {
			logger.Warn("ssd decode failed", "error", err)
			return nil, false
		}
		return nodes, true

	case strings.Contains(trimmed, "proxies:") || strings.Contains(trimmed, "Proxy:"):
		nodes, err := decodeClashYAML(trimmed)
		if err != nil {
			logger.Warn("clash yaml decode failed", "error", err)
			return nil, false
		}
		return nodes, true

	case looksLikeSurgeList(trimmed):
		return decodeSurgeList(trimmed), true

	case looksLikeQuantumultList(trimmed):
		return decodeQuantumultList(trimmed), true

	case looksLikeNetchJSON(trimmed):
		nodes, err := decodeNetchJSON(trimmed)
		if err != nil {
			logger.Warn("netch decode failed", "error", err)
			return nil, false
		}
		return nodes, true

	default:
		return decodeBase64LineList(trimmed), true
	}
}

func looksLikeSurgeList(blob string) bool {
	for _, marker := range []string{" = vmess", " = shadowsocks", " = trojan", " = ss", " = custom"} {
		if strings.Contains(blob, marker) {
			return true
		}
	}
	return false
}

func looksLikeQuantumultList(blob string) bool {
	for _, marker := range []string{"vmess=", "shadowsocks=", "trojan=", "vmess =", "shadowsocks ="} {
		if strings.Contains(blob, marker) {
			return true
		}
	}
	return false
}

// decodeBase64LineList is the generic fallback: base64-decode (if it
// decodes cleanly to something URI-shaped), then dispatch each
// non-empty line to the URI parser, skipping lines that fail (they
// are logged at debug, not warn — a malformed line is routine noise
// in a subscription, not a problem worth raising).
func decodeBase64LineList(blob string) []model.Node {
	decoded, err := base64Maybe(blob)
	if err != nil || !strings.Contains(decoded, "://") {
		decoded = blob
	}

	var nodes []model.Node
	id := 0
	for _, line := range strings.FieldsFunc(decoded, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ' '
	}) {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "://") {
			continue
		}
		node, err := uri.Parse(line)
		if err != nil {
			logger.Debug("skip unparsable line", "error", err)
			continue
		}
		node.ID = id
		id++
		nodes = append(nodes, *node)
	}
	return nodes
}
