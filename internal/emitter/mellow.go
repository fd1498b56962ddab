package emitter

import (
	"fmt"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// EmitMellow renders nodes/groups into Mellow's TOML-flavored rule
// syntax: an [[Interface]] stanza is out of scope (host-local), so
// this emits the [[Proxy]]/[[Rule]] blocks Mellow assembles into its
// running config, one stanza per node and a GeoIP/Final catch-all per
// group, since Mellow has no first-class proxy-group concept of its
// own — group membership is expressed as individual selector rules.
func EmitMellow(in Input) (string, error) {
	var out strings.Builder
	var emitted []model.Node
	for _, n := range in.Nodes {
		line, ok := mellowProxyLine(n)
		if !ok {
			continue
		}
		emitted = append(emitted, n)
		out.WriteString(line)
		out.WriteString("\n")
	}

	if in.Settings.NodelistMode {
		return out.String(), nil
	}

	out.WriteString("\n")
	for _, g := range in.Groups {
		members := groupMembers(g, emitted)
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&out, "Rule = final, %s\n", members[0])
	}

	return out.String(), nil
}

func mellowProxyLine(n model.Node) (string, bool) {
	switch n.ProxyType {
	case model.TypeShadowsocks:
		return fmt.Sprintf("Proxy = ss, %s, %s:%d, encrypt-method=%s, password=%s",
			nodeName(n), n.Hostname, n.Port, n.EncryptMethod, n.Password), true
	case model.TypeSocks5:
		line := fmt.Sprintf("Proxy = socks5, %s, %s:%d", nodeName(n), n.Hostname, n.Port)
		if n.Username != "" {
			line += fmt.Sprintf(", username=%s, password=%s", n.Username, n.Password)
		}
		return line, true
	case model.TypeHTTP, model.TypeHTTPS:
		line := fmt.Sprintf("Proxy = http, %s, %s:%d", nodeName(n), n.Hostname, n.Port)
		if n.Username != "" {
			line += fmt.Sprintf(", username=%s, password=%s", n.Username, n.Password)
		}
		return line, true
	default:
		return "", false // vmess/trojan/ssr/etc have no Mellow proxy-line encoding
	}
}
