package emitter

import (
	"fmt"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

// result is a comma-joined Surge-dialect proxy line builder, grounded
// on the producer's own Append/AppendIfPresent idiom: every field is a
// "key = value" fragment appended in the order the target expects.
type result struct {
	fields []string
}

func (r *result) Append(format string, args ...any) *result {
	r.fields = append(r.fields, fmt.Sprintf(format, args...))
	return r
}

func (r *result) AppendIfPresent(value, format string) *result {
	if value != "" {
		r.fields = append(r.fields, fmt.Sprintf(format, value))
	}
	return r
}

func (r *result) AppendBoolIfSet(t model.Tribool, format string) *result {
	if v, ok := t.Bool(); ok {
		r.fields = append(r.fields, fmt.Sprintf(format, v))
	}
	return r
}

func (r *result) String() string {
	return strings.Join(r.fields, ", ")
}

// surgeVariant distinguishes the three dialects sharing this file:
// Surge (ver 2-4), Surfboard (-3), and the surge2 allow-list's
// stricter subset used for rule filtering.
type surgeVariant int

const (
	variantSurge2 surgeVariant = 2
	variantSurge3 surgeVariant = 3
	variantSurge4 surgeVariant = 4
	variantSurfboard surgeVariant = -3
)

// EmitSurge renders nodes/groups/rules into Surge's flat INI-like
// dialect (ver selects 2/3/4 or -3 for Surfboard's distinct keyword
// set), splicing proxy/proxy-group/rule sections into base_config_text.
func EmitSurge(in Input, ver int) (string, error) {
	v := surgeVariant(ver)
	target := ruleset.TargetSurge
	if v == variantSurge2 {
		target = ruleset.TargetSurge2
	} else if v == variantSurfboard {
		target = ruleset.TargetSurfboard
	}

	var out strings.Builder
	out.WriteString(surgeGeneralSection(in.BaseConfig))

	out.WriteString("\n[Proxy]\n")
	var emitted []model.Node
	for _, n := range in.Nodes {
		line, ok := surgeProxyLine(n, v)
		if !ok {
			continue
		}
		emitted = append(emitted, n)
		out.WriteString(nodeName(n))
		out.WriteString(" = ")
		out.WriteString(line)
		out.WriteString("\n")
	}

	if in.Settings.NodelistMode {
		return out.String(), nil
	}

	out.WriteString("\n[Proxy Group]\n")
	for _, g := range in.Groups {
		out.WriteString(surgeGroupLine(g, emitted))
		out.WriteString("\n")
	}

	out.WriteString("\n[Rule]\n")
	for _, line := range splicedRules(in, target) {
		out.WriteString(surgeRuleKeyword(line))
		out.WriteString("\n")
	}

	if v >= variantSurge4 {
		for _, n := range in.Nodes {
			if n.ProxyType == model.TypeWireGuard && n.WireGuard != nil {
				out.WriteString(surgeWireGuardSection(n))
			}
		}
	}

	return out.String(), nil
}

// surgeGeneralSection passes base_config_text through verbatim minus
// any pre-existing [Proxy]/[Proxy Group]/[Rule] sections, which this
// emitter regenerates; every other section ([General], [Host], ...)
// is kept as-is.
func surgeGeneralSection(base string) string {
	if strings.TrimSpace(base) == "" {
		return ""
	}
	var kept strings.Builder
	skip := false
	for _, line := range strings.Split(base, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			switch trimmed {
			case "[Proxy]", "[Proxy Group]", "[Rule]":
				skip = true
				continue
			default:
				skip = false
			}
		}
		if !skip {
			kept.WriteString(line)
			kept.WriteString("\n")
		}
	}
	return kept.String()
}

func surgeRuleKeyword(rule string) string {
	if strings.HasPrefix(rule, "RULE,") {
		return "FINAL," + strings.TrimPrefix(rule, "RULE,")
	}
	return rule
}

func surgeGroupLine(g model.Group, nodes []model.Node) string {
	members := groupMembers(g, nodes)
	typ := string(g.Type)
	switch g.Type {
	case model.GroupURLTest:
		typ = "url-test"
	case model.GroupFallback:
		typ = "fallback"
	case model.GroupLoadBalance:
		typ = "load-balance"
	case model.GroupSelect:
		typ = "select"
	}

	r := &result{}
	r.Append("%s", typ)
	for _, m := range members {
		r.Append("%s", m)
	}
	if g.URL != "" {
		r.Append("url = %s", g.URL)
	}
	if g.Interval > 0 {
		r.Append("interval = %d", g.Interval)
	}
	if g.Tolerance > 0 {
		r.Append("tolerance = %d", g.Tolerance)
	}
	return g.Name + " = " + r.String()
}

// surgeProxyLine renders one node in Surge's native syntax. Surfboard
// (-3) uses "https" where Surge uses "http"; otherwise the two
// dialects share this code path, since Surfboard implements a subset
// of Surge's keys the producer's shared handleTransport/appendTLS
// helpers already gate correctly per protocol.
func surgeProxyLine(n model.Node, ver surgeVariant) (string, bool) {
	r := &result{}
	switch n.ProxyType {
	case model.TypeShadowsocks:
		r.Append("ss").Append("%s", n.Hostname).Append("%d", n.Port).
			Append("encrypt-method=%s", n.EncryptMethod).Append("password=%s", n.Password)
		r.AppendIfPresent(n.Plugin, "obfs=%s")
		r.AppendIfPresent(n.Host, "obfs-host=%s")
		appendSurgeCommon(r, n)
		return r.String(), true

	case model.TypeShadowsocksR:
		// Surge has no native SSR scheme; it only runs SSR through an
		// external binary referenced by path, which this emitter does
		// not have a copy of to shell out to. Dropped, same as upstream.
		return "", false

	case model.TypeVMess:
		name := "vmess"
		r.Append(name).Append("%s", n.Hostname).Append("%d", n.Port).
			Append("username=%s", n.UserID)
		r.Append("tls=%t", n.SNI != "")
		r.Append("vmess-aead=%t", n.AlterID == 0)
		appendSurgeTLS(r, n)
		appendSurgeTransport(r, n)
		appendSurgeCommon(r, n)
		return r.String(), true

	case model.TypeTrojan:
		r.Append("trojan").Append("%s", n.Hostname).Append("%d", n.Port).
			Append("password=%s", n.Password)
		r.AppendIfPresent(n.SNI, "sni=%s")
		appendSurgeCommon(r, n)
		return r.String(), true

	case model.TypeSnell:
		r.Append("snell").Append("%s", n.Hostname).Append("%d", n.Port).
			Append("psk=%s", n.Password)
		if n.Snell != nil {
			r.Append("version=%d", n.Snell.Version)
		}
		r.AppendIfPresent(n.Plugin, "obfs=%s")
		r.AppendIfPresent(n.Host, "obfs-host=%s")
		appendSurgeCommon(r, n)
		return r.String(), true

	case model.TypeSocks5:
		r.Append("socks5").Append("%s", n.Hostname).Append("%d", n.Port)
		r.AppendIfPresent(n.Username, "username=%s")
		r.AppendIfPresent(n.Password, "password=%s")
		appendSurgeTLS(r, n)
		return r.String(), true

	case model.TypeHTTP, model.TypeHTTPS:
		kind := "http"
		if ver == variantSurfboard {
			kind = "https"
		}
		if n.ProxyType == model.TypeHTTPS && ver != variantSurfboard {
			kind = "https"
		}
		r.Append(kind).Append("%s", n.Hostname).Append("%d", n.Port)
		r.AppendIfPresent(n.Username, "username=%s")
		r.AppendIfPresent(n.Password, "password=%s")
		return r.String(), true

	case model.TypeWireGuard:
		if n.WireGuard == nil || ver < variantSurge4 {
			return "", false
		}
		r.Append("wireguard").Append("section-name=%s", nodeName(n))
		appendSurgeCommon(r, n)
		return r.String(), true

	case model.TypeHysteria2:
		if n.Hysteria == nil || ver < variantSurge4 {
			return "", false
		}
		h := n.Hysteria
		r.Append("hysteria2").Append("%s", n.Hostname).Append("%d", n.Port).
			Append("password=%s", h.AuthStr)
		r.AppendIfPresent(h.Obfs, "obfs=%s")
		appendSurgeTLS(r, n)
		return r.String(), true

	default:
		return "", false
	}
}

// surgeWireGuardSection renders the standalone [WireGuard <name>]
// block a ver-4 wireguard proxy line refers to by section-name.
func surgeWireGuardSection(n model.Node) string {
	w := n.WireGuard
	var b strings.Builder
	fmt.Fprintf(&b, "\n[WireGuard %s]\nprivate-key = %s\n", nodeName(n), w.PrivateKey)
	fmt.Fprintf(&b, "self-ip = %s\n", w.SelfIP)
	if w.SelfIPv6 != "" {
		fmt.Fprintf(&b, "self-ip-v6 = %s\n", w.SelfIPv6)
	}
	if len(w.DNSServers) > 0 {
		fmt.Fprintf(&b, "dns-server = %s\n", strings.Join(w.DNSServers, ", "))
	}
	if w.MTU > 0 {
		fmt.Fprintf(&b, "mtu = %d\n", w.MTU)
	}
	fmt.Fprintf(&b, "peer = (public-key = %s, allowed-ips = %q, endpoint = %s:%d",
		w.PublicKey, w.AllowedIPs, n.Hostname, n.Port)
	if w.PreSharedKey != "" {
		fmt.Fprintf(&b, ", preshared-key = %s", w.PreSharedKey)
	}
	if w.KeepAlive > 0 {
		fmt.Fprintf(&b, ", keepalive = %d", w.KeepAlive)
	}
	b.WriteString(")\n")
	return b.String()
}

func appendSurgeTLS(r *result, n model.Node) {
	r.AppendIfPresent(n.SNI, "sni=%s")
	r.AppendBoolIfSet(n.AllowInsecure, "skip-cert-verify=%t")
}

func appendSurgeTransport(r *result, n model.Node) {
	switch n.TransferProtocol {
	case model.TransferWS:
		r.Append("ws=true")
		r.AppendIfPresent(n.Path, "ws-path=%s")
		if n.Host != "" {
			r.Append("ws-headers=Host:%s", n.Host)
		}
	case model.TransferH2, model.TransferGRPC:
		r.Append("%s=true", n.TransferProtocol)
	}
}

func appendSurgeCommon(r *result, n model.Node) {
	r.AppendBoolIfSet(n.UDP, "udp-relay=%t")
	r.AppendBoolIfSet(n.TCPFastOpen, "tfo=%t")
	r.AppendBoolIfSet(n.AllowInsecure, "skip-cert-verify=%t")
}
