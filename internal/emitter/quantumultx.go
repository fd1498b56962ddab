package emitter

import (
	"fmt"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

// EmitQuantumultX renders nodes into Quantumult X's "key=value,
// key2=value2" comma-field dialect (no base-config splicing — Quantumult
// X's own app config lives client-side).
func EmitQuantumultX(in Input) (string, error) {
	var out strings.Builder
	var emitted []model.Node
	for _, n := range in.Nodes {
		line, ok := qxProxyLine(n)
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

	for _, g := range in.Groups {
		out.WriteString(qxGroupLine(g, emitted))
		out.WriteString("\n")
	}

	for _, line := range splicedRules(in, ruleset.TargetQuantumultX) {
		out.WriteString(qxRuleLine(line))
		out.WriteString("\n")
	}

	return out.String(), nil
}

func qxRuleLine(rule string) string {
	if strings.HasPrefix(rule, "RULE,") {
		return "FINAL," + strings.TrimPrefix(rule, "RULE,") + ",forward"
	}
	return rule
}

func qxGroupLine(g model.Group, nodes []model.Node) string {
	members := groupMembers(g, nodes)
	typ := "static"
	if g.Type == model.GroupURLTest {
		typ = "url-latency-benchmark"
	} else if g.Type == model.GroupFallback {
		typ = "smart"
	}
	return fmt.Sprintf("%s=%s,%s,img-url=un.png", g.Name, typ, strings.Join(members, ","))
}

// qxProxyLine renders one node in Quantumult X's comma-field syntax.
// alter_id==0 is treated as aead per the client's own cipher-selection
// rule; skip-cert-verify is emitted inverted as tls-verification since
// Quantumult X phrases the flag the opposite way Clash/Surge do.
func qxProxyLine(n model.Node) (string, bool) {
	var b strings.Builder
	switch n.ProxyType {
	case model.TypeShadowsocks:
		fmt.Fprintf(&b, "shadowsocks=%s:%d,method=%s,password=%s", n.Hostname, n.Port, n.EncryptMethod, n.Password)
		if n.Plugin == "obfs" {
			fmt.Fprintf(&b, ",obfs=%s,obfs-host=%s", n.PluginOption, n.Host)
		}

	case model.TypeShadowsocksR:
		if n.SSR == nil {
			return "", false
		}
		fmt.Fprintf(&b, "shadowsocks=%s:%d,method=%s,password=%s", n.Hostname, n.Port, n.EncryptMethod, n.Password)
		fmt.Fprintf(&b, ",ssr-protocol=%s", n.SSR.Protocol)
		if n.SSR.ProtocolParam != "" {
			fmt.Fprintf(&b, ",ssr-protocol-param=%s", n.SSR.ProtocolParam)
		}
		if n.SSR.Obfs != "" {
			fmt.Fprintf(&b, ",obfs=%s", n.SSR.Obfs)
		}
		if n.SSR.ObfsParam != "" {
			fmt.Fprintf(&b, ",obfs-host=%s", n.SSR.ObfsParam)
		}

	case model.TypeVMess:
		cipher := n.EncryptMethod
		if cipher == "" || cipher == "auto" {
			cipher = "chacha20-ietf-poly1305"
		}
		if n.AlterID == 0 {
			cipher = "aead_chacha20_poly1305"
		}
		fmt.Fprintf(&b, "vmess=%s:%d,method=%s,password=%s", n.Hostname, n.Port, cipher, n.UserID)
		qxAppendTransport(&b, n)

	case model.TypeTrojan:
		fmt.Fprintf(&b, "trojan=%s:%d,password=%s", n.Hostname, n.Port, n.Password)
		if n.TransferProtocol == model.TransferWS {
			b.WriteString(",obfs=wss")
			if n.Path != "" {
				fmt.Fprintf(&b, ",obfs-uri=%s", n.Path)
			}
			if n.Host != "" {
				fmt.Fprintf(&b, ",obfs-host=%s", n.Host)
			}
		} else {
			b.WriteString(",over-tls=true")
		}
		qxAppendTLS(&b, n)

	case model.TypeSocks5:
		fmt.Fprintf(&b, "socks5=%s:%d", n.Hostname, n.Port)
		if n.Username != "" {
			fmt.Fprintf(&b, ",username=%s,password=%s", n.Username, n.Password)
		}

	case model.TypeHTTP, model.TypeHTTPS:
		fmt.Fprintf(&b, "http=%s:%d", n.Hostname, n.Port)
		if n.Username != "" {
			fmt.Fprintf(&b, ",username=%s,password=%s", n.Username, n.Password)
		}
		if n.ProxyType == model.TypeHTTPS {
			b.WriteString(",over-tls=true")
		}

	default:
		return "", false
	}

	fmt.Fprintf(&b, ",tag=%s", nodeName(n))
	return b.String(), true
}

func qxAppendTransport(b *strings.Builder, n model.Node) {
	switch n.TransferProtocol {
	case model.TransferWS:
		if n.SNI != "" || n.Fingerprint != "" {
			b.WriteString(",obfs=wss")
		} else {
			b.WriteString(",obfs=ws")
		}
		if n.Path != "" {
			fmt.Fprintf(b, ",obfs-uri=%s", n.Path)
		}
		if n.Host != "" {
			fmt.Fprintf(b, ",obfs-host=%s", n.Host)
		}
	default:
		qxAppendTLS(b, n)
	}
}

func qxAppendTLS(b *strings.Builder, n model.Node) {
	if n.SNI != "" {
		fmt.Fprintf(b, ",tls-host=%s", n.SNI)
	}
	if v, ok := n.AllowInsecure.Bool(); ok {
		fmt.Fprintf(b, ",tls-verification=%t", !v)
	}
}
