package emitter

import (
	"fmt"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

// EmitLoon renders nodes/groups/rules into Loon's "[Proxy]"/"[Proxy
// Group]"/"[Rule]" sectioned dialect, a close cousin of Surge's but
// with its own per-protocol field names.
func EmitLoon(in Input) (string, error) {
	var out strings.Builder
	out.WriteString("[Proxy]\n")
	var emitted []model.Node
	for _, n := range in.Nodes {
		line, ok := loonProxyLine(n)
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

	out.WriteString("\n[Proxy Group]\n")
	for _, g := range in.Groups {
		out.WriteString(loonGroupLine(g, emitted))
		out.WriteString("\n")
	}

	out.WriteString("\n[Rule]\n")
	for _, line := range splicedRules(in, ruleset.TargetSurge) {
		out.WriteString(loonRuleKeyword(line))
		out.WriteString("\n")
	}

	return out.String(), nil
}

func loonRuleKeyword(rule string) string {
	if strings.HasPrefix(rule, "RULE,") {
		return "FINAL," + strings.TrimPrefix(rule, "RULE,")
	}
	return rule
}

func loonGroupLine(g model.Group, nodes []model.Node) string {
	members := groupMembers(g, nodes)
	typ := "select"
	switch g.Type {
	case model.GroupURLTest:
		typ = "url-test"
	case model.GroupFallback:
		typ = "fallback"
	case model.GroupLoadBalance:
		typ = "load-balance"
	}
	return fmt.Sprintf("%s = %s,%s", g.Name, typ, strings.Join(members, ","))
}

// loonProxyLine renders one node in Loon's "name=type,host,port,..."
// syntax, rejecting cipher/protocol combinations Loon's client can't
// express the way its own producer validates before emitting.
func loonProxyLine(n model.Node) (string, bool) {
	name := nodeName(n)
	switch n.ProxyType {
	case model.TypeShadowsocks:
		line := fmt.Sprintf("%s=shadowsocks,%s,%d,%s,\"%s\"", name, n.Hostname, n.Port, n.EncryptMethod, n.Password)
		if n.Plugin == "obfs" {
			line += fmt.Sprintf(",obfs-name=%s", n.PluginOption)
			if n.Host != "" {
				line += fmt.Sprintf(",obfs-host=%s", n.Host)
			}
		}
		if v, ok := n.UDP.Bool(); ok && v {
			line += ",udp=true"
		}
		return line, true

	case model.TypeShadowsocksR:
		if n.SSR == nil {
			return "", false
		}
		line := fmt.Sprintf("%s=shadowsocksr,%s,%d,%s,\"%s\"", name, n.Hostname, n.Port, n.EncryptMethod, n.Password)
		line += fmt.Sprintf(",protocol=%s,obfs=%s", n.SSR.Protocol, n.SSR.Obfs)
		if n.SSR.ProtocolParam != "" {
			line += fmt.Sprintf(",protocol-param=%s", n.SSR.ProtocolParam)
		}
		if n.SSR.ObfsParam != "" {
			line += fmt.Sprintf(",obfs-param=%s", n.SSR.ObfsParam)
		}
		return line, true

	case model.TypeVMess:
		line := fmt.Sprintf("%s=vmess,%s,%d,\"%s\"", name, n.Hostname, n.Port, n.UserID)
		if n.TransferProtocol == model.TransferWS {
			line += ",transport=ws"
			if n.Path != "" {
				line += fmt.Sprintf(",path=%s", n.Path)
			}
			if n.Host != "" {
				line += fmt.Sprintf(",host=%s", n.Host)
			}
		}
		if n.SNI != "" {
			line += fmt.Sprintf(",over-tls=true,tls-name=%s", n.SNI)
		}
		return line, true

	case model.TypeTrojan:
		line := fmt.Sprintf("%s=trojan,%s,%d,\"%s\"", name, n.Hostname, n.Port, n.Password)
		if n.SNI != "" {
			line += fmt.Sprintf(",tls-name=%s", n.SNI)
		}
		return line, true

	case model.TypeHTTP, model.TypeHTTPS:
		line := fmt.Sprintf("%s=http,%s,%d", name, n.Hostname, n.Port)
		if n.Username != "" {
			line += fmt.Sprintf(",%s,%s", n.Username, n.Password)
		}
		if n.ProxyType == model.TypeHTTPS {
			line += ",over-tls=true"
		}
		return line, true

	case model.TypeSocks5:
		line := fmt.Sprintf("%s=socks5,%s,%d", name, n.Hostname, n.Port)
		if n.Username != "" {
			line += fmt.Sprintf(",%s,%s", n.Username, n.Password)
		}
		return line, true

	case model.TypeWireGuard:
		if n.WireGuard == nil {
			return "", false
		}
		w := n.WireGuard
		return fmt.Sprintf("%s=wireguard,interface-ip=%s,private-key=\"%s\",peers=[{public-key=\"%s\",allowed-ips=\"%s\",endpoint=%s:%d}]",
			name, w.SelfIP, w.PrivateKey, w.PublicKey, w.AllowedIPs, n.Hostname, n.Port), true

	case model.TypeHysteria2:
		if n.Hysteria == nil {
			return "", false
		}
		return fmt.Sprintf("%s=hysteria2,%s,%d,\"%s\"", name, n.Hostname, n.Port, n.Hysteria.AuthStr), true

	default:
		return "", false
	}
}
