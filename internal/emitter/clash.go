package emitter

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

// EmitClash renders nodes/groups/rules into a Clash YAML document,
// splicing them into base_config_text. `Proxy`/`Proxy Group` (legacy)
// vs `proxies`/`proxy-groups` (new) is chosen by ClashNewFieldName.
func EmitClash(in Input) (string, error) {
	proxiesKey, groupsKey := "Proxy", "Proxy Group"
	if in.Settings.ClashNewFieldName {
		proxiesKey, groupsKey = "proxies", "proxy-groups"
	}

	var doc yaml.Node
	if strings.TrimSpace(in.BaseConfig) != "" {
		if err := yaml.Unmarshal([]byte(in.BaseConfig), &doc); err != nil {
			doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
		}
	} else {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}

	var proxyNodes []*yaml.Node
	var emitted []model.Node
	for _, n := range in.Nodes {
		if pn, ok := clashProxyNode(n, in.Settings); ok {
			proxyNodes = append(proxyNodes, pn)
			emitted = append(emitted, n)
		}
	}
	SetMappingKey(&doc, proxiesKey, NewSequenceNode(proxyNodes...))

	if in.Settings.NodelistMode {
		return marshalDoc(&doc)
	}

	var groupNodes []*yaml.Node
	for _, g := range in.Groups {
		groupNodes = append(groupNodes, clashGroupNode(g, emitted))
	}
	SetMappingKey(&doc, groupsKey, NewSequenceNode(groupNodes...))

	if in.Settings.ClashScript {
		SetMappingKey(&doc, "mode", ValueToYAMLNode("script"))
		if in.Settings.ManagedConfigPrefix != "" {
			SetMappingKey(&doc, "# managed-config", ValueToYAMLNode(in.Settings.ManagedConfigPrefix))
		}
		return marshalDoc(&doc)
	}

	rules := splicedRules(in, ruleset.TargetClash)
	if rules != nil {
		ruleScalars := make([]*yaml.Node, 0, len(rules))
		for _, r := range rules {
			ruleScalars = append(ruleScalars, ValueToYAMLNode(clashRuleKeyword(r)))
		}
		SetMappingKey(&doc, "rules", NewSequenceNode(ruleScalars...))
	}

	return marshalDoc(&doc)
}

func marshalDoc(doc *yaml.Node) (string, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// clashRuleKeyword rewrites the converter's target-agnostic "RULE"
// catch-all type into Clash's own "MATCH" keyword.
func clashRuleKeyword(rule string) string {
	if strings.HasPrefix(rule, "RULE,") {
		return "MATCH," + strings.TrimPrefix(rule, "RULE,")
	}
	return rule
}

func clashGroupNode(g model.Group, nodes []model.Node) *yaml.Node {
	members := groupMembers(g, nodes)
	memberNodes := make([]*yaml.Node, 0, len(members))
	for _, m := range members {
		memberNodes = append(memberNodes, ValueToYAMLNode(m))
	}

	pairs := []any{"name", g.Name, "type", string(g.Type), "proxies", NewSequenceNode(memberNodes...)}
	switch g.Type {
	case model.GroupURLTest, model.GroupFallback, model.GroupLoadBalance:
		if g.URL != "" {
			pairs = append(pairs, "url", g.URL)
		}
		if g.Interval > 0 {
			pairs = append(pairs, "interval", g.Interval)
		}
		if g.Tolerance > 0 {
			pairs = append(pairs, "tolerance", g.Tolerance)
		}
	}
	if g.DisableUDP {
		pairs = append(pairs, "disable-udp", true)
	}
	return NewMappingNode(pairs...)
}

// clashProxyNode builds one Clash-dialect proxy mapping. It skips
// HTTPS, AnyTLS and unknown nodes, Snell v4+ nodes, SSR/WireGuard/
// Hysteria nodes without their variant payload, and, when
// FilterDeprecated is set, SSR nodes whose cipher, protocol or obfs is
// outside the approved sets below.
var clashRApprovedCiphers = map[string]bool{
	"aes-128-cfb": true, "aes-192-cfb": true, "aes-256-cfb": true,
	"aes-128-ctr": true, "aes-192-ctr": true, "aes-256-ctr": true,
	"aes-128-ofb": true, "aes-192-ofb": true, "aes-256-ofb": true,
	"des-cfb": true, "bf-cfb": true, "cast5-cfb": true,
	"rc4-md5": true, "chacha20": true, "chacha20-ietf": true, "salsa20": true,
	"camellia-128-cfb": true, "camellia-192-cfb": true, "camellia-256-cfb": true,
	"idea-cfb": true, "rc2-cfb": true, "seed-cfb": true,
}
var clashRApprovedProtocols = map[string]bool{
	"origin": true, "auth_sha1_v4": true, "auth_aes128_md5": true,
	"auth_aes128_sha1": true, "auth_chain_a": true, "auth_chain_b": true,
}
var clashRApprovedObfs = map[string]bool{
	"plain": true, "http_simple": true, "http_post": true,
	"random_head": true, "tls1.2_ticket_auth": true, "tls1.2_ticket_fastauth": true,
}

func clashProxyNode(n model.Node, settings model.ExtraSettings) (*yaml.Node, bool) {
	base := []any{"name", nodeName(n), "server", n.Hostname, "port", n.Port}

	switch n.ProxyType {
	case model.TypeShadowsocks:
		pairs := append([]any{"name", nodeName(n)}, "type", "ss", "server", n.Hostname, "port", n.Port,
			"cipher", n.EncryptMethod, "password", n.Password)
		if n.Plugin != "" {
			pairs = append(pairs, "plugin", n.Plugin, "plugin-opts", NewMappingNode("mode", n.PluginOption))
		}
		appendUDP(&pairs, n)
		return NewMappingNode(pairs...), true

	case model.TypeShadowsocksR:
		if n.SSR == nil {
			return nil, false
		}
		if settings.FilterDeprecated && !(clashRApprovedCiphers[n.EncryptMethod] && clashRApprovedProtocols[n.SSR.Protocol] && clashRApprovedObfs[n.SSR.Obfs]) {
			return nil, false
		}
		pairs := append([]any{"name", nodeName(n)}, "type", "ssr", "server", n.Hostname, "port", n.Port,
			"cipher", n.EncryptMethod, "password", n.Password,
			"protocol", n.SSR.Protocol, "protocol-param", n.SSR.ProtocolParam,
			"obfs", n.SSR.Obfs, "obfs-param", n.SSR.ObfsParam)
		appendUDP(&pairs, n)
		return NewMappingNode(pairs...), true

	case model.TypeVMess:
		pairs := append([]any{"name", nodeName(n)}, "type", "vmess", "server", n.Hostname, "port", n.Port,
			"uuid", n.UserID, "alterId", n.AlterID, "cipher", "auto")
		pairs = appendTransport(pairs, n)
		appendTLS(&pairs, n)
		appendUDP(&pairs, n)
		return NewMappingNode(pairs...), true

	case model.TypeVless:
		pairs := append([]any{"name", nodeName(n)}, "type", "vless", "server", n.Hostname, "port", n.Port,
			"uuid", n.UserID)
		pairs = appendTransport(pairs, n)
		appendTLS(&pairs, n)
		if n.Vless != nil {
			if n.Vless.Flow != "" {
				pairs = append(pairs, "flow", n.Vless.Flow)
			}
			if n.Vless.RealityPBK != "" {
				pairs = append(pairs, "reality-opts", NewMappingNode("public-key", n.Vless.RealityPBK, "short-id", n.Vless.RealitySID))
			}
		}
		appendUDP(&pairs, n)
		return NewMappingNode(pairs...), true

	case model.TypeTrojan:
		pairs := append([]any{"name", nodeName(n)}, "type", "trojan", "server", n.Hostname, "port", n.Port,
			"password", n.Password)
		if n.SNI != "" {
			pairs = append(pairs, "sni", n.SNI)
		}
		appendUDP(&pairs, n)
		return NewMappingNode(pairs...), true

	case model.TypeSnell:
		if n.Snell != nil && n.Snell.Version >= 4 {
			return nil, false
		}
		pairs := append([]any{"name", nodeName(n)}, "type", "snell", "server", n.Hostname, "port", n.Port,
			"psk", n.Password)
		if n.Snell != nil {
			pairs = append(pairs, "version", n.Snell.Version)
		}
		if n.Plugin != "" {
			pairs = append(pairs, "obfs-opts", NewMappingNode("mode", n.Plugin, "host", n.Host))
		}
		appendUDP(&pairs, n)
		return NewMappingNode(pairs...), true

	case model.TypeSocks5:
		pairs := append([]any{"name", nodeName(n)}, "type", "socks5", "server", n.Hostname, "port", n.Port)
		if n.Username != "" {
			pairs = append(pairs, "username", n.Username, "password", n.Password)
		}
		appendTLS(&pairs, n)
		appendUDP(&pairs, n)
		return NewMappingNode(pairs...), true

	case model.TypeHTTP:
		pairs := append([]any{"name", nodeName(n)}, "type", "http", "server", n.Hostname, "port", n.Port)
		if n.Username != "" {
			pairs = append(pairs, "username", n.Username, "password", n.Password)
		}
		return NewMappingNode(pairs...), true

	case model.TypeWireGuard:
		if n.WireGuard == nil {
			return nil, false
		}
		w := n.WireGuard
		pairs := append([]any{"name", nodeName(n)}, "type", "wireguard", "server", n.Hostname, "port", n.Port,
			"private-key", w.PrivateKey, "public-key", w.PublicKey, "ip", w.SelfIP, "allowed-ips", w.AllowedIPs)
		if w.SelfIPv6 != "" {
			pairs = append(pairs, "ipv6", w.SelfIPv6)
		}
		if w.PreSharedKey != "" {
			pairs = append(pairs, "preshared-key", w.PreSharedKey)
		}
		if w.MTU > 0 {
			pairs = append(pairs, "mtu", w.MTU)
		}
		return NewMappingNode(pairs...), true

	case model.TypeHysteria2:
		if n.Hysteria == nil {
			return nil, false
		}
		h := n.Hysteria
		pairs := append([]any{"name", nodeName(n)}, "type", "hysteria2", "server", n.Hostname, "port", n.Port,
			"password", h.AuthStr)
		if h.Obfs != "" {
			pairs = append(pairs, "obfs", h.Obfs, "obfs-password", h.ObfsParam)
		}
		appendTLS(&pairs, n)
		return NewMappingNode(pairs...), true

	case model.TypeHysteria:
		if n.Hysteria == nil {
			return nil, false
		}
		h := n.Hysteria
		pairs := append([]any{"name", nodeName(n)}, "type", "hysteria", "server", n.Hostname, "port", n.Port,
			"auth-str", h.AuthStr, "up", h.UpSpeed, "down", h.DownSpeed)
		appendTLS(&pairs, n)
		return NewMappingNode(pairs...), true

	default:
		_ = base
		return nil, false // HTTPS/AnyTLS/unknown: no mapping in this Clash dialect
	}
}

func appendUDP(pairs *[]any, n model.Node) {
	if v, ok := n.UDP.Bool(); ok {
		*pairs = append(*pairs, "udp", v)
	}
}

func appendTLS(pairs *[]any, n model.Node) {
	if n.SNI != "" {
		*pairs = append(*pairs, "tls", true, "servername", n.SNI)
	}
	if v, ok := n.AllowInsecure.Bool(); ok {
		*pairs = append(*pairs, "skip-cert-verify", v)
	}
}

func appendTransport(pairs []any, n model.Node) []any {
	if n.TransferProtocol == "" || n.TransferProtocol == model.TransferTCP {
		return pairs
	}
	pairs = append(pairs, "network", string(n.TransferProtocol))
	switch n.TransferProtocol {
	case model.TransferWS:
		pairs = append(pairs, "ws-opts", NewMappingNode("path", n.Path, "headers", NewMappingNode("Host", n.Host)))
	case model.TransferH2:
		pairs = append(pairs, "h2-opts", NewMappingNode("path", n.Path, "host", NewSequenceNode(ValueToYAMLNode(n.Host))))
	case model.TransferGRPC:
		pairs = append(pairs, "grpc-opts", NewMappingNode("grpc-service-name", n.Path))
	}
	return pairs
}
