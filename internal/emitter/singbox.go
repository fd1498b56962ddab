package emitter

import (
	"encoding/json"

	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

// EmitSingBox renders nodes/groups/rules into a sing-box JSON
// configuration: three fixed outbounds (DIRECT, REJECT, dns-out), one
// outbound per representable node, and a selector/urltest outbound per
// group.
func EmitSingBox(in Input) (string, error) {
	outbounds := []map[string]any{
		{"type": "direct", "tag": "DIRECT"},
		{"type": "block", "tag": "REJECT"},
		{"type": "dns", "tag": "dns-out"},
	}

	var tags []string
	var emitted []model.Node
	for _, n := range in.Nodes {
		ob, ok := singboxOutbound(n)
		if !ok {
			continue
		}
		outbounds = append(outbounds, ob)
		tags = append(tags, nodeName(n))
		emitted = append(emitted, n)
	}

	if !in.Settings.NodelistMode {
		for _, g := range in.Groups {
			outbounds = append(outbounds, singboxGroupOutbound(g, emitted))
		}
	}

	doc := map[string]any{"outbounds": outbounds}

	if !in.Settings.NodelistMode && in.Settings.EnableRuleGenerator {
		var rules []map[string]any
		final := "DIRECT"
		for _, line := range splicedRules(in, ruleset.TargetSingBox) {
			if len(line) > len("RULE,") && line[:len("RULE,")] == "RULE," {
				final = line[len("RULE,"):]
				continue
			}
			rules = append(rules, singboxRule(line))
		}
		doc["route"] = map[string]any{"rules": rules, "final": final}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func singboxGroupOutbound(g model.Group, nodes []model.Node) map[string]any {
	members := groupMembers(g, nodes)
	typ := "selector"
	if g.Type == model.GroupURLTest {
		typ = "urltest"
	}
	ob := map[string]any{"type": typ, "tag": g.Name, "outbounds": members}
	if g.Type == model.GroupURLTest {
		if g.URL != "" {
			ob["url"] = g.URL
		}
		if g.Interval > 0 {
			ob["interval"] = formatInterval(g.Interval)
		}
	}
	return ob
}

// formatInterval renders a second count in sing-box's "1h30m"-style
// duration syntax: hours, minutes and seconds, omitting zero parts
// (0 renders as "0s").
func formatInterval(seconds int) string {
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	out := ""
	if h > 0 {
		out += formatInt(h) + "h"
	}
	if m > 0 {
		out += formatInt(m) + "m"
	}
	if s > 0 || out == "" {
		out += formatInt(s) + "s"
	}
	return out
}

func formatInt(v int) string {
	if v == 0 {
		return "0"
	}
	digits := []byte{}
	neg := v < 0
	if neg {
		v = -v
	}
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// singboxRule maps one common-form rule line into sing-box's
// object-shaped route rule. "RULE" (the target-agnostic catch-all) is
// never passed here: EmitSingBox puts its group in the route's own
// "final" field instead.
func singboxRule(rule string) map[string]any {
	fields := splitCommaRule(rule)
	if len(fields) < 3 {
		return map[string]any{"outbound": "DIRECT"}
	}
	typ, value, outbound := fields[0], fields[1], fields[2]
	m := map[string]any{"outbound": outbound}
	switch typ {
	case "DOMAIN":
		m["domain"] = []string{value}
	case "DOMAIN-SUFFIX":
		m["domain_suffix"] = []string{value}
	case "DOMAIN-KEYWORD":
		m["domain_keyword"] = []string{value}
	case "DOMAIN-REGEX":
		m["domain_regex"] = []string{value}
	case "IP-CIDR", "IP-CIDR6":
		m["ip_cidr"] = []string{value}
	case "GEOIP":
		m["geoip"] = []string{value}
	case "GEOSITE":
		m["geosite"] = []string{value}
	case "PROCESS-NAME":
		m["process_name"] = []string{value}
	case "PORT":
		m["port"] = value
	}
	return m
}

func splitCommaRule(rule string) []string {
	var out []string
	start := 0
	for i := 0; i < len(rule); i++ {
		if rule[i] == ',' {
			out = append(out, rule[start:i])
			start = i + 1
		}
	}
	out = append(out, rule[start:])
	return out
}

// singboxOutbound converts one node; Snell and plain SOCKS/HTTP have
// no sing-box outbound type in this conversion and are dropped, same
// as the producer this is grounded on gates unsupported combinations
// rather than emitting a best-effort guess.
func singboxOutbound(n model.Node) (map[string]any, bool) {
	tag := nodeName(n)
	switch n.ProxyType {
	case model.TypeShadowsocks:
		ob := map[string]any{"type": "shadowsocks", "tag": tag, "server": n.Hostname, "server_port": n.Port,
			"method": n.EncryptMethod, "password": n.Password}
		return ob, true

	case model.TypeShadowsocksR:
		if n.SSR == nil {
			return nil, false
		}
		return map[string]any{"type": "shadowsocksr", "tag": tag, "server": n.Hostname, "server_port": n.Port,
			"method": n.EncryptMethod, "password": n.Password,
			"protocol": n.SSR.Protocol, "protocol_param": n.SSR.ProtocolParam,
			"obfs": n.SSR.Obfs, "obfs_param": n.SSR.ObfsParam}, true

	case model.TypeVMess:
		ob := map[string]any{"type": "vmess", "tag": tag, "server": n.Hostname, "server_port": n.Port,
			"uuid": n.UserID, "alter_id": n.AlterID, "security": "auto"}
		singboxTransport(ob, n)
		singboxTLS(ob, n)
		return ob, true

	case model.TypeVless:
		ob := map[string]any{"type": "vless", "tag": tag, "server": n.Hostname, "server_port": n.Port, "uuid": n.UserID}
		if n.Vless != nil && n.Vless.Flow != "" {
			ob["flow"] = n.Vless.Flow
		}
		singboxTransport(ob, n)
		singboxTLS(ob, n)
		return ob, true

	case model.TypeTrojan:
		ob := map[string]any{"type": "trojan", "tag": tag, "server": n.Hostname, "server_port": n.Port, "password": n.Password}
		singboxTLS(ob, n)
		return ob, true

	case model.TypeHysteria2:
		if n.Hysteria == nil {
			return nil, false
		}
		ob := map[string]any{"type": "hysteria2", "tag": tag, "server": n.Hostname, "server_port": n.Port,
			"password": n.Hysteria.AuthStr}
		if n.Hysteria.Obfs != "" {
			ob["obfs"] = map[string]any{"type": n.Hysteria.Obfs, "password": n.Hysteria.ObfsParam}
		}
		singboxTLS(ob, n)
		return ob, true

	case model.TypeWireGuard:
		if n.WireGuard == nil {
			return nil, false
		}
		w := n.WireGuard
		return map[string]any{"type": "wireguard", "tag": tag, "server": n.Hostname, "server_port": n.Port,
			"private_key": w.PrivateKey, "peer_public_key": w.PublicKey, "local_address": []string{w.SelfIP},
			"mtu": w.MTU}, true

	default:
		return nil, false
	}
}

func singboxTransport(ob map[string]any, n model.Node) {
	if n.TransferProtocol == "" || n.TransferProtocol == model.TransferTCP {
		return
	}
	t := map[string]any{"type": string(n.TransferProtocol)}
	switch n.TransferProtocol {
	case model.TransferWS:
		t["path"] = n.Path
		if n.Host != "" {
			t["headers"] = map[string]any{"Host": n.Host}
		}
	case model.TransferGRPC:
		t["service_name"] = n.Path
	}
	ob["transport"] = t
}

func singboxTLS(ob map[string]any, n model.Node) {
	if n.SNI == "" {
		return
	}
	tls := map[string]any{"enabled": true, "server_name": n.SNI}
	if v, ok := n.AllowInsecure.Bool(); ok {
		tls["insecure"] = v
	}
	ob["tls"] = tls
}
