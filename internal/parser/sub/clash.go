package sub

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/subconverter-go/subconverter/internal/logger"
	"github.com/subconverter-go/subconverter/internal/model"
)

type clashDoc struct {
	Proxies      []map[string]any `yaml:"proxies"`
	ProxiesLegacy []map[string]any `yaml:"Proxy"`
}

// decodeClashYAML reads the `proxies:` (or legacy `Proxy:`) list and
// delegates each item to its per-type converter by reading `type`.
// Every per-type converter populates nested transport options the
// same way the teacher's producers read them back out: ws-opts,
// h2-opts, grpc-opts, plugin-opts.
func decodeClashYAML(blob string) ([]model.Node, error) {
	var doc clashDoc
	if err := yaml.Unmarshal([]byte(blob), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal clash yaml: %w", err)
	}
	items := doc.Proxies
	if len(items) == 0 {
		items = doc.ProxiesLegacy
	}

	nodes := make([]model.Node, 0, len(items))
	id := 0
	for _, item := range items {
		node, err := clashItemToNode(item)
		if err != nil {
			logger.Warn("skip clash proxy item", "error", err)
			continue
		}
		node.ID = id
		id++
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

func clashItemToNode(m map[string]any) (*model.Node, error) {
	t := yStr(m, "type")
	name := yStr(m, "name")
	server := yStr(m, "server")
	port := yInt(m, "port")
	if server == "" || port == 0 {
		return nil, fmt.Errorf("proxy %q: missing server/port", name)
	}

	var node model.Node
	switch t {
	case "ss":
		node = model.SSConstruct(server, port, yStr(m, "cipher"), yStr(m, "password"), name, yStr(m, "plugin"), flattenPluginOpts(m["plugin-opts"]))
	case "ssr":
		node = model.SSRConstruct(server, port, yStr(m, "cipher"), yStr(m, "password"), yStr(m, "protocol"), yStr(m, "protocol-param"), yStr(m, "obfs"), yStr(m, "obfs-param"), name)
	case "vmess":
		network := model.TransferProtocol(orDefault(yStr(m, "network"), "tcp"))
		host, path := clashTransportHostPath(m, network)
		node = model.VMessConstruct(server, port, yStr(m, "uuid"), yInt(m, "alterId"), network, host, path, name, yBool(m, "tls"))
		node.EncryptMethod = orDefault(yStr(m, "cipher"), "auto")
	case "vless":
		network := model.TransferProtocol(orDefault(yStr(m, "network"), "tcp"))
		host, path := clashTransportHostPath(m, network)
		opts := &model.VlessOpts{Flow: yStr(m, "flow")}
		if reality, ok := m["reality-opts"].(map[string]any); ok {
			opts.RealityPBK = yStr(reality, "public-key")
			opts.RealitySID = yStr(reality, "short-id")
		}
		node = model.VlessConstruct(server, port, yStr(m, "uuid"), network, host, path, name, opts)
	case "trojan":
		node = model.TrojanConstruct(server, port, yStr(m, "password"), orDefault(yStr(m, "sni"), server), name)
		network := model.TransferProtocol(orDefault(yStr(m, "network"), "tcp"))
		node.TransferProtocol = network
		node.Host, node.Path = clashTransportHostPath(m, network)
	case "snell":
		obfsMode, obfsHost := "", ""
		if opts, ok := m["obfs-opts"].(map[string]any); ok {
			obfsMode, obfsHost = yStr(opts, "mode"), yStr(opts, "host")
		}
		node = model.SnellConstruct(server, port, yStr(m, "psk"), obfsMode, obfsHost, name, yInt(m, "version"))
	case "socks5":
		node = model.SocksConstruct(model.TypeSocks5, server, port, yStr(m, "username"), yStr(m, "password"), name)
	case "http":
		proxyType := model.TypeHTTP
		if yBool(m, "tls") {
			proxyType = model.TypeHTTPS
		}
		node = model.SocksConstruct(proxyType, server, port, yStr(m, "username"), yStr(m, "password"), name)
	case "wireguard":
		opts := model.WireGuardOpts{
			PrivateKey: yStr(m, "private-key"),
			PublicKey:  yStr(m, "public-key"),
			SelfIP:     yStr(m, "ip"),
			SelfIPv6:   yStr(m, "ipv6"),
			MTU:        yInt(m, "mtu"),
		}
		node = model.WireGuardConstruct(server, port, name, opts)
	case "hysteria", "hysteria2":
		proxyType := model.TypeHysteria
		if t == "hysteria2" {
			proxyType = model.TypeHysteria2
		}
		opts := model.HysteriaOpts{
			UpSpeed:   yInt(m, "up"),
			DownSpeed: yInt(m, "down"),
			Obfs:      yStr(m, "obfs"),
			ObfsParam: yStr(m, "obfs-password"),
			Auth:      orDefault(yStr(m, "auth-str"), yStr(m, "password")),
			AuthStr:   orDefault(yStr(m, "auth-str"), yStr(m, "password")),
		}
		node = model.HysteriaConstruct(proxyType, server, port, name, opts)
		node.SNI = yStr(m, "sni")
	default:
		return nil, fmt.Errorf("proxy %q: unsupported clash type %q", name, t)
	}

	node.UDP = model.TriFromBool(yBool(m, "udp"))
	if _, ok := m["skip-cert-verify"]; ok {
		node.AllowInsecure = model.TriFromBool(yBool(m, "skip-cert-verify"))
	}
	return &node, nil
}

// clashTransportHostPath reads ws-opts / h2-opts / grpc-opts per the
// active network, matching how the teacher's YAML producers write
// these same nested keys.
func clashTransportHostPath(m map[string]any, network model.TransferProtocol) (host, path string) {
	switch network {
	case model.TransferWS:
		if ws, ok := m["ws-opts"].(map[string]any); ok {
			path = yStr(ws, "path")
			if headers, ok := ws["headers"].(map[string]any); ok {
				host = yStr(headers, "Host")
			}
		}
	case model.TransferH2:
		if h2, ok := m["h2-opts"].(map[string]any); ok {
			path = yStr(h2, "path")
			if hosts, ok := h2["host"].([]any); ok && len(hosts) > 0 {
				host, _ = hosts[0].(string)
			}
		}
	case model.TransferGRPC:
		if grpc, ok := m["grpc-opts"].(map[string]any); ok {
			path = yStr(grpc, "grpc-service-name")
		}
	}
	return host, path
}

func flattenPluginOpts(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(m))
	for k, val := range m {
		parts = append(parts, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(parts, ";")
}

func yStr(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func yInt(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	}
	return 0
}

func yBool(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
