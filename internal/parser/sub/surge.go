package sub

import (
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// decodeSurgeList parses a Surge `[Proxy]`-style proxy list: one
// "name = type, host, port, k=v, k=v, ..." line per proxy. Lines that
// don't parse are skipped, matching the "skip and continue" policy
// spec §7 assigns to per-node parse failures.
func decodeSurgeList(blob string) []model.Node {
	var nodes []model.Node
	id := 0
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		node, ok := surgeLineToNode(line)
		if !ok {
			continue
		}
		node.ID = id
		id++
		nodes = append(nodes, *node)
	}
	return nodes
}

func surgeLineToNode(line string) (*model.Node, bool) {
	eq := strings.Index(line, "=")
	if eq == -1 {
		return nil, false
	}
	name := strings.TrimSpace(line[:eq])
	fields := strings.Split(line[eq+1:], ",")
	if len(fields) < 3 {
		return nil, false
	}

	proxyType := strings.ToLower(strings.TrimSpace(fields[0]))
	host := strings.TrimSpace(fields[1])
	port, _ := strconv.Atoi(strings.TrimSpace(fields[2]))
	if port == 0 {
		return nil, false
	}

	kv := make(map[string]string)
	for _, f := range fields[3:] {
		f = strings.TrimSpace(f)
		parts := strings.SplitN(f, "=", 2)
		if len(parts) == 2 {
			kv[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		} else if f != "" {
			kv[f] = "true"
		}
	}

	var node model.Node
	switch proxyType {
	case "ss", "shadowsocks":
		node = model.SSConstruct(host, port, kv["encrypt-method"], kv["password"], name, "", "")
	case "ssr", "shadowsocksr":
		node = model.SSRConstruct(host, port, kv["encrypt-method"], kv["password"], kv["protocol"], kv["protocol-param"], kv["obfs"], kv["obfs-param"], name)
	case "vmess":
		transport := model.TransferTCP
		if kv["ws"] == "true" {
			transport = model.TransferWS
		}
		node = model.VMessConstruct(host, port, kv["username"], 0, transport, kv["ws-headers"], kv["ws-path"], name, kv["tls"] == "true")
	case "trojan":
		node = model.TrojanConstruct(host, port, kv["password"], orDefault(kv["sni"], host), name)
	case "http", "https":
		pt := model.TypeHTTP
		if proxyType == "https" || kv["tls"] == "true" {
			pt = model.TypeHTTPS
		}
		node = model.SocksConstruct(pt, host, port, kv["username"], kv["password"], name)
	case "socks5", "socks5-tls":
		node = model.SocksConstruct(model.TypeSocks5, host, port, kv["username"], kv["password"], name)
	default:
		return nil, false
	}

	if kv["udp"] == "true" {
		node.UDP = model.True
	} else if kv["udp"] == "false" {
		node.UDP = model.False
	}
	if kv["skip-cert-verify"] == "true" {
		node.AllowInsecure = model.True
	}
	return &node, true
}
