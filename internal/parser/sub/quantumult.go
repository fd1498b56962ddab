package sub

import (
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// decodeQuantumultList parses a Quantumult (v1) server list: one
// "type=host:port, k=v, k=v, tag=Name" line per proxy.
func decodeQuantumultList(blob string) []model.Node {
	var nodes []model.Node
	id := 0
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		node, ok := quantumultLineToNode(line)
		if !ok {
			continue
		}
		node.ID = id
		id++
		nodes = append(nodes, *node)
	}
	return nodes
}

func quantumultLineToNode(line string) (*model.Node, bool) {
	eq := strings.Index(line, "=")
	if eq == -1 {
		return nil, false
	}
	proxyType := strings.ToLower(strings.TrimSpace(line[:eq]))
	rest := line[eq+1:]

	fields := strings.Split(rest, ",")
	if len(fields) == 0 {
		return nil, false
	}

	hostPort := strings.TrimSpace(fields[0])
	colon := strings.LastIndex(hostPort, ":")
	if colon == -1 {
		return nil, false
	}
	host := hostPort[:colon]
	port, _ := strconv.Atoi(hostPort[colon+1:])
	if port == 0 {
		return nil, false
	}

	kv := make(map[string]string)
	for _, f := range fields[1:] {
		parts := strings.SplitN(strings.TrimSpace(f), "=", 2)
		if len(parts) == 2 {
			kv[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	name := orDefault(kv["tag"], host)

	var node model.Node
	switch proxyType {
	case "shadowsocks":
		node = model.SSConstruct(host, port, kv["method"], kv["password"], name, kv["obfs"], "")
	case "vmess":
		node = model.VMessConstruct(host, port, kv["id"], 0, model.TransferProtocol(orDefault(kv["obfs"], "tcp")), kv["obfs-host"], kv["path"], name, kv["tls"] == "true")
	case "trojan":
		node = model.TrojanConstruct(host, port, kv["password"], orDefault(kv["tls-host"], host), name)
	default:
		return nil, false
	}
	return &node, true
}
