package emitter

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// EmitQuantumult renders nodes into the original Quantumult (v1)
// "vmess = host:port, ..." line dialect, base64-wrapped the way the
// app's subscription URL expects, distinct from Quantumult X's native
// (unwrapped) comma-field syntax handled in quantumultx.go.
func EmitQuantumult(in Input) (string, error) {
	var lines []string
	for _, n := range in.Nodes {
		line, ok := quantumultLine(n)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}
	body := strings.Join(lines, "\n")
	return base64.StdEncoding.EncodeToString([]byte(body)), nil
}

func quantumultLine(n model.Node) (string, bool) {
	name := nodeName(n)
	switch n.ProxyType {
	case model.TypeShadowsocks:
		line := fmt.Sprintf("shadowsocks = %s:%d, method=%s, password=%s, tag=%s",
			n.Hostname, n.Port, n.EncryptMethod, n.Password, name)
		if n.Plugin == "obfs" {
			line += fmt.Sprintf(", obfs=%s, obfs-host=%s", n.PluginOption, n.Host)
		}
		return line, true

	case model.TypeShadowsocksR:
		if n.SSR == nil {
			return "", false
		}
		line := fmt.Sprintf("shadowsocks = %s:%d, method=%s, password=%s, ssr-protocol=%s, obfs=%s, tag=%s",
			n.Hostname, n.Port, n.EncryptMethod, n.Password, n.SSR.Protocol, n.SSR.Obfs, name)
		return line, true

	case model.TypeVMess:
		cipher := n.EncryptMethod
		if cipher == "" || cipher == "auto" {
			cipher = "chacha20-ietf-poly1305"
		}
		line := fmt.Sprintf("vmess = %s:%d, method=%s, password=%s, tag=%s", n.Hostname, n.Port, cipher, n.UserID, name)
		if n.TransferProtocol == model.TransferWS {
			line += ", obfs=ws"
			if n.Path != "" {
				line += fmt.Sprintf(", obfs-uri=%s", n.Path)
			}
			if n.Host != "" {
				line += fmt.Sprintf(", obfs-host=%s", n.Host)
			}
		}
		return line, true

	case model.TypeHTTP, model.TypeHTTPS:
		line := fmt.Sprintf("http = %s:%d, tag=%s", n.Hostname, n.Port, name)
		if n.Username != "" {
			line += fmt.Sprintf(", username=%s, password=%s", n.Username, n.Password)
		}
		return line, true

	default:
		return "", false
	}
}
