package uri

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// knownSSCiphers lets the plaintext `method:password@host:port` form be
// told apart from the fully base64-encoded form without guessing.
var knownSSCiphers = []string{
	"aes-128-gcm", "aes-192-gcm", "aes-256-gcm",
	"aes-128-cfb", "aes-192-cfb", "aes-256-cfb",
	"aes-128-ctr", "aes-192-ctr", "aes-256-ctr",
	"chacha20-ietf-poly1305", "xchacha20-ietf-poly1305",
	"chacha20-ietf", "chacha20", "xchacha20",
	"2022-blake3-aes-128-gcm", "2022-blake3-aes-256-gcm",
	"2022-blake3-chacha20-poly1305",
	"rc4-md5", "none",
}

// ParseSS decodes a ss:// link into a Node.
func ParseSS(raw string) (*model.Node, error) {
	content := strings.TrimPrefix(raw, "ss://")
	mainPart, remark := splitFragment(content)
	mainPart, params := splitQuery(mainPart)
	mainPart = strings.TrimSuffix(mainPart, "/")

	var server, method, password string
	var port int

	atIdx := strings.LastIndex(mainPart, "@")
	if atIdx == -1 {
		decoded, err := base64DecodeURLSafe(mainPart)
		if err != nil {
			return nil, errf("ss", "decode body: %v", err)
		}
		idx := strings.LastIndex(decoded, "@")
		if idx == -1 {
			return nil, errf("ss", "missing @ after decode")
		}
		authPart, serverPart := decoded[:idx], decoded[idx+1:]
		colon := strings.Index(authPart, ":")
		if colon == -1 {
			return nil, errf("ss", "missing method separator")
		}
		method, password = authPart[:colon], authPart[colon+1:]
		server, port = parseServerPort(serverPart, 0)
	} else {
		authPart, serverPart := mainPart[:atIdx], mainPart[atIdx+1:]
		server, port = parseServerPort(serverPart, 0)

		var matched string
		for _, c := range knownSSCiphers {
			if strings.HasPrefix(authPart, c+":") {
				matched = c
				break
			}
		}
		if matched != "" {
			method = matched
			password = authPart[len(matched)+1:]
			if decoded, err := base64DecodeURLSafe(password); err == nil && printableASCII(decoded) && decoded != "" {
				password = decoded
			}
		} else {
			if strings.Contains(authPart, "%") {
				authPart, _ = url.QueryUnescape(authPart)
			}
			decoded, err := base64DecodeURLSafe(authPart)
			if err != nil {
				return nil, errf("ss", "decode auth: %v", err)
			}
			colon := strings.Index(decoded, ":")
			if colon == -1 {
				return nil, errf("ss", "invalid auth format")
			}
			method, password = decoded[:colon], decoded[colon+1:]
		}
	}

	if port == 0 {
		return nil, errf("ss", "port is zero")
	}

	node := model.SSConstruct(server, port, method, password, remark, "", "")
	node.UDP = model.True
	if plugin := params["plugin"]; plugin != "" {
		name, opts := parseSSPlugin(plugin)
		node.Plugin = name
		node.PluginOption = opts
	}
	return &node, nil
}

func printableASCII(s string) bool {
	for _, c := range s {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

// parseSSPlugin flattens an SIP003 plugin string into a plugin name
// and a "k1=v1;k2=v2" option string, matching the shape shadowsocks
// clients expect on the Node.PluginOption field.
func parseSSPlugin(pluginStr string) (name string, opts string) {
	decoded, _ := url.QueryUnescape(pluginStr)
	parts := strings.Split(decoded, ";")
	if len(parts) == 0 {
		return "", ""
	}
	name = strings.TrimSpace(parts[0])
	if name == "obfs-local" || name == "simple-obfs" {
		name = "obfs"
	}
	opts = strings.Join(parts[1:], ";")
	return name, opts
}

// EncodeSS renders a Node back into a ss:// link of the form
// base64(method:password)@host:port[?plugin=...]#remark.
func EncodeSS(n model.Node) string {
	auth := base64EncodeURLSafe(fmt.Sprintf("%s:%s", n.EncryptMethod, n.Password))
	link := fmt.Sprintf("ss://%s@%s:%d", auth, n.Hostname, n.Port)
	if n.Plugin != "" {
		plugin := n.Plugin
		if n.PluginOption != "" {
			plugin = plugin + ";" + n.PluginOption
		}
		link += "?plugin=" + url.QueryEscape(plugin)
	}
	if n.Remark != "" {
		link += "#" + url.QueryEscape(n.Remark)
	}
	return link
}
