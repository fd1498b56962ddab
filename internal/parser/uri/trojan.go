package uri

import (
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ParseTrojan decodes a trojan:// link.
func ParseTrojan(raw string) (*model.Node, error) {
	content := strings.TrimPrefix(raw, "trojan://")
	mainPart, remark := splitFragment(content)
	mainPart, params := splitQuery(mainPart)
	mainPart = strings.TrimSuffix(mainPart, "/")

	atIdx := strings.LastIndex(mainPart, "@")
	if atIdx == -1 {
		return nil, errf("trojan", "missing @")
	}
	password := mainPart[:atIdx]
	server, port := parseServerPort(mainPart[atIdx+1:], 443)
	if port == 0 {
		return nil, errf("trojan", "port is zero")
	}

	sni := server
	for _, key := range []string{"sni", "peer", "host"} {
		if v := params[key]; v != "" {
			sni = safeDecodeURIComponent(v)
			break
		}
	}

	node := model.TrojanConstruct(server, port, password, sni, remark)
	node.UDP = model.True
	node.TransferProtocol = model.TransferProtocol(orDefault(params["type"], "tcp"))
	node.Path = safeDecodeURIComponent(params["path"])
	node.Host = safeDecodeURIComponent(params["host"])
	if params["allowInsecure"] == "1" || params["skip-cert-verify"] == "1" {
		node.AllowInsecure = model.True
	}
	return &node, nil
}

// EncodeTrojan renders a Node back into a trojan:// link.
func EncodeTrojan(n model.Node) string {
	link := "trojan://" + n.Password + "@" + n.Hostname + ":" + itoa(n.Port)
	if n.SNI != "" {
		link += "?sni=" + n.SNI
	}
	if n.Remark != "" {
		link += "#" + n.Remark
	}
	return link
}
