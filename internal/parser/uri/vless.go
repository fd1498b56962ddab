package uri

import (
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ParseVless decodes a vless:// link, including REALITY and xhttp
// query parameters.
func ParseVless(raw string) (*model.Node, error) {
	content := strings.TrimPrefix(raw, "vless://")
	mainPart, remark := splitFragment(content)
	mainPart, params := splitQuery(mainPart)
	mainPart = strings.TrimSuffix(mainPart, "/")

	atIdx := strings.LastIndex(mainPart, "@")
	if atIdx == -1 {
		return nil, errf("vless", "missing @")
	}
	userID := mainPart[:atIdx]
	if userID == "" {
		return nil, errf("vless", "empty uuid")
	}
	server, port := parseServerPort(mainPart[atIdx+1:], 443)
	if port == 0 {
		return nil, errf("vless", "port is zero")
	}

	security := orDefault(params["security"], "none")
	network := model.TransferProtocol(orDefault(params["type"], "tcp"))

	opts := &model.VlessOpts{
		Flow:       params["flow"],
		Encryption: orDefault(params["encryption"], "none"),
	}
	if security == "reality" {
		opts.RealityPBK = params["pbk"]
		opts.RealitySID = params["sid"]
	}
	if network == "xhttp" {
		opts.XHTTPMode = orDefault(params["mode"], "auto")
		opts.XHTTPExtra = params["path"]
	}

	node := model.VlessConstruct(server, port, userID, network, params["host"], params["path"], remark, opts)
	node.UDP = model.True
	if sni := params["sni"]; sni != "" {
		node.SNI = safeDecodeURIComponent(sni)
	} else {
		node.SNI = server
	}
	if params["allowInsecure"] == "1" || security == "reality" {
		node.AllowInsecure = model.True
	}
	if fp := params["fp"]; fp != "" {
		node.Fingerprint = fp
	}
	return &node, nil
}

// EncodeVless renders a Node back into a vless:// link.
func EncodeVless(n model.Node) string {
	link := "vless://" + n.UserID + "@" + n.Hostname + ":" + itoa(n.Port)
	q := "?encryption=none&type=" + string(orDefaultTransport(n.TransferProtocol))
	if n.SNI != "" {
		q += "&sni=" + n.SNI
	}
	return link + q + "#" + n.Remark
}

func orDefaultTransport(t model.TransferProtocol) model.TransferProtocol {
	if t == "" {
		return model.TransferTCP
	}
	return t
}
