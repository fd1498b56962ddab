package uri

import (
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ParseHysteria decodes a hysteria:// link.
func ParseHysteria(raw string) (*model.Node, error) {
	return parseHysteriaGeneric(raw, "hysteria", model.TypeHysteria)
}

// ParseHysteria2 decodes a hysteria2:// or hy2:// link.
func ParseHysteria2(raw string) (*model.Node, error) {
	raw = strings.Replace(raw, "hy2://", "hysteria2://", 1)
	return parseHysteriaGeneric(raw, "hysteria2", model.TypeHysteria2)
}

func parseHysteriaGeneric(raw, scheme string, proxyType model.ProxyType) (*model.Node, error) {
	content := strings.TrimPrefix(raw, scheme+"://")
	mainPart, remark := splitFragment(content)
	mainPart, params := splitQuery(mainPart)
	mainPart = strings.TrimSuffix(mainPart, "/")

	atIdx := strings.LastIndex(mainPart, "@")
	if atIdx == -1 {
		return nil, errf(scheme, "missing @")
	}
	auth := mainPart[:atIdx]
	server, port := parseServerPort(mainPart[atIdx+1:], 0)
	if port == 0 {
		return nil, errf(scheme, "port is zero")
	}

	opts := model.HysteriaOpts{
		Ports:   params["mport"],
		Auth:    auth,
		AuthStr: auth,
		Obfs:    params["obfs"],
	}
	if up, err := strconv.Atoi(params["upmbps"]); err == nil {
		opts.UpSpeed = up
	}
	if down, err := strconv.Atoi(params["downmbps"]); err == nil {
		opts.DownSpeed = down
	}
	if alpn := params["alpn"]; alpn != "" {
		opts.ALPN = strings.Split(alpn, ",")
	}
	opts.CA = params["ca"]
	opts.CAStr = params["ca_str"]

	node := model.HysteriaConstruct(proxyType, server, port, remark, opts)
	node.UDP = model.True
	node.SNI = orDefault(params["sni"], params["peer"])
	if node.SNI == "" {
		node.SNI = server
	}
	if params["insecure"] == "1" {
		node.AllowInsecure = model.True
	}
	return &node, nil
}
