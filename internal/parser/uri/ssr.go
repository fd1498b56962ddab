package uri

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ParseSSR decodes an ssr:// link into a Node.
func ParseSSR(raw string) (*model.Node, error) {
	content := strings.TrimPrefix(raw, "ssr://")
	decoded, err := base64DecodeURLSafe(content)
	if err != nil {
		return nil, errf("ssr", "decode body: %v", err)
	}

	parts := strings.SplitN(decoded, "/?", 2)
	mainPart := parts[0]
	paramsPart := ""
	if len(parts) > 1 {
		paramsPart = parts[1]
	}

	segments := strings.Split(mainPart, ":")
	if len(segments) < 6 {
		return nil, errf("ssr", "fewer than 6 colon-separated fields")
	}

	passwordB64 := segments[len(segments)-1]
	obfs := segments[len(segments)-2]
	method := segments[len(segments)-3]
	protocol := segments[len(segments)-4]
	portStr := segments[len(segments)-5]
	server := strings.Join(segments[:len(segments)-5], ":")

	port, _ := strconv.Atoi(portStr)
	if port == 0 {
		return nil, errf("ssr", "port is zero")
	}
	password, _ := base64DecodeURLSafe(passwordB64)

	params := parseQueryParams(paramsPart)
	remark := ""
	if v := params["remarks"]; v != "" {
		remark, _ = base64DecodeURLSafe(v)
	}
	obfsParam := ""
	if v := params["obfsparam"]; v != "" {
		obfsParam, _ = base64DecodeURLSafe(v)
	}
	protoParam := ""
	if v := params["protoparam"]; v != "" {
		protoParam, _ = base64DecodeURLSafe(v)
	}

	node := model.SSRConstruct(server, port, method, password, protocol, protoParam, obfs, obfsParam, remark)
	node.UDP = model.True
	return &node, nil
}

// EncodeSSR renders a Node back into an ssr:// link.
func EncodeSSR(n model.Node) string {
	ssr := n.SSR
	if ssr == nil {
		ssr = &model.SSROpts{}
	}
	main := fmt.Sprintf("%s:%d:%s:%s:%s:%s", n.Hostname, n.Port, ssr.Protocol, n.EncryptMethod, ssr.Obfs, base64EncodeURLSafe(n.Password))

	params := fmt.Sprintf("obfsparam=%s&protoparam=%s&remarks=%s",
		base64EncodeURLSafe(ssr.ObfsParam), base64EncodeURLSafe(ssr.ProtocolParam), base64EncodeURLSafe(n.Remark))

	return "ssr://" + base64EncodeURLSafe(main+"/?"+params)
}
