package uri

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// ParseSocks decodes socks:// (base64 userinfo) and socks5:// (plain
// userinfo) links.
func ParseSocks(raw string) (*model.Node, error) {
	var content string
	plainAuth := false
	switch {
	case strings.HasPrefix(raw, "socks5://"):
		content = strings.TrimPrefix(raw, "socks5://")
		plainAuth = true
	case strings.HasPrefix(raw, "socks://"):
		content = strings.TrimPrefix(raw, "socks://")
	default:
		return nil, errf("socks", "unrecognized scheme")
	}

	mainPart, remark := splitFragment(content)
	mainPart, _ = splitQuery(mainPart)

	var server, username, password string
	var port int

	atIdx := strings.LastIndex(mainPart, "@")
	if atIdx == -1 {
		parts := strings.SplitN(mainPart, ":", 2)
		server = parts[0]
		if len(parts) > 1 {
			port, _ = strconv.Atoi(parts[1])
		}
	} else {
		authPart, serverPart := mainPart[:atIdx], mainPart[atIdx+1:]
		if plainAuth {
			if colon := strings.Index(authPart, ":"); colon != -1 {
				username, _ = url.QueryUnescape(authPart[:colon])
				password, _ = url.QueryUnescape(authPart[colon+1:])
			} else {
				username, _ = url.QueryUnescape(authPart)
			}
		} else if decoded, err := base64DecodeURLSafe(authPart); err == nil {
			if colon := strings.Index(decoded, ":"); colon != -1 {
				username, password = decoded[:colon], decoded[colon+1:]
			} else {
				username = decoded
			}
		}
		server, port = parseServerPort(serverPart, 0)
	}

	if port == 0 {
		return nil, errf("socks", "port is zero")
	}
	if remark == "" {
		remark = fmt.Sprintf("%s:%d", server, port)
	}

	node := model.SocksConstruct(model.TypeSocks5, server, port, username, password, remark)
	return &node, nil
}

// ParseHTTPProxy decodes a plain http:// or https:// proxy link
// (userinfo@host:port). Every http(s) link that reaches it is read as
// a proxy; neither it nor Parse retries the link as a subscription URL.
func ParseHTTPProxy(raw string) (*model.Node, error) {
	proxyType := model.TypeHTTP
	content := raw
	switch {
	case strings.HasPrefix(raw, "https://"):
		proxyType = model.TypeHTTPS
		content = strings.TrimPrefix(raw, "https://")
	case strings.HasPrefix(raw, "http://"):
		content = strings.TrimPrefix(raw, "http://")
	default:
		return nil, errf("http", "unrecognized scheme")
	}

	mainPart, remark := splitFragment(content)
	mainPart, _ = splitQuery(mainPart)

	var username, password string
	atIdx := strings.LastIndex(mainPart, "@")
	serverPart := mainPart
	if atIdx != -1 {
		authPart := mainPart[:atIdx]
		serverPart = mainPart[atIdx+1:]
		if colon := strings.Index(authPart, ":"); colon != -1 {
			username, _ = url.QueryUnescape(authPart[:colon])
			password, _ = url.QueryUnescape(authPart[colon+1:])
		}
	}

	defaultPort := 80
	if proxyType == model.TypeHTTPS {
		defaultPort = 443
	}
	server, port := parseServerPort(serverPart, defaultPort)
	if port == 0 {
		return nil, errf("http", "port is zero")
	}
	if remark == "" {
		remark = fmt.Sprintf("%s:%d", server, port)
	}

	node := model.SocksConstruct(proxyType, server, port, username, password, remark)
	return &node, nil
}
