package uri

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

var wireguardLinkPattern = regexp.MustCompile(`^((.*?)@)?(.*?)(:(\d+))?/?(\?(.*?))?(?:#(.*?))?$`)

// ParseWireGuard decodes a wireguard:// or wg:// link.
func ParseWireGuard(raw string) (*model.Node, error) {
	content := regexp.MustCompile(`^(wireguard|wg)://`).ReplaceAllString(raw, "")

	match := wireguardLinkPattern.FindStringSubmatch(content)
	if match == nil {
		return nil, errf("wireguard", "does not match expected shape")
	}

	privateKey, _ := url.QueryUnescape(match[2])
	server := match[3]
	port := 51820
	if match[5] != "" {
		port, _ = strconv.Atoi(match[5])
	}
	if port == 0 {
		return nil, errf("wireguard", "port is zero")
	}

	remark := match[8]
	if remark != "" {
		remark, _ = url.QueryUnescape(remark)
	} else {
		remark = fmt.Sprintf("WireGuard %s:%d", server, port)
	}

	opts := model.WireGuardOpts{PrivateKey: privateKey}

	for _, addon := range strings.Split(match[7], "&") {
		if addon == "" {
			continue
		}
		kv := strings.SplitN(addon, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ReplaceAll(kv[0], "_", "-")
		value, _ := url.QueryUnescape(kv[1])

		switch key {
		case "address", "ip":
			for _, ipPart := range strings.Split(value, ",") {
				ipPart = strings.TrimSpace(ipPart)
				ipPart = regexp.MustCompile(`/\d+$`).ReplaceAllString(ipPart, "")
				ipPart = strings.Trim(ipPart, "[]")
				if isIPv4(ipPart) {
					opts.SelfIP = ipPart
				} else if isIPv6(ipPart) {
					opts.SelfIPv6 = ipPart
				}
			}
		case "mtu":
			opts.MTU, _ = strconv.Atoi(value)
		case "publickey":
			opts.PublicKey = value
		case "privatekey":
			opts.PrivateKey = value
		case "allowed-ips":
			opts.AllowedIPs = strings.Trim(value, "[]")
		case "presharedkey":
			opts.PreSharedKey = value
		case "clientid":
			opts.ClientID = value
		case "keepalive":
			opts.KeepAlive, _ = strconv.Atoi(value)
		}
	}

	node := model.WireGuardConstruct(server, port, remark, opts)
	node.UDP = model.True
	return &node, nil
}
