package emitter

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/parser/uri"
)

// EmitURI renders each node as its own scheme URI, one per line; when
// base64Wrap is set it wraps the whole list in base64 for clients that
// subscribe to an encoded blob instead of plain text.
func EmitURI(in Input, base64Wrap bool) (string, error) {
	var lines []string
	for _, n := range in.Nodes {
		line, ok := encodeURI(n)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}

	body := strings.Join(lines, "\n")
	if base64Wrap {
		return base64.StdEncoding.EncodeToString([]byte(body)), nil
	}
	return body, nil
}

func encodeURI(n model.Node) (string, bool) {
	switch n.ProxyType {
	case model.TypeShadowsocks:
		return uri.EncodeSS(n), true
	case model.TypeShadowsocksR:
		return uri.EncodeSSR(n), true
	case model.TypeVMess:
		return uri.EncodeVMess(n), true
	case model.TypeVless:
		return uri.EncodeVless(n), true
	case model.TypeTrojan:
		return uri.EncodeTrojan(n), true
	case model.TypeSocks5:
		return encodeSocksURI(n), true
	case model.TypeWireGuard:
		if n.WireGuard == nil {
			return "", false
		}
		return encodeWireGuardURI(n), true
	case model.TypeHysteria2:
		if n.Hysteria == nil {
			return "", false
		}
		return encodeHysteria2URI(n), true
	default:
		return "", false // snell/http/anytls: no registered URI scheme
	}
}

func encodeSocksURI(n model.Node) string {
	userinfo := ""
	if n.Username != "" {
		userinfo = base64.StdEncoding.EncodeToString([]byte(n.Username+":"+n.Password)) + "@"
	}
	return fmt.Sprintf("socks://%s%s:%d#%s", userinfo, n.Hostname, n.Port, url.QueryEscape(n.Remark))
}

func encodeWireGuardURI(n model.Node) string {
	w := n.WireGuard
	q := url.Values{}
	q.Set("publickey", w.PublicKey)
	q.Set("address", w.SelfIP)
	if w.AllowedIPs != "" {
		q.Set("allowed_ips", w.AllowedIPs)
	}
	if w.PreSharedKey != "" {
		q.Set("presharedkey", w.PreSharedKey)
	}
	return fmt.Sprintf("wireguard://%s@%s:%d?%s#%s",
		url.QueryEscape(w.PrivateKey), n.Hostname, n.Port, q.Encode(), url.QueryEscape(n.Remark))
}

func encodeHysteria2URI(n model.Node) string {
	h := n.Hysteria
	q := url.Values{}
	if h.Obfs != "" {
		q.Set("obfs", h.Obfs)
		q.Set("obfs-password", h.ObfsParam)
	}
	if n.SNI != "" {
		q.Set("sni", n.SNI)
	}
	if v, ok := n.AllowInsecure.Bool(); ok && v {
		q.Set("insecure", "1")
	}
	return fmt.Sprintf("hysteria2://%s@%s:%d?%s#%s",
		url.QueryEscape(h.AuthStr), n.Hostname, n.Port, q.Encode(), url.QueryEscape(n.Remark))
}
