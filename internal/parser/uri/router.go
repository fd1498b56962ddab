package uri

import (
	"strings"

	"github.com/subconverter-go/subconverter/internal/model"
)

// Parse dispatches a single proxy link to its scheme's decoder, in
// the fixed probe order spec §4.2 requires: vmess, vless, ss, ssr,
// trojan, snell, socks, http(s), wireguard, hysteria, hysteria2.
func Parse(raw string) (*model.Node, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(raw, "vmess://"):
		return ParseVMess(raw)
	case strings.HasPrefix(raw, "vless://"):
		return ParseVless(raw)
	case strings.HasPrefix(raw, "ss://"):
		return ParseSS(raw)
	case strings.HasPrefix(raw, "ssr://"):
		return ParseSSR(raw)
	case strings.HasPrefix(raw, "trojan://"):
		return ParseTrojan(raw)
	case strings.HasPrefix(raw, "snell://"):
		return ParseSnell(raw)
	case strings.HasPrefix(raw, "socks://"), strings.HasPrefix(raw, "socks5://"),
		strings.HasPrefix(raw, "https://t.me/socks"), strings.HasPrefix(raw, "tg://socks"):
		return ParseSocks(raw)
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return ParseHTTPProxy(raw)
	case strings.HasPrefix(raw, "wireguard://"), strings.HasPrefix(raw, "wg://"):
		return ParseWireGuard(raw)
	case strings.HasPrefix(raw, "hysteria2://"), strings.HasPrefix(raw, "hy2://"):
		return ParseHysteria2(raw)
	case strings.HasPrefix(raw, "hysteria://"):
		return ParseHysteria(raw)
	default:
		return nil, errf("unknown", "unsupported scheme: %s", raw)
	}
}
