package model

import (
	"fmt"
	"strings"
)

// ProxyType is the closed set of protocols a Node can represent.
type ProxyType string

const (
	TypeShadowsocks  ProxyType = "ss"
	TypeShadowsocksR ProxyType = "ssr"
	TypeVMess        ProxyType = "vmess"
	TypeVless        ProxyType = "vless"
	TypeTrojan       ProxyType = "trojan"
	TypeSnell        ProxyType = "snell"
	TypeHTTP         ProxyType = "http"
	TypeHTTPS        ProxyType = "https"
	TypeSocks5       ProxyType = "socks5"
	TypeWireGuard    ProxyType = "wireguard"
	TypeHysteria     ProxyType = "hysteria"
	TypeHysteria2    ProxyType = "hysteria2"
	TypeAnyTLS       ProxyType = "anytls"
	TypeUnknown      ProxyType = "unknown"
)

// TransferProtocol is the transport carrying the proxy's traffic.
type TransferProtocol string

const (
	TransferTCP  TransferProtocol = "tcp"
	TransferWS   TransferProtocol = "ws"
	TransferH2   TransferProtocol = "h2"
	TransferHTTP TransferProtocol = "http"
	TransferGRPC TransferProtocol = "grpc"
	TransferKCP  TransferProtocol = "kcp"
	TransferQUIC TransferProtocol = "quic"
)

// Node is the canonical in-memory proxy record. Fields common to most
// protocols live flat on the struct; fields exclusive to one protocol
// family live in an optional variant payload (WireGuard, Hysteria,
// AnyTLS, Vless-REALITY). Preprocessor and Group Matcher code must
// never branch on ProxyType to reach a common field.
type Node struct {
	ID      int
	GroupID int
	Group   string
	Remark  string

	ProxyType ProxyType
	Hostname  string
	Port      int

	Username         string
	Password         string
	EncryptMethod    string
	UserID           string // UUID, VMess/Vless
	AlterID          int
	TransferProtocol TransferProtocol
	Host             string
	Path             string
	Edge             string
	SNI              string
	ServerName       string
	Fingerprint      string
	Plugin           string
	PluginOption     string

	UDP                 Tribool
	TCPFastOpen         Tribool
	AllowInsecure       Tribool
	TLS13               Tribool
	DisableMTUDiscovery Tribool

	SSR       *SSROpts
	WireGuard *WireGuardOpts
	Hysteria  *HysteriaOpts
	Snell     *SnellOpts
	Vless     *VlessOpts
}

// SSROpts holds ShadowsocksR-only fields.
type SSROpts struct {
	Protocol      string
	ProtocolParam string
	Obfs          string
	ObfsParam     string
}

// WireGuardOpts holds WireGuard-only fields.
type WireGuardOpts struct {
	SelfIP       string
	SelfIPv6     string
	PrivateKey   string
	PublicKey    string
	PreSharedKey string
	DNSServers   []string
	MTU          int
	AllowedIPs   string
	KeepAlive    int
	ClientID     string
	TestURL      string
}

// HysteriaOpts holds Hysteria/Hysteria2-only fields.
type HysteriaOpts struct {
	Ports                 string
	UpSpeed               int
	DownSpeed             int
	Auth                  string
	AuthStr               string
	Obfs                  string
	ObfsParam             string
	ALPN                  []string
	CA                    string
	CAStr                 string
	RecvWindowConn        int
	RecvWindow            int
	DisableMTUDiscovery   bool
	HopInterval           int
	CWND                  int
}

// SnellOpts holds Snell-only fields.
type SnellOpts struct {
	Version int
}

// VlessOpts holds Vless-only fields (REALITY, xhttp extra mode).
type VlessOpts struct {
	Flow        string
	Encryption  string
	RealityPBK  string
	RealitySID  string
	XHTTPMode   string
	XHTTPExtra  string
}

const defaultWireGuardAllowedIPs = "0.0.0.0/0, ::/0"

// newNode builds a Node with the fields every protocol needs, applying
// the shared normalization rules: trimmed remark, default group, and
// remark falling back to "host (port)" when empty. Protocol
// constructors below call this first, then attach their variant
// payload and protocol-specific defaults.
func newNode(proxyType ProxyType, defaultGroup, hostname string, port int, remark string) Node {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		remark = fmt.Sprintf("%s (%d)", hostname, port)
	}
	return Node{
		ProxyType: proxyType,
		Group:     defaultGroup,
		Hostname:  hostname,
		Port:      port,
		Remark:    remark,
	}
}

// SSConstruct builds a Shadowsocks node.
func SSConstruct(hostname string, port int, method, password, remark, plugin, pluginOpts string) Node {
	n := newNode(TypeShadowsocks, "SSProvider", hostname, port, remark)
	n.EncryptMethod = method
	n.Password = password
	n.Plugin = plugin
	n.PluginOption = pluginOpts
	return n
}

// SSRConstruct builds a ShadowsocksR node.
func SSRConstruct(hostname string, port int, method, password, protocol, protocolParam, obfs, obfsParam, remark string) Node {
	n := newNode(TypeShadowsocksR, "SSRProvider", hostname, port, remark)
	n.EncryptMethod = method
	n.Password = password
	n.SSR = &SSROpts{
		Protocol:      protocol,
		ProtocolParam: protocolParam,
		Obfs:          obfs,
		ObfsParam:     obfsParam,
	}
	return n
}

// VMessConstruct builds a VMess node.
func VMessConstruct(hostname string, port int, userID string, alterID int, transport TransferProtocol, host, path, remark string, tls bool) Node {
	n := newNode(TypeVMess, "VMessProvider", hostname, port, remark)
	n.UserID = userID
	n.AlterID = alterID
	n.TransferProtocol = transport
	n.Host = host
	n.Path = path
	if tls {
		n.SNI = host
	}
	return n
}

// VlessConstruct builds a Vless node.
func VlessConstruct(hostname string, port int, userID string, transport TransferProtocol, host, path, remark string, opts *VlessOpts) Node {
	n := newNode(TypeVless, "VlessProvider", hostname, port, remark)
	n.UserID = userID
	n.TransferProtocol = transport
	n.Host = host
	n.Path = path
	n.Vless = opts
	return n
}

// TrojanConstruct builds a Trojan node.
func TrojanConstruct(hostname string, port int, password, sni, remark string) Node {
	n := newNode(TypeTrojan, "TrojanProvider", hostname, port, remark)
	n.Password = password
	n.SNI = sni
	return n
}

// SnellConstruct builds a Snell node.
func SnellConstruct(hostname string, port int, password, obfs, obfsHost, remark string, version int) Node {
	n := newNode(TypeSnell, "SnellProvider", hostname, port, remark)
	n.Password = password
	n.Plugin = obfs
	n.Host = obfsHost
	n.Snell = &SnellOpts{Version: version}
	return n
}

// SocksConstruct builds a plain SOCKS5/HTTP(S) proxy node.
func SocksConstruct(proxyType ProxyType, hostname string, port int, username, password, remark string) Node {
	n := newNode(proxyType, "HTTPProvider", hostname, port, remark)
	n.Username = username
	n.Password = password
	return n
}

// WireGuardConstruct builds a WireGuard node, defaulting AllowedIPs
// when the caller passes an empty string.
func WireGuardConstruct(hostname string, port int, remark string, opts WireGuardOpts) Node {
	n := newNode(TypeWireGuard, "WireGuardProvider", hostname, port, remark)
	if opts.AllowedIPs == "" {
		opts.AllowedIPs = defaultWireGuardAllowedIPs
	}
	n.WireGuard = &opts
	return n
}

// HysteriaConstruct builds a Hysteria or Hysteria2 node.
func HysteriaConstruct(proxyType ProxyType, hostname string, port int, remark string, opts HysteriaOpts) Node {
	n := newNode(proxyType, "HysteriaProvider", hostname, port, remark)
	n.Hysteria = &opts
	return n
}

// Valid reports the one invariant every emitter depends on: a
// non-empty hostname and a positive port. Callers MUST drop any node
// that fails this check rather than pass it downstream.
func (n Node) Valid() bool {
	return n.Hostname != "" && n.Port > 0
}

// WithDefaults fills the tri-state flags that are still Unset from
// the given request-level defaults. Non-Unset node flags are left
// untouched — this is the override rule in spec §4.1/§4.4 step 6.
func (n Node) WithDefaults(udp, tfo, scv Tribool) Node {
	n.UDP = n.UDP.WithDefault(udp)
	n.TCPFastOpen = n.TCPFastOpen.WithDefault(tfo)
	n.AllowInsecure = n.AllowInsecure.WithDefault(scv)
	return n
}
