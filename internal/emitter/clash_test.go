package emitter

import (
	"strings"
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func sampleNodes() []model.Node {
	return []model.Node{
		{
			ID: 0, Remark: "ss-node", ProxyType: model.TypeShadowsocks,
			Hostname: "ss.example.com", Port: 8388,
			EncryptMethod: "aes-256-gcm", Password: "pw",
		},
		{
			ID: 1, Remark: "vmess-node", ProxyType: model.TypeVMess,
			Hostname: "vmess.example.com", Port: 443,
			UserID: "uuid-here", AlterID: 0,
		},
		{
			ID: 2, Remark: "https-node", ProxyType: model.TypeHTTPS,
			Hostname: "proxy.example.com", Port: 443,
		},
	}
}

func TestEmitClashDropsHTTPS(t *testing.T) {
	in := Input{
		Nodes: sampleNodes(),
		Groups: []model.Group{
			{Name: "PROXY", Type: model.GroupSelect, Proxies: []string{".*"}},
		},
		Settings: model.ExtraSettings{},
	}

	out, err := EmitClash(in)
	if err != nil {
		t.Fatalf("EmitClash failed: %v", err)
	}
	if strings.Contains(out, "https-node") {
		t.Errorf("expected https-node to be dropped, got:\n%s", out)
	}
	if !strings.Contains(out, "ss-node") || !strings.Contains(out, "vmess-node") {
		t.Errorf("expected ss-node and vmess-node present, got:\n%s", out)
	}
}

func TestEmitClashSnellVersion4Dropped(t *testing.T) {
	nodes := []model.Node{
		{
			Remark: "snell-old", ProxyType: model.TypeSnell,
			Hostname: "s1.example.com", Port: 1234, Password: "psk",
			Snell: &model.SnellOpts{Version: 3},
		},
		{
			Remark: "snell-new", ProxyType: model.TypeSnell,
			Hostname: "s2.example.com", Port: 1234, Password: "psk",
			Snell: &model.SnellOpts{Version: 4},
		},
	}
	in := Input{Nodes: nodes, Settings: model.ExtraSettings{NodelistMode: true}}
	out, err := EmitClash(in)
	if err != nil {
		t.Fatalf("EmitClash failed: %v", err)
	}
	if strings.Contains(out, "snell-new") {
		t.Errorf("expected snell v4 node to be dropped, got:\n%s", out)
	}
	if !strings.Contains(out, "snell-old") {
		t.Errorf("expected snell v3 node present, got:\n%s", out)
	}
}

func TestEmitClashFilterDeprecatedDropsRC4SSR(t *testing.T) {
	nodes := []model.Node{
		{
			Remark: "ssr-rc4", ProxyType: model.TypeShadowsocksR,
			Hostname: "r1.example.com", Port: 1234, Password: "pw",
			EncryptMethod: "rc4",
			SSR:           &model.SSROpts{Protocol: "origin", Obfs: "plain"},
		},
		{
			Remark: "ssr-aes", ProxyType: model.TypeShadowsocksR,
			Hostname: "r2.example.com", Port: 1234, Password: "pw",
			EncryptMethod: "aes-256-cfb",
			SSR:           &model.SSROpts{Protocol: "origin", Obfs: "plain"},
		},
	}
	in := Input{Nodes: nodes, Settings: model.ExtraSettings{NodelistMode: true, FilterDeprecated: true}}
	out, err := EmitClash(in)
	if err != nil {
		t.Fatalf("EmitClash failed: %v", err)
	}
	if strings.Contains(out, "ssr-rc4") {
		t.Errorf("expected rc4 SSR node to be dropped under filter_deprecated, got:\n%s", out)
	}
	if !strings.Contains(out, "ssr-aes") {
		t.Errorf("expected approved-cipher SSR node to survive, got:\n%s", out)
	}
}

func TestEmitClashNewFieldName(t *testing.T) {
	in := Input{
		Nodes:    sampleNodes()[:1],
		Settings: model.ExtraSettings{ClashNewFieldName: true, NodelistMode: true},
	}
	out, err := EmitClash(in)
	if err != nil {
		t.Fatalf("EmitClash failed: %v", err)
	}
	if !strings.Contains(out, "proxies:") {
		t.Errorf("expected new-style 'proxies:' key, got:\n%s", out)
	}
}
