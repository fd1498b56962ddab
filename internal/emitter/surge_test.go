package emitter

import (
	"strings"
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func TestEmitSurgeDropsSSR(t *testing.T) {
	nodes := []model.Node{
		{
			Remark: "ssr-node", ProxyType: model.TypeShadowsocksR,
			Hostname: "ssr.example.com", Port: 8989,
			EncryptMethod: "aes-128-cfb", Password: "pw",
			SSR: &model.SSROpts{Protocol: "origin", Obfs: "plain"},
		},
		{
			Remark: "ss-node", ProxyType: model.TypeShadowsocks,
			Hostname: "ss.example.com", Port: 8388,
			EncryptMethod: "aes-256-gcm", Password: "pw",
		},
	}
	in := Input{Nodes: nodes, Settings: model.ExtraSettings{NodelistMode: true}}

	out, err := EmitSurge(in, 4)
	if err != nil {
		t.Fatalf("EmitSurge failed: %v", err)
	}
	if strings.Contains(out, "ssr-node") {
		t.Errorf("expected ssr-node to be dropped from Surge output, got:\n%s", out)
	}
	if !strings.Contains(out, "ss-node") {
		t.Errorf("expected ss-node present, got:\n%s", out)
	}
}

func TestEmitSurgeWireGuardSection(t *testing.T) {
	nodes := []model.Node{
		{
			Remark: "wg-node", ProxyType: model.TypeWireGuard,
			Hostname: "wg.example.com", Port: 51820,
			WireGuard: &model.WireGuardOpts{
				SelfIP:     "10.0.0.2",
				PrivateKey: "privkey",
				PublicKey:  "pubkey",
				AllowedIPs: "0.0.0.0/0",
			},
		},
	}
	in := Input{Nodes: nodes, Settings: model.ExtraSettings{NodelistMode: true}}

	out, err := EmitSurge(in, 4)
	if err != nil {
		t.Fatalf("EmitSurge failed: %v", err)
	}
	if !strings.Contains(out, "wg-node = wireguard") {
		t.Errorf("expected wireguard proxy line, got:\n%s", out)
	}
	if !strings.Contains(out, "[WireGuard wg-node]") {
		t.Errorf("expected WireGuard section header, got:\n%s", out)
	}
	if !strings.Contains(out, "private-key = privkey") {
		t.Errorf("expected private-key field, got:\n%s", out)
	}
}

func TestEmitSurgeWireGuardRequiresVer4(t *testing.T) {
	nodes := []model.Node{
		{
			Remark: "wg-node", ProxyType: model.TypeWireGuard,
			Hostname: "wg.example.com", Port: 51820,
			WireGuard: &model.WireGuardOpts{PrivateKey: "privkey", PublicKey: "pubkey"},
		},
	}
	in := Input{Nodes: nodes, Settings: model.ExtraSettings{NodelistMode: true}}

	out, err := EmitSurge(in, 3)
	if err != nil {
		t.Fatalf("EmitSurge failed: %v", err)
	}
	if strings.Contains(out, "wireguard") {
		t.Errorf("expected wireguard node dropped under ver 3, got:\n%s", out)
	}
}

func TestEmitSurgeVMessEmitsTLSAndAEAD(t *testing.T) {
	nodes := []model.Node{
		{
			Remark: "vmess-node", ProxyType: model.TypeVMess,
			Hostname: "a.com", Port: 443,
			UserID: "uuid-here", AlterID: 0,
			SNI: "a.com", Host: "a.com", Path: "/p",
			TransferProtocol: model.TransferWS,
		},
	}
	in := Input{Nodes: nodes, Settings: model.ExtraSettings{NodelistMode: true}}

	out, err := EmitSurge(in, 4)
	if err != nil {
		t.Fatalf("EmitSurge failed: %v", err)
	}
	for _, want := range []string{"tls=true", "vmess-aead=true", "ws=true", "ws-path=/p", "sni=a.com", "ws-headers=Host:a.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in vmess line, got:\n%s", want, out)
		}
	}
}

func TestSurgeRuleKeywordRewritesFinal(t *testing.T) {
	got := surgeRuleKeyword("RULE,PROXY")
	if got != "FINAL,PROXY" {
		t.Errorf("expected FINAL,PROXY, got %s", got)
	}
}
