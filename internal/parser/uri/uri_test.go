package uri

import (
	"strings"
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func TestParseSS(t *testing.T) {
	n, err := Parse("ss://YWVzLTI1Ni1jZmI6dGVzdA@1.2.3.4:8388#Node1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Hostname != "1.2.3.4" || n.Port != 8388 || n.EncryptMethod != "aes-256-cfb" || n.Password != "test" || n.Remark != "Node1" {
		t.Errorf("got %+v", n)
	}
}

func TestSSRoundTrip(t *testing.T) {
	n := model.SSConstruct("1.2.3.4", 8388, "aes-256-gcm", "test", "Node1", "", "")
	link := EncodeSS(n)
	got, err := ParseSS(link)
	if err != nil {
		t.Fatalf("ParseSS: %v", err)
	}
	if got.Hostname != n.Hostname || got.Port != n.Port || got.EncryptMethod != n.EncryptMethod || got.Password != n.Password || got.Remark != n.Remark {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, n)
	}
}

func TestSSRRoundTrip(t *testing.T) {
	n := model.SSRConstruct("1.2.3.4", 1234, "aes-256-cfb", "pw", "auth_aes128_md5", "param", "tls1.2_ticket_auth", "obfsparam", "Node")
	link := EncodeSSR(n)
	got, err := ParseSSR(link)
	if err != nil {
		t.Fatalf("ParseSSR: %v", err)
	}
	if got.Hostname != n.Hostname || got.Port != n.Port || got.Password != n.Password || got.SSR.Protocol != n.SSR.Protocol {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, n)
	}
}

func TestVMessRoundTrip(t *testing.T) {
	n := model.VMessConstruct("a.com", 443, "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", 0, model.TransferWS, "a.com", "/p", "N", true)
	link := EncodeVMess(n)
	got, err := ParseVMess(link)
	if err != nil {
		t.Fatalf("ParseVMess: %v", err)
	}
	if got.Hostname != n.Hostname || got.Port != n.Port || got.UserID != n.UserID {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, n)
	}
}

func TestParseVMessStandardBase64JSON(t *testing.T) {
	link := "vmess://eyJ2IjoiMiIsInBzIjoiTiIsImFkZCI6ImEuY29tIiwicG9ydCI6IjQ0MyIsImlkIjoiYWFhYWFhYWEtYWFhYS1hYWFhLWFhYWEtYWFhYWFhYWFhYWFhIiwiYWlkIjoiMCIsIm5ldCI6IndzIiwicGF0aCI6Ii9wIiwiaG9zdCI6ImEuY29tIiwidGxzIjoidGxzIn0="
	n, err := Parse(link)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Hostname != "a.com" || n.Port != 443 || n.UserID != "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa" {
		t.Errorf("got %+v", n)
	}
	if n.TransferProtocol != model.TransferWS || n.Path != "/p" {
		t.Errorf("transport mismatch: got %+v", n)
	}
}

func TestTrojanRoundTrip(t *testing.T) {
	n := model.TrojanConstruct("h.com", 443, "pw", "s.com", "T")
	link := EncodeTrojan(n)
	got, err := ParseTrojan(link)
	if err != nil {
		t.Fatalf("ParseTrojan: %v", err)
	}
	if got.Hostname != n.Hostname || got.Password != n.Password || got.SNI != n.SNI {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, n)
	}
}

func TestParsePortZeroRejected(t *testing.T) {
	_, err := Parse("ss://YWVzLTI1Ni1jZmI6dGVzdA@1.2.3.4:0#Node1")
	if err == nil {
		t.Fatal("expected error for port 0")
	}
}

func TestParseUnsupportedScheme(t *testing.T) {
	_, err := Parse("ftp://nope")
	if err == nil || !strings.Contains(err.Error(), "unsupported scheme") {
		t.Fatalf("expected unsupported scheme error, got %v", err)
	}
}

func TestParseVless(t *testing.T) {
	n, err := Parse("vless://uuid-123@h.com:443?security=reality&pbk=PBK&sid=SID&type=tcp#R")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Vless == nil || n.Vless.RealityPBK != "PBK" {
		t.Errorf("got %+v", n.Vless)
	}
	if v, ok := n.AllowInsecure.Bool(); !ok || !v {
		t.Errorf("AllowInsecure = %v, want true for reality", n.AllowInsecure)
	}
}

func TestParseWireGuard(t *testing.T) {
	n, err := Parse("wireguard://cHJpdmtleQ==@1.2.3.4:51820?publickey=pub&address=10.0.0.2/32#WG")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.WireGuard == nil || n.WireGuard.PublicKey != "pub" || n.WireGuard.SelfIP != "10.0.0.2" {
		t.Errorf("got %+v", n.WireGuard)
	}
}
