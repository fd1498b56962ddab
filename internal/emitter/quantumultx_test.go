package emitter

import (
	"strings"
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func TestEmitQuantumultXBasicShadowsocks(t *testing.T) {
	in := Input{
		Nodes: []model.Node{
			{
				Remark: "qx-ss", ProxyType: model.TypeShadowsocks,
				Hostname: "ss.example.com", Port: 8388,
				EncryptMethod: "aes-256-gcm", Password: "pw",
			},
		},
		Settings: model.ExtraSettings{NodelistMode: true},
	}

	out, err := EmitQuantumultX(in)
	if err != nil {
		t.Fatalf("EmitQuantumultX failed: %v", err)
	}
	if !strings.Contains(out, "shadowsocks=ss.example.com:8388") {
		t.Errorf("expected shadowsocks line, got:\n%s", out)
	}
	if !strings.Contains(out, "tag=qx-ss") {
		t.Errorf("expected tag field, got:\n%s", out)
	}
}
