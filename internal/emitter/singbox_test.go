package emitter

import (
	"encoding/json"
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func TestEmitSingBoxFixedOutbounds(t *testing.T) {
	in := Input{
		Nodes: []model.Node{
			{
				Remark: "sb-trojan", ProxyType: model.TypeTrojan,
				Hostname: "tr.example.com", Port: 443, Password: "pw",
			},
		},
		Settings: model.ExtraSettings{NodelistMode: true},
	}

	out, err := EmitSingBox(in)
	if err != nil {
		t.Fatalf("EmitSingBox failed: %v", err)
	}

	var doc struct {
		Outbounds []map[string]any `json:"outbounds"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("EmitSingBox produced invalid JSON: %v", err)
	}

	var tags []string
	for _, ob := range doc.Outbounds {
		tags = append(tags, ob["tag"].(string))
	}
	for _, want := range []string{"DIRECT", "REJECT", "dns-out", "sb-trojan"} {
		found := false
		for _, tag := range tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected outbound tag %q in %v", want, tags)
		}
	}
}
