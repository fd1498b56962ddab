package preprocess

import (
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func TestDedupeRemarks(t *testing.T) {
	nodes := []model.Node{{Remark: "A"}, {Remark: "A"}, {Remark: "A"}}
	got := dedupeRemarks(nodes)
	want := []string{"A", "A 2", "A 3"}
	for i, w := range want {
		if got[i].Remark != w {
			t.Errorf("node %d remark = %q, want %q", i, got[i].Remark, w)
		}
	}
}

func TestApplyDefaultsInheritAndOverride(t *testing.T) {
	settings := model.ExtraSettings{UDP: model.True}

	inherited := applyDefaults([]model.Node{{UDP: model.Unset}}, settings)
	if inherited[0].UDP != model.True {
		t.Errorf("UDP = %v, want True (inherited)", inherited[0].UDP)
	}

	overridden := applyDefaults([]model.Node{{UDP: model.False}}, settings)
	if overridden[0].UDP != model.False {
		t.Errorf("UDP = %v, want False (override preserved)", overridden[0].UDP)
	}
}

func TestFilterByRemarkIncludeExclude(t *testing.T) {
	nodes := []model.Node{{Remark: "HK-01"}, {Remark: "US-01"}, {Remark: "HK-02"}}
	got := filterByRemark(nodes, []string{"^HK"}, []string{"02$"})
	if len(got) != 1 || got[0].Remark != "HK-01" {
		t.Errorf("got %+v", got)
	}
}

func TestFilterByRemarkEmptyIncludeMeansAll(t *testing.T) {
	nodes := []model.Node{{Remark: "A"}, {Remark: "B"}}
	got := filterByRemark(nodes, nil, nil)
	if len(got) != 2 {
		t.Errorf("got %d nodes, want 2", len(got))
	}
}

func TestRunOrderMatchesSpec(t *testing.T) {
	nodes := []model.Node{
		{Remark: "A", ProxyType: model.TypeShadowsocks},
		{Remark: "A", ProxyType: model.TypeShadowsocks},
	}
	settings := model.ExtraSettings{AppendProxyType: true}
	got := Run(nodes, nil, nil, settings)
	if got[0].Remark != "[SS] A" || got[1].Remark != "[SS] A 2" {
		t.Errorf("got %+v", got)
	}
}
