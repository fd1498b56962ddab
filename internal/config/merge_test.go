package config

import (
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestMergeLayersGroupsConcatenate(t *testing.T) {
	global := GlobalSettings{}
	doc := &Document{
		Groups: []model.Group{mustGroup(t, "DocGroup`select`DIRECT")},
	}
	query := QueryParams{
		Groups: []string{"QueryGroup`select`REJECT"},
	}

	settings, groups, _, _ := Merge(global, doc, query)
	_ = settings
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups from doc+query layers, got %d: %+v", len(groups), groups)
	}
	if groups[0].Name != "DocGroup" || groups[1].Name != "QueryGroup" {
		t.Errorf("expected DocGroup then QueryGroup, got %q then %q", groups[0].Name, groups[1].Name)
	}
}

func TestMergeQueryOverridesWinOverDoc(t *testing.T) {
	doc := &Document{Overrides: FlagOverrides{UDP: boolPtr(false)}}
	query := QueryParams{Overrides: FlagOverrides{UDP: boolPtr(true)}}

	settings, _, _, _ := Merge(GlobalSettings{}, doc, query)
	v, ok := settings.UDP.Bool()
	if !ok || !v {
		t.Errorf("expected query's udp=true to win, got %v (ok=%v)", v, ok)
	}
}

func TestMergeNilDocumentOnlyAppliesGlobalAndQuery(t *testing.T) {
	global := GlobalSettings{DefaultSettings: FlagOverrides{TFO: boolPtr(true)}}
	settings, groups, rulesets, base := Merge(global, nil, QueryParams{})
	if len(groups) != 0 || len(rulesets) != 0 || base != "" {
		t.Errorf("expected no groups/rulesets/baseConfig with nil doc and empty query, got %+v %+v %q", groups, rulesets, base)
	}
	v, ok := settings.TFO.Bool()
	if !ok || !v {
		t.Errorf("expected global default tfo=true to apply, got %v (ok=%v)", v, ok)
	}
}

func TestMergeManagedConfigPrefixDocOverridesGlobal(t *testing.T) {
	global := GlobalSettings{ManagedConfigPrefix: "https://global.example.com"}
	doc := &Document{ManagedConfigPrefix: "https://doc.example.com"}

	settings, _, _, _ := Merge(global, doc, QueryParams{})
	if settings.ManagedConfigPrefix != "https://doc.example.com" {
		t.Errorf("expected document's managed_config_prefix to win, got %q", settings.ManagedConfigPrefix)
	}
}

func mustGroup(t *testing.T, line string) model.Group {
	t.Helper()
	g, ok := ParseGroupLine(line)
	if !ok {
		t.Fatalf("failed to parse group line %q", line)
	}
	return g
}
