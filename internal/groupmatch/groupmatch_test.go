package groupmatch

import (
	"reflect"
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func TestExpandGroupPredicateClosure(t *testing.T) {
	pool := []model.Node{
		{Remark: "HK-1", Group: "HK"},
		{Remark: "HK-2", Group: "HK"},
		{Remark: "JP-1", Group: "JP"},
		{Remark: "US-1", Group: "US"},
	}
	got := Expand([]string{"!!GROUP=HK"}, pool, false)
	want := []string{"HK-1", "HK-2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpandLiteralPassthrough(t *testing.T) {
	got := Expand([]string{"[]DIRECT"}, nil, false)
	if !reflect.DeepEqual(got, []string{"DIRECT"}) {
		t.Errorf("got %v", got)
	}
}

func TestExpandOrDirectFallback(t *testing.T) {
	pool := []model.Node{{Remark: "A", Group: "X"}}
	got := ExpandOrDirect([]string{"!!GROUP=NOPE"}, pool, false)
	if !reflect.DeepEqual(got, []string{"DIRECT"}) {
		t.Errorf("got %v, want [DIRECT]", got)
	}
}

func TestExpandTrailingRegexWithoutPredicate(t *testing.T) {
	pool := []model.Node{
		{Remark: "HK-01", Group: "HK"},
		{Remark: "HK-02", Group: "HK"},
		{Remark: "JP-01", Group: "JP"},
	}
	got := Expand([]string{"^HK-01$"}, pool, false)
	if !reflect.DeepEqual(got, []string{"HK-01"}) {
		t.Errorf("got %v", got)
	}
}

func TestExpandPredicateThenSeparateRegexExpr(t *testing.T) {
	pool := []model.Node{
		{Remark: "HK-01", Group: "HK"},
		{Remark: "HK-02", Group: "HK"},
		{Remark: "JP-01", Group: "JP"},
	}
	got := Expand([]string{"!!GROUP=HK", "^JP"}, pool, false)
	want := []string{"HK-01", "HK-02", "JP-01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpandTypeAndPort(t *testing.T) {
	pool := []model.Node{
		{Remark: "A", ProxyType: model.TypeShadowsocks, Port: 443},
		{Remark: "B", ProxyType: model.TypeTrojan, Port: 443},
		{Remark: "C", ProxyType: model.TypeShadowsocks, Port: 8388},
	}
	got := Expand([]string{"!!TYPE=ss!!PORT=443"}, pool, false)
	if !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("got %v", got)
	}
}

func TestExpandScriptRequiresAuthorization(t *testing.T) {
	got := Expand([]string{"script:anything"}, nil, false)
	if len(got) != 0 {
		t.Errorf("got %v, want empty (unauthorized script)", got)
	}
}
