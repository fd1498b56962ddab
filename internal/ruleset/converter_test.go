package ruleset

import (
	"reflect"
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
)

func TestSurgeLinesToCommonPassthrough(t *testing.T) {
	content := "DOMAIN-SUFFIX,google.com\n# comment\n\nIP-CIDR,10.0.0.0/8,no-resolve\n"
	got := ToCommon(content, model.RuleTypeSurge)
	want := []string{"DOMAIN-SUFFIX,google.com", "IP-CIDR,10.0.0.0/8,no-resolve"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestClashLinesToCommonPayloadBlock(t *testing.T) {
	content := "payload:\n  - '.google.com'\n  - '+.ads.example.com.*'\n  - '10.0.0.0/8'\n  - 'DOMAIN,already.typed.com'\n"
	got := ToCommon(content, model.RuleTypeClashDomain)
	want := []string{
		"DOMAIN-SUFFIX,google.com",
		"DOMAIN-KEYWORD,ads.example.com",
		"IP-CIDR,10.0.0.0/8",
		"DOMAIN,already.typed.com",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestClashLinesToCommonIPv6(t *testing.T) {
	got := ToCommon("payload:\n  - 'fe80::/10'\n", model.RuleTypeClashIPCIDR)
	want := []string{"IP-CIDR6,fe80::/10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestQuantumultLinesToCommon(t *testing.T) {
	content := "host, example.com\nhost-suffix, ads.example.com, reject\nip6-cidr, fe80::/10, no-resolve\n"
	got := ToCommon(content, model.RuleTypeQuantumultX)
	want := []string{
		"DOMAIN,example.com",
		"DOMAIN-SUFFIX,ads.example.com",
		"IP-CIDR6,fe80::/10,no-resolve",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTransformRuleToCommonOneField(t *testing.T) {
	if got := TransformRuleToCommon("RULE", "Proxy", true); got != "RULE,Proxy" {
		t.Errorf("got %q", got)
	}
}

func TestTransformRuleToCommonTypedNoResolve(t *testing.T) {
	got := TransformRuleToCommon("IP-CIDR,10.0.0.0/8,no-resolve", "Proxy", true)
	if want := "IP-CIDR,10.0.0.0/8,Proxy,no-resolve"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTransformRuleToCommonNoResolveDroppedWhenNotHonored(t *testing.T) {
	got := TransformRuleToCommon("IP-CIDR,10.0.0.0/8,no-resolve", "Proxy", false)
	if want := "IP-CIDR,10.0.0.0/8,Proxy"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFilterAllowedDropsUnsupportedKinds(t *testing.T) {
	rules := []string{"DOMAIN,x.com,Proxy", "PROCESS-NAME,curl,Proxy", "USER-AGENT,*Bot*,Proxy"}
	got := FilterAllowed(rules, TargetQuantumultX)
	want := []string{"DOMAIN,x.com,Proxy", "USER-AGENT,*Bot*,Proxy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilterAllowedSurge2DropsBooleanOperators(t *testing.T) {
	rules := []string{"AND,((DOMAIN,x.com),(DOMAIN,y.com)),Proxy", "DOMAIN,x.com,Proxy"}
	got := FilterAllowed(rules, TargetSurge2)
	want := []string{"DOMAIN,x.com,Proxy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
