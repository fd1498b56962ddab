package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

type stubFetcher struct {
	byURL map[string]string
	err   map[string]error
}

func (s stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err, ok := s.err[url]; ok {
		return "", err
	}
	return s.byURL[url], nil
}

const ssLink = "ss://aes-256-gcm:password@ss.example.com:8388#my-node"

func TestConvertBasicPipeline(t *testing.T) {
	fetcher := stubFetcher{byURL: map[string]string{
		"http://sub.example.com/a": ssLink,
	}}

	req := Request{
		Target:          "clash",
		MainURLs:        []string{"http://sub.example.com/a"},
		SkipFailedLinks: true,
		Groups: []model.Group{
			{Name: "PROXY", Type: model.GroupSelect, Proxies: []string{".*"}},
		},
		Settings: model.ExtraSettings{},
	}

	result, err := Convert(context.Background(), req, fetcher, nil)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if result.ContentType != "application/yaml" {
		t.Errorf("expected yaml content type, got %q", result.ContentType)
	}
	if !strings.Contains(result.Body, "my-node") {
		t.Errorf("expected node remark in output, got:\n%s", result.Body)
	}
}

func TestConvertSkipsFailedLinkWhenNotStrict(t *testing.T) {
	fetcher := stubFetcher{
		byURL: map[string]string{"http://ok/a": ssLink},
		err:   map[string]error{"http://bad/b": errors.New("network down")},
	}

	req := Request{
		Target:          "clash",
		MainURLs:        []string{"http://bad/b", "http://ok/a"},
		SkipFailedLinks: true,
	}

	result, err := Convert(context.Background(), req, fetcher, nil)
	if err != nil {
		t.Fatalf("expected skip_failed_links to swallow the error, got: %v", err)
	}
	if !strings.Contains(result.Body, "my-node") {
		t.Errorf("expected surviving node in output, got:\n%s", result.Body)
	}
}

func TestConvertFailsHardWhenStrict(t *testing.T) {
	fetcher := stubFetcher{
		err: map[string]error{"http://bad/b": errors.New("network down")},
	}

	req := Request{
		Target:          "clash",
		MainURLs:        []string{"http://bad/b"},
		SkipFailedLinks: false,
	}

	_, err := Convert(context.Background(), req, fetcher, nil)
	if err == nil {
		t.Fatalf("expected strict mode to fail the request on a broken link")
	}
}

func TestConvertUnknownTargetIsAnError(t *testing.T) {
	fetcher := stubFetcher{byURL: map[string]string{"http://ok/a": ssLink}}
	req := Request{Target: "not-a-real-target", MainURLs: []string{"http://ok/a"}}

	_, err := Convert(context.Background(), req, fetcher, nil)
	if err == nil {
		t.Fatalf("expected an error for an unknown target")
	}
}

func TestFetchRulesetsTruncatesAtCap(t *testing.T) {
	f := ruleset.NewFetcher(".", 0)
	var rulesets []model.Ruleset
	for i := 0; i < maxAllowedRulesets+5; i++ {
		rulesets = append(rulesets, model.NewRuleset("Group", "[]GEOIP,CN", 0))
	}

	out := fetchRulesets(context.Background(), f, rulesets, "", false)
	total := 0
	for _, lines := range out {
		total += len(lines)
	}
	if total != maxAllowedRulesets {
		t.Fatalf("got %d rule lines, want %d (one per ruleset kept under the cap)", total, maxAllowedRulesets)
	}
}

