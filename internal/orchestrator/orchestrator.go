// Package orchestrator runs the end-to-end conversion pipeline: fetch
// subscriptions, concatenate and preprocess their nodes, fetch and
// convert rulesets, and dispatch to the target emitter.
package orchestrator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/subconverter-go/subconverter/internal/emitter"
	"github.com/subconverter-go/subconverter/internal/logger"
	"github.com/subconverter-go/subconverter/internal/model"
	"github.com/subconverter-go/subconverter/internal/parser/sub"
	"github.com/subconverter-go/subconverter/internal/preprocess"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

const (
	maxAllowedRulesets = 64
	maxAllowedRules    = 32768
)

// Request bundles one conversion call's inputs, already merged by the
// External-Config Merger (internal/config) before reaching here.
type Request struct {
	Target         string
	SurgeVersion   int
	MainURLs       []string
	InsertURLs     []string
	PrependInsert  bool
	SkipFailedLinks bool
	CustomGroup    string
	Groups         []model.Group
	Rulesets       []model.Ruleset
	Includes       []string
	Excludes       []string
	Settings       model.ExtraSettings
	BaseConfig     string
	ManagedConfigPrefix string
	ProxyURL       string
	AsyncFetchRuleset bool
}

// Fetcher is the subset of HTTP behavior the orchestrator needs to
// retrieve subscription bodies; production wiring uses *http.Client,
// tests can substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds a Fetcher backed by a real HTTP client with
// the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) Fetcher {
	return httpFetcher{client: &http.Client{Timeout: timeout}}
}

func (f httpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("subscription fetch %s: status %d", url, resp.StatusCode)
	}
	buf := make([]byte, 0, 64<<10)
	tmp := make([]byte, 32<<10)
	for {
		n, rerr := resp.Body.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if rerr != nil {
			break
		}
	}
	return string(buf), nil
}

// Result is the orchestrator's output: rendered body plus the
// target-appropriate content type for the HTTP layer to set.
type Result struct {
	Body        string
	ContentType string
}

// Convert runs the conversion pipeline in seven steps: fetch,
// concatenate, tag, preprocess, fetch rulesets, emit, wrap
// managed-config headers. The result is not uploaded anywhere.
func Convert(ctx context.Context, req Request, fetcher Fetcher, rsFetcher *ruleset.Fetcher) (Result, error) {
	insertNodes, err := fetchGroup(ctx, fetcher, req.InsertURLs, 0, req.SkipFailedLinks)
	if err != nil {
		return Result{}, err
	}
	mainNodes, err := fetchGroup(ctx, fetcher, req.MainURLs, len(req.InsertURLs), req.SkipFailedLinks)
	if err != nil {
		return Result{}, err
	}

	var nodes []model.Node
	if req.PrependInsert {
		nodes = append(nodes, insertNodes...)
		nodes = append(nodes, mainNodes...)
	} else {
		nodes = append(nodes, mainNodes...)
		nodes = append(nodes, insertNodes...)
	}

	if req.CustomGroup != "" {
		for i := range nodes {
			nodes[i].Group = req.CustomGroup
		}
	}

	nodes = preprocess.Run(nodes, req.Includes, req.Excludes, req.Settings)

	ruleLines := make(map[string][]string)
	if req.Settings.EnableRuleGenerator {
		ruleLines = fetchRulesets(ctx, rsFetcher, req.Rulesets, req.ProxyURL, req.AsyncFetchRuleset)
	}

	in := emitter.Input{
		Nodes:      nodes,
		BaseConfig: req.BaseConfig,
		Groups:     req.Groups,
		RuleLines:  ruleLines,
		Settings:   req.Settings,
	}

	body, contentType, err := dispatchEmitter(in, req)
	if err != nil {
		return Result{}, err
	}

	if req.ManagedConfigPrefix != "" && (req.Target == "surge" || req.Target == "surfboard") {
		body = req.ManagedConfigPrefix + "\n" + body
	}

	return Result{Body: body, ContentType: contentType}, nil
}

func dispatchEmitter(in emitter.Input, req Request) (string, string, error) {
	switch req.Target {
	case "clash":
		body, err := emitter.EmitClash(in)
		return body, "application/yaml", err
	case "surge":
		body, err := emitter.EmitSurge(in, req.SurgeVersion)
		return body, "text/plain", err
	case "surfboard":
		body, err := emitter.EmitSurge(in, -3)
		return body, "text/plain", err
	case "mellow":
		body, err := emitter.EmitMellow(in)
		return body, "text/plain", err
	case "quantumult":
		body, err := emitter.EmitQuantumult(in)
		return body, "text/plain", err
	case "quanx", "quantumultx":
		body, err := emitter.EmitQuantumultX(in)
		return body, "text/plain", err
	case "loon":
		body, err := emitter.EmitLoon(in)
		return body, "text/plain", err
	case "singbox":
		body, err := emitter.EmitSingBox(in)
		return body, "application/yaml", err
	case "ssd":
		body, err := emitter.EmitSSD(in, req.CustomGroup)
		return body, "application/json", err
	case "mixed", "uri":
		body, err := emitter.EmitURI(in, false)
		return body, "text/plain", err
	default:
		return "", "", fmt.Errorf("unknown target: %s", req.Target)
	}
}

// fetchGroup dispatches each URL to the subscription decoder in
// order, tagging the resulting nodes with an incrementing group_id
// that starts at firstID so callers can later tell which subscription
// a node came from.
func fetchGroup(ctx context.Context, fetcher Fetcher, urls []string, firstID int, skipFailedLinks bool) ([]model.Node, error) {
	var out []model.Node
	for i, url := range urls {
		blob, err := fetcher.Fetch(ctx, url)
		if err != nil {
			logger.Warn("subscription fetch failed", "url", url, "error", err)
			if skipFailedLinks {
				continue
			}
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		nodes, ok := sub.ExplodeSub(blob)
		if !ok {
			logger.Warn("subscription decode failed", "url", url)
			if skipFailedLinks {
				continue
			}
			return nil, fmt.Errorf("decode %s: unrecognized subscription format", url)
		}
		for j := range nodes {
			nodes[j].GroupID = firstID + i
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// fetchRulesets resolves every group's ruleset content, truncating at
// max_allowed_rulesets/max_allowed_rules and converting each to the
// common intermediate form. async_fetch_ruleset only changes whether
// the underlying fetches race; the result is identical either way.
func fetchRulesets(ctx context.Context, f *ruleset.Fetcher, rulesets []model.Ruleset, proxyURL string, async bool) map[string][]string {
	if len(rulesets) > maxAllowedRulesets {
		logger.Warn("ruleset count exceeds cap, truncating", "count", len(rulesets), "cap", maxAllowedRulesets)
		rulesets = rulesets[:maxAllowedRulesets]
	}

	fetched := make([]model.Ruleset, len(rulesets))
	if async {
		done := make(chan int, len(rulesets))
		for i, rs := range rulesets {
			go func(i int, rs model.Ruleset) {
				fetched[i] = f.Fetch(ctx, rs, proxyURL)
				done <- i
			}(i, rs)
		}
		for range rulesets {
			<-done
		}
	} else {
		for i, rs := range rulesets {
			fetched[i] = f.Fetch(ctx, rs, proxyURL)
		}
	}

	out := make(map[string][]string)
	total := 0
	for _, rs := range fetched {
		if rs.RuleContent == "" {
			continue
		}
		lines := ruleset.ToCommon(rs.RuleContent, rs.RuleType)
		if total+len(lines) > maxAllowedRules {
			logger.Warn("rule count exceeds cap, truncating", "group", rs.Group, "cap", maxAllowedRules)
			lines = lines[:max(0, maxAllowedRules-total)]
		}
		total += len(lines)
		out[rs.Group] = append(out[rs.Group], lines...)
	}
	return out
}
