// Package handler exposes the conversion pipeline over HTTP per the
// documented endpoint contract: GET /sub, its per-target shorthand,
// and the /surge2clash compatibility alias.
package handler

import (
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/subconverter-go/subconverter/internal/config"
	"github.com/subconverter-go/subconverter/internal/orchestrator"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

// Subconverter is the shared handler backing /sub, /{target}, and
// /surge2clash; each just varies how the target and defaults are
// derived from the request.
type Subconverter struct {
	global    config.GlobalSettings
	rsFetcher *ruleset.Fetcher
	fetcher   orchestrator.Fetcher
}

// NewSubconverter builds the handler, wiring a real HTTP fetcher for
// subscription retrieval at the global fetch timeout.
func NewSubconverter(global config.GlobalSettings, rsFetcher *ruleset.Fetcher) *Subconverter {
	return &Subconverter{
		global:    global,
		rsFetcher: rsFetcher,
		fetcher:   orchestrator.NewHTTPFetcher(global.FetchTimeout),
	}
}

// ServeHTTP handles GET /sub?target=<t>&url=<pipe-separated>&….
func (s *Subconverter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.convert(w, r, r.URL.Query().Get("target"))
}

// ServeTarget handles the GET /{target}?… shorthand, deriving the
// target from the request path instead of a query parameter.
func (s *Subconverter) ServeTarget(w http.ResponseWriter, r *http.Request) {
	target := strings.Trim(r.URL.Path, "/")
	s.convert(w, r, target)
}

func (s *Subconverter) convert(w http.ResponseWriter, r *http.Request, target string) {
	if !s.authorized(r) {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	if target == "" {
		http.Error(w, "missing target", http.StatusBadRequest)
		return
	}

	req, err := buildRequest(r, target, s.global)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := orchestrator.Convert(r.Context(), req, s.fetcher, s.rsFetcher)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	if filename := r.URL.Query().Get("filename"); filename != "" {
		w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	}
	io.WriteString(w, result.Body)
}

// authorized reports whether the request carries the configured
// access token, or passes unconditionally when no token is set (the
// default, permissive local-use posture).
func (s *Subconverter) authorized(r *http.Request) bool {
	if s.global.APIAccessToken == "" {
		return true
	}
	return r.URL.Query().Get("token") == s.global.APIAccessToken
}

// NewSurge2ClashAlias wraps Subconverter to implement `GET
// /surge2clash?url=…`, an alias for `target=clash, list=true`.
func NewSurge2ClashAlias(s *Subconverter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("target", "clash")
		q.Set("list", "true")
		r.URL.RawQuery = q.Encode()
		s.convert(w, r, "clash")
	})
}

func buildRequest(r *http.Request, target string, global config.GlobalSettings) (orchestrator.Request, error) {
	q := r.URL.Query()

	ver, _ := strconv.Atoi(q.Get("ver"))
	if ver == 0 {
		ver = 4
	}

	doc := (*config.Document)(nil)
	if cfgURL := q.Get("config"); cfgURL != "" {
		parsed, err := fetchDocument(r, cfgURL)
		if err != nil {
			return orchestrator.Request{}, err
		}
		doc = parsed
	}

	settings, groups, rulesets, baseConfig := config.Merge(global, doc, config.QueryParams{
		Include:  config.SplitDelimited(q.Get("include"), ","),
		Exclude:  config.SplitDelimited(q.Get("exclude"), ","),
		Groups:   config.SplitDelimited(q.Get("groups"), "@"),
		Rulesets: config.SplitDelimited(q.Get("ruleset"), "@"),
		Renames:  config.SplitDelimited(q.Get("rename"), "@"),
		Emojis:   config.SplitDelimited(q.Get("emoji"), "@"),
		Overrides: parseOverrides(q),
	})

	return orchestrator.Request{
		Target:              target,
		SurgeVersion:        ver,
		MainURLs:            config.SplitDelimited(q.Get("url"), "|"),
		InsertURLs:          config.SplitDelimited(q.Get("insert"), "|"),
		PrependInsert:       q.Get("prepend") != "false",
		SkipFailedLinks:     q.Get("strict") != "true",
		CustomGroup:         q.Get("group"),
		Groups:              groups,
		Rulesets:            rulesets,
		Includes:            config.SplitDelimited(q.Get("include"), ","),
		Excludes:            config.SplitDelimited(q.Get("exclude"), ","),
		Settings:            settings,
		BaseConfig:          baseConfig,
		ManagedConfigPrefix: settings.ManagedConfigPrefix,
	}, nil
}

func parseOverrides(q map[string][]string) config.FlagOverrides {
	var f config.FlagOverrides
	setBool := func(key string, dst **bool) {
		v, ok := q[key]
		if !ok || len(v) == 0 || v[0] == "" {
			return
		}
		b, err := parseFlexBool(v[0])
		if err != nil {
			return
		}
		*dst = &b
	}
	setBool("tfo", &f.TFO)
	setBool("udp", &f.UDP)
	setBool("scv", &f.SkipCertVerify)
	setBool("tls13", &f.TLS13)
	setBool("add_emoji", &f.AddEmoji)
	setBool("remove_emoji", &f.RemoveEmoji)
	setBool("append_type", &f.AppendProxyType)
	setBool("list", &f.NodelistMode)
	setBool("fdn", &f.FilterDeprecated)
	setBool("sort", &f.SortFlag)
	setBool("new_name", &f.ClashNewFieldName)
	setBool("expand", &f.EnableRuleGen)
	return f
}

// parseFlexBool accepts the documented boolean spellings:
// true/false/yes/no/on/off/1/0.
func parseFlexBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func fetchDocument(r *http.Request, url string) (*config.Document, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	doc := config.ParseDocument(string(body), readLocalFile)
	return &doc, nil
}

func readLocalFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
