package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/subconverter-go/subconverter/internal/config"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

func newTestSubconverter(t *testing.T) (*Subconverter, *httptest.Server) {
	t.Helper()
	sub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ss://aes-256-gcm:password@ss.example.com:8388#my-node"))
	}))
	t.Cleanup(sub.Close)

	global := config.GlobalSettings{
		BasePath:       ".",
		FetchTimeout:   5 * time.Second,
		RulesetTimeout: 5 * time.Second,
	}
	rsFetcher := ruleset.NewFetcher(global.BasePath, global.RulesetTimeout)
	return NewSubconverter(global, rsFetcher), sub
}

func TestServeHTTPConvertsSubscription(t *testing.T) {
	sc, sub := newTestSubconverter(t)

	q := url.Values{}
	q.Set("target", "clash")
	q.Set("url", sub.URL)
	req := httptest.NewRequest(http.MethodGet, "/sub?"+q.Encode(), nil)
	w := httptest.NewRecorder()

	sc.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "yaml") {
		t.Errorf("expected yaml content type, got %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "my-node") {
		t.Errorf("expected converted node in body, got:\n%s", w.Body.String())
	}
}

func TestServeTargetShorthand(t *testing.T) {
	sc, sub := newTestSubconverter(t)

	q := url.Values{}
	q.Set("url", sub.URL)
	req := httptest.NewRequest(http.MethodGet, "/clash?"+q.Encode(), nil)
	w := httptest.NewRecorder()

	sc.ServeTarget(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestServeHTTPMissingTargetIsBadRequest(t *testing.T) {
	sc, _ := newTestSubconverter(t)

	req := httptest.NewRequest(http.MethodGet, "/sub", nil)
	w := httptest.NewRecorder()
	sc.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing target, got %d", w.Code)
	}
}

func TestServeHTTPRejectsBadToken(t *testing.T) {
	sc, sub := newTestSubconverter(t)
	sc.global.APIAccessToken = "secret"

	q := url.Values{}
	q.Set("target", "clash")
	q.Set("url", sub.URL)
	req := httptest.NewRequest(http.MethodGet, "/sub?"+q.Encode(), nil)
	w := httptest.NewRecorder()

	sc.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for missing token, got %d", w.Code)
	}
}

func TestSurge2ClashAliasForcesClashTarget(t *testing.T) {
	sc, sub := newTestSubconverter(t)
	alias := NewSurge2ClashAlias(sc)

	q := url.Values{}
	q.Set("url", sub.URL)
	req := httptest.NewRequest(http.MethodGet, "/surge2clash?"+q.Encode(), nil)
	w := httptest.NewRecorder()

	alias.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "yaml") {
		t.Errorf("expected clash's yaml content type from the alias, got %q", w.Header().Get("Content-Type"))
	}
}
