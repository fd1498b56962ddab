// Package ruleset fetches ruleset bodies (file, URL, or inline) and
// translates them into the common RULE-TYPE,VALUE,group dialect every
// target emitter splices into its rule section.
package ruleset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/subconverter-go/subconverter/internal/logger"
	"github.com/subconverter-go/subconverter/internal/model"
)

const defaultMaxBytes = 32 << 20 // 32 MiB, spec's download-size cap

type cacheEntry struct {
	content   string
	fetchedAt time.Time
	ttl       time.Duration
}

// Fetcher resolves Ruleset.RuleContent from a local path, a remote
// URL, or an inline literal. Concurrent requests for the same path
// coalesce into one in-flight fetch via singleflight.
type Fetcher struct {
	client   *http.Client
	basePath string
	maxBytes int64

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewFetcher builds a Fetcher rooted at basePath for local reads, with
// the given HTTP timeout and a 32 MiB download cap.
func NewFetcher(basePath string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		basePath: basePath,
		maxBytes: defaultMaxBytes,
		cache:    make(map[string]cacheEntry),
	}
}

// Fetch populates rs.RuleContent. A failure leaves RuleContent empty
// and logs a warning rather than returning an error, per §4.6's
// failure semantics: the emitter proceeds without that group's rules.
func (f *Fetcher) Fetch(ctx context.Context, rs model.Ruleset, proxyURL string) model.Ruleset {
	if rs.IsInline() {
		rs.RuleContent = rs.InlineContent()
		return rs
	}

	ttl := time.Duration(rs.UpdateInterval) * time.Second
	content, err := f.resolve(ctx, rs.RulePath, proxyURL, ttl)
	if err != nil {
		logger.Warn("ruleset fetch failed, group emitted without rules", "group", rs.Group, "path", rs.RulePath, "error", err)
		return rs
	}
	rs.RuleContent = content
	return rs
}

func (f *Fetcher) resolve(ctx context.Context, path, proxyURL string, ttl time.Duration) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return f.fetchCached(ctx, path, proxyURL, ttl)
	}
	return f.readLocal(path)
}

func (f *Fetcher) fetchCached(ctx context.Context, rawURL, proxyURL string, ttl time.Duration) (string, error) {
	f.mu.RLock()
	entry, ok := f.cache[rawURL]
	f.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < entry.ttl {
		return entry.content, nil
	}

	v, err, _ := f.group.Do(rawURL, func() (any, error) {
		return f.fetchHTTP(ctx, rawURL, proxyURL)
	})
	if err != nil {
		return "", err
	}
	content := v.(string)

	f.mu.Lock()
	f.cache[rawURL] = cacheEntry{content: content, fetchedAt: time.Now(), ttl: ttl}
	f.mu.Unlock()

	return content, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, rawURL, proxyURL string) (string, error) {
	client := f.client
	if proxyURL != "" {
		pu, err := url.Parse(proxyURL)
		if err != nil {
			return "", fmt.Errorf("parse proxy_ruleset %q: %w", proxyURL, err)
		}
		client = &http.Client{
			Timeout:   f.client.Timeout,
			Transport: &http.Transport{Proxy: http.ProxyURL(pu)},
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch ruleset %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch ruleset %s: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read ruleset body %s: %w", rawURL, err)
	}
	if int64(len(data)) > f.maxBytes {
		return "", fmt.Errorf("ruleset %s exceeds %d byte cap", rawURL, f.maxBytes)
	}

	return string(data), nil
}

func (f *Fetcher) readLocal(relPath string) (string, error) {
	full := filepath.Join(f.basePath, relPath)
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read local ruleset %s: %w", full, err)
	}
	return string(data), nil
}
