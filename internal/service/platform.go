package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrPlatformInfoUnavailable means the platform document could not be fetched
var ErrPlatformInfoUnavailable = errors.New("platform info unavailable")

// maxDocumentBytes caps how much of the platform document is read
const maxDocumentBytes = 64 << 10

const platformDocKey = "platform_doc"

// DocumentFetcher retrieves the static platform document
type DocumentFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPDocumentFetcher fetches the document with a plain GET
type HTTPDocumentFetcher struct {
	url        string
	httpClient *http.Client
}

// NewHTTPDocumentFetcher creates a fetcher for url
func NewHTTPDocumentFetcher(url string, timeout time.Duration) *HTTPDocumentFetcher {
	return &HTTPDocumentFetcher{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch implements DocumentFetcher. Non-2xx and empty bodies are failures.
func (f *HTTPDocumentFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPlatformInfoUnavailable, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPlatformInfoUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrPlatformInfoUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPlatformInfoUnavailable, err)
	}

	doc := strings.TrimSpace(string(body))
	if doc == "" {
		return "", fmt.Errorf("%w: empty document", ErrPlatformInfoUnavailable)
	}
	return doc, nil
}

// CachedDocumentFetcher keeps the last good document for a TTL. Failures are never cached.
type CachedDocumentFetcher struct {
	next  DocumentFetcher
	cache *cache.Cache
}

// NewCachedDocumentFetcher wraps next with an in-process cache
func NewCachedDocumentFetcher(next DocumentFetcher, ttl time.Duration) *CachedDocumentFetcher {
	return &CachedDocumentFetcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Fetch implements DocumentFetcher
func (f *CachedDocumentFetcher) Fetch(ctx context.Context) (string, error) {
	if doc, found := f.cache.Get(platformDocKey); found {
		return doc.(string), nil
	}

	doc, err := f.next.Fetch(ctx)
	if err != nil {
		return "", err
	}

	f.cache.SetDefault(platformDocKey, doc)
	log.Printf("[Platform] ✅ Cached platform document (%d bytes)", len(doc))
	return doc, nil
}
