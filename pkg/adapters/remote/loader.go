// Package remote fetches chain documents from a stanza HTTP server or any
// static host laid out as "<base>/output/chain_<id>.json".
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/stanza/pkg/domain"
	json "github.com/goccy/go-json"
)

// DefaultTimeout bounds a single fetch when the caller sets no deadline.
const DefaultTimeout = 10 * time.Second

// maxDocument caps the size of a chain document.
const maxDocument = 32 << 20

// Loader implements ports.ChainLoader over HTTP.
type Loader struct {
	base   string
	client *http.Client
}

// Option configures the Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.client = c
	}
}

// WithTimeout bounds each fetch on a client of its own.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.client = &http.Client{Timeout: d}
	}
}

// NewLoader creates a Loader rooted at baseURL.
func NewLoader(baseURL string, opts ...Option) *Loader {
	l := &Loader{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ChainURL returns the address of chain id.
func (l *Loader) ChainURL(id string) string {
	return l.base + "/output/chain_" + url.PathEscape(id) + ".json"
}

// LoadChain fetches the document of chain id. Any non-2xx status is an error;
// 404 wraps domain.ErrChainNotFound.
func (l *Loader) LoadChain(ctx context.Context, id string) ([]byte, error) {
	body, err := l.get(ctx, l.ChainURL(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain %s: %w", id, err)
	}
	return body, nil
}

type chainList struct {
	Chains []string `json:"chains"`
}

// ListChains asks the server's "/chains" endpoint for its chain IDs.
func (l *Loader) ListChains(ctx context.Context) ([]string, error) {
	body, err := l.get(ctx, l.base+"/chains")
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	var list chainList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode chain list: %w", err)
	}
	if list.Chains == nil {
		return []string{}, nil
	}
	return list.Chains, nil
}

func (l *Loader) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrChainNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocument+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxDocument {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocument)
	}
	return body, nil
}
