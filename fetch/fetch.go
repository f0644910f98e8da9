// Package fetch implements the package fetcher: resolving a package
// source URL to a repository endpoint and streaming a package archive's
// bytes into memory.
//
// This is modeled on the retrieval pack's proxy-client examples
// (willibrandon/gonuget's resource providers, golang-pkgsite's
// proxyModuleGetter) but kept to the one HTTP round trip this system
// actually needs: GET the archive, read the whole body.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/vikramraodp/scriptcompiler/archive"
)

// DefaultSourceURL is used whenever the caller passes an empty package
// source URL.
const DefaultSourceURL = "https://proxy.scriptpkg.dev/v1/packages"

// MaxArchiveBytes bounds how much of a response body Fetcher will read,
// guarding against a misbehaving or malicious feed.
const MaxArchiveBytes = 256 << 20 // 256MiB

// Fetcher streams package archives from a module-proxy-style HTTP feed.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher with a client tuned for short-lived,
// non-interactive bulk downloads (connection reuse only; this system
// never issues concurrent requests to the same endpoint aggressively
// enough to need a custom transport pool size).
func New() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 2 * time.Minute}}
}

// NewWithClient allows tests (and callers with special transport needs,
// e.g. mutual TLS to a private feed) to supply their own *http.Client.
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch streams the archive for (id, version) from sourceURL (or
// DefaultSourceURL when empty) and returns an opened archive reader.
//
// Failure to resolve the coordinate against the feed is reported as
// (nil, false, nil) rather than an error value. The reference builder
// treats this uniformly as "not resolvable here",
// whether the cause was a 404, a network error or an unreadable
// archive. A non-nil error is returned only for context cancellation
// and for a response body larger than MaxArchiveBytes.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL, id, version string) (*archive.Package, bool, error) {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}

	endpoint, err := buildEndpoint(sourceURL, id, version)
	if err != nil {
		return nil, false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxArchiveBytes+1))
	if err != nil {
		return nil, false, nil
	}
	if len(data) > MaxArchiveBytes {
		return nil, false, fmt.Errorf("fetch: archive for %s@%s exceeds %d bytes", id, version, MaxArchiveBytes)
	}

	pkg, err := archive.Open(data)
	if err != nil {
		return nil, false, nil
	}

	return pkg, true, nil
}

func buildEndpoint(sourceURL, id, version string) (string, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return "", err
	}
	base.Path = path.Join(base.Path, id, version+".pkg")
	return base.String(), nil
}
