package memfs

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/GriffinCanCode/persistfs/internal/native"
)

const (
	urlScheme   = "filesystem:"
	storageKind = "/persistent"
)

func (p *Provider) entryURL(fullPath string) string {
	return urlScheme + p.origin + storageKind + (&url.URL{Path: fullPath}).EscapedPath()
}

// parseURL returns the absolute entry path named by a filesystem: URL.
func (p *Provider) parseURL(raw string) (string, error) {
	rest, ok := strings.CutPrefix(raw, urlScheme)
	if !ok {
		return "", fmt.Errorf("%q is not a filesystem url: %w", raw, native.ErrEncoding)
	}

	inner, err := url.Parse(rest)
	if err != nil || inner.Scheme == "" || inner.Host == "" {
		return "", fmt.Errorf("%q has no origin: %w", raw, native.ErrEncoding)
	}
	if origin := inner.Scheme + "://" + inner.Host; origin != p.origin {
		return "", fmt.Errorf("origin %s is outside the sandbox: %w", origin, native.ErrSecurity)
	}

	fullPath, ok := strings.CutPrefix(inner.Path, storageKind)
	if !ok || (fullPath != "" && !strings.HasPrefix(fullPath, "/")) {
		return "", fmt.Errorf("%q does not name persistent storage: %w", raw, native.ErrEncoding)
	}
	if fullPath == "" {
		fullPath = "/"
	}
	return path.Clean(fullPath), nil
}
