// Package util holds small helpers shared by the HTTP clients.
package util

import (
	"fmt"
	"net/http"
	"net/url"
)

// ProxyFunc returns the proxy selector for an HTTP transport. An empty
// proxy defers to HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func ProxyFunc(proxy string) (func(*http.Request) (*url.URL, error), error) {
	if proxy == "" {
		return http.ProxyFromEnvironment, nil
	}

	u, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %q: %w", proxy, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse proxy %q: missing scheme or host", proxy)
	}
	return http.ProxyURL(u), nil
}
