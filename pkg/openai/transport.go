package openai

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// newTransport builds the proxy-capable transport shared by both dispatch
// paths. An explicit proxy URL takes priority over the environment proxy
// settings; the same transport serves plain and encrypted endpoints, with
// scheme-appropriate proxying resolved per request.
func newTransport(proxyURL string) (*http.Transport, error) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		tr.Proxy = http.ProxyURL(u)
	}

	return tr, nil
}
