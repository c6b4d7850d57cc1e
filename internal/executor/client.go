package executor

import (
	"net"
	"net/http"
	"time"
)

// NewClient constructs the shared HTTP client used by all in-flight
// executions. The transport keeps generous idle pools so that unbounded
// fan-out can reuse connections; maxConns > 0 additionally caps concurrent
// connections per host for environments where unbounded fan-out would
// exhaust local or remote resources.
func NewClient(timeout time.Duration, maxConns int) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          1024,
		MaxIdleConnsPerHost:   256,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if maxConns > 0 {
		transport.MaxConnsPerHost = maxConns
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
