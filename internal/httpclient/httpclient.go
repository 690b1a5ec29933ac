package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Options declares every tunable of the outbound HTTP client in one place.
// Zero values fall back to large-media-friendly defaults.
type Options struct {
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for response headers. Body reads are
	// bounded by the request context, not by a client deadline, so large
	// streaming downloads are never cut off mid-transfer.
	ReadTimeout        time.Duration
	MaxConnections     int
	MaxIdleConnections int
	IdleTimeout        time.Duration
}

const (
	defaultConnectTimeout = 30 * time.Second
	defaultReadTimeout    = 10 * time.Minute
	defaultMaxConnections = 100
	defaultMaxIdle        = 20
	defaultIdleTimeout    = 90 * time.Second
)

// New builds an *http.Client from the declared options.
func New(opts Options) *http.Client {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = defaultMaxConnections
	}
	if opts.MaxIdleConnections <= 0 {
		opts.MaxIdleConnections = defaultMaxIdle
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
		MaxConnsPerHost:       opts.MaxConnections,
		MaxIdleConns:          opts.MaxIdleConnections,
		MaxIdleConnsPerHost:   opts.MaxIdleConnections,
		IdleConnTimeout:       opts.IdleTimeout,
	}

	return &http.Client{Transport: transport}
}

// FromSeconds converts integer-second config values into Options.
func FromSeconds(connect, read, maxConns, maxIdle int) Options {
	return Options{
		ConnectTimeout:     time.Duration(connect) * time.Second,
		ReadTimeout:        time.Duration(read) * time.Second,
		MaxConnections:     maxConns,
		MaxIdleConnections: maxIdle,
	}
}
