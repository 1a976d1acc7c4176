// Package network provides the shared HTTP client used for manifest probes and release checks.
package network

import (
	"net/http"
	"time"

	"github.com/eventcast/eventcast/log"
	"golang.org/x/net/http2"
)

// Client is shared across the application. Timeouts suit small metadata requests, not media downloads.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: newTransport(),
}

// newTransport clones the default transport with tighter pool and header timeouts.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 16
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	t.ExpectContinueTimeout = time.Second

	// CDNs keep HTTP/2 connections open for a long time; ping idle ones so a dead
	// connection fails the next probe quickly instead of hanging until the timeout.
	h2, err := http2.ConfigureTransports(t)
	if err != nil {
		log.WithFields(log.Fields{"component": "network"}).WithError(err).Debug("http2 health checks unavailable")
		return t
	}
	h2.ReadIdleTimeout = 15 * time.Second
	h2.PingTimeout = 5 * time.Second

	return t
}
