package network

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eventcast/eventcast/constant"
)

// Probe is what a HEAD request reveals about a media URL.
type Probe struct {
	StatusCode    int    `json:"statusCode"`
	ContentType   string `json:"contentType,omitempty"`
	ContentLength int64  `json:"contentLength,omitempty"`
}

// OK reports a 2xx status.
func (p Probe) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// Head probes url without downloading it. Servers that refuse HEAD are retried with a
// one-byte ranged GET.
func Head(ctx context.Context, url string) (Probe, error) {
	probe, err := do(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Probe{}, err
	}

	if probe.StatusCode != http.StatusMethodNotAllowed && probe.StatusCode != http.StatusNotImplemented {
		return probe, nil
	}

	return do(ctx, http.MethodGet, url, map[string]string{"Range": "bytes=0-0"})
}

func do(ctx context.Context, method, url string, headers map[string]string) (Probe, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return Probe{}, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := Client.Do(req)
	if err != nil {
		return Probe{}, err
	}
	defer resp.Body.Close()

	return Probe{
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}
