// Package stream decides how an asset URL is played: which URL is requested and
// which protocol the streaming session should expect.
package stream

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/samber/lo"
)

// MimeType is the protocol hint handed to the streaming session.
type MimeType string

const (
	MimeHLS     MimeType = "application/x-mpegurl"
	MimeDASH    MimeType = "application/dash+xml"
	MimeMP3     MimeType = "audio/mpeg"
	MimeUnknown MimeType = ""
)

// Format returns the demuxer name backends use for the mime type, or "" when unknown.
func (m MimeType) Format() string {
	switch m {
	case MimeHLS:
		return "hls"
	case MimeDASH:
		return "dash"
	case MimeMP3:
		return "mp3"
	default:
		return ""
	}
}

// Platform is the client platform the policy resolves for.
type Platform string

const (
	PlatformDefault Platform = "default"
	PlatformIOS     Platform = "ios"
)

// ParsePlatform maps a configuration value to a Platform, defaulting unknown values.
func ParsePlatform(s string) Platform {
	if strings.EqualFold(strings.TrimSpace(s), string(PlatformIOS)) {
		return PlatformIOS
	}
	return PlatformDefault
}

// ErrInvalidURL is returned by ValidateURL for anything that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid audio url")

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}

// StripQuery removes the query string and fragment from a URL.
func StripQuery(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// SameAsset reports whether two URLs refer to the same asset, ignoring query parameters.
func SameAsset(a, b string) bool {
	return StripQuery(a) == StripQuery(b)
}

// DetectMime infers a live protocol from the URL shape alone.
func DetectMime(raw string, dashDomains []string) MimeType {
	u, err := url.Parse(raw)
	if err != nil {
		return MimeUnknown
	}

	if hostMatches(u.Hostname(), dashDomains) {
		return MimeDASH
	}

	switch strings.ToLower(path.Ext(u.Path)) {
	case ".mpd":
		return MimeDASH
	case ".m3u8":
		return MimeHLS
	default:
		return MimeUnknown
	}
}

// hostMatches reports whether host equals, or is a subdomain of, any candidate.
func hostMatches(host string, candidates []string) bool {
	host = strings.ToLower(host)
	if host == "" {
		return false
	}

	return lo.SomeBy(candidates, func(c string) bool {
		c = strings.ToLower(strings.TrimSpace(c))
		return c != "" && (host == c || strings.HasSuffix(host, "."+c))
	})
}
