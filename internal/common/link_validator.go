package common

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

var (
	// ErrInvalidURL is returned when a link target is not an absolute http(s) URL
	ErrInvalidURL = errors.New("url must start with http:// or https:// and include a host")
	// ErrBlockedURL is returned when a link target points at a blocked host
	ErrBlockedURL = errors.New("url host is not allowed")
)

// IsHTTPURL reports whether raw is an absolute http or https URL with a host.
func IsHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateTargetURL validates a short link target. Targets on blockedHosts
// (the short link host itself) would redirect in a loop and are rejected.
func ValidateTargetURL(raw string, blockedHosts []string) error {
	if !IsHTTPURL(raw) {
		return ErrInvalidURL
	}
	u, _ := url.Parse(strings.TrimSpace(raw))
	host := strings.ToLower(u.Hostname())
	if slices.ContainsFunc(blockedHosts, func(h string) bool { return strings.EqualFold(h, host) }) {
		return ErrBlockedURL
	}
	return nil
}
