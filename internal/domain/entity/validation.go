package entity

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for endpoint URLs.
const maxURLLength = 2048

// ValidateURL validates the format of an OAI-PMH base URL.
// The URL must be absolute, use http or https and have a host.
// A query string is rejected because the harvester owns the verb arguments.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return &ValidationError{Field: "base_url", Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "base_url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "base_url", Message: fmt.Sprintf("malformed URL: %v", err)}
	}

	// HTTPまたはHTTPSスキームのみ許可
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "base_url", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "base_url", Message: "URL must have a valid host"}
	}

	if parsedURL.RawQuery != "" {
		return &ValidationError{Field: "base_url", Message: "URL must not carry query arguments"}
	}

	return nil
}

// ValidateEndpoint runs ValidateURL and, unless allowPrivate is set,
// rejects hosts that resolve to loopback, link-local or private ranges.
func ValidateEndpoint(rawURL string, allowPrivate bool) error {
	if err := ValidateURL(rawURL); err != nil {
		return err
	}
	if allowPrivate {
		return nil
	}

	parsedURL, _ := url.Parse(rawURL)

	// SSRF対策: プライベートIPアドレスをブロック
	ips, err := net.LookupIP(parsedURL.Hostname())
	if err == nil {
		for _, ip := range ips {
			if isPrivateIP(ip) {
				return &ValidationError{
					Field:   "base_url",
					Message: "url cannot point to private network",
				}
			}
		}
	}

	return nil
}

// isPrivateIP checks if an IP address is in a private or restricted range.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsPrivate() {
		return true
	}

	_, metadata, _ := net.ParseCIDR("169.254.0.0/16")
	return metadata.Contains(ip)
}
