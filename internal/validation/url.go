package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// APIURLValidator validates the base URL of the articles API
type APIURLValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewAPIURLValidator creates a validator that only accepts public hosts
func NewAPIURLValidator() *APIURLValidator {
	return &APIURLValidator{
		AllowLocalhost:  false,
		AllowPrivateIPs: false,
		MaxLength:       2048,
	}
}

// NewPermissiveAPIURLValidator creates a validator for APIs served locally or on a private network
func NewPermissiveAPIURLValidator() *APIURLValidator {
	return &APIURLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize validates a base URL and returns it with a trailing
// slash so endpoint paths can be appended directly.
func (v *APIURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}

	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if i := strings.Index(input, "://"); i >= 0 {
		scheme := strings.ToLower(input[:i])
		if scheme != "http" && scheme != "https" {
			return "", fmt.Errorf("URL must use http or https protocol")
		}
	} else {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}

	if err := v.validateHost(parsedURL.Host); err != nil {
		return "", err
	}

	if strings.Contains(parsedURL.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	// Query parameters belong to individual requests, not the base URL
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return "", fmt.Errorf("base URL must not carry a query or fragment")
	}

	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	return parsedURL.String(), nil
}

func (v *APIURLValidator) validateHost(host string) error {
	hostname := host
	if strings.Contains(host, ":") {
		var err error
		hostname, _, err = net.SplitHostPort(host)
		if err != nil {
			return fmt.Errorf("invalid host format: %w", err)
		}
	}

	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}

	if !v.AllowPrivateIPs {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}

	if hostname == "0.0.0.0" || hostname == "255.255.255.255" {
		return fmt.Errorf("unroutable host %s", hostname)
	}

	return nil
}

// isLocalhost checks if a hostname refers to localhost
func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		hostname == "127.0.0.1" ||
		hostname == "::1" ||
		strings.HasSuffix(hostname, ".localhost")
}

// isPrivateIP checks if an IP address is in a private range
func isPrivateIP(ip net.IP) bool {
	if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
		return true
	}
	return false
}
