package outbound

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/finsight/webhooks/config"
)

/* Request represents one outbound webhook delivery order
 * Owned exclusively by the call that created it and immutable once
 * submitted; the dispatcher never shares it across executions
 */
type Request struct {
	URL     string
	Method  string // defaults to POST
	Headers map[string]string
	Body    any // JSON-marshalable payload, may be nil for GET

	// Secret, when present, makes the request carry an HMAC signature header
	Secret string

	// BearerToken and the basic credential pair are mutually exclusive;
	// either may coexist with Secret
	BearerToken   string
	BasicUsername string
	BasicPassword string
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// NormalizedMethod returns the uppercased method, defaulting to POST
func (r Request) NormalizedMethod() string {
	if strings.TrimSpace(r.Method) == "" {
		return http.MethodPost
	}
	return strings.ToUpper(strings.TrimSpace(r.Method))
}

// Validate checks the request shape before any network attempt
func (r Request) Validate(env config.Environment) error {
	if !allowedMethods[r.NormalizedMethod()] {
		return &ValidationError{Field: "method", Reason: fmt.Sprintf("unsupported method %q", r.Method)}
	}
	if r.BearerToken != "" && (r.BasicUsername != "" || r.BasicPassword != "") {
		return &ValidationError{Field: "auth", Reason: "bearer token and basic credentials are mutually exclusive"}
	}
	if err := validateURL(r.URL, env); err != nil {
		return err
	}
	return nil
}

/* validateURL enforces the URL safety check
 * Production requires HTTPS and rejects loopback hosts so a
 * misconfigured target can never exfiltrate signed payloads to a
 * local listener; sandbox and development relax both rules
 */
func validateURL(rawURL string, env config.Environment) error {
	if strings.TrimSpace(rawURL) == "" {
		return &ValidationError{Field: "url", Reason: "url cannot be empty"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Reason: fmt.Sprintf("parsing url: %v", err)}
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return &ValidationError{Field: "url", Reason: "url must be absolute"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Field: "url", Reason: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)}
	}

	if env.IsProduction() {
		if parsed.Scheme != "https" {
			return &ValidationError{Field: "url", Reason: "production webhooks require https"}
		}
		if isLoopbackHost(parsed.Hostname()) {
			return &ValidationError{Field: "url", Reason: "production webhooks cannot target loopback hosts"}
		}
	}

	return nil
}

func isLoopbackHost(hostname string) bool {
	host := strings.ToLower(hostname)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

/* MaskURL strips query string and credentials for logging
 * URLs appear in log entries on every attempt, so anything secret-ish
 * after the path must never be recorded
 */
func MaskURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url"
	}
	masked := url.URL{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
	}
	return masked.String()
}
