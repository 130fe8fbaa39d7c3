package sources

import (
	"fmt"
	"os"
	"strings"
)

// DefaultSignatureHeader is used when a source does not name its own
const DefaultSignatureHeader = "X-Webhook-Signature"

/* Source represents an inbound webhook source configuration
 * Maps a named external sender to the HTTP path it posts to and the
 * secret its signatures are verified against
 */
type Source struct {
	Name            string
	Path            string
	SignatureHeader string
	Secret          string // inline shared secret
	SecretEnv       string // or the environment variable holding it
}

// Validate checks if the source configuration is valid
func (s *Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if s.Path == "" {
		return fmt.Errorf("path cannot be empty for source %s", s.Name)
	}
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("path must be absolute for source %s", s.Name)
	}
	if s.Secret != "" && s.SecretEnv != "" {
		return fmt.Errorf("secret and secret_env are mutually exclusive for source %s", s.Name)
	}
	// Neither secret set means an unverified source, which is allowed
	return nil
}

// SigningSecret resolves the shared secret, preferring the inline value
func (s *Source) SigningSecret() string {
	if s.Secret != "" {
		return s.Secret
	}
	if s.SecretEnv != "" {
		return os.Getenv(s.SecretEnv)
	}
	return ""
}
