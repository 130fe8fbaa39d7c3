package config

import (
	"fmt"
	"strings"
)

/* Environment represents the deployment mode of the service
 * Production tightens the outbound URL safety check (HTTPS only,
 * no loopback targets); sandbox and development relax it
 */
type Environment string

const (
	Production  Environment = "production"
	Sandbox     Environment = "sandbox"
	Development Environment = "development"
)

// NewEnvironment creates an Environment from a string
func NewEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production":
		return Production
	case "development":
		return Development
	default:
		return Sandbox // default to sandbox for safety
	}
}

// String returns the string representation of the environment
func (e Environment) String() string {
	return string(e)
}

// IsProduction returns true when running in production mode
func (e Environment) IsProduction() bool {
	return e == Production
}

// Validate checks if the environment is valid
func (e Environment) Validate() error {
	switch e {
	case Production, Sandbox, Development:
		return nil
	default:
		return fmt.Errorf("invalid environment: %s", e)
	}
}
