package outbound

import "fmt"

/* Error taxonomy for the dispatch pipeline
 * ConfigurationError and ValidationError are surfaced before any I/O;
 * transport and timeout failures are handled by the retry loop and only
 * reach the caller wrapped in a DeliveryFailedError after exhaustion
 */

// ConfigurationError indicates webhook delivery is globally disabled
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("webhook configuration error: %s", e.Reason)
}

// ValidationError indicates a malformed request that never reached the transport
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid webhook request: %s: %s", e.Field, e.Reason)
}

/* DeliveryFailedError is raised only after the retry budget is exhausted
 * It carries the last attempt's cause so the caller can distinguish
 * "we tried and failed" from "malformed input"
 */
type DeliveryFailedError struct {
	WebhookID  string
	Attempts   int
	LastStatus *int
	Cause      error
}

func (e *DeliveryFailedError) Error() string {
	if e.LastStatus != nil {
		return fmt.Sprintf("webhook delivery failed after %d attempts: last status %d", e.Attempts, *e.LastStatus)
	}
	return fmt.Sprintf("webhook delivery failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *DeliveryFailedError) Unwrap() error {
	return e.Cause
}
