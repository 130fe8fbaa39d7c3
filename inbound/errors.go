package inbound

import "fmt"

/* Inbound errors are terminal: malformed or unauthenticated events are
 * dropped, never retried, because redelivery is the sender's job
 */

// SignatureError indicates the claimed signature did not verify
type SignatureError struct {
	Reason string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("webhook signature verification failed: %s", e.Reason)
}

// SchemaError indicates the payload matched no known event variant
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("webhook payload schema mismatch: %s", e.Reason)
}
