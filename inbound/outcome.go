package inbound

import "fmt"

/* State represents the terminal state of inbound processing
 * Follows the lifecycle: Received -> SignatureChecking -> ShapeChecking
 * -> Routing -> Processed/Ignored, with Rejected reachable from both
 * checking stages; no state is ever retried
 */
type State int

const (
	Processed State = iota + 1
	Ignored
	Rejected
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Processed:
		return "processed"
	case Ignored:
		return "ignored"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Validate checks if the state is valid
func (s State) Validate() error {
	if s < Processed || s > Rejected {
		return fmt.Errorf("invalid state: %d", s)
	}
	return nil
}

// Outcome describes which variant handler ran and what it did
type Outcome struct {
	State                 State
	EventType             EventType
	WebhookCode           string
	ItemID                string
	TransactionsProcessed int
}
