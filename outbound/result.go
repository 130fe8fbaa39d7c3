package outbound

import (
	"fmt"
	"time"
)

/* Outcome represents the terminal state of a dispatch
 * Follows the lifecycle: attempts run sequentially until one of
 * Succeeded (2xx observed), Failed (budget exhausted) or Canceled
 * (caller gave up) is reached
 */
type Outcome int

const (
	Succeeded Outcome = iota + 1
	Failed
	Canceled
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Validate checks if the outcome is valid
func (o Outcome) Validate() error {
	if o < Succeeded || o > Canceled {
		return fmt.Errorf("invalid outcome: %d", o)
	}
	return nil
}

// ErrorKind classifies why a single attempt did not succeed
type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindTimeout   ErrorKind = "timeout"
	ErrorKindStatus    ErrorKind = "status"
)

/* Attempt records one retry iteration
 * Created at attempt start, finalized at attempt end, appended to its
 * execution's history in order; never mutated afterwards
 */
type Attempt struct {
	Number     int // 1-based
	StartedAt  time.Time
	Duration   time.Duration
	HTTPStatus *int // nil when the attempt errored before a response
	ErrorKind  ErrorKind
}

// Result is the terminal value returned to the caller, immutable once built
type Result struct {
	Outcome       Outcome
	Success       bool
	WebhookID     string
	FinalStatus   *int // last HTTP status observed, nil on total failure
	Attempts      []Attempt
	TotalDuration time.Duration
}
