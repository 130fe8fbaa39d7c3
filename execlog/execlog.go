package execlog

import (
	"context"
	"time"
)

/* Append-only execution log for the webhook pipelines
 * Writes are fire-and-forget: the Sink never returns an error and
 * implementations swallow their own failures so a broken log store
 * can never break a dispatch or a receive
 */

// Log categories emitted by this subsystem
const (
	CategoryAttempt   = "webhook.attempt"
	CategoryExecution = "webhook.execution"
	CategoryInbound   = "webhook.inbound"
)

// Entry represents a single recorded log event
type Entry struct {
	ID       string
	Category string
	At       time.Time
	Fields   map[string]any
	Error    string
}

// Sink provides write operations for the execution log
type Sink interface {
	/* Log appends one entry under the given category
	 * Implementations must be safe for concurrent writers
	 */
	Log(ctx context.Context, category string, fields map[string]any)
	// LogError appends one entry carrying an error alongside its context fields
	LogError(ctx context.Context, category string, err error, fields map[string]any)
}

/* Reader provides the read side, used only by the delivery ledger
 * Kept separate from Sink so pipeline code cannot depend on reads
 */
type Reader interface {
	// Entries returns all recorded entries matching any of the given categories
	Entries(ctx context.Context, categories ...string) ([]Entry, error)
}
