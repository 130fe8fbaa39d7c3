package ledger

import (
	"context"
	"fmt"

	"github.com/finsight/webhooks/execlog"
)

/* Ledger derives delivery statistics from the execution log
 * Read-only and stateless: statistics are recomputed on every call and
 * never cached, so the pipelines carry no dependency on this package
 */

// Statistics summarizes recorded webhook executions
type Statistics struct {
	TotalExecutions       int     `json:"total_executions"`
	SuccessCount          int     `json:"success_count"`
	FailureCount          int     `json:"failure_count"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
	TotalRetries          int     `json:"total_retries"`
}

// ObservabilityError indicates the execution log store was unreachable
type ObservabilityError struct {
	Cause error
}

func (e *ObservabilityError) Error() string {
	return fmt.Sprintf("reading execution log: %v", e.Cause)
}

func (e *ObservabilityError) Unwrap() error {
	return e.Cause
}

// UseCase defines the statistics operation, for callers that want a fake
type UseCase interface {
	ComputeStatistics(ctx context.Context) (Statistics, error)
}

type Ledger struct {
	reader execlog.Reader
}

// NewLedger creates a new ledger with dependency injection
func NewLedger(reader execlog.Reader) *Ledger {
	return &Ledger{reader: reader}
}

// ComputeStatistics folds the execution log into summary counts and averages
func (l *Ledger) ComputeStatistics(ctx context.Context) (Statistics, error) {
	entries, err := l.reader.Entries(ctx, execlog.CategoryExecution)
	if err != nil {
		return Statistics{}, &ObservabilityError{Cause: err}
	}

	var stats Statistics
	var totalDurationMs float64

	for _, entry := range entries {
		stats.TotalExecutions++

		if success, ok := entry.Fields["success"].(bool); ok && success {
			stats.SuccessCount++
		} else {
			stats.FailureCount++
		}

		if durationMs, ok := asFloat(entry.Fields["total_duration_ms"]); ok {
			totalDurationMs += durationMs
		}

		// Retries are the attempts beyond the first of each execution
		if attempts, ok := asFloat(entry.Fields["attempts"]); ok && attempts > 1 {
			stats.TotalRetries += int(attempts) - 1
		}
	}

	if stats.TotalExecutions > 0 {
		stats.AverageResponseTimeMs = totalDurationMs / float64(stats.TotalExecutions)
	}

	return stats, nil
}

/* asFloat coerces the numeric types a log field can arrive as
 * In-memory entries keep their native Go types while entries read back
 * from Redis come through JSON as float64
 */
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
