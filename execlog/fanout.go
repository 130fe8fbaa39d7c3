package execlog

import "context"

/* Fanout tees every write to several sinks
 * Used by the composition root to pair a human-readable slog sink
 * with the durable Redis stream sink
 */
type Fanout struct {
	sinks []Sink
}

// NewFanout creates a sink that forwards each write to all given sinks
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Log forwards the entry to every sink
func (f *Fanout) Log(ctx context.Context, category string, fields map[string]any) {
	for _, s := range f.sinks {
		s.Log(ctx, category, fields)
	}
}

// LogError forwards the entry to every sink
func (f *Fanout) LogError(ctx context.Context, category string, err error, fields map[string]any) {
	for _, s := range f.sinks {
		s.LogError(ctx, category, err, fields)
	}
}
