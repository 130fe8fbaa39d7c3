package execlog

import (
	"context"
	"log/slog"
)

// Slog writes log entries to a structured *slog.Logger
type Slog struct {
	logger *slog.Logger
}

// NewSlog creates a sink backed by the given logger
func NewSlog(logger *slog.Logger) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{logger: logger}
}

// Log emits one info record with the category and fields as attributes
func (s *Slog) Log(ctx context.Context, category string, fields map[string]any) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, category, attrs(fields)...)
}

// LogError emits one error record with the category, error and fields as attributes
func (s *Slog) LogError(ctx context.Context, category string, err error, fields map[string]any) {
	recordAttrs := attrs(fields)
	if err != nil {
		recordAttrs = append(recordAttrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, category, recordAttrs...)
}

func attrs(fields map[string]any) []slog.Attr {
	out := make([]slog.Attr, 0, len(fields)+1)
	for k, v := range fields {
		out = append(out, slog.Any(k, v))
	}
	return out
}
