package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/finsight/webhooks/execlog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

/* Redis Streams implementation of the execution log
 * One stream per category: execlog:{category}
 * XADD gives the append-only, concurrent-writer-safe semantics the
 * Sink contract requires; XRANGE serves the ledger's read side
 */

const streamPrefix = "execlog"

type Stream struct {
	client *redis.Client
}

// NewStream creates a stream-backed log on an already connected client
func NewStream(client *redis.Client) *Stream {
	return &Stream{client: client}
}

// Log appends one entry to the category's stream, swallowing failures
func (s *Stream) Log(ctx context.Context, category string, fields map[string]any) {
	s.append(ctx, execlog.Entry{
		ID:       uuid.New().String(),
		Category: category,
		At:       time.Now().UTC(),
		Fields:   fields,
	})
}

// LogError appends one entry carrying an error, swallowing failures
func (s *Stream) LogError(ctx context.Context, category string, err error, fields map[string]any) {
	entry := execlog.Entry{
		ID:       uuid.New().String(),
		Category: category,
		At:       time.Now().UTC(),
		Fields:   fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	s.append(ctx, entry)
}

func (s *Stream) append(ctx context.Context, entry execlog.Entry) {
	fieldsJSON, err := json.Marshal(entry.Fields)
	if err != nil {
		// Unmarshalable fields are a programming error; drop the payload,
		// keep the entry
		fieldsJSON = []byte("{}")
	}

	// Fire-and-forget: the pipelines must not fail because the log did
	s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey(entry.Category),
		Values: map[string]interface{}{
			"id":     entry.ID,
			"at_ms":  entry.At.UnixMilli(),
			"fields": string(fieldsJSON),
			"error":  entry.Error,
		},
	})
}

// Entries reads back all entries for the given categories, ordered by time
func (s *Stream) Entries(ctx context.Context, categories ...string) ([]execlog.Entry, error) {
	var entries []execlog.Entry

	for _, category := range categories {
		messages, err := s.client.XRange(ctx, streamKey(category), "-", "+").Result()
		if err != nil {
			return nil, fmt.Errorf("reading stream %s: %w", streamKey(category), err)
		}

		for _, msg := range messages {
			entry, err := parseMessage(category, msg)
			if err != nil {
				return nil, fmt.Errorf("parsing stream entry %s: %w", msg.ID, err)
			}
			entries = append(entries, entry)
		}
	}

	slices.SortStableFunc(entries, func(a, b execlog.Entry) int {
		return a.At.Compare(b.At)
	})
	return entries, nil
}

func parseMessage(category string, msg redis.XMessage) (execlog.Entry, error) {
	entry := execlog.Entry{Category: category}

	if id, ok := msg.Values["id"].(string); ok {
		entry.ID = id
	}
	if errStr, ok := msg.Values["error"].(string); ok {
		entry.Error = errStr
	}
	if atStr, ok := msg.Values["at_ms"].(string); ok {
		atMs, err := strconv.ParseInt(atStr, 10, 64)
		if err != nil {
			return execlog.Entry{}, fmt.Errorf("parsing timestamp: %w", err)
		}
		entry.At = time.UnixMilli(atMs).UTC()
	}
	if fieldsStr, ok := msg.Values["fields"].(string); ok && fieldsStr != "" {
		if err := json.Unmarshal([]byte(fieldsStr), &entry.Fields); err != nil {
			return execlog.Entry{}, fmt.Errorf("unmarshaling fields: %w", err)
		}
	}

	return entry, nil
}

func streamKey(category string) string {
	return fmt.Sprintf("%s:%s", streamPrefix, category)
}
