package execlog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

/* Memory is an in-process append-only log
 * Default sink for tests and single-node deployments
 */
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemory creates an empty in-memory log
func NewMemory() *Memory {
	return &Memory{}
}

// Log appends one entry under the given category
func (m *Memory) Log(_ context.Context, category string, fields map[string]any) {
	m.append(Entry{
		ID:       uuid.New().String(),
		Category: category,
		At:       time.Now().UTC(),
		Fields:   cloneFields(fields),
	})
}

// LogError appends one entry carrying an error alongside its context fields
func (m *Memory) LogError(_ context.Context, category string, err error, fields map[string]any) {
	entry := Entry{
		ID:       uuid.New().String(),
		Category: category,
		At:       time.Now().UTC(),
		Fields:   cloneFields(fields),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	m.append(entry)
}

// Entries returns all recorded entries matching any of the given categories
func (m *Memory) Entries(_ context.Context, categories ...string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		if len(categories) == 0 || slices.Contains(categories, entry.Category) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

func (m *Memory) append(entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

/* Entries are owned by the log once written; copying the fields map
 * keeps a caller mutating its own map from rewriting history
 */
func cloneFields(fields map[string]any) map[string]any {
	cloned := make(map[string]any, len(fields))
	for k, v := range fields {
		cloned[k] = v
	}
	return cloned
}
