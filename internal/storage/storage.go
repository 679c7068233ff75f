package storage

import (
	"fmt"
	"strings"
	"time"
)

// Entry is the last recorded outcome of a named request.
type Entry struct {
	StatusCode int       `json:"status_code,omitempty"`
	OK         bool      `json:"ok"`
	Kind       string    `json:"kind,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Store keeps the last outcome per request id.
type Store interface {
	Close() error
	// Record stores e and returns the entry it replaced, if any.
	Record(id string, e Entry) (prev Entry, found bool, err error)
	Last(id string) (Entry, bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                              { return nil }
func (noopStore) Record(string, Entry) (Entry, bool, error) { return Entry{}, false, nil }
func (noopStore) Last(string) (Entry, bool, error)          { return Entry{}, false, nil }
