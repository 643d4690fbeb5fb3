package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mercator-hq/beans/pkg/config"
)

// Status is the outcome of a load.
type Status string

const (
	// StatusSuccess marks a load whose registry was swapped in.
	StatusSuccess Status = "success"
	// StatusFailure marks a load that was aborted by an error.
	StatusFailure Status = "failure"
)

// Entry is one recorded load.
type Entry struct {
	// ID is the load id, also used as the log correlation id.
	ID string `json:"id"`

	// Time is when the load started.
	Time time.Time `json:"time"`

	// Trigger names what started the load ("initial", "reload", "watch").
	Trigger string `json:"trigger"`

	// Resources are the top-level resources read, in load order.
	Resources []string `json:"resources"`

	Status      Status        `json:"status"`
	Definitions int           `json:"definitions"`
	Aliases     int           `json:"aliases"`
	Overrides   int           `json:"overrides"`
	Version     string        `json:"version,omitempty"`
	Duration    time.Duration `json:"duration"`

	// Error is the failure message for StatusFailure entries.
	Error string `json:"error,omitempty"`
}

// NewEntry returns an entry with a fresh id, stamped with the current time.
func NewEntry(trigger string, resources []string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Time:      time.Now().UTC(),
		Trigger:   trigger,
		Resources: resources,
	}
}

// Query filters entries. Zero values match everything.
type Query struct {
	Status Status
	Since  time.Time
	Before time.Time

	// Limit caps the number of entries returned; 0 means no limit.
	Limit int
}

func (q *Query) matches(e *Entry) bool {
	if q == nil {
		return true
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if !q.Since.IsZero() && e.Time.Before(q.Since) {
		return false
	}
	if !q.Before.IsZero() && !e.Time.Before(q.Before) {
		return false
	}
	return true
}

// Store persists journal entries.
type Store interface {
	// Record stores an entry. Entry ids must be unique.
	Record(ctx context.Context, entry *Entry) error

	// List returns entries matching q, newest first.
	List(ctx context.Context, q *Query) ([]*Entry, error)

	// Get returns the entry with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes entries older than cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Trim removes the oldest entries until at most keep remain.
	Trim(ctx context.Context, keep int64) (int64, error)

	Close() error
}

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("journal entry not found")

// StorageError is an error from a store backend.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("journal storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

func storageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// Open creates the store selected by cfg.Backend.
func Open(cfg config.JournalConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(&SQLiteConfig{
			Path:        cfg.Path,
			BusyTimeout: cfg.BusyTimeout,
			WALMode:     true,
		})
	default:
		return nil, fmt.Errorf("unknown journal backend %q", cfg.Backend)
	}
}
