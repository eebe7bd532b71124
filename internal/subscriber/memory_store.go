package subscriber

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// MemoryStore is an in-process store with the same semantics as PgStore.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   []Subscriber
	now    func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// EnsureSchema is a no-op.
func (s *MemoryStore) EnsureSchema(context.Context) error { return nil }

// Insert adds email or returns ErrConflict.
func (s *MemoryStore) Insert(ctx context.Context, email string) (*Subscriber, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.rows, func(r Subscriber) bool { return r.Email == email }) {
		return nil, ErrConflict
	}

	s.nextID++
	sub := Subscriber{ID: s.nextID, Email: email, CreatedAt: s.now().UTC()}
	s.rows = append(s.rows, sub)
	return &sub, nil
}

// ListEmails returns emails in insertion order.
func (s *MemoryStore) ListEmails(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emails := make([]string, 0, len(s.rows))
	for _, r := range s.rows {
		emails = append(emails, r.Email)
	}
	return emails, nil
}

// DeleteByEmail removes the matching row and reports whether one existed.
func (s *MemoryStore) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.rows)
	s.rows = slices.DeleteFunc(s.rows, func(r Subscriber) bool { return r.Email == email })
	return len(s.rows) < n, nil
}
