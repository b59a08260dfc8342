package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/storage"
)

// Store is an in-memory implementation of the storage interface for testing
// and single-process development.
type Store struct {
	mu sync.RWMutex

	savedStacks map[string]*domain.SavedStackRecord // key: id
}

// Ensure Store implements storage.Storage.
var _ storage.Storage = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		savedStacks: make(map[string]*domain.SavedStackRecord),
	}
}

func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }

// copyRecord returns a copy so callers never share the stored slice.
func copyRecord(r *domain.SavedStackRecord) *domain.SavedStackRecord {
	c := *r
	c.Stacks = append(domain.StringList(nil), r.Stacks...)
	return &c
}

func (s *Store) CreateSavedStack(ctx context.Context, record *domain.SavedStackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.savedStacks[record.ID]; exists {
		return domain.ErrInvalidInput
	}
	s.savedStacks[record.ID] = copyRecord(record)
	return nil
}

func (s *Store) GetSavedStack(ctx context.Context, id string) (*domain.SavedStackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.savedStacks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyRecord(record), nil
}

func (s *Store) ListSavedStacks(ctx context.Context, userID string) ([]*domain.SavedStackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []*domain.SavedStackRecord{}
	for _, r := range s.savedStacks {
		if r.UserID == userID {
			records = append(records, copyRecord(r))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *Store) DeleteSavedStack(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.savedStacks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.savedStacks, id)
	return nil
}
