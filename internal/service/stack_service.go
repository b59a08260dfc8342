package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/storage"
	"github.com/google/uuid"
)

// StackService manages the saved stacks of signed-in users.
type StackService struct {
	store storage.Storage
	now   func() time.Time

	mu      sync.Mutex
	pending sync.WaitGroup
	closed  bool
}

// NewStackService creates a new StackService.
func NewStackService(store storage.Storage) *StackService {
	return &StackService{store: store, now: time.Now}
}

// Save stores a new record for the user.
func (s *StackService) Save(ctx context.Context, userID string, stacks []string) (*domain.SavedStackRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	cleaned := make(domain.StringList, 0, len(stacks))
	for _, name := range stacks {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: stacks must not be empty", domain.ErrInvalidInput)
	}

	record := &domain.SavedStackRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Stacks:    cleaned,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateSavedStack(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns the user's records, newest first. Records holding the same
// stacks as a newer one are left out.
func (s *StackService) List(ctx context.Context, userID string) ([]*domain.SavedStackRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	records, err := s.store.ListSavedStacks(ctx, userID)
	if err != nil {
		return nil, err
	}

	unique := make([]*domain.SavedStackRecord, 0, len(records))
	for _, r := range records {
		dup := false
		for _, kept := range unique {
			if kept.SameStacks(r) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, r)
		}
	}
	return unique, nil
}

// Delete removes a record. Records of other users are reported as not found.
func (s *StackService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}

	record, err := s.store.GetSavedStack(ctx, id)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return domain.ErrNotFound
	}
	return s.store.DeleteSavedStack(ctx, id)
}

// SaveAsync saves in the background. It never blocks the caller and a failure
// is only logged.
func (s *StackService) SaveAsync(userID string, stacks []string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		log.Printf("Dropping stack save for %s: service is shutting down", userID)
		return
	}
	s.pending.Add(1)
	s.mu.Unlock()

	stacks = append([]string(nil), stacks...)
	go func() {
		defer s.pending.Done()

		record, err := s.Save(context.Background(), userID, stacks)
		if err != nil {
			log.Printf("Background stack save failed for %s: %v", userID, err)
			return
		}
		log.Printf("Saved stack %s for %s", record.ID, userID)
	}()
}

// Wait stops accepting background saves and blocks until pending ones finish.
func (s *StackService) Wait() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.pending.Wait()
}
