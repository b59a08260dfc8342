package storage

import (
	"context"

	"github.com/bcnelson/stackex/internal/domain"
)

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Saved stacks
	CreateSavedStack(ctx context.Context, record *domain.SavedStackRecord) error
	GetSavedStack(ctx context.Context, id string) (*domain.SavedStackRecord, error)
	// ListSavedStacks returns the records of a user, newest first.
	ListSavedStacks(ctx context.Context, userID string) ([]*domain.SavedStackRecord, error)
	DeleteSavedStack(ctx context.Context, id string) error
}
