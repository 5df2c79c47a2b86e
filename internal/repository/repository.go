package repository

import (
	"alcyxob/donation-share/internal/domain"
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	// Create assigns ID and timestamps; returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// DonationRepository defines the interface for interacting with donation data.
type DonationRepository interface {
	// Create assigns ID and timestamps to donation and persists it.
	Create(ctx context.Context, donation *domain.Donation) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Donation, error)
	// List returns every donation, newest first.
	List(ctx context.Context) ([]domain.Donation, error)
}

// Store bundles the repositories of one backend and its lifecycle.
type Store interface {
	Users() UserRepository
	Donations() DonationRepository
	// EnsureSchema creates indexes or runs migrations.
	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}
