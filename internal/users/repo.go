package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("user already exists")
)

// Repo persists user accounts. Email lookups are case-insensitive; the
// backing store keeps emails lowercased and unique.
type Repo interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
