package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetByEmail returns (nil, nil) when no user carries the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	ListByInstitute(ctx context.Context, instituteID uuid.UUID, limit, offset int) ([]*User, int, error)
	SetStatus(ctx context.Context, id uuid.UUID, status int) (*User, error)
}
