package institute

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/renalreg/registry/internal/platform/auth"
)

var ErrNotFound = errors.New("institute not found")

type Repository interface {
	Create(ctx context.Context, inst *Institute) error
	GetByID(ctx context.Context, id uuid.UUID) (*Institute, error)
	List(ctx context.Context, limit, offset int) ([]*Institute, int, error)
	ListByApprovalStatus(ctx context.Context, status auth.ApprovalStatus, limit, offset int) ([]*Institute, int, error)

	// Lifecycle transitions. Each is a single atomic update returning the
	// post-transition row; concurrent transitions resolve last-writer-wins.
	// Approve, Reject and Suspend all stamp the acting admin and the
	// transition time into approved_by/approved_at, so those columns always
	// record the most recent lifecycle decision.
	Approve(ctx context.Context, id, approvedBy uuid.UUID) (*Institute, error)
	Reject(ctx context.Context, id, rejectedBy uuid.UUID, reason string) (*Institute, error)
	Suspend(ctx context.Context, id, suspendedBy uuid.UUID) (*Institute, error)
	Reinstate(ctx context.Context, id uuid.UUID) (*Institute, error)

	// Account flag, independent of the lifecycle state.
	SetAccountStatus(ctx context.Context, id uuid.UUID, status int) (*Institute, error)
}
