package institute

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/renalreg/registry/internal/platform/auth"
)

// ErrReasonRequired is returned when a rejection carries no reason. A
// rejection without a reason would surface "Not specified" to every user of
// the institute, so the transition refuses instead.
var ErrReasonRequired = errors.New("rejection reason is required")

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Register creates an institute in PENDING_APPROVAL. This is the public
// registration path; the institute gains no capability until a super admin
// approves it.
func (s *Service) Register(ctx context.Context, inst *Institute) error {
	inst.Name = strings.TrimSpace(inst.Name)
	inst.Email = strings.TrimSpace(inst.Email)
	if inst.Name == "" {
		return fmt.Errorf("name is required")
	}
	if inst.Email == "" {
		return fmt.Errorf("email is required")
	}

	inst.ApprovalStatus = auth.PendingApproval
	inst.Status = auth.StatusActive
	inst.RejectionReason = nil
	inst.ApprovedAt = nil
	inst.ApprovedBy = nil

	if err := s.repo.Create(ctx, inst); err != nil {
		return err
	}
	s.logger.Info().Str("institute_id", inst.ID.String()).Str("name", inst.Name).Msg("institute registered")
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Institute, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Institute, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*Institute, int, error) {
	return s.repo.ListByApprovalStatus(ctx, auth.PendingApproval, limit, offset)
}

func (s *Service) ListApproved(ctx context.Context, limit, offset int) ([]*Institute, int, error) {
	return s.repo.ListByApprovalStatus(ctx, auth.Approved, limit, offset)
}

// Approve moves the institute to APPROVED, stamping the approver and the
// approval time. Re-approving an already approved institute re-stamps both.
func (s *Service) Approve(ctx context.Context, id, approvedBy uuid.UUID) (*Institute, error) {
	inst, err := s.repo.Approve(ctx, id, approvedBy)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("institute_id", id.String()).
		Str("approved_by", approvedBy.String()).
		Msg("institute approved")
	return inst, nil
}

// Reject moves the institute to REJECTED with a mandatory reason, stamping
// the rejecting admin and the rejection time. Re-rejecting re-stamps both.
func (s *Service) Reject(ctx context.Context, id, rejectedBy uuid.UUID, reason string) (*Institute, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	inst, err := s.repo.Reject(ctx, id, rejectedBy, reason)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("institute_id", id.String()).
		Str("rejected_by", rejectedBy.String()).
		Str("reason", reason).
		Msg("institute rejected")
	return inst, nil
}

// Suspend moves the institute to SUSPENDED, stamping the suspending admin
// and the suspension time into the same actor/time columns the other
// transitions use.
func (s *Service) Suspend(ctx context.Context, id, suspendedBy uuid.UUID) (*Institute, error) {
	inst, err := s.repo.Suspend(ctx, id, suspendedBy)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("institute_id", id.String()).
		Str("suspended_by", suspendedBy.String()).
		Msg("institute suspended")
	return inst, nil
}

// Enable reinstates the institute to APPROVED and reactivates its account
// flag.
func (s *Service) Enable(ctx context.Context, id uuid.UUID) (*Institute, error) {
	inst, err := s.repo.Reinstate(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("institute_id", id.String()).Msg("institute enabled")
	return inst, nil
}

// Disable clears the institute's account flag without touching its lifecycle
// state.
func (s *Service) Disable(ctx context.Context, id uuid.UUID) (*Institute, error) {
	inst, err := s.repo.SetAccountStatus(ctx, id, 0)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("institute_id", id.String()).Msg("institute disabled")
	return inst, nil
}
