package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/renalreg/registry/internal/domain/institute"
	"github.com/renalreg/registry/internal/platform/auth"
)

// SnapshotSource resolves the institute behind a user's membership so the
// access engine can derive a lifecycle snapshot. Satisfied by the institute
// service.
type SnapshotSource interface {
	Get(ctx context.Context, id uuid.UUID) (*institute.Institute, error)
}

var validRoles = map[auth.Role]bool{
	auth.RoleSuperAdmin:     true,
	auth.RoleAdmin:          true,
	auth.RoleInstituteAdmin: true,
	auth.RoleDataEntry:      true,
}

type Service struct {
	repo       Repository
	codec      *auth.TokenCodec
	institutes SnapshotSource
	logger     zerolog.Logger
}

func NewService(repo Repository, codec *auth.TokenCodec, institutes SnapshotSource, logger zerolog.Logger) *Service {
	return &Service{repo: repo, codec: codec, institutes: institutes, logger: logger}
}

// Login verifies credentials and issues a signed token. The response is
// identical for an unknown email and a wrong password. Disabled accounts can
// still log in; the access engine reports their state instead of hiding it
// behind a login failure.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrBadCredentials
	}
	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		s.logger.Warn().Str("email", email).Msg("failed login attempt")
		return nil, "", ErrBadCredentials
	}

	token, err := s.codec.Issue(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("user logged in")
	return u, token, nil
}

// CreateParams carries the fields for a new account.
type CreateParams struct {
	Name        string
	Email       string
	Password    string
	Role        auth.Role
	InstituteID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*User, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if p.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if !validRoles[p.Role] {
		return nil, fmt.Errorf("invalid role: %s", p.Role)
	}
	if (p.Role == auth.RoleInstituteAdmin || p.Role == auth.RoleDataEntry) && p.InstituteID == nil {
		return nil, fmt.Errorf("institute is required for role %s", p.Role)
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: hash,
		Role:         p.Role,
		Status:       auth.StatusActive,
		InstituteID:  p.InstituteID,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("user created")
	return u, nil
}

// RegisterInstituteAdmin creates the founding institute-admin account during
// combined institute registration.
func (s *Service) RegisterInstituteAdmin(ctx context.Context, instituteID uuid.UUID, name, email, password string) error {
	_, err := s.Create(ctx, CreateParams{
		Name:        name,
		Email:       email,
		Password:    password,
		Role:        auth.RoleInstituteAdmin,
		InstituteID: &instituteID,
	})
	return err
}

// RegisterToInstitute lets an institute admin add a member to their own
// institute. Only institute-scoped roles can be granted this way.
func (s *Service) RegisterToInstitute(ctx context.Context, instituteID uuid.UUID, p CreateParams) (*User, error) {
	if p.Role == "" {
		p.Role = auth.RoleDataEntry
	}
	if p.Role != auth.RoleDataEntry && p.Role != auth.RoleInstituteAdmin {
		return nil, fmt.Errorf("role %s cannot be granted by an institute admin", p.Role)
	}
	p.InstituteID = &instituteID
	return s.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByInstitute(ctx context.Context, instituteID uuid.UUID, limit, offset int) ([]*User, int, error) {
	return s.repo.ListByInstitute(ctx, instituteID, limit, offset)
}

func (s *Service) Enable(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.SetStatus(ctx, id, auth.StatusActive)
}

func (s *Service) Disable(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.SetStatus(ctx, id, 0)
}

// FindIdentity implements auth.IdentityStore. A missing user resolves to
// (nil, nil) so a stale token degrades to an anonymous request instead of an
// error.
func (s *Service) FindIdentity(ctx context.Context, id uuid.UUID) (*auth.Identity, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u.Identity(), nil
}

// StatusReport is the userStatus payload: the caller's identity, their
// institute's lifecycle view and the derived access summary.
type StatusReport struct {
	User      *auth.Identity          `json:"user"`
	Institute *auth.InstituteSnapshot `json:"institute,omitempty"`
	auth.AccessSummary
}

// Status resolves the caller's institute and computes their access summary.
// A dangling institute reference degrades to "no institute" rather than
// failing the whole request.
func (s *Service) Status(ctx context.Context, ident *auth.Identity) (*StatusReport, error) {
	var snap *auth.InstituteSnapshot
	if ident.InstituteID != nil {
		inst, err := s.institutes.Get(ctx, *ident.InstituteID)
		if err != nil && !errors.Is(err, institute.ErrNotFound) {
			return nil, err
		}
		snap = inst.Snapshot()
	}
	return &StatusReport{
		User:          ident,
		Institute:     snap,
		AccessSummary: auth.ComputeAccessSummary(ident, snap),
	}, nil
}
