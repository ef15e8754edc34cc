package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/renalreg/registry/internal/domain/institute"
	"github.com/renalreg/registry/internal/platform/auth"
	"github.com/renalreg/registry/internal/platform/calculator"
)

var (
	// ErrEntryNotPermitted means the caller's computed permissions lack the
	// data-entry capability, typically because their institute is still
	// pending approval.
	ErrEntryNotPermitted = errors.New("data entry is not permitted for your institute")
	// ErrViewNotPermitted means the caller cannot view registry records.
	ErrViewNotPermitted = errors.New("viewing records is not permitted for your institute")
	// ErrWrongInstitute means the record belongs to another institute.
	ErrWrongInstitute = errors.New("record belongs to a different institute")
)

// SnapshotSource resolves an institute for capability checks. Satisfied by
// the institute service.
type SnapshotSource interface {
	Get(ctx context.Context, id uuid.UUID) (*institute.Institute, error)
}

type Service struct {
	repo       Repository
	institutes SnapshotSource
	logger     zerolog.Logger
}

func NewService(repo Repository, institutes SnapshotSource, logger zerolog.Logger) *Service {
	return &Service{repo: repo, institutes: institutes, logger: logger}
}

// permissionsFor computes the actor's effective permissions from their
// institute's current lifecycle state. One lookup per call; the lifecycle
// state is never cached across requests.
func (s *Service) permissionsFor(ctx context.Context, actor *auth.Identity) (auth.Permissions, error) {
	var snap *auth.InstituteSnapshot
	if actor.InstituteID != nil {
		inst, err := s.institutes.Get(ctx, *actor.InstituteID)
		if err != nil && !errors.Is(err, institute.ErrNotFound) {
			return auth.Permissions{}, err
		}
		snap = inst.Snapshot()
	}
	return auth.CalculatePermissions(actor.Role, snap), nil
}

func (s *Service) requireEntry(ctx context.Context, actor *auth.Identity) error {
	perms, err := s.permissionsFor(ctx, actor)
	if err != nil {
		return err
	}
	if !perms.CanEnterData {
		return ErrEntryNotPermitted
	}
	return nil
}

func (s *Service) requireView(ctx context.Context, actor *auth.Identity) error {
	perms, err := s.permissionsFor(ctx, actor)
	if err != nil {
		return err
	}
	if !perms.CanViewReports {
		return ErrViewNotPermitted
	}
	return nil
}

// scoped verifies the patient is visible to the actor. Admin roles see every
// institute; institute roles only their own.
func scoped(actor *auth.Identity, p *Patient) error {
	switch actor.Role {
	case auth.RoleSuperAdmin, auth.RoleAdmin:
		return nil
	}
	if actor.InstituteID == nil || *actor.InstituteID != p.InstituteID {
		return ErrWrongInstitute
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor *auth.Identity, p *Patient) error {
	if err := s.requireEntry(ctx, actor); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.DateOfBirth.IsZero() {
		return fmt.Errorf("date of birth is required")
	}

	// Institute users always write into their own institute.
	if actor.Role == auth.RoleInstituteAdmin || actor.Role == auth.RoleDataEntry {
		p.InstituteID = *actor.InstituteID
	}
	if p.InstituteID == uuid.Nil {
		return fmt.Errorf("institute is required")
	}
	p.CreatedBy = actor.ID

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.logger.Info().
		Str("patient_id", p.ID.String()).
		Str("institute_id", p.InstituteID.String()).
		Msg("patient registered")
	return nil
}

func (s *Service) Get(ctx context.Context, actor *auth.Identity, id uuid.UUID) (*Patient, error) {
	if err := s.requireView(ctx, actor); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := scoped(actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns patients visible to the actor: the whole registry for admin
// roles, their own institute for institute roles.
func (s *Service) List(ctx context.Context, actor *auth.Identity, limit, offset int) ([]*Patient, int, error) {
	if err := s.requireView(ctx, actor); err != nil {
		return nil, 0, err
	}
	switch actor.Role {
	case auth.RoleSuperAdmin, auth.RoleAdmin:
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.ListByInstitute(ctx, *actor.InstituteID, limit, offset)
}

func (s *Service) Update(ctx context.Context, actor *auth.Identity, p *Patient) error {
	if err := s.requireEntry(ctx, actor); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := scoped(actor, existing); err != nil {
		return err
	}
	p.InstituteID = existing.InstituteID
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, actor *auth.Identity, id uuid.UUID) error {
	if err := s.requireEntry(ctx, actor); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := scoped(actor, existing); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CreateFollowUp records a clinic visit. When height and creatinine are both
// present the eGFR and CKD stage are derived rather than trusted from the
// request.
func (s *Service) CreateFollowUp(ctx context.Context, actor *auth.Identity, f *FollowUp) error {
	if err := s.requireEntry(ctx, actor); err != nil {
		return err
	}
	parent, err := s.repo.GetByID(ctx, f.PatientID)
	if err != nil {
		return err
	}
	if err := scoped(actor, parent); err != nil {
		return err
	}
	if f.VisitDate.IsZero() {
		return fmt.Errorf("visit date is required")
	}

	deriveRenalFunction(f)
	f.CreatedBy = actor.ID
	return s.repo.CreateFollowUp(ctx, f)
}

func (s *Service) UpdateFollowUp(ctx context.Context, actor *auth.Identity, f *FollowUp) error {
	if err := s.requireEntry(ctx, actor); err != nil {
		return err
	}
	existing, err := s.repo.GetFollowUp(ctx, f.ID)
	if err != nil {
		return err
	}
	parent, err := s.repo.GetByID(ctx, existing.PatientID)
	if err != nil {
		return err
	}
	if err := scoped(actor, parent); err != nil {
		return err
	}
	f.PatientID = existing.PatientID
	deriveRenalFunction(f)
	return s.repo.UpdateFollowUp(ctx, f)
}

func (s *Service) DeleteFollowUp(ctx context.Context, actor *auth.Identity, id uuid.UUID) error {
	if err := s.requireEntry(ctx, actor); err != nil {
		return err
	}
	existing, err := s.repo.GetFollowUp(ctx, id)
	if err != nil {
		return err
	}
	parent, err := s.repo.GetByID(ctx, existing.PatientID)
	if err != nil {
		return err
	}
	if err := scoped(actor, parent); err != nil {
		return err
	}
	return s.repo.DeleteFollowUp(ctx, id)
}

func (s *Service) ListFollowUps(ctx context.Context, actor *auth.Identity, patientID uuid.UUID, limit, offset int) ([]*FollowUp, int, error) {
	if err := s.requireView(ctx, actor); err != nil {
		return nil, 0, err
	}
	parent, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, 0, err
	}
	if err := scoped(actor, parent); err != nil {
		return nil, 0, err
	}
	return s.repo.ListFollowUps(ctx, patientID, limit, offset)
}

func (s *Service) CreateDialysis(ctx context.Context, actor *auth.Identity, d *DialysisRecord) error {
	if err := s.requireEntry(ctx, actor); err != nil {
		return err
	}
	parent, err := s.repo.GetByID(ctx, d.PatientID)
	if err != nil {
		return err
	}
	if err := scoped(actor, parent); err != nil {
		return err
	}
	if !validModalities[d.Modality] {
		return fmt.Errorf("invalid modality: %s", d.Modality)
	}
	if d.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	d.CreatedBy = actor.ID
	return s.repo.CreateDialysis(ctx, d)
}

func (s *Service) ListDialysis(ctx context.Context, actor *auth.Identity, patientID uuid.UUID, limit, offset int) ([]*DialysisRecord, int, error) {
	if err := s.requireView(ctx, actor); err != nil {
		return nil, 0, err
	}
	parent, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, 0, err
	}
	if err := scoped(actor, parent); err != nil {
		return nil, 0, err
	}
	return s.repo.ListDialysis(ctx, patientID, limit, offset)
}

func deriveRenalFunction(f *FollowUp) {
	if f.HeightCM == nil || f.CreatinineMgDL == nil {
		return
	}
	egfr, err := calculator.EGFRBedsideSchwartz(*f.HeightCM, *f.CreatinineMgDL)
	if err != nil {
		return
	}
	stage := calculator.CKDStageFromEGFR(egfr)
	f.EGFR = &egfr
	f.CKDStage = &stage
}
