package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("patient not found")
	ErrFollowUpNotFound = errors.New("follow-up not found")
	ErrDialysisNotFound = errors.New("dialysis record not found")
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	ListByInstitute(ctx context.Context, instituteID uuid.UUID, limit, offset int) ([]*Patient, int, error)

	// Follow-ups
	CreateFollowUp(ctx context.Context, f *FollowUp) error
	GetFollowUp(ctx context.Context, id uuid.UUID) (*FollowUp, error)
	UpdateFollowUp(ctx context.Context, f *FollowUp) error
	DeleteFollowUp(ctx context.Context, id uuid.UUID) error
	ListFollowUps(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*FollowUp, int, error)

	// Dialysis
	CreateDialysis(ctx context.Context, d *DialysisRecord) error
	ListDialysis(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DialysisRecord, int, error)
}
