package institute

import (
	"time"

	"github.com/google/uuid"

	"github.com/renalreg/registry/internal/platform/auth"
)

// Institute maps to the institute table. An institute is the registration
// unit of the registry: patients, follow-ups and data-entry users all hang
// off one. ApprovedAt/ApprovedBy record the most recent lifecycle decision,
// whichever transition made it (approve, reject or suspend).
type Institute struct {
	ID              uuid.UUID           `db:"id" json:"id"`
	Name            string              `db:"name" json:"name"`
	Address         *string             `db:"address" json:"address,omitempty"`
	City            *string             `db:"city" json:"city,omitempty"`
	State           *string             `db:"state" json:"state,omitempty"`
	Country         *string             `db:"country" json:"country,omitempty"`
	ContactNumber   *string             `db:"contact_number" json:"contactNumber,omitempty"`
	Email           string              `db:"email" json:"email"`
	Website         *string             `db:"website" json:"website,omitempty"`
	ApprovalStatus  auth.ApprovalStatus `db:"approval_status" json:"approvalStatus"`
	RejectionReason *string             `db:"rejection_reason" json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time          `db:"approved_at" json:"approvedAt,omitempty"`
	ApprovedBy      *uuid.UUID          `db:"approved_by" json:"approvedBy,omitempty"`
	Status          int                 `db:"status" json:"status"`
	CreatedAt       time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updatedAt"`
}

// Snapshot derives the read-only lifecycle view consumed by the
// access-control engine.
func (i *Institute) Snapshot() *auth.InstituteSnapshot {
	if i == nil {
		return nil
	}
	return auth.NewInstituteSnapshot(i.ApprovalStatus, i.RejectionReason, i.ApprovedAt, i.ApprovedBy)
}
