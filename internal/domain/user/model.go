package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/renalreg/registry/internal/platform/auth"
)

// User maps to the app_user table.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         auth.Role  `db:"role" json:"role"`
	Status       int        `db:"status" json:"status"`
	InstituteID  *uuid.UUID `db:"institute_id" json:"instituteId,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Identity projects the user into the access-control engine's view.
func (u *User) Identity() *auth.Identity {
	if u == nil {
		return nil
	}
	return &auth.Identity{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		InstituteID: u.InstituteID,
	}
}
