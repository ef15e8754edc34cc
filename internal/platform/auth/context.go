package auth

import (
	"time"

	"github.com/google/uuid"
)

// Denial codes surfaced to callers.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeJWTExpired      = "JWT_EXPIRED"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeAuthFailed      = "AUTH_FAILED"
)

// AuthError describes a credential verification failure attached to a request
// context. It is mutually exclusive with a populated user.
type AuthError struct {
	Code      string     `json:"code"`
	Message   string     `json:"message"`
	ExpiredAt *time.Time `json:"expiredAt,omitempty"`
}

// Identity is the authenticated user as seen by the access-control engine.
type Identity struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Status      int        `json:"status"`
	InstituteID *uuid.UUID `json:"instituteId,omitempty"`
}

// IsActive reports whether the account is enabled.
func (i *Identity) IsActive() bool {
	return i != nil && i.Status == StatusActive
}

// Context is the per-request authentication aggregate. Exactly one of
// {populated User, Err, anonymous} holds. It is created at request entry and
// discarded at request exit; rule results memoized inside it never outlive
// the request.
type Context struct {
	User  *Identity
	Token string
	Err   *AuthError

	ruleResults map[Rule]*Denial
}

// IsAuthenticated reports whether the context carries a verified user and no
// authentication error.
func (c *Context) IsAuthenticated() bool {
	return c != nil && c.Err == nil && c.User != nil
}

// ApprovalStatus is an institute's lifecycle state.
type ApprovalStatus string

const (
	PendingApproval ApprovalStatus = "PENDING_APPROVAL"
	Approved        ApprovalStatus = "APPROVED"
	Rejected        ApprovalStatus = "REJECTED"
	Suspended       ApprovalStatus = "SUSPENDED"
)

// InstituteSnapshot is an immutable read-only view of an institute's
// lifecycle, derived at resolution time. The four booleans are mutually
// exclusive and jointly exhaustive over the four states; approvalStatus is
// the single source of truth.
type InstituteSnapshot struct {
	ApprovalStatus  ApprovalStatus `json:"approvalStatus"`
	IsApproved      bool           `json:"isApproved"`
	IsRejected      bool           `json:"isRejected"`
	IsPending       bool           `json:"isPending"`
	IsSuspended     bool           `json:"isSuspended"`
	RejectionReason *string        `json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	ApprovedBy      *uuid.UUID     `json:"approvedBy,omitempty"`
}

// NewInstituteSnapshot derives the boolean view from a lifecycle state.
func NewInstituteSnapshot(status ApprovalStatus, reason *string, approvedAt *time.Time, approvedBy *uuid.UUID) *InstituteSnapshot {
	return &InstituteSnapshot{
		ApprovalStatus:  status,
		IsApproved:      status == Approved,
		IsRejected:      status == Rejected,
		IsPending:       status == PendingApproval,
		IsSuspended:     status == Suspended,
		RejectionReason: reason,
		ApprovedAt:      approvedAt,
		ApprovedBy:      approvedBy,
	}
}
