package auth

import "fmt"

// CanAccessSystem decides whether a user session is usable at all. Checks run
// in strict order; the first match wins:
//
//  1. disabled account            → false, regardless of role
//  2. SUPER_ADMIN                 → true
//  3. ADMIN                       → true
//  4. INSTITUTE_ADMIN/DATA_ENTRY  → false without an institute, false when the
//     institute is rejected or suspended, true otherwise. Pending is included;
//     access and capability are deliberately decoupled.
//  5. any other role              → false
func CanAccessSystem(user *Identity, snap *InstituteSnapshot) bool {
	if !user.IsActive() {
		return false
	}

	switch user.Role {
	case RoleSuperAdmin, RoleAdmin:
		return true

	case RoleInstituteAdmin, RoleDataEntry:
		if snap == nil {
			return false
		}
		if snap.IsRejected || snap.IsSuspended {
			return false
		}
		return true

	default:
		return false
	}
}

// StatusMessage produces a human-readable account status. It follows the
// exact precedence of CanAccessSystem so the two never disagree about why
// access was granted or denied.
func StatusMessage(user *Identity, snap *InstituteSnapshot) string {
	if !user.IsActive() {
		return "Your account is disabled. Please contact support."
	}

	switch user.Role {
	case RoleSuperAdmin:
		return "Full system access - Super Administrator"
	case RoleAdmin:
		return "System administrator with full access"
	}

	if snap == nil {
		return "No institute assigned. Please contact your administrator."
	}

	switch snap.ApprovalStatus {
	case PendingApproval:
		return "Your institute registration is pending approval. Limited access available."
	case Approved:
		return "Your institute is approved. Full access available."
	case Rejected:
		reason := "Not specified"
		if snap.RejectionReason != nil && *snap.RejectionReason != "" {
			reason = *snap.RejectionReason
		}
		return fmt.Sprintf("Your institute registration was rejected. Reason: %s", reason)
	case Suspended:
		return "Your institute has been suspended. Please contact support."
	default:
		return "Unknown status. Please contact support."
	}
}

// AccessSummary answers the "my current status" query.
type AccessSummary struct {
	Permissions     Permissions `json:"permissions"`
	CanAccessSystem bool        `json:"canAccessSystem"`
	StatusMessage   string      `json:"statusMessage"`
}

// ComputeAccessSummary combines the permission calculator and the access
// decider over the same inputs.
func ComputeAccessSummary(user *Identity, snap *InstituteSnapshot) AccessSummary {
	return AccessSummary{
		Permissions:     CalculatePermissions(user.Role, snap),
		CanAccessSystem: CanAccessSystem(user, snap),
		StatusMessage:   StatusMessage(user, snap),
	}
}
