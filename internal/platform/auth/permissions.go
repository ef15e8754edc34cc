package auth

// Permissions is the capability set derived per request from a user's role
// and their institute's lifecycle snapshot. It is never persisted.
type Permissions struct {
	CanManageUsers       bool `json:"canManageUsers"`
	CanManageInstitute   bool `json:"canManageInstitute"`
	CanViewAllInstitutes bool `json:"canViewAllInstitutes"`
	CanApproveInstitutes bool `json:"canApproveInstitutes"`
	CanEnterData         bool `json:"canEnterData"`
	CanViewReports       bool `json:"canViewReports"`
	CanExportData        bool `json:"canExportData"`
	CanManageSystem      bool `json:"canManageSystem"`
}

// CalculatePermissions maps (role, institute snapshot) to a capability set.
// Total over all inputs, including a nil snapshot (user without an
// institute); unrecognized roles get the all-false set.
//
// ADMIN is institute-independent. INSTITUTE_ADMIN and DATA_ENTRY are gated
// strictly on an approved institute: pending and suspended both yield false.
func CalculatePermissions(role Role, snap *InstituteSnapshot) Permissions {
	switch role {
	case RoleSuperAdmin:
		return Permissions{
			CanManageUsers:       true,
			CanManageInstitute:   true,
			CanViewAllInstitutes: true,
			CanApproveInstitutes: true,
			CanEnterData:         true,
			CanViewReports:       true,
			CanExportData:        true,
			CanManageSystem:      true,
		}

	case RoleAdmin:
		return Permissions{
			CanManageUsers:       true,
			CanViewAllInstitutes: true,
			CanEnterData:         true,
			CanViewReports:       true,
			CanExportData:        true,
		}

	case RoleInstituteAdmin:
		approved := snap != nil && snap.IsApproved
		return Permissions{
			CanManageUsers:     approved,
			CanManageInstitute: approved,
			CanEnterData:       approved,
			CanViewReports:     approved,
			CanExportData:      approved,
		}

	case RoleDataEntry:
		approved := snap != nil && snap.IsApproved
		return Permissions{
			CanEnterData:   approved,
			CanViewReports: approved,
		}

	default:
		return Permissions{}
	}
}
