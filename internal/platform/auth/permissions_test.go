package auth

import "testing"

func snapshotFor(status ApprovalStatus) *InstituteSnapshot {
	return NewInstituteSnapshot(status, nil, nil, nil)
}

func allTrue() Permissions {
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
}

func adminSet() Permissions {
	return Permissions{
		CanManageUsers:       true,
		CanViewAllInstitutes: true,
		CanEnterData:         true,
		CanViewReports:       true,
		CanExportData:        true,
	}
}

func TestCalculatePermissions_Table(t *testing.T) {
	statuses := []ApprovalStatus{PendingApproval, Approved, Rejected, Suspended}

	instituteAdminApproved := Permissions{
		CanManageUsers:     true,
		CanManageInstitute: true,
		CanEnterData:       true,
		CanViewReports:     true,
		CanExportData:      true,
	}
	dataEntryApproved := Permissions{
		CanEnterData:   true,
		CanViewReports: true,
	}

	// Every role against every lifecycle state.
	for _, status := range statuses {
		snap := snapshotFor(status)

		if got := CalculatePermissions(RoleSuperAdmin, snap); got != allTrue() {
			t.Errorf("SUPER_ADMIN/%s = %+v", status, got)
		}
		// ADMIN is institute-status-independent.
		if got := CalculatePermissions(RoleAdmin, snap); got != adminSet() {
			t.Errorf("ADMIN/%s = %+v", status, got)
		}

		want := Permissions{}
		if status == Approved {
			want = instituteAdminApproved
		}
		if got := CalculatePermissions(RoleInstituteAdmin, snap); got != want {
			t.Errorf("INSTITUTE_ADMIN/%s = %+v, want %+v", status, got, want)
		}

		want = Permissions{}
		if status == Approved {
			want = dataEntryApproved
		}
		if got := CalculatePermissions(RoleDataEntry, snap); got != want {
			t.Errorf("DATA_ENTRY/%s = %+v, want %+v", status, got, want)
		}
	}
}

func TestCalculatePermissions_NilSnapshot(t *testing.T) {
	if got := CalculatePermissions(RoleSuperAdmin, nil); got != allTrue() {
		t.Errorf("SUPER_ADMIN/nil = %+v", got)
	}
	if got := CalculatePermissions(RoleAdmin, nil); got != adminSet() {
		t.Errorf("ADMIN/nil = %+v", got)
	}
	if got := CalculatePermissions(RoleInstituteAdmin, nil); got != (Permissions{}) {
		t.Errorf("INSTITUTE_ADMIN/nil = %+v, want all false", got)
	}
	if got := CalculatePermissions(RoleDataEntry, nil); got != (Permissions{}) {
		t.Errorf("DATA_ENTRY/nil = %+v, want all false", got)
	}
}

func TestCalculatePermissions_UnknownRoleFailsClosed(t *testing.T) {
	if got := CalculatePermissions(Role("AUDITOR"), snapshotFor(Approved)); got != (Permissions{}) {
		t.Errorf("unknown role = %+v, want all false", got)
	}
}

func TestNewInstituteSnapshot_BooleansExclusive(t *testing.T) {
	for _, status := range []ApprovalStatus{PendingApproval, Approved, Rejected, Suspended} {
		snap := snapshotFor(status)
		set := 0
		for _, b := range []bool{snap.IsApproved, snap.IsRejected, snap.IsPending, snap.IsSuspended} {
			if b {
				set++
			}
		}
		if set != 1 {
			t.Errorf("%s: %d booleans set, want exactly 1", status, set)
		}
	}
}
