package dashboard

import "context"

// Stats is the admin dashboard summary. Counts are computed at read time
// rather than maintained incrementally.
type Stats struct {
	TotalPatients       int `json:"totalPatients"`
	TotalInstitutes     int `json:"totalInstitutes"`
	PendingInstitutes   int `json:"pendingInstitutes"`
	ApprovedInstitutes  int `json:"approvedInstitutes"`
	SuspendedInstitutes int `json:"suspendedInstitutes"`
	RejectedInstitutes  int `json:"rejectedInstitutes"`
	TotalUsers          int `json:"totalUsers"`
	ActiveDialysis      int `json:"activeDialysis"`
	FollowUpsThisMonth  int `json:"followUpsThisMonth"`
}

type Repository interface {
	Collect(ctx context.Context) (*Stats, error)
}
