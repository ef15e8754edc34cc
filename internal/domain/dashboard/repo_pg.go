package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &pgRepo{pool: pool}
}

// Collect gathers all counts in one round trip.
func (r *pgRepo) Collect(ctx context.Context) (*Stats, error) {
	query := `SELECT
    (SELECT COUNT(*) FROM patient),
    (SELECT COUNT(*) FROM institute),
    (SELECT COUNT(*) FROM institute WHERE approval_status = 'PENDING_APPROVAL'),
    (SELECT COUNT(*) FROM institute WHERE approval_status = 'APPROVED'),
    (SELECT COUNT(*) FROM institute WHERE approval_status = 'SUSPENDED'),
    (SELECT COUNT(*) FROM institute WHERE approval_status = 'REJECTED'),
    (SELECT COUNT(*) FROM app_user),
    (SELECT COUNT(*) FROM dialysis_record WHERE end_date IS NULL),
    (SELECT COUNT(*) FROM follow_up WHERE visit_date >= date_trunc('month', NOW()))`

	s := &Stats{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.TotalPatients,
		&s.TotalInstitutes,
		&s.PendingInstitutes,
		&s.ApprovedInstitutes,
		&s.SuspendedInstitutes,
		&s.RejectedInstitutes,
		&s.TotalUsers,
		&s.ActiveDialysis,
		&s.FollowUpsThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("collect dashboard stats: %w", err)
	}
	return s, nil
}
