package institute

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renalreg/registry/internal/platform/auth"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const instCols = `id, name, address, city, state, country, contact_number, email, website,
	approval_status, rejection_reason, approved_at, approved_by, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, inst *Institute) error {
	inst.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO institute (
			id, name, address, city, state, country, contact_number, email, website,
			approval_status, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		inst.ID, inst.Name, inst.Address, inst.City, inst.State, inst.Country,
		inst.ContactNumber, inst.Email, inst.Website,
		inst.ApprovalStatus, inst.Status,
	).Scan(&inst.CreatedAt, &inst.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Institute, error) {
	return scanInst(r.pool.QueryRow(ctx, `SELECT `+instCols+` FROM institute WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Institute, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM institute`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+instCols+` FROM institute ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	insts, err := scanInsts(rows)
	return insts, total, err
}

func (r *repoPG) ListByApprovalStatus(ctx context.Context, status auth.ApprovalStatus, limit, offset int) ([]*Institute, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM institute WHERE approval_status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+instCols+` FROM institute WHERE approval_status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	insts, err := scanInsts(rows)
	return insts, total, err
}

func (r *repoPG) Approve(ctx context.Context, id, approvedBy uuid.UUID) (*Institute, error) {
	return scanInst(r.pool.QueryRow(ctx, `
		UPDATE institute SET
			approval_status = $2, rejection_reason = NULL,
			approved_at = NOW(), approved_by = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+instCols,
		id, auth.Approved, approvedBy))
}

func (r *repoPG) Reject(ctx context.Context, id, rejectedBy uuid.UUID, reason string) (*Institute, error) {
	return scanInst(r.pool.QueryRow(ctx, `
		UPDATE institute SET
			approval_status = $2, rejection_reason = $3,
			approved_at = NOW(), approved_by = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+instCols,
		id, auth.Rejected, reason, rejectedBy))
}

func (r *repoPG) Suspend(ctx context.Context, id, suspendedBy uuid.UUID) (*Institute, error) {
	return scanInst(r.pool.QueryRow(ctx, `
		UPDATE institute SET
			approval_status = $2,
			approved_at = NOW(), approved_by = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+instCols,
		id, auth.Suspended, suspendedBy))
}

func (r *repoPG) Reinstate(ctx context.Context, id uuid.UUID) (*Institute, error) {
	return scanInst(r.pool.QueryRow(ctx, `
		UPDATE institute SET approval_status = $2, status = 1, updated_at = NOW()
		WHERE id = $1
		RETURNING `+instCols,
		id, auth.Approved))
}

func (r *repoPG) SetAccountStatus(ctx context.Context, id uuid.UUID, status int) (*Institute, error) {
	return scanInst(r.pool.QueryRow(ctx, `
		UPDATE institute SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+instCols,
		id, status))
}

func scanInst(row pgx.Row) (*Institute, error) {
	var inst Institute
	err := row.Scan(
		&inst.ID, &inst.Name, &inst.Address, &inst.City, &inst.State, &inst.Country,
		&inst.ContactNumber, &inst.Email, &inst.Website,
		&inst.ApprovalStatus, &inst.RejectionReason, &inst.ApprovedAt, &inst.ApprovedBy,
		&inst.Status, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func scanInsts(rows pgx.Rows) ([]*Institute, error) {
	defer rows.Close()
	var insts []*Institute
	for rows.Next() {
		inst, err := scanInst(rows)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	return insts, rows.Err()
}
