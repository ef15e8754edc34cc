package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientCols = `id, institute_id, hospital_number, name, date_of_birth, sex,
	primary_diagnosis, diagnosis_date, ckd_stage, consent_obtained,
	created_by, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO patient (
			id, institute_id, hospital_number, name, date_of_birth, sex,
			primary_diagnosis, diagnosis_date, ckd_stage, consent_obtained, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		p.ID, p.InstituteID, p.HospitalNumber, p.Name, p.DateOfBirth, p.Sex,
		p.PrimaryDiagnosis, p.DiagnosisDate, p.CKDStage, p.ConsentObtained, p.CreatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patient SET
			hospital_number=$2, name=$3, date_of_birth=$4, sex=$5,
			primary_diagnosis=$6, diagnosis_date=$7, ckd_stage=$8,
			consent_obtained=$9, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.HospitalNumber, p.Name, p.DateOfBirth, p.Sex,
		p.PrimaryDiagnosis, p.DiagnosisDate, p.CKDStage, p.ConsentObtained,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	patients, err := scanPatients(rows)
	return patients, total, err
}

func (r *repoPG) ListByInstitute(ctx context.Context, instituteID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient WHERE institute_id = $1`, instituteID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+patientCols+` FROM patient WHERE institute_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		instituteID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	patients, err := scanPatients(rows)
	return patients, total, err
}

const followUpCols = `id, patient_id, visit_date, height_cm, weight_kg, creatinine_mg_dl,
	systolic_bp, diastolic_bp, egfr, ckd_stage, notes, next_visit_due,
	created_by, created_at, updated_at`

func (r *repoPG) CreateFollowUp(ctx context.Context, f *FollowUp) error {
	f.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO follow_up (
			id, patient_id, visit_date, height_cm, weight_kg, creatinine_mg_dl,
			systolic_bp, diastolic_bp, egfr, ckd_stage, notes, next_visit_due, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		f.ID, f.PatientID, f.VisitDate, f.HeightCM, f.WeightKG, f.CreatinineMgDL,
		f.SystolicBP, f.DiastolicBP, f.EGFR, f.CKDStage, f.Notes, f.NextVisitDue, f.CreatedBy,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
}

func (r *repoPG) GetFollowUp(ctx context.Context, id uuid.UUID) (*FollowUp, error) {
	f, err := scanFollowUp(r.pool.QueryRow(ctx, `SELECT `+followUpCols+` FROM follow_up WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFollowUpNotFound
	}
	return f, err
}

func (r *repoPG) UpdateFollowUp(ctx context.Context, f *FollowUp) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE follow_up SET
			visit_date=$2, height_cm=$3, weight_kg=$4, creatinine_mg_dl=$5,
			systolic_bp=$6, diastolic_bp=$7, egfr=$8, ckd_stage=$9,
			notes=$10, next_visit_due=$11, updated_at=NOW()
		WHERE id = $1`,
		f.ID, f.VisitDate, f.HeightCM, f.WeightKG, f.CreatinineMgDL,
		f.SystolicBP, f.DiastolicBP, f.EGFR, f.CKDStage, f.Notes, f.NextVisitDue,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFollowUpNotFound
	}
	return nil
}

func (r *repoPG) DeleteFollowUp(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM follow_up WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFollowUpNotFound
	}
	return nil
}

func (r *repoPG) ListFollowUps(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*FollowUp, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follow_up WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+followUpCols+` FROM follow_up WHERE patient_id = $1 ORDER BY visit_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var fups []*FollowUp
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, 0, err
		}
		fups = append(fups, f)
	}
	return fups, total, rows.Err()
}

const dialysisCols = `id, patient_id, modality, access_type, start_date, end_date,
	sessions_per_week, notes, created_by, created_at`

func (r *repoPG) CreateDialysis(ctx context.Context, d *DialysisRecord) error {
	d.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO dialysis_record (
			id, patient_id, modality, access_type, start_date, end_date,
			sessions_per_week, notes, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		d.ID, d.PatientID, d.Modality, d.AccessType, d.StartDate, d.EndDate,
		d.SessionsPerWeek, d.Notes, d.CreatedBy,
	).Scan(&d.CreatedAt)
}

func (r *repoPG) ListDialysis(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DialysisRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM dialysis_record WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+dialysisCols+` FROM dialysis_record WHERE patient_id = $1 ORDER BY start_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []*DialysisRecord
	for rows.Next() {
		var d DialysisRecord
		if err := rows.Scan(&d.ID, &d.PatientID, &d.Modality, &d.AccessType, &d.StartDate,
			&d.EndDate, &d.SessionsPerWeek, &d.Notes, &d.CreatedBy, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		recs = append(recs, &d)
	}
	return recs, total, rows.Err()
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.InstituteID, &p.HospitalNumber, &p.Name, &p.DateOfBirth, &p.Sex,
		&p.PrimaryDiagnosis, &p.DiagnosisDate, &p.CKDStage, &p.ConsentObtained,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPatients(rows pgx.Rows) ([]*Patient, error) {
	defer rows.Close()
	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func scanFollowUp(row pgx.Row) (*FollowUp, error) {
	var f FollowUp
	err := row.Scan(&f.ID, &f.PatientID, &f.VisitDate, &f.HeightCM, &f.WeightKG, &f.CreatinineMgDL,
		&f.SystolicBP, &f.DiastolicBP, &f.EGFR, &f.CKDStage, &f.Notes, &f.NextVisitDue,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
