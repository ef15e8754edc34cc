package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. Every patient belongs to exactly one
// institute; all reads and writes are scoped through it.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	InstituteID      uuid.UUID  `db:"institute_id" json:"instituteId"`
	HospitalNumber   string     `db:"hospital_number" json:"hospitalNumber"`
	Name             string     `db:"name" json:"name"`
	DateOfBirth      time.Time  `db:"date_of_birth" json:"dateOfBirth"`
	Sex              string     `db:"sex" json:"sex"`
	PrimaryDiagnosis string     `db:"primary_diagnosis" json:"primaryDiagnosis"`
	DiagnosisDate    *time.Time `db:"diagnosis_date" json:"diagnosisDate,omitempty"`
	CKDStage         *int       `db:"ckd_stage" json:"ckdStage,omitempty"`
	ConsentObtained  bool       `db:"consent_obtained" json:"consentObtained"`
	CreatedBy        uuid.UUID  `db:"created_by" json:"createdBy"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

// FollowUp maps to the follow_up table: one clinic visit's measurements.
type FollowUp struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patientId"`
	VisitDate      time.Time  `db:"visit_date" json:"visitDate"`
	HeightCM       *float64   `db:"height_cm" json:"heightCm,omitempty"`
	WeightKG       *float64   `db:"weight_kg" json:"weightKg,omitempty"`
	CreatinineMgDL *float64   `db:"creatinine_mg_dl" json:"creatinineMgDl,omitempty"`
	SystolicBP     *int       `db:"systolic_bp" json:"systolicBp,omitempty"`
	DiastolicBP    *int       `db:"diastolic_bp" json:"diastolicBp,omitempty"`
	EGFR           *float64   `db:"egfr" json:"egfr,omitempty"`
	CKDStage       *int       `db:"ckd_stage" json:"ckdStage,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedBy      uuid.UUID  `db:"created_by" json:"createdBy"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
	NextVisitDue   *time.Time `db:"next_visit_due" json:"nextVisitDue,omitempty"`
}

// DialysisRecord maps to the dialysis_record table.
type DialysisRecord struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patientId"`
	Modality        string     `db:"modality" json:"modality"`
	AccessType      *string    `db:"access_type" json:"accessType,omitempty"`
	StartDate       time.Time  `db:"start_date" json:"startDate"`
	EndDate         *time.Time `db:"end_date" json:"endDate,omitempty"`
	SessionsPerWeek *int       `db:"sessions_per_week" json:"sessionsPerWeek,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedBy       uuid.UUID  `db:"created_by" json:"createdBy"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

// Valid dialysis modalities.
var validModalities = map[string]bool{
	"HD":  true, // haemodialysis
	"PD":  true, // peritoneal dialysis
	"CRRT": true,
}
