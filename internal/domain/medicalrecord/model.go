package medicalrecord

import (
	"time"

	"github.com/hms/hms/pkg/optional"
)

// Record is a row from the medical_records table joined with the
// patient and doctor names.
type Record struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"-" json:"patient_name,omitempty"`
	DoctorID    int64     `db:"doctor_id" json:"doctor_id"`
	DoctorName  string    `db:"-" json:"doctor_name,omitempty"`
	RecordDate  time.Time `db:"record_date" json:"record_date"`
	Diagnosis   string    `db:"diagnosis" json:"diagnosis"`
	Treatment   *string   `db:"treatment" json:"treatment,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateParams struct {
	PatientID  int64   `json:"patient_id"`
	DoctorID   int64   `json:"doctor_id"`
	RecordDate *string `json:"record_date"`
	Diagnosis  string  `json:"diagnosis"`
	Treatment  *string `json:"treatment"`
}

// UpdateParams is a partial update. The patient and doctor references
// can be reassigned to other existing rows but never cleared.
type UpdateParams struct {
	PatientID  optional.Value[int64]  `json:"patient_id"`
	DoctorID   optional.Value[int64]  `json:"doctor_id"`
	RecordDate optional.Value[string] `json:"record_date"`
	Diagnosis  optional.Value[string] `json:"diagnosis"`
	Treatment  optional.Value[string] `json:"treatment"`
}

// Filter narrows List results with equality predicates.
type Filter struct {
	PatientID *int64
	DoctorID  *int64
}
