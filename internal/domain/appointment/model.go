package appointment

import (
	"time"

	"github.com/hms/hms/pkg/optional"
)

// Status tracks an appointment through its lifecycle.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s names a known appointment status.
func ValidStatus(s Status) bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

// Appointment is a row from the appointments table joined with the
// patient and doctor names.
type Appointment struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"-" json:"patient_name,omitempty"`
	DoctorID    int64     `db:"doctor_id" json:"doctor_id"`
	DoctorName  string    `db:"-" json:"doctor_name,omitempty"`
	DateTime    time.Time `db:"appointment_datetime" json:"appointment_datetime"`
	Status      Status    `db:"status" json:"status"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateParams struct {
	PatientID int64   `json:"patient_id"`
	DoctorID  int64   `json:"doctor_id"`
	DateTime  string  `json:"appointment_datetime"`
	Status    Status  `json:"status"`
	Notes     *string `json:"notes"`
}

// UpdateParams is a partial update. The patient and doctor references
// can be reassigned to other existing rows but never cleared.
type UpdateParams struct {
	PatientID optional.Value[int64]  `json:"patient_id"`
	DoctorID  optional.Value[int64]  `json:"doctor_id"`
	DateTime  optional.Value[string] `json:"appointment_datetime"`
	Status    optional.Value[Status] `json:"status"`
	Notes     optional.Value[string] `json:"notes"`
}

// Filter narrows List results with equality predicates.
type Filter struct {
	PatientID *int64
	DoctorID  *int64
	Status    *Status
}
