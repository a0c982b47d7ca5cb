package department

import (
	"time"

	"github.com/hms/hms/pkg/optional"
)

// Department is a row from the departments table joined with the name
// of its head doctor.
type Department struct {
	ID             int64   `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	Specialty      *string `db:"specialty" json:"specialty,omitempty"`
	HeadDoctorID   *int64  `db:"head_doctor_id" json:"head_doctor_id,omitempty"`
	HeadDoctorName *string `db:"-" json:"head_doctor_name,omitempty"`
	StaffCount     int     `db:"-" json:"staff_count"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StaffDoctor is the summary row returned for a department's roster.
type StaffDoctor struct {
	ID             int64   `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	Specialization *string `db:"specialization" json:"specialization,omitempty"`
	ContactInfo    *string `db:"contact_info" json:"contact_info,omitempty"`
}

type CreateParams struct {
	Name         string  `json:"name"`
	Specialty    *string `json:"specialty"`
	HeadDoctorID *int64  `json:"head_doctor_id"`
}

// UpdateParams is a partial update. Absent fields are skipped, explicit
// nulls clear the optional fields.
type UpdateParams struct {
	Name         optional.Value[string] `json:"name"`
	Specialty    optional.Value[string] `json:"specialty"`
	HeadDoctorID optional.Value[int64]  `json:"head_doctor_id"`
}
