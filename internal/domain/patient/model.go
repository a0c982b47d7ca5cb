package patient

import (
	"time"

	"github.com/hms/hms/pkg/optional"
)

// Kind discriminates the two patient variants.
type Kind string

const (
	KindInpatient  Kind = "inpatient"
	KindOutpatient Kind = "outpatient"
)

// ValidKind reports whether k names a known patient variant.
func ValidKind(k Kind) bool {
	return k == KindInpatient || k == KindOutpatient
}

// Patient is a row from the patients table joined with its variant row
// (inpatients or outpatients). Only the fields belonging to the variant
// named by Type are populated.
type Patient struct {
	ID                     int64     `db:"id" json:"id"`
	Name                   string    `db:"name" json:"name"`
	DateOfBirth            time.Time `db:"date_of_birth" json:"date_of_birth"`
	ContactInfo            *string   `db:"contact_info" json:"contact_info,omitempty"`
	Type                   Kind      `db:"patient_type" json:"patient_type"`
	AssignedDoctorID       *int64    `db:"assigned_doctor_id" json:"assigned_doctor_id,omitempty"`
	AssignedDoctorName     *string   `db:"-" json:"assigned_doctor_name,omitempty"`
	AssignedDepartmentID   *int64    `db:"assigned_department_id" json:"assigned_department_id,omitempty"`
	AssignedDepartmentName *string   `db:"-" json:"assigned_department_name,omitempty"`

	// Inpatient fields.
	RoomNumber    *string    `db:"room_number" json:"room_number,omitempty"`
	AdmissionDate *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	DischargeDate *time.Time `db:"discharge_date" json:"discharge_date,omitempty"`

	// Outpatient fields.
	LastVisitDate *time.Time `db:"last_visit_date" json:"last_visit_date,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateParams carries the fields accepted when registering a patient.
// Dates arrive as YYYY-MM-DD strings from every frontend.
type CreateParams struct {
	Name                 string  `json:"name"`
	DateOfBirth          string  `json:"date_of_birth"`
	ContactInfo          *string `json:"contact_info"`
	PatientType          Kind    `json:"patient_type"`
	AssignedDoctorID     *int64  `json:"assigned_doctor_id"`
	AssignedDepartmentID *int64  `json:"assigned_department_id"`

	RoomNumber    *string `json:"room_number"`
	AdmissionDate *string `json:"admission_date"`
	DischargeDate *string `json:"discharge_date"`

	LastVisitDate *string `json:"last_visit_date"`
}

// UpdateParams is a partial update. An absent field is skipped, an
// explicit null clears the optional field, a value sets it. The variant
// tag itself is immutable.
type UpdateParams struct {
	Name                 optional.Value[string] `json:"name"`
	DateOfBirth          optional.Value[string] `json:"date_of_birth"`
	ContactInfo          optional.Value[string] `json:"contact_info"`
	AssignedDoctorID     optional.Value[int64]  `json:"assigned_doctor_id"`
	AssignedDepartmentID optional.Value[int64]  `json:"assigned_department_id"`

	RoomNumber    optional.Value[string] `json:"room_number"`
	AdmissionDate optional.Value[string] `json:"admission_date"`
	DischargeDate optional.Value[string] `json:"discharge_date"`

	LastVisitDate optional.Value[string] `json:"last_visit_date"`
}

// Filter narrows List results with equality predicates.
type Filter struct {
	Type         *Kind
	DoctorID     *int64
	DepartmentID *int64
}
