package doctor

import (
	"time"

	"github.com/hms/hms/pkg/optional"
)

// Doctor is a row from the doctors table joined with its department name.
type Doctor struct {
	ID             int64   `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	Specialization *string `db:"specialization" json:"specialization,omitempty"`
	ContactInfo    *string `db:"contact_info" json:"contact_info,omitempty"`
	DepartmentID   *int64  `db:"department_id" json:"department_id,omitempty"`
	DepartmentName *string `db:"-" json:"department_name,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateParams struct {
	Name           string  `json:"name"`
	Specialization *string `json:"specialization"`
	ContactInfo    *string `json:"contact_info"`
	DepartmentID   *int64  `json:"department_id"`
}

// UpdateParams is a partial update. Absent fields are skipped, explicit
// nulls clear the optional fields.
type UpdateParams struct {
	Name           optional.Value[string] `json:"name"`
	Specialization optional.Value[string] `json:"specialization"`
	ContactInfo    optional.Value[string] `json:"contact_info"`
	DepartmentID   optional.Value[int64]  `json:"department_id"`
}

// Filter narrows List results with equality predicates.
type Filter struct {
	DepartmentID   *int64
	Specialization *string
}
