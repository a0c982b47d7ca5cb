package patient

import (
	"context"
	"time"

	"github.com/hms/hms/internal/platform/apperror"
	"github.com/hms/hms/internal/platform/dates"
	"github.com/hms/hms/pkg/optional"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the params, fills variant defaults (admission and
// last-visit dates default to today), and persists the patient.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Patient, error) {
	if params.Name == "" {
		return nil, apperror.Validation("name", "required")
	}
	if params.DateOfBirth == "" {
		return nil, apperror.Validation("date_of_birth", "required")
	}
	if !ValidKind(params.PatientType) {
		return nil, apperror.Validation("patient_type", "must be %q or %q", KindInpatient, KindOutpatient)
	}

	dob, err := dates.Parse("date_of_birth", params.DateOfBirth)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		Name:                 params.Name,
		DateOfBirth:          dob,
		ContactInfo:          params.ContactInfo,
		Type:                 params.PatientType,
		AssignedDoctorID:     params.AssignedDoctorID,
		AssignedDepartmentID: params.AssignedDepartmentID,
	}

	switch params.PatientType {
	case KindInpatient:
		if params.RoomNumber == nil || *params.RoomNumber == "" {
			return nil, apperror.Validation("room_number", "required for inpatients")
		}
		if params.LastVisitDate != nil {
			return nil, apperror.Validation("last_visit_date", "not valid for inpatients")
		}
		p.RoomNumber = params.RoomNumber
		admission := dates.Today()
		if params.AdmissionDate != nil {
			admission, err = dates.Parse("admission_date", *params.AdmissionDate)
			if err != nil {
				return nil, err
			}
		}
		p.AdmissionDate = &admission
		if params.DischargeDate != nil {
			discharge, err := dates.Parse("discharge_date", *params.DischargeDate)
			if err != nil {
				return nil, err
			}
			p.DischargeDate = &discharge
		}
	case KindOutpatient:
		if params.RoomNumber != nil || params.AdmissionDate != nil || params.DischargeDate != nil {
			return nil, apperror.Validation("patient_type", "inpatient fields not valid for outpatients")
		}
		lastVisit := dates.Today()
		if params.LastVisitDate != nil {
			lastVisit, err = dates.Parse("last_visit_date", *params.LastVisitDate)
			if err != nil {
				return nil, err
			}
		}
		p.LastVisitDate = &lastVisit
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Update applies a partial update. Absent fields are left untouched;
// explicit nulls clear optional fields. The variant tag is immutable,
// and variant fields may only be touched on a patient of that variant.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name.Present() {
		name, ok := params.Name.Get()
		if !ok || name == "" {
			return nil, apperror.Validation("name", "cannot be cleared")
		}
		p.Name = name
	}
	if params.DateOfBirth.Present() {
		raw, ok := params.DateOfBirth.Get()
		if !ok {
			return nil, apperror.Validation("date_of_birth", "cannot be cleared")
		}
		dob, err := dates.Parse("date_of_birth", raw)
		if err != nil {
			return nil, err
		}
		p.DateOfBirth = dob
	}
	applyOptString(params.ContactInfo, &p.ContactInfo)
	applyOptInt64(params.AssignedDoctorID, &p.AssignedDoctorID)
	applyOptInt64(params.AssignedDepartmentID, &p.AssignedDepartmentID)

	switch p.Type {
	case KindInpatient:
		if params.LastVisitDate.Present() {
			return nil, apperror.Validation("last_visit_date", "not valid for inpatients")
		}
		if params.RoomNumber.Present() {
			room, ok := params.RoomNumber.Get()
			if !ok || room == "" {
				return nil, apperror.Validation("room_number", "cannot be cleared while admitted")
			}
			p.RoomNumber = &room
		}
		if params.AdmissionDate.Present() {
			raw, ok := params.AdmissionDate.Get()
			if !ok {
				return nil, apperror.Validation("admission_date", "cannot be cleared")
			}
			admission, err := dates.Parse("admission_date", raw)
			if err != nil {
				return nil, err
			}
			p.AdmissionDate = &admission
		}
		if params.DischargeDate.Present() {
			if params.DischargeDate.IsNull() {
				p.DischargeDate = nil
			} else {
				raw, _ := params.DischargeDate.Get()
				discharge, err := dates.Parse("discharge_date", raw)
				if err != nil {
					return nil, err
				}
				p.DischargeDate = &discharge
			}
		}
	case KindOutpatient:
		if params.RoomNumber.Present() || params.AdmissionDate.Present() || params.DischargeDate.Present() {
			return nil, apperror.Validation("patient_type", "inpatient fields not valid for outpatients")
		}
		if params.LastVisitDate.Present() {
			raw, ok := params.LastVisitDate.Get()
			if !ok {
				return nil, apperror.Validation("last_visit_date", "cannot be cleared")
			}
			lastVisit, err := dates.Parse("last_visit_date", raw)
			if err != nil {
				return nil, err
			}
			p.LastVisitDate = &lastVisit
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Discharge sets the discharge date on an admitted inpatient,
// defaulting to today.
func (s *Service) Discharge(ctx context.Context, id int64, when *time.Time) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Type != KindInpatient {
		return nil, apperror.Validation("patient_type", "only inpatients can be discharged")
	}
	if p.DischargeDate != nil {
		return nil, apperror.Conflict("patient %d is already discharged", id)
	}
	d := dates.Today()
	if when != nil {
		d = *when
	}
	p.DischargeDate = &d
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func applyOptString(v optional.Value[string], dst **string) {
	if !v.Present() {
		return
	}
	if v.IsNull() {
		*dst = nil
		return
	}
	s, _ := v.Get()
	*dst = &s
}

func applyOptInt64(v optional.Value[int64], dst **int64) {
	if !v.Present() {
		return
	}
	if v.IsNull() {
		*dst = nil
		return
	}
	n, _ := v.Get()
	*dst = &n
}
