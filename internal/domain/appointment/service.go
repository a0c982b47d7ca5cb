package appointment

import (
	"context"

	"github.com/hms/hms/internal/platform/apperror"
	"github.com/hms/hms/internal/platform/dates"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create books an appointment. The status defaults to scheduled.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Appointment, error) {
	if params.PatientID <= 0 {
		return nil, apperror.Validation("patient_id", "required")
	}
	if params.DoctorID <= 0 {
		return nil, apperror.Validation("doctor_id", "required")
	}
	if params.DateTime == "" {
		return nil, apperror.Validation("appointment_datetime", "required")
	}
	when, err := dates.ParseDateTime("appointment_datetime", params.DateTime)
	if err != nil {
		return nil, err
	}
	status := params.Status
	if status == "" {
		status = StatusScheduled
	}
	if !ValidStatus(status) {
		return nil, apperror.Validation("status", "must be %q, %q or %q",
			StatusScheduled, StatusCompleted, StatusCancelled)
	}

	a := &Appointment{
		PatientID: params.PatientID,
		DoctorID:  params.DoctorID,
		DateTime:  when,
		Status:    status,
		Notes:     params.Notes,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, a.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Update applies a partial update. The patient and doctor references
// can be reassigned, and the store re-checks that the new rows exist;
// notes can be cleared with an explicit null.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.PatientID.Present() {
		v, ok := params.PatientID.Get()
		if !ok || v <= 0 {
			return nil, apperror.Validation("patient_id", "cannot be cleared")
		}
		a.PatientID = v
	}
	if params.DoctorID.Present() {
		v, ok := params.DoctorID.Get()
		if !ok || v <= 0 {
			return nil, apperror.Validation("doctor_id", "cannot be cleared")
		}
		a.DoctorID = v
	}
	if params.DateTime.Present() {
		raw, ok := params.DateTime.Get()
		if !ok {
			return nil, apperror.Validation("appointment_datetime", "cannot be cleared")
		}
		when, err := dates.ParseDateTime("appointment_datetime", raw)
		if err != nil {
			return nil, err
		}
		a.DateTime = when
	}
	if params.Status.Present() {
		status, ok := params.Status.Get()
		if !ok || !ValidStatus(status) {
			return nil, apperror.Validation("status", "must be %q, %q or %q",
				StatusScheduled, StatusCompleted, StatusCancelled)
		}
		a.Status = status
	}
	if params.Notes.Present() {
		if params.Notes.IsNull() {
			a.Notes = nil
		} else {
			v, _ := params.Notes.Get()
			a.Notes = &v
		}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus moves the appointment to the given status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, apperror.Validation("status", "must be %q, %q or %q",
			StatusScheduled, StatusCompleted, StatusCancelled)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
