package medicalrecord

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

// Create writes a medical record. The record date defaults to today.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	if params.PatientID <= 0 {
		return nil, apperror.Validation("patient_id", "required")
	}
	if params.DoctorID <= 0 {
		return nil, apperror.Validation("doctor_id", "required")
	}
	if params.Diagnosis == "" {
		return nil, apperror.Validation("diagnosis", "required")
	}

	when := dates.Today()
	if params.RecordDate != nil {
		var err error
		when, err = dates.Parse("record_date", *params.RecordDate)
		if err != nil {
			return nil, err
		}
	}

	rec := &Record{
		PatientID:  params.PatientID,
		DoctorID:   params.DoctorID,
		RecordDate: when,
		Diagnosis:  params.Diagnosis,
		Treatment:  params.Treatment,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, rec.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Record, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Update applies a partial update. The patient and doctor references
// can be reassigned, and the store re-checks that the new rows exist.
// The diagnosis can be changed but not cleared; treatment can be
// cleared with an explicit null.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.PatientID.Present() {
		v, ok := params.PatientID.Get()
		if !ok || v <= 0 {
			return nil, apperror.Validation("patient_id", "cannot be cleared")
		}
		rec.PatientID = v
	}
	if params.DoctorID.Present() {
		v, ok := params.DoctorID.Get()
		if !ok || v <= 0 {
			return nil, apperror.Validation("doctor_id", "cannot be cleared")
		}
		rec.DoctorID = v
	}
	if params.RecordDate.Present() {
		raw, ok := params.RecordDate.Get()
		if !ok {
			return nil, apperror.Validation("record_date", "cannot be cleared")
		}
		when, err := dates.Parse("record_date", raw)
		if err != nil {
			return nil, err
		}
		rec.RecordDate = when
	}
	if params.Diagnosis.Present() {
		diag, ok := params.Diagnosis.Get()
		if !ok || diag == "" {
			return nil, apperror.Validation("diagnosis", "cannot be cleared")
		}
		rec.Diagnosis = diag
	}
	if params.Treatment.Present() {
		if params.Treatment.IsNull() {
			rec.Treatment = nil
		} else {
			v, _ := params.Treatment.Get()
			rec.Treatment = &v
		}
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
