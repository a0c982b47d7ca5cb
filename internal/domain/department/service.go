package department

import (
	"context"

	"github.com/hms/hms/internal/platform/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Department, error) {
	if params.Name == "" {
		return nil, apperror.Validation("name", "required")
	}
	d := &Department{
		Name:         params.Name,
		Specialty:    params.Specialty,
		HeadDoctorID: params.HeadDoctorID,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, d.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Department, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update applies a partial update. The name can be changed but not
// cleared; specialty and head doctor can be cleared with explicit nulls.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name.Present() {
		name, ok := params.Name.Get()
		if !ok || name == "" {
			return nil, apperror.Validation("name", "cannot be cleared")
		}
		d.Name = name
	}
	if params.Specialty.Present() {
		if params.Specialty.IsNull() {
			d.Specialty = nil
		} else {
			v, _ := params.Specialty.Get()
			d.Specialty = &v
		}
	}
	if params.HeadDoctorID.Present() {
		if params.HeadDoctorID.IsNull() {
			d.HeadDoctorID = nil
		} else {
			v, _ := params.HeadDoctorID.Get()
			d.HeadDoctorID = &v
		}
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AssignHead makes the doctor the department's head, replacing any
// current head.
func (s *Service) AssignHead(ctx context.Context, id, doctorID int64) (*Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.HeadDoctorID = &doctorID
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// UnassignHead clears the department's head. Clearing a department that
// has no head succeeds without effect.
func (s *Service) UnassignHead(ctx context.Context, id int64) (*Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.HeadDoctorID == nil {
		return d, nil
	}
	d.HeadDoctorID = nil
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Staff lists the doctors belonging to the department.
func (s *Service) Staff(ctx context.Context, id int64) ([]*StaffDoctor, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.StaffDoctors(ctx, id)
}

// SpecialtyDoctors lists the department's doctors whose specialization
// matches the department specialty exactly.
func (s *Service) SpecialtyDoctors(ctx context.Context, id int64) ([]*StaffDoctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Specialty == nil || *d.Specialty == "" {
		return nil, apperror.Validation("specialty", "department has no specialty")
	}
	return s.repo.SpecialtyDoctors(ctx, id, *d.Specialty)
}
