package doctor

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

func (s *Service) Create(ctx context.Context, params CreateParams) (*Doctor, error) {
	if params.Name == "" {
		return nil, apperror.Validation("name", "required")
	}

	d := &Doctor{
		Name:           params.Name,
		Specialization: params.Specialization,
		ContactInfo:    params.ContactInfo,
		DepartmentID:   params.DepartmentID,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, d.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Update applies a partial update. Name can be changed but not cleared;
// specialization, contact info and department membership can be cleared
// with an explicit null.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Doctor, error) {
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
	if params.Specialization.Present() {
		if params.Specialization.IsNull() {
			d.Specialization = nil
		} else {
			v, _ := params.Specialization.Get()
			d.Specialization = &v
		}
	}
	if params.ContactInfo.Present() {
		if params.ContactInfo.IsNull() {
			d.ContactInfo = nil
		} else {
			v, _ := params.ContactInfo.Get()
			d.ContactInfo = &v
		}
	}
	if params.DepartmentID.Present() {
		if params.DepartmentID.IsNull() {
			d.DepartmentID = nil
		} else {
			v, _ := params.DepartmentID.Get()
			d.DepartmentID = &v
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
