package department

import "context"

// Repository persists departments. Department names are unique. Delete
// clears department membership from doctors and patient assignments
// rather than removing them.
type Repository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id int64) (*Department, error)
	List(ctx context.Context, limit, offset int) ([]*Department, int, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id int64) error
	StaffDoctors(ctx context.Context, id int64) ([]*StaffDoctor, error)
	SpecialtyDoctors(ctx context.Context, id int64, specialty string) ([]*StaffDoctor, error)
}
