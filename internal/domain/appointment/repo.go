package appointment

import "context"

// Repository persists appointments. Create and Update verify that the
// referenced patient and doctor exist.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id int64) error
}
