package doctor

import "context"

// Repository persists doctors. Delete cascades to the doctor's
// appointments and authored medical records, and clears references from
// patients and department headships.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Doctor, int, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id int64) error
}
