package medicalrecord

import "context"

// Repository persists medical records. Create verifies that the
// referenced patient and doctor exist.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id int64) (*Record, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Record, int, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id int64) error
}
