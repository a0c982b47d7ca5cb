package patient

import "context"

// Repository persists patients and enforces their referential rules.
// Delete cascades to the patient's appointments and medical records.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
}
