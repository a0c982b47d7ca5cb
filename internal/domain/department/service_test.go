package department

import (
	"context"
	"testing"
	"time"

	"github.com/hms/hms/internal/platform/apperror"
	"github.com/hms/hms/pkg/optional"
)

type staffEntry struct {
	id             int64
	name           string
	specialization string
	departmentID   *int64
}

type mockRepo struct {
	departments map[int64]*Department
	staff       []staffEntry
	nextID      int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{departments: make(map[int64]*Department)}
}

func (m *mockRepo) doctorExists(id int64) bool {
	for _, s := range m.staff {
		if s.id == id {
			return true
		}
	}
	return false
}

func (m *mockRepo) checkHead(d *Department) error {
	if d.HeadDoctorID != nil && !m.doctorExists(*d.HeadDoctorID) {
		return apperror.ReferenceNotFound("Doctor", *d.HeadDoctorID)
	}
	return nil
}

func (m *mockRepo) nameTaken(name string, selfID int64) bool {
	for _, d := range m.departments {
		if d.Name == name && d.ID != selfID {
			return true
		}
	}
	return false
}

func (m *mockRepo) Create(_ context.Context, d *Department) error {
	if err := m.checkHead(d); err != nil {
		return err
	}
	if m.nameTaken(d.Name, 0) {
		return apperror.Conflict("department %q already exists", d.Name)
	}
	m.nextID++
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.departments[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, apperror.NotFound("Department", id)
	}
	cp := *d
	cp.StaffCount = 0
	for _, s := range m.staff {
		if s.departmentID != nil && *s.departmentID == id {
			cp.StaffCount++
		}
	}
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Department, int, error) {
	var result []*Department
	for id := int64(1); id <= m.nextID; id++ {
		if d, ok := m.departments[id]; ok {
			cp := *d
			result = append(result, &cp)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) Update(_ context.Context, d *Department) error {
	if _, ok := m.departments[d.ID]; !ok {
		return apperror.NotFound("Department", d.ID)
	}
	if err := m.checkHead(d); err != nil {
		return err
	}
	if m.nameTaken(d.Name, d.ID) {
		return apperror.Conflict("department %q already exists", d.Name)
	}
	cp := *d
	m.departments[d.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.departments[id]; !ok {
		return apperror.NotFound("Department", id)
	}
	delete(m.departments, id)
	for i := range m.staff {
		if m.staff[i].departmentID != nil && *m.staff[i].departmentID == id {
			m.staff[i].departmentID = nil
		}
	}
	return nil
}

func (m *mockRepo) StaffDoctors(_ context.Context, id int64) ([]*StaffDoctor, error) {
	var result []*StaffDoctor
	for _, s := range m.staff {
		if s.departmentID != nil && *s.departmentID == id {
			spec := s.specialization
			result = append(result, &StaffDoctor{ID: s.id, Name: s.name, Specialization: &spec})
		}
	}
	return result, nil
}

func (m *mockRepo) SpecialtyDoctors(_ context.Context, id int64, specialty string) ([]*StaffDoctor, error) {
	var result []*StaffDoctor
	for _, s := range m.staff {
		if s.departmentID != nil && *s.departmentID == id && s.specialization == specialty {
			spec := s.specialization
			result = append(result, &StaffDoctor{ID: s.id, Name: s.name, Specialization: &spec})
		}
	}
	return result, nil
}

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

func TestCreate(t *testing.T) {
	svc := NewService(newMockRepo())

	d, err := svc.Create(context.Background(), CreateParams{
		Name: "Cardiology", Specialty: strPtr("Cardiology"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == 0 || d.Name != "Cardiology" {
		t.Errorf("unexpected department: %+v", d)
	}

	if _, err := svc.Create(context.Background(), CreateParams{}); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for missing name, got %v", err)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.Create(context.Background(), CreateParams{Name: "Cardiology"})

	_, err := svc.Create(context.Background(), CreateParams{Name: "Cardiology"})
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict for duplicate name, got %v", err)
	}
}

func TestAssignHead(t *testing.T) {
	repo := newMockRepo()
	repo.staff = []staffEntry{{id: 7, name: "Dr. X", specialization: "Cardiology"}}
	svc := NewService(repo)

	d, _ := svc.Create(context.Background(), CreateParams{Name: "Cardiology"})

	updated, err := svc.AssignHead(context.Background(), d.ID, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.HeadDoctorID == nil || *updated.HeadDoctorID != 7 {
		t.Errorf("expected head doctor 7, got %+v", updated.HeadDoctorID)
	}

	if _, err := svc.AssignHead(context.Background(), d.ID, 999); !apperror.IsReferenceNotFound(err) {
		t.Errorf("expected reference-not-found for unknown doctor, got %v", err)
	}
	if _, err := svc.AssignHead(context.Background(), 999, 7); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found for unknown department, got %v", err)
	}
}

func TestUnassignHead(t *testing.T) {
	repo := newMockRepo()
	repo.staff = []staffEntry{{id: 7, name: "Dr. X", specialization: "Cardiology"}}
	svc := NewService(repo)

	d, _ := svc.Create(context.Background(), CreateParams{Name: "Cardiology", HeadDoctorID: i64Ptr(7)})

	updated, err := svc.UnassignHead(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.HeadDoctorID != nil {
		t.Error("expected head to be cleared")
	}

	// Clearing an already headless department succeeds.
	if _, err := svc.UnassignHead(context.Background(), d.ID); err != nil {
		t.Errorf("unexpected error on repeated unassign: %v", err)
	}
}

func TestStaff(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	d, _ := svc.Create(context.Background(), CreateParams{Name: "Cardiology"})
	repo.staff = []staffEntry{
		{id: 1, name: "D1", specialization: "Cardiology", departmentID: &d.ID},
		{id: 2, name: "D2", specialization: "Neurology", departmentID: &d.ID},
		{id: 3, name: "D3", specialization: "Cardiology"},
	}

	staff, err := svc.Staff(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(staff) != 2 {
		t.Errorf("expected 2 staff doctors, got %d", len(staff))
	}

	got, _ := svc.Get(context.Background(), d.ID)
	if got.StaffCount != 2 {
		t.Errorf("expected staff_count 2, got %d", got.StaffCount)
	}
}

func TestSpecialtyDoctors(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	d, _ := svc.Create(context.Background(), CreateParams{Name: "Cardiology", Specialty: strPtr("Cardiology")})
	repo.staff = []staffEntry{
		{id: 1, name: "D1", specialization: "Cardiology", departmentID: &d.ID},
		{id: 2, name: "D2", specialization: "Neurology", departmentID: &d.ID},
	}

	docs, err := svc.SpecialtyDoctors(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "D1" {
		t.Errorf("expected only the matching specialist, got %d", len(docs))
	}

	plain, _ := svc.Create(context.Background(), CreateParams{Name: "Administration"})
	if _, err := svc.SpecialtyDoctors(context.Background(), plain.ID); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for department without specialty, got %v", err)
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc := NewService(newMockRepo())
	d, _ := svc.Create(context.Background(), CreateParams{Name: "Cardiology", Specialty: strPtr("Cardiology")})

	updated, err := svc.Update(context.Background(), d.ID, UpdateParams{
		Specialty: optional.Null[string](),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Specialty != nil {
		t.Error("explicit null must clear specialty")
	}
	if updated.Name != "Cardiology" {
		t.Error("absent name must stay untouched")
	}

	if _, err := svc.Update(context.Background(), d.ID, UpdateParams{
		Name: optional.Null[string](),
	}); !apperror.IsValidation(err) {
		t.Errorf("expected validation error clearing name, got %v", err)
	}
}

func TestDelete_DetachesStaff(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	d, _ := svc.Create(context.Background(), CreateParams{Name: "Cardiology"})
	repo.staff = []staffEntry{{id: 1, name: "D1", specialization: "Cardiology", departmentID: &d.ID}}

	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.staff[0].departmentID != nil {
		t.Error("delete must detach staff doctors, not remove them")
	}
	if _, err := svc.Get(context.Background(), d.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}
