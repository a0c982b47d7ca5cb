package patient

import (
	"context"
	"testing"
	"time"

	"github.com/hms/hms/internal/platform/apperror"
	"github.com/hms/hms/pkg/optional"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[int64]*Patient
	doctors  map[int64]bool
	depts    map[int64]bool
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients: make(map[int64]*Patient),
		doctors:  map[int64]bool{1: true},
		depts:    map[int64]bool{1: true},
	}
}

func (m *mockRepo) checkRefs(p *Patient) error {
	if p.AssignedDoctorID != nil && !m.doctors[*p.AssignedDoctorID] {
		return apperror.ReferenceNotFound("Doctor", *p.AssignedDoctorID)
	}
	if p.AssignedDepartmentID != nil && !m.depts[*p.AssignedDepartmentID] {
		return apperror.ReferenceNotFound("Department", *p.AssignedDepartmentID)
	}
	return nil
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if err := m.checkRefs(p); err != nil {
		return err
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperror.NotFound("Patient", id)
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for id := int64(1); id <= m.nextID; id++ {
		p, ok := m.patients[id]
		if !ok {
			continue
		}
		if f.Type != nil && p.Type != *f.Type {
			continue
		}
		if f.DoctorID != nil && (p.AssignedDoctorID == nil || *p.AssignedDoctorID != *f.DoctorID) {
			continue
		}
		if f.DepartmentID != nil && (p.AssignedDepartmentID == nil || *p.AssignedDepartmentID != *f.DepartmentID) {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	return result, len(result), nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return apperror.NotFound("Patient", p.ID)
	}
	if err := m.checkRefs(p); err != nil {
		return err
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.patients[id]; !ok {
		return apperror.NotFound("Patient", id)
	}
	delete(m.patients, id)
	return nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

// -- Tests --

func TestCreateInpatient(t *testing.T) {
	svc := newTestService()

	p, err := svc.Create(context.Background(), CreateParams{
		Name:        "Alice Smith",
		DateOfBirth: "1990-03-15",
		PatientType: KindInpatient,
		RoomNumber:  strPtr("101"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected ID to be set")
	}
	if p.Type != KindInpatient {
		t.Errorf("expected inpatient, got %s", p.Type)
	}
	if p.AdmissionDate == nil {
		t.Error("expected admission_date to default to today")
	}
	if p.DischargeDate != nil {
		t.Error("expected no discharge date on admission")
	}
	if p.LastVisitDate != nil {
		t.Error("outpatient field must not be populated on an inpatient")
	}
}

func TestCreateOutpatient(t *testing.T) {
	svc := newTestService()

	p, err := svc.Create(context.Background(), CreateParams{
		Name:        "Bob Jones",
		DateOfBirth: "1985-12-01",
		PatientType: KindOutpatient,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.LastVisitDate == nil {
		t.Error("expected last_visit_date to default to today")
	}
	if p.RoomNumber != nil || p.AdmissionDate != nil {
		t.Error("inpatient fields must not be populated on an outpatient")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	cases := []struct {
		name   string
		params CreateParams
	}{
		{"missing name", CreateParams{DateOfBirth: "1990-01-01", PatientType: KindInpatient, RoomNumber: strPtr("1")}},
		{"missing dob", CreateParams{Name: "X", PatientType: KindOutpatient}},
		{"bad dob", CreateParams{Name: "X", DateOfBirth: "yesterday", PatientType: KindOutpatient}},
		{"bad kind", CreateParams{Name: "X", DateOfBirth: "1990-01-01", PatientType: "daypatient"}},
		{"inpatient without room", CreateParams{Name: "X", DateOfBirth: "1990-01-01", PatientType: KindInpatient}},
		{"outpatient with room", CreateParams{Name: "X", DateOfBirth: "1990-01-01", PatientType: KindOutpatient, RoomNumber: strPtr("5")}},
		{"inpatient with last visit", CreateParams{Name: "X", DateOfBirth: "1990-01-01", PatientType: KindInpatient, RoomNumber: strPtr("5"), LastVisitDate: strPtr("2024-01-01")}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), tc.params); !apperror.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreate_UnknownDoctorRef(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), CreateParams{
		Name:             "X",
		DateOfBirth:      "1990-01-01",
		PatientType:      KindOutpatient,
		AssignedDoctorID: i64Ptr(999),
	})
	if !apperror.IsReferenceNotFound(err) {
		t.Errorf("expected reference-not-found, got %v", err)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), CreateParams{
		Name:        "Alice Smith",
		DateOfBirth: "1990-03-15",
		ContactInfo: strPtr("555-0101"),
		PatientType: KindInpatient,
		RoomNumber:  strPtr("101"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != created.Name || got.Type != created.Type ||
		!got.DateOfBirth.Equal(created.DateOfBirth) ||
		*got.ContactInfo != *created.ContactInfo ||
		*got.RoomNumber != *created.RoomNumber {
		t.Errorf("fetched patient differs from created: %+v vs %+v", got, created)
	}
}

func TestUpdate_EmptyPartialChangesNothing(t *testing.T) {
	svc := newTestService()

	created, _ := svc.Create(context.Background(), CreateParams{
		Name:        "Alice Smith",
		DateOfBirth: "1990-03-15",
		ContactInfo: strPtr("555-0101"),
		PatientType: KindOutpatient,
	})

	updated, err := svc.Update(context.Background(), created.ID, UpdateParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != created.Name ||
		!updated.DateOfBirth.Equal(created.DateOfBirth) ||
		*updated.ContactInfo != *created.ContactInfo ||
		!updated.LastVisitDate.Equal(*created.LastVisitDate) {
		t.Error("empty partial update must leave every field unchanged")
	}
}

func TestUpdate_SingleField(t *testing.T) {
	svc := newTestService()

	created, _ := svc.Create(context.Background(), CreateParams{
		Name:        "Alice Smith",
		DateOfBirth: "1990-03-15",
		ContactInfo: strPtr("555-0101"),
		PatientType: KindInpatient,
		RoomNumber:  strPtr("101"),
	})

	updated, err := svc.Update(context.Background(), created.ID, UpdateParams{
		RoomNumber: optional.Of("202"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *updated.RoomNumber != "202" {
		t.Errorf("expected room 202, got %s", *updated.RoomNumber)
	}
	if updated.Name != created.Name || *updated.ContactInfo != *created.ContactInfo {
		t.Error("untouched fields must keep their pre-update values")
	}
}

func TestUpdate_NullClearsOptional(t *testing.T) {
	svc := newTestService()

	created, _ := svc.Create(context.Background(), CreateParams{
		Name:             "Alice Smith",
		DateOfBirth:      "1990-03-15",
		ContactInfo:      strPtr("555-0101"),
		PatientType:      KindOutpatient,
		AssignedDoctorID: i64Ptr(1),
	})

	updated, err := svc.Update(context.Background(), created.ID, UpdateParams{
		ContactInfo:      optional.Null[string](),
		AssignedDoctorID: optional.Null[int64](),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ContactInfo != nil {
		t.Error("explicit null must clear contact_info")
	}
	if updated.AssignedDoctorID != nil {
		t.Error("explicit null must clear assigned_doctor_id")
	}
}

func TestUpdate_CannotClearName(t *testing.T) {
	svc := newTestService()

	created, _ := svc.Create(context.Background(), CreateParams{
		Name:        "Alice Smith",
		DateOfBirth: "1990-03-15",
		PatientType: KindOutpatient,
	})

	_, err := svc.Update(context.Background(), created.ID, UpdateParams{
		Name: optional.Null[string](),
	})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdate_VariantMismatch(t *testing.T) {
	svc := newTestService()

	out, _ := svc.Create(context.Background(), CreateParams{
		Name:        "Bob Jones",
		DateOfBirth: "1985-12-01",
		PatientType: KindOutpatient,
	})
	_, err := svc.Update(context.Background(), out.ID, UpdateParams{
		RoomNumber: optional.Of("101"),
	})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error for room on outpatient, got %v", err)
	}

	in, _ := svc.Create(context.Background(), CreateParams{
		Name:        "Alice Smith",
		DateOfBirth: "1990-03-15",
		PatientType: KindInpatient,
		RoomNumber:  strPtr("101"),
	})
	_, err = svc.Update(context.Background(), in.ID, UpdateParams{
		LastVisitDate: optional.Of("2024-01-01"),
	})
	if !apperror.IsValidation(err) {
		t.Errorf("expected validation error for last visit on inpatient, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.Update(context.Background(), 999, UpdateParams{})
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService()

	created, _ := svc.Create(context.Background(), CreateParams{
		Name:        "Alice Smith",
		DateOfBirth: "1990-03-15",
		PatientType: KindOutpatient,
	})

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}

func TestList_VariantTagging(t *testing.T) {
	svc := newTestService()

	svc.Create(context.Background(), CreateParams{
		Name: "P1", DateOfBirth: "1990-01-01", PatientType: KindInpatient, RoomNumber: strPtr("101"),
	})
	svc.Create(context.Background(), CreateParams{
		Name: "P2", DateOfBirth: "1991-01-01", PatientType: KindOutpatient,
	})

	patients, total, err := svc.List(context.Background(), Filter{}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(patients) != 2 {
		t.Fatalf("expected both patients, got %d", len(patients))
	}
	for _, p := range patients {
		switch p.Type {
		case KindInpatient:
			if p.RoomNumber == nil || p.LastVisitDate != nil {
				t.Errorf("inpatient %s carries wrong variant fields", p.Name)
			}
		case KindOutpatient:
			if p.LastVisitDate == nil || p.RoomNumber != nil {
				t.Errorf("outpatient %s carries wrong variant fields", p.Name)
			}
		}
	}
}

func TestList_FilterByDoctor(t *testing.T) {
	svc := newTestService()

	svc.Create(context.Background(), CreateParams{
		Name: "P1", DateOfBirth: "1990-01-01", PatientType: KindOutpatient, AssignedDoctorID: i64Ptr(1),
	})
	svc.Create(context.Background(), CreateParams{
		Name: "P2", DateOfBirth: "1991-01-01", PatientType: KindOutpatient,
	})

	patients, total, err := svc.List(context.Background(), Filter{DoctorID: i64Ptr(1)}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || patients[0].Name != "P1" {
		t.Errorf("expected only P1, got %d results", total)
	}
}

func TestDischarge(t *testing.T) {
	svc := newTestService()

	in, _ := svc.Create(context.Background(), CreateParams{
		Name: "Alice Smith", DateOfBirth: "1990-03-15", PatientType: KindInpatient, RoomNumber: strPtr("101"),
	})

	p, err := svc.Discharge(context.Background(), in.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DischargeDate == nil {
		t.Fatal("expected discharge date to be set")
	}

	if _, err := svc.Discharge(context.Background(), in.ID, nil); !apperror.IsConflict(err) {
		t.Errorf("expected conflict on double discharge, got %v", err)
	}

	out, _ := svc.Create(context.Background(), CreateParams{
		Name: "Bob Jones", DateOfBirth: "1985-12-01", PatientType: KindOutpatient,
	})
	if _, err := svc.Discharge(context.Background(), out.ID, nil); !apperror.IsValidation(err) {
		t.Errorf("expected validation error discharging an outpatient, got %v", err)
	}
}
