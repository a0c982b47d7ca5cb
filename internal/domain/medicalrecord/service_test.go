package medicalrecord

import (
	"context"
	"testing"
	"time"

	"github.com/hms/hms/internal/platform/apperror"
	"github.com/hms/hms/pkg/optional"
)

type mockRepo struct {
	records  map[int64]*Record
	patients map[int64]string
	doctors  map[int64]string
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records:  make(map[int64]*Record),
		patients: map[int64]string{1: "Alice Smith"},
		doctors:  map[int64]string{1: "Dr. X"},
	}
}

func (m *mockRepo) Create(_ context.Context, rec *Record) error {
	if _, ok := m.patients[rec.PatientID]; !ok {
		return apperror.ReferenceNotFound("Patient", rec.PatientID)
	}
	if _, ok := m.doctors[rec.DoctorID]; !ok {
		return apperror.ReferenceNotFound("Doctor", rec.DoctorID)
	}
	m.nextID++
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, apperror.NotFound("MedicalRecord", id)
	}
	cp := *rec
	cp.PatientName = m.patients[rec.PatientID]
	cp.DoctorName = m.doctors[rec.DoctorID]
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Record, int, error) {
	var result []*Record
	for id := int64(1); id <= m.nextID; id++ {
		rec, ok := m.records[id]
		if !ok {
			continue
		}
		if f.PatientID != nil && rec.PatientID != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && rec.DoctorID != *f.DoctorID {
			continue
		}
		cp := *rec
		result = append(result, &cp)
	}
	return result, len(result), nil
}

func (m *mockRepo) Update(_ context.Context, rec *Record) error {
	if _, ok := m.records[rec.ID]; !ok {
		return apperror.NotFound("MedicalRecord", rec.ID)
	}
	if _, ok := m.patients[rec.PatientID]; !ok {
		return apperror.ReferenceNotFound("Patient", rec.PatientID)
	}
	if _, ok := m.doctors[rec.DoctorID]; !ok {
		return apperror.ReferenceNotFound("Doctor", rec.DoctorID)
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return apperror.NotFound("MedicalRecord", id)
	}
	delete(m.records, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	svc := NewService(newMockRepo())

	rec, err := svc.Create(context.Background(), CreateParams{
		PatientID: 1, DoctorID: 1, Diagnosis: "Influenza", Treatment: strPtr("Rest and fluids"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == 0 || rec.Diagnosis != "Influenza" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.RecordDate.IsZero() {
		t.Error("expected record_date to default to today")
	}
	if rec.PatientName != "Alice Smith" || rec.DoctorName != "Dr. X" {
		t.Errorf("expected joined names, got %q / %q", rec.PatientName, rec.DoctorName)
	}
}

func TestCreate_ExplicitDate(t *testing.T) {
	svc := NewService(newMockRepo())

	rec, err := svc.Create(context.Background(), CreateParams{
		PatientID: 1, DoctorID: 1, Diagnosis: "Influenza", RecordDate: strPtr("2026-01-15"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !rec.RecordDate.Equal(want) {
		t.Errorf("expected %v, got %v", want, rec.RecordDate)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	cases := []struct {
		name   string
		params CreateParams
	}{
		{"missing patient", CreateParams{DoctorID: 1, Diagnosis: "Flu"}},
		{"missing doctor", CreateParams{PatientID: 1, Diagnosis: "Flu"}},
		{"missing diagnosis", CreateParams{PatientID: 1, DoctorID: 1}},
		{"bad date", CreateParams{PatientID: 1, DoctorID: 1, Diagnosis: "Flu", RecordDate: strPtr("last week")}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), tc.params); !apperror.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreate_UnknownRefs(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), CreateParams{
		PatientID: 999, DoctorID: 1, Diagnosis: "Flu",
	})
	if !apperror.IsReferenceNotFound(err) {
		t.Errorf("expected reference-not-found for patient, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateParams{
		PatientID: 1, DoctorID: 999, Diagnosis: "Flu",
	})
	if !apperror.IsReferenceNotFound(err) {
		t.Errorf("expected reference-not-found for doctor, got %v", err)
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc := NewService(newMockRepo())
	rec, _ := svc.Create(context.Background(), CreateParams{
		PatientID: 1, DoctorID: 1, Diagnosis: "Influenza", Treatment: strPtr("Rest"),
	})

	updated, err := svc.Update(context.Background(), rec.ID, UpdateParams{
		Diagnosis: optional.Of("Pneumonia"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Diagnosis != "Pneumonia" {
		t.Errorf("expected Pneumonia, got %s", updated.Diagnosis)
	}
	if updated.Treatment == nil || *updated.Treatment != "Rest" {
		t.Error("absent treatment must stay untouched")
	}

	updated, err = svc.Update(context.Background(), rec.ID, UpdateParams{
		Treatment: optional.Null[string](),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Treatment != nil {
		t.Error("explicit null must clear treatment")
	}

	if _, err := svc.Update(context.Background(), rec.ID, UpdateParams{
		Diagnosis: optional.Null[string](),
	}); !apperror.IsValidation(err) {
		t.Errorf("expected validation error clearing diagnosis, got %v", err)
	}
}

func TestUpdate_ReassignRefs(t *testing.T) {
	repo := newMockRepo()
	repo.doctors[2] = "Dr. Y"
	svc := NewService(repo)
	rec, _ := svc.Create(context.Background(), CreateParams{
		PatientID: 1, DoctorID: 1, Diagnosis: "Influenza",
	})

	updated, err := svc.Update(context.Background(), rec.ID, UpdateParams{
		DoctorID: optional.Of(int64(2)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DoctorID != 2 || updated.DoctorName != "Dr. Y" {
		t.Errorf("expected reassignment to doctor 2, got %d (%s)", updated.DoctorID, updated.DoctorName)
	}
	if updated.PatientID != 1 {
		t.Errorf("patient must stay untouched, got %d", updated.PatientID)
	}

	if _, err := svc.Update(context.Background(), rec.ID, UpdateParams{
		PatientID: optional.Of(int64(999)),
	}); !apperror.IsReferenceNotFound(err) {
		t.Errorf("expected reference-not-found for unknown patient, got %v", err)
	}

	if _, err := svc.Update(context.Background(), rec.ID, UpdateParams{
		DoctorID: optional.Null[int64](),
	}); !apperror.IsValidation(err) {
		t.Errorf("expected validation error clearing doctor_id, got %v", err)
	}
}

func TestList_FilterByPatient(t *testing.T) {
	repo := newMockRepo()
	repo.patients[2] = "Bob Jones"
	svc := NewService(repo)

	svc.Create(context.Background(), CreateParams{PatientID: 1, DoctorID: 1, Diagnosis: "Flu"})
	svc.Create(context.Background(), CreateParams{PatientID: 2, DoctorID: 1, Diagnosis: "Sprain"})

	pid := int64(2)
	records, total, err := svc.List(context.Background(), Filter{PatientID: &pid}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || records[0].Diagnosis != "Sprain" {
		t.Errorf("expected one record for patient 2, got %d", total)
	}
}

func TestDelete(t *testing.T) {
	svc := NewService(newMockRepo())
	rec, _ := svc.Create(context.Background(), CreateParams{
		PatientID: 1, DoctorID: 1, Diagnosis: "Flu",
	})

	if err := svc.Delete(context.Background(), rec.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), rec.ID); !apperror.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}
