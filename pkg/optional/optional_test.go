package optional

import (
	"encoding/json"
	"testing"
)

type payload struct {
	Name    Value[string] `json:"name"`
	Doctor  Value[int64]  `json:"doctor_id"`
	Contact Value[string] `json:"contact_info"`
}

func TestAbsentField(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name.Present() {
		t.Error("expected name to be absent")
	}
	if _, ok := p.Name.Get(); ok {
		t.Error("absent field should not carry a value")
	}
}

func TestNullField(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"doctor_id":null}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Doctor.Present() {
		t.Error("expected doctor_id to be present")
	}
	if !p.Doctor.IsNull() {
		t.Error("expected doctor_id to be null")
	}
	if _, ok := p.Doctor.Get(); ok {
		t.Error("null field should not carry a value")
	}
}

func TestValueField(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"name":"Cardiology","doctor_id":7}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name, ok := p.Name.Get()
	if !ok || name != "Cardiology" {
		t.Errorf("expected Cardiology, got %q (ok=%v)", name, ok)
	}
	id, ok := p.Doctor.Get()
	if !ok || id != 7 {
		t.Errorf("expected 7, got %d (ok=%v)", id, ok)
	}
	if p.Contact.Present() {
		t.Error("contact_info should be absent")
	}
}

func TestConstructors(t *testing.T) {
	v := Of("x")
	if got, ok := v.Get(); !ok || got != "x" {
		t.Errorf("Of: got %q (ok=%v)", got, ok)
	}
	n := Null[string]()
	if !n.IsNull() {
		t.Error("Null: expected IsNull")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(Of(int64(3)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "3" {
		t.Errorf("expected 3, got %s", b)
	}
	b, _ = json.Marshal(Null[int64]())
	if string(b) != "null" {
		t.Errorf("expected null, got %s", b)
	}
}
