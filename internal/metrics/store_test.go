package metrics

import (
	"encoding/json"
	"testing"
)

func TestStore_SetOverwrites(t *testing.T) {
	store := NewStore()
	store.Set("fcp", NewRecord("fcp", 100))
	store.Set("lcp", NewRecord("lcp", 200))
	store.Set("fcp", NewRecord("fcp", 150))

	values := store.Values()
	if values.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", values.Len())
	}
	rec, ok := values.Get("fcp")
	if !ok {
		t.Fatal("expected to find 'fcp'")
	}
	if rec.Value == nil || *rec.Value != 150 {
		t.Errorf("expected fcp=150, got %s", rec)
	}

	names := values.Names()
	if names[0] != "fcp" || names[1] != "lcp" {
		t.Errorf("expected insertion order [fcp lcp], got %v", names)
	}
}

func TestStore_ValuesIsCopy(t *testing.T) {
	store := NewStore()
	store.Set("fid", NewRecord("fid", 8))

	values := store.Values()
	rec, _ := values.Get("fid")
	*rec.Value = 999

	m := values.Map()
	m["fid"] = NewRecord("fid", 1)
	delete(m, "fid")

	got, _ := store.Get("fid")
	if *got.Value != 8 {
		t.Errorf("store was affected by modification to snapshot, got %s", got)
	}
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Set("a", NewRecord("a", 1))
	store.Set("b", Record{Name: "b"})
	store.Clear()

	if n := store.Values().Len(); n != 0 {
		t.Fatalf("expected 0 records after clear, got %d", n)
	}
	if _, ok := store.Get("a"); ok {
		t.Error("expected ok=false after clear")
	}
}

func TestStore_Flush(t *testing.T) {
	store := NewStore()

	calls := 0
	send := func(Values) bool {
		calls++
		return true
	}
	if store.Flush(send) {
		t.Fatal("Flush on empty store reported dispatch")
	}
	if calls != 0 {
		t.Fatalf("send called %d times for empty store", calls)
	}

	store.Set("cls", NewRecord("cls", 0.05))
	if !store.Flush(send) {
		t.Fatal("expected Flush to dispatch")
	}
	if store.Len() != 0 {
		t.Errorf("expected store cleared after dispatch, got %d", store.Len())
	}
	if store.Flush(send) {
		t.Error("second Flush without new records should be a no-op")
	}
	if calls != 1 {
		t.Errorf("expected exactly one send, got %d", calls)
	}
}

func TestStore_FlushRejectedKeepsRecords(t *testing.T) {
	store := NewStore()
	store.Set("cls", NewRecord("cls", 0.1))

	if store.Flush(func(Values) bool { return false }) {
		t.Fatal("Flush reported dispatch although send refused")
	}
	if store.Len() != 1 {
		t.Errorf("expected record kept when send refused, got %d", store.Len())
	}
}

func TestValues_MarshalJSON(t *testing.T) {
	store := NewStore()
	store.Set("zeta", NewRecord("zeta", 1.5))
	store.Set("alpha", Record{Name: "alpha"})

	data, err := json.Marshal(store.Values())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"zeta":{"name":"zeta","value":1.5},"alpha":{"name":"alpha"}}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	empty, err := json.Marshal(Values{})
	if err != nil {
		t.Fatalf("Marshal(empty) error = %v", err)
	}
	if string(empty) != "{}" {
		t.Errorf("Marshal(empty) = %s, want {}", empty)
	}
}

func TestRecord_String(t *testing.T) {
	if got := (Record{Name: "x"}).String(); got != "undefined" {
		t.Errorf("String() = %q, want undefined", got)
	}
	if got := NewRecord("x", 12.25).String(); got != "12.25" {
		t.Errorf("String() = %q, want 12.25", got)
	}
}
