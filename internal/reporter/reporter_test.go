package reporter_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/torosent/webvitals/internal/metrics"
	"github.com/torosent/webvitals/internal/reporter"
)

func TestReporterImmediateForwardsAndStores(t *testing.T) {
	store := metrics.NewStore()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	session := reporter.Session{SectionID: "sec", AppID: "app", Version: "1.0"}

	var got []reporter.Report
	report := reporter.New(session, func(r reporter.Report) { got = append(got, r) }, store, true,
		reporter.WithNow(func() time.Time { return fixed }))

	report(metrics.NewRecord("fcp", 120))

	if len(got) != 1 {
		t.Fatalf("expected 1 callback, got %d", len(got))
	}
	r := got[0]
	if r.SectionID != "sec" || r.AppID != "app" || r.Version != "1.0" {
		t.Errorf("unexpected session in report: %+v", r.Session)
	}
	if r.Data.Name != "fcp" || *r.Data.Value != 120 {
		t.Errorf("unexpected data %+v", r.Data)
	}
	if !r.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", r.Timestamp, fixed)
	}
	if _, ok := store.Get("fcp"); !ok {
		t.Error("expected record mirrored into store")
	}
}

func TestReporterBufferedOnlyStores(t *testing.T) {
	store := metrics.NewStore()
	calls := 0
	report := reporter.New(reporter.NewSession("app", "1"), func(reporter.Report) { calls++ }, store, false)

	report(metrics.NewRecord("lcp", 2500))
	report(metrics.Record{Name: "fid"})

	if calls != 0 {
		t.Errorf("callback invoked %d times in buffered mode", calls)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 stored records, got %d", store.Len())
	}
	rec, _ := store.Get("fid")
	if rec.HasValue() {
		t.Errorf("undefined value was coerced: %s", rec)
	}
}

func TestReporterNilCallback(t *testing.T) {
	store := metrics.NewStore()
	report := reporter.New(reporter.NewSession("app", "1"), nil, store, true)
	report(metrics.NewRecord("fps", 60))
	if store.Len() != 1 {
		t.Errorf("expected record stored with nil callback, got %d", store.Len())
	}
}

func TestNewSessionGeneratesUniqueIDs(t *testing.T) {
	a := reporter.NewSession("app", "1")
	b := reporter.NewSession("app", "1")
	if a.SectionID == "" || a.SectionID == b.SectionID {
		t.Errorf("expected distinct non-empty section ids, got %q and %q", a.SectionID, b.SectionID)
	}
}

func TestReportJSON(t *testing.T) {
	r := reporter.Report{
		Session: reporter.Session{SectionID: "s", AppID: "a", Version: "v"},
		Data:    metrics.NewRecord("cls", 0.1),
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"sectionId", "appId", "version", "data", "timestamp"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}
}
