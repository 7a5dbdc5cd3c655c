package threshold

import (
	"strings"
	"testing"

	"github.com/torosent/webvitals/internal/metrics"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Threshold
		wantError bool
	}{
		{
			name:  "largest contentful paint budget",
			input: "largest-contentful-paint < 2500",
			want: Threshold{
				Metric:   "largest-contentful-paint",
				Operator: "<",
				Value:    2500,
				Raw:      "largest-contentful-paint < 2500",
			},
		},
		{
			name:  "layout shift with <= and no spaces",
			input: "cumulative-layout-shift<=0.1",
			want: Threshold{
				Metric:   "cumulative-layout-shift",
				Operator: "<=",
				Value:    0.1,
				Raw:      "cumulative-layout-shift<=0.1",
			},
		},
		{
			name:  "custom measure with >=",
			input: "  checkoutMetrics >= 10  ",
			want: Threshold{
				Metric:   "checkoutMetrics",
				Operator: ">=",
				Value:    10,
				Raw:      "checkoutMetrics >= 10",
			},
		},
		{name: "empty", input: "", wantError: true},
		{name: "missing operator", input: "fps 60", wantError: true},
		{name: "unsupported operator", input: "fps != 60", wantError: true},
		{name: "non numeric value", input: "fps > fast", wantError: true},
		{name: "missing metric", input: "< 5", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMultiple(t *testing.T) {
	got, err := ParseMultiple([]string{"fps >= 50", "first-paint < 1000"})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 thresholds, got %d", len(got))
	}

	_, err = ParseMultiple([]string{"fps >= 50", "bogus", "also bogus"})
	if err == nil {
		t.Fatal("expected error for invalid thresholds")
	}
	if !strings.Contains(err.Error(), "threshold[1]") || !strings.Contains(err.Error(), "threshold[2]") {
		t.Errorf("expected every failing index in error, got %v", err)
	}

	if got, err := ParseMultiple(nil); got != nil || err != nil {
		t.Errorf("ParseMultiple(nil) = %v, %v", got, err)
	}
}

func TestEvaluate(t *testing.T) {
	store := metrics.NewStore()
	store.Set("largest-contentful-paint", metrics.NewRecord("largest-contentful-paint", 2100))
	store.Set("cumulative-layout-shift", metrics.NewRecord("cumulative-layout-shift", 0.1))
	store.Set("fps", metrics.NewRecord("fps", 42))
	store.Set("heroMetrics", metrics.Record{Name: "heroMetrics"})

	thresholds, err := ParseMultiple([]string{
		"largest-contentful-paint < 2500",
		"cumulative-layout-shift <= 0.1",
		"fps >= 50",
		"heroMetrics < 100",
		"first-input-delay < 100",
	})
	if err != nil {
		t.Fatal(err)
	}

	results := NewEvaluator(thresholds).Evaluate(store.Values())
	wantPass := []bool{true, true, false, false, false}
	if len(results) != len(wantPass) {
		t.Fatalf("expected %d results, got %d", len(wantPass), len(results))
	}
	for i, want := range wantPass {
		if results[i].Pass != want {
			t.Errorf("result %d (%s) pass = %v, want %v: %s", i, results[i].Threshold.Raw, results[i].Pass, want, results[i].Message)
		}
	}
	if results[0].Actual == nil || *results[0].Actual != 2100 {
		t.Errorf("expected actual value recorded, got %v", results[0].Actual)
	}
	if !strings.Contains(results[3].Message, "undefined") {
		t.Errorf("unexpected message for undefined value: %s", results[3].Message)
	}
	if !strings.Contains(results[4].Message, "not collected") {
		t.Errorf("unexpected message for missing metric: %s", results[4].Message)
	}
	if Failed(results) != 3 {
		t.Errorf("Failed() = %d, want 3", Failed(results))
	}
}

func TestEvaluateWithoutThresholds(t *testing.T) {
	if got := NewEvaluator(nil).Evaluate(metrics.NewStore().Values()); got != nil {
		t.Errorf("expected nil results, got %v", got)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		actual   float64
		op       string
		expected float64
		want     bool
	}{
		{1, "<", 2, true},
		{2, "<", 2, false},
		{2, "<=", 2, true},
		{3, ">", 2, true},
		{2, ">=", 2, true},
		{0.1 + 0.2, "==", 0.3, true},
		{1, "!=", 2, false},
	}
	for _, tt := range tests {
		if got := compareValues(tt.actual, tt.op, tt.expected); got != tt.want {
			t.Errorf("compareValues(%v %s %v) = %v, want %v", tt.actual, tt.op, tt.expected, got, tt.want)
		}
	}
}
