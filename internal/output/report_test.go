package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/torosent/webvitals/internal/metrics"
)

func sampleValues() metrics.Values {
	store := metrics.NewStore()
	store.Set("first-paint", metrics.NewRecord("first-paint", 81.25))
	store.Set("checkoutMetrics", metrics.Record{Name: "checkoutMetrics"})
	store.Set("cumulative-layout-shift", metrics.NewRecord("cumulative-layout-shift", 0.05))
	return store.Values()
}

func TestPrintReportBasic(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, sampleValues())

	output := buf.String()
	if !strings.Contains(output, "first-paint:") || !strings.Contains(output, "81.25") {
		t.Errorf("expected first-paint in output:\n%s", output)
	}
	if !strings.Contains(output, "undefined") {
		t.Errorf("expected undefined value rendered:\n%s", output)
	}
	if strings.Index(output, "first-paint") > strings.Index(output, "cumulative-layout-shift") {
		t.Errorf("expected collection order preserved:\n%s", output)
	}
	if !strings.Contains(output, "Total metrics: 3") {
		t.Errorf("expected total in output:\n%s", output)
	}
}

func TestPrintReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, metrics.NewStore().Values())
	if !strings.Contains(buf.String(), "No metrics collected") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSONReport(&buf, sampleValues()); err != nil {
		t.Fatalf("PrintJSONReport() error = %v", err)
	}

	doc := buf.Bytes()
	if got := gjson.GetBytes(doc, "first-paint.value").Float(); got != 81.25 {
		t.Errorf("first-paint.value = %v", got)
	}
	if gjson.GetBytes(doc, "checkoutMetrics.value").Exists() {
		t.Error("expected undefined value omitted")
	}
}

func TestPrintYAMLReport(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintYAMLReport(&buf, sampleValues()); err != nil {
		t.Fatalf("PrintYAMLReport() error = %v", err)
	}

	want := `first-paint:
  name: first-paint
  value: 81.25
checkoutMetrics:
  name: checkoutMetrics
cumulative-layout-shift:
  name: cumulative-layout-shift
  value: 0.05
`
	if buf.String() != want {
		t.Errorf("unexpected yaml:\n%s\nwant:\n%s", buf.String(), want)
	}
}
