package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunBufferedSessionWritesOnePayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitals.log")
	script := `
# custom timing, then the page goes away
start btn
end btn
hide
`
	_, stderr, err := runCLI(t, script,
		"run",
		"--app-id", "shop",
		"--version", "1.2.0",
		"--report-uri", "file://"+path,
		"--auto-load=false",
		"--output", "json",
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("run error = %v\nstderr: %s", err, stderr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one flushed payload, got %d:\n%s", len(lines), data)
	}
	payload := lines[0]
	if !gjson.Get(payload, "btnMetrics.value").Exists() {
		t.Errorf("expected btnMetrics in payload: %s", payload)
	}
	if got := gjson.Get(payload, "cumulative-layout-shift.value").Float(); got != 0 {
		t.Errorf("cumulative-layout-shift = %v, want 0", got)
	}
	if !gjson.Get(payload, "device-cpu-count.value").Exists() {
		t.Errorf("expected device info in payload: %s", payload)
	}
}

func TestRunImmediateSessionLogsReports(t *testing.T) {
	stdout, stderr, err := runCLI(t, "end checkout\nprint\nclose\nend ignored\n",
		"run",
		"--app-id", "shop",
		"--version", "1",
		"--immediately",
		"--auto-load=false",
		"--output", "yaml",
	)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(stdout, "checkoutMetrics:") {
		t.Errorf("expected checkoutMetrics in output:\n%s", stdout)
	}
	if strings.Contains(stdout, "ignoredMetrics") {
		t.Errorf("commands after close must not run:\n%s", stdout)
	}
	if !strings.Contains(stderr, "metric reported") || !strings.Contains(stderr, "metric=checkoutMetrics") {
		t.Errorf("expected report logged on stderr:\n%s", stderr)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	_, _, err := runCLI(t, "", "run", "--version", "1")
	if err == nil || !strings.Contains(err.Error(), "app_id is required") {
		t.Fatalf("expected missing app_id error, got %v", err)
	}
}

func TestRunReportsScriptErrors(t *testing.T) {
	_, _, err := runCLI(t, "load\nexplode\n", "run", "--app-id", "a", "--version", "1", "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected script error on line 2, got %v", err)
	}
}

func TestRunRejectsUnknownOutputFormat(t *testing.T) {
	_, _, err := runCLI(t, "", "run", "--app-id", "a", "--version", "1", "--output", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("expected output format error, got %v", err)
	}
}

func TestInspectRendersPayloadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitals.log")
	content := `{"first-paint":{"name":"first-paint","value":88.5},"heroMetrics":{"name":"heroMetrics"}}
{"fps":{"name":"fps","value":59}}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "", "inspect", path)
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	for _, want := range []string{"payload 1", "first-paint:", "88.50", "undefined", "payload 2", "fps:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestInspectReadsStdinAsJSON(t *testing.T) {
	stdout, _, err := runCLI(t, `{"b":{"name":"b","value":2},"a":{"name":"a","value":1}}`, "inspect", "--json-output")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	if strings.Index(stdout, `"b"`) > strings.Index(stdout, `"a"`) {
		t.Errorf("expected payload order preserved:\n%s", stdout)
	}
}

func TestInspectRejectsInvalidPayload(t *testing.T) {
	_, _, err := runCLI(t, "[1,2]\n", "inspect")
	if err == nil || !strings.Contains(err.Error(), "expected a JSON object") {
		t.Fatalf("expected object error, got %v", err)
	}
}

func TestInspectBudgets(t *testing.T) {
	payloads := `{"largest-contentful-paint":{"name":"largest-contentful-paint","value":3100}}
{"fps":{"name":"fps","value":58}}
`
	stdout, _, err := runCLI(t, payloads, "inspect",
		"--budget", "fps >= 50",
		"--budget", "largest-contentful-paint < 2500",
	)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 budgets failed") {
		t.Fatalf("expected one failed budget, got %v", err)
	}
	if !strings.Contains(stdout, "✓ fps >= 50") || !strings.Contains(stdout, "✗ largest-contentful-paint < 2500") {
		t.Errorf("expected budget results in output:\n%s", stdout)
	}
}

func TestRunRejectsMalformedBudget(t *testing.T) {
	_, _, err := runCLI(t, "", "run", "--app-id", "a", "--version", "1", "--budget", "fast please")
	if err == nil || !strings.Contains(err.Error(), "budget") {
		t.Fatalf("expected budget parse error, got %v", err)
	}
}

func TestRunBudgetsPassInImmediateMode(t *testing.T) {
	stdout, _, err := runCLI(t, "end checkout\n",
		"run", "--app-id", "a", "--version", "1", "--immediately", "--auto-load=false",
		"--log-level", "error",
		"--budget", "device-cpu-count >= 1",
	)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(stdout, "✓ device-cpu-count >= 1") {
		t.Errorf("expected passing budget in output:\n%s", stdout)
	}
}
