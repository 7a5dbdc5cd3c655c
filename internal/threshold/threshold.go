// Package threshold evaluates performance budgets such as
// "largest-contentful-paint < 2500" against a metrics snapshot.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/torosent/webvitals/internal/metrics"
)

var pattern = regexp.MustCompile(`^([A-Za-z0-9_.\-]+)\s*(<=|>=|==|<|>)\s*(-?[0-9]+(?:\.[0-9]+)?)$`)

// Threshold represents a budget that a single metric must meet.
type Threshold struct {
	Metric   string  // e.g., "largest-contentful-paint", "checkoutMetrics"
	Operator string  // e.g., "<", "<=", ">", ">=", "=="
	Value    float64 // The threshold value to compare against
	Raw      string  // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    *float64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against collected metrics.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against the snapshot.
func (e *Evaluator) Evaluate(values metrics.Values) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, evaluateOne(t, values))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Pass {
			n++
		}
	}
	return n
}

func evaluateOne(t Threshold, values metrics.Values) Result {
	rec, ok := values.Get(t.Metric)
	if !ok {
		return Result{
			Threshold: t,
			Message:   fmt.Sprintf("✗ %s: metric not collected", t.Raw),
		}
	}
	if !rec.HasValue() {
		return Result{
			Threshold: t,
			Message:   fmt.Sprintf("✗ %s: value is undefined", t.Raw),
		}
	}

	actual := *rec.Value
	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	return Result{
		Threshold: t,
		Actual:    metrics.Float(actual),
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

// Parse parses a threshold string into a Threshold struct.
// Supported format: "<metric> <operator> <value>", e.g.
// - "largest-contentful-paint < 2500"
// - "cumulative-layout-shift <= 0.1"
// - "fps >= 50"
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := pattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: metric operator value, e.g., 'largest-contentful-paint < 2500')", s)
	}

	value, err := strconv.ParseFloat(matches[3], 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", matches[3], err)
	}

	return Threshold{
		Metric:   matches[1],
		Operator: matches[2],
		Value:    value,
		Raw:      s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errors []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errors = append(errors, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errors, "; "))
	}

	return result, nil
}

func compareValues(actual float64, operator string, expected float64) bool {
	// Handle floating point comparison with small epsilon
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
