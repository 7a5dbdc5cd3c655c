package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torosent/webvitals/internal/metrics"
	"github.com/torosent/webvitals/internal/output"
	"github.com/torosent/webvitals/internal/threshold"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func resolveFormat(format string, jsonOutput bool) (string, error) {
	if jsonOutput {
		return formatJSON, nil
	}
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func printValues(w io.Writer, values metrics.Values, format string) error {
	switch format {
	case formatJSON:
		return output.PrintJSONReport(w, values)
	case formatYAML:
		return output.PrintYAMLReport(w, values)
	default:
		output.PrintReport(w, values)
		return nil
	}
}

func parseBudgets(budgets []string) ([]threshold.Threshold, error) {
	thresholds, err := threshold.ParseMultiple(budgets)
	if err != nil {
		return nil, fmt.Errorf("budget: %w", err)
	}
	return thresholds, nil
}

// checkBudgets prints every budget result and fails when any budget is missed.
func checkBudgets(w io.Writer, values metrics.Values, thresholds []threshold.Threshold) error {
	if len(thresholds) == 0 {
		return nil
	}
	results := threshold.NewEvaluator(thresholds).Evaluate(values)
	fmt.Fprintln(w, "\nBudgets:")
	for _, r := range results {
		fmt.Fprintf(w, "  %s\n", r.Message)
	}
	if failed := threshold.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d budgets failed", failed, len(results))
	}
	return nil
}

// budgetWriter keeps structured output parseable by sending budget results to stderr.
func budgetWriter(cmd *cobra.Command, format string) io.Writer {
	if format == formatText {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}
