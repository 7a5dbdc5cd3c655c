package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/torosent/webvitals/internal/metrics"
)

func newInspectCmd() *cobra.Command {
	var (
		format     string
		jsonOutput bool
		budgets    []string
	)
	cmd := &cobra.Command{
		Use:   "inspect [file...]",
		Short: "Render flushed payloads written by a file:// beacon",
		Long: `Inspect reads payload files (one JSON snapshot per line, or a single JSON
document) and renders each snapshot. With no file, stdin is read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, jsonOutput)
			if err != nil {
				return err
			}
			thresholds, err := parseBudgets(budgets)
			if err != nil {
				return err
			}

			merged := metrics.NewStore()
			if len(args) == 0 {
				if err := inspectReader(cmd.OutOrStdout(), cmd.InOrStdin(), "stdin", f, merged); err != nil {
					return err
				}
			}
			for _, path := range args {
				if err := inspectFile(cmd.OutOrStdout(), path, f, merged); err != nil {
					return err
				}
			}
			return checkBudgets(budgetWriter(cmd, f), merged.Values(), thresholds)
		},
	}
	cmd.Flags().StringVar(&format, "output", formatText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&jsonOutput, "json-output", false, "Emit JSON formatted output")
	cmd.Flags().StringArrayVar(&budgets, "budget", nil, "Budget checked against the merged payloads, e.g. 'largest-contentful-paint < 2500' (repeatable)")
	return cmd
}

func inspectFile(w io.Writer, path, format string, merged *metrics.Store) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open payload file: %w", err)
	}
	defer f.Close()
	return inspectReader(w, f, path, format, merged)
}

// inspectReader renders each payload read from r and folds it into merged; later
// payloads win for a metric seen twice.
func inspectReader(w io.Writer, r io.Reader, source, format string, merged *metrics.Store) error {
	payloads, err := readPayloads(r)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	for i, payload := range payloads {
		values, err := decodePayload(payload)
		if err != nil {
			return fmt.Errorf("%s: payload %d: %w", source, i+1, err)
		}
		if format == formatText {
			fmt.Fprintf(w, "\n# %s payload %d", source, i+1)
		}
		if err := printValues(w, values, format); err != nil {
			return err
		}
		for _, name := range values.Names() {
			rec, _ := values.Get(name)
			merged.Set(name, rec)
		}
	}
	return nil
}

// readPayloads returns the whole input when it is one JSON document, otherwise each
// non-empty line.
func readPayloads(r io.Reader) ([][]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if gjson.ValidBytes(data) {
		return [][]byte{data}, nil
	}

	var payloads [][]byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxPayloadBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		payloads = append(payloads, append([]byte(nil), line...))
	}
	return payloads, scanner.Err()
}

// decodePayload rebuilds a snapshot from a flushed payload, keeping key order.
func decodePayload(payload []byte) (metrics.Values, error) {
	if !gjson.ValidBytes(payload) {
		return metrics.Values{}, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(payload)
	if !doc.IsObject() {
		return metrics.Values{}, fmt.Errorf("expected a JSON object")
	}

	store := metrics.NewStore()
	doc.ForEach(func(key, rec gjson.Result) bool {
		name := rec.Get("name").String()
		if name == "" {
			name = key.String()
		}
		record := metrics.Record{Name: name}
		if v := rec.Get("value"); v.Exists() && v.Type == gjson.Number {
			record.Value = metrics.Float(v.Float())
		}
		store.Set(key.String(), record)
		return true
	})
	return store.Values(), nil
}
