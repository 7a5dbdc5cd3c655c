package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/torosent/webvitals/internal/metrics"
)

// PrintReport outputs a human-readable summary of a metrics snapshot.
func PrintReport(w io.Writer, values metrics.Values) {
	fmt.Fprintln(w, "\n--- Web Vitals ---")
	if values.Len() == 0 {
		fmt.Fprintln(w, "No metrics collected")
		return
	}

	width := 0
	for _, name := range values.Names() {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, rec := range values.Records() {
		fmt.Fprintf(w, "%-*s  %s\n", width+1, rec.Name+":", formatValue(rec))
	}
	fmt.Fprintf(w, "\nTotal metrics: %d\n", values.Len())
}

// PrintJSONReport outputs the snapshot as indented JSON in collection order.
func PrintJSONReport(w io.Writer, values metrics.Values) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}

// PrintYAMLReport outputs the snapshot as a YAML mapping in collection order.
func PrintYAMLReport(w io.Writer, values metrics.Values) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, rec := range values.Records() {
		var value yaml.Node
		if err := value.Encode(rec); err != nil {
			return fmt.Errorf("encode %s: %w", rec.Name, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: rec.Name},
			&value,
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func formatValue(rec metrics.Record) string {
	if !rec.HasValue() {
		return rec.String()
	}
	return fmt.Sprintf("%.2f", *rec.Value)
}
