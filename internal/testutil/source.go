// Package testutil provides deterministic fixtures shared by tests across
// packages: numbered source collections and manifest snippets with known
// key, feature, and label columns.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/benchsplit/internal/dataset"
)

// NumberedCollection builds n rows with schema {id, feature, target}:
// id "0".."n-1", feature "f<i>", target from the label function.
func NumberedCollection(tb testing.TB, n int, label func(i int) string) *dataset.Collection {
	tb.Helper()
	records := make([]dataset.Record, n)
	for i := range records {
		records[i] = dataset.Record{
			"id":      fmt.Sprintf("%d", i),
			"feature": fmt.Sprintf("f%d", i),
			"target":  label(i),
		}
	}
	c, err := dataset.NewCollection(dataset.MustSchema("id", "feature", "target"), records)
	if err != nil {
		tb.Fatalf("build numbered collection: %v", err)
	}
	return c
}

// BinaryLabel alternates "0" and "1" per row index.
func BinaryLabel(i int) string {
	return fmt.Sprintf("%d", i%2)
}

// RowManifestYAML is a ratio-mode row-strategy manifest matching
// NumberedCollection's schema.
func RowManifestYAML(ratio float64, seed int64) string {
	return fmt.Sprintf(`
name: test-prep
unit:
  strategy: row
  key_field: id
labels:
  id_field: id
  fields: [target]
  must_vary: target
split:
  mode: ratio
  ratio: %v
  seed: %d
`, ratio, seed)
}

// WriteManifest writes YAML to a temp file and returns its path.
func WriteManifest(tb testing.TB, yaml string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "prep.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		tb.Fatalf("write manifest: %v", err)
	}
	return path
}

// WriteSourceCSV writes a collection to a CSV file under a temp dir and
// returns its path. Columns are the schema fields in sorted order.
func WriteSourceCSV(tb testing.TB, c *dataset.Collection) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "source.csv")
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create source csv: %v", err)
	}
	defer f.Close()

	fields := c.Schema().Fields()
	write := func(cols []string) {
		line := ""
		for i, col := range cols {
			if i > 0 {
				line += ","
			}
			line += col
		}
		if _, err := fmt.Fprintln(f, line); err != nil {
			tb.Fatalf("write source csv: %v", err)
		}
	}
	write(fields)
	for _, r := range c.Records() {
		row := make([]string, len(fields))
		for i, field := range fields {
			row[i] = r[field]
		}
		write(row)
	}
	return path
}
