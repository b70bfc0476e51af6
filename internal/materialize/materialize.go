// Package materialize is the file I/O layer at the edges of the core:
// reading raw CSV sources into collections and writing a run's artifact set
// to the conventional directory layout.
//
// The core never touches the filesystem; everything here consumes or
// produces immutable collections. Column order in written files is the
// schema's sorted field order, so artifacts are byte-stable across runs.
package materialize

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/benchsplit/internal/dataset"
	"github.com/roach88/benchsplit/internal/pipeline"
)

// Directory names of the artifact layout. Caller convention, not enforced
// by the core.
const (
	DirPublic     = "public"
	DirPrivate    = "private"
	DirPublicVal  = "public_val"
	DirPrivateVal = "private_val"
)

// ReadCSV loads a CSV file into a collection. The first row is the header
// and becomes the schema; all rows must have the header's width.
func ReadCSV(path string) (*dataset.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read csv %s: missing header row", path)
	}

	header := rows[0]
	schema, err := dataset.NewSchema(header...)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	records := make([]dataset.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(dataset.Record, len(header))
		for i, field := range header {
			rec[field] = row[i]
		}
		records = append(records, rec)
	}
	c, err := dataset.NewCollection(schema, records)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return c, nil
}

// WriteCSV writes a collection to path, creating parent directories.
// Columns follow the schema's sorted field order.
func WriteCSV(path string, c *dataset.Collection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	fields := c.Schema().Fields()
	if err := w.Write(fields); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	row := make([]string, len(fields))
	for _, rec := range c.Records() {
		for i, field := range fields {
			row[i] = rec[field]
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return f.Close()
}

// WriteRun writes a run's full artifact set under root and returns the
// written paths:
//
//	public/{train,test,sample_submission}.csv       primary, participant-visible
//	private/test.csv                                primary, grading
//	public_val/{train,test,sample_submission}.csv   nested validation split
//	private_val/test.csv                            nested, grading
func WriteRun(root string, result *pipeline.RunResult) ([]string, error) {
	type artifact struct {
		path string
		c    *dataset.Collection
	}
	artifacts := []artifact{
		{filepath.Join(root, DirPublic, "train.csv"), result.Primary.Partition.Train},
		{filepath.Join(root, DirPublic, "test.csv"), result.Primary.Views.Public},
		{filepath.Join(root, DirPublic, "sample_submission.csv"), result.Primary.Views.Placeholder},
		{filepath.Join(root, DirPrivate, "test.csv"), result.Primary.Views.Private},
		{filepath.Join(root, DirPublicVal, "train.csv"), result.Nested.Partition.Train},
		{filepath.Join(root, DirPublicVal, "test.csv"), result.Nested.Views.Public},
		{filepath.Join(root, DirPublicVal, "sample_submission.csv"), result.Nested.Views.Placeholder},
		{filepath.Join(root, DirPrivateVal, "test.csv"), result.Nested.Views.Private},
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if err := WriteCSV(a.path, a.c); err != nil {
			return nil, err
		}
		paths = append(paths, a.path)
	}
	return paths, nil
}
