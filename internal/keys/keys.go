// Package keys maps a record collection to partitioning units.
//
// A unit is the atomic object the splitter assigns to train or test: a single
// row, or a whole group of rows sharing a key. Group-level extraction exists
// to prevent leakage - a real-world entity (patient, molecule, breath) must
// never contribute rows to both sides of a split.
//
// The extraction strategy is selected at configuration time. The three
// strategies differ only in how they derive the unit key, so they share one
// small interface rather than a type hierarchy.
package keys

import (
	"fmt"
	"regexp"

	"github.com/roach88/benchsplit/internal/dataset"
)

// Unit is one partitioning unit: a key plus the indices of its member
// records in the source collection. Indices are in source order.
type Unit struct {
	Key     string
	Indices []int
}

// Size returns the number of member records.
func (u Unit) Size() int {
	return len(u.Indices)
}

// Extractor derives partitioning units from a collection.
//
// Implementations must be deterministic: the same collection always yields
// the same units in the same order (source order of first appearance).
type Extractor interface {
	ExtractUnits(c *dataset.Collection) ([]Unit, error)
}

// DuplicateKeyError reports two rows sharing a key in a row-level
// collection. The caller must resolve the duplicate before splitting;
// silently deduplicating would hide a data bug.
type DuplicateKeyError struct {
	Key    string
	First  int // record index of the first occurrence
	Second int // record index of the duplicate
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q: records %d and %d", e.Key, e.First, e.Second)
}

// RowExtractor treats every record as its own unit, keyed by KeyField.
type RowExtractor struct {
	KeyField string
}

// ExtractUnits returns one unit per record. Fails with DuplicateKeyError if
// two records share a key.
func (x RowExtractor) ExtractUnits(c *dataset.Collection) ([]Unit, error) {
	col, err := c.Column(x.KeyField)
	if err != nil {
		return nil, fmt.Errorf("row extractor: %w", err)
	}
	seen := make(map[string]int, len(col))
	units := make([]Unit, len(col))
	for i, key := range col {
		if key == "" {
			return nil, fmt.Errorf("row extractor: record %d has empty key field %q", i, x.KeyField)
		}
		if first, ok := seen[key]; ok {
			return nil, &DuplicateKeyError{Key: key, First: first, Second: i}
		}
		seen[key] = i
		units[i] = Unit{Key: key, Indices: []int{i}}
	}
	return units, nil
}

// GroupExtractor forms one unit per distinct value of GroupField.
// All records sharing a group key travel together through the split.
type GroupExtractor struct {
	GroupField string
}

// ExtractUnits returns units in order of first appearance of each group key.
func (x GroupExtractor) ExtractUnits(c *dataset.Collection) ([]Unit, error) {
	col, err := c.Column(x.GroupField)
	if err != nil {
		return nil, fmt.Errorf("group extractor: %w", err)
	}
	return groupByKey(col, x.GroupField)
}

// ManifestExtractor derives unit keys from a filename field by applying a
// pattern with exactly one capture group (typically stripping a numeric
// suffix, e.g. `^(.*?)_\d+\.wav$`). Files whose derived keys match are
// grouped into one unit.
type ManifestExtractor struct {
	FileField string
	Pattern   *regexp.Regexp
}

// ExtractUnits returns units in order of first appearance of each derived key.
func (x ManifestExtractor) ExtractUnits(c *dataset.Collection) ([]Unit, error) {
	col, err := c.Column(x.FileField)
	if err != nil {
		return nil, fmt.Errorf("manifest extractor: %w", err)
	}
	if x.Pattern == nil {
		return nil, fmt.Errorf("manifest extractor: pattern is required")
	}
	if x.Pattern.NumSubexp() != 1 {
		return nil, fmt.Errorf("manifest extractor: pattern %q must have exactly one capture group, has %d",
			x.Pattern.String(), x.Pattern.NumSubexp())
	}
	derived := make([]string, len(col))
	for i, name := range col {
		m := x.Pattern.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("manifest extractor: filename %q does not match pattern %q", name, x.Pattern.String())
		}
		derived[i] = m[1]
	}
	return groupByKey(derived, x.FileField)
}

// groupByKey builds units from a per-record key column, ordered by first
// appearance. Empty keys are rejected - they would silently merge unrelated
// records into one unit.
func groupByKey(col []string, field string) ([]Unit, error) {
	index := make(map[string]int, len(col))
	var units []Unit
	for i, key := range col {
		if key == "" {
			return nil, fmt.Errorf("record %d has empty key derived from field %q", i, field)
		}
		if pos, ok := index[key]; ok {
			units[pos].Indices = append(units[pos].Indices, i)
			continue
		}
		index[key] = len(units)
		units = append(units, Unit{Key: key, Indices: []int{i}})
	}
	return units, nil
}

// Keys returns the unit keys in unit order.
func Keys(units []Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Key
	}
	return out
}

// MemberCount returns the total number of member records across units.
func MemberCount(units []Unit) int {
	n := 0
	for _, u := range units {
		n += u.Size()
	}
	return n
}

// MemberIndices returns all member record indices across units, in unit
// order then member order. The result indexes into the source collection.
func MemberIndices(units []Unit) []int {
	out := make([]int, 0, MemberCount(units))
	for _, u := range units {
		out = append(out, u.Indices...)
	}
	return out
}
