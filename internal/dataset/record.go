package dataset

import (
	"fmt"
	"slices"
)

// Record is a single row: field name -> raw value.
// Values are kept as the source's raw strings; the engine never parses them.
type Record map[string]string

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Schema is an immutable set of field names.
// Fields are stored sorted so that comparison and serialization are
// order-independent regardless of how the schema was declared.
type Schema struct {
	fields []string
}

// NewSchema creates a schema from field names.
// Duplicate names are rejected - a schema is a set.
func NewSchema(fields ...string) (Schema, error) {
	sorted := slices.Clone(fields)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return Schema{}, fmt.Errorf("duplicate field %q in schema", sorted[i])
		}
	}
	return Schema{fields: sorted}, nil
}

// MustSchema is NewSchema that panics on error. For tests and literals.
func MustSchema(fields ...string) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the field names in sorted order. The caller must not mutate
// the returned slice; a copy is returned to keep Schema immutable.
func (s Schema) Fields() []string {
	return slices.Clone(s.fields)
}

// Len returns the number of fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// Has reports whether the schema contains the field.
func (s Schema) Has(field string) bool {
	_, ok := slices.BinarySearch(s.fields, field)
	return ok
}

// Equal reports whether two schemas have identical field sets.
func (s Schema) Equal(other Schema) bool {
	return slices.Equal(s.fields, other.fields)
}

// Without returns a new schema with the given fields removed.
// Removing a field the schema does not have is an error: it almost always
// means a mistyped label-field name in the caller's configuration.
func (s Schema) Without(drop ...string) (Schema, error) {
	out := slices.Clone(s.fields)
	for _, d := range drop {
		idx, ok := slices.BinarySearch(out, d)
		if !ok {
			return Schema{}, fmt.Errorf("schema has no field %q", d)
		}
		out = slices.Delete(out, idx, idx+1)
	}
	return Schema{fields: out}, nil
}

// Collection is an ordered sequence of Records sharing one Schema.
//
// Collections are immutable: every transformation (Select, WithoutFields,
// projections) produces a new Collection and leaves the source untouched.
type Collection struct {
	schema  Schema
	records []Record
}

// NewCollection builds a collection, enforcing schema uniformity:
// every record must have exactly the schema's field set.
func NewCollection(schema Schema, records []Record) (*Collection, error) {
	for i, r := range records {
		if len(r) != schema.Len() {
			return nil, fmt.Errorf("record %d has %d fields, schema has %d", i, len(r), schema.Len())
		}
		for f := range r {
			if !schema.Has(f) {
				return nil, fmt.Errorf("record %d has field %q not in schema", i, f)
			}
		}
	}
	return &Collection{schema: schema, records: records}, nil
}

// Schema returns the collection's schema.
func (c *Collection) Schema() Schema {
	return c.schema
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Record returns the record at index i. The returned map must be treated as
// read-only; mutating it would break the immutability contract.
func (c *Collection) Record(i int) Record {
	return c.records[i]
}

// Records returns the underlying record slice for iteration.
// Read-only, same contract as Record.
func (c *Collection) Records() []Record {
	return c.records
}

// Value returns the value of field at record index i.
func (c *Collection) Value(i int, field string) (string, error) {
	if !c.schema.Has(field) {
		return "", fmt.Errorf("collection has no field %q", field)
	}
	return c.records[i][field], nil
}

// Column returns all values of one field in record order.
func (c *Collection) Column(field string) ([]string, error) {
	if !c.schema.Has(field) {
		return nil, fmt.Errorf("collection has no field %q", field)
	}
	out := make([]string, len(c.records))
	for i, r := range c.records {
		out[i] = r[field]
	}
	return out, nil
}

// Select returns a new collection containing the records at the given
// indices, in the given order. Indices must be in range.
func (c *Collection) Select(indices []int) (*Collection, error) {
	records := make([]Record, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(c.records) {
			return nil, fmt.Errorf("index %d out of range [0,%d)", idx, len(c.records))
		}
		records[i] = c.records[idx]
	}
	return &Collection{schema: c.schema, records: records}, nil
}

// WithoutFields returns a new collection with the given fields stripped from
// the schema and from every record. Records are copied; the source collection
// is unchanged.
func (c *Collection) WithoutFields(drop ...string) (*Collection, error) {
	schema, err := c.schema.Without(drop...)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(c.records))
	for i, r := range c.records {
		nr := make(Record, schema.Len())
		for _, f := range schema.fields {
			nr[f] = r[f]
		}
		records[i] = nr
	}
	return &Collection{schema: schema, records: records}, nil
}

// WithFieldValue returns a new collection where every record's field is set
// to value. The field must already exist in the schema. Used by the
// placeholder-submission projection.
func (c *Collection) WithFieldValue(field, value string) (*Collection, error) {
	if !c.schema.Has(field) {
		return nil, fmt.Errorf("collection has no field %q", field)
	}
	records := make([]Record, len(c.records))
	for i, r := range c.records {
		nr := r.Clone()
		nr[field] = value
		records[i] = nr
	}
	return &Collection{schema: c.schema, records: records}, nil
}

// Concat returns a new collection with other's records appended to c's.
// Both collections must share the same schema.
func (c *Collection) Concat(other *Collection) (*Collection, error) {
	if !c.schema.Equal(other.schema) {
		return nil, fmt.Errorf("cannot concat collections with different schemas")
	}
	records := make([]Record, 0, len(c.records)+len(other.records))
	records = append(records, c.records...)
	records = append(records, other.records...)
	return &Collection{schema: c.schema, records: records}, nil
}
