package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchema_SortsFields(t *testing.T) {
	s, err := NewSchema("target", "id", "feature")
	require.NoError(t, err)
	assert.Equal(t, []string{"feature", "id", "target"}, s.Fields())
}

func TestNewSchema_RejectsDuplicates(t *testing.T) {
	_, err := NewSchema("id", "target", "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestSchema_Equal_OrderIndependent(t *testing.T) {
	a := MustSchema("id", "target")
	b := MustSchema("target", "id")
	assert.True(t, a.Equal(b))
}

func TestSchema_Without(t *testing.T) {
	s := MustSchema("id", "feature", "target")

	stripped, err := s.Without("target")
	require.NoError(t, err)
	assert.Equal(t, []string{"feature", "id"}, stripped.Fields())

	// Source schema unchanged
	assert.Equal(t, []string{"feature", "id", "target"}, s.Fields())
}

func TestSchema_Without_UnknownFieldFails(t *testing.T) {
	s := MustSchema("id", "target")
	_, err := s.Without("tarqet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"tarqet"`)
}

func TestNewCollection_EnforcesSchemaUniformity(t *testing.T) {
	schema := MustSchema("id", "target")

	_, err := NewCollection(schema, []Record{
		{"id": "1", "target": "a"},
		{"id": "2"}, // missing target
	})
	require.Error(t, err)

	_, err = NewCollection(schema, []Record{
		{"id": "1", "extra": "x"}, // wrong field
	})
	require.Error(t, err)
}

func TestCollection_Select_PreservesOrderAndSource(t *testing.T) {
	schema := MustSchema("id")
	c, err := NewCollection(schema, []Record{
		{"id": "a"}, {"id": "b"}, {"id": "c"},
	})
	require.NoError(t, err)

	sub, err := c.Select([]int{2, 0})
	require.NoError(t, err)
	require.Equal(t, 2, sub.Len())
	assert.Equal(t, "c", sub.Record(0)["id"])
	assert.Equal(t, "a", sub.Record(1)["id"])

	assert.Equal(t, 3, c.Len(), "source collection must be unchanged")
}

func TestCollection_Select_OutOfRange(t *testing.T) {
	schema := MustSchema("id")
	c, err := NewCollection(schema, []Record{{"id": "a"}})
	require.NoError(t, err)

	_, err = c.Select([]int{1})
	assert.Error(t, err)
}

func TestCollection_WithoutFields_StripsLabel(t *testing.T) {
	schema := MustSchema("id", "feature", "target")
	c, err := NewCollection(schema, []Record{
		{"id": "1", "feature": "x", "target": "pos"},
	})
	require.NoError(t, err)

	public, err := c.WithoutFields("target")
	require.NoError(t, err)
	assert.Equal(t, []string{"feature", "id"}, public.Schema().Fields())
	assert.Equal(t, Record{"id": "1", "feature": "x"}, public.Record(0))

	// Source record still carries the label
	assert.Equal(t, "pos", c.Record(0)["target"])
}

func TestCollection_WithFieldValue(t *testing.T) {
	schema := MustSchema("id", "target")
	c, err := NewCollection(schema, []Record{
		{"id": "1", "target": "pos"},
		{"id": "2", "target": "neg"},
	})
	require.NoError(t, err)

	filled, err := c.WithFieldValue("target", "0")
	require.NoError(t, err)
	assert.Equal(t, "0", filled.Record(0)["target"])
	assert.Equal(t, "0", filled.Record(1)["target"])
	assert.Equal(t, "pos", c.Record(0)["target"], "source unchanged")
}

func TestCollection_Column(t *testing.T) {
	schema := MustSchema("id", "target")
	c, err := NewCollection(schema, []Record{
		{"id": "1", "target": "a"},
		{"id": "2", "target": "b"},
	})
	require.NoError(t, err)

	col, err := c.Column("target")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, col)

	_, err = c.Column("missing")
	assert.Error(t, err)
}

func TestCollection_Concat_RequiresEqualSchemas(t *testing.T) {
	a, err := NewCollection(MustSchema("id"), []Record{{"id": "1"}})
	require.NoError(t, err)
	b, err := NewCollection(MustSchema("id"), []Record{{"id": "2"}})
	require.NoError(t, err)

	merged, err := a.Concat(b)
	require.NoError(t, err)
	assert.Equal(t, 2, merged.Len())

	other, err := NewCollection(MustSchema("key"), []Record{{"key": "x"}})
	require.NoError(t, err)
	_, err = a.Concat(other)
	assert.Error(t, err)
}
