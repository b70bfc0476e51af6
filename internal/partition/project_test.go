package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/benchsplit/internal/dataset"
)

func projectFixture(t *testing.T) *Partition {
	t.Helper()
	records := make([]dataset.Record, 4)
	for i := range records {
		records[i] = dataset.Record{
			"id":      fmt.Sprintf("%d", i),
			"feature": fmt.Sprintf("f%d", i),
			"target":  fmt.Sprintf("%d", i%2),
		}
	}
	src, err := dataset.NewCollection(dataset.MustSchema("id", "feature", "target"), records)
	require.NoError(t, err)
	p, err := New(src, unitsFor(0, 1), unitsFor(2, 3))
	require.NoError(t, err)
	return p
}

func TestProject_PrivateKeepsLabels(t *testing.T) {
	views, err := projectFixture(t).Project("id", []string{"target"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"feature", "id", "target"}, views.Private.Schema().Fields())
	assert.Equal(t, "0", views.Private.Record(0)["target"])
}

func TestProject_PublicStripsLabels(t *testing.T) {
	views, err := projectFixture(t).Project("id", []string{"target"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"feature", "id"}, views.Public.Schema().Fields())
	assert.Equal(t, 2, views.Public.Len())
	assert.Equal(t, "2", views.Public.Record(0)["id"])
}

func TestProject_PlaceholderFillsLabels(t *testing.T) {
	views, err := projectFixture(t).Project("id", []string{"target"}, map[string]string{"target": "0.5"})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "target"}, views.Placeholder.Schema().Fields())
	for _, r := range views.Placeholder.Records() {
		assert.Equal(t, "0.5", r["target"])
	}
}

func TestProject_PlaceholderDefault(t *testing.T) {
	views, err := projectFixture(t).Project("id", []string{"target"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPlaceholder, views.Placeholder.Record(0)["target"])
}

func TestProject_SourceUnchanged(t *testing.T) {
	p := projectFixture(t)
	_, err := p.Project("id", []string{"target"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature", "id", "target"}, p.Test.Schema().Fields())
}

func TestProject_RejectsBadConfig(t *testing.T) {
	p := projectFixture(t)

	_, err := p.Project("row", []string{"target"}, nil)
	assert.Error(t, err, "unknown key field")

	_, err = p.Project("id", nil, nil)
	assert.Error(t, err, "no labels declared")

	_, err = p.Project("id", []string{"id"}, nil)
	assert.Error(t, err, "key field doubling as label")
}
