package split

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/benchsplit/internal/keys"
)

func rowUnits(n int) []keys.Unit {
	units := make([]keys.Unit, n)
	for i := range units {
		units[i] = keys.Unit{Key: fmt.Sprintf("%d", i), Indices: []int{i}}
	}
	return units
}

func keySet(units []keys.Unit) map[string]bool {
	set := make(map[string]bool, len(units))
	for _, u := range units {
		set[u.Key] = true
	}
	return set
}

func TestSpec_Validate(t *testing.T) {
	ratio := 0.1
	count := 5

	assert.NoError(t, RatioSpec(0.1, 0).Validate())
	assert.NoError(t, CountSpec(0, 0).Validate())

	assert.Error(t, Spec{Ratio: &ratio, Count: &count}.Validate(), "both modes set")
	assert.Error(t, Spec{Seed: 1}.Validate(), "neither mode set")
	assert.Error(t, RatioSpec(0, 0).Validate())
	assert.Error(t, RatioSpec(1, 0).Validate())
	assert.Error(t, CountSpec(-1, 0).Validate())
}

func TestSplit_RatioMode_FloorsTestSize(t *testing.T) {
	// floor(0.25 * 10) = 2; the fractional remainder stays in train
	res, err := Split(rowUnits(10), RatioSpec(0.25, 42))
	require.NoError(t, err)
	assert.Len(t, res.Test, 2)
	assert.Len(t, res.Train, 8)
}

func TestSplit_CountMode_Exact(t *testing.T) {
	res, err := Split(rowUnits(10), CountSpec(3, 42))
	require.NoError(t, err)
	assert.Len(t, res.Test, 3)
	assert.Len(t, res.Train, 7)
}

func TestSplit_Deterministic(t *testing.T) {
	a, err := Split(rowUnits(100), RatioSpec(0.1, 7))
	require.NoError(t, err)
	b, err := Split(rowUnits(100), RatioSpec(0.1, 7))
	require.NoError(t, err)

	assert.Equal(t, a.Train, b.Train)
	assert.Equal(t, a.Test, b.Test)
}

func TestSplit_SeedChangesAssignment(t *testing.T) {
	a, err := Split(rowUnits(100), RatioSpec(0.1, 0))
	require.NoError(t, err)
	b, err := Split(rowUnits(100), RatioSpec(0.1, 1))
	require.NoError(t, err)

	assert.NotEqual(t, keySet(a.Test), keySet(b.Test))
}

func TestSplit_IndependentOfUnitContents(t *testing.T) {
	// Same (N, seed): assignment by position is identical whatever the keys are
	a, err := Split(rowUnits(50), RatioSpec(0.2, 9))
	require.NoError(t, err)

	renamed := make([]keys.Unit, 50)
	for i := range renamed {
		renamed[i] = keys.Unit{Key: fmt.Sprintf("unit-%c", 'a'+i%26) + fmt.Sprint(i), Indices: []int{i}}
	}
	b, err := Split(renamed, RatioSpec(0.2, 9))
	require.NoError(t, err)

	require.Len(t, b.Test, len(a.Test))
	for i := range a.Test {
		assert.Equal(t, a.Test[i].Indices, b.Test[i].Indices, "position %d assigned differently", i)
	}
}

func TestSplit_DisjointAndConserving(t *testing.T) {
	units := rowUnits(100)
	res, err := Split(units, RatioSpec(0.1, 0))
	require.NoError(t, err)

	assert.Len(t, res.Test, 10)
	assert.Len(t, res.Train, 90)

	trainSet := keySet(res.Train)
	testSet := keySet(res.Test)
	for k := range testSet {
		assert.False(t, trainSet[k], "key %s leaked into both sides", k)
	}

	union := keySet(append(append([]keys.Unit{}, res.Train...), res.Test...))
	assert.Len(t, union, 100)
}

func TestSplit_EmptyPopulation(t *testing.T) {
	_, err := Split(nil, RatioSpec(0.1, 0))
	var empty *EmptyCollectionError
	require.ErrorAs(t, err, &empty)
}

func TestSplit_CountExceedsPopulation(t *testing.T) {
	_, err := Split(rowUnits(5), CountSpec(6, 0))
	var size *InvalidSplitSizeError
	require.ErrorAs(t, err, &size)
	assert.Equal(t, 6, size.Requested)
	assert.Equal(t, 5, size.Population)
}

func TestSplit_CountEqualsPopulation(t *testing.T) {
	// Degenerate but legal: everything goes to test
	res, err := Split(rowUnits(4), CountSpec(4, 0))
	require.NoError(t, err)
	assert.Empty(t, res.Train)
	assert.Len(t, res.Test, 4)
}

func TestDeriveNestedRatio_Identity(t *testing.T) {
	p, err := DeriveNestedRatio(0.1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/9.0, p, 1e-12)

	_, err = DeriveNestedRatio(1.0)
	var ratioErr *InvalidRatioError
	assert.ErrorAs(t, err, &ratioErr)

	_, err = DeriveNestedRatio(0)
	assert.Error(t, err)
}

func TestNestedSpec_RatioParent(t *testing.T) {
	child, err := NestedSpec(RatioSpec(0.1, 5))
	require.NoError(t, err)
	require.NotNil(t, child.Ratio)
	assert.InDelta(t, 1.0/9.0, *child.Ratio, 1e-12)
	assert.Equal(t, int64(5), child.Seed)
}

func TestNestedSpec_CountParentReusesCount(t *testing.T) {
	child, err := NestedSpec(CountSpec(100, 5))
	require.NoError(t, err)
	require.NotNil(t, child.Count)
	assert.Equal(t, 100, *child.Count)
	assert.Nil(t, child.Ratio)
}

func TestNestedSplit_MatchesParentTestSize(t *testing.T) {
	// Primary: 1000 units at ratio 0.1 -> test=100, train=900.
	// Nested: 900 units at ratio 1/9 -> test_val=100 (+-1 from rounding).
	primary, err := Split(rowUnits(1000), RatioSpec(0.1, 0))
	require.NoError(t, err)
	require.Len(t, primary.Test, 100)
	require.Len(t, primary.Train, 900)

	childSpec, err := NestedSpec(RatioSpec(0.1, 0))
	require.NoError(t, err)

	nested, err := Split(primary.Train, childSpec)
	require.NoError(t, err)
	assert.InDelta(t, 100, len(nested.Test), 1)
	assert.Equal(t, 900, len(nested.Train)+len(nested.Test))
}
