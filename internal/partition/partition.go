package partition

import (
	"fmt"

	"github.com/roach88/benchsplit/internal/dataset"
	"github.com/roach88/benchsplit/internal/keys"
)

// Partition is the immutable outcome of one split over a source collection:
// the unit assignment plus the materialized train/test collections.
type Partition struct {
	Source *dataset.Collection

	TrainUnits []keys.Unit
	TestUnits  []keys.Unit

	Train *dataset.Collection
	Test  *dataset.Collection
}

// New materializes a partition from a unit assignment. Member records are
// selected in unit order, members in source order within each unit.
func New(source *dataset.Collection, trainUnits, testUnits []keys.Unit) (*Partition, error) {
	train, err := source.Select(keys.MemberIndices(trainUnits))
	if err != nil {
		return nil, fmt.Errorf("materialize train: %w", err)
	}
	test, err := source.Select(keys.MemberIndices(testUnits))
	if err != nil {
		return nil, fmt.Errorf("materialize test: %w", err)
	}
	return &Partition{
		Source:     source,
		TrainUnits: trainUnits,
		TestUnits:  testUnits,
		Train:      train,
		Test:       test,
	}, nil
}

// TrainKeys returns the train-side unit keys in assignment order.
func (p *Partition) TrainKeys() []string {
	return keys.Keys(p.TrainUnits)
}

// TestKeys returns the test-side unit keys in assignment order.
func (p *Partition) TestKeys() []string {
	return keys.Keys(p.TestUnits)
}

// Fingerprints returns the key-set fingerprints of both sides.
func (p *Partition) Fingerprints() (train, test string, err error) {
	train, err = dataset.KeySetFingerprint(p.TrainKeys())
	if err != nil {
		return "", "", err
	}
	test, err = dataset.KeySetFingerprint(p.TestKeys())
	if err != nil {
		return "", "", err
	}
	return train, test, nil
}
