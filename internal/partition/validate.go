package partition

import (
	"fmt"
)

// State is a lifecycle position of a partition under validation.
type State string

const (
	StateLoaded    State = "loaded"
	StateSplit     State = "split"
	StateValidated State = "validated"
	StateRepaired  State = "repaired"
	StateFinalized State = "finalized"
)

// Config declares what the validator enforces beyond the structural
// invariants, which are always checked.
type Config struct {
	// LabelFields are the declared label columns. Used by the projector;
	// listed here so validation can reject label fields missing from the
	// source schema before any artifact work begins.
	LabelFields []string

	// MustVaryField, when set, names a label column that must have at least
	// two distinct values in the test partition (downstream rank-correlation
	// metrics are undefined on a constant column). Empty disables the check.
	MustVaryField string

	// ClassFields, when set, name class-label columns guarded against class
	// loss: every class present in the source must survive into train or
	// test. This is NOT stratification - no balance between the partitions
	// is enforced.
	ClassFields []string
}

// Validate runs the invariant checks and the single-pass degenerate repair.
//
// Returns the finalized partition (the receiver, or the repaired copy), the
// lifecycle states traversed, and the first violation encountered. At most
// one repair is attempted; a violation after repair is fatal.
func (p *Partition) Validate(cfg Config) (*Partition, []State, error) {
	states := []State{StateLoaded, StateSplit}

	if err := p.checkStructural(cfg); err != nil {
		return nil, states, err
	}
	states = append(states, StateValidated)

	degenerate, value, err := p.degenerateValue(cfg.MustVaryField)
	if err != nil {
		return nil, states, err
	}
	if !degenerate {
		states = append(states, StateFinalized)
		return p, states, nil
	}

	repaired, err := p.repairDegenerate(cfg.MustVaryField, value)
	if err != nil {
		return nil, states, err
	}
	states = append(states, StateRepaired)

	// Repaired self-loop: re-run the structural checks once.
	if err := repaired.checkStructural(cfg); err != nil {
		return nil, states, fmt.Errorf("after repair: %w", err)
	}
	stillDegenerate, _, err := repaired.degenerateValue(cfg.MustVaryField)
	if err != nil {
		return nil, states, err
	}
	if stillDegenerate {
		return nil, states, newViolation(CodeDegenerateLabel,
			"column %q still constant in test partition after repair", cfg.MustVaryField)
	}
	states = append(states, StateValidated, StateFinalized)
	return repaired, states, nil
}

// checkStructural runs invariant checks 1-3 plus the class-loss guard.
func (p *Partition) checkStructural(cfg Config) error {
	// 1. Key disjointness
	trainKeys := make(map[string]bool, len(p.TrainUnits))
	for _, u := range p.TrainUnits {
		trainKeys[u.Key] = true
	}
	for _, u := range p.TestUnits {
		if trainKeys[u.Key] {
			return newViolation(CodeKeyOverlap, "unit key %q assigned to both train and test", u.Key)
		}
	}

	// 2. Size conservation, counting member records
	if got := p.Train.Len() + p.Test.Len(); got != p.Source.Len() {
		return newViolation(CodeSizeMismatch,
			"train (%d) + test (%d) = %d records, source has %d",
			p.Train.Len(), p.Test.Len(), got, p.Source.Len())
	}

	// 3. Schema equivalence against the source
	if !p.Train.Schema().Equal(p.Source.Schema()) {
		return newViolation(CodeSchemaMismatch, "train schema diverges from source")
	}
	if !p.Test.Schema().Equal(p.Source.Schema()) {
		return newViolation(CodeSchemaMismatch, "test schema diverges from source")
	}
	for _, f := range cfg.LabelFields {
		if !p.Source.Schema().Has(f) {
			return newViolation(CodeSchemaMismatch, "declared label field %q not in source schema", f)
		}
	}

	// 5. Class presence. Conservation nearly implies this; it still guards
	// against composition bugs that drop records rather than misroute them.
	for _, f := range cfg.ClassFields {
		if err := p.checkClassPresence(f); err != nil {
			return err
		}
	}
	return nil
}

func (p *Partition) checkClassPresence(field string) error {
	sourceCol, err := p.Source.Column(field)
	if err != nil {
		return newViolation(CodeSchemaMismatch, "class field %q not in source schema", field)
	}
	present := make(map[string]bool)
	trainCol, err := p.Train.Column(field)
	if err != nil {
		return err
	}
	testCol, err := p.Test.Column(field)
	if err != nil {
		return err
	}
	for _, v := range trainCol {
		present[v] = true
	}
	for _, v := range testCol {
		present[v] = true
	}
	for _, v := range sourceCol {
		if !present[v] {
			return newViolation(CodeClassLoss,
				"class %q of field %q present in source but lost from both partitions", v, field)
		}
	}
	return nil
}

// degenerateValue reports whether the must-vary column is constant within
// the test partition, and if so, the constant value. An empty field name or
// an empty test partition disables the check.
func (p *Partition) degenerateValue(field string) (bool, string, error) {
	if field == "" || p.Test.Len() == 0 {
		return false, "", nil
	}
	col, err := p.Test.Column(field)
	if err != nil {
		return false, "", newViolation(CodeSchemaMismatch, "must-vary field %q not in schema", field)
	}
	first := col[0]
	for _, v := range col[1:] {
		if v != first {
			return false, "", nil
		}
	}
	return true, first, nil
}
