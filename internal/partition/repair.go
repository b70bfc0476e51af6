package partition

import (
	"slices"
)

// repairDegenerate swaps one unit between train and test so that the
// must-vary column regains variance in the test partition.
//
// The repair is deterministic, not a retry loop: the first train unit with
// any member whose value differs from the degenerate one is swapped with the
// first test unit. If no train unit can supply a differing value the column
// is constant across the whole source and the violation is unrepairable.
func (p *Partition) repairDegenerate(field, degenerate string) (*Partition, error) {
	if len(p.TestUnits) == 0 {
		return nil, newViolation(CodeDegenerateLabel, "cannot repair an empty test partition")
	}

	donor := -1
	for i, u := range p.TrainUnits {
		for _, idx := range u.Indices {
			v, err := p.Source.Value(idx, field)
			if err != nil {
				return nil, err
			}
			if v != degenerate {
				donor = i
				break
			}
		}
		if donor >= 0 {
			break
		}
	}
	if donor < 0 {
		return nil, newViolation(CodeDegenerateLabel,
			"column %q is constant (%q) across the whole source, repair impossible", field, degenerate)
	}

	newTrain := slices.Clone(p.TrainUnits)
	newTest := slices.Clone(p.TestUnits)
	newTrain[donor], newTest[0] = newTest[0], newTrain[donor]

	return New(p.Source, newTrain, newTest)
}
