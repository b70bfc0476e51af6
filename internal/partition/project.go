package partition

import (
	"fmt"

	"github.com/roach88/benchsplit/internal/dataset"
)

// Views are the three standard downstream projections of a finalized
// partition's test side.
type Views struct {
	// Private is the grading view: full test records including labels.
	Private *dataset.Collection

	// Public is the participant view: test records with label fields stripped.
	Public *dataset.Collection

	// Placeholder is the sample-submission view: the key column plus the
	// label columns filled with the declared neutral placeholder.
	Placeholder *dataset.Collection
}

// DefaultPlaceholder fills label columns in the sample-submission view when
// no placeholder is declared for them.
const DefaultPlaceholder = "0"

// Project derives the three views. Pure schema transformation, no randomness.
//
// keyField is the column participants join submissions on; labelFields are
// stripped from the public view and filled with placeholders in the
// sample-submission view. placeholders maps label field -> neutral value and
// may be nil; missing entries fall back to DefaultPlaceholder.
func (p *Partition) Project(keyField string, labelFields []string, placeholders map[string]string) (Views, error) {
	if !p.Test.Schema().Has(keyField) {
		return Views{}, fmt.Errorf("project: key field %q not in schema", keyField)
	}
	if len(labelFields) == 0 {
		return Views{}, fmt.Errorf("project: no label fields declared")
	}
	for _, f := range labelFields {
		if f == keyField {
			return Views{}, fmt.Errorf("project: key field %q cannot also be a label field", keyField)
		}
	}

	public, err := p.Test.WithoutFields(labelFields...)
	if err != nil {
		return Views{}, fmt.Errorf("project public view: %w", err)
	}

	keep := append([]string{keyField}, labelFields...)
	var drop []string
	for _, f := range p.Test.Schema().Fields() {
		kept := false
		for _, k := range keep {
			if f == k {
				kept = true
				break
			}
		}
		if !kept {
			drop = append(drop, f)
		}
	}
	placeholder := p.Test
	if len(drop) > 0 {
		placeholder, err = p.Test.WithoutFields(drop...)
		if err != nil {
			return Views{}, fmt.Errorf("project placeholder view: %w", err)
		}
	}
	for _, f := range labelFields {
		value := DefaultPlaceholder
		if v, ok := placeholders[f]; ok {
			value = v
		}
		placeholder, err = placeholder.WithFieldValue(f, value)
		if err != nil {
			return Views{}, fmt.Errorf("project placeholder view: %w", err)
		}
	}

	return Views{
		Private:     p.Test,
		Public:      public,
		Placeholder: placeholder,
	}, nil
}
