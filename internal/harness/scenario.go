package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/benchsplit/internal/manifest"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden
	// fixture name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Manifest is the inline preparation manifest. It goes through the
	// same schema validation as an on-disk manifest.
	Manifest map[string]any `yaml:"manifest"`

	// Records is the inline source data. All records must share one field
	// set; values are raw strings, quote numbers in the YAML.
	Records []map[string]string `yaml:"records"`

	// Assertions validate the run outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a scenario run.
type Assertion struct {
	// Type is one of the Assert* constants below.
	Type string `yaml:"type"`

	// Stage selects "primary" or "nested". Required by every type except
	// trace_count.
	Stage string `yaml:"stage,omitempty"`

	// Count is the expected value for test_size and trace_count.
	Count int `yaml:"count,omitempty"`

	// Fields is the expected public-view schema for public_schema.
	Fields []string `yaml:"fields,omitempty"`
}

// Assertion type constants.
const (
	AssertTestSize     = "test_size"     // test side has exactly Count units
	AssertDisjoint     = "disjoint"      // no key on both sides
	AssertConservation = "conservation"  // member records add up to the stage source
	AssertPublicSchema = "public_schema" // public view has exactly Fields
	AssertTraceCount   = "trace_count"   // run emitted exactly Count events
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected to catch typos like "assertion:" for "assertions:".
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if s.Name == "" {
		return nil, fmt.Errorf("scenario missing name")
	}
	if len(s.Records) == 0 {
		return nil, fmt.Errorf("scenario %q has no records", s.Name)
	}
	if s.Manifest == nil {
		return nil, fmt.Errorf("scenario %q has no manifest", s.Name)
	}
	for _, a := range s.Assertions {
		if err := checkAssertionShape(a); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return &s, nil
}

func checkAssertionShape(a Assertion) error {
	switch a.Type {
	case AssertTestSize, AssertDisjoint, AssertConservation:
		if a.Stage != "primary" && a.Stage != "nested" {
			return fmt.Errorf("assertion %q needs stage primary|nested, got %q", a.Type, a.Stage)
		}
	case AssertPublicSchema:
		if a.Stage != "primary" && a.Stage != "nested" {
			return fmt.Errorf("assertion %q needs stage primary|nested, got %q", a.Type, a.Stage)
		}
		if len(a.Fields) == 0 {
			return fmt.Errorf("assertion %q needs fields", a.Type)
		}
	case AssertTraceCount:
		if a.Count <= 0 {
			return fmt.Errorf("assertion %q needs a positive count", a.Type)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// manifestFor re-marshals the inline manifest and runs it through the
// regular loader, so scenarios get identical validation to on-disk
// manifests.
func (s *Scenario) manifestFor() (*manifest.Manifest, error) {
	data, err := yaml.Marshal(s.Manifest)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: marshal inline manifest: %w", s.Name, err)
	}
	m, err := manifest.Parse(data, s.Name+".manifest")
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return m, nil
}
