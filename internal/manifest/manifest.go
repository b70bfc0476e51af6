// Package manifest loads and validates preparation manifests.
//
// A manifest is the caller-facing configuration surface of the engine: unit
// extraction strategy, label declaration, and split parameters. Manifests are
// YAML on disk; parsing is strict (unknown fields are rejected) and the
// parsed document is unified with an embedded CUE schema before any
// cross-field checks run, so configuration typos fail at load time rather
// than surfacing as invariant violations mid-run.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"

	goyaml "gopkg.in/yaml.v3"

	"github.com/roach88/benchsplit/internal/dataset"
	"github.com/roach88/benchsplit/internal/keys"
	"github.com/roach88/benchsplit/internal/partition"
	"github.com/roach88/benchsplit/internal/split"
)

// Strategy names accepted by unit.strategy.
const (
	StrategyRow      = "row"
	StrategyGroup    = "group"
	StrategyManifest = "manifest"
)

// Split mode names accepted by split.mode.
const (
	ModeRatio = "ratio"
	ModeCount = "count"
)

// Manifest is one preparation run's configuration.
type Manifest struct {
	Name   string       `yaml:"name"`
	Unit   UnitConfig   `yaml:"unit"`
	Labels LabelConfig  `yaml:"labels"`
	Split  SplitConfig  `yaml:"split"`
}

// UnitConfig selects the key-extraction strategy.
// Exactly the fields of the chosen strategy may be set.
type UnitConfig struct {
	Strategy   string `yaml:"strategy"`
	KeyField   string `yaml:"key_field,omitempty"`
	GroupField string `yaml:"group_field,omitempty"`
	FileField  string `yaml:"file_field,omitempty"`
	Pattern    string `yaml:"pattern,omitempty"`
}

// LabelConfig declares the label columns and the submission key column.
type LabelConfig struct {
	IDField      string            `yaml:"id_field"`
	Fields       []string          `yaml:"fields"`
	MustVary     string            `yaml:"must_vary,omitempty"`
	ClassFields  []string          `yaml:"class_fields,omitempty"`
	Placeholders map[string]string `yaml:"placeholders,omitempty"`
}

// SplitConfig declares the primary split. The nested validation split is
// always derived, never configured directly.
type SplitConfig struct {
	Mode  string  `yaml:"mode"`
	Ratio float64 `yaml:"ratio,omitempty"`
	Count int     `yaml:"count,omitempty"`
	Seed  int64   `yaml:"seed"`
}

// Load reads, parses, and fully validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data, path)
}

// Parse validates manifest bytes. filename is used in schema error positions.
func Parse(data []byte, filename string) (*Manifest, error) {
	// Schema validation first: CUE errors carry positions and constraint
	// names, which beat Go-side "field x is wrong" messages.
	if err := validateSchema(data, filename); err != nil {
		return nil, err
	}

	var m Manifest
	dec := goyaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest YAML: %w", err)
	}

	if err := m.check(); err != nil {
		return nil, err
	}
	return &m, nil
}

// check runs the cross-field rules the schema cannot express.
func (m *Manifest) check() error {
	switch m.Unit.Strategy {
	case StrategyRow:
		if m.Unit.KeyField == "" {
			return fmt.Errorf("manifest %q: row strategy requires unit.key_field", m.Name)
		}
		if m.Unit.GroupField != "" || m.Unit.FileField != "" || m.Unit.Pattern != "" {
			return fmt.Errorf("manifest %q: row strategy accepts only unit.key_field", m.Name)
		}
	case StrategyGroup:
		if m.Unit.GroupField == "" {
			return fmt.Errorf("manifest %q: group strategy requires unit.group_field", m.Name)
		}
		if m.Unit.KeyField != "" || m.Unit.FileField != "" || m.Unit.Pattern != "" {
			return fmt.Errorf("manifest %q: group strategy accepts only unit.group_field", m.Name)
		}
	case StrategyManifest:
		if m.Unit.FileField == "" || m.Unit.Pattern == "" {
			return fmt.Errorf("manifest %q: manifest strategy requires unit.file_field and unit.pattern", m.Name)
		}
		re, err := regexp.Compile(m.Unit.Pattern)
		if err != nil {
			return fmt.Errorf("manifest %q: unit.pattern: %w", m.Name, err)
		}
		if re.NumSubexp() != 1 {
			return fmt.Errorf("manifest %q: unit.pattern must have exactly one capture group", m.Name)
		}
	default:
		return fmt.Errorf("manifest %q: unknown unit.strategy %q", m.Name, m.Unit.Strategy)
	}

	switch m.Split.Mode {
	case ModeRatio:
		if m.Split.Ratio <= 0 || m.Split.Ratio >= 1 {
			return fmt.Errorf("manifest %q: ratio mode requires split.ratio in (0,1), got %v", m.Name, m.Split.Ratio)
		}
		if m.Split.Count != 0 {
			return fmt.Errorf("manifest %q: ratio mode must not set split.count", m.Name)
		}
	case ModeCount:
		if m.Split.Count < 0 {
			return fmt.Errorf("manifest %q: split.count %d is negative", m.Name, m.Split.Count)
		}
		if m.Split.Ratio != 0 {
			return fmt.Errorf("manifest %q: count mode must not set split.ratio", m.Name)
		}
	default:
		return fmt.Errorf("manifest %q: unknown split.mode %q", m.Name, m.Split.Mode)
	}

	labelSet := make(map[string]bool, len(m.Labels.Fields))
	for _, f := range m.Labels.Fields {
		if labelSet[f] {
			return fmt.Errorf("manifest %q: duplicate label field %q", m.Name, f)
		}
		labelSet[f] = true
	}
	if labelSet[m.Labels.IDField] {
		return fmt.Errorf("manifest %q: labels.id_field %q cannot also be a label", m.Name, m.Labels.IDField)
	}
	if m.Labels.MustVary != "" && !labelSet[m.Labels.MustVary] {
		return fmt.Errorf("manifest %q: labels.must_vary %q is not a declared label field", m.Name, m.Labels.MustVary)
	}
	for _, f := range m.Labels.ClassFields {
		if !labelSet[f] {
			return fmt.Errorf("manifest %q: labels.class_fields entry %q is not a declared label field", m.Name, f)
		}
	}
	for f := range m.Labels.Placeholders {
		if !labelSet[f] {
			return fmt.Errorf("manifest %q: placeholder for %q which is not a declared label field", m.Name, f)
		}
	}
	return nil
}

// Extractor builds the configured key extractor.
func (m *Manifest) Extractor() (keys.Extractor, error) {
	switch m.Unit.Strategy {
	case StrategyRow:
		return keys.RowExtractor{KeyField: m.Unit.KeyField}, nil
	case StrategyGroup:
		return keys.GroupExtractor{GroupField: m.Unit.GroupField}, nil
	case StrategyManifest:
		re, err := regexp.Compile(m.Unit.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile unit.pattern: %w", err)
		}
		return keys.ManifestExtractor{FileField: m.Unit.FileField, Pattern: re}, nil
	default:
		return nil, fmt.Errorf("unknown unit.strategy %q", m.Unit.Strategy)
	}
}

// SplitSpec builds the primary split spec.
func (m *Manifest) SplitSpec() (split.Spec, error) {
	switch m.Split.Mode {
	case ModeRatio:
		return split.RatioSpec(m.Split.Ratio, m.Split.Seed), nil
	case ModeCount:
		return split.CountSpec(m.Split.Count, m.Split.Seed), nil
	default:
		return split.Spec{}, fmt.Errorf("unknown split.mode %q", m.Split.Mode)
	}
}

// ValidateConfig builds the invariant-validator configuration.
func (m *Manifest) ValidateConfig() partition.Config {
	return partition.Config{
		LabelFields:   m.Labels.Fields,
		MustVaryField: m.Labels.MustVary,
		ClassFields:   m.Labels.ClassFields,
	}
}

// Hash computes the canonical fingerprint identifying this configuration in
// the run ledger. The ratio is serialized as its shortest exact decimal form
// because canonical JSON forbids floats.
func (m *Manifest) Hash() (string, error) {
	obj := map[string]any{
		"name": m.Name,
		"unit": map[string]any{
			"strategy":    m.Unit.Strategy,
			"key_field":   m.Unit.KeyField,
			"group_field": m.Unit.GroupField,
			"file_field":  m.Unit.FileField,
			"pattern":     m.Unit.Pattern,
		},
		"labels": map[string]any{
			"id_field":     m.Labels.IDField,
			"fields":       m.Labels.Fields,
			"must_vary":    m.Labels.MustVary,
			"class_fields": m.Labels.ClassFields,
			"placeholders": placeholderMap(m.Labels.Placeholders),
		},
		"split": map[string]any{
			"mode":  m.Split.Mode,
			"ratio": strconv.FormatFloat(m.Split.Ratio, 'g', -1, 64),
			"count": m.Split.Count,
			"seed":  m.Split.Seed,
		},
	}
	canonical, err := dataset.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("manifest hash: %w", err)
	}
	return dataset.HashManifest(canonical), nil
}

// placeholderMap normalizes a nil map to empty so absent and empty
// placeholder sections hash identically.
func placeholderMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
