// Package config loads and validates drum-kit descriptions.
//
// A kit description is a YAML file naming the kit, its default instrument
// attributes, and an ordered list of instruments. The structure is checked
// against an embedded JSON Schema before decoding so that a malformed file
// is rejected with field-level messages instead of surfacing as a type
// error somewhere deep in the conversion run.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed kit_schema.json
var schemaData []byte

// Instrument describes one sound of the kit: where it sits on the MIDI
// percussion map, how long a single take lasts in the master recording,
// and the velocity threshold for each recorded layer.
type Instrument struct {
	Name       string            `yaml:"name"`
	Display    string            `yaml:"display"`
	Note       int               `yaml:"note"`
	Length     int               `yaml:"length"` // single-take sample length, ms
	Layers     []int             `yaml:"layers"` // ascending velocity thresholds, 0-127
	Attributes map[string]string `yaml:"attributes"`
}

// DisplayName returns the display name, falling back to the internal name.
func (i Instrument) DisplayName() string {
	if i.Display != "" {
		return i.Display
	}
	return i.Name
}

// Kit is a parsed kit description. Immutable once loaded.
type Kit struct {
	Code              string            `yaml:"kit_code"`
	Name              string            `yaml:"kit_name"`
	Author            string            `yaml:"author"`
	Info              string            `yaml:"info"`
	License           string            `yaml:"license"`
	DefaultAttributes map[string]string `yaml:"default_attributes"`
	Instruments       []Instrument      `yaml:"instruments"`
}

// Load reads and validates the kit description at path.
func Load(path string) (*Kit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("kit config %s does not exist", path)
		}
		return nil, fmt.Errorf("reading kit config: %w", err)
	}
	kit, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kit, nil
}

// Parse decodes a kit description from YAML bytes.
func Parse(data []byte) (*Kit, error) {
	// Decode generically first so the schema sees the document as-is.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing kit config: %w", err)
	}
	if err := checkSchema(doc); err != nil {
		return nil, err
	}

	var kit Kit
	if err := yaml.Unmarshal(data, &kit); err != nil {
		return nil, fmt.Errorf("decoding kit config: %w", err)
	}
	if err := kit.Validate(); err != nil {
		return nil, err
	}
	return &kit, nil
}

// checkSchema validates the decoded document against the embedded schema.
func checkSchema(doc any) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return fmt.Errorf("compiling kit schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating kit config: %w", err)
	}
	if !result.Valid() {
		msg := "invalid kit config:"
		for _, re := range result.Errors() {
			msg += fmt.Sprintf("\n  %s: %s", re.Field(), re.Description())
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// Validate applies the semantic checks the schema cannot express.
func (k *Kit) Validate() error {
	if k.Code == "" {
		return fmt.Errorf("kit config: kit_code must not be empty")
	}
	if k.Name == "" {
		return fmt.Errorf("kit config: kit_name must not be empty")
	}
	if len(k.Instruments) == 0 {
		return fmt.Errorf("kit %s: no instruments declared", k.Code)
	}
	for idx, inst := range k.Instruments {
		if inst.Name == "" {
			return fmt.Errorf("kit %s: instrument %d has no name", k.Code, idx)
		}
		if inst.Note < 0 || inst.Note > 127 {
			return fmt.Errorf("instrument %s: note %d out of MIDI range 0-127", inst.Name, inst.Note)
		}
		if inst.Length <= 0 {
			return fmt.Errorf("instrument %s: length %d must be positive", inst.Name, inst.Length)
		}
		if len(inst.Layers) == 0 {
			return fmt.Errorf("instrument %s: at least one velocity layer required", inst.Name)
		}
		for li, v := range inst.Layers {
			if v < 0 || v > 127 {
				return fmt.Errorf("instrument %s: layer %d velocity %d out of range 0-127", inst.Name, li+1, v)
			}
		}
	}
	return nil
}

// MergedAttributes returns the instrument's attribute set: kit defaults
// overridden by per-instrument values. Returns a fresh map; neither input
// is modified.
func (k *Kit) MergedAttributes(inst Instrument) map[string]string {
	merged := make(map[string]string, len(k.DefaultAttributes)+len(inst.Attributes))
	for name, value := range k.DefaultAttributes {
		merged[name] = value
	}
	for name, value := range inst.Attributes {
		merged[name] = value
	}
	return merged
}

// SortedKeys returns the keys of an attribute map in sorted order, for
// deterministic serialization.
func SortedKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for name := range attrs {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
