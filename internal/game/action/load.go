package action

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadListsFromBytes parses per-class action definition lists from raw YAML
// bytes. Unknown fields are rejected so content typos surface at load time.
//
// Postcondition: Returns the parsed lists keyed by class name, or an error.
// Definitions are validated at catalog construction, not here.
func LoadListsFromBytes(data []byte) (map[string][]Definition, error) {
	var doc struct {
		Classes map[string][]Definition `yaml:"classes"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing action definitions: %w", err)
	}
	if len(doc.Classes) == 0 {
		return nil, fmt.Errorf("action: no class action lists defined")
	}
	return doc.Classes, nil
}
