package magic

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadDescriptorsFromBytes parses spell descriptors from raw YAML bytes.
// Unknown fields are rejected so content typos surface at load time.
//
// Postcondition: Returns the parsed descriptors, or an error. Descriptors are
// validated at registry construction, not here.
func LoadDescriptorsFromBytes(data []byte) ([]Descriptor, error) {
	var doc struct {
		Spells []Descriptor `yaml:"spells"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing spell descriptors: %w", err)
	}
	if len(doc.Spells) == 0 {
		return nil, fmt.Errorf("magic: no spells defined")
	}
	return doc.Spells, nil
}
