// Package config loads the client classes file: named classes, each
// with a match expression and the option set to apply to matching
// clients. Match expressions are compiled by the rule registry, not
// here, so one bad rule cannot block the rest of the configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk document shape.
type File struct {
	Classes []ClassDef `yaml:"classes"`
}

// ClassDef is one class as authored in YAML.
type ClassDef struct {
	Name    string                `yaml:"name"`
	Match   string                `yaml:"match"`
	Options map[uint8]OptionValue `yaml:"options,omitempty"`
}

// Class is a loaded class with its option values already encoded to
// wire payloads, keyed by option code.
type Class struct {
	Name    string
	Match   string
	Options map[uint8][]byte
}

// Load reads and parses a classes file.
func Load(path string) ([]Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a classes document and encodes every option value.
// Names must be unique and non-empty and every class needs a match
// expression; violations fail the whole document since they are config
// authoring errors, not per-packet conditions.
func Parse(data []byte) ([]Class, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(f.Classes))
	classes := make([]Class, 0, len(f.Classes))
	for i, def := range f.Classes {
		if def.Name == "" {
			return nil, fmt.Errorf("class %d: missing name", i)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("class %q: duplicate name", def.Name)
		}
		seen[def.Name] = true
		if def.Match == "" {
			return nil, fmt.Errorf("class %q: missing match expression", def.Name)
		}

		opts := make(map[uint8][]byte, len(def.Options))
		for code, value := range def.Options {
			payload, err := value.Encode()
			if err != nil {
				return nil, fmt.Errorf("class %q: option %d: %w", def.Name, code, err)
			}
			opts[code] = payload
		}
		classes = append(classes, Class{Name: def.Name, Match: def.Match, Options: opts})
	}
	return classes, nil
}

// Sources extracts the name -> match expression map in the form the
// rule registry loads.
func Sources(classes []Class) map[string]string {
	sources := make(map[string]string, len(classes))
	for _, c := range classes {
		sources[c.Name] = c.Match
	}
	return sources
}
