/*
Package settings
File: defaults.go
Description:
    The embedded system settings layer and YAML loading of layers.
*/

package settings

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/defaults.yaml
var systemDefaults []byte

// ParseDefaults decodes a YAML settings layer.
func ParseDefaults(data []byte) (Destructured, error) {
	var d Destructured
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Destructured{}, fmt.Errorf("decode settings defaults: %w", err)
	}
	return d, nil
}

// LoadDefaults reads a settings layer from path, or the embedded system
// defaults when path is empty.
func LoadDefaults(path string) (Destructured, error) {
	if path == "" {
		return ParseDefaults(systemDefaults)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Destructured{}, fmt.Errorf("read settings defaults: %w", err)
	}
	return ParseDefaults(data)
}

// SystemDefaults returns the embedded system layer.
func SystemDefaults() Destructured {
	d, err := ParseDefaults(systemDefaults)
	if err != nil {
		panic(fmt.Sprintf("embedded settings defaults: %v", err))
	}
	return d
}
