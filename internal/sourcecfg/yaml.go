package sourcecfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAMLFile loads a single YAML descriptor file into the registry.
// The file holds one descriptor document.
func (r *Registry) LoadYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read descriptor file: %w", err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("parse descriptor file %s: %w", path, err)
	}

	if err := d.validate(); err != nil {
		return fmt.Errorf("descriptor file %s: %w", path, err)
	}

	r.sources[d.Name] = d
	return nil
}
