package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable reads a keyword rule table from a YAML file. The file maps
// category names to rule lists:
//
//	Food:
//	  - include: [starbucks, chipotle]
//	    weight: 0.8
//	  - exclude: [apple store]
//	    weight: -0.6
//
// The loaded table replaces the built-in defaults entirely.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user config
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}

	return table, nil
}
