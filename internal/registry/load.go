package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a registry from a YAML file:
//
//	groups:
//	  - component: mod
//	    module: forum
//	    references:
//	      - {table: forum_posts, alias: fp, field: userid, purpose: check}
func Load(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("%w: %w", ErrReadingRegistry, err)
	}
	return Parse(data)
}

// Parse decodes a YAML registry document.
func Parse(data []byte) (Registry, error) {
	var raw Registry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Registry{}, fmt.Errorf("%w: %w", ErrDecodingRegistry, err)
	}
	return New(raw.Groups...), nil
}
