// Package profile loads shared submit attributes from TOML files. A profile
// is a flat table of submit commands, reused across workflows so that site
// specifics (container images, resource requests, pool attributes) live in
// one place instead of every definition.
package profile

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML profile into a submit attribute map. Values of any
// scalar type are stringified; nested tables are rejected, since the submit
// language is flat.
func Load(path string) (map[string]string, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	attrs := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case map[string]any:
			return nil, fmt.Errorf("profile %s: key %q is a table; profiles must be flat", path, key)
		case []any:
			return nil, fmt.Errorf("profile %s: key %q is an array; profiles must be flat", path, key)
		case string:
			attrs[key] = v
		case bool:
			attrs[key] = fmt.Sprintf("%t", v)
		case int64:
			attrs[key] = fmt.Sprintf("%d", v)
		case float64:
			attrs[key] = fmt.Sprintf("%g", v)
		default:
			return nil, fmt.Errorf("profile %s: key %q has unsupported type %T", path, key, value)
		}
	}
	return attrs, nil
}
