package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtin returns the catalog shipped with the binary.
func Builtin() Catalog {
	cat, err := parseBuiltin(builtinYAML)
	if err != nil {
		// The embedded file is part of the build; a parse error is a bug.
		panic(fmt.Sprintf("catalog: embedded builtin.yaml: %v", err))
	}
	return cat
}

// LoadBuiltin reads a built-in catalog from a YAML file. An empty path
// returns the embedded catalog.
func LoadBuiltin(path string) (Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	cat, err := parseBuiltin(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	return cat, nil
}

func parseBuiltin(data []byte) (Catalog, error) {
	var domains []Domain
	if err := yaml.Unmarshal(data, &domains); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(domains))
	for _, d := range domains {
		if d.Name == "" {
			return nil, fmt.Errorf("domain without a name")
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate domain %q", d.Name)
		}
		seen[d.Name] = true
		for _, a := range d.APIs {
			if a.Name == "" || a.Location == "" {
				return nil, fmt.Errorf("domain %q: api entries need a name and url", d.Name)
			}
			if a.Local || a.Document != "" {
				return nil, fmt.Errorf("domain %q: built-in api %q must be remote", d.Name, a.Name)
			}
		}
	}
	return Catalog(domains), nil
}
