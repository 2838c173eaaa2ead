package town

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlTownFile is the top-level YAML structure for town files.
type yamlTownFile struct {
	Towns []Town `yaml:"towns"`
}

// LoadFromFile reads and validates the towns declared in a single YAML file.
//
// Precondition: path must point to a valid YAML town file.
// Postcondition: Returns validated towns or a non-nil error.
func LoadFromFile(path string) ([]*Town, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading town file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates towns from YAML bytes.
func LoadFromBytes(data []byte) ([]*Town, error) {
	var file yamlTownFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing town YAML: %w", err)
	}
	towns := make([]*Town, 0, len(file.Towns))
	for i := range file.Towns {
		t := file.Towns[i]
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("validating town: %w", err)
		}
		towns = append(towns, &t)
	}
	return towns, nil
}

// LoadFromDir loads all YAML files in a directory as town catalogs.
//
// Postcondition: Returns all validated towns or the first error encountered.
func LoadFromDir(dir string) ([]*Town, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading town directory %s: %w", dir, err)
	}
	var towns []*Town
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		loaded, err := LoadFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading towns from %s: %w", name, err)
		}
		towns = append(towns, loaded...)
	}
	return towns, nil
}

// Catalog provides lookup of towns by name.
type Catalog struct {
	towns map[string]*Town
}

// NewCatalog creates a Catalog populated with the given towns.
//
// Precondition: no two towns may share a name.
func NewCatalog(towns []*Town) (*Catalog, error) {
	c := &Catalog{towns: make(map[string]*Town, len(towns))}
	for _, t := range towns {
		if _, exists := c.towns[t.Name]; exists {
			return nil, fmt.Errorf("duplicate town: %q", t.Name)
		}
		c.towns[t.Name] = t
	}
	return c, nil
}

// Lookup returns the named town, if present.
func (c *Catalog) Lookup(name string) (*Town, bool) {
	t, ok := c.towns[name]
	return t, ok
}

// Names returns every town name sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.towns))
	for name := range c.towns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of towns in the catalog.
func (c *Catalog) Len() int {
	return len(c.towns)
}
