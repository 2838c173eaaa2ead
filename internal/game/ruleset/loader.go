package ruleset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type yamlBackgroundFile struct {
	Backgrounds []Background `yaml:"backgrounds"`
}

type yamlFeatFile struct {
	Feats []Feat `yaml:"feats"`
}

type yamlFactionFile struct {
	Factions []Faction `yaml:"factions"`
}

// LoadBackgrounds reads all YAML files from dir and returns the validated
// backgrounds they declare.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all validated backgrounds or the first error.
func LoadBackgrounds(dir string) ([]*Background, error) {
	var out []*Background
	err := eachYAML(dir, func(name string, data []byte) error {
		var file yamlBackgroundFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parsing %q: %w", name, err)
		}
		for i := range file.Backgrounds {
			b := file.Backgrounds[i]
			if err := b.Validate(); err != nil {
				return err
			}
			out = append(out, &b)
		}
		return nil
	})
	return out, err
}

// LoadFeats reads all YAML files from dir and returns the validated feats.
func LoadFeats(dir string) ([]*Feat, error) {
	var out []*Feat
	err := eachYAML(dir, func(name string, data []byte) error {
		var file yamlFeatFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parsing %q: %w", name, err)
		}
		for i := range file.Feats {
			f := file.Feats[i]
			if err := f.Validate(); err != nil {
				return err
			}
			out = append(out, &f)
		}
		return nil
	})
	return out, err
}

// LoadFactions reads all YAML files from dir and returns the validated factions.
func LoadFactions(dir string) ([]*Faction, error) {
	var out []*Faction
	err := eachYAML(dir, func(name string, data []byte) error {
		var file yamlFactionFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parsing %q: %w", name, err)
		}
		for i := range file.Factions {
			f := file.Factions[i]
			if err := f.Validate(); err != nil {
				return err
			}
			out = append(out, &f)
		}
		return nil
	})
	return out, err
}

// eachYAML invokes fn for every *.yaml / *.yml file in dir.
func eachYAML(dir string, fn func(name string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading %q: %w", entry.Name(), err)
		}
		if err := fn(entry.Name(), data); err != nil {
			return err
		}
	}
	return nil
}
