package event

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cory-johannsen/emporium/internal/game/dice"
	"gopkg.in/yaml.v3"
)

// yamlEventFile is the top-level YAML structure for event files.
type yamlEventFile struct {
	Events []Event `yaml:"events"`
}

// LoadFromBytes parses and validates events from YAML bytes.
func LoadFromBytes(data []byte) ([]*Event, error) {
	var file yamlEventFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing event YAML: %w", err)
	}
	events := make([]*Event, 0, len(file.Events))
	for i := range file.Events {
		ev := file.Events[i]
		if err := ev.Validate(); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, nil
}

// LoadFromDir loads all YAML files in a directory as event catalogs.
//
// Postcondition: Returns all validated events or the first error encountered.
func LoadFromDir(dir string) ([]*Event, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading event directory %s: %w", dir, err)
	}
	var events []*Event
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading event file %s: %w", name, err)
		}
		loaded, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading events from %s: %w", name, err)
		}
		events = append(events, loaded...)
	}
	return events, nil
}

// Registry provides event lookup and level-appropriate random selection.
type Registry struct {
	events map[string]*Event
	order  []*Event // stable iteration order for selection
}

// NewRegistry creates a Registry populated with the given events.
//
// Precondition: no two events may share a name.
func NewRegistry(events []*Event) (*Registry, error) {
	r := &Registry{events: make(map[string]*Event, len(events))}
	for _, ev := range events {
		if _, exists := r.events[ev.Name]; exists {
			return nil, fmt.Errorf("duplicate event: %q", ev.Name)
		}
		r.events[ev.Name] = ev
		r.order = append(r.order, ev)
	}
	return r, nil
}

// Lookup returns the named event, if registered.
func (r *Registry) Lookup(name string) (*Event, bool) {
	ev, ok := r.events[name]
	return ev, ok
}

// Len returns the number of registered events.
func (r *Registry) Len() int {
	return len(r.order)
}

// PickForSkill selects a uniformly random event whose linked skill matches
// and whose minimum level the character meets. Returns nil when none fit.
func (r *Registry) PickForSkill(skill string, level int, src dice.Source) *Event {
	return r.pick(level, src, func(ev *Event) bool { return ev.Skill == skill })
}

// PickGeneric selects a uniformly random unlinked event the character's
// level qualifies for. Returns nil when none fit.
func (r *Registry) PickGeneric(level int, src dice.Source) *Event {
	return r.pick(level, src, func(ev *Event) bool { return ev.Skill == "" })
}

func (r *Registry) pick(level int, src dice.Source, match func(*Event) bool) *Event {
	var eligible []*Event
	for _, ev := range r.order {
		if ev.MinLevel <= level && match(ev) {
			eligible = append(eligible, ev)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	return eligible[src.Intn(len(eligible))]
}
