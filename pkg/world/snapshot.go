package world

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Snapshot is a plain, serialisable copy of a registry.
type Snapshot struct {
	Locations []LocationSnapshot `json:"locations" yaml:"locations"`
}

// LocationSnapshot is one registry entry. Exits keep their insertion order.
type LocationSnapshot struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Exits       []Exit `json:"exits,omitempty" yaml:"exits,omitempty"`
}

// Snapshot copies the registry in insertion order.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{Locations: make([]LocationSnapshot, 0, r.Len())}
	for id, loc := range r.All() {
		if loc == nil {
			continue
		}
		s.Locations = append(s.Locations, LocationSnapshot{
			ID:          id,
			Description: loc.Description(),
			Exits:       loc.Exits(),
		})
	}
	return s
}

// FromSnapshot builds a registry from s using the same put and add-exit rules as a catalog load.
func FromSnapshot(s Snapshot) *Registry {
	reg := NewRegistry()
	for _, ls := range s.Locations {
		loc := NewLocation(ls.ID, ls.Description)
		for _, exit := range ls.Exits {
			loc.AddExit(exit.Direction, exit.Destination)
		}
		reg.Put(ls.ID, loc)
	}
	return reg
}

// WriteYAML writes the registry to w as a YAML document.
func WriteYAML(w io.Writer, reg *Registry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reg.Snapshot()); err != nil {
		return fmt.Errorf("failed to encode world: %w", err)
	}
	return enc.Close()
}

// ReadYAML reads a registry written by WriteYAML.
func ReadYAML(r io.Reader) (*Registry, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode world: %w", err)
	}
	return FromSnapshot(s), nil
}
