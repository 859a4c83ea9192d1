package world

import "maps"

// Exit is a named, directed edge from a location to a destination id.
// The destination need not exist in the registry.
type Exit struct {
	Direction   string `json:"direction" yaml:"direction"`
	Destination int    `json:"destination" yaml:"destination"`
}

// Location is a node in the world map: an id, a description and its exits.
type Location struct {
	id          int
	description string
	exits       map[string]int
	order       []string // Directions in first-insertion order
}

// NewLocation creates a location with no exits.
func NewLocation(id int, description string) *Location {
	return &Location{
		id:          id,
		description: description,
		exits:       make(map[string]int),
	}
}

func (l *Location) ID() int {
	return l.id
}

func (l *Location) Description() string {
	return l.description
}

// AddExit sets the destination for direction, replacing any earlier exit with the same name.
func (l *Location) AddExit(direction string, destination int) {
	if _, exists := l.exits[direction]; !exists {
		l.order = append(l.order, direction)
	}
	l.exits[direction] = destination
}

// Exit returns the destination for direction. Directions are case-sensitive.
func (l *Location) Exit(direction string) (int, bool) {
	dest, ok := l.exits[direction]
	return dest, ok
}

// Exits returns a copy of the exits in insertion order.
func (l *Location) Exits() []Exit {
	exits := make([]Exit, 0, len(l.order))
	for _, direction := range l.order {
		exits = append(exits, Exit{Direction: direction, Destination: l.exits[direction]})
	}
	return exits
}

// ExitMap returns a copy of the direction → destination mapping.
func (l *Location) ExitMap() map[string]int {
	return maps.Clone(l.exits)
}

// Equal reports whether both locations have the same id, description and exits.
// Exit order is ignored.
func (l *Location) Equal(other *Location) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.id == other.id &&
		l.description == other.description &&
		maps.Equal(l.exits, other.exits)
}
