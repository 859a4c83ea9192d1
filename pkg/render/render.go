package render

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/story-locations/pkg/world"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Single-letter directions used by classic catalogs.
var directionNames = map[string]string{
	"N":  "north",
	"S":  "south",
	"E":  "east",
	"W":  "west",
	"U":  "up",
	"D":  "down",
	"NE": "northeast",
	"NW": "northwest",
	"SE": "southeast",
	"SW": "southwest",
	"Q":  "quit",
}

// ExitLabel returns a display name for a direction, e.g. "N" → "North", "down" → "Down".
func ExitLabel(direction string) string {
	if name, ok := directionNames[strings.ToUpper(direction)]; ok && len(direction) <= 2 {
		direction = name
	}
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(direction)
}

// Describe renders a location's description wrapped to width, followed by its exits.
// Exits whose destination is missing from reg are marked rather than resolved.
func Describe(loc *world.Location, reg *world.Registry, width int) string {
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(wordwrap.String(loc.Description(), width))
	b.WriteString("\n")

	exits := loc.Exits()
	if len(exits) == 0 {
		b.WriteString("\nThere are no exits.\n")
		return b.String()
	}

	b.WriteString("\nExits:\n")
	for _, exit := range exits {
		b.WriteString("  " + ExitLine(exit, reg) + "\n")
	}
	return b.String()
}

// ExitLine renders a single exit, naming its destination when the destination exists.
func ExitLine(exit world.Exit, reg *world.Registry) string {
	label := ExitLabel(exit.Direction)
	if reg != nil {
		if dest, ok := reg.Get(exit.Destination); ok && dest != nil {
			return fmt.Sprintf("%s (%s) → %d", label, exit.Direction, dest.ID())
		}
	}
	return fmt.Sprintf("%s (%s) → %d (nowhere)", label, exit.Direction, exit.Destination)
}
