package world

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when a catalog cannot be opened or read.
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrMalformedRecord is returned for a record with a bad integer field or the wrong field count.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnrepresentable is returned by Export for values the line format cannot hold.
	ErrUnrepresentable = errors.New("value cannot be written as a catalog record")
)

// RecordError identifies the catalog line that failed to load.
type RecordError struct {
	Source string // Catalog name, usually the file path
	Line   int    // 1-based
	Text   string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, e.Err, e.Text)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// DanglingExit is an exit that points at a location id missing from the registry.
// During the exit pass it describes a skipped record whose owning location is absent;
// from Registry.UnresolvedExits it describes a stored exit whose destination is absent.
type DanglingExit struct {
	Source      string `json:"source,omitempty"`
	Line        int    `json:"line,omitempty"`
	LocationID  int    `json:"location_id"`
	Direction   string `json:"direction"`
	Destination int    `json:"destination"`
}

func (d DanglingExit) String() string {
	if d.Source != "" {
		return fmt.Sprintf("%s:%d: %d,%s,%d", d.Source, d.Line, d.LocationID, d.Direction, d.Destination)
	}
	return fmt.Sprintf("%d,%s,%d", d.LocationID, d.Direction, d.Destination)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedRecord}, args...)...)
}
