package world

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Catalogs are line oriented and comma delimited:
//
//	locations: <id>,<description>
//	exits:     <id>,<direction>,<destination>
//
// A location description is the rest of the line after the first comma and may
// itself contain commas. Records have no length limit, and any run of carriage
// returns before the newline is dropped. A malformed record stops the pass that
// contains it.

const delimiter = ","

// LoadReport summarises a completed load.
type LoadReport struct {
	Locations int            `json:"locations"`
	Exits     int            `json:"exits"`
	Dangling  []DanglingExit `json:"dangling,omitempty"` // Skipped exit records
}

// LoadLocations reads location records from r and puts each into reg in source order.
// A repeated id replaces the earlier location. It returns the number of records read.
func LoadLocations(r io.Reader, source string, reg *Registry) (int, error) {
	count := 0
	err := scanRecords(r, source, func(line int, text string) error {
		id, description, err := parseLocation(text)
		if err != nil {
			return &RecordError{Source: source, Line: line, Text: text, Err: err}
		}
		reg.Put(id, NewLocation(id, description))
		count++
		return nil
	})
	return count, err
}

// LoadExits reads exit records from r and attaches each to its location in reg.
// Records whose location is missing from reg are skipped and returned as dangling.
func LoadExits(r io.Reader, source string, reg *Registry) (int, []DanglingExit, error) {
	count := 0
	var dangling []DanglingExit
	err := scanRecords(r, source, func(line int, text string) error {
		id, direction, dest, err := parseExit(text)
		if err != nil {
			return &RecordError{Source: source, Line: line, Text: text, Err: err}
		}
		loc, ok := reg.Get(id)
		if !ok || loc == nil {
			dangling = append(dangling, DanglingExit{
				Source:      source,
				Line:        line,
				LocationID:  id,
				Direction:   direction,
				Destination: dest,
			})
			return nil
		}
		loc.AddExit(direction, dest)
		count++
		return nil
	})
	return count, dangling, err
}

func scanRecords(r io.Reader, source string, fn func(line int, text string) error) error {
	br := bufio.NewReader(r)
	line := 0
	for {
		text, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("%w: failed to read %s at line %d: %w", ErrSourceUnavailable, source, line+1, readErr)
		}
		if text == "" && readErr == io.EOF {
			return nil
		}
		line++
		text = strings.TrimRight(strings.TrimSuffix(text, "\n"), "\r")
		if strings.TrimSpace(text) != "" {
			if err := fn(line, text); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

func parseLocation(text string) (int, string, error) {
	idField, description, found := strings.Cut(text, delimiter)
	if !found {
		return 0, "", malformed("expected 2 fields, got 1")
	}
	id, err := parseInt("id", idField)
	if err != nil {
		return 0, "", err
	}
	return id, description, nil
}

func parseExit(text string) (int, string, int, error) {
	fields := strings.Split(text, delimiter)
	if len(fields) != 3 {
		return 0, "", 0, malformed("expected 3 fields, got %d", len(fields))
	}
	id, err := parseInt("location id", fields[0])
	if err != nil {
		return 0, "", 0, err
	}
	direction := strings.TrimSpace(fields[1])
	if direction == "" {
		return 0, "", 0, malformed("empty direction")
	}
	dest, err := parseInt("destination", fields[2])
	if err != nil {
		return 0, "", 0, err
	}
	return id, direction, dest, nil
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, malformed("%s %q is not an integer", field, value)
	}
	return n, nil
}

// Export writes one location record per registry entry to locW and one exit record
// per exit to exitW, in registry order. Entries are written under their registry id.
func Export(reg *Registry, locW, exitW io.Writer) error {
	lw := bufio.NewWriter(locW)
	ew := bufio.NewWriter(exitW)

	for id, loc := range reg.All() {
		if loc == nil {
			continue
		}
		if strings.ContainsAny(loc.Description(), "\r\n") {
			return fmt.Errorf("%w: location %d description contains a line break", ErrUnrepresentable, id)
		}
		if _, err := fmt.Fprintf(lw, "%d%s%s\n", id, delimiter, loc.Description()); err != nil {
			return fmt.Errorf("failed to write location %d: %w", id, err)
		}
		for _, exit := range loc.Exits() {
			if exit.Direction == "" || exit.Direction != strings.TrimSpace(exit.Direction) ||
				strings.ContainsAny(exit.Direction, delimiter+"\r\n") {
				return fmt.Errorf("%w: location %d exit %q", ErrUnrepresentable, id, exit.Direction)
			}
			if _, err := fmt.Fprintf(ew, "%d%s%s%s%d\n", id, delimiter, exit.Direction, delimiter, exit.Destination); err != nil {
				return fmt.Errorf("failed to write exit %d,%s: %w", id, exit.Direction, err)
			}
		}
	}

	if err := lw.Flush(); err != nil {
		return fmt.Errorf("failed to flush locations: %w", err)
	}
	if err := ew.Flush(); err != nil {
		return fmt.Errorf("failed to flush exits: %w", err)
	}
	return nil
}

// Loader reads and writes catalog files.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load builds a new registry from the two catalog files. The location pass runs to
// completion before the exit pass starts; if it fails, the exit file is never opened.
// On error the returned registry is nil, so a partial world is never handed out.
func (l *Loader) Load(locationsPath, exitsPath string) (*Registry, *LoadReport, error) {
	reg := NewRegistry()
	report := &LoadReport{}

	count, err := l.loadFile(locationsPath, func(f io.Reader) (int, error) {
		return LoadLocations(f, locationsPath, reg)
	})
	if err != nil {
		l.logger.Error("Failed to load locations", "source", locationsPath, "error", err)
		return nil, nil, err
	}
	report.Locations = count
	l.logger.Info("Imported locations", "source", locationsPath, "count", count, "distinct", reg.Len())

	count, err = l.loadFile(exitsPath, func(f io.Reader) (int, error) {
		n, dangling, err := LoadExits(f, exitsPath, reg)
		report.Dangling = dangling
		return n, err
	})
	if err != nil {
		l.logger.Error("Failed to load exits", "source", exitsPath, "error", err)
		return nil, nil, err
	}
	report.Exits = count
	for _, d := range report.Dangling {
		l.logger.Warn("Skipped exit for unknown location",
			"source", d.Source, "line", d.Line, "location_id", d.LocationID,
			"direction", d.Direction, "destination", d.Destination)
	}
	l.logger.Info("Imported exits", "source", exitsPath, "count", count, "skipped", len(report.Dangling))

	return reg, report, nil
}

func (l *Loader) loadFile(path string, load func(io.Reader) (int, error)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()
	return load(f)
}

// ExportFiles writes the registry to a pair of catalog files, replacing any existing content.
// Both catalogs are rendered before either file is touched, and each file is replaced by
// rename, so a failed export leaves the previous files in place.
func (l *Loader) ExportFiles(reg *Registry, locationsPath, exitsPath string) error {
	var locs, exits bytes.Buffer
	if err := Export(reg, &locs, &exits); err != nil {
		l.logger.Error("Failed to export world", "locations", locationsPath, "exits", exitsPath, "error", err)
		return err
	}

	if err := replaceFile(locationsPath, locs.Bytes()); err != nil {
		return err
	}
	if err := replaceFile(exitsPath, exits.Bytes()); err != nil {
		return err
	}
	l.logger.Info("Exported world", "locations", locationsPath, "exits", exitsPath, "count", reg.Len())
	return nil
}

func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // No-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
