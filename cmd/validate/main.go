package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/story-locations/pkg/world"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <locations.txt> <directions.txt>\n", os.Args[0])
		os.Exit(1)
	}

	validator := &CatalogValidator{}
	if err := validator.validateFiles(os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Catalogs are valid!")
}

// CatalogValidator is stricter than a normal load: dangling exits and exits to
// missing locations are errors rather than warnings.
type CatalogValidator struct {
	errors []string
}

func (v *CatalogValidator) validateFiles(locationsPath, exitsPath string) error {
	fmt.Printf("Validating %s and %s...\n", locationsPath, exitsPath)

	for _, path := range []string{locationsPath, exitsPath} {
		if ext := filepath.Ext(path); ext != ".txt" && ext != ".csv" {
			return fmt.Errorf("catalog file must have .txt or .csv extension: %s", filepath.Base(path))
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg, report, err := world.NewLoader(logger).Load(locationsPath, exitsPath)
	if err != nil {
		return err
	}

	v.errors = nil
	v.validateWorld(reg, report)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *CatalogValidator) validateWorld(reg *world.Registry, report *world.LoadReport) {
	if reg.IsEmpty() {
		v.errors = append(v.errors, "no locations defined")
	}

	if report.Locations != reg.Len() {
		v.errors = append(v.errors, fmt.Sprintf("%d location records share an id with an earlier record",
			report.Locations-reg.Len()))
	}

	for _, d := range report.Dangling {
		v.errors = append(v.errors, fmt.Sprintf("exit from unknown location: %s", d))
	}

	for _, d := range reg.UnresolvedExits() {
		v.errors = append(v.errors, fmt.Sprintf("exit to unknown location: %s", d))
	}
}
