package main

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/story-locations/internal/config"
	"github.com/jwebster45206/story-locations/internal/logger"
	"github.com/jwebster45206/story-locations/pkg/world"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	reg, report, err := world.NewLoader(log).Load(cfg.LocationsFile, cfg.ExitsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load world: %v\n", err)
		os.Exit(1)
	}
	if len(report.Dangling) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d exits from unknown locations\n", len(report.Dangling))
	}

	start, err := startLocation(reg, os.Getenv("START_LOCATION"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewExplorer(reg, start),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// startLocation picks the requested location, or the first one loaded.
func startLocation(reg *world.Registry, requested string) (int, error) {
	if requested != "" {
		id, err := strconv.Atoi(requested)
		if err != nil {
			return 0, fmt.Errorf("invalid START_LOCATION %q", requested)
		}
		if !reg.Contains(id) {
			return 0, fmt.Errorf("START_LOCATION %d is not in the world", id)
		}
		return id, nil
	}

	ids := reg.IDs()
	if len(ids) == 0 {
		return 0, fmt.Errorf("the world has no locations")
	}
	return ids[0], nil
}
