package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-locations/internal/config"
	"github.com/jwebster45206/story-locations/internal/logger"
	"github.com/jwebster45206/story-locations/internal/storage"
	"github.com/jwebster45206/story-locations/pkg/render"
	"github.com/jwebster45206/story-locations/pkg/world"
)

const usage = `Usage: %s <command> [args]

Commands:
  load              Load the catalogs and report what was read
  export            Load the catalogs and write them to the export files
  dump              Load the catalogs and print the world as YAML
  show <id>         Load the catalogs and describe one location
  save              Load the catalogs and save the world to Redis
  restore <uuid>    Read a saved world from Redis and write the export files
  worlds            List saved worlds

Catalog paths come from LOCATIONS_FILE, EXITS_FILE, EXPORT_LOCATIONS_FILE and EXPORT_EXITS_FILE.
`

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &App{
		cfg:    cfg,
		logger: log,
		out:    os.Stdout,
		newStorage: func() (storage.Storage, error) {
			return connectRedis(ctx, cfg, log)
		},
	}

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	if err := app.Run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.WithError(log, err).Debug("Command failed", "command", os.Args[1])
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func connectRedis(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.WorldTTL, logger.WithSource(log, "redis"))
	if err != nil {
		return nil, err
	}
	if err := store.WaitForConnection(ctx, 5, time.Second); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// App runs one CLI command against the configured catalogs and store.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	out        io.Writer
	newStorage func() (storage.Storage, error)
}

func (a *App) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "load":
		return a.load()
	case "export":
		return a.export()
	case "dump":
		return a.dump()
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("show takes exactly one location id")
		}
		return a.show(args[0])
	case "save":
		return a.save(ctx)
	case "restore":
		if len(args) != 1 {
			return fmt.Errorf("restore takes exactly one world id")
		}
		return a.restore(ctx, args[0])
	case "worlds":
		return a.worlds(ctx)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *App) loadWorld() (*world.Registry, *world.LoadReport, error) {
	return world.NewLoader(a.logger).Load(a.cfg.LocationsFile, a.cfg.ExitsFile)
}

func (a *App) load() error {
	reg, report, err := a.loadWorld()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Loaded %d locations (%d records) and %d exits\n", reg.Len(), report.Locations, report.Exits)
	if len(report.Dangling) > 0 {
		fmt.Fprintf(a.out, "Skipped %d exits from unknown locations:\n", len(report.Dangling))
		for _, d := range report.Dangling {
			fmt.Fprintf(a.out, "  %s\n", d)
		}
	}
	if unresolved := reg.UnresolvedExits(); len(unresolved) > 0 {
		fmt.Fprintf(a.out, "%d exits lead nowhere:\n", len(unresolved))
		for _, d := range unresolved {
			fmt.Fprintf(a.out, "  %s\n", d)
		}
	}
	return nil
}

func (a *App) export() error {
	reg, _, err := a.loadWorld()
	if err != nil {
		return err
	}
	return a.writeExport(reg)
}

func (a *App) writeExport(reg *world.Registry) error {
	loader := world.NewLoader(a.logger)
	if err := loader.ExportFiles(reg, a.cfg.ExportLocationsFile, a.cfg.ExportExitsFile); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote %d locations to %s and their exits to %s\n",
		reg.Len(), a.cfg.ExportLocationsFile, a.cfg.ExportExitsFile)
	return nil
}

func (a *App) dump() error {
	reg, _, err := a.loadWorld()
	if err != nil {
		return err
	}
	return world.WriteYAML(a.out, reg)
}

func (a *App) show(arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid location id %q", arg)
	}

	reg, _, err := a.loadWorld()
	if err != nil {
		return err
	}

	loc, ok := reg.Get(id)
	if !ok {
		return fmt.Errorf("no location with id %d", id)
	}
	fmt.Fprintf(a.out, "[%d]\n%s", id, render.Describe(loc, reg, 72))
	return nil
}

func (a *App) save(ctx context.Context) error {
	reg, _, err := a.loadWorld()
	if err != nil {
		return err
	}

	store, err := a.newStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := storage.SaveNewWorld(ctx, store, reg)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *App) restore(ctx context.Context, arg string) error {
	id, err := uuid.Parse(arg)
	if err != nil {
		return fmt.Errorf("invalid world id %q: %w", arg, err)
	}

	store, err := a.newStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := store.LoadWorld(ctx, id)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("world %s not found", id)
	}
	return a.writeExport(reg)
}

func (a *App) worlds(ctx context.Context) error {
	store, err := a.newStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	ids, err := store.ListWorlds(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	return nil
}
