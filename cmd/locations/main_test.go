package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-locations/internal/config"
	"github.com/jwebster45206/story-locations/internal/storage"
	"github.com/jwebster45206/story-locations/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, locations, exits string) (*App, *bytes.Buffer, *storage.MockStorage) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		LocationsFile:       filepath.Join(dir, "locations_big.txt"),
		ExitsFile:           filepath.Join(dir, "directions_big.txt"),
		ExportLocationsFile: filepath.Join(dir, "locations.txt"),
		ExportExitsFile:     filepath.Join(dir, "directions.txt"),
	}
	require.NoError(t, os.WriteFile(cfg.LocationsFile, []byte(locations), 0o644))
	require.NoError(t, os.WriteFile(cfg.ExitsFile, []byte(exits), 0o644))

	store := storage.NewMockStorage()
	out := &bytes.Buffer{}
	app := &App{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
		out:    out,
		newStorage: func() (storage.Storage, error) {
			return store, nil
		},
	}
	return app, out, store
}

const (
	forestLocations = "1,Forest\n2,Cave\n"
	forestExits     = "1,north,2\n2,south,1\n2,down,99\n7,up,1\n"
)

func TestApp_Load(t *testing.T) {
	app, out, _ := newTestApp(t, forestLocations, forestExits)

	require.NoError(t, app.Run(context.Background(), "load", nil))

	assert.Contains(t, out.String(), "Loaded 2 locations (2 records) and 3 exits")
	assert.Contains(t, out.String(), "Skipped 1 exits from unknown locations")
	assert.Contains(t, out.String(), ":4: 7,up,1")
	assert.Contains(t, out.String(), "1 exits lead nowhere")
	assert.Contains(t, out.String(), "2,down,99")
}

func TestApp_LoadMalformed(t *testing.T) {
	app, _, _ := newTestApp(t, "1,Forest\nCave\n", forestExits)

	err := app.Run(context.Background(), "load", nil)
	assert.ErrorIs(t, err, world.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "locations_big.txt:2")
}

func TestApp_Export(t *testing.T) {
	app, _, _ := newTestApp(t, forestLocations, forestExits)

	require.NoError(t, app.Run(context.Background(), "export", nil))

	locs, err := os.ReadFile(app.cfg.ExportLocationsFile)
	require.NoError(t, err)
	assert.Equal(t, forestLocations, string(locs))

	exits, err := os.ReadFile(app.cfg.ExportExitsFile)
	require.NoError(t, err)
	assert.Equal(t, "1,north,2\n2,south,1\n2,down,99\n", string(exits))
}

func TestApp_Dump(t *testing.T) {
	app, out, _ := newTestApp(t, forestLocations, forestExits)

	require.NoError(t, app.Run(context.Background(), "dump", nil))

	reg, err := world.ReadYAML(strings.NewReader(out.String()))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, reg.IDs())
}

func TestApp_Show(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		want    string
	}{
		{name: "existing location", args: []string{"2"}, want: "Down (down) → 99 (nowhere)"},
		{name: "missing location", args: []string{"5"}, wantErr: "no location with id 5"},
		{name: "bad id", args: []string{"five"}, wantErr: "invalid location id"},
		{name: "no id", args: nil, wantErr: "exactly one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out, _ := newTestApp(t, forestLocations, forestExits)
			err := app.Run(context.Background(), "show", tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestApp_SaveAndRestore(t *testing.T) {
	app, out, store := newTestApp(t, forestLocations, forestExits)
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, "save", nil))
	id, err := uuid.Parse(strings.TrimSpace(out.String()))
	require.NoError(t, err)

	saved, err := store.LoadWorld(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 2, saved.Len())

	out.Reset()
	require.NoError(t, app.Run(ctx, "worlds", nil))
	assert.Equal(t, id.String()+"\n", out.String())

	require.NoError(t, app.Run(ctx, "restore", []string{id.String()}))
	exits, err := os.ReadFile(app.cfg.ExportExitsFile)
	require.NoError(t, err)
	assert.Equal(t, "1,north,2\n2,south,1\n2,down,99\n", string(exits))
}

func TestApp_RestoreErrors(t *testing.T) {
	app, _, _ := newTestApp(t, forestLocations, forestExits)
	ctx := context.Background()

	err := app.Run(ctx, "restore", []string{"not-a-uuid"})
	assert.ErrorContains(t, err, "invalid world id")

	err = app.Run(ctx, "restore", []string{uuid.NewString()})
	assert.ErrorContains(t, err, "not found")
}

func TestApp_SaveError(t *testing.T) {
	app, _, store := newTestApp(t, forestLocations, forestExits)
	store.SetSaveError(errors.New("redis down"))

	err := app.Run(context.Background(), "save", nil)
	assert.ErrorContains(t, err, "redis down")
}

func TestApp_UnknownCommand(t *testing.T) {
	app, _, _ := newTestApp(t, forestLocations, forestExits)

	err := app.Run(context.Background(), "teleport", nil)
	assert.ErrorContains(t, err, "unknown command")
}
