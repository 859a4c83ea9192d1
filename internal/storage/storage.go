package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-locations/pkg/world"
)

// Storage persists whole worlds as snapshots keyed by uuid.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveWorld stores reg under id, replacing any world already saved there.
	SaveWorld(ctx context.Context, id uuid.UUID, reg *world.Registry) error
	// LoadWorld returns nil, nil when no world is saved under id.
	LoadWorld(ctx context.Context, id uuid.UUID) (*world.Registry, error)
	DeleteWorld(ctx context.Context, id uuid.UUID) error
	ListWorlds(ctx context.Context) ([]uuid.UUID, error)
}

// SaveNewWorld stores reg under a fresh id and returns it.
func SaveNewWorld(ctx context.Context, s Storage, reg *world.Registry) (uuid.UUID, error) {
	id := uuid.New()
	if err := s.SaveWorld(ctx, id, reg); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
