// Package repositories provides the participation and preset stores backed by
// Postgres, plus an in-memory store used when no database is configured.
package repositories

import (
	"context"

	"github.com/Hoshii/models"
)

// ParticipationStore reads and appends participation rows keyed by sky id.
// All errors returned are *models.AppError with CodeStore.
type ParticipationStore interface {
	Insert(ctx context.Context, p *models.Participation) error
	CountByAction(ctx context.Context, skyID string) (map[string]int, error)
	RecentComments(ctx context.Context, skyID string, limit int) ([]models.Participation, error)
	DeleteComments(ctx context.Context, skyID string) (int64, error)
	SkyExists(ctx context.Context, skyID string) (bool, error)
	RegisterSky(ctx context.Context, skyID, title string) error
}

// PresetStore upserts seeded presets keyed by title
type PresetStore interface {
	EnsureContainer(ctx context.Context, name string) (int64, error)
	UpsertPreset(ctx context.Context, containerID int64, preset models.Preset) (bool, error)
	ListPresets(ctx context.Context) ([]models.Preset, error)
}

type Store interface {
	ParticipationStore
	PresetStore
}
