package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Hoshii/models"
	"github.com/Hoshii/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyPresetStore fails upserts for the listed titles and delegates the rest
type flakyPresetStore struct {
	*repositories.Memory
	failTitles   map[string]bool
	containerErr error
}

func (s *flakyPresetStore) EnsureContainer(ctx context.Context, name string) (int64, error) {
	if s.containerErr != nil {
		return 0, models.NewStoreError("ensure preset container", s.containerErr)
	}
	return s.Memory.EnsureContainer(ctx, name)
}

func (s *flakyPresetStore) UpsertPreset(ctx context.Context, containerID int64, preset models.Preset) (bool, error) {
	if s.failTitles[preset.Title] {
		return false, models.NewStoreError("upsert preset", errors.New("constraint violation"))
	}
	return s.Memory.UpsertPreset(ctx, containerID, preset)
}

func TestDefaultPresets(t *testing.T) {
	presets := DefaultPresets()
	require.NotEmpty(t, presets)

	seen := map[string]bool{}
	for _, p := range presets {
		assert.NotEmpty(t, p.Title)
		assert.False(t, seen[p.Title], "duplicate preset title %q", p.Title)
		seen[p.Title] = true
	}
}

func TestLoadPresetsInvalid(t *testing.T) {
	_, err := LoadPresets([]byte("presets: {"))
	assert.Error(t, err)
}

func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemory()
	presets := DefaultPresets()
	svc := NewPresetImportService(store, "", presets, nil)

	first, err := svc.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(presets), first.Created)
	assert.Equal(t, 0, first.Updated)
	assert.Equal(t, 0, first.Skipped)

	second, err := svc.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, len(presets), second.Updated)
	assert.Equal(t, first.Container_ID, second.Container_ID)
	assert.Equal(t, 1, store.ContainerCount())

	stored, err := store.ListPresets(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(presets))
}

func TestImportConvergesToLatestContent(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemory()

	_, err := NewPresetImportService(store, "seed", []models.Preset{{Title: "Plant something", Description: "old", Tags: "eco"}}, nil).Import(ctx)
	require.NoError(t, err)

	result, err := NewPresetImportService(store, "seed", []models.Preset{
		{Title: "Plant something", Description: "new", Tags: "eco,garden"},
		{Title: "Share a meal", Description: "d", Tags: "food"},
	}, nil).Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)

	stored, err := store.ListPresets(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "new", stored[0].Description)
	assert.Equal(t, "eco,garden", stored[0].Tags)
}

func TestImportPartialFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyPresetStore{
		Memory:     repositories.NewMemory(),
		failTitles: map[string]bool{"B": true},
	}

	result, err := NewPresetImportService(store, "seed", []models.Preset{
		{Title: "A"},
		{Title: "B"},
		{Title: "   "},
		{Title: "C"},
	}, nil).Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)

	stored, err := store.ListPresets(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2, "items before and after the failure stay committed")
}

func TestImportContainerFailure(t *testing.T) {
	store := &flakyPresetStore{
		Memory:       repositories.NewMemory(),
		containerErr: errors.New("connection refused"),
	}

	_, err := NewPresetImportService(store, "seed", DefaultPresets(), nil).Import(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsStoreError(err))
}
