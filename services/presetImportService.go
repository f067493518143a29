package services

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Hoshii/models"
	"github.com/Hoshii/observability"
	"github.com/Hoshii/repositories"
)

// DefaultContainerName names the seed container when none is configured
const DefaultContainerName = "Hoshii preset actions"

//go:embed presets.yaml
var defaultPresetsYAML []byte

type presetDocument struct {
	Presets []models.Preset `yaml:"presets"`
}

// LoadPresets parses a preset document
func LoadPresets(data []byte) ([]models.Preset, error) {
	var doc presetDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse preset document: %w", err)
	}
	return doc.Presets, nil
}

// DefaultPresets returns the embedded preset list
func DefaultPresets() []models.Preset {
	presets, err := LoadPresets(defaultPresetsYAML)
	if err != nil {
		panic(fmt.Sprintf("services: embedded presets.yaml is invalid: %v", err))
	}
	return presets
}

type PresetImportService struct {
	store         repositories.PresetStore
	containerName string
	presets       []models.Preset
	logger        *zap.Logger
}

var presetImportService *PresetImportService

func NewPresetImportService(store repositories.PresetStore, containerName string, presets []models.Preset, logger *zap.Logger) *PresetImportService {
	if containerName == "" {
		containerName = DefaultContainerName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresetImportService{
		store:         store,
		containerName: containerName,
		presets:       presets,
		logger:        logger,
	}
}

// InitPresetImportService installs the process-wide import service
func InitPresetImportService(store repositories.PresetStore, containerName string, presets []models.Preset, logger *zap.Logger) *PresetImportService {
	presetImportService = NewPresetImportService(store, containerName, presets, logger)
	return presetImportService
}

// GetPresetImportService returns the singleton import service instance
func GetPresetImportService() *PresetImportService {
	return presetImportService
}

// Import upserts every preset by title under the seed container. It is not
// transactional: items already written stay written if a later item fails.
// Item failures are counted as skipped; only a container failure aborts.
func (s *PresetImportService) Import(ctx context.Context) (models.ImportResult, error) {
	var result models.ImportResult

	containerID, err := s.store.EnsureContainer(ctx, s.containerName)
	if err != nil {
		s.logger.Error("Failed to ensure preset container", zap.String("container", s.containerName), zap.Error(err))
		return result, err
	}
	result.Container_ID = containerID

	for _, preset := range s.presets {
		preset.Title = strings.TrimSpace(preset.Title)
		if preset.Title == "" {
			result.Skipped++
			observability.PresetImportItems.WithLabelValues("skipped").Inc()
			s.logger.Warn("Skipping preset without a title")
			continue
		}

		created, err := s.store.UpsertPreset(ctx, containerID, preset)
		switch {
		case err != nil:
			result.Skipped++
			observability.PresetImportItems.WithLabelValues("skipped").Inc()
			s.logger.Warn("Failed to upsert preset", zap.String("title", preset.Title), zap.Error(err))
		case created:
			result.Created++
			observability.PresetImportItems.WithLabelValues("created").Inc()
		default:
			result.Updated++
			observability.PresetImportItems.WithLabelValues("updated").Inc()
		}
	}

	s.logger.Info("Preset import finished",
		zap.Int64("containerId", containerID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
