package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Hoshii/models"
	"github.com/Hoshii/observability"
)

const backendMemory = "memory"

// Memory is a process-scoped Store for demos and tests. Create it once with
// NewMemory and clear it with Reset; nothing here survives a restart.
type Memory struct {
	mu    sync.RWMutex
	clock func() time.Time

	nextParticipationID int64
	participations      []models.Participation
	skies               map[string]models.Sky

	nextContainerID int64
	containers      map[string]int64

	nextPresetID  int64
	presets       []models.Preset
	presetByTitle map[string]int
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock is NewMemory with a fixed time source for created_at
func NewMemoryWithClock(clock func() time.Time) *Memory {
	m := &Memory{clock: clock}
	m.Reset()
	return m
}

// Reset drops all rows and restarts id sequences
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextParticipationID = 0
	m.participations = nil
	m.skies = make(map[string]models.Sky)
	m.nextContainerID = 0
	m.containers = make(map[string]int64)
	m.nextPresetID = 0
	m.presets = nil
	m.presetByTitle = make(map[string]int)
}

func (m *Memory) Insert(ctx context.Context, p *models.Participation) (err error) {
	defer observability.TrackStore("insert_participation", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return models.NewStoreError("insert participation", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextParticipationID++
	p.Participation_ID = m.nextParticipationID
	p.Created_At = m.clock()
	m.participations = append(m.participations, *p)
	return nil
}

func (m *Memory) CountByAction(ctx context.Context, skyID string) (counts map[string]int, err error) {
	defer observability.TrackStore("count_by_action", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return nil, models.NewStoreError("count participations", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	counts = make(map[string]int)
	for _, p := range m.participations {
		if p.Sky_ID == skyID {
			counts[p.Action_Key]++
		}
	}
	return counts, nil
}

func (m *Memory) RecentComments(ctx context.Context, skyID string, limit int) (comments []models.Participation, err error) {
	defer observability.TrackStore("recent_comments", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return nil, models.NewStoreError("fetch comments", err)
	}

	m.mu.RLock()
	for _, p := range m.participations {
		if p.Sky_ID == skyID && hasComment(p) {
			comments = append(comments, p)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].Created_At.Equal(comments[j].Created_At) {
			return comments[i].Created_At.After(comments[j].Created_At)
		}
		return comments[i].Participation_ID > comments[j].Participation_ID
	})

	if limit >= 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (m *Memory) DeleteComments(ctx context.Context, skyID string) (cleared int64, err error) {
	defer observability.TrackStore("clear_comments", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return 0, models.NewStoreError("clear comments", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.participations {
		p := &m.participations[i]
		if p.Sky_ID == skyID && p.Comment != nil {
			p.Comment = nil
			cleared++
		}
	}
	return cleared, nil
}

func (m *Memory) SkyExists(ctx context.Context, skyID string) (exists bool, err error) {
	defer observability.TrackStore("sky_exists", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return false, models.NewStoreError("look up sky", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists = m.skies[skyID]
	return exists, nil
}

func (m *Memory) RegisterSky(ctx context.Context, skyID, title string) (err error) {
	defer observability.TrackStore("register_sky", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return models.NewStoreError("register sky", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.skies[skyID]; !ok {
		m.skies[skyID] = models.Sky{Sky_ID: skyID, Title: title, Created_At: m.clock()}
	}
	return nil
}

func (m *Memory) EnsureContainer(ctx context.Context, name string) (id int64, err error) {
	defer observability.TrackStore("ensure_container", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return 0, models.NewStoreError("ensure preset container", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.containers[name]; ok {
		return id, nil
	}
	m.nextContainerID++
	m.containers[name] = m.nextContainerID
	return m.nextContainerID, nil
}

func (m *Memory) UpsertPreset(ctx context.Context, containerID int64, preset models.Preset) (created bool, err error) {
	defer observability.TrackStore("upsert_preset", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return false, models.NewStoreError("upsert preset", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if idx, ok := m.presetByTitle[preset.Title]; ok {
		existing := &m.presets[idx]
		existing.Description = preset.Description
		existing.Tags = preset.Tags
		existing.Updated_At = now
		return false, nil
	}

	m.nextPresetID++
	preset.Preset_ID = m.nextPresetID
	preset.Container_ID = containerID
	preset.Updated_At = now
	m.presetByTitle[preset.Title] = len(m.presets)
	m.presets = append(m.presets, preset)
	return true, nil
}

func (m *Memory) ListPresets(ctx context.Context) (presets []models.Preset, err error) {
	defer observability.TrackStore("list_presets", backendMemory, &err)()
	if err = ctx.Err(); err != nil {
		return nil, models.NewStoreError("list presets", err)
	}

	m.mu.RLock()
	presets = make([]models.Preset, len(m.presets))
	copy(presets, m.presets)
	m.mu.RUnlock()

	sort.Slice(presets, func(i, j int) bool { return presets[i].Title < presets[j].Title })
	return presets, nil
}

// ContainerCount reports how many preset containers exist
func (m *Memory) ContainerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.containers)
}

func hasComment(p models.Participation) bool {
	return p.Comment != nil && strings.TrimSpace(*p.Comment) != ""
}
