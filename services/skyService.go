package services

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Hoshii/catalog"
	"github.com/Hoshii/models"
	"github.com/Hoshii/observability"
	"github.com/Hoshii/repositories"
)

// MaxCommentLength is the display cap for participation comments, in runes
const MaxCommentLength = 300

// AnonymousName is shown in the timeline when a submitter left no name
const AnonymousName = "anonymous"

type SkyOptions struct {
	// RequireKnownSky rejects campaign skies missing from the registry with a
	// NotFoundError. Member skies are never registered and always pass.
	RequireKnownSky bool
	// StrictActions rejects action keys that are not in the sky's catalog
	StrictActions bool
}

type SkyService struct {
	store    repositories.ParticipationStore
	catalogs *catalog.Selector
	opts     SkyOptions
	logger   *zap.Logger

	// Clock stamps SkyStats.Updated_At
	Clock func() time.Time
}

var skyService *SkyService

func NewSkyService(store repositories.ParticipationStore, catalogs *catalog.Selector, opts SkyOptions, logger *zap.Logger) *SkyService {
	if catalogs == nil {
		catalogs = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkyService{
		store:    store,
		catalogs: catalogs,
		opts:     opts,
		logger:   logger,
		Clock:    time.Now,
	}
}

// InitSkyService installs the process-wide sky service used by the controllers
func InitSkyService(store repositories.ParticipationStore, catalogs *catalog.Selector, opts SkyOptions, logger *zap.Logger) *SkyService {
	skyService = NewSkyService(store, catalogs, opts, logger)
	skyService.logger.Info("Sky service initialized",
		zap.Bool("requireKnownSky", opts.RequireKnownSky),
		zap.Bool("strictActions", opts.StrictActions))
	return skyService
}

// GetSkyService returns the singleton sky service instance
func GetSkyService() *SkyService {
	return skyService
}

// Stats computes totalActions and weighted totalStars for a sky
func (s *SkyService) Stats(ctx context.Context, rawSkyID string) (models.SkyStats, error) {
	ref, err := catalog.ParseSkyID(rawSkyID)
	if err != nil {
		return models.SkyStats{}, err
	}
	if err := s.ensureKnown(ctx, ref); err != nil {
		return models.SkyStats{}, err
	}
	return s.aggregate(ctx, ref)
}

func (s *SkyService) aggregate(ctx context.Context, ref catalog.SkyRef) (models.SkyStats, error) {
	counts, err := s.store.CountByAction(ctx, ref.ID)
	if err != nil {
		return models.SkyStats{}, err
	}

	cat := s.catalogs.ForRef(ref)
	stats := models.SkyStats{Sky_ID: ref.ID}
	for key, n := range counts {
		stats.Total_Actions += n
		stats.Total_Stars += n * cat.Weight(key)
	}
	stats.Density = cat.Density.Density(stats.Total_Stars)
	stats.Updated_At = s.Clock()
	return stats, nil
}

func (s *SkyService) ensureKnown(ctx context.Context, ref catalog.SkyRef) error {
	if !s.opts.RequireKnownSky || ref.Namespace == catalog.NamespaceMember {
		return nil
	}
	exists, err := s.store.SkyExists(ctx, ref.ID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("sky", ref.ID)
	}
	return nil
}

// ClampCommentLimit applies the default page size and the per-namespace ceiling
func ClampCommentLimit(limit int, cat *catalog.Catalog) int {
	if limit <= 0 {
		limit = catalog.DefaultCommentLimit
	}
	if limit > cat.CommentLimit {
		limit = cat.CommentLimit
	}
	return limit
}

// RecentComments returns the newest commented participations, labelled for display
func (s *SkyService) RecentComments(ctx context.Context, rawSkyID string, limit int) ([]models.CommentItem, error) {
	ref, err := catalog.ParseSkyID(rawSkyID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureKnown(ctx, ref); err != nil {
		return nil, err
	}

	cat := s.catalogs.ForRef(ref)
	rows, err := s.store.RecentComments(ctx, ref.ID, ClampCommentLimit(limit, cat))
	if err != nil {
		return nil, err
	}

	items := make([]models.CommentItem, 0, len(rows))
	for _, row := range rows {
		if row.Comment == nil || strings.TrimSpace(*row.Comment) == "" {
			continue
		}
		name := AnonymousName
		if row.Name != nil && strings.TrimSpace(*row.Name) != "" {
			name = strings.TrimSpace(*row.Name)
		}
		items = append(items, models.CommentItem{
			ID:         row.Participation_ID,
			Name:       name,
			Label:      cat.Label(row.Action_Key),
			Comment:    *row.Comment,
			Created_At: row.Created_At,
		})
	}
	return items, nil
}

// Submit records one participation and returns the refreshed stats for its sky
func (s *SkyService) Submit(ctx context.Context, in models.SupportCreate) (models.SkyStats, error) {
	ref, err := catalog.ParseSkyID(in.Sky_ID)
	if err != nil {
		return models.SkyStats{}, err
	}

	actionKey := strings.TrimSpace(in.Action)
	if actionKey == "" {
		return models.SkyStats{}, models.NewValidationError("action is required")
	}

	cat := s.catalogs.ForRef(ref)
	_, known := cat.Lookup(actionKey)
	if !known && s.opts.StrictActions {
		return models.SkyStats{}, models.NewValidationError("unknown action: " + actionKey)
	}

	if err := s.ensureKnown(ctx, ref); err != nil {
		return models.SkyStats{}, err
	}

	participation := models.Participation{
		Sky_ID:     ref.ID,
		Action_Key: actionKey,
		Name:       optional(in.Name),
		Email:      optional(in.Email),
		Comment:    optional(truncateRunes(in.Comment, MaxCommentLength)),
	}
	if err := s.store.Insert(ctx, &participation); err != nil {
		return models.SkyStats{}, err
	}

	observability.SupportSubmissions.WithLabelValues(ref.Namespace, strconv.FormatBool(known)).Inc()
	s.logger.Info("Participation recorded",
		zap.String("skyId", ref.ID),
		zap.String("action", actionKey),
		zap.Int64("participationId", participation.Participation_ID),
		zap.Bool("knownAction", known))

	return s.aggregate(ctx, ref)
}

// Catalog returns the action catalog that applies to a sky
func (s *SkyService) Catalog(rawSkyID string) (*catalog.Catalog, error) {
	ref, err := catalog.ParseSkyID(rawSkyID)
	if err != nil {
		return nil, err
	}
	return s.catalogs.ForRef(ref), nil
}

// PurgeComments clears the comment text of one sky. Participations and their
// stars are kept.
func (s *SkyService) PurgeComments(ctx context.Context, rawSkyID string) (int64, error) {
	ref, err := catalog.ParseSkyID(rawSkyID)
	if err != nil {
		return 0, err
	}

	cleared, err := s.store.DeleteComments(ctx, ref.ID)
	if err != nil {
		return 0, err
	}

	s.logger.Warn("Comments purged", zap.String("skyId", ref.ID), zap.Int64("cleared", cleared))
	return cleared, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func truncateRunes(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

