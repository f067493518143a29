package repositories

import (
	"context"
	"time"

	"github.com/Hoshii/models"
	"github.com/Hoshii/observability"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const (
	tableSkies            = "skies"
	tableParticipations   = "participations"
	tablePresetContainers = "preset_containers"
	tablePresets          = "presets"

	backendPostgres = "postgres"
)

// Postgres implements Store with goqu over database/sql
type Postgres struct {
	db *goqu.Database
}

func NewPostgres(db *goqu.Database) *Postgres {
	return &Postgres{db: db}
}

func (r *Postgres) Insert(ctx context.Context, p *models.Participation) (err error) {
	defer observability.TrackStore("insert_participation", backendPostgres, &err)()

	insert := r.db.Insert(tableParticipations).
		Rows(goqu.Record{
			"sky_id":     p.Sky_ID,
			"action_key": p.Action_Key,
			"name":       p.Name,
			"email":      p.Email,
			"comment":    p.Comment,
		}).
		Returning("participation_id", "created_at")

	var inserted struct {
		Participation_ID int64     `db:"participation_id"`
		Created_At       time.Time `db:"created_at"`
	}
	if _, err = insert.Executor().ScanStructContext(ctx, &inserted); err != nil {
		return models.NewStoreError("insert participation", err)
	}
	p.Participation_ID = inserted.Participation_ID
	p.Created_At = inserted.Created_At
	return nil
}

func (r *Postgres) CountByAction(ctx context.Context, skyID string) (counts map[string]int, err error) {
	defer observability.TrackStore("count_by_action", backendPostgres, &err)()

	var rows []struct {
		Action_Key string `db:"action_key"`
		Total      int    `db:"total"`
	}
	err = r.db.From(tableParticipations).
		Select(goqu.C("action_key"), goqu.COUNT("*").As("total")).
		Where(goqu.C("sky_id").Eq(skyID)).
		GroupBy(goqu.C("action_key")).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, models.NewStoreError("count participations", err)
	}

	counts = make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Action_Key] += row.Total
	}
	return counts, nil
}

func (r *Postgres) RecentComments(ctx context.Context, skyID string, limit int) (comments []models.Participation, err error) {
	defer observability.TrackStore("recent_comments", backendPostgres, &err)()

	err = r.db.From(tableParticipations).
		Select("participation_id", "sky_id", "action_key", "name", "email", "comment", "created_at").
		Where(
			goqu.C("sky_id").Eq(skyID),
			goqu.C("comment").IsNotNull(),
			goqu.L("btrim(comment)").Neq(""),
		).
		Order(goqu.C("created_at").Desc(), goqu.C("participation_id").Desc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &comments)
	if err != nil {
		return nil, models.NewStoreError("fetch comments", err)
	}
	return comments, nil
}

// DeleteComments clears the comment on every commented row of the sky. The
// rows stay, so stats are unaffected.
func (r *Postgres) DeleteComments(ctx context.Context, skyID string) (cleared int64, err error) {
	defer observability.TrackStore("clear_comments", backendPostgres, &err)()

	res, err := r.db.Update(tableParticipations).
		Set(goqu.Record{"comment": nil}).
		Where(
			goqu.C("sky_id").Eq(skyID),
			goqu.C("comment").IsNotNull(),
		).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, models.NewStoreError("clear comments", err)
	}

	cleared, err = res.RowsAffected()
	if err != nil {
		return 0, models.NewStoreError("clear comments", err)
	}
	return cleared, nil
}

func (r *Postgres) SkyExists(ctx context.Context, skyID string) (exists bool, err error) {
	defer observability.TrackStore("sky_exists", backendPostgres, &err)()

	var count int64
	_, err = r.db.From(tableSkies).
		Select(goqu.COUNT("*")).
		Where(goqu.C("sky_id").Eq(skyID)).
		ScanValContext(ctx, &count)
	if err != nil {
		return false, models.NewStoreError("look up sky", err)
	}
	return count > 0, nil
}

func (r *Postgres) RegisterSky(ctx context.Context, skyID, title string) (err error) {
	defer observability.TrackStore("register_sky", backendPostgres, &err)()

	_, err = r.db.Insert(tableSkies).
		Rows(goqu.Record{"sky_id": skyID, "title": title}).
		OnConflict(goqu.DoNothing()).
		Executor().ExecContext(ctx)
	if err != nil {
		return models.NewStoreError("register sky", err)
	}
	return nil
}

// EnsureContainer creates the named container or returns the existing id in a
// single statement, so concurrent imports converge on one row.
func (r *Postgres) EnsureContainer(ctx context.Context, name string) (id int64, err error) {
	defer observability.TrackStore("ensure_container", backendPostgres, &err)()

	_, err = r.db.Insert(tablePresetContainers).
		Rows(goqu.Record{"name": name}).
		OnConflict(goqu.DoUpdate("name", goqu.Record{"name": goqu.L("EXCLUDED.name")})).
		Returning("container_id").
		Executor().ScanValContext(ctx, &id)
	if err != nil {
		return 0, models.NewStoreError("ensure preset container", err)
	}
	return id, nil
}

// UpsertPreset inserts or updates a preset by title. It reports true only when
// a new row was inserted (xmax is zero for freshly inserted tuples).
func (r *Postgres) UpsertPreset(ctx context.Context, containerID int64, preset models.Preset) (created bool, err error) {
	defer observability.TrackStore("upsert_preset", backendPostgres, &err)()

	_, err = r.db.Insert(tablePresets).
		Rows(goqu.Record{
			"container_id": containerID,
			"title":        preset.Title,
			"description":  preset.Description,
			"tags":         preset.Tags,
		}).
		OnConflict(goqu.DoUpdate("title", goqu.Record{
			"description": goqu.L("EXCLUDED.description"),
			"tags":        goqu.L("EXCLUDED.tags"),
			"updated_at":  goqu.L("NOW()"),
		})).
		Returning(goqu.L("(xmax = 0)").As("inserted")).
		Executor().ScanValContext(ctx, &created)
	if err != nil {
		return false, models.NewStoreError("upsert preset", err)
	}
	return created, nil
}

func (r *Postgres) ListPresets(ctx context.Context) (presets []models.Preset, err error) {
	defer observability.TrackStore("list_presets", backendPostgres, &err)()

	err = r.db.From(tablePresets).
		Select("preset_id", "container_id", "title", "description", "tags", "updated_at").
		Order(goqu.C("title").Asc()).
		ScanStructsContext(ctx, &presets)
	if err != nil {
		return nil, models.NewStoreError("list presets", err)
	}
	return presets, nil
}
