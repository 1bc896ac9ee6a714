package repository

import (
	"context"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type IGrazingEventRepository interface {
	Create(ctx context.Context, event *models.GrazingEvent) error
	FindByID(ctx context.Context, id, farmID uuid.UUID) (*models.GrazingEvent, error)
	FindAllByFarm(ctx context.Context, farmID uuid.UUID, filter models.GrazingEventFilter) ([]models.GrazingEvent, error)
	Update(ctx context.Context, id, farmID uuid.UUID, changes models.GrazingEventChanges) (*models.GrazingEvent, error)
	SoftDelete(ctx context.Context, id, farmID uuid.UUID) error
	FindActiveByHerdGroup(ctx context.Context, herdGroupID uuid.UUID, excludeID *uuid.UUID) ([]models.GrazingEvent, error)
	FindActiveByPaddock(ctx context.Context, paddockID uuid.UUID, excludeID *uuid.UUID) ([]models.GrazingEvent, error)
	FindActiveByFarm(ctx context.Context, farmID uuid.UUID) ([]models.GrazingEvent, error)
}

type GrazingEventRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewGrazingEventRepository(db *sqlx.DB, logger *zap.Logger) IGrazingEventRepository {
	return &GrazingEventRepository{db: db, logger: logger}
}

const grazingEventColumns = `id, farm_id, herd_group_id, paddock_id, status, start_at, end_at, ugm_snapshot, notes, created_at, updated_at, deleted_at`

func (r *GrazingEventRepository) Create(ctx context.Context, event *models.GrazingEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	query := `
		INSERT INTO grazing_events (id, farm_id, herd_group_id, paddock_id, status, start_at, end_at, ugm_snapshot, notes, created_at, updated_at)
		VALUES (:id, :farm_id, :herd_group_id, :paddock_id, :status, :start_at, :end_at, :ugm_snapshot, :notes, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		r.logger.Error("failed to create grazing event", zap.Error(err), zap.String("farm_id", event.FarmID.String()))
		return translate(err, "failed to create grazing event")
	}
	return nil
}

func (r *GrazingEventRepository) FindByID(ctx context.Context, id, farmID uuid.UUID) (*models.GrazingEvent, error) {
	query := `SELECT ` + grazingEventColumns + `
		FROM grazing_events
		WHERE id = $1 AND farm_id = $2 AND deleted_at IS NULL`

	var event models.GrazingEvent
	if err := r.db.GetContext(ctx, &event, query, id, farmID); err != nil {
		return nil, translate(err, "failed to get grazing event")
	}
	return &event, nil
}

// FindAllByFarm lists live events, newest start first. From and To bound
// start_at inclusively.
func (r *GrazingEventRepository) FindAllByFarm(ctx context.Context, farmID uuid.UUID, filter models.GrazingEventFilter) ([]models.GrazingEvent, error) {
	qb := utils.QueryBuilder{
		TemplateQuery: `SELECT ` + grazingEventColumns + ` FROM grazing_events`,
		Conditions: []utils.Condition{
			{Field: "farm_id", Operator: "=", Value: farmID},
			{Field: "deleted_at", Operator: "IS_NULL"},
		},
		OrderBy: []string{"start_at DESC"},
	}
	if filter.Status != nil {
		qb.Conditions = append(qb.Conditions, utils.Condition{Field: "status", Operator: "=", Value: *filter.Status})
	}
	if filter.From != nil {
		qb.Conditions = append(qb.Conditions, utils.Condition{Field: "start_at", Operator: ">=", Value: *filter.From})
	}
	if filter.To != nil {
		qb.Conditions = append(qb.Conditions, utils.Condition{Field: "start_at", Operator: "<=", Value: *filter.To})
	}

	query, args, err := qb.BuildQueryDynamicFilter()
	if err != nil {
		return nil, err
	}

	events := []models.GrazingEvent{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, translate(err, "failed to list grazing events")
	}
	return events, nil
}

func (r *GrazingEventRepository) Update(ctx context.Context, id, farmID uuid.UUID, changes models.GrazingEventChanges) (*models.GrazingEvent, error) {
	var b utils.UpdateBuilder
	if changes.StartAt != nil {
		b.Set("start_at", *changes.StartAt)
	}
	switch {
	case changes.ClearEndAt:
		b.SetNull("end_at")
	case changes.EndAt != nil:
		b.Set("end_at", *changes.EndAt)
	}
	if changes.Status != nil {
		b.Set("status", *changes.Status)
	}
	switch {
	case changes.ClearNotes:
		b.SetNull("notes")
	case changes.Notes != nil:
		b.Set("notes", *changes.Notes)
	}
	if b.Len() == 0 {
		return r.FindByID(ctx, id, farmID)
	}

	result, err := b.Build("grazing_events", time.Now().UTC(), scopedToFarm(id, farmID), grazingEventColumns)
	if err != nil {
		return nil, err
	}

	var event models.GrazingEvent
	if err := r.db.GetContext(ctx, &event, result.Query, result.Args...); err != nil {
		return nil, translate(err, "failed to update grazing event")
	}
	return &event, nil
}

func (r *GrazingEventRepository) SoftDelete(ctx context.Context, id, farmID uuid.UUID) error {
	return softDelete(ctx, r.db, "grazing_events", id, farmID)
}

func (r *GrazingEventRepository) FindActiveByHerdGroup(ctx context.Context, herdGroupID uuid.UUID, excludeID *uuid.UUID) ([]models.GrazingEvent, error) {
	return r.findActiveBy(ctx, "herd_group_id", herdGroupID, excludeID)
}

func (r *GrazingEventRepository) FindActiveByPaddock(ctx context.Context, paddockID uuid.UUID, excludeID *uuid.UUID) ([]models.GrazingEvent, error) {
	return r.findActiveBy(ctx, "paddock_id", paddockID, excludeID)
}

// FindActiveByFarm returns the events currently running on a farm.
func (r *GrazingEventRepository) FindActiveByFarm(ctx context.Context, farmID uuid.UUID) ([]models.GrazingEvent, error) {
	status := models.GrazingEventStatusActive
	return r.FindAllByFarm(ctx, farmID, models.GrazingEventFilter{Status: &status})
}

func (r *GrazingEventRepository) findActiveBy(ctx context.Context, column string, id uuid.UUID, excludeID *uuid.UUID) ([]models.GrazingEvent, error) {
	qb := utils.QueryBuilder{
		TemplateQuery: `SELECT ` + grazingEventColumns + ` FROM grazing_events`,
		Conditions: []utils.Condition{
			{Field: column, Operator: "=", Value: id},
			{Field: "status", Operator: "=", Value: models.GrazingEventStatusActive},
			{Field: "deleted_at", Operator: "IS_NULL"},
		},
	}
	if excludeID != nil {
		qb.Conditions = append(qb.Conditions, utils.Condition{Field: "id", Operator: "!=", Value: *excludeID})
	}

	query, args, err := qb.BuildQueryDynamicFilter()
	if err != nil {
		return nil, err
	}

	events := []models.GrazingEvent{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, translate(err, "failed to find active grazing events")
	}
	return events, nil
}
