package repository

import (
	"context"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// IInsightsRepository exposes the denormalized reads behind the analytics views.
type IInsightsRepository interface {
	FindPaddocksRestDays(ctx context.Context, farmID uuid.UUID) ([]models.PaddockRestRow, error)
	FindOccupancyEvents(ctx context.Context, farmID uuid.UUID, r models.DateRange) ([]models.InsightEventRow, error)
	FindStockingRateEvents(ctx context.Context, farmID uuid.UUID, r models.DateRange) ([]models.InsightEventRow, error)
	FindTimelineEvents(ctx context.Context, farmID uuid.UUID, r models.DateRange) ([]models.InsightEventRow, error)
	FindActiveAlertEvents(ctx context.Context, farmID uuid.UUID, r models.DateRange) ([]models.InsightEventRow, error)
}

type InsightsRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewInsightsRepository(db *sqlx.DB, logger *zap.Logger) IInsightsRepository {
	return &InsightsRepository{db: db, logger: logger}
}

const insightEventSelect = `
	SELECT
		ge.id AS event_id,
		p.id AS paddock_id,
		p.name AS paddock_name,
		p.area_ha AS paddock_area_ha,
		hg.id AS herd_group_id,
		hg.name AS herd_group_name,
		ge.ugm_snapshot,
		hg.ugm AS herd_group_current_ugm,
		ge.start_at,
		ge.end_at,
		ge.status,
		ge.notes
	FROM grazing_events ge
	JOIN paddocks p ON p.id = ge.paddock_id
	JOIN herd_groups hg ON hg.id = ge.herd_group_id`

// FindPaddocksRestDays lists active paddocks by name with the end of their
// latest done or active grazing that has an end date.
func (r *InsightsRepository) FindPaddocksRestDays(ctx context.Context, farmID uuid.UUID) ([]models.PaddockRestRow, error) {
	query := `
		SELECT
			p.id AS paddock_id,
			p.name AS paddock_name,
			p.area_ha,
			(
				SELECT ge.end_at
				FROM grazing_events ge
				WHERE ge.paddock_id = p.id
					AND ge.deleted_at IS NULL
					AND ge.status IN ('done', 'active')
					AND ge.end_at IS NOT NULL
				ORDER BY ge.end_at DESC
				LIMIT 1
			) AS last_grazing_end_date
		FROM paddocks p
		WHERE p.farm_id = $1 AND p.deleted_at IS NULL AND p.is_active = TRUE
		ORDER BY p.name ASC`

	rows := []models.PaddockRestRow{}
	if err := r.db.SelectContext(ctx, &rows, query, farmID); err != nil {
		r.logger.Error("failed to load paddock rest days", zap.Error(err))
		return nil, translate(err, "failed to load paddock rest days")
	}
	return rows, nil
}

func (r *InsightsRepository) FindOccupancyEvents(ctx context.Context, farmID uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	return r.findOverlapping(ctx, farmID, dr)
}

func (r *InsightsRepository) FindStockingRateEvents(ctx context.Context, farmID uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	return r.findOverlapping(ctx, farmID, dr)
}

func (r *InsightsRepository) FindTimelineEvents(ctx context.Context, farmID uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	return r.findOverlapping(ctx, farmID, dr)
}

// FindActiveAlertEvents returns running events whose start falls in the range.
func (r *InsightsRepository) FindActiveAlertEvents(ctx context.Context, farmID uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	conds := []utils.Condition{
		{Field: "ge.farm_id", Operator: "=", Value: farmID},
		{Field: "ge.deleted_at", Operator: "IS_NULL"},
		{Field: "ge.status", Operator: "=", Value: models.GrazingEventStatusActive},
	}
	if dr.From != nil {
		conds = append(conds, utils.Condition{Field: "ge.start_at", Operator: ">=", Value: *dr.From})
	}
	if dr.To != nil {
		conds = append(conds, utils.Condition{Field: "ge.start_at", Operator: "<=", Value: *dr.To})
	}
	return r.selectEvents(ctx, conds, "ge.start_at ASC")
}

func (r *InsightsRepository) findOverlapping(ctx context.Context, farmID uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	conds := []utils.Condition{
		{Field: "ge.farm_id", Operator: "=", Value: farmID},
		{Field: "ge.deleted_at", Operator: "IS_NULL"},
		{Field: "ge.status", Operator: "IN", Value: []interface{}{models.GrazingEventStatusActive, models.GrazingEventStatusDone}},
	}
	conds = append(conds, OverlapConditions(dr)...)
	return r.selectEvents(ctx, conds, "ge.start_at DESC")
}

func (r *InsightsRepository) selectEvents(ctx context.Context, conds []utils.Condition, order string) ([]models.InsightEventRow, error) {
	qb := utils.QueryBuilder{
		TemplateQuery: insightEventSelect,
		Conditions:    conds,
		OrderBy:       []string{order},
	}
	query, args, err := qb.BuildQueryDynamicFilter()
	if err != nil {
		return nil, err
	}

	rows := []models.InsightEventRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("failed to load insight events", zap.Error(err))
		return nil, translate(err, "failed to load insight events")
	}
	return rows, nil
}

// OverlapConditions selects events whose [start_at, end_at] interval meets
// the range. With both bounds an event qualifies when it starts in range,
// ends in range, spans the range, or is still open and started by To. With
// only From it must end at or after From or still be open. With only To it
// must start at or before To.
func OverlapConditions(dr models.DateRange) []utils.Condition {
	switch {
	case dr.From != nil && dr.To != nil:
		from, to := *dr.From, *dr.To
		return []utils.Condition{{AnyOf: [][]utils.Condition{
			{
				{Field: "ge.start_at", Operator: ">=", Value: from},
				{Field: "ge.start_at", Operator: "<=", Value: to},
			},
			{
				{Field: "ge.end_at", Operator: ">=", Value: from},
				{Field: "ge.end_at", Operator: "<=", Value: to},
			},
			{
				{Field: "ge.start_at", Operator: "<=", Value: from},
				{Field: "ge.end_at", Operator: ">=", Value: to},
			},
			{
				{Field: "ge.start_at", Operator: "<=", Value: to},
				{Field: "ge.end_at", Operator: "IS_NULL"},
			},
		}}}
	case dr.From != nil:
		return []utils.Condition{{AnyOf: [][]utils.Condition{
			{{Field: "ge.end_at", Operator: ">=", Value: *dr.From}},
			{{Field: "ge.end_at", Operator: "IS_NULL"}},
		}}}
	case dr.To != nil:
		return []utils.Condition{{Field: "ge.start_at", Operator: "<=", Value: *dr.To}}
	}
	return nil
}
