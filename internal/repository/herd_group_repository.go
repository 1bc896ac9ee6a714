package repository

import (
	"context"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type IHerdGroupRepository interface {
	Create(ctx context.Context, hg *models.HerdGroup) error
	FindByIDAndFarm(ctx context.Context, id, farmID uuid.UUID) (*models.HerdGroup, error)
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.HerdGroup, error)
	Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdateHerdGroupRequest, ugm *decimal.Decimal) (*models.HerdGroup, error)
	SoftDelete(ctx context.Context, id, farmID uuid.UUID) error
}

type HerdGroupRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewHerdGroupRepository(db *sqlx.DB, logger *zap.Logger) IHerdGroupRepository {
	return &HerdGroupRepository{db: db, logger: logger}
}

const herdGroupColumns = `id, farm_id, name, category, live_weight_kg, ugm, head_count, notes, created_at, updated_at, deleted_at`

func (r *HerdGroupRepository) Create(ctx context.Context, hg *models.HerdGroup) error {
	if hg.ID == uuid.Nil {
		hg.ID = uuid.New()
	}
	now := time.Now().UTC()
	hg.CreatedAt = now
	hg.UpdatedAt = now

	query := `
		INSERT INTO herd_groups (id, farm_id, name, category, live_weight_kg, ugm, head_count, notes, created_at, updated_at)
		VALUES (:id, :farm_id, :name, :category, :live_weight_kg, :ugm, :head_count, :notes, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, hg); err != nil {
		r.logger.Error("failed to create herd group", zap.Error(err), zap.String("farm_id", hg.FarmID.String()))
		return translate(err, "failed to create herd group")
	}
	return nil
}

func (r *HerdGroupRepository) FindByIDAndFarm(ctx context.Context, id, farmID uuid.UUID) (*models.HerdGroup, error) {
	query := `SELECT ` + herdGroupColumns + `
		FROM herd_groups
		WHERE id = $1 AND farm_id = $2 AND deleted_at IS NULL`

	var hg models.HerdGroup
	if err := r.db.GetContext(ctx, &hg, query, id, farmID); err != nil {
		return nil, translate(err, "failed to get herd group")
	}
	return &hg, nil
}

func (r *HerdGroupRepository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.HerdGroup, error) {
	query := `SELECT ` + herdGroupColumns + `
		FROM herd_groups
		WHERE farm_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	groups := []models.HerdGroup{}
	if err := r.db.SelectContext(ctx, &groups, query, farmID); err != nil {
		return nil, translate(err, "failed to list herd groups")
	}
	return groups, nil
}

// Update writes only the supplied fields. ugm must accompany a new live weight.
func (r *HerdGroupRepository) Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdateHerdGroupRequest, ugm *decimal.Decimal) (*models.HerdGroup, error) {
	var b utils.UpdateBuilder
	if req.Name.HasValue() {
		b.Set("name", req.Name.Value)
	}
	setNullable(&b, "category", req.Category)
	if req.LiveWeightKg.HasValue() {
		b.Set("live_weight_kg", req.LiveWeightKg.Value)
	}
	if ugm != nil {
		b.Set("ugm", *ugm)
	}
	setNullable(&b, "head_count", req.HeadCount)
	setNullable(&b, "notes", req.Notes)
	if b.Len() == 0 {
		return r.FindByIDAndFarm(ctx, id, farmID)
	}

	result, err := b.Build("herd_groups", time.Now().UTC(), scopedToFarm(id, farmID), herdGroupColumns)
	if err != nil {
		return nil, err
	}

	var hg models.HerdGroup
	if err := r.db.GetContext(ctx, &hg, result.Query, result.Args...); err != nil {
		return nil, translate(err, "failed to update herd group")
	}
	return &hg, nil
}

func (r *HerdGroupRepository) SoftDelete(ctx context.Context, id, farmID uuid.UUID) error {
	return softDelete(ctx, r.db, "herd_groups", id, farmID)
}

func setNullable[T any](b *utils.UpdateBuilder, column string, o models.Optional[T]) {
	switch {
	case !o.Set:
	case o.Null:
		b.SetNull(column)
	default:
		b.Set(column, o.Value)
	}
}
