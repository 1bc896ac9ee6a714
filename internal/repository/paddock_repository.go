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

type IPaddockRepository interface {
	Create(ctx context.Context, paddock *models.Paddock) error
	FindByIDAndFarm(ctx context.Context, id, farmID uuid.UUID) (*models.Paddock, error)
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Paddock, error)
	Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdatePaddockRequest, areaHa *decimal.Decimal) (*models.Paddock, error)
	SoftDelete(ctx context.Context, id, farmID uuid.UUID) error
}

type PaddockRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPaddockRepository(db *sqlx.DB, logger *zap.Logger) IPaddockRepository {
	return &PaddockRepository{db: db, logger: logger}
}

const paddockColumns = `id, farm_id, name, description, ST_AsEWKB(polygon) AS geometry, area_ha, is_active, created_at, updated_at, deleted_at`

func (r *PaddockRepository) Create(ctx context.Context, paddock *models.Paddock) error {
	if paddock.ID == uuid.Nil {
		paddock.ID = uuid.New()
	}
	now := time.Now().UTC()
	paddock.CreatedAt = now
	paddock.UpdatedAt = now

	query := `
		INSERT INTO paddocks (id, farm_id, name, description, polygon, area_ha, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, ST_GeomFromEWKT($5), $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		paddock.ID, paddock.FarmID, paddock.Name, paddock.Description, &paddock.Geometry,
		paddock.AreaHa, paddock.IsActive, paddock.CreatedAt, paddock.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create paddock", zap.Error(err), zap.String("farm_id", paddock.FarmID.String()))
		return translate(err, "failed to create paddock")
	}
	return nil
}

func (r *PaddockRepository) FindByIDAndFarm(ctx context.Context, id, farmID uuid.UUID) (*models.Paddock, error) {
	query := `SELECT ` + paddockColumns + `
		FROM paddocks
		WHERE id = $1 AND farm_id = $2 AND deleted_at IS NULL`

	var paddock models.Paddock
	if err := r.db.GetContext(ctx, &paddock, query, id, farmID); err != nil {
		return nil, translate(err, "failed to get paddock")
	}
	return &paddock, nil
}

func (r *PaddockRepository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.Paddock, error) {
	query := `SELECT ` + paddockColumns + `
		FROM paddocks
		WHERE farm_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	paddocks := []models.Paddock{}
	if err := r.db.SelectContext(ctx, &paddocks, query, farmID); err != nil {
		return nil, translate(err, "failed to list paddocks")
	}
	return paddocks, nil
}

// Update writes only the supplied fields. areaHa must accompany a new geometry.
func (r *PaddockRepository) Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdatePaddockRequest, areaHa *decimal.Decimal) (*models.Paddock, error) {
	var b utils.UpdateBuilder
	if req.Name.HasValue() {
		b.Set("name", req.Name.Value)
	}
	if req.Description.Set {
		if req.Description.Null {
			b.SetNull("description")
		} else {
			b.Set("description", req.Description.Value)
		}
	}
	if req.Geometry.HasValue() {
		b.SetExpr("polygon", "ST_GeomFromEWKT(%s)", &req.Geometry.Value)
	}
	if areaHa != nil {
		b.Set("area_ha", *areaHa)
	}
	if req.IsActive.HasValue() {
		b.Set("is_active", req.IsActive.Value)
	}
	if b.Len() == 0 {
		return r.FindByIDAndFarm(ctx, id, farmID)
	}

	result, err := b.Build("paddocks", time.Now().UTC(), scopedToFarm(id, farmID), paddockColumns)
	if err != nil {
		return nil, err
	}

	var paddock models.Paddock
	if err := r.db.GetContext(ctx, &paddock, result.Query, result.Args...); err != nil {
		return nil, translate(err, "failed to update paddock")
	}
	return &paddock, nil
}

func (r *PaddockRepository) SoftDelete(ctx context.Context, id, farmID uuid.UUID) error {
	return softDelete(ctx, r.db, "paddocks", id, farmID)
}

func scopedToFarm(id, farmID uuid.UUID) []utils.Condition {
	return []utils.Condition{
		{Field: "id", Operator: "=", Value: id},
		{Field: "farm_id", Operator: "=", Value: farmID},
		{Field: "deleted_at", Operator: "IS_NULL"},
	}
}

// softDelete stamps deleted_at on a live row owned by farmID.
func softDelete(ctx context.Context, db sqlx.ExecerContext, table string, id, farmID uuid.UUID) error {
	query := `UPDATE ` + table + ` SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND farm_id = $3 AND deleted_at IS NULL`
	err := utils.ExecWithCheck(ctx, db, query, utils.ExecUpdate, time.Now().UTC(), id, farmID)
	if err == utils.ErrNoRowsAffected {
		return ErrNotFound
	}
	if err != nil {
		return translate(err, "failed to delete from "+table)
	}
	return nil
}
