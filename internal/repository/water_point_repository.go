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

type IWaterPointRepository interface {
	Create(ctx context.Context, wp *models.WaterPoint) error
	FindByIDAndFarm(ctx context.Context, id, farmID uuid.UUID) (*models.WaterPoint, error)
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.WaterPoint, error)
	Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdateWaterPointRequest) (*models.WaterPoint, error)
	SoftDelete(ctx context.Context, id, farmID uuid.UUID) error
}

type WaterPointRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewWaterPointRepository(db *sqlx.DB, logger *zap.Logger) IWaterPointRepository {
	return &WaterPointRepository{db: db, logger: logger}
}

const waterPointColumns = `id, farm_id, name, type, ST_AsEWKB(location) AS geometry, is_active, created_at, updated_at, deleted_at`

func (r *WaterPointRepository) Create(ctx context.Context, wp *models.WaterPoint) error {
	if wp.ID == uuid.Nil {
		wp.ID = uuid.New()
	}
	now := time.Now().UTC()
	wp.CreatedAt = now
	wp.UpdatedAt = now

	query := `
		INSERT INTO water_points (id, farm_id, name, type, location, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, ST_GeomFromEWKT($5), $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		wp.ID, wp.FarmID, wp.Name, wp.Type, &wp.Geometry, wp.IsActive, wp.CreatedAt, wp.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create water point", zap.Error(err), zap.String("farm_id", wp.FarmID.String()))
		return translate(err, "failed to create water point")
	}
	return nil
}

func (r *WaterPointRepository) FindByIDAndFarm(ctx context.Context, id, farmID uuid.UUID) (*models.WaterPoint, error) {
	query := `SELECT ` + waterPointColumns + `
		FROM water_points
		WHERE id = $1 AND farm_id = $2 AND deleted_at IS NULL`

	var wp models.WaterPoint
	if err := r.db.GetContext(ctx, &wp, query, id, farmID); err != nil {
		return nil, translate(err, "failed to get water point")
	}
	return &wp, nil
}

func (r *WaterPointRepository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]models.WaterPoint, error) {
	query := `SELECT ` + waterPointColumns + `
		FROM water_points
		WHERE farm_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	points := []models.WaterPoint{}
	if err := r.db.SelectContext(ctx, &points, query, farmID); err != nil {
		return nil, translate(err, "failed to list water points")
	}
	return points, nil
}

func (r *WaterPointRepository) Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdateWaterPointRequest) (*models.WaterPoint, error) {
	var b utils.UpdateBuilder
	if req.Name.Set {
		if req.Name.Null {
			b.SetNull("name")
		} else {
			b.Set("name", req.Name.Value)
		}
	}
	if req.Type.Set {
		if req.Type.Null {
			b.SetNull("type")
		} else {
			b.Set("type", req.Type.Value)
		}
	}
	if req.Geometry.HasValue() {
		b.SetExpr("location", "ST_GeomFromEWKT(%s)", &req.Geometry.Value)
	}
	if req.IsActive.HasValue() {
		b.Set("is_active", req.IsActive.Value)
	}
	if b.Len() == 0 {
		return r.FindByIDAndFarm(ctx, id, farmID)
	}

	result, err := b.Build("water_points", time.Now().UTC(), scopedToFarm(id, farmID), waterPointColumns)
	if err != nil {
		return nil, err
	}

	var wp models.WaterPoint
	if err := r.db.GetContext(ctx, &wp, result.Query, result.Args...); err != nil {
		return nil, translate(err, "failed to update water point")
	}
	return &wp, nil
}

func (r *WaterPointRepository) SoftDelete(ctx context.Context, id, farmID uuid.UUID) error {
	return softDelete(ctx, r.db, "water_points", id, farmID)
}
