package repository

import (
	"context"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type IFarmRepository interface {
	Create(ctx context.Context, farm *models.Farm) error
	FindByIDAndOrganization(ctx context.Context, id, organizationID uuid.UUID) (*models.Farm, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Farm, error)
}

type FarmRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFarmRepository(db *sqlx.DB, logger *zap.Logger) IFarmRepository {
	return &FarmRepository{db: db, logger: logger}
}

const farmColumns = `
	id, organization_id, name,
	ST_AsEWKB(center) AS center,
	created_at, updated_at, deleted_at`

func (r *FarmRepository) Create(ctx context.Context, farm *models.Farm) error {
	if farm.ID == uuid.Nil {
		farm.ID = uuid.New()
	}
	now := time.Now().UTC()
	farm.CreatedAt = now
	farm.UpdatedAt = now

	query := `
		INSERT INTO farms (id, organization_id, name, center, created_at, updated_at)
		VALUES ($1, $2, $3, ST_GeomFromEWKT($4), $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		farm.ID, farm.OrganizationID, farm.Name, farm.Center, farm.CreatedAt, farm.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create farm", zap.Error(err))
		return translate(err, "failed to create farm")
	}
	return nil
}

// FindByIDAndOrganization returns ErrNotFound unless a live farm with that
// id belongs to the organization.
func (r *FarmRepository) FindByIDAndOrganization(ctx context.Context, id, organizationID uuid.UUID) (*models.Farm, error) {
	query := `SELECT` + farmColumns + `
		FROM farms
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	var farm models.Farm
	if err := r.db.GetContext(ctx, &farm, query, id, organizationID); err != nil {
		return nil, translate(err, "failed to get farm")
	}
	return &farm, nil
}

func (r *FarmRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Farm, error) {
	query := `SELECT` + farmColumns + `
		FROM farms
		WHERE organization_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	farms := []models.Farm{}
	if err := r.db.SelectContext(ctx, &farms, query, organizationID); err != nil {
		return nil, translate(err, "failed to list farms")
	}
	return farms, nil
}
