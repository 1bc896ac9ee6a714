package repository

import (
	"context"
	"fmt"

	"github.com/TomasElordi/gestion-rural-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// IGeometryRepository delegates spatial math to PostGIS.
type IGeometryRepository interface {
	ComputeAreaHa(ctx context.Context, polygon *models.GeoJSONPolygon) (decimal.Decimal, error)
}

type GeometryRepository struct {
	db *sqlx.DB
}

func NewGeometryRepository(db *sqlx.DB) IGeometryRepository {
	return &GeometryRepository{db: db}
}

// ComputeAreaHa returns the geodesic area of polygon in hectares.
func (r *GeometryRepository) ComputeAreaHa(ctx context.Context, polygon *models.GeoJSONPolygon) (decimal.Decimal, error) {
	doc, err := polygon.GeoJSON()
	if err != nil {
		return decimal.Zero, err
	}

	var area decimal.Decimal
	query := `SELECT ST_Area(ST_SetSRID(ST_GeomFromGeoJSON($1), 4326)::geography) / 10000.0`
	if err := r.db.GetContext(ctx, &area, query, doc); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute area: %w", err)
	}
	return area.Round(4), nil
}
