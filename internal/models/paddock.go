package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Paddock struct {
	ID          uuid.UUID       `db:"id"`
	FarmID      uuid.UUID       `db:"farm_id"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Geometry    GeoJSONPolygon  `db:"geometry"`
	AreaHa      decimal.Decimal `db:"area_ha"`
	IsActive    bool            `db:"is_active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	DeletedAt   *time.Time      `db:"deleted_at"`
}

type PaddockResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	FarmID      uuid.UUID      `json:"farmId"`
	AreaHa      float64        `json:"areaHa"`
	Geometry    GeoJSONPolygon `json:"geometry"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (p *Paddock) ToResponse() PaddockResponse {
	return PaddockResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		FarmID:      p.FarmID,
		AreaHa:      p.AreaHa.InexactFloat64(),
		Geometry:    p.Geometry,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type CreatePaddockRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description *string        `json:"description"`
	Geometry    GeoJSONPolygon `json:"geometry" binding:"required"`
}

type UpdatePaddockRequest struct {
	Name        Optional[string]         `json:"name"`
	Description Optional[string]         `json:"description"`
	Geometry    Optional[GeoJSONPolygon] `json:"geometry" binding:"-"`
	IsActive    Optional[bool]           `json:"isActive"`
}

func PaddocksToResponse(paddocks []Paddock) []PaddockResponse {
	out := make([]PaddockResponse, 0, len(paddocks))
	for i := range paddocks {
		out = append(out, paddocks[i].ToResponse())
	}
	return out
}
