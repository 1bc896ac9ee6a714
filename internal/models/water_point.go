package models

import (
	"time"

	"github.com/google/uuid"
)

type WaterPoint struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	FarmID    uuid.UUID       `json:"farmId" db:"farm_id"`
	Name      *string         `json:"name" db:"name"`
	Type      *WaterPointType `json:"type" db:"type"`
	Geometry  GeoJSONPoint    `json:"geometry" db:"geometry"`
	IsActive  bool            `json:"isActive" db:"is_active"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time      `json:"-" db:"deleted_at"`
}

type CreateWaterPointRequest struct {
	Name     *string         `json:"name"`
	Type     *WaterPointType `json:"type"`
	Geometry GeoJSONPoint    `json:"geometry" binding:"required"`
}

type UpdateWaterPointRequest struct {
	Name     Optional[string]         `json:"name"`
	Type     Optional[WaterPointType] `json:"type"`
	Geometry Optional[GeoJSONPoint]   `json:"geometry" binding:"-"`
	IsActive Optional[bool]           `json:"isActive"`
}
