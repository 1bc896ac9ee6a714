package models

import (
	"time"

	"github.com/google/uuid"
)

type Farm struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	OrganizationID uuid.UUID     `json:"organizationId" db:"organization_id"`
	Name           string        `json:"name" db:"name"`
	Center         *GeoJSONPoint `json:"center" db:"center"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`
	DeletedAt      *time.Time    `json:"-" db:"deleted_at"`
}

type LngLat struct {
	Lng float64 `json:"lng" binding:"gte=-180,lte=180"`
	Lat float64 `json:"lat" binding:"gte=-90,lte=90"`
}

type CreateFarmRequest struct {
	Name   string  `json:"name" binding:"required"`
	Center *LngLat `json:"center"`
}

// FarmMapLayers groups everything a map view needs for one farm.
type FarmMapLayers struct {
	Paddocks      []PaddockResponse      `json:"paddocks"`
	WaterPoints   []WaterPoint           `json:"waterPoints"`
	HerdGroups    []HerdGroupResponse    `json:"herdGroups"`
	GrazingEvents []GrazingEventResponse `json:"grazingEvents"`
}
