package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HerdGroup struct {
	ID           uuid.UUID       `db:"id"`
	FarmID       uuid.UUID       `db:"farm_id"`
	Name         string          `db:"name"`
	Category     *string         `db:"category"`
	LiveWeightKg decimal.Decimal `db:"live_weight_kg"`
	UGM          decimal.Decimal `db:"ugm"`
	HeadCount    *int            `db:"head_count"`
	Notes        *string         `db:"notes"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
	DeletedAt    *time.Time      `db:"deleted_at"`
}

type HerdGroupResponse struct {
	ID           uuid.UUID `json:"id"`
	FarmID       uuid.UUID `json:"farmId"`
	Name         string    `json:"name"`
	Category     *string   `json:"category"`
	LiveWeightKg float64   `json:"liveWeightKg"`
	UGM          float64   `json:"ugm"`
	HeadCount    *int      `json:"headCount"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (h *HerdGroup) ToResponse() HerdGroupResponse {
	return HerdGroupResponse{
		ID:           h.ID,
		FarmID:       h.FarmID,
		Name:         h.Name,
		Category:     h.Category,
		LiveWeightKg: h.LiveWeightKg.InexactFloat64(),
		UGM:          h.UGM.InexactFloat64(),
		HeadCount:    h.HeadCount,
		Notes:        h.Notes,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
}

func HerdGroupsToResponse(groups []HerdGroup) []HerdGroupResponse {
	out := make([]HerdGroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, groups[i].ToResponse())
	}
	return out
}

type CreateHerdGroupRequest struct {
	Name         string           `json:"name" binding:"required"`
	Category     *string          `json:"category"`
	LiveWeightKg *decimal.Decimal `json:"liveWeightKg" binding:"required"`
	HeadCount    *int             `json:"headCount" binding:"omitempty,gte=0"`
	Notes        *string          `json:"notes"`
}

type UpdateHerdGroupRequest struct {
	Name         Optional[string]          `json:"name"`
	Category     Optional[string]          `json:"category"`
	LiveWeightKg Optional[decimal.Decimal] `json:"liveWeightKg"`
	HeadCount    Optional[int]             `json:"headCount"`
	Notes        Optional[string]          `json:"notes"`
}
