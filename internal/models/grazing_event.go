package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	msPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))
	msPerDay  = decimal.NewFromInt(int64(24 * time.Hour / time.Millisecond))
)

type GrazingEvent struct {
	ID          uuid.UUID           `db:"id"`
	FarmID      uuid.UUID           `db:"farm_id"`
	HerdGroupID uuid.UUID           `db:"herd_group_id"`
	PaddockID   uuid.UUID           `db:"paddock_id"`
	Status      GrazingEventStatus  `db:"status"`
	StartAt     time.Time           `db:"start_at"`
	EndAt       *time.Time          `db:"end_at"`
	UGMSnapshot decimal.NullDecimal `db:"ugm_snapshot"`
	Notes       *string             `db:"notes"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`
	DeletedAt   *time.Time          `db:"deleted_at"`
}

type GrazingEventResponse struct {
	ID            uuid.UUID          `json:"id"`
	FarmID        uuid.UUID          `json:"farmId"`
	HerdGroupID   uuid.UUID          `json:"herdGroupId"`
	PaddockID     uuid.UUID          `json:"paddockId"`
	Status        GrazingEventStatus `json:"status"`
	StartAt       time.Time          `json:"startAt"`
	EndAt         *time.Time         `json:"endAt"`
	UGMSnapshot   *float64           `json:"ugmSnapshot"`
	Notes         *string            `json:"notes"`
	DurationHours *float64           `json:"durationHours"`
	DurationDays  *float64           `json:"durationDays"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Durations returns the closed length of the event in hours and days,
// both rounded to two places. Open events have no duration.
func (e *GrazingEvent) Durations() (hours, days *float64) {
	if e.EndAt == nil {
		return nil, nil
	}
	ms := decimal.NewFromInt(e.EndAt.Sub(e.StartAt).Milliseconds())
	h := ms.Div(msPerHour)
	d := ms.Div(msPerDay)
	hv := h.Round(2).InexactFloat64()
	dv := d.Round(2).InexactFloat64()
	return &hv, &dv
}

func (e *GrazingEvent) ToResponse() GrazingEventResponse {
	hours, days := e.Durations()
	resp := GrazingEventResponse{
		ID:            e.ID,
		FarmID:        e.FarmID,
		HerdGroupID:   e.HerdGroupID,
		PaddockID:     e.PaddockID,
		Status:        e.Status,
		StartAt:       e.StartAt,
		EndAt:         e.EndAt,
		Notes:         e.Notes,
		DurationHours: hours,
		DurationDays:  days,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.UGMSnapshot.Valid {
		v := e.UGMSnapshot.Decimal.InexactFloat64()
		resp.UGMSnapshot = &v
	}
	return resp
}

func GrazingEventsToResponse(events []GrazingEvent) []GrazingEventResponse {
	out := make([]GrazingEventResponse, 0, len(events))
	for i := range events {
		out = append(out, events[i].ToResponse())
	}
	return out
}

type CreateGrazingEventRequest struct {
	HerdGroupID uuid.UUID  `json:"herdGroupId" binding:"required"`
	PaddockID   uuid.UUID  `json:"paddockId" binding:"required"`
	StartAt     time.Time  `json:"startAt" binding:"required"`
	EndAt       *time.Time `json:"endAt"`
	Notes       *string    `json:"notes"`
}

type UpdateGrazingEventRequest struct {
	StartAt Optional[time.Time]          `json:"startAt"`
	EndAt   Optional[time.Time]          `json:"endAt"`
	Status  Optional[GrazingEventStatus] `json:"status"`
	Notes   Optional[string]             `json:"notes"`
}

// GrazingEventChanges is the set of columns an update writes. Nil fields
// are left untouched; ClearEndAt and ClearNotes null the column.
type GrazingEventChanges struct {
	StartAt    *time.Time
	EndAt      *time.Time
	ClearEndAt bool
	Status     *GrazingEventStatus
	Notes      *string
	ClearNotes bool
}

func (c GrazingEventChanges) IsEmpty() bool {
	return c.StartAt == nil && c.EndAt == nil && !c.ClearEndAt &&
		c.Status == nil && c.Notes == nil && !c.ClearNotes
}

type GrazingEventFilter struct {
	Status *GrazingEventStatus
	From   *time.Time
	To     *time.Time
}
