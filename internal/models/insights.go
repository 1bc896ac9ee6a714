package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DateRange is an optional inclusive [From, To] window.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// FromDate renders the lower bound as YYYY-MM-DD, or "" when unset.
func (r DateRange) FromDate() string {
	return formatDate(r.From)
}

func (r DateRange) ToDate() string {
	return formatDate(r.To)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// PaddockRestRow is one active paddock with the end of its latest
// finished or running grazing.
type PaddockRestRow struct {
	PaddockID          uuid.UUID           `db:"paddock_id"`
	PaddockName        string              `db:"paddock_name"`
	AreaHa             decimal.NullDecimal `db:"area_ha"`
	LastGrazingEndDate *time.Time          `db:"last_grazing_end_date"`
}

// InsightEventRow joins a grazing event with its paddock and herd group.
type InsightEventRow struct {
	EventID             uuid.UUID           `db:"event_id"`
	PaddockID           uuid.UUID           `db:"paddock_id"`
	PaddockName         string              `db:"paddock_name"`
	PaddockAreaHa       decimal.NullDecimal `db:"paddock_area_ha"`
	HerdGroupID         uuid.UUID           `db:"herd_group_id"`
	HerdGroupName       string              `db:"herd_group_name"`
	UGMSnapshot         decimal.NullDecimal `db:"ugm_snapshot"`
	HerdGroupCurrentUGM decimal.NullDecimal `db:"herd_group_current_ugm"`
	StartAt             time.Time           `db:"start_at"`
	EndAt               *time.Time          `db:"end_at"`
	Status              GrazingEventStatus  `db:"status"`
	Notes               *string             `db:"notes"`
}

type PaddockRestDays struct {
	PaddockID          uuid.UUID  `json:"paddockId"`
	PaddockName        string     `json:"paddockName"`
	AreaHa             float64    `json:"areaHa"`
	RestDays           *int64     `json:"restDays"`
	NeverGrazed        bool       `json:"neverGrazed"`
	LastGrazingEndDate *time.Time `json:"lastGrazingEndDate"`
}

type RestDaysResponse struct {
	Paddocks     []PaddockRestDays `json:"paddocks"`
	CalculatedAt time.Time         `json:"calculatedAt"`
}

type OccupancyEvent struct {
	EventID          uuid.UUID          `json:"eventId"`
	PaddockID        uuid.UUID          `json:"paddockId"`
	PaddockName      string             `json:"paddockName"`
	HerdGroupID      uuid.UUID          `json:"herdGroupId"`
	HerdGroupName    string             `json:"herdGroupName"`
	StartAt          time.Time          `json:"startAt"`
	EndAt            *time.Time         `json:"endAt"`
	Status           GrazingEventStatus `json:"status"`
	OccupancyHours   int64              `json:"occupancyHours"`
	OccupancyDays    float64            `json:"occupancyDays"`
	ExceedsThreshold bool               `json:"exceedsThreshold"`
}

type OccupancyResponse struct {
	Events        []OccupancyEvent `json:"events"`
	ThresholdDays float64          `json:"thresholdDays"`
	FromDate      string           `json:"fromDate"`
	ToDate        string           `json:"toDate"`
}

type StockingRateEvent struct {
	EventID          uuid.UUID          `json:"eventId"`
	PaddockID        uuid.UUID          `json:"paddockId"`
	PaddockName      string             `json:"paddockName"`
	PaddockAreaHa    float64            `json:"paddockAreaHa"`
	HerdGroupID      uuid.UUID          `json:"herdGroupId"`
	HerdGroupName    string             `json:"herdGroupName"`
	EventUGM         float64            `json:"eventUgm"`
	UGMPerHa         float64            `json:"ugmPerHa"`
	ExceedsThreshold *bool              `json:"exceedsThreshold"`
	StartAt          time.Time          `json:"startAt"`
	EndAt            *time.Time         `json:"endAt"`
	Status           GrazingEventStatus `json:"status"`
}

type StockingRateResponse struct {
	Events            []StockingRateEvent `json:"events"`
	ThresholdUGMPerHa *float64            `json:"thresholdUgmPerHa"`
	FromDate          string              `json:"fromDate"`
	ToDate            string              `json:"toDate"`
}

type TimelineEvent struct {
	EventID                      uuid.UUID          `json:"eventId"`
	PaddockID                    uuid.UUID          `json:"paddockId"`
	PaddockName                  string             `json:"paddockName"`
	PaddockAreaHa                float64            `json:"paddockAreaHa"`
	HerdGroupID                  uuid.UUID          `json:"herdGroupId"`
	HerdGroupName                string             `json:"herdGroupName"`
	EventUGM                     float64            `json:"eventUgm"`
	StartAt                      time.Time          `json:"startAt"`
	EndAt                        *time.Time         `json:"endAt"`
	Status                       GrazingEventStatus `json:"status"`
	OccupancyHours               int64              `json:"occupancyHours"`
	OccupancyDays                float64            `json:"occupancyDays"`
	UGMPerHa                     float64            `json:"ugmPerHa"`
	OccupancyExceedsThreshold    bool               `json:"occupancyExceedsThreshold"`
	StockingRateExceedsThreshold *bool              `json:"stockingRateExceedsThreshold"`
}

type TimelineResponse struct {
	Events                        []TimelineEvent `json:"events"`
	OccupancyThresholdDays        float64         `json:"occupancyThresholdDays"`
	StockingRateThresholdUGMPerHa *float64        `json:"stockingRateThresholdUgmPerHa"`
	FromDate                      string          `json:"fromDate"`
	ToDate                        string          `json:"toDate"`
}

type ActiveAlertEvent struct {
	ID             uuid.UUID          `json:"id"`
	PaddockID      uuid.UUID          `json:"paddockId"`
	PaddockName    string             `json:"paddockName"`
	HerdGroupID    uuid.UUID          `json:"herdGroupId"`
	HerdGroupName  string             `json:"herdGroupName"`
	EntryDate      time.Time          `json:"entryDate"`
	ExitDate       *time.Time         `json:"exitDate"`
	Status         GrazingEventStatus `json:"status"`
	OccupancyDays  float64            `json:"occupancyDays"`
	OccupancyHours int64              `json:"occupancyHours"`
	UGMSnapshot    float64            `json:"ugmSnapshot"`
	Notes          *string            `json:"notes"`
}

type ActiveAlertsResponse struct {
	Events       []ActiveAlertEvent `json:"events"`
	CalculatedAt time.Time          `json:"calculatedAt"`
}
