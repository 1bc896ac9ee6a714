package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// DURATIONS
// ============================================================================

func TestGrazingEvent_Durations_Closed(t *testing.T) {
	start := time.Date(2024, 2, 15, 8, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 20, 17, 0, 0, 0, time.UTC)
	e := GrazingEvent{StartAt: start, EndAt: &end}

	hours, days := e.Durations()

	require.NotNil(t, hours)
	require.NotNil(t, days)
	assert.Equal(t, 129.0, *hours)
	assert.Equal(t, 5.38, *days)
}

func TestGrazingEvent_Durations_Open(t *testing.T) {
	e := GrazingEvent{StartAt: time.Now()}

	hours, days := e.Durations()

	assert.Nil(t, hours)
	assert.Nil(t, days)
}

func TestGrazingEvent_ToResponse(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	e := GrazingEvent{
		Status:      GrazingEventStatusDone,
		StartAt:     start,
		EndAt:       &end,
		UGMSnapshot: decimal.NewNullDecimal(decimal.RequireFromString("10.0011")),
	}

	resp := e.ToResponse()

	require.NotNil(t, resp.UGMSnapshot)
	assert.Equal(t, 10.0011, *resp.UGMSnapshot)
	assert.Equal(t, 1.5, *resp.DurationHours)
	assert.Equal(t, 0.06, *resp.DurationDays)

	e.UGMSnapshot = decimal.NullDecimal{}
	assert.Nil(t, e.ToResponse().UGMSnapshot)
}

// ============================================================================
// PARTIAL UPDATE DECODING
// ============================================================================

func TestUpdateGrazingEventRequest_DistinguishesAbsentAndNull(t *testing.T) {
	var req UpdateGrazingEventRequest
	err := json.Unmarshal([]byte(`{"endAt": null, "status": "done"}`), &req)
	require.NoError(t, err)

	assert.False(t, req.StartAt.Set)
	assert.True(t, req.EndAt.Set)
	assert.True(t, req.EndAt.Null)
	assert.True(t, req.Status.HasValue())
	assert.Equal(t, GrazingEventStatusDone, req.Status.Value)
	assert.False(t, req.Notes.Set)
}

func TestOptional_Ptr(t *testing.T) {
	assert.Nil(t, Null[string]().Ptr())
	assert.Nil(t, Optional[string]{}.Ptr())
	assert.Equal(t, "x", *Some("x").Ptr())
}

func TestDateRange_Dates(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: &from}

	assert.Equal(t, "2024-01-01", r.FromDate())
	assert.Equal(t, "", r.ToDate())
	assert.False(t, r.IsZero())
	assert.True(t, DateRange{}.IsZero())
}

func TestGrazingEventStatus_IsValid(t *testing.T) {
	assert.True(t, GrazingEventStatusCanceled.IsValid())
	assert.False(t, GrazingEventStatus("finished").IsValid())
	assert.True(t, WaterPointTypeWindmill.IsValid())
	assert.False(t, WaterPointType("pozo").IsValid())
}
