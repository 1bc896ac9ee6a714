package services

import (
	"context"
	"sort"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/config"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	msPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))
	msPerDay  = decimal.NewFromInt(int64(24 * time.Hour / time.Millisecond))
)

type IInsightsService interface {
	GetRestDays(ctx context.Context, farmID, organizationID uuid.UUID) (*models.RestDaysResponse, error)
	GetOccupancy(ctx context.Context, farmID, organizationID uuid.UUID, dr models.DateRange) (*models.OccupancyResponse, error)
	GetStockingRate(ctx context.Context, farmID, organizationID uuid.UUID, dr models.DateRange) (*models.StockingRateResponse, error)
	GetTimeline(ctx context.Context, farmID, organizationID uuid.UUID, dr models.DateRange) (*models.TimelineResponse, error)
	GetActiveAlerts(ctx context.Context, farmID, organizationID uuid.UUID, dr models.DateRange) (*models.ActiveAlertsResponse, error)
}

// InsightsService derives occupancy, rest and stocking metrics from the
// grazing history. All figures are computed against a single "now" per call.
type InsightsService struct {
	access   *FarmAccess
	repo     repository.IInsightsRepository
	settings config.GrazingConfig
	logger   *zap.Logger
	now      func() time.Time
}

func NewInsightsService(access *FarmAccess, repo repository.IInsightsRepository, settings config.GrazingConfig, logger *zap.Logger) IInsightsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsService{
		access:   access,
		repo:     repo,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *InsightsService) GetRestDays(ctx context.Context, farmID, organizationID uuid.UUID) (*models.RestDaysResponse, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindPaddocksRestDays(ctx, farmID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load rest days")
	}

	now := s.now().UTC()
	paddocks := make([]models.PaddockRestDays, 0, len(rows))
	for _, row := range rows {
		item := models.PaddockRestDays{
			PaddockID:          row.PaddockID,
			PaddockName:        row.PaddockName,
			AreaHa:             row.AreaHa.Decimal.InexactFloat64(),
			NeverGrazed:        row.LastGrazingEndDate == nil,
			LastGrazingEndDate: row.LastGrazingEndDate,
		}
		if row.LastGrazingEndDate != nil {
			days := elapsedMs(*row.LastGrazingEndDate, now).Div(msPerDay).Floor().IntPart()
			item.RestDays = &days
		}
		paddocks = append(paddocks, item)
	}

	return &models.RestDaysResponse{Paddocks: paddocks, CalculatedAt: now}, nil
}

func (s *InsightsService) GetOccupancy(ctx context.Context, farmID, organizationID uuid.UUID, dr models.DateRange) (*models.OccupancyResponse, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindOccupancyEvents(ctx, farmID, dr)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load occupancy events")
	}

	now := s.now().UTC()
	events := make([]models.OccupancyEvent, 0, len(rows))
	for _, row := range rows {
		occ := s.occupancyOf(row, now)
		events = append(events, models.OccupancyEvent{
			EventID:          row.EventID,
			PaddockID:        row.PaddockID,
			PaddockName:      row.PaddockName,
			HerdGroupID:      row.HerdGroupID,
			HerdGroupName:    row.HerdGroupName,
			StartAt:          row.StartAt,
			EndAt:            row.EndAt,
			Status:           row.Status,
			OccupancyHours:   occ.hours,
			OccupancyDays:    occ.days.InexactFloat64(),
			ExceedsThreshold: occ.exceeds,
		})
	}

	return &models.OccupancyResponse{
		Events:        events,
		ThresholdDays: s.settings.MaxOccupancyDays.InexactFloat64(),
		FromDate:      dr.FromDate(),
		ToDate:        dr.ToDate(),
	}, nil
}

func (s *InsightsService) GetStockingRate(ctx context.Context, farmID, organizationID uuid.UUID, dr models.DateRange) (*models.StockingRateResponse, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindStockingRateEvents(ctx, farmID, dr)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load stocking rate events")
	}

	events := make([]models.StockingRateEvent, 0, len(rows))
	for _, row := range rows {
		rate := s.stockingOf(row)
		events = append(events, models.StockingRateEvent{
			EventID:          row.EventID,
			PaddockID:        row.PaddockID,
			PaddockName:      row.PaddockName,
			PaddockAreaHa:    row.PaddockAreaHa.Decimal.InexactFloat64(),
			HerdGroupID:      row.HerdGroupID,
			HerdGroupName:    row.HerdGroupName,
			EventUGM:         rate.eventUGM.InexactFloat64(),
			UGMPerHa:         rate.perHa.InexactFloat64(),
			ExceedsThreshold: rate.exceeds,
			StartAt:          row.StartAt,
			EndAt:            row.EndAt,
			Status:           row.Status,
		})
	}

	return &models.StockingRateResponse{
		Events:            events,
		ThresholdUGMPerHa: s.stockingThreshold(),
		FromDate:          dr.FromDate(),
		ToDate:            dr.ToDate(),
	}, nil
}

func (s *InsightsService) GetTimeline(ctx context.Context, farmID, organizationID uuid.UUID, dr models.DateRange) (*models.TimelineResponse, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindTimelineEvents(ctx, farmID, dr)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load timeline events")
	}

	now := s.now().UTC()
	events := make([]models.TimelineEvent, 0, len(rows))
	for _, row := range rows {
		occ := s.occupancyOf(row, now)
		rate := s.stockingOf(row)
		events = append(events, models.TimelineEvent{
			EventID:                      row.EventID,
			PaddockID:                    row.PaddockID,
			PaddockName:                  row.PaddockName,
			PaddockAreaHa:                row.PaddockAreaHa.Decimal.InexactFloat64(),
			HerdGroupID:                  row.HerdGroupID,
			HerdGroupName:                row.HerdGroupName,
			EventUGM:                     rate.eventUGM.InexactFloat64(),
			StartAt:                      row.StartAt,
			EndAt:                        row.EndAt,
			Status:                       row.Status,
			OccupancyHours:               occ.hours,
			OccupancyDays:                occ.days.InexactFloat64(),
			UGMPerHa:                     rate.perHa.InexactFloat64(),
			OccupancyExceedsThreshold:    occ.exceeds,
			StockingRateExceedsThreshold: rate.exceeds,
		})
	}

	return &models.TimelineResponse{
		Events:                        events,
		OccupancyThresholdDays:        s.settings.MaxOccupancyDays.InexactFloat64(),
		StockingRateThresholdUGMPerHa: s.stockingThreshold(),
		FromDate:                      dr.FromDate(),
		ToDate:                        dr.ToDate(),
	}, nil
}

// GetActiveAlerts lists running events, longest occupation first.
func (s *InsightsService) GetActiveAlerts(ctx context.Context, farmID, organizationID uuid.UUID, dr models.DateRange) (*models.ActiveAlertsResponse, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindActiveAlertEvents(ctx, farmID, dr)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load active alerts")
	}

	now := s.now().UTC()
	type ranked struct {
		event models.ActiveAlertEvent
		days  decimal.Decimal
	}
	items := make([]ranked, 0, len(rows))
	for _, row := range rows {
		ms := elapsedMs(row.StartAt, now)
		days := ms.Div(msPerDay).Round(2)
		items = append(items, ranked{
			days: days,
			event: models.ActiveAlertEvent{
				ID:             row.EventID,
				PaddockID:      row.PaddockID,
				PaddockName:    row.PaddockName,
				HerdGroupID:    row.HerdGroupID,
				HerdGroupName:  row.HerdGroupName,
				EntryDate:      row.StartAt,
				ExitDate:       row.EndAt,
				Status:         row.Status,
				OccupancyDays:  days.InexactFloat64(),
				OccupancyHours: ms.Div(msPerHour).Floor().IntPart(),
				UGMSnapshot:    row.UGMSnapshot.Decimal.InexactFloat64(),
				Notes:          row.Notes,
			},
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].days.GreaterThan(items[j].days)
	})

	events := make([]models.ActiveAlertEvent, 0, len(items))
	for _, it := range items {
		events = append(events, it.event)
	}
	return &models.ActiveAlertsResponse{Events: events, CalculatedAt: now}, nil
}

type occupancy struct {
	hours   int64
	days    decimal.Decimal
	exceeds bool
}

// occupancyOf measures an event up to its end, or up to now while open.
func (s *InsightsService) occupancyOf(row models.InsightEventRow, now time.Time) occupancy {
	end := now
	if row.EndAt != nil {
		end = *row.EndAt
	}
	ms := elapsedMs(row.StartAt, end)
	days := ms.Div(msPerDay).Round(2)
	return occupancy{
		hours:   ms.Div(msPerHour).Floor().IntPart(),
		days:    days,
		exceeds: days.GreaterThan(s.settings.MaxOccupancyDays),
	}
}

type stocking struct {
	eventUGM decimal.Decimal
	perHa    decimal.Decimal
	exceeds  *bool
}

// stockingOf prefers the UGM captured when the event was created and falls
// back to the herd group's current UGM. A zero or unknown area yields 0.
func (s *InsightsService) stockingOf(row models.InsightEventRow) stocking {
	eventUGM := row.HerdGroupCurrentUGM.Decimal
	if row.UGMSnapshot.Valid {
		eventUGM = row.UGMSnapshot.Decimal
	}

	perHa := decimal.Zero
	if area := row.PaddockAreaHa.Decimal; row.PaddockAreaHa.Valid && area.IsPositive() {
		perHa = eventUGM.Div(area).Round(2)
	}

	out := stocking{eventUGM: eventUGM, perHa: perHa}
	if s.settings.MaxUGMPerHa != nil {
		exceeds := perHa.GreaterThan(*s.settings.MaxUGMPerHa)
		out.exceeds = &exceeds
	}
	return out
}

func (s *InsightsService) stockingThreshold() *float64 {
	if s.settings.MaxUGMPerHa == nil {
		return nil
	}
	v := s.settings.MaxUGMPerHa.InexactFloat64()
	return &v
}

func elapsedMs(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(to.Sub(from).Milliseconds())
}
