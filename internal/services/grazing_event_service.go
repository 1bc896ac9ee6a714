package services

import (
	"context"
	"errors"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type IGrazingEventService interface {
	Create(ctx context.Context, farmID, organizationID uuid.UUID, req *models.CreateGrazingEventRequest) (*models.GrazingEvent, error)
	Get(ctx context.Context, id, farmID, organizationID uuid.UUID) (*models.GrazingEvent, error)
	List(ctx context.Context, farmID, organizationID uuid.UUID, filter models.GrazingEventFilter) ([]models.GrazingEvent, error)
	Update(ctx context.Context, id, farmID, organizationID uuid.UUID, req *models.UpdateGrazingEventRequest) (*models.GrazingEvent, error)
	Delete(ctx context.Context, id, farmID, organizationID uuid.UUID) error
}

type GrazingEventService struct {
	access     *FarmAccess
	rules      *GrazingRules
	events     repository.IGrazingEventRepository
	paddocks   repository.IPaddockRepository
	herdGroups repository.IHerdGroupRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewGrazingEventService(
	access *FarmAccess,
	events repository.IGrazingEventRepository,
	paddocks repository.IPaddockRepository,
	herdGroups repository.IHerdGroupRepository,
	logger *zap.Logger,
) IGrazingEventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrazingEventService{
		access:     access,
		rules:      NewGrazingRules(events),
		events:     events,
		paddocks:   paddocks,
		herdGroups: herdGroups,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *GrazingEventService) Create(ctx context.Context, farmID, organizationID uuid.UUID, req *models.CreateGrazingEventRequest) (*models.GrazingEvent, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	if _, err := s.paddocks.FindByIDAndFarm(ctx, req.PaddockID, farmID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.BadRequest("Paddock not found or does not belong to this farm")
		}
		return nil, apperror.Internal(err, "failed to load paddock")
	}

	herdGroup, err := s.herdGroups.FindByIDAndFarm(ctx, req.HerdGroupID, farmID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.BadRequest("Herd group not found or does not belong to this farm")
		}
		return nil, apperror.Internal(err, "failed to load herd group")
	}

	if err := ValidateDateConsistency(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}

	status := DetermineInitialStatus(req.StartAt, req.EndAt, s.now())
	if status == models.GrazingEventStatusActive {
		if err := s.rules.ValidateHerdGroupAvailability(ctx, req.HerdGroupID, nil); err != nil {
			return nil, err
		}
		if err := s.rules.ValidatePaddockAvailability(ctx, req.PaddockID, nil); err != nil {
			return nil, err
		}
	}

	event := &models.GrazingEvent{
		FarmID:      farmID,
		HerdGroupID: req.HerdGroupID,
		PaddockID:   req.PaddockID,
		Status:      status,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		UGMSnapshot: ugmSnapshot(herdGroup),
		Notes:       req.Notes,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, s.mapWriteError(err, "failed to create grazing event")
	}

	s.logger.Info("grazing event created",
		zap.String("event_id", event.ID.String()),
		zap.String("farm_id", farmID.String()),
		zap.String("status", string(status)))
	return event, nil
}

func (s *GrazingEventService) Get(ctx context.Context, id, farmID, organizationID uuid.UUID) (*models.GrazingEvent, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	return s.load(ctx, id, farmID)
}

func (s *GrazingEventService) List(ctx context.Context, farmID, organizationID uuid.UUID, filter models.GrazingEventFilter) ([]models.GrazingEvent, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperror.BadRequest("invalid status: %s", *filter.Status)
	}

	events, err := s.events.FindAllByFarm(ctx, farmID, filter)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list grazing events")
	}
	return events, nil
}

// Update applies a partial change. Moving an event into active re-checks
// availability of its paddock and herd group.
func (s *GrazingEventService) Update(ctx context.Context, id, farmID, organizationID uuid.UUID, req *models.UpdateGrazingEventRequest) (*models.GrazingEvent, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, id, farmID)
	if err != nil {
		return nil, err
	}

	changes, err := buildGrazingEventChanges(req)
	if err != nil {
		return nil, err
	}

	startAt := current.StartAt
	if changes.StartAt != nil {
		startAt = *changes.StartAt
	}
	endAt := current.EndAt
	switch {
	case changes.ClearEndAt:
		endAt = nil
	case changes.EndAt != nil:
		endAt = changes.EndAt
	}
	if err := ValidateDateConsistency(startAt, endAt); err != nil {
		return nil, err
	}

	status := current.Status
	if changes.Status != nil {
		status = *changes.Status
	}
	if status == models.GrazingEventStatusActive && current.Status != models.GrazingEventStatusActive {
		if err := s.rules.ValidateActivation(ctx, id, current.HerdGroupID, current.PaddockID); err != nil {
			return nil, err
		}
	}

	if changes.IsEmpty() {
		return current, nil
	}

	updated, err := s.events.Update(ctx, id, farmID, changes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Grazing event not found")
		}
		return nil, s.mapWriteError(err, "failed to update grazing event")
	}

	if updated.Status != current.Status {
		s.logger.Info("grazing event status changed",
			zap.String("event_id", id.String()),
			zap.String("from", string(current.Status)),
			zap.String("to", string(updated.Status)))
	}
	return updated, nil
}

func (s *GrazingEventService) Delete(ctx context.Context, id, farmID, organizationID uuid.UUID) error {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return err
	}
	if err := s.events.SoftDelete(ctx, id, farmID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Grazing event not found")
		}
		return apperror.Internal(err, "failed to delete grazing event")
	}
	return nil
}

func (s *GrazingEventService) load(ctx context.Context, id, farmID uuid.UUID) (*models.GrazingEvent, error) {
	event, err := s.events.FindByID(ctx, id, farmID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Grazing event not found")
		}
		return nil, apperror.Internal(err, "failed to get grazing event")
	}
	return event, nil
}

// mapWriteError turns a lost activation race caught by the storage
// indexes into the same Conflict the pre-check reports.
func (s *GrazingEventService) mapWriteError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrActivePaddockConflict):
		return apperror.Conflict("Paddock is already in use by another active grazing event")
	case errors.Is(err, repository.ErrActiveHerdGroupConflict):
		return apperror.Conflict("Herd group is already in an active grazing event")
	}
	s.logger.Error(msg, zap.Error(err))
	return apperror.Internal(err, "%s", msg)
}

func buildGrazingEventChanges(req *models.UpdateGrazingEventRequest) (models.GrazingEventChanges, error) {
	var changes models.GrazingEventChanges

	if req.StartAt.Set {
		if req.StartAt.Null {
			return changes, apperror.BadRequest("startAt cannot be null")
		}
		changes.StartAt = req.StartAt.Ptr()
	}
	if req.EndAt.Set {
		if req.EndAt.Null {
			changes.ClearEndAt = true
		} else {
			changes.EndAt = req.EndAt.Ptr()
		}
	}
	if req.Status.Set {
		if req.Status.Null {
			return changes, apperror.BadRequest("status cannot be null")
		}
		if !req.Status.Value.IsValid() {
			return changes, apperror.BadRequest("invalid status: %s", req.Status.Value)
		}
		changes.Status = req.Status.Ptr()
	}
	if req.Notes.Set {
		if req.Notes.Null {
			changes.ClearNotes = true
		} else {
			changes.Notes = req.Notes.Ptr()
		}
	}
	return changes, nil
}

func ugmSnapshot(hg *models.HerdGroup) decimal.NullDecimal {
	if hg == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: hg.UGM, Valid: true}
}
