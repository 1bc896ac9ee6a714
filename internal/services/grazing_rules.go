package services

import (
	"context"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
)

// DetermineInitialStatus derives the status of a new event. An end date
// records a finished grazing; otherwise the event is planned until its
// start passes.
func DetermineInitialStatus(startAt time.Time, endAt *time.Time, now time.Time) models.GrazingEventStatus {
	if endAt != nil {
		return models.GrazingEventStatusDone
	}
	if startAt.After(now) {
		return models.GrazingEventStatusPlanned
	}
	return models.GrazingEventStatusActive
}

func ValidateDateConsistency(startAt time.Time, endAt *time.Time) error {
	if endAt != nil && !startAt.Before(*endAt) {
		return apperror.Conflict("End date must be after start date")
	}
	return nil
}

// GrazingRules enforces that a paddock and a herd group each take part in
// at most one active grazing event.
type GrazingRules struct {
	events repository.IGrazingEventRepository
}

func NewGrazingRules(events repository.IGrazingEventRepository) *GrazingRules {
	return &GrazingRules{events: events}
}

func (r *GrazingRules) ValidateHerdGroupAvailability(ctx context.Context, herdGroupID uuid.UUID, excludeEventID *uuid.UUID) error {
	active, err := r.events.FindActiveByHerdGroup(ctx, herdGroupID, excludeEventID)
	if err != nil {
		return apperror.Internal(err, "failed to check herd group availability")
	}
	if len(active) > 0 {
		return apperror.Conflict("Herd group is already in an active grazing event (ID: %s)", active[0].ID)
	}
	return nil
}

func (r *GrazingRules) ValidatePaddockAvailability(ctx context.Context, paddockID uuid.UUID, excludeEventID *uuid.UUID) error {
	active, err := r.events.FindActiveByPaddock(ctx, paddockID, excludeEventID)
	if err != nil {
		return apperror.Internal(err, "failed to check paddock availability")
	}
	if len(active) > 0 {
		return apperror.Conflict("Paddock is already in use by another active grazing event (ID: %s)", active[0].ID)
	}
	return nil
}

// ValidateActivation runs both availability checks ignoring eventID itself.
func (r *GrazingRules) ValidateActivation(ctx context.Context, eventID, herdGroupID, paddockID uuid.UUID) error {
	if err := r.ValidateHerdGroupAvailability(ctx, herdGroupID, &eventID); err != nil {
		return err
	}
	return r.ValidatePaddockAvailability(ctx, paddockID, &eventID)
}
