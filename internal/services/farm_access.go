package services

import (
	"context"
	"errors"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
)

// FarmAccess is the tenant isolation checkpoint. Every farm-scoped
// operation resolves its farm through it before touching anything else.
type FarmAccess struct {
	farms repository.IFarmRepository
}

func NewFarmAccess(farms repository.IFarmRepository) *FarmAccess {
	return &FarmAccess{farms: farms}
}

// ResolveFarmOrFail returns the live farm with farmID owned by
// organizationID, or a NotFound error.
func (a *FarmAccess) ResolveFarmOrFail(ctx context.Context, farmID, organizationID uuid.UUID) (*models.Farm, error) {
	farm, err := a.farms.FindByIDAndOrganization(ctx, farmID, organizationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Farm not found or access denied")
		}
		return nil, apperror.Internal(err, "failed to resolve farm")
	}
	return farm, nil
}
