package services

import (
	"context"
	"errors"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type IHerdGroupService interface {
	Create(ctx context.Context, farmID, organizationID uuid.UUID, req *models.CreateHerdGroupRequest) (*models.HerdGroup, error)
	Get(ctx context.Context, id, farmID, organizationID uuid.UUID) (*models.HerdGroup, error)
	List(ctx context.Context, farmID, organizationID uuid.UUID) ([]models.HerdGroup, error)
	Update(ctx context.Context, id, farmID, organizationID uuid.UUID, req *models.UpdateHerdGroupRequest) (*models.HerdGroup, error)
	Delete(ctx context.Context, id, farmID, organizationID uuid.UUID) error
}

type HerdGroupService struct {
	access     *FarmAccess
	herdGroups repository.IHerdGroupRepository
	calculator *UGMCalculator
	logger     *zap.Logger
}

func NewHerdGroupService(access *FarmAccess, herdGroups repository.IHerdGroupRepository, calculator *UGMCalculator, logger *zap.Logger) IHerdGroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HerdGroupService{access: access, herdGroups: herdGroups, calculator: calculator, logger: logger}
}

func (s *HerdGroupService) Create(ctx context.Context, farmID, organizationID uuid.UUID, req *models.CreateHerdGroupRequest) (*models.HerdGroup, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	if req.LiveWeightKg == nil {
		return nil, apperror.BadRequest("liveWeightKg is required")
	}
	if req.HeadCount != nil && *req.HeadCount < 0 {
		return nil, apperror.BadRequest("headCount cannot be negative")
	}

	ugm, err := s.calculator.CalculateUGM(*req.LiveWeightKg)
	if err != nil {
		return nil, err
	}

	hg := &models.HerdGroup{
		FarmID:       farmID,
		Name:         req.Name,
		Category:     req.Category,
		LiveWeightKg: *req.LiveWeightKg,
		UGM:          ugm,
		HeadCount:    req.HeadCount,
		Notes:        req.Notes,
	}
	if err := s.herdGroups.Create(ctx, hg); err != nil {
		return nil, apperror.Internal(err, "failed to create herd group")
	}
	return hg, nil
}

func (s *HerdGroupService) Get(ctx context.Context, id, farmID, organizationID uuid.UUID) (*models.HerdGroup, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	hg, err := s.herdGroups.FindByIDAndFarm(ctx, id, farmID)
	if err != nil {
		return nil, herdGroupError(err, "failed to get herd group")
	}
	return hg, nil
}

func (s *HerdGroupService) List(ctx context.Context, farmID, organizationID uuid.UUID) ([]models.HerdGroup, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	groups, err := s.herdGroups.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list herd groups")
	}
	return groups, nil
}

// Update recalculates UGM whenever a live weight is supplied.
func (s *HerdGroupService) Update(ctx context.Context, id, farmID, organizationID uuid.UUID, req *models.UpdateHerdGroupRequest) (*models.HerdGroup, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	if req.Name.Set && (req.Name.Null || req.Name.Value == "") {
		return nil, apperror.BadRequest("name cannot be empty")
	}
	if req.LiveWeightKg.Set && req.LiveWeightKg.Null {
		return nil, apperror.BadRequest("liveWeightKg cannot be null")
	}
	if req.HeadCount.HasValue() && req.HeadCount.Value < 0 {
		return nil, apperror.BadRequest("headCount cannot be negative")
	}

	var ugm *decimal.Decimal
	if req.LiveWeightKg.HasValue() {
		v, err := s.calculator.CalculateUGM(req.LiveWeightKg.Value)
		if err != nil {
			return nil, err
		}
		ugm = &v
	}

	hg, err := s.herdGroups.Update(ctx, id, farmID, req, ugm)
	if err != nil {
		return nil, herdGroupError(err, "failed to update herd group")
	}
	return hg, nil
}

func (s *HerdGroupService) Delete(ctx context.Context, id, farmID, organizationID uuid.UUID) error {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return err
	}
	if err := s.herdGroups.SoftDelete(ctx, id, farmID); err != nil {
		return herdGroupError(err, "failed to delete herd group")
	}
	return nil
}

func herdGroupError(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Herd group not found")
	}
	return apperror.Internal(err, "%s", msg)
}
