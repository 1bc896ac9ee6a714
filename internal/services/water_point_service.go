package services

import (
	"context"
	"errors"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IWaterPointService interface {
	Create(ctx context.Context, farmID, organizationID uuid.UUID, req *models.CreateWaterPointRequest) (*models.WaterPoint, error)
	Get(ctx context.Context, id, farmID, organizationID uuid.UUID) (*models.WaterPoint, error)
	List(ctx context.Context, farmID, organizationID uuid.UUID) ([]models.WaterPoint, error)
	Update(ctx context.Context, id, farmID, organizationID uuid.UUID, req *models.UpdateWaterPointRequest) (*models.WaterPoint, error)
	Delete(ctx context.Context, id, farmID, organizationID uuid.UUID) error
}

type WaterPointService struct {
	access      *FarmAccess
	waterPoints repository.IWaterPointRepository
	logger      *zap.Logger
}

func NewWaterPointService(access *FarmAccess, waterPoints repository.IWaterPointRepository, logger *zap.Logger) IWaterPointService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WaterPointService{access: access, waterPoints: waterPoints, logger: logger}
}

func (s *WaterPointService) Create(ctx context.Context, farmID, organizationID uuid.UUID, req *models.CreateWaterPointRequest) (*models.WaterPoint, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	if req.Type != nil && !req.Type.IsValid() {
		return nil, apperror.BadRequest("invalid water point type: %s", *req.Type)
	}
	if err := validatePoint(&req.Geometry); err != nil {
		return nil, err
	}

	wp := &models.WaterPoint{
		FarmID:   farmID,
		Name:     req.Name,
		Type:     req.Type,
		Geometry: req.Geometry,
		IsActive: true,
	}
	if err := s.waterPoints.Create(ctx, wp); err != nil {
		return nil, apperror.Internal(err, "failed to create water point")
	}
	return wp, nil
}

func (s *WaterPointService) Get(ctx context.Context, id, farmID, organizationID uuid.UUID) (*models.WaterPoint, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	wp, err := s.waterPoints.FindByIDAndFarm(ctx, id, farmID)
	if err != nil {
		return nil, waterPointError(err, "failed to get water point")
	}
	return wp, nil
}

func (s *WaterPointService) List(ctx context.Context, farmID, organizationID uuid.UUID) ([]models.WaterPoint, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	wps, err := s.waterPoints.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list water points")
	}
	return wps, nil
}

func (s *WaterPointService) Update(ctx context.Context, id, farmID, organizationID uuid.UUID, req *models.UpdateWaterPointRequest) (*models.WaterPoint, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	if req.Type.HasValue() && !req.Type.Value.IsValid() {
		return nil, apperror.BadRequest("invalid water point type: %s", req.Type.Value)
	}
	if req.Geometry.Set {
		if req.Geometry.Null {
			return nil, apperror.BadRequest("geometry cannot be null")
		}
		if err := validatePoint(&req.Geometry.Value); err != nil {
			return nil, err
		}
	}
	if req.IsActive.Set && req.IsActive.Null {
		return nil, apperror.BadRequest("isActive cannot be null")
	}

	wp, err := s.waterPoints.Update(ctx, id, farmID, req)
	if err != nil {
		return nil, waterPointError(err, "failed to update water point")
	}
	return wp, nil
}

func (s *WaterPointService) Delete(ctx context.Context, id, farmID, organizationID uuid.UUID) error {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return err
	}
	if err := s.waterPoints.SoftDelete(ctx, id, farmID); err != nil {
		return waterPointError(err, "failed to delete water point")
	}
	return nil
}

func validatePoint(p *models.GeoJSONPoint) error {
	if p.Type != "Point" || len(p.Coordinates) != 2 {
		return apperror.BadRequest("geometry must be a Point with [lng, lat] coordinates")
	}
	return nil
}

func waterPointError(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Water point not found")
	}
	return apperror.Internal(err, "%s", msg)
}
