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

type IPaddockService interface {
	Create(ctx context.Context, farmID, organizationID uuid.UUID, req *models.CreatePaddockRequest) (*models.Paddock, error)
	Get(ctx context.Context, id, farmID, organizationID uuid.UUID) (*models.Paddock, error)
	List(ctx context.Context, farmID, organizationID uuid.UUID) ([]models.Paddock, error)
	Update(ctx context.Context, id, farmID, organizationID uuid.UUID, req *models.UpdatePaddockRequest) (*models.Paddock, error)
	Delete(ctx context.Context, id, farmID, organizationID uuid.UUID) error
}

type PaddockService struct {
	access   *FarmAccess
	paddocks repository.IPaddockRepository
	geometry repository.IGeometryRepository
	logger   *zap.Logger
}

func NewPaddockService(access *FarmAccess, paddocks repository.IPaddockRepository, geometry repository.IGeometryRepository, logger *zap.Logger) IPaddockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaddockService{access: access, paddocks: paddocks, geometry: geometry, logger: logger}
}

func (s *PaddockService) Create(ctx context.Context, farmID, organizationID uuid.UUID, req *models.CreatePaddockRequest) (*models.Paddock, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	area, err := s.measure(ctx, &req.Geometry)
	if err != nil {
		return nil, err
	}

	paddock := &models.Paddock{
		FarmID:      farmID,
		Name:        req.Name,
		Description: req.Description,
		Geometry:    req.Geometry,
		AreaHa:      area,
		IsActive:    true,
	}
	if err := s.paddocks.Create(ctx, paddock); err != nil {
		return nil, apperror.Internal(err, "failed to create paddock")
	}
	return paddock, nil
}

func (s *PaddockService) Get(ctx context.Context, id, farmID, organizationID uuid.UUID) (*models.Paddock, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	paddock, err := s.paddocks.FindByIDAndFarm(ctx, id, farmID)
	if err != nil {
		return nil, paddockError(err, "failed to get paddock")
	}
	return paddock, nil
}

func (s *PaddockService) List(ctx context.Context, farmID, organizationID uuid.UUID) ([]models.Paddock, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	paddocks, err := s.paddocks.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list paddocks")
	}
	return paddocks, nil
}

// Update recomputes the area whenever a new boundary is supplied.
func (s *PaddockService) Update(ctx context.Context, id, farmID, organizationID uuid.UUID, req *models.UpdatePaddockRequest) (*models.Paddock, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}
	if req.Name.Set && (req.Name.Null || req.Name.Value == "") {
		return nil, apperror.BadRequest("name cannot be empty")
	}
	if req.Geometry.Set && req.Geometry.Null {
		return nil, apperror.BadRequest("geometry cannot be null")
	}
	if req.IsActive.Set && req.IsActive.Null {
		return nil, apperror.BadRequest("isActive cannot be null")
	}

	var area *decimal.Decimal
	if req.Geometry.HasValue() {
		a, err := s.measure(ctx, &req.Geometry.Value)
		if err != nil {
			return nil, err
		}
		area = &a
	}

	paddock, err := s.paddocks.Update(ctx, id, farmID, req, area)
	if err != nil {
		return nil, paddockError(err, "failed to update paddock")
	}
	return paddock, nil
}

func (s *PaddockService) Delete(ctx context.Context, id, farmID, organizationID uuid.UUID) error {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return err
	}
	if err := s.paddocks.SoftDelete(ctx, id, farmID); err != nil {
		return paddockError(err, "failed to delete paddock")
	}
	return nil
}

// measure validates a boundary and returns its area in hectares.
func (s *PaddockService) measure(ctx context.Context, polygon *models.GeoJSONPolygon) (decimal.Decimal, error) {
	if polygon.Type != "Polygon" {
		return decimal.Zero, apperror.BadRequest("geometry must be a Polygon")
	}
	if !polygon.IsClosedRing() {
		return decimal.Zero, apperror.BadRequest("Polygon ring must be closed")
	}
	area, err := s.geometry.ComputeAreaHa(ctx, polygon)
	if err != nil {
		s.logger.Error("failed to compute paddock area", zap.Error(err))
		return decimal.Zero, apperror.Internal(err, "failed to compute paddock area")
	}
	return area, nil
}

func paddockError(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Paddock not found")
	}
	return apperror.Internal(err, "%s", msg)
}
