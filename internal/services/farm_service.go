package services

import (
	"context"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type IFarmService interface {
	CreateFarm(ctx context.Context, organizationID uuid.UUID, req *models.CreateFarmRequest) (*models.Farm, error)
	ListFarms(ctx context.Context, organizationID uuid.UUID) ([]models.Farm, error)
	GetFarm(ctx context.Context, farmID, organizationID uuid.UUID) (*models.Farm, error)
	GetMapLayers(ctx context.Context, farmID, organizationID uuid.UUID) (*models.FarmMapLayers, error)
}

type FarmService struct {
	access      *FarmAccess
	farms       repository.IFarmRepository
	paddocks    repository.IPaddockRepository
	waterPoints repository.IWaterPointRepository
	herdGroups  repository.IHerdGroupRepository
	events      repository.IGrazingEventRepository
	logger      *zap.Logger
}

func NewFarmService(
	access *FarmAccess,
	farms repository.IFarmRepository,
	paddocks repository.IPaddockRepository,
	waterPoints repository.IWaterPointRepository,
	herdGroups repository.IHerdGroupRepository,
	events repository.IGrazingEventRepository,
	logger *zap.Logger,
) IFarmService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmService{
		access:      access,
		farms:       farms,
		paddocks:    paddocks,
		waterPoints: waterPoints,
		herdGroups:  herdGroups,
		events:      events,
		logger:      logger,
	}
}

func (s *FarmService) CreateFarm(ctx context.Context, organizationID uuid.UUID, req *models.CreateFarmRequest) (*models.Farm, error) {
	farm := &models.Farm{OrganizationID: organizationID, Name: req.Name}
	if req.Center != nil {
		farm.Center = models.NewGeoJSONPoint(req.Center.Lng, req.Center.Lat)
	}
	if err := s.farms.Create(ctx, farm); err != nil {
		return nil, apperror.Internal(err, "failed to create farm")
	}
	s.logger.Info("farm created", zap.String("farm_id", farm.ID.String()), zap.String("organization_id", organizationID.String()))
	return farm, nil
}

func (s *FarmService) ListFarms(ctx context.Context, organizationID uuid.UUID) ([]models.Farm, error) {
	farms, err := s.farms.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list farms")
	}
	return farms, nil
}

func (s *FarmService) GetFarm(ctx context.Context, farmID, organizationID uuid.UUID) (*models.Farm, error) {
	return s.access.ResolveFarmOrFail(ctx, farmID, organizationID)
}

// GetMapLayers loads the four layers of the farm map concurrently.
func (s *FarmService) GetMapLayers(ctx context.Context, farmID, organizationID uuid.UUID) (*models.FarmMapLayers, error) {
	if _, err := s.access.ResolveFarmOrFail(ctx, farmID, organizationID); err != nil {
		return nil, err
	}

	var (
		paddocks    []models.Paddock
		waterPoints []models.WaterPoint
		herdGroups  []models.HerdGroup
		events      []models.GrazingEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		paddocks, err = s.paddocks.ListByFarm(gctx, farmID)
		return err
	})
	g.Go(func() (err error) {
		waterPoints, err = s.waterPoints.ListByFarm(gctx, farmID)
		return err
	})
	g.Go(func() (err error) {
		herdGroups, err = s.herdGroups.ListByFarm(gctx, farmID)
		return err
	})
	g.Go(func() (err error) {
		events, err = s.events.FindActiveByFarm(gctx, farmID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load map layers", zap.String("farm_id", farmID.String()), zap.Error(err))
		return nil, apperror.Internal(err, "failed to load map layers")
	}

	layers := &models.FarmMapLayers{
		Paddocks:      models.PaddocksToResponse(paddocks),
		WaterPoints:   waterPoints,
		HerdGroups:    models.HerdGroupsToResponse(herdGroups),
		GrazingEvents: models.GrazingEventsToResponse(events),
	}
	if layers.WaterPoints == nil {
		layers.WaterPoints = []models.WaterPoint{}
	}
	return layers, nil
}
