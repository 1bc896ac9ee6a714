package handlers

import (
	"context"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// In-memory repositories so the resource handlers can run against the real
// services and exercise their validation end to end.

var fixedTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func closedSquare() models.GeoJSONPolygon {
	return models.GeoJSONPolygon{
		Type:        "Polygon",
		Coordinates: [][][]float64{{{-58.1, -34.6}, {-58.0, -34.6}, {-58.0, -34.7}, {-58.1, -34.6}}},
	}
}

func testFarmAccess() *services.FarmAccess {
	return services.NewFarmAccess(memFarmRepo{})
}

type memFarmRepo struct{}

func (memFarmRepo) Create(context.Context, *models.Farm) error { return nil }

func (memFarmRepo) FindByIDAndOrganization(_ context.Context, id, organizationID uuid.UUID) (*models.Farm, error) {
	if id != testFarmID || organizationID != testOrgID {
		return nil, repository.ErrNotFound
	}
	return &models.Farm{ID: id, OrganizationID: organizationID, Name: "La Esperanza"}, nil
}

func (memFarmRepo) ListByOrganization(context.Context, uuid.UUID) ([]models.Farm, error) {
	return nil, nil
}

type memGeometryRepo struct {
	calls int
}

func (g *memGeometryRepo) ComputeAreaHa(context.Context, *models.GeoJSONPolygon) (decimal.Decimal, error) {
	g.calls++
	return decimal.RequireFromString("42.5"), nil
}

// ----------------------------------------------------------------------------
// paddocks
// ----------------------------------------------------------------------------

type memPaddockRepo struct {
	rows    map[uuid.UUID]*models.Paddock
	updated *models.UpdatePaddockRequest
}

func newMemPaddockRepo(seed ...models.Paddock) *memPaddockRepo {
	r := &memPaddockRepo{rows: map[uuid.UUID]*models.Paddock{}}
	for i := range seed {
		p := seed[i]
		r.rows[p.ID] = &p
	}
	return r
}

func (r *memPaddockRepo) Create(_ context.Context, p *models.Paddock) error {
	p.ID, p.CreatedAt, p.UpdatedAt = uuid.New(), fixedTime, fixedTime
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memPaddockRepo) FindByIDAndFarm(_ context.Context, id, farmID uuid.UUID) (*models.Paddock, error) {
	p, ok := r.rows[id]
	if !ok || p.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPaddockRepo) ListByFarm(_ context.Context, farmID uuid.UUID) ([]models.Paddock, error) {
	var out []models.Paddock
	for _, p := range r.rows {
		if p.FarmID == farmID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPaddockRepo) Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdatePaddockRequest, areaHa *decimal.Decimal) (*models.Paddock, error) {
	r.updated = req
	if _, err := r.FindByIDAndFarm(ctx, id, farmID); err != nil {
		return nil, err
	}
	p := r.rows[id]
	if req.Name.HasValue() {
		p.Name = req.Name.Value
	}
	if req.Description.Set {
		p.Description = req.Description.Ptr()
	}
	if req.Geometry.HasValue() {
		p.Geometry = req.Geometry.Value
	}
	if req.IsActive.HasValue() {
		p.IsActive = req.IsActive.Value
	}
	if areaHa != nil {
		p.AreaHa = *areaHa
	}
	cp := *p
	return &cp, nil
}

func (r *memPaddockRepo) SoftDelete(_ context.Context, id, farmID uuid.UUID) error {
	p, ok := r.rows[id]
	if !ok || p.FarmID != farmID {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func seededPaddockService() (services.IPaddockService, *memPaddockRepo, *memGeometryRepo, uuid.UUID) {
	id := uuid.New()
	repo := newMemPaddockRepo(models.Paddock{
		ID:        id,
		FarmID:    testFarmID,
		Name:      "Potrero 1",
		Geometry:  closedSquare(),
		AreaHa:    decimal.RequireFromString("10"),
		IsActive:  true,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	})
	geometry := &memGeometryRepo{}
	return services.NewPaddockService(testFarmAccess(), repo, geometry, zap.NewNop()), repo, geometry, id
}

// ----------------------------------------------------------------------------
// water points
// ----------------------------------------------------------------------------

type memWaterPointRepo struct {
	rows    map[uuid.UUID]*models.WaterPoint
	updated *models.UpdateWaterPointRequest
}

func (r *memWaterPointRepo) Create(_ context.Context, wp *models.WaterPoint) error {
	wp.ID, wp.CreatedAt, wp.UpdatedAt = uuid.New(), fixedTime, fixedTime
	cp := *wp
	r.rows[wp.ID] = &cp
	return nil
}

func (r *memWaterPointRepo) FindByIDAndFarm(_ context.Context, id, farmID uuid.UUID) (*models.WaterPoint, error) {
	wp, ok := r.rows[id]
	if !ok || wp.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	cp := *wp
	return &cp, nil
}

func (r *memWaterPointRepo) ListByFarm(_ context.Context, farmID uuid.UUID) ([]models.WaterPoint, error) {
	var out []models.WaterPoint
	for _, wp := range r.rows {
		if wp.FarmID == farmID {
			out = append(out, *wp)
		}
	}
	return out, nil
}

func (r *memWaterPointRepo) Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdateWaterPointRequest) (*models.WaterPoint, error) {
	r.updated = req
	if _, err := r.FindByIDAndFarm(ctx, id, farmID); err != nil {
		return nil, err
	}
	wp := r.rows[id]
	if req.Name.Set {
		wp.Name = req.Name.Ptr()
	}
	if req.Type.Set {
		wp.Type = req.Type.Ptr()
	}
	if req.Geometry.HasValue() {
		wp.Geometry = req.Geometry.Value
	}
	if req.IsActive.HasValue() {
		wp.IsActive = req.IsActive.Value
	}
	cp := *wp
	return &cp, nil
}

func (r *memWaterPointRepo) SoftDelete(_ context.Context, id, farmID uuid.UUID) error {
	wp, ok := r.rows[id]
	if !ok || wp.FarmID != farmID {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func seededWaterPointService() (services.IWaterPointService, *memWaterPointRepo, uuid.UUID) {
	id := uuid.New()
	name, kind := "Bebedero 1", models.WaterPointTypeTrough
	repo := &memWaterPointRepo{rows: map[uuid.UUID]*models.WaterPoint{
		id: {
			ID:        id,
			FarmID:    testFarmID,
			Name:      &name,
			Type:      &kind,
			Geometry:  *models.NewGeoJSONPoint(-58.05, -34.65),
			IsActive:  true,
			CreatedAt: fixedTime,
			UpdatedAt: fixedTime,
		},
	}}
	return services.NewWaterPointService(testFarmAccess(), repo, zap.NewNop()), repo, id
}

// ----------------------------------------------------------------------------
// herd groups
// ----------------------------------------------------------------------------

type memHerdGroupRepo struct {
	rows    map[uuid.UUID]*models.HerdGroup
	updated *models.UpdateHerdGroupRequest
	ugm     *decimal.Decimal
}

func (r *memHerdGroupRepo) Create(_ context.Context, hg *models.HerdGroup) error {
	hg.ID, hg.CreatedAt, hg.UpdatedAt = uuid.New(), fixedTime, fixedTime
	cp := *hg
	r.rows[hg.ID] = &cp
	return nil
}

func (r *memHerdGroupRepo) FindByIDAndFarm(_ context.Context, id, farmID uuid.UUID) (*models.HerdGroup, error) {
	hg, ok := r.rows[id]
	if !ok || hg.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	cp := *hg
	return &cp, nil
}

func (r *memHerdGroupRepo) ListByFarm(_ context.Context, farmID uuid.UUID) ([]models.HerdGroup, error) {
	var out []models.HerdGroup
	for _, hg := range r.rows {
		if hg.FarmID == farmID {
			out = append(out, *hg)
		}
	}
	return out, nil
}

func (r *memHerdGroupRepo) Update(ctx context.Context, id, farmID uuid.UUID, req *models.UpdateHerdGroupRequest, ugm *decimal.Decimal) (*models.HerdGroup, error) {
	r.updated, r.ugm = req, ugm
	if _, err := r.FindByIDAndFarm(ctx, id, farmID); err != nil {
		return nil, err
	}
	hg := r.rows[id]
	if req.Name.HasValue() {
		hg.Name = req.Name.Value
	}
	if req.Category.Set {
		hg.Category = req.Category.Ptr()
	}
	if req.LiveWeightKg.HasValue() {
		hg.LiveWeightKg = req.LiveWeightKg.Value
	}
	if ugm != nil {
		hg.UGM = *ugm
	}
	if req.HeadCount.Set {
		hg.HeadCount = req.HeadCount.Ptr()
	}
	if req.Notes.Set {
		hg.Notes = req.Notes.Ptr()
	}
	cp := *hg
	return &cp, nil
}

func (r *memHerdGroupRepo) SoftDelete(_ context.Context, id, farmID uuid.UUID) error {
	hg, ok := r.rows[id]
	if !ok || hg.FarmID != farmID {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func seededHerdGroupService() (services.IHerdGroupService, *memHerdGroupRepo, uuid.UUID) {
	id := uuid.New()
	heads := 40
	repo := &memHerdGroupRepo{rows: map[uuid.UUID]*models.HerdGroup{
		id: {
			ID:           id,
			FarmID:       testFarmID,
			Name:         "Vaquillonas",
			LiveWeightKg: decimal.NewFromInt(12000),
			UGM:          decimal.RequireFromString("26.6667"),
			HeadCount:    &heads,
			CreatedAt:    fixedTime,
			UpdatedAt:    fixedTime,
		},
	}}
	calculator := services.NewUGMCalculator(decimal.NewFromInt(450))
	return services.NewHerdGroupService(testFarmAccess(), repo, calculator, zap.NewNop()), repo, id
}
