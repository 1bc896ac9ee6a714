package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

var errBoom = errors.New("boom")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeFarmRepo struct {
	farms map[uuid.UUID]models.Farm
	err   error
}

func newFakeFarmRepo(farms ...models.Farm) *fakeFarmRepo {
	r := &fakeFarmRepo{farms: map[uuid.UUID]models.Farm{}}
	for _, f := range farms {
		r.farms[f.ID] = f
	}
	return r
}

func (r *fakeFarmRepo) Create(_ context.Context, farm *models.Farm) error {
	if r.err != nil {
		return r.err
	}
	farm.ID = uuid.New()
	r.farms[farm.ID] = *farm
	return nil
}

func (r *fakeFarmRepo) FindByIDAndOrganization(_ context.Context, id, organizationID uuid.UUID) (*models.Farm, error) {
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.farms[id]
	if !ok || f.OrganizationID != organizationID || f.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r *fakeFarmRepo) ListByOrganization(_ context.Context, organizationID uuid.UUID) ([]models.Farm, error) {
	out := []models.Farm{}
	for _, f := range r.farms {
		if f.OrganizationID == organizationID {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakePaddockRepo struct {
	paddocks  map[uuid.UUID]models.Paddock
	updateReq *models.UpdatePaddockRequest
	updateHa  *decimal.Decimal
	err       error
}

func newFakePaddockRepo(paddocks ...models.Paddock) *fakePaddockRepo {
	r := &fakePaddockRepo{paddocks: map[uuid.UUID]models.Paddock{}}
	for _, p := range paddocks {
		r.paddocks[p.ID] = p
	}
	return r
}

func (r *fakePaddockRepo) Create(_ context.Context, p *models.Paddock) error {
	p.ID = uuid.New()
	r.paddocks[p.ID] = *p
	return nil
}

func (r *fakePaddockRepo) FindByIDAndFarm(_ context.Context, id, farmID uuid.UUID) (*models.Paddock, error) {
	p, ok := r.paddocks[id]
	if !ok || p.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakePaddockRepo) ListByFarm(_ context.Context, farmID uuid.UUID) ([]models.Paddock, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Paddock{}
	for _, p := range r.paddocks {
		if p.FarmID == farmID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaddockRepo) Update(_ context.Context, id, farmID uuid.UUID, req *models.UpdatePaddockRequest, areaHa *decimal.Decimal) (*models.Paddock, error) {
	p, ok := r.paddocks[id]
	if !ok || p.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	r.updateReq, r.updateHa = req, areaHa
	if areaHa != nil {
		p.AreaHa = *areaHa
	}
	return &p, nil
}

func (r *fakePaddockRepo) SoftDelete(_ context.Context, id, farmID uuid.UUID) error {
	p, ok := r.paddocks[id]
	if !ok || p.FarmID != farmID {
		return repository.ErrNotFound
	}
	delete(r.paddocks, id)
	return nil
}

type fakeHerdGroupRepo struct {
	groups    map[uuid.UUID]models.HerdGroup
	updateUGM *decimal.Decimal
}

func newFakeHerdGroupRepo(groups ...models.HerdGroup) *fakeHerdGroupRepo {
	r := &fakeHerdGroupRepo{groups: map[uuid.UUID]models.HerdGroup{}}
	for _, g := range groups {
		r.groups[g.ID] = g
	}
	return r
}

func (r *fakeHerdGroupRepo) Create(_ context.Context, hg *models.HerdGroup) error {
	hg.ID = uuid.New()
	r.groups[hg.ID] = *hg
	return nil
}

func (r *fakeHerdGroupRepo) FindByIDAndFarm(_ context.Context, id, farmID uuid.UUID) (*models.HerdGroup, error) {
	g, ok := r.groups[id]
	if !ok || g.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r *fakeHerdGroupRepo) ListByFarm(_ context.Context, farmID uuid.UUID) ([]models.HerdGroup, error) {
	out := []models.HerdGroup{}
	for _, g := range r.groups {
		if g.FarmID == farmID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeHerdGroupRepo) Update(_ context.Context, id, farmID uuid.UUID, req *models.UpdateHerdGroupRequest, ugm *decimal.Decimal) (*models.HerdGroup, error) {
	g, ok := r.groups[id]
	if !ok || g.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	r.updateUGM = ugm
	if req.LiveWeightKg.HasValue() {
		g.LiveWeightKg = req.LiveWeightKg.Value
	}
	if ugm != nil {
		g.UGM = *ugm
	}
	r.groups[id] = g
	return &g, nil
}

func (r *fakeHerdGroupRepo) SoftDelete(_ context.Context, id, farmID uuid.UUID) error {
	g, ok := r.groups[id]
	if !ok || g.FarmID != farmID {
		return repository.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

type fakeWaterPointRepo struct {
	points map[uuid.UUID]models.WaterPoint
}

func newFakeWaterPointRepo() *fakeWaterPointRepo {
	return &fakeWaterPointRepo{points: map[uuid.UUID]models.WaterPoint{}}
}

func (r *fakeWaterPointRepo) Create(_ context.Context, wp *models.WaterPoint) error {
	wp.ID = uuid.New()
	r.points[wp.ID] = *wp
	return nil
}

func (r *fakeWaterPointRepo) FindByIDAndFarm(_ context.Context, id, farmID uuid.UUID) (*models.WaterPoint, error) {
	wp, ok := r.points[id]
	if !ok || wp.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	return &wp, nil
}

func (r *fakeWaterPointRepo) ListByFarm(_ context.Context, farmID uuid.UUID) ([]models.WaterPoint, error) {
	out := []models.WaterPoint{}
	for _, wp := range r.points {
		if wp.FarmID == farmID {
			out = append(out, wp)
		}
	}
	return out, nil
}

func (r *fakeWaterPointRepo) Update(_ context.Context, id, farmID uuid.UUID, req *models.UpdateWaterPointRequest) (*models.WaterPoint, error) {
	wp, ok := r.points[id]
	if !ok || wp.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	if req.Type.Set {
		wp.Type = req.Type.Ptr()
	}
	r.points[id] = wp
	return &wp, nil
}

func (r *fakeWaterPointRepo) SoftDelete(_ context.Context, id, farmID uuid.UUID) error {
	wp, ok := r.points[id]
	if !ok || wp.FarmID != farmID {
		return repository.ErrNotFound
	}
	delete(r.points, id)
	return nil
}

type fakeGeometryRepo struct {
	area  decimal.Decimal
	calls int
}

func (r *fakeGeometryRepo) ComputeAreaHa(_ context.Context, _ *models.GeoJSONPolygon) (decimal.Decimal, error) {
	r.calls++
	return r.area, nil
}

// fakeGrazingEventRepo keeps events in memory and answers the active
// lookups the way the SQL repository does.
type fakeGrazingEventRepo struct {
	mu         sync.Mutex
	events     map[uuid.UUID]models.GrazingEvent
	createErr  error
	lastFilter models.GrazingEventFilter
}

func newFakeGrazingEventRepo(events ...models.GrazingEvent) *fakeGrazingEventRepo {
	r := &fakeGrazingEventRepo{events: map[uuid.UUID]models.GrazingEvent{}}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeGrazingEventRepo) Create(_ context.Context, e *models.GrazingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	e.ID = uuid.New()
	r.events[e.ID] = *e
	return nil
}

func (r *fakeGrazingEventRepo) FindByID(_ context.Context, id, farmID uuid.UUID) (*models.GrazingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeGrazingEventRepo) FindAllByFarm(_ context.Context, farmID uuid.UUID, filter models.GrazingEventFilter) ([]models.GrazingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	out := []models.GrazingEvent{}
	for _, e := range r.events {
		if e.FarmID == farmID && (filter.Status == nil || e.Status == *filter.Status) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	return out, nil
}

func (r *fakeGrazingEventRepo) Update(_ context.Context, id, farmID uuid.UUID, c models.GrazingEventChanges) (*models.GrazingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.FarmID != farmID {
		return nil, repository.ErrNotFound
	}
	if c.StartAt != nil {
		e.StartAt = *c.StartAt
	}
	if c.EndAt != nil {
		e.EndAt = c.EndAt
	}
	if c.ClearEndAt {
		e.EndAt = nil
	}
	if c.Status != nil {
		e.Status = *c.Status
	}
	if c.Notes != nil {
		e.Notes = c.Notes
	}
	if c.ClearNotes {
		e.Notes = nil
	}
	r.events[id] = e
	return &e, nil
}

func (r *fakeGrazingEventRepo) SoftDelete(_ context.Context, id, farmID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.FarmID != farmID {
		return repository.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeGrazingEventRepo) FindActiveByHerdGroup(_ context.Context, herdGroupID uuid.UUID, excludeID *uuid.UUID) ([]models.GrazingEvent, error) {
	return r.active(func(e models.GrazingEvent) bool { return e.HerdGroupID == herdGroupID }, excludeID), nil
}

func (r *fakeGrazingEventRepo) FindActiveByPaddock(_ context.Context, paddockID uuid.UUID, excludeID *uuid.UUID) ([]models.GrazingEvent, error) {
	return r.active(func(e models.GrazingEvent) bool { return e.PaddockID == paddockID }, excludeID), nil
}

func (r *fakeGrazingEventRepo) FindActiveByFarm(_ context.Context, farmID uuid.UUID) ([]models.GrazingEvent, error) {
	return r.active(func(e models.GrazingEvent) bool { return e.FarmID == farmID }, nil), nil
}

func (r *fakeGrazingEventRepo) active(match func(models.GrazingEvent) bool, excludeID *uuid.UUID) []models.GrazingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.GrazingEvent{}
	for _, e := range r.events {
		if e.Status != models.GrazingEventStatusActive || !match(e) {
			continue
		}
		if excludeID != nil && e.ID == *excludeID {
			continue
		}
		out = append(out, e)
	}
	return out
}

type fakeInsightsRepo struct {
	restRows  []models.PaddockRestRow
	eventRows []models.InsightEventRow
	lastRange models.DateRange
	err       error
}

func (r *fakeInsightsRepo) FindPaddocksRestDays(_ context.Context, _ uuid.UUID) ([]models.PaddockRestRow, error) {
	return r.restRows, r.err
}

func (r *fakeInsightsRepo) FindOccupancyEvents(_ context.Context, _ uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	r.lastRange = dr
	return r.eventRows, r.err
}

func (r *fakeInsightsRepo) FindStockingRateEvents(_ context.Context, _ uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	r.lastRange = dr
	return r.eventRows, r.err
}

func (r *fakeInsightsRepo) FindTimelineEvents(_ context.Context, _ uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	r.lastRange = dr
	return r.eventRows, r.err
}

func (r *fakeInsightsRepo) FindActiveAlertEvents(_ context.Context, _ uuid.UUID, dr models.DateRange) ([]models.InsightEventRow, error) {
	r.lastRange = dr
	return r.eventRows, r.err
}

type fakeUserRepo struct {
	users       map[string]models.User
	memberships map[uuid.UUID]models.UserOrganization
	createErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}, memberships: map[uuid.UUID]models.UserOrganization{}}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) CreateUserWithOrganization(_ context.Context, user *models.User, organizationName string) (*models.Membership, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	user.ID = uuid.New()
	r.users[user.Email] = *user
	org := models.Organization{ID: uuid.New(), Name: organizationName}
	r.memberships[user.ID] = models.UserOrganization{Organization: org, Role: models.MembershipRoleOwner}
	return &models.Membership{ID: uuid.New(), OrganizationID: org.ID, UserID: user.ID, Role: models.MembershipRoleOwner}, nil
}

func (r *fakeUserRepo) GetOrganizationForUser(_ context.Context, userID uuid.UUID) (*models.UserOrganization, error) {
	m, ok := r.memberships[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}
