package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/config"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HARNESS
// ============================================================================

var (
	testUserID = uuid.MustParse("0b7c1f1e-6a52-4d3c-9c0e-5f1b2a3c4d5e")
	testOrgID  = uuid.MustParse("7d6e5f4a-3b2c-4d1e-8f9a-0b1c2d3e4f5a")
	testFarmID = uuid.MustParse("a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")
)

func newTestJWT() *services.JWTService {
	return services.NewJWTService(config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

func accessToken(t *testing.T, jwtService *services.JWTService, orgID string) string {
	t.Helper()
	token, err := jwtService.GenerateAccessToken(testUserID.String(), "ana@example.com", orgID, "owner")
	require.NoError(t, err)
	return token
}

type routeRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

func newTestRouter(register func(m *Middleware) routeRegistrar) (*gin.Engine, *services.JWTService) {
	gin.SetMode(gin.TestMode)
	jwtService := newTestJWT()
	router := gin.New()
	register(NewMiddleware(jwtService, nil)).RegisterRoutes(router)
	return router, jwtService
}

func doRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// ============================================================================
// FAKE SERVICES
// ============================================================================

type fakeAuthService struct {
	registered *models.RegisterRequest
	loggedOut  uuid.UUID
	err        error
}

func (f *fakeAuthService) Register(_ context.Context, req *models.RegisterRequest) (*models.TokenPair, error) {
	f.registered = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeAuthService) Login(_ context.Context, _ *models.LoginRequest) (*models.TokenPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeAuthService) Refresh(_ context.Context, _ string) (*models.TokenPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, userID uuid.UUID) error {
	f.loggedOut = userID
	return f.err
}

func (f *fakeAuthService) GetMyOrganization(_ context.Context, _ uuid.UUID) (*models.UserOrganization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.UserOrganization{
		Organization: models.Organization{ID: testOrgID, Name: "Estancia"},
		Role:         models.MembershipRoleOwner,
	}, nil
}

type fakeFarmService struct {
	gotOrg uuid.UUID
	err    error
}

func (f *fakeFarmService) CreateFarm(_ context.Context, orgID uuid.UUID, req *models.CreateFarmRequest) (*models.Farm, error) {
	f.gotOrg = orgID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Farm{ID: testFarmID, OrganizationID: orgID, Name: req.Name}, nil
}

func (f *fakeFarmService) ListFarms(_ context.Context, orgID uuid.UUID) ([]models.Farm, error) {
	f.gotOrg = orgID
	return []models.Farm{{ID: testFarmID, OrganizationID: orgID, Name: "La Esperanza"}}, f.err
}

func (f *fakeFarmService) GetFarm(_ context.Context, farmID, orgID uuid.UUID) (*models.Farm, error) {
	f.gotOrg = orgID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Farm{ID: farmID, OrganizationID: orgID, Name: "La Esperanza"}, nil
}

func (f *fakeFarmService) GetMapLayers(_ context.Context, _, _ uuid.UUID) (*models.FarmMapLayers, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.FarmMapLayers{
		Paddocks:      []models.PaddockResponse{},
		WaterPoints:   []models.WaterPoint{},
		HerdGroups:    []models.HerdGroupResponse{},
		GrazingEvents: []models.GrazingEventResponse{},
	}, nil
}

type fakeGrazingEventService struct {
	created *models.CreateGrazingEventRequest
	updated *models.UpdateGrazingEventRequest
	filter  models.GrazingEventFilter
	deleted uuid.UUID
	err     error
}

func (f *fakeGrazingEventService) event(id uuid.UUID) *models.GrazingEvent {
	return &models.GrazingEvent{
		ID:        id,
		FarmID:    testFarmID,
		Status:    models.GrazingEventStatusActive,
		StartAt:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (f *fakeGrazingEventService) Create(_ context.Context, _, _ uuid.UUID, req *models.CreateGrazingEventRequest) (*models.GrazingEvent, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	ev := f.event(uuid.New())
	ev.HerdGroupID, ev.PaddockID = req.HerdGroupID, req.PaddockID
	return ev, nil
}

func (f *fakeGrazingEventService) Get(_ context.Context, id, _, _ uuid.UUID) (*models.GrazingEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event(id), nil
}

func (f *fakeGrazingEventService) List(_ context.Context, _, _ uuid.UUID, filter models.GrazingEventFilter) ([]models.GrazingEvent, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return []models.GrazingEvent{*f.event(uuid.New())}, nil
}

func (f *fakeGrazingEventService) Update(_ context.Context, id, _, _ uuid.UUID, req *models.UpdateGrazingEventRequest) (*models.GrazingEvent, error) {
	f.updated = req
	if f.err != nil {
		return nil, f.err
	}
	return f.event(id), nil
}

func (f *fakeGrazingEventService) Delete(_ context.Context, id, _, _ uuid.UUID) error {
	f.deleted = id
	return f.err
}

type fakeInsightsService struct {
	gotRange models.DateRange
	err      error
}

func (f *fakeInsightsService) GetRestDays(_ context.Context, _, _ uuid.UUID) (*models.RestDaysResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.RestDaysResponse{Paddocks: []models.PaddockRestDays{}}, nil
}

func (f *fakeInsightsService) GetOccupancy(_ context.Context, _, _ uuid.UUID, dr models.DateRange) (*models.OccupancyResponse, error) {
	f.gotRange = dr
	if f.err != nil {
		return nil, f.err
	}
	return &models.OccupancyResponse{
		Events:        []models.OccupancyEvent{},
		ThresholdDays: 3,
		FromDate:      dr.FromDate(),
		ToDate:        dr.ToDate(),
	}, nil
}

func (f *fakeInsightsService) GetStockingRate(_ context.Context, _, _ uuid.UUID, dr models.DateRange) (*models.StockingRateResponse, error) {
	f.gotRange = dr
	return &models.StockingRateResponse{Events: []models.StockingRateEvent{}}, f.err
}

func (f *fakeInsightsService) GetTimeline(_ context.Context, _, _ uuid.UUID, dr models.DateRange) (*models.TimelineResponse, error) {
	f.gotRange = dr
	return &models.TimelineResponse{Events: []models.TimelineEvent{}}, f.err
}

func (f *fakeInsightsService) GetActiveAlerts(_ context.Context, _, _ uuid.UUID, dr models.DateRange) (*models.ActiveAlertsResponse, error) {
	f.gotRange = dr
	return &models.ActiveAlertsResponse{Events: []models.ActiveAlertEvent{}}, f.err
}
