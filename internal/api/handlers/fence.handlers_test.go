package routes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"locshare/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFenceService struct {
	fences     []model.Geofence
	near       []model.Geofence
	geojson    []byte
	refreshErr error
	refreshed  int
}

func (m *mockFenceService) ActiveFences() []model.Geofence { return m.fences }

func (m *mockFenceService) FencesNear(lat, lng float64) []model.Geofence { return m.near }

func (m *mockFenceService) ExportGeoJSON() ([]byte, error) { return m.geojson, nil }

func (m *mockFenceService) Refresh() error {
	m.refreshed++
	return m.refreshErr
}

func setupFenceRouter(svc fenceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewFenceHandler(svc).Register(r.Group("/api"))
	return r
}

var sampleFence = model.Geofence{
	Key:          model.GeofenceKey{CircleID: "c1", LocationID: "l1"},
	CircleName:   "Family",
	LocationName: "Home",
	CenterLat:    6.9271,
	CenterLng:    79.8612,
	RadiusMeters: 100,
}

func TestGetFences_All(t *testing.T) {
	svc := &mockFenceService{fences: []model.Geofence{sampleFence}}
	r := setupFenceRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/fences", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"circle_id":"c1"`)
	assert.Contains(t, w.Body.String(), `"radius_meters":100`)
}

func TestGetFences_Near(t *testing.T) {
	svc := &mockFenceService{near: []model.Geofence{sampleFence}}
	r := setupFenceRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/fences?lat=6.9271&lng=79.8612", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"location_id":"l1"`)
}

func TestGetFences_InvalidCoordinate(t *testing.T) {
	svc := &mockFenceService{}
	r := setupFenceRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/fences?lat=abc&lng=79.8612", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/fences?lat=1000&lng=79.8612", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFencesGeoJSON(t *testing.T) {
	svc := &mockFenceService{geojson: []byte(`{"type":"FeatureCollection","features":[]}`)}
	r := setupFenceRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/fences/geojson", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "FeatureCollection")
}

func TestRefreshFences(t *testing.T) {
	svc := &mockFenceService{}
	r := setupFenceRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/fences/refresh", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.refreshed)

	svc.refreshErr = errors.New("db down")
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/fences/refresh", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
