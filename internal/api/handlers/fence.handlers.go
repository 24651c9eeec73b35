package routes

import (
	"net/http"
	"strconv"

	"locshare/internal/model"

	"github.com/gin-gonic/gin"
)

type fenceService interface {
	ActiveFences() []model.Geofence
	FencesNear(lat, lng float64) []model.Geofence
	ExportGeoJSON() ([]byte, error)
	Refresh() error
}

type fenceResponse struct {
	CircleID     string  `json:"circle_id"`
	LocationID   string  `json:"location_id"`
	CircleName   string  `json:"circle_name"`
	LocationName string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// FenceHandler exposes the active geofence set
type FenceHandler struct {
	fenceSvc fenceService
}

func NewFenceHandler(fenceSvc fenceService) *FenceHandler {
	return &FenceHandler{fenceSvc: fenceSvc}
}

func (h *FenceHandler) Register(r *gin.RouterGroup) {
	r.GET("/fences", h.GetFences)
	r.GET("/fences/geojson", h.GetFencesGeoJSON)
	r.POST("/fences/refresh", h.RefreshFences)
}

// GetFences lists active fences; with lat and lng query parameters only
// fences whose bounding box covers the point are returned
func (h *FenceHandler) GetFences(c *gin.Context) {
	latStr, hasLat := c.GetQuery("lat")
	lngStr, hasLng := c.GetQuery("lng")

	var fences []model.Geofence
	if hasLat && hasLng {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil || !model.ValidCoordinate(lat, lng) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinate"})
			return
		}
		fences = h.fenceSvc.FencesNear(lat, lng)
	} else {
		fences = h.fenceSvc.ActiveFences()
	}

	out := make([]fenceResponse, len(fences))
	for i, f := range fences {
		out[i] = fenceResponse{
			CircleID:     f.Key.CircleID,
			LocationID:   f.Key.LocationID,
			CircleName:   f.CircleName,
			LocationName: f.LocationName,
			Latitude:     f.CenterLat,
			Longitude:    f.CenterLng,
			RadiusMeters: f.RadiusMeters,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (h *FenceHandler) GetFencesGeoJSON(c *gin.Context) {
	data, err := h.fenceSvc.ExportGeoJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export fences"})
		return
	}

	c.Data(http.StatusOK, "application/geo+json", data)
}

func (h *FenceHandler) RefreshFences(c *gin.Context) {
	if err := h.fenceSvc.Refresh(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh fences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}
