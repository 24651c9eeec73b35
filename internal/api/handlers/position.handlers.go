package routes

import (
	"context"
	"net/http"
	"time"

	"locshare/internal/model"
	"locshare/internal/service/arrival"

	"github.com/gin-gonic/gin"
)

type positionService interface {
	HandlePosition(ctx context.Context, pos model.Position)
	LastPosition(memberID string) (model.Position, bool)
	SessionViewFor(memberID string) (arrival.SessionView, bool)
	EndSession(memberID string) bool
}

type positionRequest struct {
	MemberID  string  `json:"member_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// PositionHandler exposes position ingestion and session state
type PositionHandler struct {
	positionSvc positionService
}

func NewPositionHandler(positionSvc positionService) *PositionHandler {
	return &PositionHandler{positionSvc: positionSvc}
}

func (h *PositionHandler) Register(r *gin.RouterGroup) {
	r.POST("/positions", h.IngestPosition)
	r.GET("/members/:member_id/position", h.GetLastPosition)
	r.GET("/sessions/:member_id", h.GetSession)
	r.DELETE("/sessions/:member_id", h.EndSession)
}

func (h *PositionHandler) IngestPosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.MemberID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id is required"})
		return
	}
	if !model.ValidCoordinate(req.Latitude, req.Longitude) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinate out of range"})
		return
	}

	ts := time.Now()
	if req.Timestamp > 0 {
		ts = time.Unix(req.Timestamp, 0)
	}

	h.positionSvc.HandlePosition(c.Request.Context(), model.Position{
		MemberID:  req.MemberID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: ts,
	})

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *PositionHandler) GetLastPosition(c *gin.Context) {
	memberID := c.Param("member_id")

	pos, exists := h.positionSvc.LastPosition(memberID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "no position for member"})
		return
	}

	c.JSON(http.StatusOK, pos)
}

func (h *PositionHandler) GetSession(c *gin.Context) {
	memberID := c.Param("member_id")

	view, exists := h.positionSvc.SessionViewFor(memberID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session for member"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *PositionHandler) EndSession(c *gin.Context) {
	memberID := c.Param("member_id")

	if !h.positionSvc.EndSession(memberID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session for member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "session ended"})
}
