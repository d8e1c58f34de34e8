package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timeline-service/internal/service/timeline"
)

type MilestoneHandler struct {
	svc    *timeline.Service
	logger *zap.Logger
}

func NewMilestoneHandler(svc *timeline.Service, logger *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{svc: svc, logger: logger}
}

// CreateMilestone handles POST /timelines/:id/milestones
func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	timelineID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	var req createMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.svc.CreateMilestone(c.Request.Context(), timelineID, req.toService())
	if err != nil {
		h.writeError(c, "CreateMilestone", timelineID, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"milestone": m})
}

// UpdateMilestone handles PATCH /timelines/:id/milestones/:milestoneID
func (h *MilestoneHandler) UpdateMilestone(c *gin.Context) {
	timelineID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathInt(c, "milestoneID")
	if !ok {
		return
	}

	var req updateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.svc.UpdateMilestone(c.Request.Context(), timelineID, milestoneID, req.toService())
	if err != nil {
		h.writeError(c, "UpdateMilestone", timelineID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestone": m})
}

// DeleteMilestone handles DELETE /timelines/:id/milestones/:milestoneID
func (h *MilestoneHandler) DeleteMilestone(c *gin.Context) {
	timelineID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathInt(c, "milestoneID")
	if !ok {
		return
	}

	if err := h.svc.DeleteMilestone(c.Request.Context(), timelineID, milestoneID); err != nil {
		h.writeError(c, "DeleteMilestone", timelineID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *MilestoneHandler) writeError(c *gin.Context, op string, timelineID int, err error) {
	var ve *timeline.ValidationError
	switch {
	case errors.Is(err, timeline.ErrMilestoneNotFound), errors.Is(err, timeline.ErrTimelineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Error()})
	default:
		h.logger.Error(op+": mutation failed",
			zap.Int("timeline_id", timelineID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
