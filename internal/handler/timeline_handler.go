package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timeline-service/internal/service/timeline"
)

type TimelineHandler struct {
	svc    *timeline.Service
	logger *zap.Logger
}

func NewTimelineHandler(svc *timeline.Service, logger *zap.Logger) *TimelineHandler {
	return &TimelineHandler{svc: svc, logger: logger}
}

// GetTimeline handles GET /timelines/:id
func (h *TimelineHandler) GetTimeline(c *gin.Context) {
	timelineID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	tl, err := h.svc.GetTimeline(c.Request.Context(), timelineID)
	if err != nil {
		if errors.Is(err, timeline.ErrTimelineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("GetTimeline: failed to fetch timeline",
			zap.Int("timeline_id", timelineID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": tl})
}

// ListMilestones handles GET /timelines/:id/milestones
func (h *TimelineHandler) ListMilestones(c *gin.Context) {
	timelineID, ok := pathInt(c, "id")
	if !ok {
		return
	}

	milestones, err := h.svc.ListMilestones(c.Request.Context(), timelineID)
	if err != nil {
		h.logger.Error("ListMilestones: failed to fetch milestones",
			zap.Int("timeline_id", timelineID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}
