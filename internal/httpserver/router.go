package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timeline-service/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	timelineHandler *handler.TimelineHandler,
	milestoneHandler *handler.MilestoneHandler,
	jwtSecret string,
) *Router {
	r := gin.Default()
	r.Use(TraceMiddleware(), MetricsMiddleware())

	// Public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/timelines/:id", timelineHandler.GetTimeline)
		auth.GET("/timelines/:id/milestones", timelineHandler.ListMilestones)
		auth.POST("/timelines/:id/milestones", milestoneHandler.CreateMilestone)
		auth.PATCH("/timelines/:id/milestones/:milestoneID", milestoneHandler.UpdateMilestone)
		auth.DELETE("/timelines/:id/milestones/:milestoneID", milestoneHandler.DeleteMilestone)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
