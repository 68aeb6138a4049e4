package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/scrollwindow/internal/service"
)

// APIV1Prefix is the base path of the public HTTP API v1.
const APIV1Prefix = "/api/v1"

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, repo Pinger, entrySvc service.EntryService) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewEntryHandler(entrySvc).Register(api)
	}
}
