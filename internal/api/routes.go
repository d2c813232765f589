package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/assistravel/casedesk/internal/cache"
	"github.com/assistravel/casedesk/internal/state"
	"github.com/assistravel/casedesk/pkg/logger"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, app *state.AppStore, cache cache.Cache, db *gorm.DB, logger *logger.Logger) {
	h := NewHandlers(app, cache, db, logger)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		api.GET("/casos", h.ListCases)
		api.POST("/casos", h.CreateCase)
		api.PUT("/casos/:id", h.UpdateCase)
		api.DELETE("/casos/:id", h.DeleteCase)

		api.GET("/corresponsales", h.ListCorrespondents)
		api.POST("/corresponsales", h.CreateCorrespondent)
		api.PUT("/corresponsales/:id", h.UpdateCorrespondent)
		api.DELETE("/corresponsales/:id", h.DeleteCorrespondent)

		api.GET("/dashboard/metrics", h.DashboardMetrics)

		api.GET("/reportes", h.Report)
		api.GET("/reportes/export", h.ExportReport)
	}
}
