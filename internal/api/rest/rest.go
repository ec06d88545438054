package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, gatherer prometheus.Gatherer) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/confirmations", handler.ListConfirmations)
		v1.GET("/contracts", handler.ListContracts)
	}
}
