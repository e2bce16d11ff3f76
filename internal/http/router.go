// Package http registers the API routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"freightrate/internal/http/handlers"
	"freightrate/internal/http/middleware"
	"freightrate/internal/refdata"
)

func NewRouter(
	europe handlers.EuropeQuoter,
	multimodal handlers.MultimodalQuoter,
	overland handlers.OverlandQuoter,
	data *refdata.Store,
	log *zap.Logger,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	rateHandler := handlers.NewRateHandler(europe, multimodal, overland)
	r.POST("/api/rates/europe", rateHandler.Europe)
	r.POST("/api/rates/multimodal", rateHandler.Multimodal)
	r.POST("/api/rates/overland", rateHandler.Overland)

	refdataHandler := handlers.NewRefdataHandler(data)
	r.GET("/api/ports", refdataHandler.Ports)
	r.GET("/api/indices", refdataHandler.Indices)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
