package api

import (
	"github.com/gin-gonic/gin"

	"github.com/deusflow/digest/internal/app"
)

var _ Service = (*app.App)(nil)

// NewRouter registers every route over svc.
func NewRouter(svc Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestTiming())

	h := NewHandler(svc)

	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)

	r.GET("/profiles", h.ListProfiles)
	r.GET("/profiles/:name", h.GetProfile)

	digests := r.Group("/digests")
	{
		digests.POST("/:name", h.Generate)
		digests.GET("/:name/export", h.Export)
		digests.GET("/:name/html", h.HTML)
	}

	r.GET("/exports", h.ListExports)
	r.POST("/cache/invalidate", h.InvalidateCache)

	return r
}
