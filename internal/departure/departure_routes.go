package departure

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/EternelCodeur/punch-smartly-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	departures := r.Group("/temporary-departures")
	departures.Use(middleware.AuthMiddleware())
	{
		departures.GET("", h.GetAll)
		departures.POST("", middleware.Idempotency(rdb), h.Create)
		departures.GET("/:id", h.Get)
		departures.POST("/:id/return", middleware.Idempotency(rdb), h.MarkReturn)
		departures.PUT("/:id", h.Update)
		departures.DELETE("/:id", h.Delete)
	}
}
