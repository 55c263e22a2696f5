package attendance

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/EternelCodeur/punch-smartly-backend/internal/middleware"
)

// RegisterRoutes wires the attendance endpoints. Mutating transitions carry
// the idempotency middleware so a retried Idempotency-Key replays the first
// response instead of double-stamping.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("", h.GetAll)
		attendances.POST("", h.Create)
		attendances.GET("/summary/:employe_id", h.Summary)
		attendances.POST("/check-in", middleware.Idempotency(rdb), h.CheckIn)
		attendances.POST("/check-out", middleware.Idempotency(rdb), h.CheckOut)
		attendances.POST("/admin/check-in-on-field", middleware.Idempotency(rdb), h.CheckInOnField)
		attendances.GET("/:id", h.Get)
		attendances.PUT("/:id", h.Update)
		attendances.DELETE("/:id", h.Delete)
	}
}
