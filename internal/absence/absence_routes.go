package absence

import (
	"github.com/gin-gonic/gin"

	"github.com/EternelCodeur/punch-smartly-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	absences := r.Group("/absences")
	absences.Use(middleware.AuthMiddleware())
	{
		absences.GET("", h.GetAll)
		absences.POST("", h.Create)
		absences.GET("/:id", h.Get)
		absences.PUT("/:id", h.Update)
		absences.DELETE("/:id", h.Delete)
	}
}
