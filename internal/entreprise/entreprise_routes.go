package entreprise

import (
	"github.com/gin-gonic/gin"

	"github.com/EternelCodeur/punch-smartly-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	entreprises := r.Group("/entreprises")
	entreprises.Use(middleware.AuthMiddleware())
	{
		entreprises.GET("", h.GetAll)
		entreprises.POST("", h.Create)
		entreprises.GET("/:id", h.Get)
		entreprises.PUT("/:id", h.Update)
		entreprises.DELETE("/:id", h.Delete)
	}
}
