package employe

import (
	"github.com/gin-gonic/gin"

	"github.com/EternelCodeur/punch-smartly-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	employes := r.Group("/employes")
	employes.Use(middleware.AuthMiddleware())
	{
		employes.GET("", h.GetAll)
		employes.POST("", h.Create)
		employes.GET("/:id", h.Get)
		employes.PUT("/:id", h.Update)
		employes.DELETE("/:id", h.Delete)
	}
}
