package tenant

import (
	"github.com/gin-gonic/gin"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	"github.com/EternelCodeur/punch-smartly-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	tenants := r.Group("/tenants")
	tenants.Use(middleware.AuthMiddleware(), middleware.RequireRoles(actor.RoleSupertenant))
	{
		tenants.GET("", h.GetAll)
		tenants.POST("", h.Create)
		tenants.GET("/:id", h.Get)
		tenants.PUT("/:id", h.Update)
		tenants.DELETE("/:id", h.Delete)
	}
}
