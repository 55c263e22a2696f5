package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/EternelCodeur/punch-smartly-backend/internal/middleware"
)

// RegisterRoutes wires /login behind a per-IP rate limit; /me and /logout
// require a valid token.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	limiter := middleware.NewRateLimiter(rate.Every(2*time.Second), 5)

	r.POST("/login", limiter.Middleware(), h.Login)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/me", h.Me)
		authed.POST("/logout", h.Logout)
	}
}
