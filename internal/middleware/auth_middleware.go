package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/response"
)

const actorKey = "auth_actor"

// TokenCookie is the HttpOnly cookie carrying the JWT when no Authorization
// header is sent.
const TokenCookie = "ps_token"

// AuthMiddleware resolves the caller into an Actor from the JWT (Bearer
// header, falling back to the ps_token cookie). The token's claims are
// trusted verbatim; an unknown role still passes through and is denied by
// scope resolution downstream.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			msg := "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				msg = "Token expired"
			}
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, msg, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid token claims", nil)
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "User ID not found in token", nil)
			c.Abort()
			return
		}

		roleClaim, _ := claims["role"].(string)
		role, _ := actor.ParseRole(roleClaim)

		act := actor.Actor{
			UserID:       userID,
			Role:         role,
			TenantID:     uuidClaim(claims, "tenant_id"),
			EnterpriseID: uuidClaim(claims, "enterprise_id"),
		}

		c.Set(actorKey, act)
		c.Next()
	}
}

func uuidClaim(claims jwt.MapClaims, name string) *uuid.UUID {
	raw, _ := claims[name].(string)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// ActorFrom returns the Actor resolved by AuthMiddleware.
func ActorFrom(c *gin.Context) (actor.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return actor.Actor{}, false
	}
	act, ok := v.(actor.Actor)
	return act, ok
}

// SetActor injects an Actor directly; used by handler tests.
func SetActor(c *gin.Context, act actor.Actor) {
	c.Set(actorKey, act)
}

// RequireRoles rejects callers whose role is not in the allowed set. Row-level
// scoping still applies behind it; this is only the coarse route gate.
func RequireRoles(allowed ...actor.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		act, ok := ActorFrom(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Authentication is required", nil)
			c.Abort()
			return
		}

		if !act.Is(allowed...) {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
