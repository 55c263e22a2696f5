package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/response"
)

const idempotencyTTL = 24 * time.Hour

type cachingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the cached response for a repeated Idempotency-Key and
// holds a short lock while the first request is in flight. Only POST requests
// carrying the header participate.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		var userID string
		if act, ok := ActorFrom(c); ok {
			userID = act.UserID.String()
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		ctx := c.Request.Context()

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			c.Header("Content-Type", "application/json")
			c.String(http.StatusOK, val)
			c.Abort()
			return
		}

		// The lock expires on its own if the process dies mid-request.
		isNew, _ := rdb.SetNX(ctx, lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict, "A request with this key is already being processed", nil)
			c.Abort()
			return
		}

		writer := &cachingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			rdb.Set(ctx, cacheKey, writer.body.String(), idempotencyTTL)
		}
		rdb.Del(ctx, lockKey)
	}
}
