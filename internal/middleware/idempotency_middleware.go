package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"gym_crm_backend/internal/cache"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	IdempotencyTTL       = 24 * time.Hour
)

type cachedResponse struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body []byte
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body = append(r.body, b...)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a mutating request repeats the
// same Idempotency-Key. The header is optional: requests without it pass
// through untouched, so retried payment submissions opt in by sending a key.
func Idempotency(redisClient *cache.Redis) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodDelete {
			c.Next()
			return
		}
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		cacheKey := "idempotency:" + idempotencyKey
		cached, err := redisClient.Get(cacheKey)
		if err == nil && cached != "" {
			var resp cachedResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(resp.StatusCode, "application/json", []byte(resp.Body))
				c.Abort()
				return
			}
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		// Only successful responses are worth replaying; a failed attempt
		// should be retryable with the same key.
		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			respJSON, err := json.Marshal(cachedResponse{StatusCode: status, Body: string(recorder.body)})
			if err == nil {
				if err := redisClient.Set(cacheKey, string(respJSON), IdempotencyTTL); err != nil {
					utils.LogError(err, "failed to store idempotency response")
				}
			}
		}
	}
}
