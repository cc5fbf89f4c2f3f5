package handler

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"roomie/internal/model"
	"roomie/internal/service"
)

// RequestIDHeader carries the correlation id in and out
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID propagates the caller's X-Request-ID or generates one, and puts it
// on the request context for log correlation
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(service.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RateLimit applies a token bucket per client IP. rps <= 0 disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}

	// Idle clients are forgotten after ten minutes
	limiters := cache.New(10*time.Minute, 20*time.Minute)
	var mu sync.Mutex

	limiterFor := func(client string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, found := limiters.Get(client); found {
			limiters.SetDefault(client, l)
			return l.(*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		limiters.SetDefault(client, l)
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			log.Printf("[Handler][%s] ⚠️ Rate limited %s", service.RequestIDFrom(c.Request.Context()), c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.AskResponse{Response: service.ReplyRateLimited})
			return
		}
		c.Next()
	}
}
