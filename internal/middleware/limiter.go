package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"fulfillment-be/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rate limit tiers
const (
	// Login / register (strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Everything else
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

func init() {
	go cleanupVisitors()
}

func getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes stale entries to keep the map bounded.
func cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		mu.Lock()
		for key, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, key)
			}
		}
		mu.Unlock()
	}
}

func rateLimit(limit rate.Limit, burst int, tier string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var identity string
		if sellerID, ok := utils.GetSellerIDFromContext(c.Request.Context()); ok {
			identity = fmt.Sprintf("seller:%d", sellerID)
		} else {
			identity = "ip:" + c.ClientIP()
		}

		// Separate quotas for strict vs general actions per identity.
		key := fmt.Sprintf("%s:%s", identity, tier)

		if !getVisitor(key, limit, burst).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": http.StatusText(http.StatusTooManyRequests),
			})
			return
		}

		c.Next()
	}
}

// RateLimitStrict applies the strict tier used on auth routes.
func RateLimitStrict() gin.HandlerFunc {
	return rateLimit(limitStrict, burstStrict, "strict")
}

// RateLimit applies the general tier.
func RateLimit() gin.HandlerFunc {
	return rateLimit(limitGeneral, burstGeneral, "general")
}
