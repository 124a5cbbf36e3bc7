package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"pantrify/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter 令牌桶限流器，每個 window 補滿 requests 個令牌
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter 創建限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	every := rate.Every(window / time.Duration(requests))
	return &RateLimiter{limiter: rate.NewLimiter(every, requests)}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}

func (rl *RateLimiter) allowAt(now time.Time) bool {
	return rl.limiter.AllowN(now, 1)
}

// clientLimiters 每個來源 IP 一個令牌桶
type clientLimiters struct {
	mu       sync.Mutex
	requests int
	window   time.Duration
	byClient map[string]*RateLimiter
}

func (l *clientLimiters) get(client string) *RateLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	rl, ok := l.byClient[client]
	if !ok {
		rl = NewRateLimiter(l.requests, l.window)
		l.byClient[client] = rl
	}
	return rl
}

// RateLimit 依來源 IP 限流
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiters := &clientLimiters{
		requests: requests,
		window:   window,
		byClient: make(map[string]*RateLimiter),
	}

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: common.ErrTooManyRequests.Message,
			})
			return
		}

		c.Next()
	}
}
