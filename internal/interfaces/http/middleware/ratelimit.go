package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xuankong-api/internal/config"
	"xuankong-api/internal/domain/repository"
	"xuankong-api/internal/interfaces/http/dto"
	apperrors "xuankong-api/pkg/errors"
	"xuankong-api/pkg/logger"
)

// 限流配额响应头
const (
	RateLimitLimitHeader     = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
)

// RateLimit 按客户端 IP 与路由限流，限流器故障时放行
func RateLimit(cfg config.RateLimitConfig, limiter repository.RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := repository.RateLimitKey(c.ClientIP(), route)

		res, err := limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		c.Header(RateLimitLimitHeader, strconv.Itoa(cfg.Requests))
		c.Header(RateLimitRemainingHeader, strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "rate limit exceeded",
				Error:   &dto.ErrorDetail{ErrorCode: string(apperrors.CodeTooManyRequests)},
				TraceID: c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
