// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xuankong-api/internal/config"
	"xuankong-api/internal/domain/repository"
	"xuankong-api/internal/interfaces/http/handler"
	"xuankong-api/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	xk      *handler.XuankongHandler
	health  *handler.HealthHandler
	limiter repository.RateLimiter
}

// New 创建路由器，limiter 为空时不限流
func New(cfg *config.Config, xk *handler.XuankongHandler, health *handler.HealthHandler, limiter repository.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		xk:      xk,
		health:  health,
		limiter: limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	skip := middleware.DefaultSkipPaths
	if p := r.cfg.Observability.Metrics.Path; p != "" && p != "/metrics" {
		skip = append(append([]string(nil), skip...), p)
	}
	r.engine.Use(middleware.AccessLog(skip))
	r.engine.Use(middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter))
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)
	r.engine.GET("/live", r.health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	xk := r.engine.Group("/v1/xuankong")
	{
		xk.POST("/comprehensive-analysis", r.xk.ComprehensiveAnalysis)
		xk.GET("/comprehensive-analysis", r.xk.AnalysisDoc)
		xk.POST("/plate", r.xk.Plate)
		xk.POST("/diagnosis", r.xk.Diagnose)
		xk.POST("/chengmen", r.xk.Chengmen)
		xk.GET("/chengmen/timeline", r.xk.Timeline)
		xk.POST("/remedies", r.xk.Remedies)
		xk.POST("/key-positions", r.xk.KeyPositions)
	}
}
