// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"os"

	"xuankong-api/internal/application/analysis"
	"xuankong-api/internal/application/chengmen"
	"xuankong-api/internal/application/diagnosis"
	"xuankong-api/internal/application/keyposition"
	"xuankong-api/internal/application/plate"
	"xuankong-api/internal/application/remedy"
	"xuankong-api/internal/application/rulebook"
	"xuankong-api/internal/config"
	"xuankong-api/internal/domain/repository"
	"xuankong-api/internal/infrastructure/messaging"
	"xuankong-api/internal/infrastructure/persistence/redis"
	"xuankong-api/internal/interfaces/http/handler"
	"xuankong-api/internal/interfaces/http/router"
	"xuankong-api/pkg/logger"
)

// Engines 领域引擎容器，供 CLI 直接调用
type Engines struct {
	Book      *rulebook.Rulebook
	Plates    *plate.Service
	Diagnoser *diagnosis.Engine
	Chengmen  *chengmen.Analyzer
	Remedies  *remedy.Generator
	Keys      *keyposition.Analyzer
	Analysis  *analysis.Service
}

// Storage Redis 相关依赖，未启用 Redis 时各字段为 nil
type Storage struct {
	Client     *redis.Client
	PlateStore *redis.PlateStore
	Producer   *messaging.Producer
}

// ProvideRulebook 加载规则表，配置外部目录时从目录读取
func ProvideRulebook(cfg *config.Config) (*rulebook.Rulebook, error) {
	dir := cfg.Engine.RulebookDir
	if dir == "" {
		return rulebook.Default(), nil
	}
	return rulebook.NewRegistryFS(os.DirFS(dir)).Book()
}

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "redis connected", "host", cfg.Cache.Redis.Host, "port", cfg.Cache.Redis.Port)
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvidePlateStore Redis 未启用时不提供二级缓存
func ProvidePlateStore(client *redis.Client) *redis.PlateStore {
	if client == nil {
		return nil
	}
	return redis.NewPlateStore(redis.NewCache(client))
}

// ProvideRateLimiter Redis 未启用时不限流
func ProvideRateLimiter(client *redis.Client) repository.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideMessagingProducer 提供分析事件生产者，消息或 Redis 未启用时返回 nil
func ProvideMessagingProducer(ctx context.Context, client *redis.Client, cfg *config.Config) *messaging.Producer {
	sc := cfg.Messaging.RedisStream
	if !sc.Enabled {
		return nil
	}
	if client == nil {
		logger.Warn(ctx, "redis stream enabled without redis, analysis events disabled")
		return nil
	}
	return messaging.NewProducer(client.Redis(), sc.Stream, int64(sc.MaxLen), sc.PublishTimeout)
}

// ProvidePlateService 组装起盘服务，二级缓存可选
func ProvidePlateService(cfg *config.Config, store *redis.PlateStore) *plate.Service {
	gen := plate.NewGenerator(cfg.Engine.MinBuildYear, cfg.Engine.MaxBuildYear)
	if store == nil {
		return plate.NewService(gen, nil, cfg.Engine.PlateCacheSize, cfg.Engine.PlateCacheTTL)
	}
	return plate.NewService(gen, store, cfg.Engine.PlateCacheSize, cfg.Engine.PlateCacheTTL)
}

// ProvideAnalysisService 组装综合分析服务
func ProvideAnalysisService(
	cfg *config.Config,
	plates *plate.Service,
	diagnoser *diagnosis.Engine,
	cm *chengmen.Analyzer,
	remedies *remedy.Generator,
	keys *keyposition.Analyzer,
	producer *messaging.Producer,
) *analysis.Service {
	opts := analysis.Options{
		SchemaVersion: cfg.Engine.SchemaVersion,
		Timeout:       cfg.Engine.AnalysisTimeout,
	}
	if producer == nil {
		return analysis.NewService(plates, diagnoser, cm, remedies, keys, nil, opts)
	}
	return analysis.NewService(plates, diagnoser, cm, remedies, keys, producer, opts)
}

// ProvideXuankongHandler 提供业务处理器
func ProvideXuankongHandler(cfg *config.Config, e *Engines) *handler.XuankongHandler {
	return handler.NewXuankongHandler(e.Analysis, e.Plates, e.Diagnoser, e.Chengmen, e.Remedies, e.Keys, cfg.Engine.SchemaVersion)
}

// ProvideHealthHandler Redis 启用时纳入就绪检查
func ProvideHealthHandler(cfg *config.Config, client *redis.Client) *handler.HealthHandler {
	checks := map[string]handler.HealthChecker{}
	if client != nil {
		checks["redis"] = client
	}
	return handler.NewHealthHandler(cfg.App.Version, checks)
}

// ProvideRouter 提供路由器
func ProvideRouter(cfg *config.Config, xk *handler.XuankongHandler, health *handler.HealthHandler, limiter repository.RateLimiter) *router.Router {
	return router.New(cfg, xk, health, limiter)
}
