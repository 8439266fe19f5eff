//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"xuankong-api/internal/application/chengmen"
	"xuankong-api/internal/application/diagnosis"
	"xuankong-api/internal/application/keyposition"
	"xuankong-api/internal/application/remedy"
	"xuankong-api/internal/config"
	"xuankong-api/internal/interfaces/http/router"
)

// StorageSet Redis 提供者集合
var StorageSet = wire.NewSet(
	ProvideRedisClient,
	ProvidePlateStore,
	ProvideMessagingProducer,
	wire.Struct(new(Storage), "*"),
)

// EngineSet 领域引擎提供者集合
var EngineSet = wire.NewSet(
	ProvideRulebook,
	ProvidePlateService,
	diagnosis.NewEngine,
	chengmen.NewAnalyzer,
	remedy.NewGenerator,
	keyposition.NewAnalyzer,
	ProvideAnalysisService,
	wire.Struct(new(Engines), "*"),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideRateLimiter,
	ProvideXuankongHandler,
	ProvideHealthHandler,
	ProvideRouter,
)

// InitializeStorage 初始化 Redis 相关依赖
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, func(), error) {
	wire.Build(StorageSet)
	return nil, nil, nil
}

// InitializeEngines 初始化领域引擎
func InitializeEngines(ctx context.Context, cfg *config.Config) (*Engines, func(), error) {
	wire.Build(
		ProvideRedisClient,
		ProvidePlateStore,
		ProvideMessagingProducer,
		EngineSet,
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		ProvideRedisClient,
		ProvidePlateStore,
		ProvideMessagingProducer,
		EngineSet,
		RouterSet,
	)
	return nil, nil, nil
}
