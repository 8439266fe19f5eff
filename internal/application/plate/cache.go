package plate

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"xuankong-api/internal/domain/entity"
	"xuankong-api/internal/domain/repository"
	"xuankong-api/pkg/logger"
	"xuankong-api/pkg/metrics"
	"xuankong-api/pkg/tracer"
)

const (
	tierMemory = "memory"
	tierStore  = "store"
)

// Service 带读穿透缓存的起盘服务，盘面不可变，返回值均为副本
type Service struct {
	gen      *Generator
	store    repository.PlateStore
	ttl      time.Duration
	capacity int

	mu    sync.RWMutex
	memo  map[string]*entity.Plate
	group singleflight.Group
}

// NewService 创建起盘服务，store 可为 nil
func NewService(gen *Generator, store repository.PlateStore, capacity int, ttl time.Duration) *Service {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Service{
		gen:      gen,
		store:    store,
		ttl:      ttl,
		capacity: capacity,
		memo:     make(map[string]*entity.Plate, capacity),
	}
}

// Generator 底层生成器
func (s *Service) Generator() *Generator {
	return s.gen
}

// CacheKey 缓存键，朝向按原值参与，位置不影响星盘
func CacheKey(facing float64, buildYear int) string {
	return "plate:v2:" + strconv.FormatFloat(facing, 'g', -1, 64) + ":" + strconv.Itoa(buildYear)
}

// Get 读穿透获取飞星盘
func (s *Service) Get(ctx context.Context, facing float64, buildYear int, loc *entity.Location) (*entity.Plate, error) {
	ctx, span := tracer.Start(ctx, "plate.GetOrGenerate",
		trace.WithAttributes(
			attribute.Float64("plate.facing", facing),
			attribute.Int("plate.build_year", buildYear),
		))
	defer span.End()

	if err := s.gen.Validate(facing, buildYear); err != nil {
		return nil, err
	}

	key := CacheKey(facing, buildYear)
	if p, ok := s.lookup(key); ok {
		metrics.PlateCacheRequests.WithLabelValues(tierMemory, "hit").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return withLocation(p, loc), nil
	}
	metrics.PlateCacheRequests.WithLabelValues(tierMemory, "miss").Inc()

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		if p, ok := s.lookup(key); ok {
			return p, nil
		}
		p, err := s.load(ctx, key, facing, buildYear)
		if err != nil {
			return nil, err
		}
		s.remember(key, p)
		return p, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return withLocation(v.(*entity.Plate), loc), nil
}

// load 依次尝试二级缓存与生成，二级缓存故障只降级为重新计算
func (s *Service) load(ctx context.Context, key string, facing float64, buildYear int) (*entity.Plate, error) {
	if s.store != nil {
		p, err := s.store.GetPlate(ctx, key)
		switch {
		case err != nil:
			metrics.PlateCacheRequests.WithLabelValues(tierStore, "error").Inc()
			logger.Warn(ctx, "plate store read failed", "key", key, "error", err.Error())
		case p != nil && p.Validate() == nil:
			metrics.PlateCacheRequests.WithLabelValues(tierStore, "hit").Inc()
			return p, nil
		default:
			metrics.PlateCacheRequests.WithLabelValues(tierStore, "miss").Inc()
		}
	}

	p, err := s.gen.Generate(facing, buildYear, nil)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "plate generated", "key", key, "period", int(p.Period))

	if s.store != nil {
		if err := s.store.SetPlate(ctx, key, p, s.ttl); err != nil {
			metrics.PlateCacheRequests.WithLabelValues(tierStore, "error").Inc()
			logger.Warn(ctx, "plate store write failed", "key", key, "error", err.Error())
		}
	}
	return p, nil
}

func (s *Service) lookup(key string) (*entity.Plate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.memo[key]
	return p, ok
}

func (s *Service) remember(key string, p *entity.Plate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.memo[key]; ok {
		return
	}
	if len(s.memo) >= s.capacity {
		// 满时随机淘汰一项
		for k := range s.memo {
			delete(s.memo, k)
			break
		}
	}
	s.memo[key] = p
}

// Len 内存缓存条目数
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memo)
}

func withLocation(p *entity.Plate, loc *entity.Location) *entity.Plate {
	cp := p.Clone()
	cp.Location = nil
	if loc != nil {
		l := *loc
		cp.Location = &l
	}
	return cp
}
