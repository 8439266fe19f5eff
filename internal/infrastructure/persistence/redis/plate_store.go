package redis

import (
	"context"
	"time"

	"xuankong-api/internal/domain/entity"
	"xuankong-api/internal/domain/repository"
)

// PlateKeyPattern 所有飞星盘缓存键
const PlateKeyPattern = "plate:*"

// PlateStore 基于 Redis 的飞星盘二级缓存
type PlateStore struct {
	cache *Cache
}

var _ repository.PlateStore = (*PlateStore)(nil)

// NewPlateStore 创建飞星盘缓存
func NewPlateStore(cache *Cache) *PlateStore {
	return &PlateStore{cache: cache}
}

// GetPlate 未命中时返回 (nil, nil)
func (s *PlateStore) GetPlate(ctx context.Context, key string) (*entity.Plate, error) {
	var p entity.Plate
	found, err := s.cache.Get(ctx, key, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// SetPlate 写入飞星盘
func (s *PlateStore) SetPlate(ctx context.Context, key string, plate *entity.Plate, ttl time.Duration) error {
	return s.cache.Set(ctx, key, plate, ttl)
}

// Purge 清空全部飞星盘缓存
func (s *PlateStore) Purge(ctx context.Context) (int, error) {
	return s.cache.InvalidatePattern(ctx, PlateKeyPattern)
}
