// Package repository 定义外部存储与消息的访问接口
package repository

import (
	"context"
	"fmt"
	"time"

	"xuankong-api/internal/domain/entity"
)

// PlateStore 飞星盘二级缓存
type PlateStore interface {
	// GetPlate 未命中时返回 (nil, nil)
	GetPlate(ctx context.Context, key string) (*entity.Plate, error)
	SetPlate(ctx context.Context, key string, plate *entity.Plate, ttl time.Duration) error
}

// AnalysisSummary 综合分析完成事件
type AnalysisSummary struct {
	AnalysisID    string                `json:"analysis_id"`
	Facing        float64               `json:"facing"`
	BuildYear     int                   `json:"build_year"`
	Period        entity.Period         `json:"period"`
	OverallScore  int                   `json:"overall_score"`
	AlertCount    int                   `json:"alert_count"`
	CriticalCount int                   `json:"critical_count"`
	RemedyPlans   int                   `json:"remedy_plans"`
	CompletedAt   time.Time             `json:"completed_at"`
	Patterns      []entity.PlatePattern `json:"patterns,omitempty"`
	WorstSeverity entity.Severity       `json:"worst_severity,omitempty"`
}

// EventPublisher 分析事件发布
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, summary *AnalysisSummary) error
}

// RateLimitResult 单次限流判定
type RateLimitResult struct {
	Allowed   bool
	Remaining int
}

// RateLimiter 限流
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
}

// RateLimitKey 按客户端与路由构建限流键
func RateLimitKey(clientID, route string) string {
	return fmt.Sprintf("ratelimit:%s:%s", clientID, route)
}
