package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"xuankong-api/internal/domain/repository"
	"xuankong-api/pkg/metrics"
	apptracer "xuankong-api/pkg/tracer"
)

var tracer = otel.Tracer("messaging")

// Producer 分析事件生产者
type Producer struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	timeout time.Duration
	now     func() time.Time
}

var _ repository.EventPublisher = (*Producer)(nil)

// NewProducer 创建生产者，timeout 为 0 时不额外限制发布耗时
func NewProducer(client *redis.Client, stream string, maxLen int64, timeout time.Duration) *Producer {
	if stream == "" {
		stream = DefaultStream
	}
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &Producer{
		client:  client,
		stream:  stream,
		maxLen:  maxLen,
		timeout: timeout,
		now:     time.Now,
	}
}

// Stream 事件流名称
func (p *Producer) Stream() string {
	return p.stream
}

// Publish 发布消息到流，返回流消息 ID
func (p *Producer) Publish(ctx context.Context, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", p.stream),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type": msg.Type,
			"data": string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	metrics.EventsPublishedTotal.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishAnalysisCompleted 发布综合分析完成事件
func (p *Producer) PublishAnalysisCompleted(ctx context.Context, summary *repository.AnalysisSummary) error {
	id := summary.AnalysisID
	if id == "" {
		id = uuid.NewString()
	}
	msg, err := NewMessage(id, EventAnalysisCompleted, summary, p.now())
	if err != nil {
		return err
	}
	msg.SetMetadata("period", strconv.Itoa(int(summary.Period)))
	msg.SetMetadata("worst_severity", string(summary.WorstSeverity))
	if traceID := apptracer.TraceID(ctx); traceID != "" {
		msg.SetMetadata("trace_id", traceID)
	}

	_, err = p.Publish(ctx, msg)
	return err
}

// Recent 按时间倒序读取最近的事件
func (p *Producer) Recent(ctx context.Context, count int64) ([]*Message, error) {
	ctx, span := tracer.Start(ctx, "producer.Recent",
		trace.WithAttributes(attribute.String("stream", p.stream)))
	defer span.End()

	entries, err := p.client.XRevRangeN(ctx, p.stream, "+", "-", count).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	out := make([]*Message, 0, len(entries))
	for _, e := range entries {
		raw, ok := e.Values["data"].(string)
		if !ok {
			continue
		}
		var msg Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode stream entry %s: %w", e.ID, err)
		}
		out = append(out, &msg)
	}
	return out, nil
}
