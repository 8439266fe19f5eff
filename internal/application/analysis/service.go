// Package analysis 综合分析编排：起盘、诊断、化解、关键方位与高级格局
package analysis

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"xuankong-api/internal/application/chengmen"
	"xuankong-api/internal/application/diagnosis"
	"xuankong-api/internal/application/keyposition"
	"xuankong-api/internal/application/plate"
	"xuankong-api/internal/application/remedy"
	"xuankong-api/internal/domain/entity"
	"xuankong-api/internal/domain/repository"
	apperrors "xuankong-api/pkg/errors"
	"xuankong-api/pkg/logger"
	"xuankong-api/pkg/metrics"
	"xuankong-api/pkg/tracer"
)

// DefaultSchemaVersion 结果结构版本
const DefaultSchemaVersion = "6.1.0"

var priorityActions = map[entity.Urgency]string{
	entity.UrgencyImmediate: "立即处理",
	entity.UrgencySoon:      "尽快处理",
	entity.UrgencyPlanned:   "择期处理",
}

// Options 编排参数
type Options struct {
	SchemaVersion string
	Timeout       time.Duration
}

// Service 综合分析服务
type Service struct {
	plates    *plate.Service
	diagnoser *diagnosis.Engine
	chengmen  *chengmen.Analyzer
	remedies  *remedy.Generator
	keys      *keyposition.Analyzer
	publisher repository.EventPublisher
	opts      Options
	now       func() time.Time
	newID     func() string
}

// NewService 创建综合分析服务，publisher 可为 nil
func NewService(
	plates *plate.Service,
	diagnoser *diagnosis.Engine,
	cm *chengmen.Analyzer,
	remedies *remedy.Generator,
	keys *keyposition.Analyzer,
	publisher repository.EventPublisher,
	opts Options,
) *Service {
	if opts.SchemaVersion == "" {
		opts.SchemaVersion = DefaultSchemaVersion
	}
	return &Service{
		plates:    plates,
		diagnoser: diagnoser,
		chengmen:  cm,
		remedies:  remedies,
		keys:      keys,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Run 执行综合分析；起盘与诊断失败即中止，关键方位失败只降级
func (s *Service) Run(ctx context.Context, req *entity.AnalysisRequest) (*entity.ComprehensiveResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("analysis request is required")
	}
	start := time.Now()
	id := s.newID()
	ctx = logger.WithContext(ctx, logger.AnalysisIDKey, id)
	ctx, span := tracer.Start(ctx, "analysis.Run",
		trace.WithAttributes(
			attribute.String("analysis.id", id),
			attribute.Float64("analysis.facing", req.Facing),
			attribute.Int("analysis.build_year", req.BuildYear),
		))
	defer span.End()
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	res, err := s.run(ctx, req, id)
	status := "success"
	if err != nil {
		status = "error"
		if apperrors.IsClientError(err) {
			status = "invalid"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.AnalysisTotal.WithLabelValues(status).Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("analysis.overall_score", res.OverallScore),
		attribute.Int("analysis.alerts", len(res.Diagnosis.Alerts)),
	)
	logger.Info(ctx, "analysis completed",
		"overall_score", res.OverallScore,
		"alerts", len(res.Diagnosis.Alerts),
		"remedy_plans", res.Remedies.Stats.TotalPlans,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.publish(ctx, req, res)
	return res, nil
}

func (s *Service) run(ctx context.Context, req *entity.AnalysisRequest, id string) (*entity.ComprehensiveResult, error) {
	p, err := s.plates.Get(ctx, req.Facing, req.BuildYear, req.Location)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "plate ready", "period", int(p.Period), "patterns", p.Patterns)

	diag, err := s.diagnoser.Diagnose(p, req.RoomLayout, req.TimeFactors)
	if err != nil {
		return nil, err
	}
	alerts := Alerts(diag.Issues)
	logger.Debug(ctx, "diagnosis completed", "score", diag.Score, "issues", len(alerts))

	remedies, err := s.remedyPlans(alerts, req.Constraints)
	if err != nil {
		return nil, err
	}

	advanced, err := s.advanced(p, req.Environment)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "analysis deadline exceeded")
	}

	res := &entity.ComprehensiveResult{
		Plate: p,
		Diagnosis: entity.DiagnosisSection{
			Alerts: alerts,
			Stats:  DiagnosisStats(alerts, diag.Score),
		},
		Remedies:         remedies,
		AdvancedPatterns: advanced,
		Priorities:       Priorities(alerts),
		OverallScore:     diag.Score,
		Recommendation:   Recommendation(diag.Score),
		Meta: entity.AnalysisMeta{
			Timestamp:  s.now().UTC(),
			Version:    s.opts.SchemaVersion,
			AnalysisID: id,
		},
	}
	s.keyPositions(ctx, req, p, res)
	record(res)
	return res, nil
}

// keyPositions 个性化分支，任何失败都只记录标记
func (s *Service) keyPositions(ctx context.Context, req *entity.AnalysisRequest, p *entity.Plate, res *entity.ComprehensiveResult) {
	if req.Profile == nil {
		return
	}
	main := req.MainDoor
	if main == "" {
		main = p.FacingPalace.Direction()
	}
	kp, err := s.keys.Analyze(main, req.Profile)
	if err != nil {
		logger.Warn(ctx, "key positions degraded", "main_direction", string(main), "error", err.Error())
		res.Flags.KeyPositionsUnavailable = true
		res.Flags.KeyPositionsError = err.Error()
		return
	}
	if kp == nil {
		res.Flags.KeyPositionsUnavailable = true
		return
	}
	res.KeyPositions = kp
}

func (s *Service) remedyPlans(alerts []entity.Alert, c entity.RemedyConstraints) (entity.RemedySection, error) {
	var issues []entity.RemedyIssue
	for _, a := range alerts {
		if a.Severity != entity.SeverityCritical && a.Severity != entity.SeverityHigh {
			continue
		}
		issues = append(issues, entity.RemedyIssue{Palace: a.Palace, Severity: a.Severity, Type: a.Type})
	}
	return Remedies(s.remedies, issues, c)
}

// Remedies 为每个问题生成方案并按宫位归集，平均成本按方案数计算
func Remedies(gen *remedy.Generator, issues []entity.RemedyIssue, c entity.RemedyConstraints) (entity.RemedySection, error) {
	section := entity.RemedySection{Plans: map[entity.Palace][]entity.RemedyPlan{}}
	var costs float64
	for _, is := range issues {
		plans, err := gen.Generate(is, c)
		if err != nil {
			return section, err
		}
		section.Plans[is.Palace] = append(section.Plans[is.Palace], plans...)
		section.Stats.TotalIssues++
		section.Stats.TotalPlans += len(plans)
		for _, pl := range plans {
			costs += pl.Cost.Average()
		}
	}
	section.Stats.AvgCostPerIssue = math.Round(costs / float64(max(section.Stats.TotalPlans, 1)))
	return section, nil
}

func (s *Service) advanced(p *entity.Plate, env *entity.Environment) (*entity.AdvancedPatterns, error) {
	cm, err := s.chengmen.Analyze(p, p.Period, p.SittingMountain, p.FacingMountain)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeChengmenFailed, "chengmen analysis failed")
	}
	lz, err := chengmen.LingZheng(p.Period, env)
	if err != nil {
		return nil, err
	}
	return &entity.AdvancedPatterns{Chengmenjue: cm, LingZheng: lz}, nil
}

func (s *Service) publish(ctx context.Context, req *entity.AnalysisRequest, res *entity.ComprehensiveResult) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAnalysisCompleted(context.WithoutCancel(ctx), Summary(req, res)); err != nil {
		logger.Warn(ctx, "publish analysis event failed", "error", err.Error())
	}
}

// Alerts 诊断问题附加紧急程度
func Alerts(issues []entity.DiagnosticIssue) []entity.Alert {
	alerts := make([]entity.Alert, 0, len(issues))
	for _, is := range issues {
		alerts = append(alerts, entity.Alert{DiagnosticIssue: is, Urgency: entity.UrgencyFor(is.Severity)})
	}
	return alerts
}

// DiagnosisStats 只由告警列表派生；无告警时平均分取整体评分
func DiagnosisStats(alerts []entity.Alert, overall int) entity.DiagnosisStats {
	st := entity.DiagnosisStats{Total: len(alerts)}
	sum := 0
	for _, a := range alerts {
		sum += a.Score
		switch a.Severity {
		case entity.SeverityCritical:
			st.Critical++
		case entity.SeverityHigh:
			st.High++
		case entity.SeverityMedium:
			st.Medium++
		case entity.SeverityLow:
			st.Low++
		}
	}
	if len(alerts) == 0 {
		st.AvgScore = float64(overall)
	} else {
		st.AvgScore = math.Round(float64(sum) / float64(len(alerts)))
	}
	return st
}

// Priorities 全部告警按紧急程度稳定排序
func Priorities(alerts []entity.Alert) []entity.Priority {
	sorted := slices.Clone(alerts)
	slices.SortStableFunc(sorted, func(a, b entity.Alert) int {
		return a.Urgency.Rank() - b.Urgency.Rank()
	})
	out := make([]entity.Priority, 0, len(sorted))
	for i, a := range sorted {
		out = append(out, entity.Priority{
			Rank:      i + 1,
			Palace:    a.Palace,
			Direction: a.Direction,
			IssueType: a.Type,
			Title:     a.Title,
			Severity:  a.Severity,
			Urgency:   a.Urgency,
			Action:    priorityActions[a.Urgency],
		})
	}
	return out
}

// Recommendation 总体建议
func Recommendation(score int) string {
	switch {
	case score >= 80:
		return "整体风水状况优秀,建议保持现有布局,定期维护即可。"
	case score >= 60:
		return "整体风水状况良好,但存在部分需要改善的区域,建议优先处理中高风险问题。"
	case score >= 40:
		return "风水状况一般,存在多处需要调整的地方,建议制定系统化的改善计划。"
	case score >= 20:
		return "风水状况较差,存在较多高风险问题,强烈建议尽快实施化解方案。"
	default:
		return "风水状况严重不佳,存在多处危险区域,建议立即采取紧急措施并考虑专业咨询。"
	}
}

// Summary 完成事件摘要
func Summary(req *entity.AnalysisRequest, res *entity.ComprehensiveResult) *repository.AnalysisSummary {
	sum := &repository.AnalysisSummary{
		AnalysisID:    res.Meta.AnalysisID,
		Facing:        req.Facing,
		BuildYear:     req.BuildYear,
		Period:        res.Plate.Period,
		OverallScore:  res.OverallScore,
		AlertCount:    res.Diagnosis.Stats.Total,
		CriticalCount: res.Diagnosis.Stats.Critical,
		RemedyPlans:   res.Remedies.Stats.TotalPlans,
		CompletedAt:   res.Meta.Timestamp,
		Patterns:      slices.Clone(res.Plate.Patterns),
	}
	for _, a := range res.Diagnosis.Alerts {
		if sum.WorstSeverity == "" || a.Severity.Rank() > sum.WorstSeverity.Rank() {
			sum.WorstSeverity = a.Severity
		}
	}
	return sum
}

func record(res *entity.ComprehensiveResult) {
	for _, a := range res.Diagnosis.Alerts {
		metrics.DiagnosticIssuesTotal.WithLabelValues(string(a.Severity)).Inc()
	}
	for _, plans := range res.Remedies.Plans {
		for _, pl := range plans {
			metrics.RemedyPlansTotal.WithLabelValues(string(pl.Tier)).Inc()
		}
	}
	if cm := res.AdvancedPatterns.Chengmenjue; cm != nil {
		for _, m := range cm.Matches {
			metrics.ChengmenMatchesTotal.WithLabelValues(string(m.GateType)).Inc()
		}
	}
}
