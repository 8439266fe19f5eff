// Package remedy 按问题类型与严重程度生成分层化解方案
package remedy

import (
	"fmt"
	"slices"
	"strings"

	"xuankong-api/internal/application/rulebook"
	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

// 严重程度对最高费用的放大系数
var costWidening = map[entity.Severity]float64{
	entity.SeverityCritical: 1.5,
	entity.SeverityHigh:     1.2,
}

var urgentPreparation = map[entity.Urgency]string{
	entity.UrgencyImmediate: "当天",
	entity.UrgencySoon:      "1-3天",
}

// Generator 化解方案生成器
type Generator struct {
	table *rulebook.RemedyTable
}

// NewGenerator 创建生成器
func NewGenerator(book *rulebook.Rulebook) *Generator {
	return &Generator{table: &book.Remedies}
}

// TiersFor 严重程度适用的方案层级
func TiersFor(s entity.Severity) []entity.RemedyTier {
	switch s {
	case entity.SeverityCritical, entity.SeverityHigh:
		return entity.Tiers
	case entity.SeverityMedium:
		return entity.Tiers[:2]
	default:
		return entity.Tiers[:1]
	}
}

// Generate 至少返回 basic 方案；超预算的方案保留但不推荐
func (g *Generator) Generate(issue entity.RemedyIssue, c entity.RemedyConstraints) ([]entity.RemedyPlan, error) {
	if !issue.Palace.Valid() {
		return nil, apperrors.InvalidInput("issue position must be a palace within 1-9, got %d", issue.Palace)
	}
	severity := issue.Severity
	if severity == "" {
		severity = entity.SeverityMedium
	}
	if !severity.Valid() {
		return nil, apperrors.InvalidInput("unknown severity %q", issue.Severity)
	}
	if c.Budget != nil && *c.Budget < 0 {
		return nil, apperrors.InvalidInput("budget must not be negative")
	}
	issueType := issue.Type
	if issueType == "" {
		issueType = rulebook.DefaultTemplate
	}

	tpl := g.table.Template(issueType)
	plans := make([]entity.RemedyPlan, 0, 3)
	var floor entity.CostRange
	for _, tier := range TiersFor(severity) {
		tt, ok := tpl.Tiers[tier]
		if !ok {
			continue
		}
		plan := g.build(issueType, issue.Palace, severity, tier, tt, c)
		plan.Cost.Min = max(plan.Cost.Min, floor.Min)
		plan.Cost.Max = max(plan.Cost.Max, floor.Max, plan.Cost.Min)
		floor = plan.Cost
		plan.Recommended = c.Budget == nil || plan.Cost.Average() <= *c.Budget
		plans = append(plans, plan)
	}
	if len(plans) == 0 {
		return nil, apperrors.Internal(apperrors.CodeRemedyFailed, "remedy template %s has no usable tier", issueType)
	}
	return plans, nil
}

func (g *Generator) build(issueType string, palace entity.Palace, severity entity.Severity, tier entity.RemedyTier, tt rulebook.TierTemplate, c entity.RemedyConstraints) entity.RemedyPlan {
	fill := placeholders(palace)

	items := make([]entity.RemedyItem, 0, len(tt.Items))
	cost := entity.CostRange{Min: tt.LaborCost, Max: tt.LaborCost, Currency: g.table.Currency}
	for _, it := range tt.Items {
		if it.MinSeverity != "" && !severity.AtLeast(it.MinSeverity) {
			continue
		}
		q := float64(it.Quantity)
		cost.Min += it.CostMin * q
		cost.Max += it.CostMax * q
		items = append(items, entity.RemedyItem{
			Name:        it.Name,
			Category:    it.Category,
			Description: fill.Replace(it.Description),
			Placement:   fill.Replace(it.Placement),
			Quantity:    it.Quantity,
			Cost:        entity.CostRange{Min: it.CostMin, Max: it.CostMax, Currency: g.table.Currency},
			Preferred:   slices.Contains(c.Preferences, it.Category),
		})
	}
	// 偏好类别排前，步骤顺序不变
	slices.SortStableFunc(items, func(a, b entity.RemedyItem) int {
		switch {
		case a.Preferred && !b.Preferred:
			return -1
		case !a.Preferred && b.Preferred:
			return 1
		}
		return 0
	})
	if f, ok := costWidening[severity]; ok {
		cost.Max *= f
	}

	steps := make([]entity.RemedyStep, 0, len(tt.Steps))
	for _, st := range tt.Steps {
		if st.MinSeverity != "" && !severity.AtLeast(st.MinSeverity) {
			continue
		}
		steps = append(steps, entity.RemedyStep{
			Order:       len(steps) + 1,
			Title:       st.Title,
			Description: fill.Replace(st.Description),
			Duration:    st.Duration,
			Difficulty:  st.Difficulty,
		})
	}

	timeline := entity.RemedyTimeline{
		Preparation:    tt.Timeline.Preparation,
		Implementation: tt.Timeline.Implementation,
		Maintenance:    tt.Timeline.Maintenance,
	}
	if prep, ok := urgentPreparation[c.Urgency]; ok {
		timeline.Preparation = prep
	}

	return entity.RemedyPlan{
		ID:            fmt.Sprintf("%s-%d-%s", issueType, palace, tier),
		Tier:          tier,
		IssueType:     issueType,
		Palace:        palace,
		TargetArea:    palace.Direction(),
		Title:         fill.Replace(tt.Title),
		Items:         items,
		Steps:         steps,
		Timeline:      timeline,
		Cost:          cost,
		Effectiveness: tt.Effectiveness,
		Precautions:   slices.Clone(tt.Precautions),
	}
}

func placeholders(p entity.Palace) *strings.Replacer {
	return strings.NewReplacer("{palace}", p.Trigram(), "{direction}", p.Direction().Label())
}
