// Package chengmen 城门诀分析：规则命中、特殊组合、零正神与催旺时效
package chengmen

import (
	"fmt"
	"slices"
	"sort"

	"xuankong-api/internal/application/rulebook"
	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

// 强度加分
const (
	conditionMountain = 3
	conditionFacing   = 3
	conditionPeriod   = 2
	periodStarBonus   = 2
	nextStarBonus     = 1
)

const (
	SourceRule    = "chengmen"
	SourceSpecial = "special"
)

// Analyzer 城门诀分析器
type Analyzer struct {
	table *rulebook.ChengmenTable
}

// NewAnalyzer 创建分析器
func NewAnalyzer(book *rulebook.Rulebook) *Analyzer {
	return &Analyzer{table: &book.Chengmen}
}

// Analyze 按元运与坐向匹配规则表，并扫描全盘特殊组合
func (a *Analyzer) Analyze(plate *entity.Plate, period entity.Period, sitting, facing entity.Mountain) (*entity.ChengmenjueAnalysis, error) {
	if err := plate.Validate(); err != nil {
		return nil, err
	}
	if !period.Valid() {
		return nil, apperrors.InvalidInput("period must be within 1-9, got %d", period)
	}
	if !sitting.Valid() || !facing.Valid() {
		return nil, apperrors.InvalidInput("sitting and facing mountains are required")
	}

	matches := a.Match(plate, period, sitting, facing)
	specials := a.Specials(plate, period)

	res := &entity.ChengmenjueAnalysis{
		Period:              period,
		SittingMountain:     sitting,
		FacingMountain:      facing,
		Matches:             matches,
		SpecialCombinations: specials,
		Positions:           a.positions(matches, specials),
	}
	if len(matches) > 0 {
		best := matches[0]
		res.BestGate = &best
		res.Effectiveness = best.Effectiveness
	}
	for _, sc := range specials {
		if sc.Effectiveness.Bonus() > res.Effectiveness.Bonus() {
			res.Effectiveness = sc.Effectiveness
		}
	}
	return res, nil
}

// Match 规则命中，按强度降序，同分保持表序
func (a *Analyzer) Match(plate *entity.Plate, period entity.Period, sitting, facing entity.Mountain) []entity.ChengmenMatch {
	matches := make([]entity.ChengmenMatch, 0, 4)
	for i := range a.table.Rules {
		r := &a.table.Rules[i]
		if r.Period != period {
			continue
		}
		if m, ok := a.evaluate(r, plate.Cell(r.TargetPalace), period, sitting, facing); ok {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Strength > matches[j].Strength
	})
	return matches
}

func (a *Analyzer) evaluate(r *entity.ChengmenRule, cell entity.PlateCell, period entity.Period, sitting, facing entity.Mountain) (entity.ChengmenMatch, bool) {
	t := r.Trigger
	var conds []string
	if len(t.SittingMountains) > 0 {
		if !slices.Contains(t.SittingMountains, sitting) {
			return entity.ChengmenMatch{}, false
		}
		conds = append(conds, "sitting_mountain="+sitting.Name())
	}
	if len(t.FacingMountains) > 0 {
		if !slices.Contains(t.FacingMountains, facing) {
			return entity.ChengmenMatch{}, false
		}
		conds = append(conds, "facing_mountain="+facing.Name())
	}

	strength, hit := 0, 0
	check := func(want, got entity.Star, name string, points int) {
		if want == 0 || want != got {
			return
		}
		strength += points
		hit++
		conds = append(conds, fmt.Sprintf("%s=%d", name, want))
	}
	check(t.MountainStar, cell.MountainStar, "mountain_star", conditionMountain)
	check(t.FacingStar, cell.FacingStar, "facing_star", conditionFacing)
	check(t.PeriodStar, cell.PeriodStar, "period_star", conditionPeriod)

	// 声明的星条件须全部命中
	declared := t.StarConditions()
	if hit < declared {
		return entity.ChengmenMatch{}, false
	}

	ps := period.Star()
	stars := cell.Stars()
	if slices.Contains(stars[:], ps) {
		strength += periodStarBonus
	}
	if next := ps.Next(); cell.MountainStar == next || cell.FacingStar == next {
		strength += nextStarBonus
	}
	strength += r.Effectiveness.Bonus()

	if conds == nil {
		conds = []string{}
	}
	return entity.ChengmenMatch{
		Palace:            r.TargetPalace,
		Direction:         r.TargetPalace.Direction(),
		RuleID:            r.ID,
		GateType:          r.GateType,
		Method:            r.Method,
		Effectiveness:     r.Effectiveness,
		Strength:          strength,
		FullMatch:         declared > 0,
		MatchedConditions: conds,
		Description:       r.Description,
	}, true
}

func (a *Analyzer) positions(matches []entity.ChengmenMatch, specials []entity.SpecialCombination) []entity.ActionablePosition {
	out := make([]entity.ActionablePosition, 0, len(matches)+len(specials))
	for _, m := range matches {
		r := a.rule(m.RuleID)
		activation := r.Activation
		if len(activation) == 0 {
			activation = a.table.MethodActivation[m.Method]
		}
		out = append(out, entity.ActionablePosition{
			Palace:           m.Palace,
			Direction:        m.Direction,
			Source:           SourceRule,
			Name:             a.table.GateLabels[m.GateType],
			Strength:         m.Strength,
			ActivationMethod: a.table.MethodLabels[m.Method],
			Activation:       slices.Clone(activation),
			Taboos:           a.Taboos(m.Palace, r.Taboos...),
		})
	}
	for _, sc := range specials {
		def := a.table.Specials[sc.Name]
		for _, p := range sc.Palaces {
			out = append(out, entity.ActionablePosition{
				Palace:           p,
				Direction:        p.Direction(),
				Source:           SourceSpecial,
				Name:             def.Label,
				Strength:         def.Effectiveness.Bonus(),
				ActivationMethod: a.table.MethodLabels[def.Method],
				Activation:       slices.Clone(a.table.MethodActivation[def.Method]),
				Taboos:           a.Taboos(p),
			})
		}
	}
	return out
}

func (a *Analyzer) rule(id string) *entity.ChengmenRule {
	for i := range a.table.Rules {
		if a.table.Rules[i].ID == id {
			return &a.table.Rules[i]
		}
	}
	return &entity.ChengmenRule{}
}

// Taboos 通用禁忌 + 卦位禁忌 + 额外禁忌，去重保序
func (a *Analyzer) Taboos(p entity.Palace, extra ...string) []string {
	out := make([]string, 0, len(a.table.GenericTaboos)+4)
	add := func(items []string) {
		for _, s := range items {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	add(a.table.GenericTaboos)
	add(a.table.TrigramTaboos[p.Trigram()])
	add(extra)
	return out
}
