// Package diagnosis 按规则表逐宫诊断飞星盘
package diagnosis

import (
	"math"
	"slices"
	"strings"

	"xuankong-api/internal/application/rulebook"
	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

// Engine 诊断引擎，只读规则表，可并发使用
type Engine struct {
	table *rulebook.DiagnosticTable
}

// NewEngine 创建诊断引擎
func NewEngine(book *rulebook.Rulebook) *Engine {
	return &Engine{table: &book.Diagnostic}
}

type palaceMatch struct {
	inauspicious []*rulebook.DiagnosticRule
	auspicious   []*rulebook.DiagnosticRule
	types        []string
}

// Diagnose 九宫全部评估，rooms 与 tf 可为空
func (e *Engine) Diagnose(plate *entity.Plate, rooms entity.RoomLayout, tf *entity.TimeFactors) (*entity.DiagnosisResult, error) {
	if err := plate.Validate(); err != nil {
		return nil, err
	}
	for p := range rooms {
		if !p.Valid() {
			return nil, apperrors.InvalidInput("room layout palace %d is invalid", p)
		}
	}
	visiting, err := VisitingStars(tf)
	if err != nil {
		return nil, err
	}

	result := &entity.DiagnosisResult{Issues: make([]entity.DiagnosticIssue, 0, 9)}
	total := 0
	for i, palace := range entity.AllPalaces() {
		cell := plate.Cells[i]
		m := e.match(plate, cell)
		score := 100 - e.harm(m)
		severity := entity.SeverityForScore(score)

		var hits []entity.VisitingStar
		if len(m.inauspicious) > 0 {
			for _, v := range visiting[i] {
				if slices.Contains(e.table.HarmfulVisitors, v.Star) {
					severity = severity.Worse()
					score = min(score, severity.ScoreCeiling())
				}
			}
			hits = visiting[i]
		}

		result.Palaces[i] = entity.PalaceAssessment{
			Palace:       palace,
			Score:        score,
			Severity:     severity,
			MatchedRules: m.types,
		}
		total += score

		if severity == entity.SeveritySafe {
			continue
		}
		result.Issues = append(result.Issues, e.issue(cell, m, score, severity, hits, rooms[palace]))
	}
	result.Score = int(math.Round(float64(total) / 9))
	return result, nil
}

func (e *Engine) match(plate *entity.Plate, cell entity.PlateCell) palaceMatch {
	var m palaceMatch
	for i := range e.table.Rules {
		r := &e.table.Rules[i]
		if !matches(r.Match, plate, cell) {
			continue
		}
		m.types = append(m.types, r.Type)
		if r.Kind == rulebook.KindInauspicious {
			m.inauspicious = append(m.inauspicious, r)
		} else {
			m.auspicious = append(m.auspicious, r)
		}
	}
	if m.types == nil {
		m.types = []string{}
	}
	return m
}

func matches(rm rulebook.RuleMatch, plate *entity.Plate, cell entity.PlateCell) bool {
	ps := plate.Period.Star()
	switch {
	case len(rm.Stars) > 0:
		return starMatches(rm, cell.MountainStar, cell.MountainState) ||
			starMatches(rm, cell.FacingStar, cell.FacingState)
	case rm.Sum > 0:
		return int(cell.MountainStar+cell.FacingStar) == rm.Sum
	case rm.PeriodPair:
		return cell.MountainStar == ps && cell.FacingStar == ps
	case rm.Pattern != "":
		at := plate.FacingPalace
		if rm.At == "sitting" {
			at = plate.SittingPalace
		}
		return cell.Palace == at && plate.HasPattern(rm.Pattern)
	}
	return false
}

func starMatches(rm rulebook.RuleMatch, s entity.Star, state entity.StarState) bool {
	if !slices.Contains(rm.Stars, s) {
		return false
	}
	return len(rm.States) == 0 || slices.Contains(rm.States, state)
}

// harm 以最凶规则为基，每多一条凶规则加害，吉规则减害
func (e *Engine) harm(m palaceMatch) int {
	h := e.table.BaselineHarm
	if len(m.inauspicious) > 0 {
		worst := 0
		for _, r := range m.inauspicious {
			worst = max(worst, r.Weight)
		}
		h = min(100, worst+e.table.ExtraMatchHarm*(len(m.inauspicious)-1))
	}
	for _, r := range m.auspicious {
		h -= r.Weight
	}
	return max(0, h)
}

func (e *Engine) issue(cell entity.PlateCell, m palaceMatch, score int, severity entity.Severity, visiting []entity.VisitingStar, room entity.RoomType) entity.DiagnosticIssue {
	primary := primaryRule(m)
	impact := entity.LowImpact()
	var recs []string
	for _, r := range m.inauspicious {
		for _, d := range r.Impact {
			impact.Raise(d)
		}
		for _, rec := range r.Recommendations {
			if !slices.Contains(recs, rec) {
				recs = append(recs, rec)
			}
		}
	}
	if room != "" {
		for _, d := range e.table.RoomImpacts[room] {
			impact.Raise(d)
		}
	}
	if recs == nil {
		recs = []string{}
	}

	issue := entity.DiagnosticIssue{
		Palace:          cell.Palace,
		Direction:       cell.Direction,
		Severity:        severity,
		Score:           score,
		Impact:          impact,
		Recommendations: recs,
		MatchedRules:    m.types,
		VisitingStars:   visiting,
		Room:            room,
	}
	if primary != nil {
		issue.Type = primary.Type
		issue.Title = fillPalace(primary.Title, cell)
		issue.Description = fillPalace(primary.Description, cell)
	}
	return issue
}

// primaryRule 权重最高的凶规则，同权取表中靠前者
func primaryRule(m palaceMatch) *rulebook.DiagnosticRule {
	var best *rulebook.DiagnosticRule
	for _, r := range m.inauspicious {
		if best == nil || r.Weight > best.Weight {
			best = r
		}
	}
	return best
}

func fillPalace(s string, cell entity.PlateCell) string {
	return strings.ReplaceAll(s, "{palace}", cell.Trigram)
}
