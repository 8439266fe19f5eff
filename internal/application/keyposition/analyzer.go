// Package keyposition 按主方位与用户信息推算财位、文昌位、桃花位与贵人位
package keyposition

import (
	"fmt"
	"slices"

	"xuankong-api/internal/application/rulebook"
	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

// Analyzer 关键方位分析器
type Analyzer struct {
	table *rulebook.KeyPositionTable
}

// NewAnalyzer 创建分析器
func NewAnalyzer(book *rulebook.Rulebook) *Analyzer {
	return &Analyzer{table: &book.KeyPositions}
}

// Analyze 主方位无法解析时返回 (nil, nil)，用户信息格式错误时返回错误
func (a *Analyzer) Analyze(mainDirection entity.Direction, profile *entity.UserProfile) (*entity.KeyPositions, error) {
	spots, ok := a.table.Directions[mainDirection]
	if !ok {
		return nil, nil
	}
	if profile == nil {
		profile = &entity.UserProfile{}
	}
	branch, err := zodiacBranch(profile)
	if err != nil {
		return nil, err
	}

	romance := spots.Romance
	if branch != "" {
		romance = a.table.RomanceByBranch[branch]
	}
	found := []entity.KeySpot{
		a.spot(entity.SpotWealth, spots.Wealth),
		a.spot(entity.SpotStudy, spots.Study),
		a.spot(entity.SpotRomance, romance),
	}
	if branch != "" {
		found = append(found, a.spot(entity.SpotBenefactor, a.table.BenefactorByBranch[branch]))
	}

	order := a.ranking(profile)
	for i := range found {
		found[i].Rank = rankOf(order, found[i].Type)
	}
	slices.SortStableFunc(found, func(x, y entity.KeySpot) int {
		return x.Rank - y.Rank
	})
	for i := range found {
		found[i].Rank = i + 1
	}

	if err := a.warn(found, profile.Objects); err != nil {
		return nil, err
	}
	return &entity.KeyPositions{
		MainDirection: mainDirection,
		Usage:         profile.Usage,
		Zodiac:        branch,
		Spots:         found,
	}, nil
}

func (a *Analyzer) spot(t entity.SpotType, d entity.Direction) entity.KeySpot {
	return entity.KeySpot{
		Type:        t,
		Label:       a.table.Labels[t],
		Palace:      d.Palace(),
		Direction:   d,
		Description: a.table.Descriptions[t],
	}
}

// ranking 用户优先项在前，其余按用途排序
func (a *Analyzer) ranking(profile *entity.UserProfile) []entity.SpotType {
	base, ok := a.table.UsageRanking[profile.Usage]
	if !ok {
		base = a.table.DefaultRanking
	}
	out := make([]entity.SpotType, 0, len(base)+len(profile.Priorities))
	for _, p := range profile.Priorities {
		t := entity.SpotType(p)
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	for _, t := range base {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func rankOf(order []entity.SpotType, t entity.SpotType) int {
	if i := slices.Index(order, t); i >= 0 {
		return i
	}
	return len(order)
}

func (a *Analyzer) warn(spots []entity.KeySpot, objects []entity.PlacedObject) error {
	for _, obj := range objects {
		p := obj.Direction.Palace()
		if p == 0 {
			return apperrors.InvalidInput("object %s has invalid direction %q", obj.Type, obj.Direction)
		}
		for i := range spots {
			s := &spots[i]
			if s.Palace != p || !slices.Contains(a.table.UnfavorableObjects[s.Type], obj.Type) {
				continue
			}
			s.Warnings = append(s.Warnings, fmt.Sprintf("%s不宜摆放%s", s.Label, obj.Type))
		}
	}
	return nil
}

// zodiacBranch 优先取八字年支，其次按出生年推算
func zodiacBranch(profile *entity.UserProfile) (string, error) {
	if profile.Bazi != nil && profile.Bazi.Year.Branch != "" {
		br := profile.Bazi.Year.Branch
		if !slices.Contains(rulebook.Branches[:], br) {
			return "", apperrors.InvalidInput("unknown year branch %q", br)
		}
		return br, nil
	}
	if profile.BirthYear > 0 {
		return rulebook.Branches[((profile.BirthYear-4)%12+12)%12], nil
	}
	return "", nil
}
