package entity

import (
	"slices"

	apperrors "xuankong-api/pkg/errors"
)

// PlatePattern 盘面格局标记
type PlatePattern string

const (
	PatternProsperousBoth  PlatePattern = "旺山旺向"
	PatternReversed        PlatePattern = "上山下水"
	PatternDoubleAtFacing  PlatePattern = "双星到向"
	PatternDoubleAtSitting PlatePattern = "双星到山"
	PatternFuyin           PlatePattern = "伏吟"
	PatternGreatVoid       PlatePattern = "大空亡"
	PatternMinorVoid       PlatePattern = "小空亡"
)

// Location 地理位置
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlateCell 单宫飞星
type PlateCell struct {
	Palace        Palace    `json:"palace"`
	Trigram       string    `json:"trigram"`
	Direction     Direction `json:"direction"`
	PeriodStar    Star      `json:"periodStar"`
	MountainStar  Star      `json:"mountainStar"`
	FacingStar    Star      `json:"facingStar"`
	MountainState StarState `json:"mountainState"`
	FacingState   StarState `json:"facingState"`
}

// Stars 返回 [运星, 山星, 向星]
func (c PlateCell) Stars() [3]Star {
	return [3]Star{c.PeriodStar, c.MountainStar, c.FacingStar}
}

// Plate 玄空飞星盘
type Plate struct {
	Period          Period         `json:"period"`
	BuildYear       int            `json:"buildYear"`
	FacingAngle     float64        `json:"facing"`
	SittingAngle    float64        `json:"sitting"`
	FacingMountain  Mountain       `json:"facingMountain"`
	SittingMountain Mountain       `json:"sittingMountain"`
	FacingPalace    Palace         `json:"facingPalace"`
	SittingPalace   Palace         `json:"sittingPalace"`
	Cells           [9]PlateCell   `json:"palaces"`
	Patterns        []PlatePattern `json:"specialPatterns"`
	Location        *Location      `json:"location,omitempty"`
}

// Cell 返回指定宫位
func (p *Plate) Cell(palace Palace) PlateCell {
	if !palace.Valid() {
		return PlateCell{}
	}
	return p.Cells[palace-1]
}

// HasPattern 是否含有某格局
func (p *Plate) HasPattern(pattern PlatePattern) bool {
	return slices.Contains(p.Patterns, pattern)
}

// Clone 深拷贝
func (p *Plate) Clone() *Plate {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Patterns = slices.Clone(p.Patterns)
	if p.Location != nil {
		loc := *p.Location
		cp.Location = &loc
	}
	return &cp
}

// Validate 校验盘面完整：九宫齐全，三组星各为 1-9 的排列
func (p *Plate) Validate() error {
	if p == nil {
		return apperrors.InvalidInput("plate is required")
	}
	if !p.Period.Valid() {
		return apperrors.InvalidInput("plate period %d is invalid", p.Period)
	}
	var seenPeriod, seenMountain, seenFacing [10]bool
	for i, c := range p.Cells {
		if c.Palace != Palace(i+1) {
			return apperrors.InvalidInput("plate cell %d carries palace %d", i+1, c.Palace)
		}
		for _, s := range c.Stars() {
			if !s.Valid() {
				return apperrors.InvalidInput("palace %d has an unset star", c.Palace)
			}
		}
		if seenPeriod[c.PeriodStar] || seenMountain[c.MountainStar] || seenFacing[c.FacingStar] {
			return apperrors.InvalidInput("palace %d repeats a star", c.Palace)
		}
		seenPeriod[c.PeriodStar] = true
		seenMountain[c.MountainStar] = true
		seenFacing[c.FacingStar] = true
	}
	return nil
}
