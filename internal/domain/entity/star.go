package entity

import (
	apperrors "xuankong-api/pkg/errors"
)

// Star 九星 (1-9)
type Star int

// StarNature 星性
type StarNature string

const (
	NatureAuspicious   StarNature = "auspicious"
	NatureInauspicious StarNature = "inauspicious"
	NatureNeutral      StarNature = "neutral"
)

type starInfo struct {
	name    string
	element Element
	nature  StarNature
	meaning string
}

var starTable = [10]starInfo{
	{},
	{"一白贪狼", ElementWater, NatureAuspicious, "桃花、文昌、人缘"},
	{"二黑巨门", ElementEarth, NatureInauspicious, "病符、疾病"},
	{"三碧禄存", ElementWood, NatureInauspicious, "是非、口舌"},
	{"四绿文曲", ElementWood, NatureAuspicious, "文昌、学业"},
	{"五黄廉贞", ElementEarth, NatureInauspicious, "灾病、意外"},
	{"六白武曲", ElementMetal, NatureAuspicious, "权力、贵人"},
	{"七赤破军", ElementMetal, NatureNeutral, "破财、盗贼"},
	{"八白左辅", ElementEarth, NatureAuspicious, "财星、置业"},
	{"九紫右弼", ElementFire, NatureAuspicious, "喜庆、姻缘"},
}

// ParseStar 校验星数
func ParseStar(n int) (Star, error) {
	s := Star(n)
	if !s.Valid() {
		return 0, apperrors.InvalidInput("star must be within 1-9, got %d", n)
	}
	return s, nil
}

// Valid 是否为合法星数
func (s Star) Valid() bool {
	return s >= 1 && s <= 9
}

// Name 星名
func (s Star) Name() string {
	if !s.Valid() {
		return ""
	}
	return starTable[s].name
}

// Element 星的五行
func (s Star) Element() Element {
	if !s.Valid() {
		return ""
	}
	return starTable[s].element
}

// Nature 星的吉凶属性
func (s Star) Nature() StarNature {
	if !s.Valid() {
		return ""
	}
	return starTable[s].nature
}

// Meaning 星的象意
func (s Star) Meaning() string {
	if !s.Valid() {
		return ""
	}
	return starTable[s].meaning
}

// Next 下一颗星，九之后为一
func (s Star) Next() Star {
	return s%9 + 1
}

// Prev 上一颗星，一之前为九
func (s Star) Prev() Star {
	return (s+7)%9 + 1
}

// Fly 以 center 入中，沿洛书轨迹顺飞或逆飞，结果按宫位序号 (1-9) 索引为 [palace-1]
func Fly(center Star, forward bool) [9]Star {
	var out [9]Star
	s := center
	for _, p := range FlightOrder {
		out[p-1] = s
		if forward {
			s = s.Next()
		} else {
			s = s.Prev()
		}
	}
	return out
}

// StarState 星与元运的旺衰关系
type StarState string

const (
	StarCurrent    StarState = "current"
	StarProsperous StarState = "prosperous"
	StarDeclining  StarState = "declining"
	StarDead       StarState = "dead"
)

// StateOf 计算星在元运中的旺衰
func StateOf(s Star, p Period) StarState {
	ps := p.Star()
	switch s {
	case ps:
		return StarCurrent
	case ps.Next(), ps.Next().Next():
		return StarProsperous
	case ps.Prev():
		return StarDeclining
	default:
		return StarDead
	}
}
