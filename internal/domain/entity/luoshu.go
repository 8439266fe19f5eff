// Package entity 定义玄空飞星领域实体
package entity

import (
	"strings"

	apperrors "xuankong-api/pkg/errors"
)

// Palace 洛书九宫序号 (1-9)
type Palace int

const (
	PalaceKan   Palace = 1 // 坎 北
	PalaceKun   Palace = 2 // 坤 西南
	PalaceZhen  Palace = 3 // 震 东
	PalaceXun   Palace = 4 // 巽 东南
	PalaceZhong Palace = 5 // 中宫
	PalaceQian  Palace = 6 // 乾 西北
	PalaceDui   Palace = 7 // 兑 西
	PalaceGen   Palace = 8 // 艮 东北
	PalaceLi    Palace = 9 // 离 南
)

// FlightOrder 洛书飞星轨迹：中 → 乾 → 兑 → 艮 → 离 → 坎 → 坤 → 震 → 巽
var FlightOrder = [9]Palace{
	PalaceZhong, PalaceQian, PalaceDui, PalaceGen, PalaceLi,
	PalaceKan, PalaceKun, PalaceZhen, PalaceXun,
}

type palaceInfo struct {
	trigram   string
	direction Direction
	element   Element
}

var palaceTable = [10]palaceInfo{
	{},
	{"坎", DirectionNorth, ElementWater},
	{"坤", DirectionSouthwest, ElementEarth},
	{"震", DirectionEast, ElementWood},
	{"巽", DirectionSoutheast, ElementWood},
	{"中", DirectionCenter, ElementEarth},
	{"乾", DirectionNorthwest, ElementMetal},
	{"兑", DirectionWest, ElementMetal},
	{"艮", DirectionNortheast, ElementEarth},
	{"离", DirectionSouth, ElementFire},
}

// AllPalaces 返回 1-9 全部宫位
func AllPalaces() [9]Palace {
	return [9]Palace{1, 2, 3, 4, 5, 6, 7, 8, 9}
}

// ParsePalace 校验宫位序号
func ParsePalace(n int) (Palace, error) {
	p := Palace(n)
	if !p.Valid() {
		return 0, apperrors.InvalidInput("palace must be within 1-9, got %d", n)
	}
	return p, nil
}

// Valid 是否为合法宫位
func (p Palace) Valid() bool {
	return p >= 1 && p <= 9
}

// Trigram 宫位卦名
func (p Palace) Trigram() string {
	if !p.Valid() {
		return ""
	}
	return palaceTable[p].trigram
}

// Direction 宫位方位
func (p Palace) Direction() Direction {
	if !p.Valid() {
		return ""
	}
	return palaceTable[p].direction
}

// Element 宫位五行
func (p Palace) Element() Element {
	if !p.Valid() {
		return ""
	}
	return palaceTable[p].element
}

// Opposite 对宫，中宫返回自身
func (p Palace) Opposite() Palace {
	if !p.Valid() {
		return 0
	}
	return 10 - p
}

// Mountains 宫位所辖三山，中宫为空
func (p Palace) Mountains() []Mountain {
	var out []Mountain
	for m := Mountain(0); m < MountainCount; m++ {
		if m.Palace() == p {
			out = append(out, m)
		}
	}
	return out
}

func (p Palace) String() string {
	return p.Trigram()
}

// Direction 八方位 + 中宫
type Direction string

const (
	DirectionNorth     Direction = "north"
	DirectionNortheast Direction = "northeast"
	DirectionEast      Direction = "east"
	DirectionSoutheast Direction = "southeast"
	DirectionSouth     Direction = "south"
	DirectionSouthwest Direction = "southwest"
	DirectionWest      Direction = "west"
	DirectionNorthwest Direction = "northwest"
	DirectionCenter    Direction = "center"
)

var directionAliases = map[string]Direction{
	"n": DirectionNorth, "北": DirectionNorth, "坎": DirectionNorth,
	"ne": DirectionNortheast, "东北": DirectionNortheast, "艮": DirectionNortheast,
	"e": DirectionEast, "东": DirectionEast, "震": DirectionEast,
	"se": DirectionSoutheast, "东南": DirectionSoutheast, "巽": DirectionSoutheast,
	"s": DirectionSouth, "南": DirectionSouth, "离": DirectionSouth,
	"sw": DirectionSouthwest, "西南": DirectionSouthwest, "坤": DirectionSouthwest,
	"w": DirectionWest, "西": DirectionWest, "兑": DirectionWest,
	"nw": DirectionNorthwest, "西北": DirectionNorthwest, "乾": DirectionNorthwest,
	"c": DirectionCenter, "中": DirectionCenter, "中宫": DirectionCenter,
}

var directionLabels = map[Direction]string{
	DirectionNorth: "北", DirectionNortheast: "东北", DirectionEast: "东", DirectionSoutheast: "东南",
	DirectionSouth: "南", DirectionSouthwest: "西南", DirectionWest: "西", DirectionNorthwest: "西北",
	DirectionCenter: "中宫",
}

// ParseDirection 解析方位，支持英文、缩写、中文和卦名
func ParseDirection(s string) (Direction, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	if d := Direction(key); d.Palace().Valid() {
		return d, true
	}
	d, ok := directionAliases[key]
	return d, ok
}

// Palace 方位所在宫位
func (d Direction) Palace() Palace {
	for p := Palace(1); p <= 9; p++ {
		if palaceTable[p].direction == d {
			return p
		}
	}
	return 0
}

// Label 方位中文名
func (d Direction) Label() string {
	return directionLabels[d]
}

// Element 五行
type Element string

const (
	ElementWater Element = "水"
	ElementWood  Element = "木"
	ElementFire  Element = "火"
	ElementEarth Element = "土"
	ElementMetal Element = "金"
)
