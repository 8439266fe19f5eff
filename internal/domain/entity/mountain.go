package entity

import (
	"math"

	apperrors "xuankong-api/pkg/errors"
)

// Mountain 二十四山序号，子山为 0，顺时针每 15° 一山
type Mountain int

// MountainCount 二十四山
const MountainCount Mountain = 24

// MountainSpan 每山跨度（度）
const MountainSpan = 15.0

const (
	MountainZi Mountain = iota
	MountainGui
	MountainChou
	MountainGen
	MountainYin
	MountainJia
	MountainMao
	MountainYi
	MountainChen
	MountainXun
	MountainSi
	MountainBing
	MountainWu
	MountainDing
	MountainWei
	MountainKun
	MountainShen
	MountainGeng
	MountainYou
	MountainXin
	MountainXu
	MountainQian
	MountainHai
	MountainRen
)

type mountainInfo struct {
	name    string
	element Element
	palace  Palace
}

var mountainTable = [MountainCount]mountainInfo{
	{"子", ElementWater, PalaceKan},
	{"癸", ElementWater, PalaceKan},
	{"丑", ElementEarth, PalaceGen},
	{"艮", ElementEarth, PalaceGen},
	{"寅", ElementWood, PalaceGen},
	{"甲", ElementWood, PalaceZhen},
	{"卯", ElementWood, PalaceZhen},
	{"乙", ElementWood, PalaceZhen},
	{"辰", ElementEarth, PalaceXun},
	{"巽", ElementWood, PalaceXun},
	{"巳", ElementFire, PalaceXun},
	{"丙", ElementFire, PalaceLi},
	{"午", ElementFire, PalaceLi},
	{"丁", ElementFire, PalaceLi},
	{"未", ElementEarth, PalaceKun},
	{"坤", ElementEarth, PalaceKun},
	{"申", ElementMetal, PalaceKun},
	{"庚", ElementMetal, PalaceDui},
	{"酉", ElementMetal, PalaceDui},
	{"辛", ElementMetal, PalaceDui},
	{"戌", ElementEarth, PalaceQian},
	{"乾", ElementMetal, PalaceQian},
	{"亥", ElementWater, PalaceQian},
	{"壬", ElementWater, PalaceKan},
}

// ValidateAngle 朝向角度必须在 [0,360)
func ValidateAngle(angle float64) error {
	if math.IsNaN(angle) || math.IsInf(angle, 0) || angle < 0 || angle >= 360 {
		return apperrors.InvalidInput("facing angle must be within [0,360), got %v", angle)
	}
	return nil
}

// MountainAt 角度所在的山
func MountainAt(angle float64) (Mountain, error) {
	if err := ValidateAngle(angle); err != nil {
		return 0, err
	}
	shifted := math.Mod(angle+MountainSpan/2, 360)
	return Mountain(int(shifted/MountainSpan) % int(MountainCount)), nil
}

// ParseMountain 按山名解析
func ParseMountain(name string) (Mountain, error) {
	for i, info := range mountainTable {
		if info.name == name {
			return Mountain(i), nil
		}
	}
	return 0, apperrors.InvalidInput("unknown mountain %q", name)
}

// Valid 是否为合法山序号
func (m Mountain) Valid() bool {
	return m >= 0 && m < MountainCount
}

// Name 山名
func (m Mountain) Name() string {
	if !m.Valid() {
		return ""
	}
	return mountainTable[m].name
}

// Element 山的五行
func (m Mountain) Element() Element {
	if !m.Valid() {
		return ""
	}
	return mountainTable[m].element
}

// Palace 山所属宫位
func (m Mountain) Palace() Palace {
	if !m.Valid() {
		return 0
	}
	return mountainTable[m].palace
}

// CenterAngle 山的中线角度
func (m Mountain) CenterAngle() float64 {
	return float64(m) * MountainSpan
}

// Opposite 对山（旋转 180°）
func (m Mountain) Opposite() Mountain {
	return (m + MountainCount/2) % MountainCount
}

func (m Mountain) String() string {
	return m.Name()
}

// MarshalText 以山名序列化
func (m Mountain) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, apperrors.InvalidInput("invalid mountain index %d", int(m))
	}
	return []byte(m.Name()), nil
}

// UnmarshalText 从山名解析
func (m *Mountain) UnmarshalText(b []byte) error {
	parsed, err := ParseMountain(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
