package entity

import (
	apperrors "xuankong-api/pkg/errors"
)

// 三元九运年表常量
const (
	// EpochYear 上元一运起始年
	EpochYear = 1864
	// PeriodYears 每运年数
	PeriodYears = 20
	// CycleYears 三元一周
	CycleYears = PeriodYears * 9
)

// Period 元运 (1-9)
type Period int

// ParsePeriod 校验元运
func ParsePeriod(n int) (Period, error) {
	p := Period(n)
	if !p.Valid() {
		return 0, apperrors.InvalidInput("period must be within 1-9, got %d", n)
	}
	return p, nil
}

// PeriodForYear 年份所在元运，year 须不早于 EpochYear
func PeriodForYear(year int) (Period, error) {
	if year < EpochYear {
		return 0, apperrors.OutOfRange("year %d is before the %d epoch", year, EpochYear)
	}
	return Period((year-EpochYear)/PeriodYears%9 + 1), nil
}

// Valid 是否为合法元运
func (p Period) Valid() bool {
	return p >= 1 && p <= 9
}

// Star 当运星
func (p Period) Star() Star {
	return Star(p)
}

// Palace 当运星在洛书中的本宫
func (p Period) Palace() Palace {
	return Palace(p)
}

// FirstStartYear 该运在年表中首次开始的年份
func (p Period) FirstStartYear() int {
	return EpochYear + (int(p)-1)*PeriodYears
}

// StartYearAtOrBefore 不晚于 year 的最近一次该运起始年
func (p Period) StartYearAtOrBefore(year int) (int, bool) {
	first := p.FirstStartYear()
	if year < first {
		return 0, false
	}
	return first + (year-first)/CycleYears*CycleYears, true
}
