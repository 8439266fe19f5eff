package diagnosis

import (
	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

const (
	SourceAnnual  = "annual"
	SourceMonthly = "monthly"
)

// 2018 年年星为九紫
const annualAnchorYear = 2018

// AnnualStar 流年入中星
func AnnualStar(year int) entity.Star {
	return entity.Star(9 - ((year-annualAnchorYear)%9+9)%9)
}

// YearBranch 年支序号，子为 0
func YearBranch(year int) int {
	return ((year-4)%12 + 12) % 12
}

// MonthlyStar 流月入中星，month 以寅月为 1
func MonthlyStar(year, month int) entity.Star {
	var start int
	switch YearBranch(year) % 3 {
	case 0: // 子午卯酉
		start = 8
	case 1: // 丑辰未戌
		start = 5
	default: // 寅巳申亥
		start = 2
	}
	return entity.Star(((start-(month-1)-1)%9+9)%9 + 1)
}

// VisitingStars 各宫飞临的流年、流月星，按宫位索引
func VisitingStars(tf *entity.TimeFactors) ([9][]entity.VisitingStar, error) {
	var out [9][]entity.VisitingStar
	if tf == nil || (tf.Year == 0 && tf.Month == 0) {
		return out, nil
	}
	if tf.Year <= 0 {
		return out, apperrors.InvalidInput("time factors need a year when month is given")
	}
	if tf.Month < 0 || tf.Month > 12 {
		return out, apperrors.InvalidInput("month must be within 1-12, got %d", tf.Month)
	}

	annual := entity.Fly(AnnualStar(tf.Year), true)
	for i := range out {
		out[i] = append(out[i], entity.VisitingStar{Source: SourceAnnual, Star: annual[i]})
	}
	if tf.Month > 0 {
		monthly := entity.Fly(MonthlyStar(tf.Year, tf.Month), true)
		for i := range out {
			out[i] = append(out[i], entity.VisitingStar{Source: SourceMonthly, Star: monthly[i]})
		}
	}
	return out, nil
}
