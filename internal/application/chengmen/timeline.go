package chengmen

import (
	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

var phaseAdvice = map[entity.ActivationPhase]string{
	entity.PhasePeak:        "正值当运初期，催旺效果最佳，宜尽早布置",
	entity.PhaseGood:        "运势平稳，催旺仍然有效，注意定期维护",
	entity.PhaseDeclining:   "当运将尽，效果减弱，宜提前规划下一运布局",
	entity.PhaseIneffective: "该运已过，原催旺布局失效，应按当前元运重新布置",
}

// Timeline 催旺时效，只依赖元运年表
func Timeline(period entity.Period, targetYear int) (*entity.ActivationTimeline, error) {
	if !period.Valid() {
		return nil, apperrors.InvalidInput("period must be within 1-9, got %d", period)
	}
	start, ok := period.StartYearAtOrBefore(targetYear)
	if !ok {
		return nil, apperrors.OutOfRange("period %d has not started by %d", period, targetYear)
	}

	inPeriod := targetYear - start + 1
	var phase entity.ActivationPhase
	switch {
	case inPeriod <= 5:
		phase = entity.PhasePeak
	case inPeriod <= 15:
		phase = entity.PhaseGood
	case inPeriod <= entity.PeriodYears:
		phase = entity.PhaseDeclining
	default:
		phase = entity.PhaseIneffective
	}

	end := start + entity.PeriodYears - 1
	return &entity.ActivationTimeline{
		Period:         period,
		TargetYear:     targetYear,
		StartYear:      start,
		EndYear:        end,
		YearsInPeriod:  inPeriod,
		RemainingYears: max(0, end-targetYear),
		Phase:          phase,
		Advice:         phaseAdvice[phase],
	}, nil
}
