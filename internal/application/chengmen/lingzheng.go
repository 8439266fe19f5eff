package chengmen

import (
	"fmt"

	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

// LingZheng 零正神：正神为当运本宫，零神为其对宫；五运寄坤艮
func LingZheng(period entity.Period, env *entity.Environment) (*entity.LingZheng, error) {
	if !period.Valid() {
		return nil, apperrors.InvalidInput("period must be within 1-9, got %d", period)
	}
	positive := period.Palace()
	if positive == entity.PalaceZhong {
		positive = entity.PalaceKun
	}
	lz := &entity.LingZheng{
		PositivePalace: positive,
		ZeroPalace:     positive.Opposite(),
		Notes:          []string{},
	}
	if env == nil {
		return lz, nil
	}

	for _, d := range env.WaterPositions {
		p := d.Palace()
		if p == 0 {
			return nil, apperrors.InvalidInput("water position %q is not a direction", d)
		}
		if p == lz.PositivePalace {
			lz.IsReversed = true
			lz.Notes = append(lz.Notes, fmt.Sprintf("正神位%s见水，零正颠倒，主损丁破财", d.Label()))
		}
	}
	for _, d := range env.MountainPositions {
		p := d.Palace()
		if p == 0 {
			return nil, apperrors.InvalidInput("mountain position %q is not a direction", d)
		}
		if p == lz.ZeroPalace {
			lz.IsReversed = true
			lz.Notes = append(lz.Notes, fmt.Sprintf("零神位%s见山，零正颠倒，财源受阻", d.Label()))
		}
	}
	if !lz.IsReversed {
		lz.Notes = append(lz.Notes, "零正神位配置得当")
	}
	return lz, nil
}
