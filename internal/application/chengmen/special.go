package chengmen

import (
	"slices"

	"xuankong-api/internal/domain/entity"
)

// 三般卦分组
var triads = [3][3]entity.Star{{1, 4, 7}, {2, 5, 8}, {3, 6, 9}}

// Specials 全盘扫描三类特殊组合，每类至多一条，列出所有符合的宫位
func (a *Analyzer) Specials(plate *entity.Plate, period entity.Period) []entity.SpecialCombination {
	var sanban, heshi, qixing []entity.Palace
	ps := period.Star()
	for _, cell := range plate.Cells {
		if isTriad(cell) {
			sanban = append(sanban, cell.Palace)
		}
		if cell.MountainStar+cell.FacingStar == 10 {
			heshi = append(heshi, cell.Palace)
			if cell.MountainStar == ps || cell.FacingStar == ps {
				qixing = append(qixing, cell.Palace)
			}
		}
	}

	out := make([]entity.SpecialCombination, 0, 3)
	for _, c := range []struct {
		name    string
		palaces []entity.Palace
	}{
		{entity.CombinationSanban, sanban},
		{entity.CombinationHeshi, heshi},
		{entity.CombinationQixing, qixing},
	} {
		if len(c.palaces) == 0 {
			continue
		}
		def := a.table.Specials[c.name]
		out = append(out, entity.SpecialCombination{
			Name:          c.name,
			Label:         def.Label,
			Palaces:       c.palaces,
			Description:   def.Description,
			Effectiveness: def.Effectiveness,
		})
	}
	return out
}

// isTriad 宫内三星至少两颗同属一组
func isTriad(cell entity.PlateCell) bool {
	stars := cell.Stars()
	for _, group := range triads {
		n := 0
		for _, s := range stars {
			if s != 0 && slices.Contains(group[:], s) {
				n++
			}
		}
		if n >= 2 {
			return true
		}
	}
	return false
}
