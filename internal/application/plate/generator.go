// Package plate 生成玄空飞星盘
package plate

import (
	"math"

	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

// 空亡判定阈值（度）
const voidTolerance = 1.5

// Generator 飞星盘生成器，纯函数，无共享状态
type Generator struct {
	minYear int
	maxYear int
}

// NewGenerator 创建生成器，[minYear, maxYear] 为支持的建造年份
func NewGenerator(minYear, maxYear int) *Generator {
	if minYear < entity.EpochYear {
		minYear = entity.EpochYear
	}
	if maxYear < minYear {
		maxYear = minYear
	}
	return &Generator{minYear: minYear, maxYear: maxYear}
}

// YearRange 支持的年份范围
func (g *Generator) YearRange() (int, int) {
	return g.minYear, g.maxYear
}

// Validate 校验输入，不生成盘面
func (g *Generator) Validate(facing float64, buildYear int) error {
	if err := entity.ValidateAngle(facing); err != nil {
		return err
	}
	if buildYear < g.minYear || buildYear > g.maxYear {
		return apperrors.OutOfRange("build year %d is outside the supported range %d-%d", buildYear, g.minYear, g.maxYear)
	}
	return nil
}

// Generate 按朝向与建造年份起盘
func (g *Generator) Generate(facing float64, buildYear int, loc *entity.Location) (*entity.Plate, error) {
	if err := g.Validate(facing, buildYear); err != nil {
		return nil, err
	}
	period, err := entity.PeriodForYear(buildYear)
	if err != nil {
		return nil, err
	}
	facingMountain, err := entity.MountainAt(facing)
	if err != nil {
		return nil, err
	}
	sittingMountain := facingMountain.Opposite()
	facingPalace := facingMountain.Palace()
	sittingPalace := sittingMountain.Palace()

	// 运盘顺飞，山盘取坐宫运星入中，向盘取向宫运星入中，奇顺偶逆
	periodStars := entity.Fly(period.Star(), true)
	mountainStart := periodStars[sittingPalace-1]
	facingStart := periodStars[facingPalace-1]
	mountainStars := entity.Fly(mountainStart, mountainStart%2 == 1)
	facingStars := entity.Fly(facingStart, facingStart%2 == 1)

	p := &entity.Plate{
		Period:          period,
		BuildYear:       buildYear,
		FacingAngle:     facing,
		SittingAngle:    math.Mod(facing+180, 360),
		FacingMountain:  facingMountain,
		SittingMountain: sittingMountain,
		FacingPalace:    facingPalace,
		SittingPalace:   sittingPalace,
	}
	for i, palace := range entity.AllPalaces() {
		p.Cells[i] = entity.PlateCell{
			Palace:        palace,
			Trigram:       palace.Trigram(),
			Direction:     palace.Direction(),
			PeriodStar:    periodStars[i],
			MountainStar:  mountainStars[i],
			FacingStar:    facingStars[i],
			MountainState: entity.StateOf(mountainStars[i], period),
			FacingState:   entity.StateOf(facingStars[i], period),
		}
	}
	if loc != nil {
		l := *loc
		p.Location = &l
	}
	p.Patterns = detectPatterns(p)

	if err := p.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePlateGenerationFailed, "generated plate is inconsistent")
	}
	return p, nil
}

func detectPatterns(p *entity.Plate) []entity.PlatePattern {
	ps := p.Period.Star()
	sit := p.Cell(p.SittingPalace)
	face := p.Cell(p.FacingPalace)
	center := p.Cell(entity.PalaceZhong)

	patterns := make([]entity.PlatePattern, 0, 2)
	switch {
	case sit.MountainStar == ps && face.FacingStar == ps:
		patterns = append(patterns, entity.PatternProsperousBoth)
	case face.MountainStar == ps && sit.FacingStar == ps:
		patterns = append(patterns, entity.PatternReversed)
	case face.MountainStar == ps && face.FacingStar == ps:
		patterns = append(patterns, entity.PatternDoubleAtFacing)
	case sit.MountainStar == ps && sit.FacingStar == ps:
		patterns = append(patterns, entity.PatternDoubleAtSitting)
	}
	if center.MountainStar == 5 || center.FacingStar == 5 {
		patterns = append(patterns, entity.PatternFuyin)
	}
	if v, ok := voidPattern(p.FacingAngle); ok {
		patterns = append(patterns, v)
	}
	return patterns
}

// voidPattern 朝向临近宫界为大空亡，临近山界为小空亡
func voidPattern(angle float64) (entity.PlatePattern, bool) {
	if boundaryDistance(angle, 22.5, 45) <= voidTolerance {
		return entity.PatternGreatVoid, true
	}
	if boundaryDistance(angle, entity.MountainSpan/2, entity.MountainSpan) <= voidTolerance {
		return entity.PatternMinorVoid, true
	}
	return "", false
}

func boundaryDistance(angle, offset, span float64) float64 {
	d := math.Mod(angle-offset, span)
	if d < 0 {
		d += span
	}
	return math.Min(d, span-d)
}
