package entity

// GateType 城门类型
type GateType string

const (
	GateWealth     GateType = "cai_men"
	GateHeir       GateType = "ding_men"
	GateBenefactor GateType = "gui_men"
	GateOffice     GateType = "lu_men"
)

// ActivationMethod 催旺方式
type ActivationMethod string

const (
	MethodDoor     ActivationMethod = "kai_men"
	MethodWater    ActivationMethod = "fang_shui"
	MethodActivity ActivationMethod = "dong_zuo"
	MethodObject   ActivationMethod = "she_zhi"
)

// Effectiveness 效力等级
type Effectiveness string

const (
	EffectivenessHigh   Effectiveness = "high"
	EffectivenessMedium Effectiveness = "medium"
	EffectivenessLow    Effectiveness = "low"
)

// Bonus 效力加分：high 3 / medium 2 / low 1
func (e Effectiveness) Bonus() int {
	switch e {
	case EffectivenessHigh:
		return 3
	case EffectivenessMedium:
		return 2
	case EffectivenessLow:
		return 1
	default:
		return 0
	}
}

// ChengmenTrigger 触发条件，星条件针对目标宫
type ChengmenTrigger struct {
	MountainStar     Star       `json:"mountainStar,omitempty" yaml:"mountain_star"`
	FacingStar       Star       `json:"facingStar,omitempty" yaml:"facing_star"`
	PeriodStar       Star       `json:"periodStar,omitempty" yaml:"period_star"`
	SittingMountains []Mountain `json:"sittingMountains,omitempty" yaml:"sitting_mountains"`
	FacingMountains  []Mountain `json:"facingMountains,omitempty" yaml:"facing_mountains"`
}

// StarConditions 已声明的星条件数
func (t ChengmenTrigger) StarConditions() int {
	n := 0
	for _, s := range []Star{t.MountainStar, t.FacingStar, t.PeriodStar} {
		if s != 0 {
			n++
		}
	}
	return n
}

// ChengmenRule 城门诀规则
type ChengmenRule struct {
	ID            string           `json:"id" yaml:"id"`
	Period        Period           `json:"period" yaml:"period"`
	Trigger       ChengmenTrigger  `json:"trigger" yaml:"trigger"`
	TargetPalace  Palace           `json:"targetPalace" yaml:"target_palace"`
	GateType      GateType         `json:"gateType" yaml:"gate_type"`
	Method        ActivationMethod `json:"method" yaml:"method"`
	Effectiveness Effectiveness    `json:"effectiveness" yaml:"effectiveness"`
	Description   string           `json:"description" yaml:"description"`
	Activation    []string         `json:"activation" yaml:"activation"`
	Taboos        []string         `json:"taboos" yaml:"taboos"`
}

// ChengmenMatch 规则命中
type ChengmenMatch struct {
	Palace            Palace           `json:"palace"`
	Direction         Direction        `json:"direction"`
	RuleID            string           `json:"ruleId"`
	GateType          GateType         `json:"gateType"`
	Method            ActivationMethod `json:"method"`
	Effectiveness     Effectiveness    `json:"effectiveness"`
	Strength          int              `json:"strength"`
	// FullMatch 规则带星组合条件且全部命中，仅靠方位过滤命中时为 false
	FullMatch         bool             `json:"fullMatch"`
	MatchedConditions []string         `json:"matchedConditions"`
	Description       string           `json:"description"`
}

// 特殊组合名称
const (
	CombinationSanban = "sanban_gua"
	CombinationHeshi  = "heshi"
	CombinationQixing = "qixing_dajie"
)

// SpecialCombination 跨宫特殊组合
type SpecialCombination struct {
	Name          string        `json:"name"`
	Label         string        `json:"label"`
	Palaces       []Palace      `json:"palaces"`
	Description   string        `json:"description"`
	Effectiveness Effectiveness `json:"effectiveness"`
}

// ActionablePosition 可操作的催旺位
type ActionablePosition struct {
	Palace           Palace    `json:"palace"`
	Direction        Direction `json:"direction"`
	Source           string    `json:"source"`
	Name             string    `json:"name"`
	Strength         int       `json:"strength"`
	ActivationMethod string    `json:"activationMethod"`
	Activation       []string  `json:"activation"`
	Taboos           []string  `json:"taboos"`
}

// LingZheng 零正神
type LingZheng struct {
	PositivePalace Palace   `json:"positivePalace"`
	ZeroPalace     Palace   `json:"zeroPalace"`
	IsReversed     bool     `json:"isReversed"`
	Notes          []string `json:"notes"`
}

// Environment 外部山水
type Environment struct {
	WaterPositions    []Direction `json:"waterPositions,omitempty"`
	MountainPositions []Direction `json:"mountainPositions,omitempty"`
}

// ChengmenjueAnalysis 城门诀综合分析
type ChengmenjueAnalysis struct {
	Period              Period               `json:"period"`
	SittingMountain     Mountain             `json:"sittingMountain"`
	FacingMountain      Mountain             `json:"facingMountain"`
	Matches             []ChengmenMatch      `json:"matches"`
	BestGate            *ChengmenMatch       `json:"bestGate"`
	SpecialCombinations []SpecialCombination `json:"specialCombinations"`
	Positions           []ActionablePosition `json:"positions"`
	Effectiveness       Effectiveness        `json:"effectiveness,omitempty"`
}

// ActivationPhase 催旺时效阶段
type ActivationPhase string

const (
	PhasePeak        ActivationPhase = "peak"
	PhaseGood        ActivationPhase = "good"
	PhaseDeclining   ActivationPhase = "declining"
	PhaseIneffective ActivationPhase = "ineffective"
)

// ActivationTimeline 催旺时效
type ActivationTimeline struct {
	Period         Period          `json:"period"`
	TargetYear     int             `json:"targetYear"`
	StartYear      int             `json:"startYear"`
	EndYear        int             `json:"endYear"`
	YearsInPeriod  int             `json:"yearsInPeriod"`
	RemainingYears int             `json:"remainingYears"`
	Phase          ActivationPhase `json:"phase"`
	Advice         string          `json:"advice"`
}
