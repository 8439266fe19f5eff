package entity

// Severity 问题严重程度，critical > high > medium > low > safe
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeveritySafe     Severity = "safe"
)

// Severities 由重到轻
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeveritySafe}

// 分数段上限（含），分数越低越严重
var severityCeilings = map[Severity]int{
	SeverityCritical: 19,
	SeverityHigh:     39,
	SeverityMedium:   59,
	SeverityLow:      79,
	SeveritySafe:     100,
}

// SeverityForScore 分数到严重程度的映射，对 0-100 全定义
func SeverityForScore(score int) Severity {
	for _, s := range Severities {
		if score <= severityCeilings[s] {
			return s
		}
	}
	return SeveritySafe
}

// Valid 是否为合法严重程度
func (s Severity) Valid() bool {
	_, ok := severityCeilings[s]
	return ok
}

// Rank 严重等级，safe 为 0，critical 为 4
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ScoreCeiling 该严重程度的最高分
func (s Severity) ScoreCeiling() int {
	if c, ok := severityCeilings[s]; ok {
		return c
	}
	return 100
}

// Worse 加重一级，critical 保持不变
func (s Severity) Worse() Severity {
	switch s {
	case SeveritySafe:
		return SeverityLow
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// AtLeast 是否不轻于 other
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// ImpactLevel 影响程度
type ImpactLevel string

const (
	ImpactHigh ImpactLevel = "high"
	ImpactLow  ImpactLevel = "low"
)

// LifeDomain 生活领域
type LifeDomain string

const (
	DomainHealth       LifeDomain = "health"
	DomainWealth       LifeDomain = "wealth"
	DomainCareer       LifeDomain = "career"
	DomainRelationship LifeDomain = "relationship"
)

// Impact 各领域影响
type Impact struct {
	Health       ImpactLevel `json:"health"`
	Wealth       ImpactLevel `json:"wealth"`
	Career       ImpactLevel `json:"career"`
	Relationship ImpactLevel `json:"relationship"`
}

// LowImpact 全部为 low 的影响
func LowImpact() Impact {
	return Impact{Health: ImpactLow, Wealth: ImpactLow, Career: ImpactLow, Relationship: ImpactLow}
}

// Raise 将某领域提升为 high
func (i *Impact) Raise(d LifeDomain) {
	switch d {
	case DomainHealth:
		i.Health = ImpactHigh
	case DomainWealth:
		i.Wealth = ImpactHigh
	case DomainCareer:
		i.Career = ImpactHigh
	case DomainRelationship:
		i.Relationship = ImpactHigh
	}
}

// Merge 合并，任一为 high 即为 high
func (i Impact) Merge(o Impact) Impact {
	pick := func(a, b ImpactLevel) ImpactLevel {
		if a == ImpactHigh || b == ImpactHigh {
			return ImpactHigh
		}
		return ImpactLow
	}
	return Impact{
		Health:       pick(i.Health, o.Health),
		Wealth:       pick(i.Wealth, o.Wealth),
		Career:       pick(i.Career, o.Career),
		Relationship: pick(i.Relationship, o.Relationship),
	}
}

// RoomType 房间用途
type RoomType string

const (
	RoomBedroom  RoomType = "bedroom"
	RoomKitchen  RoomType = "kitchen"
	RoomStudy    RoomType = "study"
	RoomLiving   RoomType = "living"
	RoomBathroom RoomType = "bathroom"
	RoomOffice   RoomType = "office"
	RoomEntrance RoomType = "entrance"
	RoomDining   RoomType = "dining"
)

// RoomLayout 宫位到房间的映射
type RoomLayout map[Palace]RoomType

// TimeFactors 流年流月
type TimeFactors struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
}

// VisitingStar 飞临某宫的流年/流月星
type VisitingStar struct {
	Source string `json:"source"`
	Star   Star   `json:"star"`
}

// DiagnosticIssue 单宫诊断问题
type DiagnosticIssue struct {
	Palace          Palace         `json:"palace"`
	Direction       Direction      `json:"direction"`
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Severity        Severity       `json:"severity"`
	Score           int            `json:"score"`
	Impact          Impact         `json:"impact"`
	Recommendations []string       `json:"recommendations"`
	MatchedRules    []string       `json:"matchedRules"`
	VisitingStars   []VisitingStar `json:"visitingStars,omitempty"`
	Room            RoomType       `json:"room,omitempty"`
}

// PalaceAssessment 单宫评估，九宫每次全部生成
type PalaceAssessment struct {
	Palace       Palace   `json:"palace"`
	Score        int      `json:"score"`
	Severity     Severity `json:"severity"`
	MatchedRules []string `json:"matchedRules"`
}

// DiagnosisResult 诊断结果
type DiagnosisResult struct {
	Issues  []DiagnosticIssue   `json:"issues"`
	Palaces [9]PalaceAssessment `json:"palaces"`
	Score   int                 `json:"score"`
}
