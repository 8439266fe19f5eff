package entity

// RemedyTier 化解方案层级
type RemedyTier string

const (
	TierBasic        RemedyTier = "basic"
	TierIntermediate RemedyTier = "intermediate"
	TierAdvanced     RemedyTier = "advanced"
)

// Tiers 声明顺序
var Tiers = []RemedyTier{TierBasic, TierIntermediate, TierAdvanced}

// Difficulty 步骤难度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Urgency 紧急程度，immediate > soon > planned
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencySoon      Urgency = "soon"
	UrgencyPlanned   Urgency = "planned"
)

// Rank 排序用，越小越紧急
func (u Urgency) Rank() int {
	switch u {
	case UrgencyImmediate:
		return 0
	case UrgencySoon:
		return 1
	default:
		return 2
	}
}

// UrgencyFor 严重程度对应的紧急程度
func UrgencyFor(s Severity) Urgency {
	switch s {
	case SeverityCritical:
		return UrgencyImmediate
	case SeverityHigh:
		return UrgencySoon
	default:
		return UrgencyPlanned
	}
}

// CostRange 费用区间
type CostRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Average 平均费用
func (c CostRange) Average() float64 {
	return (c.Min + c.Max) / 2
}

// RemedyItem 化解物品
type RemedyItem struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Placement   string    `json:"placement"`
	Quantity    int       `json:"quantity"`
	Cost        CostRange `json:"cost"`
	Preferred   bool      `json:"preferred,omitempty"`
}

// RemedyStep 实施步骤
type RemedyStep struct {
	Order       int        `json:"order"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Difficulty  Difficulty `json:"difficulty"`
}

// RemedyTimeline 实施时间线
type RemedyTimeline struct {
	Preparation    string `json:"preparation"`
	Implementation string `json:"implementation"`
	Maintenance    string `json:"maintenance"`
}

// RemedyPlan 化解方案
type RemedyPlan struct {
	ID            string         `json:"id"`
	Tier          RemedyTier     `json:"tier"`
	IssueType     string         `json:"issueType"`
	Palace        Palace         `json:"palace"`
	TargetArea    Direction      `json:"targetArea"`
	Title         string         `json:"title"`
	Items         []RemedyItem   `json:"items"`
	Steps         []RemedyStep   `json:"steps"`
	Timeline      RemedyTimeline `json:"timeline"`
	Cost          CostRange      `json:"cost"`
	Effectiveness string         `json:"effectiveness"`
	Precautions   []string       `json:"precautions"`
	Recommended   bool           `json:"recommended"`
}

// RemedyIssue 化解输入
type RemedyIssue struct {
	Palace   Palace   `json:"position"`
	Severity Severity `json:"severity"`
	Type     string   `json:"type"`
}

// RemedyConstraints 预算、紧急程度与偏好
type RemedyConstraints struct {
	Budget      *float64 `json:"budget,omitempty"`
	Urgency     Urgency  `json:"urgency,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}
