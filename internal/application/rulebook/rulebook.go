// Package rulebook 加载并校验内嵌的规则表（诊断、城门诀、化解、关键方位）
package rulebook

import (
	"embed"
	"io/fs"
	"sync"

	"gopkg.in/yaml.v3"

	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

//go:embed data/*.yaml
var dataFS embed.FS

const (
	diagnosticFile   = "data/diagnostic.yaml"
	chengmenFile     = "data/chengmen.yaml"
	remediesFile     = "data/remedies.yaml"
	keyPositionsFile = "data/keypositions.yaml"
)

// RuleKind 规则性质
type RuleKind string

const (
	KindInauspicious RuleKind = "inauspicious"
	KindAuspicious   RuleKind = "auspicious"
)

// RuleMatch 诊断规则的匹配条件
type RuleMatch struct {
	Stars      []entity.Star       `yaml:"stars"`
	States     []entity.StarState  `yaml:"states"`
	Sum        int                 `yaml:"sum"`
	PeriodPair bool                `yaml:"period_pair"`
	Pattern    entity.PlatePattern `yaml:"pattern"`
	At         string              `yaml:"at"`
}

// DiagnosticRule 诊断规则
type DiagnosticRule struct {
	Type            string              `yaml:"type"`
	Kind            RuleKind            `yaml:"kind"`
	Weight          int                 `yaml:"weight"`
	Title           string              `yaml:"title"`
	Description     string              `yaml:"description"`
	Match           RuleMatch           `yaml:"match"`
	Impact          []entity.LifeDomain `yaml:"impact"`
	Recommendations []string            `yaml:"recommendations"`
}

// DiagnosticTable 诊断规则表
type DiagnosticTable struct {
	Version         string                                  `yaml:"version"`
	BaselineHarm    int                                     `yaml:"baseline_harm"`
	ExtraMatchHarm  int                                     `yaml:"extra_match_harm"`
	HarmfulVisitors []entity.Star                           `yaml:"harmful_visitors"`
	Rules           []DiagnosticRule                        `yaml:"rules"`
	RoomImpacts     map[entity.RoomType][]entity.LifeDomain `yaml:"room_impacts"`
}

// SpecialDef 特殊组合定义
type SpecialDef struct {
	Label         string                  `yaml:"label"`
	Effectiveness entity.Effectiveness    `yaml:"effectiveness"`
	Method        entity.ActivationMethod `yaml:"method"`
	Description   string                  `yaml:"description"`
}

// ChengmenTable 城门诀规则表
type ChengmenTable struct {
	Version          string                               `yaml:"version"`
	GateLabels       map[entity.GateType]string           `yaml:"gate_labels"`
	GatePurposes     map[entity.GateType]string           `yaml:"gate_purposes"`
	MethodLabels     map[entity.ActivationMethod]string   `yaml:"method_labels"`
	MethodActivation map[entity.ActivationMethod][]string `yaml:"method_activation"`
	GenericTaboos    []string                             `yaml:"generic_taboos"`
	TrigramTaboos    map[string][]string                  `yaml:"trigram_taboos"`
	Specials         map[string]SpecialDef                `yaml:"specials"`
	Rules            []entity.ChengmenRule                `yaml:"rules"`
}

// ItemTemplate 化解物品模板
type ItemTemplate struct {
	Name        string          `yaml:"name"`
	Category    string          `yaml:"category"`
	Description string          `yaml:"description"`
	Placement   string          `yaml:"placement"`
	Quantity    int             `yaml:"quantity"`
	CostMin     float64         `yaml:"cost_min"`
	CostMax     float64         `yaml:"cost_max"`
	MinSeverity entity.Severity `yaml:"min_severity"`
}

// StepTemplate 步骤模板
type StepTemplate struct {
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Duration    string            `yaml:"duration"`
	Difficulty  entity.Difficulty `yaml:"difficulty"`
	MinSeverity entity.Severity   `yaml:"min_severity"`
}

// TimelineTemplate 时间线模板
type TimelineTemplate struct {
	Preparation    string `yaml:"preparation"`
	Implementation string `yaml:"implementation"`
	Maintenance    string `yaml:"maintenance"`
}

// TierTemplate 单层方案模板
type TierTemplate struct {
	Title         string           `yaml:"title"`
	Effectiveness string           `yaml:"effectiveness"`
	LaborCost     float64          `yaml:"labor_cost"`
	Timeline      TimelineTemplate `yaml:"timeline"`
	Items         []ItemTemplate   `yaml:"items"`
	Steps         []StepTemplate   `yaml:"steps"`
	Precautions   []string         `yaml:"precautions"`
}

// RemedyTemplate 某类问题的分层模板
type RemedyTemplate struct {
	Label string                             `yaml:"label"`
	Tiers map[entity.RemedyTier]TierTemplate `yaml:"tiers"`
}

// DefaultTemplate 未知问题类型回退的模板名
const DefaultTemplate = "default"

// RemedyTable 化解模板表
type RemedyTable struct {
	Version   string                    `yaml:"version"`
	Currency  string                    `yaml:"currency"`
	Templates map[string]RemedyTemplate `yaml:"templates"`
}

// Template 按类型取模板，未知类型回退 default
func (t *RemedyTable) Template(issueType string) RemedyTemplate {
	if tpl, ok := t.Templates[issueType]; ok {
		return tpl
	}
	return t.Templates[DefaultTemplate]
}

// DirectionSpots 某主方位对应的三类方位
type DirectionSpots struct {
	Wealth  entity.Direction `yaml:"wealth"`
	Study   entity.Direction `yaml:"study"`
	Romance entity.Direction `yaml:"romance"`
}

// KeyPositionTable 关键方位表
type KeyPositionTable struct {
	Version            string                              `yaml:"version"`
	Labels             map[entity.SpotType]string          `yaml:"labels"`
	Descriptions       map[entity.SpotType]string          `yaml:"descriptions"`
	Directions         map[entity.Direction]DirectionSpots `yaml:"directions"`
	RomanceByBranch    map[string]entity.Direction         `yaml:"romance_by_branch"`
	BenefactorByBranch map[string]entity.Direction         `yaml:"benefactor_by_branch"`
	UsageRanking       map[string][]entity.SpotType        `yaml:"usage_ranking"`
	DefaultRanking     []entity.SpotType                   `yaml:"default_ranking"`
	UnfavorableObjects map[entity.SpotType][]string        `yaml:"unfavorable_objects"`
}

// Rulebook 全部规则表，加载后只读
type Rulebook struct {
	Diagnostic   DiagnosticTable
	Chengmen     ChengmenTable
	Remedies     RemedyTable
	KeyPositions KeyPositionTable
}

// Registry 规则表注册中心，首次访问时解析并缓存
type Registry struct {
	mu   sync.RWMutex
	fsys fs.FS
	book *Rulebook
}

// NewRegistry 使用内嵌规则表
func NewRegistry() *Registry {
	return &Registry{fsys: dataFS}
}

// NewRegistryFS 使用外部规则目录，目录结构与内嵌一致（data/*.yaml）
func NewRegistryFS(fsys fs.FS) *Registry {
	return &Registry{fsys: fsys}
}

// Book 返回已校验的规则表
func (r *Registry) Book() (*Rulebook, error) {
	if r == nil {
		return nil, apperrors.Internal(apperrors.CodeRuleTableError, "rulebook registry is nil")
	}

	r.mu.RLock()
	if r.book != nil {
		book := r.book
		r.mu.RUnlock()
		return book, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.book != nil {
		return r.book, nil
	}

	book, err := Load(r.fsys)
	if err != nil {
		return nil, err
	}
	r.book = book
	return book, nil
}

// Load 从 fsys 解析并校验全部规则表
func Load(fsys fs.FS) (*Rulebook, error) {
	book := &Rulebook{}
	files := []struct {
		path string
		out  any
	}{
		{diagnosticFile, &book.Diagnostic},
		{chengmenFile, &book.Chengmen},
		{remediesFile, &book.Remedies},
		{keyPositionsFile, &book.KeyPositions},
	}
	for _, f := range files {
		if err := decodeFile(fsys, f.path, f.out); err != nil {
			return nil, err
		}
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// Default 解析内嵌规则表，失败即 panic，供测试与 CLI 使用
func Default() *Rulebook {
	book, err := NewRegistry().Book()
	if err != nil {
		panic(err)
	}
	return book
}

func decodeFile(fsys fs.FS, path string, out any) error {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeRuleTableError, "read rule table "+path)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeRuleTableError, "parse rule table "+path)
	}
	return nil
}
