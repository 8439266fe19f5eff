package dto

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

const (
	msgInvalidFacing    = "缺少或无效的朝向参数 (facing)"
	msgInvalidBuildYear = "缺少或无效的建造年份 (buildYear)"
)

// HouseRequest 起盘所需的朝向与建造年份
type HouseRequest struct {
	Facing    *float64         `json:"facing"`
	BuildYear *int             `json:"buildYear"`
	Location  *entity.Location `json:"location,omitempty"`
}

// Params 校验必填项
func (r *HouseRequest) Params() (float64, int, error) {
	if r.Facing == nil {
		return 0, 0, apperrors.InvalidInput(msgInvalidFacing)
	}
	if r.BuildYear == nil || *r.BuildYear == 0 {
		return 0, 0, apperrors.InvalidInput(msgInvalidBuildYear)
	}
	return *r.Facing, *r.BuildYear, nil
}

// EnvironmentRequest 外部山水方位，支持中英文方位名
type EnvironmentRequest struct {
	WaterPositions    []string `json:"waterPositions,omitempty"`
	MountainPositions []string `json:"mountainPositions,omitempty"`
}

// ToEntity 转换为领域对象
func (r *EnvironmentRequest) ToEntity() *entity.Environment {
	if r == nil {
		return nil
	}
	return &entity.Environment{
		WaterPositions:    directions(r.WaterPositions),
		MountainPositions: directions(r.MountainPositions),
	}
}

// ComprehensiveAnalysisRequest 综合分析请求
type ComprehensiveAnalysisRequest struct {
	HouseRequest
	RoomLayout  map[string]string   `json:"roomLayout,omitempty"`
	TimeFactors *entity.TimeFactors `json:"timeFactors,omitempty"`
	Budget      *float64            `json:"budget,omitempty"`
	Urgency     string              `json:"urgency,omitempty"`
	Preferences []string            `json:"preferences,omitempty"`
	UserProfile *entity.UserProfile `json:"userProfile,omitempty"`
	MainDoor    string              `json:"mainDoor,omitempty"`
	Environment *EnvironmentRequest `json:"environmentInfo,omitempty"`
}

// ToEntity 转换为领域请求
func (r *ComprehensiveAnalysisRequest) ToEntity() (*entity.AnalysisRequest, error) {
	facing, year, err := r.Params()
	if err != nil {
		return nil, err
	}
	rooms, err := RoomLayout(r.RoomLayout)
	if err != nil {
		return nil, err
	}
	constraints, err := Constraints(r.Budget, r.Urgency, r.Preferences)
	if err != nil {
		return nil, err
	}
	req := &entity.AnalysisRequest{
		Facing:      facing,
		BuildYear:   year,
		Location:    r.Location,
		RoomLayout:  rooms,
		TimeFactors: r.TimeFactors,
		Constraints: constraints,
		Profile:     Profile(r.UserProfile),
		Environment: r.Environment.ToEntity(),
	}
	if r.MainDoor != "" {
		req.MainDoor = Direction(r.MainDoor)
	}
	return req, nil
}

// DiagnosisRequest 诊断请求
type DiagnosisRequest struct {
	HouseRequest
	RoomLayout  map[string]string   `json:"roomLayout,omitempty"`
	TimeFactors *entity.TimeFactors `json:"timeFactors,omitempty"`
}

// ChengmenRequest 城门诀与零正请求
type ChengmenRequest struct {
	HouseRequest
	Environment *EnvironmentRequest `json:"environmentInfo,omitempty"`
}

// ChengmenResponse 城门诀与零正结果
type ChengmenResponse struct {
	Chengmenjue *entity.ChengmenjueAnalysis `json:"chengmenjue"`
	LingZheng   *entity.LingZheng           `json:"lingZheng"`
}

// TimelineQuery 催旺时效查询
type TimelineQuery struct {
	Period int `form:"period" binding:"required"`
	Year   int `form:"year"`
}

// RemedyRequest 化解方案请求
type RemedyRequest struct {
	Issues      []entity.RemedyIssue `json:"issues" binding:"required,min=1"`
	Budget      *float64             `json:"budget,omitempty"`
	Urgency     string               `json:"urgency,omitempty"`
	Preferences []string             `json:"preferences,omitempty"`
}

// KeyPositionRequest 关键方位请求
type KeyPositionRequest struct {
	MainDirection string              `json:"mainDirection" binding:"required"`
	UserProfile   *entity.UserProfile `json:"userProfile,omitempty"`
}

// KeyPositionResponse 方位无法解析时 keyPositions 为 null
type KeyPositionResponse struct {
	KeyPositions *entity.KeyPositions `json:"keyPositions"`
}

// Constraints 预算、紧急程度与偏好
func Constraints(budget *float64, urgency string, prefs []string) (entity.RemedyConstraints, error) {
	u := entity.Urgency(urgency)
	switch u {
	case "", entity.UrgencyImmediate, entity.UrgencySoon, entity.UrgencyPlanned:
	default:
		return entity.RemedyConstraints{}, apperrors.InvalidInput("unknown urgency %q", urgency)
	}
	return entity.RemedyConstraints{Budget: budget, Urgency: u, Preferences: prefs}, nil
}

// RoomLayout 键为宫位数字或方位名
func RoomLayout(in map[string]string) (entity.RoomLayout, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(entity.RoomLayout, len(in))
	for k, v := range in {
		var p entity.Palace
		if n, err := strconv.Atoi(k); err == nil {
			p = entity.Palace(n)
		} else if d, ok := entity.ParseDirection(k); ok {
			p = d.Palace()
		}
		if !p.Valid() {
			return nil, apperrors.InvalidInput("unknown room position %q", k)
		}
		out[p] = entity.RoomType(v)
	}
	return out, nil
}

// BindJSON 绑定请求体，朝向与年份类型错误沿用必填项的提示
func BindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		// 嵌入结构体的字段路径形如 HouseRequest.facing
		field := typeErr.Field
		if i := strings.LastIndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch field {
		case "facing":
			return apperrors.InvalidInput(msgInvalidFacing)
		case "buildYear":
			return apperrors.InvalidInput(msgInvalidBuildYear)
		}
		return apperrors.InvalidInput("invalid value for field %s", field)
	}
	return apperrors.InvalidInput("invalid request body: %s", err.Error())
}

// Profile 规范化物品方位
func Profile(p *entity.UserProfile) *entity.UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Objects = make([]entity.PlacedObject, len(p.Objects))
	for i, o := range p.Objects {
		cp.Objects[i] = entity.PlacedObject{Type: o.Type, Direction: Direction(string(o.Direction))}
	}
	return &cp
}

// Direction 解析方位别名，无法识别时原样返回交由领域层校验
func Direction(s string) entity.Direction {
	if d, ok := entity.ParseDirection(s); ok {
		return d
	}
	return entity.Direction(s)
}

func directions(in []string) []entity.Direction {
	if len(in) == 0 {
		return nil
	}
	out := make([]entity.Direction, len(in))
	for i, s := range in {
		out[i] = Direction(s)
	}
	return out
}
