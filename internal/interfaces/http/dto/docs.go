package dto

import "fmt"

// ParamDoc 参数说明
type ParamDoc struct {
	Type        string              `json:"type"`
	Required    bool                `json:"required"`
	Description string              `json:"description"`
	Example     any                 `json:"example,omitempty"`
	Default     any                 `json:"default,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Properties  map[string]ParamDoc `json:"properties,omitempty"`
}

// EndpointDoc 接口说明文档
type EndpointDoc struct {
	Endpoint    string              `json:"endpoint"`
	Method      string              `json:"method"`
	Description string              `json:"description"`
	Version     string              `json:"version"`
	Features    []string            `json:"features"`
	Parameters  map[string]ParamDoc `json:"parameters"`
	Response    map[string]string   `json:"response"`
	Examples    map[string]any      `json:"examples"`
}

// ComprehensiveAnalysisDoc 综合分析接口说明，minYear 与 maxYear 为支持的建造年份范围
func ComprehensiveAnalysisDoc(version string, minYear, maxYear int) EndpointDoc {
	return EndpointDoc{
		Endpoint:    "/v1/xuankong/comprehensive-analysis",
		Method:      "POST",
		Description: "玄空风水综合分析 - 一站式分析服务",
		Version:     version,
		Features: []string{
			"飞星盘生成",
			"五级诊断分析",
			"多级化解方案",
			"关键方位评估",
			"优先级建议",
			"七星打劫格局分析",
			"零正理论分析",
			"城门诀分析",
		},
		Parameters: map[string]ParamDoc{
			"facing":    {Type: "number", Required: true, Description: "房屋朝向角度 (0-360)", Example: 180},
			"buildYear": {Type: "number", Required: true, Description: fmt.Sprintf("建造年份 (%d-%d)", minYear, maxYear), Example: 2020},
			"location": {Type: "object", Description: "地理位置", Properties: map[string]ParamDoc{
				"lat": {Type: "number", Description: "纬度"},
				"lng": {Type: "number", Description: "经度"},
			}},
			"roomLayout": {Type: "object", Description: "宫位或方位到房间用途的映射", Example: map[string]string{"1": "bedroom", "south": "kitchen"}},
			"timeFactors": {Type: "object", Description: "流年流月", Properties: map[string]ParamDoc{
				"year":  {Type: "number", Description: "流年"},
				"month": {Type: "number", Description: "流月 (1-12)"},
			}},
			"budget":      {Type: "number", Description: "化解预算 (元)"},
			"urgency":     {Type: "string", Description: "紧急程度", Enum: []string{"immediate", "soon", "planned"}},
			"preferences": {Type: "array", Description: "偏好的化解物品类别"},
			"userProfile": {Type: "object", Description: "用户八字信息（用于关键方位分析）", Properties: map[string]ParamDoc{
				"bazi":       {Type: "object", Description: "八字信息"},
				"birthYear":  {Type: "number", Description: "出生年份"},
				"priorities": {Type: "array", Description: "关注重点"},
				"usage":      {Type: "string", Description: "用途", Enum: []string{"residence", "office", "shop"}},
				"objects":    {Type: "array", Description: "已摆放物品"},
			}},
			"mainDoor": {Type: "string", Description: "大门方位，缺省取向首"},
			"environmentInfo": {Type: "object", Description: "环境信息（用于零正理论）", Properties: map[string]ParamDoc{
				"waterPositions":    {Type: "array", Description: "实际水位方位（如窗户、鱼缸、喷泉等）"},
				"mountainPositions": {Type: "array", Description: "实际山位方位（如书柜、高大家具等）"},
			}},
		},
		Response: map[string]string{
			"plate":            "object - 飞星盘数据",
			"diagnosis":        "object - 诊断结果",
			"remedies":         "object - 化解方案",
			"keyPositions":     "object | null - 关键方位分析",
			"priorities":       "array - 优先级建议",
			"overallScore":     "number - 综合评分",
			"recommendation":   "string - 总体建议",
			"advancedPatterns": "object - 高级格局分析（城门诀、零正理论）",
			"flags":            "object - 降级标记",
			"meta":             "object - 时间戳、版本与分析 ID",
		},
		Examples: map[string]any{
			"basic": map[string]any{"facing": 180, "buildYear": 2020},
			"withUser": map[string]any{
				"facing":    180,
				"buildYear": 2020,
				"location":  map[string]float64{"lat": 39.9042, "lng": 116.4074},
				"userProfile": map[string]any{
					"bazi": map[string]any{
						"year":  map[string]string{"stem": "甲", "branch": "子"},
						"month": map[string]string{"stem": "丙", "branch": "寅"},
						"day":   map[string]string{"stem": "戊", "branch": "午"},
						"hour":  map[string]string{"stem": "庚", "branch": "申"},
					},
					"priorities": []string{"wealth", "health"},
				},
			},
		},
	}
}
