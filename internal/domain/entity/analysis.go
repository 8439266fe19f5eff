package entity

import "time"

// Alert 综合分析中的诊断告警
type Alert struct {
	DiagnosticIssue
	Urgency Urgency `json:"urgency"`
}

// DiagnosisStats 由告警列表派生的统计
type DiagnosisStats struct {
	Total    int     `json:"total"`
	Critical int     `json:"critical"`
	High     int     `json:"high"`
	Medium   int     `json:"medium"`
	Low      int     `json:"low"`
	AvgScore float64 `json:"avgScore"`
}

// DiagnosisSection 综合结果中的诊断部分
type DiagnosisSection struct {
	Alerts []Alert        `json:"alerts"`
	Stats  DiagnosisStats `json:"stats"`
}

// RemedyStats 化解统计
type RemedyStats struct {
	TotalIssues     int     `json:"totalIssues"`
	TotalPlans      int     `json:"totalPlans"`
	AvgCostPerIssue float64 `json:"avgCostPerIssue"`
}

// RemedySection 按宫位归集的化解方案
type RemedySection struct {
	Plans map[Palace][]RemedyPlan `json:"plans"`
	Stats RemedyStats             `json:"stats"`
}

// Priority 优先处理事项
type Priority struct {
	Rank      int       `json:"rank"`
	Palace    Palace    `json:"palace"`
	Direction Direction `json:"direction"`
	IssueType string    `json:"issueType"`
	Title     string    `json:"title"`
	Severity  Severity  `json:"severity"`
	Urgency   Urgency   `json:"urgency"`
	Action    string    `json:"action"`
}

// AdvancedPatterns 城门诀与零正
type AdvancedPatterns struct {
	Chengmenjue *ChengmenjueAnalysis `json:"chengmenjue"`
	LingZheng   *LingZheng           `json:"lingZheng"`
}

// AnalysisFlags 降级标记
type AnalysisFlags struct {
	KeyPositionsUnavailable bool   `json:"keyPositionsUnavailable"`
	KeyPositionsError       string `json:"keyPositionsError,omitempty"`
}

// AnalysisMeta 元信息
type AnalysisMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	AnalysisID string    `json:"analysisId"`
}

// ComprehensiveResult 综合分析结果
type ComprehensiveResult struct {
	Plate            *Plate            `json:"plate"`
	Diagnosis        DiagnosisSection  `json:"diagnosis"`
	Remedies         RemedySection     `json:"remedies"`
	KeyPositions     *KeyPositions     `json:"keyPositions"`
	AdvancedPatterns *AdvancedPatterns `json:"advancedPatterns,omitempty"`
	Priorities       []Priority        `json:"priorities"`
	OverallScore     int               `json:"overallScore"`
	Recommendation   string            `json:"recommendation"`
	Flags            AnalysisFlags     `json:"flags"`
	Meta             AnalysisMeta      `json:"meta"`
}

// AnalysisRequest 综合分析输入
type AnalysisRequest struct {
	Facing      float64           `json:"facing"`
	BuildYear   int               `json:"buildYear"`
	Location    *Location         `json:"location,omitempty"`
	RoomLayout  RoomLayout        `json:"roomLayout,omitempty"`
	TimeFactors *TimeFactors      `json:"timeFactors,omitempty"`
	Constraints RemedyConstraints `json:"constraints"`
	Profile     *UserProfile      `json:"userProfile,omitempty"`
	MainDoor    Direction         `json:"mainDoor,omitempty"`
	Environment *Environment      `json:"environment,omitempty"`
}
