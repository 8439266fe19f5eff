package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"xuankong-api/internal/application/analysis"
	"xuankong-api/internal/application/chengmen"
	"xuankong-api/internal/application/diagnosis"
	"xuankong-api/internal/application/keyposition"
	"xuankong-api/internal/application/plate"
	"xuankong-api/internal/application/remedy"
	"xuankong-api/internal/domain/entity"
	"xuankong-api/internal/interfaces/http/dto"
	apperrors "xuankong-api/pkg/errors"
	"xuankong-api/pkg/logger"
)

// XuankongHandler 玄空飞星相关接口
type XuankongHandler struct {
	analysis  *analysis.Service
	plates    *plate.Service
	diagnoser *diagnosis.Engine
	chengmen  *chengmen.Analyzer
	remedies  *remedy.Generator
	keys      *keyposition.Analyzer
	version   string
	now       func() time.Time
}

// NewXuankongHandler 创建处理器
func NewXuankongHandler(
	svc *analysis.Service,
	plates *plate.Service,
	diagnoser *diagnosis.Engine,
	cm *chengmen.Analyzer,
	remedies *remedy.Generator,
	keys *keyposition.Analyzer,
	version string,
) *XuankongHandler {
	if version == "" {
		version = analysis.DefaultSchemaVersion
	}
	return &XuankongHandler{
		analysis:  svc,
		plates:    plates,
		diagnoser: diagnoser,
		chengmen:  cm,
		remedies:  remedies,
		keys:      keys,
		version:   version,
		now:       time.Now,
	}
}

// fail 输出错误，非调用方错误记录日志
func (h *XuankongHandler) fail(c *gin.Context, op string, err error) {
	if !apperrors.IsClientError(err) {
		logger.Error(c.Request.Context(), op+" failed", err, "path", c.FullPath())
	}
	dto.RenderError(c, err)
}

// ComprehensiveAnalysis 综合分析
// @Summary 玄空风水综合分析
// @Tags Xuankong
// @Accept json
// @Produce json
// @Param body body dto.ComprehensiveAnalysisRequest true "分析请求"
// @Success 200 {object} dto.Response[entity.ComprehensiveResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/xuankong/comprehensive-analysis [post]
func (h *XuankongHandler) ComprehensiveAnalysis(c *gin.Context) {
	var req dto.ComprehensiveAnalysisRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RenderError(c, err)
		return
	}
	in, err := req.ToEntity()
	if err != nil {
		dto.RenderError(c, err)
		return
	}

	res, err := h.analysis.Run(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "comprehensive analysis", err)
		return
	}
	dto.Success(c, res)
}

// AnalysisDoc 综合分析接口说明
// @Router /v1/xuankong/comprehensive-analysis [get]
func (h *XuankongHandler) AnalysisDoc(c *gin.Context) {
	minYear, maxYear := h.plates.Generator().YearRange()
	dto.Success(c, dto.ComprehensiveAnalysisDoc(h.version, minYear, maxYear))
}

// Plate 起盘
// @Router /v1/xuankong/plate [post]
func (h *XuankongHandler) Plate(c *gin.Context) {
	var req dto.HouseRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RenderError(c, err)
		return
	}
	p, ok := h.plate(c, &req)
	if !ok {
		return
	}
	dto.Success(c, p)
}

// Diagnose 九宫诊断
// @Router /v1/xuankong/diagnosis [post]
func (h *XuankongHandler) Diagnose(c *gin.Context) {
	var req dto.DiagnosisRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RenderError(c, err)
		return
	}
	rooms, err := dto.RoomLayout(req.RoomLayout)
	if err != nil {
		dto.RenderError(c, err)
		return
	}
	p, ok := h.plate(c, &req.HouseRequest)
	if !ok {
		return
	}
	res, err := h.diagnoser.Diagnose(p, rooms, req.TimeFactors)
	if err != nil {
		h.fail(c, "diagnosis", err)
		return
	}
	dto.Success(c, res)
}

// Chengmen 城门诀与零正分析
// @Router /v1/xuankong/chengmen [post]
func (h *XuankongHandler) Chengmen(c *gin.Context) {
	var req dto.ChengmenRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RenderError(c, err)
		return
	}
	p, ok := h.plate(c, &req.HouseRequest)
	if !ok {
		return
	}
	lz, err := chengmen.LingZheng(p.Period, req.Environment.ToEntity())
	if err != nil {
		dto.RenderError(c, err)
		return
	}
	cm, err := h.chengmen.Analyze(p, p.Period, p.SittingMountain, p.FacingMountain)
	if err != nil {
		h.fail(c, "chengmen", apperrors.Wrap(err, apperrors.CodeChengmenFailed, "chengmen analysis failed"))
		return
	}
	dto.Success(c, dto.ChengmenResponse{Chengmenjue: cm, LingZheng: lz})
}

// Timeline 催旺时效
// @Param period query int true "元运 (1-9)"
// @Param year query int false "目标年份，缺省为当年"
// @Router /v1/xuankong/chengmen/timeline [get]
func (h *XuankongHandler) Timeline(c *gin.Context) {
	var q dto.TimelineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.RenderError(c, apperrors.InvalidInput("invalid query: %s", err.Error()))
		return
	}
	year := q.Year
	if year == 0 {
		year = h.now().Year()
	}
	tl, err := chengmen.Timeline(entity.Period(q.Period), year)
	if err != nil {
		dto.RenderError(c, err)
		return
	}
	dto.Success(c, tl)
}

// Remedies 化解方案
// @Router /v1/xuankong/remedies [post]
func (h *XuankongHandler) Remedies(c *gin.Context) {
	var req dto.RemedyRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RenderError(c, err)
		return
	}
	constraints, err := dto.Constraints(req.Budget, req.Urgency, req.Preferences)
	if err != nil {
		dto.RenderError(c, err)
		return
	}
	section, err := analysis.Remedies(h.remedies, req.Issues, constraints)
	if err != nil {
		h.fail(c, "remedies", err)
		return
	}
	dto.Success(c, section)
}

// KeyPositions 关键方位
// @Router /v1/xuankong/key-positions [post]
func (h *XuankongHandler) KeyPositions(c *gin.Context) {
	var req dto.KeyPositionRequest
	if err := dto.BindJSON(c, &req); err != nil {
		dto.RenderError(c, err)
		return
	}
	kp, err := h.keys.Analyze(dto.Direction(req.MainDirection), dto.Profile(req.UserProfile))
	if err != nil {
		dto.RenderError(c, err)
		return
	}
	dto.Success(c, dto.KeyPositionResponse{KeyPositions: kp})
}

func (h *XuankongHandler) plate(c *gin.Context, req *dto.HouseRequest) (*entity.Plate, bool) {
	facing, year, err := req.Params()
	if err != nil {
		dto.RenderError(c, err)
		return nil, false
	}
	p, err := h.plates.Get(c.Request.Context(), facing, year, req.Location)
	if err != nil {
		h.fail(c, "plate", err)
		return nil, false
	}
	return p, true
}
