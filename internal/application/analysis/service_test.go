package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"xuankong-api/internal/application/chengmen"
	"xuankong-api/internal/application/diagnosis"
	"xuankong-api/internal/application/keyposition"
	"xuankong-api/internal/application/plate"
	"xuankong-api/internal/application/remedy"
	"xuankong-api/internal/application/rulebook"
	"xuankong-api/internal/domain/entity"
	"xuankong-api/internal/domain/repository"
	apperrors "xuankong-api/pkg/errors"
)

type recordingPublisher struct {
	mu      sync.Mutex
	events  []*repository.AnalysisSummary
	failure error
}

func (p *recordingPublisher) PublishAnalysisCompleted(_ context.Context, s *repository.AnalysisSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, s)
	return p.failure
}

type ServiceSuite struct {
	suite.Suite
	publisher *recordingPublisher
	svc       *Service
	fixed     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	book := rulebook.Default()
	s.publisher = &recordingPublisher{}
	s.svc = NewService(
		plate.NewService(plate.NewGenerator(1864, 2223), nil, 64, time.Hour),
		diagnosis.NewEngine(book),
		chengmen.NewAnalyzer(book),
		remedy.NewGenerator(book),
		keyposition.NewAnalyzer(book),
		s.publisher,
		Options{Timeout: 5 * time.Second},
	)
	s.fixed = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	s.svc.now = func() time.Time { return s.fixed }
	s.svc.newID = func() string { return "analysis-1" }
}

func (s *ServiceSuite) run(req *entity.AnalysisRequest) *entity.ComprehensiveResult {
	res, err := s.svc.Run(context.Background(), req)
	s.Require().NoError(err)
	return res
}

func (s *ServiceSuite) TestSouthFacing2020WithoutProfile() {
	res := s.run(&entity.AnalysisRequest{Facing: 180, BuildYear: 2020})

	s.Nil(res.KeyPositions)
	s.False(res.Flags.KeyPositionsUnavailable)
	s.Equal(entity.Period(8), res.Plate.Period)
	s.Equal(50, res.OverallScore)
	s.Equal("风水状况一般,存在多处需要调整的地方,建议制定系统化的改善计划。", res.Recommendation)

	st := res.Diagnosis.Stats
	s.Equal(6, st.Total)
	s.Equal(2, st.Critical)
	s.Equal(0, st.High)
	s.Equal(4, st.Medium)
	s.InDelta(28, st.AvgScore, 1e-9)

	s.Equal(2, res.Remedies.Stats.TotalIssues)
	s.Equal(6, res.Remedies.Stats.TotalPlans)
	s.InDelta(2888, res.Remedies.Stats.AvgCostPerIssue, 1e-9)
	s.Contains(res.Remedies.Plans, entity.PalaceXun)
	s.Contains(res.Remedies.Plans, entity.PalaceDui)

	s.Require().Len(res.Priorities, 6)
	s.Equal(entity.PalaceXun, res.Priorities[0].Palace)
	s.Equal("立即处理", res.Priorities[0].Action)
	s.Equal(entity.PalaceDui, res.Priorities[1].Palace)
	s.Equal(entity.PalaceKun, res.Priorities[2].Palace)
	s.Equal("择期处理", res.Priorities[5].Action)

	s.Require().NotNil(res.AdvancedPatterns)
	s.Equal("p8-ding-kan", res.AdvancedPatterns.Chengmenjue.BestGate.RuleID)
	s.Equal(entity.PalaceGen, res.AdvancedPatterns.LingZheng.PositivePalace)

	s.Equal(entity.AnalysisMeta{Timestamp: s.fixed, Version: DefaultSchemaVersion, AnalysisID: "analysis-1"}, res.Meta)
}

func (s *ServiceSuite) TestStatsAndRemedyGatingAcrossFacings() {
	for _, facing := range []float64{0, 45, 90, 135, 180, 225, 270, 315} {
		for _, year := range []int{1990, 2010, 2030} {
			res := s.run(&entity.AnalysisRequest{Facing: facing, BuildYear: year, TimeFactors: &entity.TimeFactors{Year: 2025, Month: 4}})
			st := res.Diagnosis.Stats
			s.Equal(len(res.Diagnosis.Alerts), st.Total)
			s.Equal(st.Total, st.Critical+st.High+st.Medium+st.Low)
			s.LessOrEqual(res.Remedies.Stats.TotalIssues, st.Critical+st.High)
			s.Len(res.Priorities, st.Total)

			severities := map[entity.Palace]entity.Severity{}
			for _, a := range res.Diagnosis.Alerts {
				severities[a.Palace] = a.Severity
			}
			for palace := range res.Remedies.Plans {
				sev := severities[palace]
				s.True(sev == entity.SeverityCritical || sev == entity.SeverityHigh, "palace %d has %s", palace, sev)
			}
			for i := 1; i < len(res.Priorities); i++ {
				s.LessOrEqual(res.Priorities[i-1].Urgency.Rank(), res.Priorities[i].Urgency.Rank())
			}
		}
	}
}

func (s *ServiceSuite) TestProfileProducesKeyPositions() {
	res := s.run(&entity.AnalysisRequest{
		Facing:    180,
		BuildYear: 2020,
		Profile:   &entity.UserProfile{BirthYear: 1990, Priorities: []string{"romance"}},
	})
	s.Require().NotNil(res.KeyPositions)
	s.Equal(entity.DirectionSouth, res.KeyPositions.MainDirection)
	s.Equal(entity.SpotRomance, res.KeyPositions.Spots[0].Type)
	s.False(res.Flags.KeyPositionsUnavailable)

	res = s.run(&entity.AnalysisRequest{
		Facing:    180,
		BuildYear: 2020,
		MainDoor:  entity.DirectionEast,
		Profile:   &entity.UserProfile{},
	})
	s.Equal(entity.DirectionEast, res.KeyPositions.MainDirection)
}

func (s *ServiceSuite) TestKeyPositionFailureDegrades() {
	res := s.run(&entity.AnalysisRequest{
		Facing:    180,
		BuildYear: 2020,
		Profile:   &entity.UserProfile{Bazi: &entity.Bazi{Year: entity.Pillar{Branch: "龙"}}},
	})
	s.Nil(res.KeyPositions)
	s.True(res.Flags.KeyPositionsUnavailable)
	s.Contains(res.Flags.KeyPositionsError, "unknown year branch")
	s.Equal(50, res.OverallScore)

	res = s.run(&entity.AnalysisRequest{
		Facing:    180,
		BuildYear: 2020,
		MainDoor:  entity.DirectionCenter,
		Profile:   &entity.UserProfile{},
	})
	s.Nil(res.KeyPositions)
	s.True(res.Flags.KeyPositionsUnavailable)
	s.Empty(res.Flags.KeyPositionsError)
}

func (s *ServiceSuite) TestBudgetMarksPlans() {
	budget := 500.0
	res := s.run(&entity.AnalysisRequest{
		Facing:      180,
		BuildYear:   2020,
		Constraints: entity.RemedyConstraints{Budget: &budget},
	})
	plans := res.Remedies.Plans[entity.PalaceXun]
	s.Require().Len(plans, 3)
	s.True(plans[0].Recommended)
	s.False(plans[2].Recommended)
}

func (s *ServiceSuite) TestPublishesSummary() {
	s.run(&entity.AnalysisRequest{Facing: 180, BuildYear: 2020})
	s.Require().Len(s.publisher.events, 1)
	ev := s.publisher.events[0]
	s.Equal("analysis-1", ev.AnalysisID)
	s.Equal(50, ev.OverallScore)
	s.Equal(2, ev.CriticalCount)
	s.Equal(entity.SeverityCritical, ev.WorstSeverity)
	s.Equal([]entity.PlatePattern{entity.PatternDoubleAtSitting}, ev.Patterns)
	s.Equal(s.fixed, ev.CompletedAt)
}

func (s *ServiceSuite) TestPublishFailureDoesNotFail() {
	s.publisher.failure = errors.New("stream down")
	res, err := s.svc.Run(context.Background(), &entity.AnalysisRequest{Facing: 180, BuildYear: 2020})
	s.NoError(err)
	s.NotNil(res)
}

func (s *ServiceSuite) TestHardFailures() {
	_, err := s.svc.Run(context.Background(), &entity.AnalysisRequest{Facing: 400, BuildYear: 2020})
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidParam))

	_, err = s.svc.Run(context.Background(), &entity.AnalysisRequest{Facing: 180, BuildYear: 1800})
	s.True(apperrors.IsCode(err, apperrors.CodeOutOfRange))

	_, err = s.svc.Run(context.Background(), nil)
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidParam))

	_, err = s.svc.Run(context.Background(), &entity.AnalysisRequest{
		Facing: 180, BuildYear: 2020,
		Environment: &entity.Environment{WaterPositions: []entity.Direction{"sky"}},
	})
	s.True(apperrors.IsCode(err, apperrors.CodeInvalidParam))
	s.Empty(s.publisher.events)
}

func TestRecommendationBands(t *testing.T) {
	assert.Contains(t, Recommendation(100), "优秀")
	assert.Contains(t, Recommendation(80), "优秀")
	assert.Contains(t, Recommendation(79), "良好")
	assert.Contains(t, Recommendation(40), "一般")
	assert.Contains(t, Recommendation(20), "较差")
	assert.Contains(t, Recommendation(19), "严重")
}

func TestDiagnosisStatsWithoutAlerts(t *testing.T) {
	st := DiagnosisStats(nil, 92)
	assert.Equal(t, 0, st.Total)
	assert.InDelta(t, 92, st.AvgScore, 1e-9)
}

func TestPrioritiesAreStableByUrgency(t *testing.T) {
	alerts := Alerts([]entity.DiagnosticIssue{
		{Palace: 1, Severity: entity.SeverityMedium},
		{Palace: 2, Severity: entity.SeverityHigh},
		{Palace: 3, Severity: entity.SeverityCritical},
		{Palace: 4, Severity: entity.SeverityHigh},
		{Palace: 5, Severity: entity.SeverityCritical},
	})
	got := Priorities(alerts)
	require.Len(t, got, 5)
	var order []entity.Palace
	for _, p := range got {
		order = append(order, p.Palace)
	}
	assert.Equal(t, []entity.Palace{3, 5, 2, 4, 1}, order)
	assert.Equal(t, "尽快处理", got[2].Action)
}
