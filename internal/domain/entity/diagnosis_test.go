package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityForScoreIsMonotone(t *testing.T) {
	prev := SeverityForScore(0)
	assert.Equal(t, SeverityCritical, prev)
	for score := 1; score <= 100; score++ {
		got := SeverityForScore(score)
		assert.LessOrEqual(t, got.Rank(), prev.Rank(), "score %d", score)
		prev = got
	}
	assert.Equal(t, SeveritySafe, prev)
}

func TestSeverityBands(t *testing.T) {
	assert.Equal(t, SeverityCritical, SeverityForScore(19))
	assert.Equal(t, SeverityHigh, SeverityForScore(20))
	assert.Equal(t, SeverityHigh, SeverityForScore(39))
	assert.Equal(t, SeverityMedium, SeverityForScore(40))
	assert.Equal(t, SeverityLow, SeverityForScore(60))
	assert.Equal(t, SeveritySafe, SeverityForScore(80))
}

func TestSeverityWorse(t *testing.T) {
	assert.Equal(t, SeverityLow, SeveritySafe.Worse())
	assert.Equal(t, SeverityCritical, SeverityHigh.Worse())
	assert.Equal(t, SeverityCritical, SeverityCritical.Worse())
	for _, s := range Severities {
		assert.Equal(t, s, SeverityForScore(s.ScoreCeiling()))
	}
}

func TestImpactMerge(t *testing.T) {
	a := LowImpact()
	a.Raise(DomainHealth)
	b := LowImpact()
	b.Raise(DomainWealth)

	got := a.Merge(b)
	assert.Equal(t, ImpactHigh, got.Health)
	assert.Equal(t, ImpactHigh, got.Wealth)
	assert.Equal(t, ImpactLow, got.Career)
}
