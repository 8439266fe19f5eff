package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "xuankong-api/pkg/errors"
)

func TestPeriodForYear(t *testing.T) {
	cases := map[int]Period{
		1864: 1,
		1883: 1,
		1884: 2,
		1984: 7,
		2003: 7,
		2004: 8,
		2020: 8,
		2023: 8,
		2024: 9,
		2043: 9,
		2044: 1,
	}
	for year, want := range cases {
		got, err := PeriodForYear(year)
		require.NoError(t, err)
		assert.Equal(t, want, got, "year %d", year)
	}

	_, err := PeriodForYear(1863)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeOutOfRange))
}

func TestStartYearAtOrBefore(t *testing.T) {
	start, ok := Period(8).StartYearAtOrBefore(2020)
	require.True(t, ok)
	assert.Equal(t, 2004, start)

	start, ok = Period(8).StartYearAtOrBefore(2200)
	require.True(t, ok)
	assert.Equal(t, 2184, start)

	start, ok = Period(1).StartYearAtOrBefore(2050)
	require.True(t, ok)
	assert.Equal(t, 2044, start)

	_, ok = Period(9).StartYearAtOrBefore(2000)
	assert.False(t, ok)
}
