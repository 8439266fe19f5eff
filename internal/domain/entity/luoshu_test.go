package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "xuankong-api/pkg/errors"
)

func TestPalaceMountains(t *testing.T) {
	for _, p := range AllPalaces() {
		ms := p.Mountains()
		if p == PalaceZhong {
			assert.Empty(t, ms)
			continue
		}
		assert.Len(t, ms, 3, "palace %d", p)
		for _, m := range ms {
			assert.Equal(t, p, m.Palace())
		}
	}
}

func TestPalaceOpposite(t *testing.T) {
	assert.Equal(t, PalaceLi, PalaceKan.Opposite())
	assert.Equal(t, PalaceGen, PalaceKun.Opposite())
	assert.Equal(t, PalaceZhong, PalaceZhong.Opposite())
	assert.Equal(t, Palace(0), Palace(10).Opposite())
}

func TestParsePalace(t *testing.T) {
	p, err := ParsePalace(6)
	require.NoError(t, err)
	assert.Equal(t, "乾", p.Trigram())
	assert.Equal(t, DirectionNorthwest, p.Direction())

	_, err = ParsePalace(0)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
}

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{
		"north":  DirectionNorth,
		" SE ":   DirectionSoutheast,
		"西南":     DirectionSouthwest,
		"乾":      DirectionNorthwest,
		"center": DirectionCenter,
	}
	for in, want := range cases {
		got, ok := ParseDirection(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseDirection("up")
	assert.False(t, ok)
	_, ok = ParseDirection("")
	assert.False(t, ok)
}

func TestDirectionPalaceRoundTrip(t *testing.T) {
	for _, p := range AllPalaces() {
		assert.Equal(t, p, p.Direction().Palace())
		assert.NotEmpty(t, p.Direction().Label())
	}
}
