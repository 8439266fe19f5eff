package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isPermutation(stars [9]Star) bool {
	var seen [10]bool
	for _, s := range stars {
		if !s.Valid() || seen[s] {
			return false
		}
		seen[s] = true
	}
	return true
}

func TestFlyProducesPermutation(t *testing.T) {
	for c := Star(1); c <= 9; c++ {
		for _, forward := range []bool{true, false} {
			got := Fly(c, forward)
			assert.True(t, isPermutation(got), "center %d forward %v", c, forward)
			assert.Equal(t, c, got[PalaceZhong-1])
		}
	}
}

func TestFlyFiveIsLuoShu(t *testing.T) {
	assert.Equal(t, [9]Star{1, 2, 3, 4, 5, 6, 7, 8, 9}, Fly(5, true))
}

func TestFlyBackward(t *testing.T) {
	got := Fly(4, false)
	// 中4 乾3 兑2 艮1 离9 坎8 坤7 震6 巽5
	assert.Equal(t, [9]Star{8, 7, 6, 5, 4, 3, 2, 1, 9}, got)
}

func TestStarNextPrev(t *testing.T) {
	assert.Equal(t, Star(1), Star(9).Next())
	assert.Equal(t, Star(9), Star(1).Prev())
	for s := Star(1); s <= 9; s++ {
		assert.Equal(t, s, s.Next().Prev())
	}
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StarCurrent, StateOf(8, 8))
	assert.Equal(t, StarProsperous, StateOf(9, 8))
	assert.Equal(t, StarProsperous, StateOf(1, 8))
	assert.Equal(t, StarDeclining, StateOf(7, 8))
	assert.Equal(t, StarDead, StateOf(5, 8))
	assert.Equal(t, StarProsperous, StateOf(2, 9))
}
