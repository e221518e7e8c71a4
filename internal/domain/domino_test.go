package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDominoAllPairs(t *testing.T) {
	counted := map[string]int{}
	for high := MinPip; high <= MaxPip; high++ {
		for low := MinPip; low <= high; low++ {
			d, err := NewDomino(high, low)
			require.NoError(t, err)
			assert.Contains(t, []int{0, 5, 10}, d.PointValue)
			assert.Equal(t, d.PointValue > 0, d.IsCountDomino)
			if d.IsCountDomino {
				counted[d.String()] = d.PointValue
			}
		}
	}
	assert.Equal(t, map[string]int{"5-5": 10, "6-4": 10, "4-1": 5, "5-0": 5, "3-2": 5}, counted)
}

func TestNewDominoOrdersEnds(t *testing.T) {
	d, err := NewDomino(2, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, d.High)
	assert.Equal(t, 2, d.Low)
}

func TestNewDominoInvalidRange(t *testing.T) {
	tests := []struct {
		name      string
		high, low int
	}{
		{name: "high above six", high: 7, low: 0},
		{name: "negative low", high: 3, low: -1},
		{name: "both out", high: 9, low: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDomino(tt.high, tt.low)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRange))
		})
	}
}

func TestNewFullDominoSet(t *testing.T) {
	set := NewFullDominoSet()
	assert.True(t, set.IsValid)
	assert.Len(t, set.Dominoes, DominoCount)
	assert.Equal(t, TotalCountPoints, set.TotalPoints)
	assert.False(t, hasDuplicateDominoes(set.Dominoes))
	assert.Len(t, CountDominoes(set.Dominoes), 5)
	assert.Equal(t, 7, CountDoubles(set.Dominoes))
}

func TestRemoveDomino(t *testing.T) {
	hand := []Domino{MustDomino(6, 6), MustDomino(5, 4), MustDomino(1, 0)}

	out, ok := RemoveDomino(hand, Domino{High: 4, Low: 5})
	require.True(t, ok)
	assert.Equal(t, []Domino{MustDomino(6, 6), MustDomino(1, 0)}, out)
	assert.Len(t, hand, 3, "input hand must not change")

	_, ok = RemoveDomino(hand, MustDomino(3, 3))
	assert.False(t, ok)
}

func TestSortDominoes(t *testing.T) {
	hand := []Domino{MustDomino(1, 0), MustDomino(6, 2), MustDomino(6, 6), MustDomino(3, 3)}
	SortDominoes(hand)
	assert.Equal(t, []string{"6-6", "6-2", "3-3", "1-0"}, []string{hand[0].String(), hand[1].String(), hand[2].String(), hand[3].String()})
}

func TestIsValidDomino(t *testing.T) {
	tests := []struct {
		name string
		d    Domino
		want bool
	}{
		{name: "built", d: MustDomino(6, 4), want: true},
		{name: "blank", d: MustDomino(0, 0), want: true},
		{name: "out of range", d: Domino{High: 7, Low: 0}, want: false},
		{name: "low above high", d: Domino{High: 2, Low: 3, PointValue: 5, IsCountDomino: true}, want: false},
		{name: "bad point value", d: Domino{High: 6, Low: 1, PointValue: 7, IsCountDomino: true}, want: false},
		{name: "point value does not match pips", d: Domino{High: 6, Low: 1, PointValue: 5, IsCountDomino: true}, want: false},
		{name: "missing count flag", d: Domino{High: 5, Low: 5, PointValue: 10}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDomino(tt.d))
		})
	}
}
