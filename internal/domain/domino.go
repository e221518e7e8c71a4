package domain

import (
	"fmt"
	"sort"
)

// Domino is one tile of a double-six set. High is never below Low.
type Domino struct {
	High          int  `json:"high"`
	Low           int  `json:"low"`
	PointValue    int  `json:"pointValue"`
	IsCountDomino bool `json:"isCountDomino"`
}

// CalculateDominoPointValue returns the count value of a pair: 10 when the
// pips sum to ten (5-5, 6-4), 5 when they sum to five (5-0, 4-1, 3-2), else 0.
func CalculateDominoPointValue(high, low int) int {
	switch high + low {
	case 10:
		return 10
	case 5:
		return 5
	default:
		return 0
	}
}

// NewDomino builds a domino, ordering the ends so High >= Low.
func NewDomino(high, low int) (Domino, error) {
	if high < MinPip || high > MaxPip || low < MinPip || low > MaxPip {
		return Domino{}, fmt.Errorf("%w: %d-%d", ErrInvalidRange, high, low)
	}
	if low > high {
		high, low = low, high
	}
	points := CalculateDominoPointValue(high, low)
	return Domino{High: high, Low: low, PointValue: points, IsCountDomino: points > 0}, nil
}

// MustDomino is NewDomino for literal values known to be in range.
func MustDomino(high, low int) Domino {
	d, err := NewDomino(high, low)
	if err != nil {
		panic(err)
	}
	return d
}

// IsDouble reports whether both ends match.
func (d Domino) IsDouble() bool { return d.High == d.Low }

// PipSum is the total number of pips.
func (d Domino) PipSum() int { return d.High + d.Low }

// Has reports whether either end shows pip.
func (d Domino) Has(pip int) bool { return d.High == pip || d.Low == pip }

// Other returns the end opposite pip. For a double it returns pip.
func (d Domino) Other(pip int) int {
	if d.High == pip {
		return d.Low
	}
	return d.High
}

// SameAs compares identity (the unordered pair), ignoring derived fields.
func (d Domino) SameAs(o Domino) bool {
	return (d.High == o.High && d.Low == o.Low) || (d.High == o.Low && d.Low == o.High)
}

func (d Domino) String() string {
	return fmt.Sprintf("%d-%d", d.High, d.Low)
}

// key is a compact identity for set membership checks.
func (d Domino) key() int {
	h, l := d.High, d.Low
	if l > h {
		h, l = l, h
	}
	return h*10 + l
}

// DominoSet is a full double-six set with its self-check results.
type DominoSet struct {
	Dominoes    []Domino `json:"dominoes"`
	TotalPoints int      `json:"totalPoints"`
	IsValid     bool     `json:"isValid"`
}

// NewFullDominoSet enumerates the 28 dominoes ordered 0-0, 1-0, 1-1, ... 6-6.
// IsValid is false only if the construction itself is wrong.
func NewFullDominoSet() DominoSet {
	set := DominoSet{Dominoes: make([]Domino, 0, DominoCount)}
	for high := MinPip; high <= MaxPip; high++ {
		for low := MinPip; low <= high; low++ {
			d := MustDomino(high, low)
			set.Dominoes = append(set.Dominoes, d)
			set.TotalPoints += d.PointValue
		}
	}
	set.IsValid = len(set.Dominoes) == DominoCount &&
		set.TotalPoints == TotalCountPoints &&
		!hasDuplicateDominoes(set.Dominoes)
	return set
}

// CountDominoes filters the dominoes worth points.
func CountDominoes(dominoes []Domino) []Domino {
	var out []Domino
	for _, d := range dominoes {
		if d.IsCountDomino {
			out = append(out, d)
		}
	}
	return out
}

// SumPoints totals the count value of dominoes.
func SumPoints(dominoes []Domino) int {
	total := 0
	for _, d := range dominoes {
		total += d.PointValue
	}
	return total
}

// CountDoubles returns how many doubles are in a hand.
func CountDoubles(hand []Domino) int {
	n := 0
	for _, d := range hand {
		if d.IsDouble() {
			n++
		}
	}
	return n
}

// ContainsDomino reports whether target is present in dominoes.
func ContainsDomino(dominoes []Domino, target Domino) bool {
	return indexOfDomino(dominoes, target) >= 0
}

// RemoveDomino returns a copy of hand without target, and whether it was found.
func RemoveDomino(hand []Domino, target Domino) ([]Domino, bool) {
	idx := indexOfDomino(hand, target)
	if idx < 0 {
		return hand, false
	}
	out := make([]Domino, 0, len(hand)-1)
	out = append(out, hand[:idx]...)
	out = append(out, hand[idx+1:]...)
	return out, true
}

// SortDominoes orders dominoes by high end then low end, descending.
func SortDominoes(dominoes []Domino) {
	sort.Slice(dominoes, func(i, j int) bool {
		if dominoes[i].High != dominoes[j].High {
			return dominoes[i].High > dominoes[j].High
		}
		return dominoes[i].Low > dominoes[j].Low
	})
}

func indexOfDomino(dominoes []Domino, target Domino) int {
	for i, d := range dominoes {
		if d.SameAs(target) {
			return i
		}
	}
	return -1
}

func hasDuplicateDominoes(dominoes []Domino) bool {
	seen := make(map[int]bool, len(dominoes))
	for _, d := range dominoes {
		if seen[d.key()] {
			return true
		}
		seen[d.key()] = true
	}
	return false
}
