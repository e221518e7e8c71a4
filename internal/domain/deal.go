package domain

import "math/rand"

// ShuffledSet returns the 28 dominoes in an order drawn from rng.
func ShuffledSet(rng *rand.Rand) []Domino {
	out := NewFullDominoSet().Dominoes
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SplitHands deals dominoes HandSize at a time, starting with the player left
// of the dealer and going clockwise. Leftovers go to the boneyard.
func SplitHands(g *GameState, dealer string, dominoes []Domino) (map[string][]Domino, []Domino) {
	hands := make(map[string][]Domino, len(g.Players))
	d, ok := g.Player(dealer)
	if !ok {
		return hands, append([]Domino(nil), dominoes...)
	}
	pos := d.Position
	idx := 0
	for n := 0; n < PlayerCount; n++ {
		pos = pos.Next()
		p, ok := g.PlayerAt(pos)
		if !ok || idx+HandSize > len(dominoes) {
			continue
		}
		hands[p.ID] = append([]Domino(nil), dominoes[idx:idx+HandSize]...)
		idx += HandSize
	}
	return hands, append([]Domino(nil), dominoes[idx:]...)
}

// NextDealer is the dealer for the hand after the current one.
func NextDealer(g *GameState) string {
	if g.HandNumber == 0 {
		return g.Dealer
	}
	d, ok := g.Player(g.Dealer)
	if !ok {
		return g.Dealer
	}
	next, ok := g.PlayerAt(d.Position.Next())
	if !ok {
		return g.Dealer
	}
	return next.ID
}
