package bot

import (
	"fortytwo/internal/domain"
)

// GoodBot bids its strongest trump suit and plays the cheapest domino that
// takes the trick, or the cheapest legal domino when none can.
type GoodBot struct{}

func (b *GoodBot) CalculateMove(game *domain.GameState, player *domain.Player) (Move, error) {
	if game.Phase == domain.PhaseBidding {
		bid := b.bid(game, player)
		return Move{Bid: &bid}, nil
	}

	legal := domain.LegalPlays(game, player.ID)
	if len(legal) == 0 {
		return Move{}, errNoLegalPlay
	}
	d := b.play(game, player, legal)
	return Move{Domino: &d}, nil
}

// suitStrength scores suit as trump for hand.
type suitStrength struct {
	suit   domain.DominoSuit
	trumps int
	double bool
}

func (s suitStrength) target(count int) int {
	if s.trumps < 3 || (s.trumps == 3 && !s.double) {
		return 0
	}
	amount := domain.MinimumBid + 2*(s.trumps-3) + count/5
	if s.double {
		amount += 2
	}
	return min(amount, domain.MaximumPointBid)
}

func strongestSuit(hand []domain.Domino) suitStrength {
	var best suitStrength
	for _, suit := range domain.AllSuits() {
		trump := domain.SuitTrump(suit)
		s := suitStrength{suit: suit}
		for _, d := range hand {
			if !domain.IsTrumpDomino(d, trump) {
				continue
			}
			s.trumps++
			if domain.GetTrumpRank(d, trump) == topRank(suit) {
				s.double = true
			}
		}
		if s.trumps > best.trumps || (s.trumps == best.trumps && s.double && !best.double) {
			best = s
		}
	}
	return best
}

// topRank is the trump rank of the boss domino of suit.
func topRank(suit domain.DominoSuit) int {
	if suit == domain.SuitDoubles {
		return domain.MaxPip
	}
	return domain.MaxPip + 1
}

func (b *GoodBot) bid(game *domain.GameState, player *domain.Player) domain.Bid {
	if high := game.Bidding.CurrentBid; high != nil {
		if game.Partnerships.TeamOf(high.PlayerID) == game.Partnerships.TeamOf(player.ID) {
			return domain.PassBid(player.ID)
		}
	}
	best := strongestSuit(player.Hand)
	target := best.target(domain.SumPoints(domain.CountDominoes(player.Hand)))
	floor := domain.GetMinimumBidAmount(game.Bidding.CurrentBid)
	if target == 0 || floor > target {
		return domain.PassBid(player.ID)
	}
	return domain.PointBid(player.ID, floor, best.suit)
}

func (b *GoodBot) play(game *domain.GameState, player *domain.Player, legal []domain.Domino) domain.Domino {
	trump := *game.Trump
	if len(legal) == 1 {
		return legal[0]
	}

	team := game.Partnerships.TeamOf(player.ID)
	bidding := game.Partnerships.BiddingTeam() == team

	if game.Contract() == domain.ContractNello && bidding {
		var losing []domain.Domino
		for _, d := range legal {
			if !wouldWin(game, player, d) {
				losing = append(losing, d)
			}
		}
		if len(losing) > 0 {
			return highest(losing, trump)
		}
		return lowest(legal, trump)
	}

	if len(game.CurrentTrick.Dominoes) == 0 {
		var trumps []domain.Domino
		for _, d := range legal {
			if domain.IsTrumpDomino(d, trump) {
				trumps = append(trumps, d)
			}
		}
		if bidding && len(trumps) > 0 {
			return highest(trumps, trump)
		}
		return lowest(legal, trump)
	}

	if w := currentWinner(game); w != "" && game.Partnerships.TeamOf(w) == team {
		return smear(legal, trump)
	}

	var winning []domain.Domino
	for _, d := range legal {
		if wouldWin(game, player, d) {
			winning = append(winning, d)
		}
	}
	if len(winning) > 0 {
		return lowest(winning, trump)
	}
	return lowest(legal, trump)
}

// smear gives count to a partner who holds the trick, keeping trumps.
func smear(legal []domain.Domino, trump domain.TrumpSystem) domain.Domino {
	var best *domain.Domino
	for i, d := range legal {
		if domain.IsTrumpDomino(d, trump) || !d.IsCountDomino {
			continue
		}
		if best == nil || d.PointValue > best.PointValue {
			best = &legal[i]
		}
	}
	if best != nil {
		return *best
	}
	return lowest(legal, trump)
}
