package bot

import (
	"math/rand"

	"fortytwo/internal/domain"
)

// RandomBot passes half the time and otherwise makes a random legal move.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) CalculateMove(game *domain.GameState, player *domain.Player) (Move, error) {
	if game.Phase == domain.PhaseBidding {
		bid := b.bid(game, player)
		return Move{Bid: &bid}, nil
	}

	legal := domain.LegalPlays(game, player.ID)
	if len(legal) == 0 {
		return Move{}, errNoLegalPlay
	}
	d := legal[b.rng.Intn(len(legal))]
	return Move{Domino: &d}, nil
}

func (b *RandomBot) bid(game *domain.GameState, player *domain.Player) domain.Bid {
	amounts := domain.LegalBidAmounts(game.Bidding.CurrentBid, game.Rules)
	if len(amounts) == 0 || b.rng.Intn(2) == 0 {
		return domain.PassBid(player.ID)
	}
	// Stay near the floor so random tables still play hands out.
	n := min(len(amounts), 3)
	suits := domain.AllSuits()
	return bidForAmount(player.ID, amounts[b.rng.Intn(n)], suits[b.rng.Intn(len(suits))])
}
