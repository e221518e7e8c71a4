package bot

import (
	"errors"

	"fortytwo/internal/domain"
)

var errNoLegalPlay = errors.New("no legal play")

// bidForAmount builds the bid worth amount: points up to 41, whole marks above.
func bidForAmount(playerID string, amount int, trump domain.DominoSuit) domain.Bid {
	if amount <= domain.MaximumPointBid {
		return domain.PointBid(playerID, amount, trump)
	}
	return domain.MarkBid(playerID, domain.ConvertBidToMarks(amount), trump)
}

// weight orders dominoes by how costly they are to give up. Trumps weigh
// most, then count dominoes, then pips.
func weight(d domain.Domino, trump domain.TrumpSystem) int {
	if r := domain.GetTrumpRank(d, trump); r >= 0 {
		return 1000 + r
	}
	return d.PointValue*10 + d.PipSum()
}

func lowest(dominoes []domain.Domino, trump domain.TrumpSystem) domain.Domino {
	best := dominoes[0]
	for _, d := range dominoes[1:] {
		if weight(d, trump) < weight(best, trump) {
			best = d
		}
	}
	return best
}

func highest(dominoes []domain.Domino, trump domain.TrumpSystem) domain.Domino {
	best := dominoes[0]
	for _, d := range dominoes[1:] {
		if weight(d, trump) > weight(best, trump) {
			best = d
		}
	}
	return best
}

// wouldWin reports whether playing d now takes the current trick so far.
func wouldWin(game *domain.GameState, player *domain.Player, d domain.Domino) bool {
	trick := game.CurrentTrick.Add(player.ID, player.Position, d, *game.Trump)
	idx := domain.TrickWinnerIndex(trick.Dominoes, trick.LeadSuit, *game.Trump, game.Contract())
	return idx == len(trick.Dominoes)-1
}

// currentWinner returns the player currently taking the trick, or "".
func currentWinner(game *domain.GameState) string {
	plays := game.CurrentTrick.Dominoes
	if len(plays) == 0 {
		return ""
	}
	return plays[domain.TrickWinnerIndex(plays, game.CurrentTrick.LeadSuit, *game.Trump, game.Contract())].PlayerID
}
