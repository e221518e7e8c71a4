package bot

import (
	"errors"

	"fortytwo/internal/domain"
)

var (
	ErrNotSeated = errors.New("bot is not seated in this game")
	ErrNotMyTurn = errors.New("it is not the bot's turn")
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent to calculate its move based on the current game state.
func (a *Agent) Play(game *domain.GameState) (Move, error) {
	player, ok := game.Player(a.ID)
	if !ok {
		return Move{}, ErrNotSeated
	}
	if !a.IsTurn(game) {
		return Move{}, ErrNotMyTurn
	}
	return a.Strategy.CalculateMove(game, player)
}

// IsTurn reports whether the game is waiting on this agent.
func (a *Agent) IsTurn(game *domain.GameState) bool {
	switch game.Phase {
	case domain.PhaseBidding:
		return !game.Bidding.BiddingComplete && game.Bidding.CurrentBidder == a.ID
	case domain.PhasePlaying:
		return game.CurrentPlayer == a.ID
	default:
		return false
	}
}
