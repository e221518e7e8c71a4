package bot

import (
	"fmt"
	"strings"

	"fortytwo/internal/domain"
)

// Move represents the decision made by the AI. Exactly one of Bid and
// Domino is set.
type Move struct {
	Bid    *domain.Bid
	Domino *domain.Domino
}

// IsBid reports whether the move is a bid rather than a play.
func (m Move) IsBid() bool { return m.Bid != nil }

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	CalculateMove(game *domain.GameState, player *domain.Player) (Move, error)
}

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelRandom BotLevel = iota
	BotLevelGood
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelRandom:
		return "random"
	case BotLevelGood:
		return "good"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a difficulty name to a level. "easy" and "random" select
// the random bot; "medium", "hard" and "good" select the good bot.
func ParseLevel(name string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random", "easy":
		return BotLevelRandom, nil
	case "", "good", "medium", "hard":
		return BotLevelGood, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", name)
	}
}
