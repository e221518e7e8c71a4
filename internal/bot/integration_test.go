package bot

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"fortytwo/internal/app"
	"fortytwo/internal/domain"
)

// playGame drives a whole game between four agents through the app service.
func playGame(t *testing.T, level BotLevel, seed int64) *domain.GameState {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	svc := app.NewService(rng, app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	agents := map[string]*Agent{}
	for _, p := range seatedPlayers() {
		brain, err := NewBrain(level, rand.New(rand.NewSource(seed+int64(len(agents)))))
		if err != nil {
			t.Fatalf("NewBrain failed: %v", err)
		}
		agents[p.ID] = &Agent{ID: p.ID, Name: p.Name, Strategy: brain}
	}

	game, _, err := svc.StartGame("", seatedPlayers())
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	for steps := 0; !game.GameComplete; steps++ {
		if steps > 20000 {
			t.Fatalf("game did not finish, marks %d-%d", game.Partnerships.NorthSouth.Marks, game.Partnerships.EastWest.Marks)
		}
		if game.Phase == domain.PhaseScoring {
			if game, _, err = svc.NextHand(game); err != nil {
				t.Fatalf("NextHand failed: %v", err)
			}
			continue
		}

		var current string
		if game.Phase == domain.PhaseBidding {
			current = game.Bidding.CurrentBidder
		} else {
			current = game.CurrentPlayer
		}
		m, err := agents[current].Play(game)
		if err != nil {
			t.Fatalf("%s failed to move: %v", current, err)
		}
		if m.IsBid() {
			game, _, err = svc.PlaceBid(game, *m.Bid)
		} else {
			game, _, err = svc.PlayDomino(game, current, *m.Domino)
		}
		if err != nil {
			t.Fatalf("%s move rejected: %v", current, err)
		}
	}
	return game
}

func TestBotsPlayFullGame(t *testing.T) {
	for _, level := range []BotLevel{BotLevelRandom, BotLevelGood} {
		t.Run(level.String(), func(t *testing.T) {
			game := playGame(t, level, 42)
			if game.Winner == "" {
				t.Fatal("finished game has no winner")
			}
			if game.Partnerships.Get(game.Winner).Marks < game.MarksToWin {
				t.Errorf("winner %s has %d marks, needs %d", game.Winner, game.Partnerships.Get(game.Winner).Marks, game.MarksToWin)
			}
			if !domain.IsValidGameState(game) {
				t.Errorf("final state invalid: %v", domain.ValidateGameState(game).Errors)
			}
		})
	}
}

func TestAgent_Play(t *testing.T) {
	g := dealtGame(t)

	ghost := &Agent{ID: "ghost", Strategy: &GoodBot{}}
	if _, err := ghost.Play(g); !errors.Is(err, ErrNotSeated) {
		t.Errorf("expected ErrNotSeated, got %v", err)
	}

	east := &Agent{ID: "e", Strategy: &GoodBot{}}
	if _, err := east.Play(g); !errors.Is(err, ErrNotMyTurn) {
		t.Errorf("expected ErrNotMyTurn, got %v", err)
	}
}

func TestRandomBot_BidsAreLegal(t *testing.T) {
	b := &RandomBot{rng: rand.New(rand.NewSource(7))}
	g := dealtGame(t)
	for i := 0; i < 50; i++ {
		p, _ := g.Player("n")
		m, err := b.CalculateMove(g, p)
		if err != nil {
			t.Fatalf("CalculateMove failed: %v", err)
		}
		if res := domain.ValidateBidWithRules(*m.Bid, g.Bidding.CurrentBid, false, g.Rules); !res.IsValid {
			t.Fatalf("random bid %s rejected: %s", m.Bid.String(), res.Message)
		}
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name string
		want BotLevel
		ok   bool
	}{
		{"random", BotLevelRandom, true},
		{"easy", BotLevelRandom, true},
		{"Good", BotLevelGood, true},
		{"hard", BotLevelGood, true},
		{"", BotLevelGood, true},
		{"god", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseLevel(%q) err = %v", tt.name, err)
			}
			if tt.ok && got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}

	if _, err := NewBrain(BotLevel(9), nil); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestIdentitiesWithoutRoster(t *testing.T) {
	id := GetBotIdentity(3)
	if id.UserID != "bot-3" || !IsBot(id.UserID) {
		t.Errorf("unexpected generated identity %+v", id)
	}
	if IsBot("user-1") {
		t.Error("human user reported as bot")
	}
	agent, err := NewAgent(id)
	if err != nil {
		t.Fatalf("NewAgent failed: %v", err)
	}
	if _, ok := agent.Strategy.(*GoodBot); !ok {
		t.Errorf("expected good bot, got %T", agent.Strategy)
	}
}

func TestShippedRosterParses(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "bot_identities.json"))
	if err != nil {
		t.Fatalf("read roster: %v", err)
	}
	var roster []BotIdentity
	if err := json.Unmarshal(data, &roster); err != nil {
		t.Fatalf("parse roster: %v", err)
	}
	if len(roster) < domain.PlayerCount-1 {
		t.Fatalf("roster has %d bots, a solo human needs %d", len(roster), domain.PlayerCount-1)
	}
	for _, identity := range roster {
		if _, err := ParseLevel(identity.Level); err != nil {
			t.Errorf("%s: %v", identity.Username, err)
		}
	}
}
