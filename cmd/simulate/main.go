// Command simulate plays a Texas 42 game between four bots and prints it.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pterm/pterm"

	"fortytwo/internal/app"
	"fortytwo/internal/bot"
	"fortytwo/internal/config"
	"fortytwo/internal/domain"
)

type settings struct {
	Seed       int64  `env:"FORTYTWO_SEED"`
	MarksToWin int    `env:"FORTYTWO_MARKS_TO_WIN"`
	ConfigPath string `env:"FORTYTWO_CONFIG"`
	BotLevel   string `env:"FORTYTWO_BOT_LEVEL" envDefault:"good"`
	Verbose    bool   `env:"FORTYTWO_VERBOSE"`
}

// maxSteps bounds a runaway game.
const maxSteps = 100000

func main() {
	if err := run(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run() error {
	var s settings
	if err := env.Parse(&s); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return err
	}
	rules := cfg.Rules()
	if s.MarksToWin > 0 {
		rules.MarksToWin = s.MarksToWin
	}
	level, err := bot.ParseLevel(s.BotLevel)
	if err != nil {
		return err
	}
	if s.Seed == 0 {
		s.Seed = time.Now().UnixNano()
	}

	logLevel := pterm.LogLevelWarn
	if s.Verbose {
		logLevel = pterm.LogLevelDebug
	}
	logger := slog.New(pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(logLevel)))

	svc := app.NewService(rand.New(rand.NewSource(s.Seed)), app.WithRules(rules), app.WithLogger(logger))

	players := make([]domain.Player, 0, domain.PlayerCount)
	agents := make(map[string]*bot.Agent, domain.PlayerCount)
	for i, pos := range domain.Positions {
		identity := bot.GetBotIdentity(i)
		brain, err := bot.NewBrain(level, rand.New(rand.NewSource(s.Seed+int64(i)+1)))
		if err != nil {
			return err
		}
		players = append(players, domain.Player{ID: identity.UserID, Name: identity.DisplayName, Position: pos, IsBot: true, IsConnected: true})
		agents[identity.UserID] = &bot.Agent{ID: identity.UserID, Name: identity.DisplayName, Strategy: brain}
	}

	pterm.DefaultHeader.WithFullWidth().Println("Texas 42")
	pterm.Info.Printfln("seed %d, %s bots, %d marks to win", s.Seed, level, rules.MarksToWin)

	r := &renderer{names: map[string]string{}}
	for _, p := range players {
		r.names[p.ID] = p.Name
	}

	game, events, err := svc.StartGame("", players)
	if err != nil {
		return err
	}
	r.render(events)

	for steps := 0; !game.GameComplete; steps++ {
		if steps > maxSteps {
			return fmt.Errorf("game %s did not finish after %d moves", game.ID, maxSteps)
		}
		if game.Phase == domain.PhaseScoring {
			if game, events, err = svc.NextHand(game); err != nil {
				return err
			}
			r.render(events)
			continue
		}

		current := game.CurrentPlayer
		if game.Phase == domain.PhaseBidding {
			current = game.Bidding.CurrentBidder
		}
		move, err := agents[current].Play(game)
		if err != nil {
			return fmt.Errorf("%s: %w", r.names[current], err)
		}
		if move.IsBid() {
			game, events, err = svc.PlaceBid(game, *move.Bid)
		} else {
			game, events, err = svc.PlayDomino(game, current, *move.Domino)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", r.names[current], err)
		}
		r.render(events)
	}

	return r.summary(game)
}

type renderer struct {
	names map[string]string
}

func (r *renderer) render(events []app.Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.HandStartedPayload:
			pterm.DefaultSection.Printfln("Hand %d, %s deals", p.HandNumber, r.names[p.Dealer])
		case app.RedealPayload:
			pterm.Warning.Println("Everyone passed, redealing")
		case app.BidPlacedPayload:
			pterm.Printfln("  %-12s %s", r.names[p.UserID], p.Bid.String())
		case app.BiddingCompletePayload:
			pterm.Info.Printfln("%s wins the bid with %s", r.names[p.Winner], pterm.LightCyan(p.Bid.String()))
			if p.SittingOut != "" {
				pterm.Info.Printfln("%s sits out", r.names[p.SittingOut])
			}
		case app.TrickCompletedPayload:
			plays := ""
			for _, pd := range p.Trick.Dominoes {
				plays += fmt.Sprintf(" %s", pd.Domino)
			}
			pterm.Printfln("  trick %d:%s  -> %s (%d)", p.Trick.Number, plays, r.names[p.Trick.Winner], p.Trick.PointValue)
		case app.HandScoredPayload:
			result := pterm.LightRed("set")
			if p.Score.BidFulfilled {
				result = pterm.LightGreen("made")
			}
			body := pterm.Sprintfln("%s bid %s and took %d points: %s", p.Score.BiddingTeam, p.Score.WinningBid.String(), p.Score.TotalPoints, result)
			body += pterm.Sprintf("marks  north/south %d  east/west %d  (to %d)", p.MarksNS, p.MarksEW, p.MarksToWin)
			pterm.DefaultBox.WithTitle(fmt.Sprintf("|HAND %d|", p.Score.HandNumber)).WithTitleTopCenter().Println(body)
		case app.GameEndedPayload:
			pterm.Success.Printfln("%s win %d to %d", p.Winner, max(p.MarksNS, p.MarksEW), min(p.MarksNS, p.MarksEW))
		}
	}
}

// summary prints the hand history table.
func (r *renderer) summary(game *domain.GameState) error {
	data := pterm.TableData{{"Hand", "Bidder", "Bid", "Points", "Result", "NS", "EW"}}
	ns, ew := 0, 0
	for _, hs := range game.HandHistory {
		ns += hs.MarksAwarded.NorthSouth
		ew += hs.MarksAwarded.EastWest
		result := "set"
		if hs.BidFulfilled {
			result = "made"
		}
		data = append(data, []string{
			strconv.Itoa(hs.HandNumber),
			r.names[hs.WinningBid.PlayerID],
			hs.WinningBid.String(),
			strconv.Itoa(hs.TotalPoints),
			result,
			strconv.Itoa(ns),
			strconv.Itoa(ew),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}
