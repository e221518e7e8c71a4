package app

import (
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"fortytwo/internal/domain"
)

// Service contains Texas 42 use-cases operating on domain state. It never
// mutates a state it is given; every method returns the next state.
type Service struct {
	rng    *rand.Rand
	logger *slog.Logger
	rules  domain.Rules
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRules sets the table rules for new games.
func WithRules(r domain.Rules) Option {
	return func(s *Service) { s.rules = r.Normalize() }
}

// WithClock sets the time source used to stamp bids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, opts ...Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{
		rng:    rng,
		logger: slog.Default(),
		rules:  domain.DefaultRules(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrTooFewPlayers  = errors.New("four seated players are required to start")
	ErrGameOver       = errors.New("game is over")
	ErrHandInProgress = errors.New("current hand has not been scored")
	ErrNilGame        = errors.New("game state is nil")
)

// Rules returns the rules new games are started with.
func (s *Service) Rules() domain.Rules { return s.rules }

// StartGame seats the players, picks a random first dealer and deals the
// first hand. An empty gameID is replaced with a fresh UUID.
func (s *Service) StartGame(gameID string, players []domain.Player) (*domain.GameState, []Event, error) {
	if len(players) != domain.PlayerCount {
		return nil, nil, ErrTooFewPlayers
	}
	if gameID == "" {
		gameID = uuid.NewString()
	}
	dealer := players[s.rng.Intn(len(players))].ID

	game, err := domain.NewGame(gameID, players, dealer, s.rules)
	if err != nil {
		return nil, nil, s.reject("StartGame", gameID, err)
	}

	seats := make([]SeatPayload, 0, len(game.Players))
	for _, p := range game.Players {
		seats = append(seats, SeatPayload{UserID: p.ID, Name: p.Name, Position: p.Position, IsBot: p.IsBot})
	}
	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:     game.ID,
			Players:    seats,
			MarksToWin: game.MarksToWin,
			Phase:      game.Phase,
		},
	}}

	game, dealt, err := s.deal(game)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("game started", "game_id", game.ID, "dealer", game.Dealer, "marks_to_win", game.MarksToWin)
	return game, append(events, dealt...), nil
}

// PlaceBid applies a bid. When all four players pass the hand is redealt
// with the deal passed to the left.
func (s *Service) PlaceBid(game *domain.GameState, bid domain.Bid) (*domain.GameState, []Event, error) {
	if game == nil {
		return nil, nil, ErrNilGame
	}
	if game.GameComplete {
		return nil, nil, ErrGameOver
	}
	if bid.Timestamp == 0 {
		bid.Timestamp = s.now().UnixMilli()
	}

	next, err := domain.ApplyBid(game, bid)
	if err != nil {
		return nil, nil, s.reject("PlaceBid", game.ID, err)
	}

	events := []Event{{
		Kind:    EventBidPlaced,
		Payload: BidPlacedPayload{UserID: bid.PlayerID, Bid: bid, NextBidder: next.Bidding.CurrentBidder},
	}}

	switch {
	case next.Bidding.Redeal:
		s.logger.Info("all players passed, redealing", "game_id", next.ID, "hand", next.HandNumber)
		events = append(events, Event{Kind: EventRedeal, Payload: RedealPayload{HandNumber: next.HandNumber}})
		redealt, dealt, err := s.deal(next)
		if err != nil {
			return nil, nil, err
		}
		return redealt, append(events, dealt...), nil

	case next.Bidding.BiddingComplete:
		win := *next.WinningBid
		s.logger.Info("bidding complete", "game_id", next.ID, "hand", next.HandNumber, "winner", win.PlayerID, "bid", win.String())
		events = append(events, Event{
			Kind: EventBiddingComplete,
			Payload: BiddingCompletePayload{
				Winner:     win.PlayerID,
				Bid:        win,
				Trump:      *next.Trump,
				SittingOut: next.SittingOut,
			},
		})
	}
	return next, events, nil
}

// PlayDomino plays a domino and reports trick, hand and game completion.
func (s *Service) PlayDomino(game *domain.GameState, userID string, d domain.Domino) (*domain.GameState, []Event, error) {
	if game == nil {
		return nil, nil, ErrNilGame
	}
	if game.GameComplete {
		return nil, nil, ErrGameOver
	}

	next, err := domain.PlayDomino(game, userID, d)
	if err != nil {
		return nil, nil, s.reject("PlayDomino", game.ID, err)
	}

	played, _ := domain.NewDomino(d.High, d.Low)
	events := []Event{{
		Kind:    EventDominoPlayed,
		Payload: DominoPlayedPayload{UserID: userID, Domino: played, NextTurnUserID: next.CurrentPlayer},
	}}
	if len(next.Tricks) > len(game.Tricks) {
		trick := next.Tricks[len(next.Tricks)-1]
		events = append(events, Event{Kind: EventTrickCompleted, Payload: TrickCompletedPayload{Trick: trick}})
	}
	if len(next.HandHistory) > len(game.HandHistory) {
		hs, _ := next.LastHandScore()
		s.logger.Info("hand scored",
			"game_id", next.ID,
			"hand", hs.HandNumber,
			"bid", hs.WinningBid.String(),
			"bidding_team", hs.BiddingTeam,
			"points", hs.TotalPoints,
			"fulfilled", hs.BidFulfilled,
		)
		events = append(events, Event{
			Kind: EventHandScored,
			Payload: HandScoredPayload{
				Score:      hs,
				MarksNS:    next.Partnerships.NorthSouth.Marks,
				MarksEW:    next.Partnerships.EastWest.Marks,
				MarksToWin: next.MarksToWin,
			},
		})
	}
	if next.GameComplete {
		s.logger.Info("game over", "game_id", next.ID, "winner", next.Winner)
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				Winner:  next.Winner,
				MarksNS: next.Partnerships.NorthSouth.Marks,
				MarksEW: next.Partnerships.EastWest.Marks,
			},
		})
	}
	return next, events, nil
}

// NextHand deals the next hand once the current one is scored.
func (s *Service) NextHand(game *domain.GameState) (*domain.GameState, []Event, error) {
	if game == nil {
		return nil, nil, ErrNilGame
	}
	if game.GameComplete {
		return nil, nil, ErrGameOver
	}
	if game.Phase != domain.PhaseScoring {
		return nil, nil, ErrHandInProgress
	}
	return s.deal(game)
}

func (s *Service) deal(game *domain.GameState) (*domain.GameState, []Event, error) {
	dealer := domain.NextDealer(game)
	hands, boneyard := domain.SplitHands(game, dealer, domain.ShuffledSet(s.rng))
	next, err := domain.DealHand(game, hands, boneyard)
	if err != nil {
		return nil, nil, s.reject("DealHand", game.ID, err)
	}

	events := make([]Event, 0, len(next.Players)+1)
	for _, p := range next.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: p.ID, HandNumber: next.HandNumber, Hand: p.Hand},
			Recipients: []string{p.ID},
		})
	}
	events = append(events, Event{
		Kind: EventHandStarted,
		Payload: HandStartedPayload{
			HandNumber:  next.HandNumber,
			Dealer:      next.Dealer,
			FirstBidder: next.Bidding.CurrentBidder,
		},
	})
	s.logger.Debug("hand dealt", "game_id", next.ID, "hand", next.HandNumber, "dealer", next.Dealer)
	return next, events, nil
}

// reject logs a failed action; invariant defects log at error level.
func (s *Service) reject(op, gameID string, err error) error {
	attrs := []any{"op", op, "game_id", gameID, "code", domain.CodeOf(err), "error", err}
	if domain.IsDefect(err) {
		s.logger.Error("invalid game state", attrs...)
	} else {
		s.logger.Warn("rule violation", attrs...)
	}
	return err
}
