package nakama

import (
	"errors"
	"fmt"

	"fortytwo/internal/app"
	"fortytwo/internal/bot"
	"fortytwo/internal/domain"
)

// PlaceBidRequest is the OpPlaceBid body. The bidder is always the sender.
type PlaceBidRequest struct {
	Type          domain.BidType       `json:"type"`
	Amount        int                  `json:"amount,omitempty"`
	Marks         int                  `json:"marks,omitempty"`
	Trump         domain.DominoSuit    `json:"trump,omitempty"`
	Contract      domain.ContractType  `json:"contract,omitempty"`
	DoublesOption domain.DoublesOption `json:"doublesOption,omitempty"`
}

func (r PlaceBidRequest) move(senderID string) bot.Move {
	return bot.Move{Bid: &domain.Bid{
		Type:          r.Type,
		PlayerID:      senderID,
		Amount:        r.Amount,
		Marks:         r.Marks,
		Trump:         r.Trump,
		Contract:      r.Contract,
		DoublesOption: r.DoublesOption,
	}}
}

// PlayDominoRequest is the OpPlayDomino body.
type PlayDominoRequest struct {
	High int `json:"high"`
	Low  int `json:"low"`
}

func (r PlayDominoRequest) move() (bot.Move, error) {
	d, err := domain.NewDomino(r.High, r.Low)
	if err != nil {
		return bot.Move{}, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return bot.Move{Domino: &d}, nil
}

// SeatSnapshot is one seat of the OpMatchState broadcast.
type SeatSnapshot struct {
	Seat              int             `json:"seat"`
	UserID            string          `json:"userId"`
	DisplayName       string          `json:"displayName"`
	Position          domain.Position `json:"position"`
	IsOwner           bool            `json:"isOwner"`
	IsBot             bool            `json:"isBot"`
	IsConnected       bool            `json:"isConnected"`
	DominoesRemaining int             `json:"dominoesRemaining"`
}

// MatchSnapshot is the public view of a match; hands are never included.
type MatchSnapshot struct {
	Seats         []SeatSnapshot `json:"seats"`
	OwnerSeat     int            `json:"ownerSeat"`
	Tick          int64          `json:"tick"`
	Phase         string         `json:"phase"`
	HandNumber    int            `json:"handNumber,omitempty"`
	CurrentPlayer string         `json:"currentPlayer,omitempty"`
	MarksNS       int            `json:"marksNorthSouth"`
	MarksEW       int            `json:"marksEastWest"`
	MarksToWin    int            `json:"marksToWin"`
}

// ErrorPayload is sent privately on OpGameError.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	errNotOwner         = errors.New("only the match owner can start the game")
	errGameInProgress   = errors.New("a game is already in progress")
	errGameNotStarted   = errors.New("game not started")
	errNotEnoughPlayers = errors.New("four seated players are required")
	errNotSeated        = errors.New("sender is not seated")
	errBadPayload       = errors.New("malformed request")
)

// errorCode maps an error to the code clients switch on.
func errorCode(err error) string {
	if code := domain.CodeOf(err); code != "" {
		return string(code)
	}
	switch {
	case errors.Is(err, errNotOwner):
		return "NOT_OWNER"
	case errors.Is(err, errGameInProgress):
		return "GAME_IN_PROGRESS"
	case errors.Is(err, errGameNotStarted):
		return "GAME_NOT_STARTED"
	case errors.Is(err, errNotEnoughPlayers), errors.Is(err, app.ErrTooFewPlayers):
		return "NOT_ENOUGH_PLAYERS"
	case errors.Is(err, errNotSeated):
		return "NOT_SEATED"
	case errors.Is(err, app.ErrGameOver):
		return string(domain.CodeGameComplete)
	case errors.Is(err, errBadPayload):
		return "BAD_REQUEST"
	default:
		return "INTERNAL"
	}
}

var eventOpCodes = map[app.EventKind]int64{
	app.EventGameStarted:     OpGameStarted,
	app.EventHandDealt:       OpHandDealt,
	app.EventHandStarted:     OpHandStarted,
	app.EventBidPlaced:       OpBidPlaced,
	app.EventBiddingComplete: OpBiddingComplete,
	app.EventRedeal:          OpRedeal,
	app.EventDominoPlayed:    OpDominoPlayed,
	app.EventTrickCompleted:  OpTrickCompleted,
	app.EventHandScored:      OpHandScored,
	app.EventGameEnded:       OpGameEnded,
}
