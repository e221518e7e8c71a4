package app

import "fortytwo/internal/domain"

// EventKind identifies emitted game events for dispatch to clients.
type EventKind string

const (
	EventGameStarted     EventKind = "game_started"
	EventHandDealt       EventKind = "hand_dealt"
	EventHandStarted     EventKind = "hand_started"
	EventBidPlaced       EventKind = "bid_placed"
	EventBiddingComplete EventKind = "bidding_complete"
	EventRedeal          EventKind = "redeal"
	EventDominoPlayed    EventKind = "domino_played"
	EventTrickCompleted  EventKind = "trick_completed"
	EventHandScored      EventKind = "hand_scored"
	EventGameEnded       EventKind = "game_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID     string        `json:"gameId"`
	Players    []SeatPayload `json:"players"`
	MarksToWin int           `json:"marksToWin"`
	Phase      domain.Phase  `json:"phase"`
}

type SeatPayload struct {
	UserID   string          `json:"userId"`
	Name     string          `json:"name"`
	Position domain.Position `json:"position"`
	IsBot    bool            `json:"isBot"`
}

// HandDealtPayload is sent only to the hand's owner.
type HandDealtPayload struct {
	UserID     string          `json:"userId"`
	HandNumber int             `json:"handNumber"`
	Hand       []domain.Domino `json:"hand"`
}

type HandStartedPayload struct {
	HandNumber  int    `json:"handNumber"`
	Dealer      string `json:"dealer"`
	FirstBidder string `json:"firstBidder"`
}

type BidPlacedPayload struct {
	UserID     string     `json:"userId"`
	Bid        domain.Bid `json:"bid"`
	NextBidder string     `json:"nextBidder,omitempty"`
}

type BiddingCompletePayload struct {
	Winner     string             `json:"winner"`
	Bid        domain.Bid         `json:"bid"`
	Trump      domain.TrumpSystem `json:"trump"`
	SittingOut string             `json:"sittingOut,omitempty"`
}

type RedealPayload struct {
	HandNumber int `json:"handNumber"`
}

type DominoPlayedPayload struct {
	UserID         string        `json:"userId"`
	Domino         domain.Domino `json:"domino"`
	NextTurnUserID string        `json:"nextTurnUserId,omitempty"`
}

type TrickCompletedPayload struct {
	Trick domain.Trick `json:"trick"`
}

type HandScoredPayload struct {
	Score      domain.HandScore `json:"score"`
	MarksNS    int              `json:"marksNorthSouth"`
	MarksEW    int              `json:"marksEastWest"`
	MarksToWin int              `json:"marksToWin"`
}

type GameEndedPayload struct {
	Winner  domain.PartnershipID `json:"winner"`
	MarksNS int                  `json:"marksNorthSouth"`
	MarksEW int                  `json:"marksEastWest"`
}
