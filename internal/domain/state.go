package domain

// Phase is the stage of the current hand.
type Phase string

const (
	PhaseBidding  Phase = "bidding"
	PhasePlaying  Phase = "playing"
	PhaseScoring  Phase = "scoring"
	PhaseFinished Phase = "finished"
)

// IsValid reports whether p is a known phase.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseBidding, PhasePlaying, PhaseScoring, PhaseFinished:
		return true
	default:
		return false
	}
}

// phaseTransitions lists the legal moves of the hand lifecycle. A redeal
// stays in bidding.
var phaseTransitions = map[Phase][]Phase{
	PhaseBidding: {PhaseBidding, PhasePlaying},
	PhasePlaying: {PhaseScoring},
	PhaseScoring: {PhaseBidding, PhaseFinished},
}

// CanTransition reports whether the lifecycle allows moving from one phase to another.
func CanTransition(from, to Phase) bool {
	for _, p := range phaseTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Player is a seated participant. Hand holds the dominoes not yet played.
type Player struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Position    Position `json:"position"`
	Hand        []Domino `json:"hand"`
	IsConnected bool     `json:"isConnected"`
	IsBot       bool     `json:"isBot"`
}

// GameState is the aggregate of one game. Engine operations never modify a
// GameState in place; they return a new one.
type GameState struct {
	ID            string           `json:"id"`
	Phase         Phase            `json:"phase"`
	Players       []Player         `json:"players"`
	Dealer        string           `json:"dealer"`
	CurrentPlayer string           `json:"currentPlayer"`
	Partnerships  PartnershipState `json:"partnerships"`
	Bidding       BiddingState     `json:"bidding"`
	WinningBid    *Bid             `json:"winningBid,omitempty"`
	Trump         *TrumpSystem     `json:"trump,omitempty"`
	SittingOut    string           `json:"sittingOut,omitempty"`
	CurrentTrick  *Trick           `json:"currentTrick,omitempty"`
	Tricks        []Trick          `json:"tricks"`
	Boneyard      []Domino         `json:"boneyard"`
	Scoring       ScoringState     `json:"scoring"`
	HandNumber    int              `json:"handNumber"`
	HandHistory   []HandScore      `json:"handHistory"`
	MarksToWin    int              `json:"marksToWin"`
	Rules         Rules            `json:"rules"`
	GameComplete  bool             `json:"gameComplete"`
	Winner        PartnershipID    `json:"winner,omitempty"`

	// ValidationErrors carries non-blocking findings from the last transition.
	ValidationErrors []RuleError `json:"validationErrors,omitempty"`
}

// NewEmptyGameState returns an unseated game under the default rules.
func NewEmptyGameState(gameID string) *GameState {
	rules := DefaultRules()
	return &GameState{
		ID:           gameID,
		Phase:        PhaseBidding,
		Partnerships: NewPartnershipState(nil),
		Scoring:      NewEmptyScoringState(),
		MarksToWin:   rules.MarksToWin,
		Rules:        rules,
	}
}

// NewGame seats four players and names the first dealer. No dominoes are dealt yet.
func NewGame(gameID string, players []Player, dealer string, rules Rules) (*GameState, error) {
	rules = rules.Normalize()
	g := NewEmptyGameState(gameID)
	g.Rules = rules
	g.MarksToWin = rules.MarksToWin
	g.Players = make([]Player, len(players))
	for i, p := range players {
		p.Hand = nil
		g.Players[i] = p
	}
	g.Dealer = dealer
	g.Partnerships = NewPartnershipState(g.Players)

	res := validateSeating(g)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// Clone returns a deep copy.
func (g *GameState) Clone() *GameState {
	out := *g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		p.Hand = append([]Domino(nil), p.Hand...)
		out.Players[i] = p
	}
	out.Bidding = g.Bidding.clone()
	if g.WinningBid != nil {
		b := *g.WinningBid
		out.WinningBid = &b
	}
	if g.Trump != nil {
		t := *g.Trump
		out.Trump = &t
	}
	if g.CurrentTrick != nil {
		t := g.CurrentTrick.clone()
		out.CurrentTrick = &t
	}
	out.Tricks = make([]Trick, len(g.Tricks))
	for i, t := range g.Tricks {
		out.Tricks[i] = t.clone()
	}
	out.Boneyard = append([]Domino(nil), g.Boneyard...)
	out.Scoring = g.Scoring.clone()
	out.HandHistory = append([]HandScore(nil), g.HandHistory...)
	out.Rules.Contracts = append([]ContractType(nil), g.Rules.Contracts...)
	out.ValidationErrors = append([]RuleError(nil), g.ValidationErrors...)
	return &out
}

// Player returns the player with the given ID.
func (g *GameState) Player(id string) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// PlayerAt returns the player seated at pos.
func (g *GameState) PlayerAt(pos Position) (*Player, bool) {
	for i := range g.Players {
		if g.Players[i].Position == pos {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// NextPlayer returns the next seated player clockwise from id, skipping a
// player who sits out the hand.
func (g *GameState) NextPlayer(id string) string {
	p, ok := g.Player(id)
	if !ok {
		return ""
	}
	pos := p.Position
	for n := 0; n < PlayerCount; n++ {
		pos = pos.Next()
		next, ok := g.PlayerAt(pos)
		if ok && next.ID != g.SittingOut {
			return next.ID
		}
	}
	return ""
}

// ActivePlayers is the number of players taking part in tricks this hand.
func (g *GameState) ActivePlayers() int {
	if g.SittingOut != "" {
		return PlayerCount - 1
	}
	return PlayerCount
}

// Contract returns the special contract in force, or "".
func (g *GameState) Contract() ContractType {
	if g.WinningBid == nil || g.WinningBid.Type != BidSpecial {
		return ""
	}
	return g.WinningBid.Contract
}

// transition moves g to phase to and revalidates the whole state. Blocking
// errors abort the transition; warnings are kept on the state.
func (g *GameState) transition(to Phase) error {
	if !CanTransition(g.Phase, to) {
		return ruleViolation(CodeInvalidPhaseTransition, "phase", "cannot move from %s to %s", g.Phase, to)
	}
	g.Phase = to
	res := ValidateGameState(g)
	if err := res.Err(); err != nil {
		return err
	}
	g.ValidationErrors = res.Warnings
	return nil
}
