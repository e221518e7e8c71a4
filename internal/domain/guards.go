package domain

// Guards for data arriving from outside the engine, such as decoded network
// input. Run them before handing untrusted records to engine operations.

// IsValidDomino reports whether d is a well-formed domino: ends in 0..6 with
// High >= Low, and point fields that agree with the pips.
func IsValidDomino(d Domino) bool {
	if d.Low < MinPip || d.High > MaxPip || d.High < d.Low {
		return false
	}
	switch d.PointValue {
	case 0, 5, 10:
	default:
		return false
	}
	if d.PointValue != CalculateDominoPointValue(d.High, d.Low) {
		return false
	}
	return d.IsCountDomino == (d.PointValue > 0)
}

// IsValidPlayer reports whether p has an ID, a seat and a sane hand.
func IsValidPlayer(p Player) bool {
	return validatePlayer(p).IsValid
}

func validatePlayer(p Player) ValidationResult {
	res := NewValidationResult()
	if p.ID == "" {
		res.AddError(CodeInvalidPlayer, "players", "player has no id")
	}
	if !p.Position.IsValid() {
		res.AddError(CodeInvalidPosition, "players", "player %s has invalid position %q", p.ID, p.Position)
	}
	if len(p.Hand) > HandSize {
		res.AddError(CodeDominoCountMismatch, "players", "player %s holds %d dominoes", p.ID, len(p.Hand))
	}
	for _, d := range p.Hand {
		if !IsValidDomino(d) {
			res.AddError(CodeInvalidDomino, "players", "player %s holds malformed domino %v", p.ID, d)
		}
	}
	if hasDuplicateDominoes(p.Hand) {
		res.AddError(CodeDuplicateDomino, "players", "player %s holds a domino twice", p.ID)
	}
	return res
}

// IsValidBid reports whether b is structurally a legal opening bid: known
// type, a bidder, and fields that fit the bid type.
func IsValidBid(b Bid) bool {
	if b.PlayerID == "" {
		return false
	}
	return ValidateBid(b, nil, false).IsValid
}

// IsValidPosition reports whether s names a seat.
func IsValidPosition(s string) bool { return Position(s).IsValid() }

// IsValidPhase reports whether s names a phase.
func IsValidPhase(s string) bool { return Phase(s).IsValid() }

// IsValidSuit reports whether s names a suit, doubles included.
func IsValidSuit(s string) bool { return DominoSuit(s).IsValid() }

// IsValidGameState reports whether ValidateGameState finds no errors.
func IsValidGameState(g *GameState) bool {
	return ValidateGameState(g).IsValid
}

// ValidateGameState checks the full-state invariants: four uniquely seated
// players, a seated dealer, consistent partnerships, all 28 dominoes
// accounted for once dealt, and non-negative scores. Disconnected players
// are reported as warnings.
func ValidateGameState(g *GameState) ValidationResult {
	if g == nil {
		res := NewValidationResult()
		res.AddError(CodeInvalidPlayerCount, "state", "game state is nil")
		return res
	}
	res := NewValidationResult()
	if !g.Phase.IsValid() {
		res.AddError(CodeInvalidPhase, "phase", "unknown phase %q", g.Phase)
	}
	if g.MarksToWin <= 0 {
		res.AddError(CodeNegativeScore, "marksToWin", "marksToWin must be positive, got %d", g.MarksToWin)
	}
	if g.HandNumber < 0 {
		res.AddError(CodeNegativeScore, "handNumber", "hand number %d is negative", g.HandNumber)
	}
	for _, p := range g.Players {
		if !p.IsConnected && !p.IsBot {
			res.AddWarning(CodeInvalidPlayer, "players", "player %s is disconnected", p.ID)
		}
	}

	results := []ValidationResult{res, validateSeating(g), g.Partnerships.validate()}
	if g.HandNumber > 0 {
		results = append(results, validateDominoAccounting(gameDominoes(g)))
		results = append(results, validateTricks(g))
	}
	return CombineValidationResults(results...).WithContext("gameId", g.ID).WithContext("phase", string(g.Phase))
}

func validateSeating(g *GameState) ValidationResult {
	res := NewValidationResult()
	if len(g.Players) != PlayerCount {
		res.AddError(CodeInvalidPlayerCount, "players", "game has %d players, want %d", len(g.Players), PlayerCount)
	}
	positions := map[Position]bool{}
	ids := map[string]bool{}
	for _, p := range g.Players {
		pr := validatePlayer(p)
		res.Errors = append(res.Errors, pr.Errors...)
		if !pr.IsValid {
			res.IsValid = false
		}
		if positions[p.Position] {
			res.AddError(CodeDuplicatePosition, "players", "position %s is taken twice", p.Position)
		}
		positions[p.Position] = true
		if ids[p.ID] {
			res.AddError(CodeDuplicatePlayer, "players", "player %s is seated twice", p.ID)
		}
		ids[p.ID] = true
	}
	if g.Dealer == "" || !ids[g.Dealer] {
		res.AddError(CodeDealerNotFound, "dealer", "dealer %q is not seated", g.Dealer)
	}
	for _, p := range g.Players {
		if team := g.Partnerships.TeamOf(p.ID); team != "" && team != p.Position.Team() {
			res.AddError(CodeInvalidPartnership, "partnerships", "player %s sits %s but plays for %s", p.ID, p.Position, team)
		}
	}
	return res
}

// gameDominoes gathers every domino held, played or set aside.
func gameDominoes(g *GameState) []Domino {
	var all []Domino
	for _, p := range g.Players {
		all = append(all, p.Hand...)
	}
	all = append(all, playedDominoes(g.Tricks)...)
	if g.CurrentTrick != nil {
		all = append(all, playedDominoes([]Trick{*g.CurrentTrick})...)
	}
	return append(all, g.Boneyard...)
}

func validateDominoAccounting(all []Domino) ValidationResult {
	res := NewValidationResult()
	for _, d := range all {
		if !IsValidDomino(d) {
			res.AddError(CodeInvalidDomino, "dominoes", "malformed domino %v", d)
		}
	}
	if hasDuplicateDominoes(all) {
		res.AddError(CodeDuplicateDomino, "dominoes", "a domino appears more than once")
	}
	if len(all) != DominoCount {
		res.AddError(CodeDominoCountMismatch, "dominoes", "%d dominoes accounted for, want %d", len(all), DominoCount)
	}
	return res
}

func validateTricks(g *GameState) ValidationResult {
	res := NewValidationResult()
	if len(g.Tricks) != g.Scoring.TricksPlayed {
		res.AddError(CodeInvalidTrick, "tricks", "%d tricks recorded but %d scored", len(g.Tricks), g.Scoring.TricksPlayed)
	}
	if len(g.Tricks) > TricksPerHand {
		res.AddError(CodeInvalidTrick, "tricks", "%d tricks in one hand", len(g.Tricks))
	}
	for _, t := range g.Tricks {
		if !t.IsComplete || t.Winner == "" {
			res.AddError(CodeInvalidTrick, "tricks", "trick %d is unresolved", t.Number)
		}
	}
	return res
}

// LobbyStatus is the state of a listed game.
type LobbyStatus string

const (
	LobbyWaiting  LobbyStatus = "waiting"
	LobbyPlaying  LobbyStatus = "playing"
	LobbyFinished LobbyStatus = "finished"
)

// LobbyGame is one entry of the open-games list.
type LobbyGame struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	PlayerCount int         `json:"playerCount"`
	MaxPlayers  int         `json:"maxPlayers"`
	Status      LobbyStatus `json:"status"`
	CreatedAt   int64       `json:"createdAt"`
}

// LobbyState is the lobby snapshot shown to connecting players.
type LobbyState struct {
	AvailableGames   []LobbyGame `json:"availableGames"`
	ConnectedPlayers int         `json:"connectedPlayers"`
}

// IsValidLobbyState reports whether ValidateLobbyState finds no errors.
func IsValidLobbyState(l LobbyState) bool {
	return ValidateLobbyState(l).IsValid
}

// ValidateLobbyState checks listed games for unique IDs, four-seat tables,
// seat counts in range and a known status.
func ValidateLobbyState(l LobbyState) ValidationResult {
	res := NewValidationResult()
	if l.ConnectedPlayers < 0 {
		res.AddError(CodeInvalidLobbyState, "connectedPlayers", "connected players is negative")
	}
	seen := map[string]bool{}
	for _, lg := range l.AvailableGames {
		if lg.ID == "" {
			res.AddError(CodeInvalidLobbyState, "availableGames", "game has no id")
		} else if seen[lg.ID] {
			res.AddError(CodeInvalidLobbyState, "availableGames", "game %s listed twice", lg.ID)
		}
		seen[lg.ID] = true
		if lg.MaxPlayers != PlayerCount {
			res.AddError(CodeInvalidLobbyState, "availableGames", "game %s seats %d, want %d", lg.ID, lg.MaxPlayers, PlayerCount)
		}
		if lg.PlayerCount < 0 || lg.PlayerCount > lg.MaxPlayers {
			res.AddError(CodeInvalidLobbyState, "availableGames", "game %s has %d of %d players", lg.ID, lg.PlayerCount, lg.MaxPlayers)
		}
		switch lg.Status {
		case LobbyWaiting, LobbyPlaying, LobbyFinished:
		default:
			res.AddError(CodeInvalidLobbyState, "availableGames", "game %s has unknown status %q", lg.ID, lg.Status)
		}
	}
	return res
}
