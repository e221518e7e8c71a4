package domain

// Position is a seat at the table.
type Position string

const (
	North Position = "north"
	East  Position = "east"
	South Position = "south"
	West  Position = "west"
)

// Positions lists seats in clockwise play order.
var Positions = [PlayerCount]Position{North, East, South, West}

// IsValid reports whether p is one of the four seats.
func (p Position) IsValid() bool {
	return p.Index() >= 0
}

// Index is the clockwise seat index, or -1.
func (p Position) Index() int {
	for i, pos := range Positions {
		if pos == p {
			return i
		}
	}
	return -1
}

// Next is the seat to the left (clockwise).
func (p Position) Next() Position {
	return Positions[(p.Index()+1)%PlayerCount]
}

// Partner is the seat across the table.
func (p Position) Partner() Position {
	return Positions[(p.Index()+2)%PlayerCount]
}

// Team returns the partnership that owns the seat.
func (p Position) Team() PartnershipID {
	if p == North || p == South {
		return NorthSouth
	}
	return EastWest
}

// PartnershipID names one of the two teams.
type PartnershipID string

const (
	NorthSouth PartnershipID = "northSouth"
	EastWest   PartnershipID = "eastWest"
)

// Opponent returns the other team.
func (id PartnershipID) Opponent() PartnershipID {
	if id == NorthSouth {
		return EastWest
	}
	return NorthSouth
}

// IsValid reports whether id is a known team.
func (id PartnershipID) IsValid() bool {
	return id == NorthSouth || id == EastWest
}

// Partnership is a team's standing.
type Partnership struct {
	ID               PartnershipID `json:"id"`
	PlayerIDs        [2]string     `json:"playerIds"`
	CurrentHandScore int           `json:"currentHandScore"`
	Marks            int           `json:"marks"`
	TotalGameScore   int           `json:"totalGameScore"`
	TricksWon        int           `json:"tricksWon"`
	IsBiddingTeam    bool          `json:"isBiddingTeam"`
}

// Has reports whether the player belongs to the team.
func (p Partnership) Has(playerID string) bool {
	return playerID != "" && (p.PlayerIDs[0] == playerID || p.PlayerIDs[1] == playerID)
}

// PartnershipState holds both teams.
type PartnershipState struct {
	NorthSouth Partnership `json:"northSouth"`
	EastWest   Partnership `json:"eastWest"`
}

// NewPartnershipState seats players into teams by position.
func NewPartnershipState(players []Player) PartnershipState {
	ps := PartnershipState{
		NorthSouth: Partnership{ID: NorthSouth},
		EastWest:   Partnership{ID: EastWest},
	}
	for _, pl := range players {
		team := ps.Team(pl.Position.Team())
		slot := 0
		if pl.Position == South || pl.Position == West {
			slot = 1
		}
		team.PlayerIDs[slot] = pl.ID
	}
	return ps
}

// Team returns a pointer to the named team for in-place updates on a copy.
func (ps *PartnershipState) Team(id PartnershipID) *Partnership {
	if id == NorthSouth {
		return &ps.NorthSouth
	}
	return &ps.EastWest
}

// Get returns the named team by value.
func (ps PartnershipState) Get(id PartnershipID) Partnership {
	return *ps.Team(id)
}

// TeamOf returns the team a player belongs to, or "".
func (ps PartnershipState) TeamOf(playerID string) PartnershipID {
	switch {
	case ps.NorthSouth.Has(playerID):
		return NorthSouth
	case ps.EastWest.Has(playerID):
		return EastWest
	default:
		return ""
	}
}

// BiddingTeam returns the team holding the contract, or "".
func (ps PartnershipState) BiddingTeam() PartnershipID {
	switch {
	case ps.NorthSouth.IsBiddingTeam:
		return NorthSouth
	case ps.EastWest.IsBiddingTeam:
		return EastWest
	default:
		return ""
	}
}

// resetHand clears per-hand counters and keeps marks and game totals.
func (ps *PartnershipState) resetHand() {
	for _, id := range []PartnershipID{NorthSouth, EastWest} {
		t := ps.Team(id)
		t.CurrentHandScore = 0
		t.TricksWon = 0
		t.IsBiddingTeam = false
	}
}

func (ps PartnershipState) validate() ValidationResult {
	res := NewValidationResult()
	seen := map[string]bool{}
	for _, team := range []Partnership{ps.NorthSouth, ps.EastWest} {
		for _, id := range team.PlayerIDs {
			if id == "" {
				res.AddError(CodeInvalidPartnership, "partnerships", "%s is missing a player", team.ID)
				continue
			}
			if seen[id] {
				res.AddError(CodeInvalidPartnership, "partnerships", "player %s is on both teams", id)
			}
			seen[id] = true
		}
		if team.Marks < 0 || team.CurrentHandScore < 0 || team.TotalGameScore < 0 || team.TricksWon < 0 {
			res.AddError(CodeNegativeScore, "partnerships", "%s has a negative score", team.ID)
		}
	}
	if ps.NorthSouth.IsBiddingTeam && ps.EastWest.IsBiddingTeam {
		res.AddError(CodeInvalidPartnership, "partnerships", "both teams are marked as bidding team")
	}
	return res
}
