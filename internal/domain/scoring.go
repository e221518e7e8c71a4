package domain

// TeamTally is what one team has captured during the current hand.
type TeamTally struct {
	TrickPoints   int      `json:"trickPoints"`
	CountDominoes []Domino `json:"countDominoes"`
	TricksWon     int      `json:"tricksWon"`
}

// CountPoints sums the captured count dominoes.
func (t TeamTally) CountPoints() int { return SumPoints(t.CountDominoes) }

// TotalPoints is trick points plus count points.
func (t TeamTally) TotalPoints() int { return t.TrickPoints + t.CountPoints() }

// ScoringState accumulates trick results for one hand.
type ScoringState struct {
	NorthSouth    TeamTally `json:"northSouth"`
	EastWest      TeamTally `json:"eastWest"`
	TricksPlayed  int       `json:"tricksPlayed"`
	RoundComplete bool      `json:"roundComplete"`
}

// NewEmptyScoringState returns a scoring state for a fresh hand.
func NewEmptyScoringState() ScoringState {
	return ScoringState{}
}

// Tally returns the named team's tally.
func (s ScoringState) Tally(id PartnershipID) TeamTally {
	if id == NorthSouth {
		return s.NorthSouth
	}
	return s.EastWest
}

// RecordTrick credits a resolved trick to team and returns the new state.
func (s ScoringState) RecordTrick(t Trick, team PartnershipID) (ScoringState, error) {
	if !t.IsComplete {
		return s, ruleViolation(CodeInvalidTrick, "trick", "trick %d is not complete", t.Number)
	}
	if s.RoundComplete {
		return s, ruleViolation(CodeInvalidTrick, "trick", "all %d tricks are already scored", TricksPerHand)
	}
	out := s.clone()
	tally := &out.EastWest
	if team == NorthSouth {
		tally = &out.NorthSouth
	}
	tally.TrickPoints++
	tally.TricksWon++
	tally.CountDominoes = append(tally.CountDominoes, t.CountDominoes...)
	out.TricksPlayed++
	out.RoundComplete = out.TricksPlayed == TricksPerHand
	return out, nil
}

func (s ScoringState) clone() ScoringState {
	out := s
	out.NorthSouth.CountDominoes = append([]Domino(nil), s.NorthSouth.CountDominoes...)
	out.EastWest.CountDominoes = append([]Domino(nil), s.EastWest.CountDominoes...)
	return out
}

// MarksAwarded is the marks each team earned on a hand.
type MarksAwarded struct {
	NorthSouth int `json:"northSouth"`
	EastWest   int `json:"eastWest"`
}

// For returns the marks awarded to team.
func (m MarksAwarded) For(id PartnershipID) int {
	if id == NorthSouth {
		return m.NorthSouth
	}
	return m.EastWest
}

// HandScore summarises one scored hand. Point fields describe the bidding team.
type HandScore struct {
	HandNumber     int           `json:"handNumber"`
	BiddingTeam    PartnershipID `json:"biddingTeam"`
	WinningBid     Bid           `json:"winningBid"`
	CountPoints    int           `json:"countPoints"`
	TrickPoints    int           `json:"trickPoints"`
	TotalPoints    int           `json:"totalPoints"`
	OpponentPoints int           `json:"opponentPoints"`
	TricksWon      int           `json:"tricksWon"`
	BidFulfilled   bool          `json:"bidFulfilled"`
	MarksAwarded   MarksAwarded  `json:"marksAwarded"`
}

// CalculateHandScore scores a finished hand. Outside nello, where the sitting
// out player leaves four dominoes unplayed, both teams together must hold
// exactly 42 points; anything else is reported as a defect.
func CalculateHandScore(scoring ScoringState, bid Bid, biddingTeam PartnershipID) (HandScore, error) {
	if !biddingTeam.IsValid() {
		return HandScore{}, ruleViolation(CodeInvalidPartnership, "biddingTeam", "unknown bidding team %q", biddingTeam)
	}
	if !scoring.RoundComplete || scoring.TricksPlayed != TricksPerHand {
		return HandScore{}, ruleViolation(CodeInvalidPhase, "scoring", "hand has %d of %d tricks", scoring.TricksPlayed, TricksPerHand)
	}
	us, them := scoring.Tally(biddingTeam), scoring.Tally(biddingTeam.Opponent())
	if us.TricksWon+them.TricksWon != TricksPerHand {
		return HandScore{}, ruleViolation(CodeInvalidTrick, "scoring", "teams won %d tricks, want %d", us.TricksWon+them.TricksWon, TricksPerHand)
	}

	nello := bid.Type == BidSpecial && bid.Contract == ContractNello
	if total := us.TotalPoints() + them.TotalPoints(); !nello && total != HandPoints {
		return HandScore{}, ruleViolation(CodePointTotalMismatch, "scoring", "hand totals %d points, want %d", total, HandPoints)
	}

	hs := HandScore{
		BiddingTeam:    biddingTeam,
		WinningBid:     bid,
		CountPoints:    us.CountPoints(),
		TrickPoints:    us.TrickPoints,
		TotalPoints:    us.TotalPoints(),
		OpponentPoints: them.TotalPoints(),
		TricksWon:      us.TricksWon,
	}
	hs.BidFulfilled = bidFulfilled(bid, us)

	stake := bid.MarksAtStake()
	if hs.BidFulfilled {
		hs.MarksAwarded = awardTo(biddingTeam, stake)
	} else {
		hs.MarksAwarded = awardTo(biddingTeam.Opponent(), stake)
	}
	return hs, nil
}

func bidFulfilled(bid Bid, us TeamTally) bool {
	if bid.Type == BidSpecial {
		switch bid.Contract {
		case ContractNello:
			return us.TricksWon == 0
		case ContractPlunge, ContractSevens:
			return us.TricksWon == TricksPerHand
		}
	}
	return us.TotalPoints() >= bid.PointRequirement()
}

func awardTo(team PartnershipID, marks int) MarksAwarded {
	if team == NorthSouth {
		return MarksAwarded{NorthSouth: marks}
	}
	return MarksAwarded{EastWest: marks}
}

// ApplyHandScore adds a hand's marks and points to the partnerships.
func ApplyHandScore(ps PartnershipState, hs HandScore) PartnershipState {
	for _, id := range []PartnershipID{NorthSouth, EastWest} {
		team := ps.Team(id)
		team.Marks += hs.MarksAwarded.For(id)
		if id == hs.BiddingTeam {
			team.TotalGameScore += hs.TotalPoints
		} else {
			team.TotalGameScore += hs.OpponentPoints
		}
	}
	return ps
}

// GameWinner returns the first team to reach marksToWin, or "".
func GameWinner(ps PartnershipState, marksToWin int) PartnershipID {
	ns, ew := ps.NorthSouth.Marks >= marksToWin, ps.EastWest.Marks >= marksToWin
	switch {
	case ns && ew:
		// Only one team scores marks per hand, so this needs a corrupt history.
		if ps.NorthSouth.Marks >= ps.EastWest.Marks {
			return NorthSouth
		}
		return EastWest
	case ns:
		return NorthSouth
	case ew:
		return EastWest
	default:
		return ""
	}
}
