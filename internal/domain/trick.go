package domain

// PlayedDomino is one play within a trick. PlayOrder runs 0..3.
type PlayedDomino struct {
	Domino    Domino   `json:"domino"`
	PlayerID  string   `json:"playerId"`
	Position  Position `json:"position"`
	PlayOrder int      `json:"playOrder"`
}

// Trick is one round of plays. PointValue counts the trick point plus the
// count dominoes captured, and is set once the trick is resolved.
type Trick struct {
	Number         int            `json:"number"`
	Dominoes       []PlayedDomino `json:"dominoes"`
	LeadSuit       DominoSuit     `json:"leadSuit,omitempty"`
	Winner         string         `json:"winner,omitempty"`
	WinnerPosition Position       `json:"winnerPosition,omitempty"`
	PointValue     int            `json:"pointValue"`
	CountDominoes  []Domino       `json:"countDominoes,omitempty"`
	IsComplete     bool           `json:"isComplete"`
}

// Add returns a copy of the trick with the play appended. The first play sets the lead suit.
func (t Trick) Add(playerID string, pos Position, d Domino, trump TrumpSystem) Trick {
	out := t.clone()
	if len(out.Dominoes) == 0 {
		out.LeadSuit = LeadSuit(d, trump)
	}
	out.Dominoes = append(out.Dominoes, PlayedDomino{
		Domino:    d,
		PlayerID:  playerID,
		Position:  pos,
		PlayOrder: len(out.Dominoes),
	})
	return out
}

// ResolveTrick picks the winner and tallies points on a copy of the trick.
func ResolveTrick(t Trick, trump TrumpSystem, contract ContractType) (Trick, error) {
	if len(t.Dominoes) == 0 || len(t.Dominoes) > PlayerCount {
		return t, ruleViolation(CodeInvalidTrick, "trick", "trick %d has %d dominoes", t.Number, len(t.Dominoes))
	}
	out := t.clone()
	if out.LeadSuit == "" {
		out.LeadSuit = LeadSuit(out.Dominoes[0].Domino, trump)
	}
	win := out.Dominoes[TrickWinnerIndex(out.Dominoes, out.LeadSuit, trump, contract)]
	out.Winner = win.PlayerID
	out.WinnerPosition = win.Position

	out.CountDominoes = nil
	points := 1
	for _, pd := range out.Dominoes {
		if pd.Domino.IsCountDomino {
			out.CountDominoes = append(out.CountDominoes, pd.Domino)
			points += pd.Domino.PointValue
		}
	}
	out.PointValue = points
	out.IsComplete = true
	return out, nil
}

// TrickWinnerIndex returns the index of the winning play. Under sevens the
// domino nearest seven pips wins; otherwise the highest trump, else the
// highest domino of the lead suit. Earlier plays win ties.
func TrickWinnerIndex(plays []PlayedDomino, lead DominoSuit, trump TrumpSystem, contract ContractType) int {
	if contract == ContractSevens {
		best, bestDist := 0, sevensDistance(plays[0].Domino)
		for i := 1; i < len(plays); i++ {
			if d := sevensDistance(plays[i].Domino); d < bestDist {
				best, bestDist = i, d
			}
		}
		return best
	}

	best := -1
	bestTrump := -1
	for i, pd := range plays {
		if r := GetTrumpRank(pd.Domino, trump); r > bestTrump {
			best, bestTrump = i, r
		}
	}
	if best >= 0 {
		return best
	}

	best = 0
	bestRank := suitRank(plays[0].Domino, lead, trump)
	for i := 1; i < len(plays); i++ {
		d := plays[i].Domino
		if !FollowsSuit(d, lead, trump) {
			continue
		}
		if r := suitRank(d, lead, trump); r > bestRank {
			best, bestRank = i, r
		}
	}
	return best
}

func sevensDistance(d Domino) int {
	diff := d.PipSum() - 7
	if diff < 0 {
		return -diff
	}
	return diff
}

// playedDominoes flattens the dominoes of a set of tricks.
func playedDominoes(tricks []Trick) []Domino {
	var out []Domino
	for _, t := range tricks {
		for _, pd := range t.Dominoes {
			out = append(out, pd.Domino)
		}
	}
	return out
}

func (t Trick) clone() Trick {
	out := t
	out.Dominoes = append([]PlayedDomino(nil), t.Dominoes...)
	out.CountDominoes = append([]Domino(nil), t.CountDominoes...)
	return out
}
