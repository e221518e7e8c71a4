package domain

// DealHand starts a hand with the given hands and boneyard. It is valid for
// the first hand, after a redeal, and after a scored hand that did not end
// the game. Every deal after the first passes the deal clockwise.
func DealHand(g *GameState, hands map[string][]Domino, boneyard []Domino) (*GameState, error) {
	if g.GameComplete {
		return nil, ruleViolation(CodeGameComplete, "phase", "game %s is over", g.ID)
	}
	firstDeal := g.HandNumber == 0 && g.Phase == PhaseBidding
	redeal := g.Phase == PhaseBidding && g.Bidding.Redeal
	if !firstDeal && !redeal && g.Phase != PhaseScoring {
		return nil, ruleViolation(CodeInvalidPhase, "phase", "cannot deal during %s", g.Phase)
	}
	if res := validateDeal(g, hands, boneyard); !res.IsValid {
		return nil, res.Err()
	}

	out := g.Clone()
	out.Dealer = NextDealer(g)
	for i := range out.Players {
		hand := append([]Domino(nil), hands[out.Players[i].ID]...)
		SortDominoes(hand)
		out.Players[i].Hand = hand
	}
	out.Boneyard = append([]Domino(nil), boneyard...)
	out.Tricks = nil
	out.CurrentTrick = nil
	out.WinningBid = nil
	out.Trump = nil
	out.SittingOut = ""
	out.Scoring = NewEmptyScoringState()
	out.Partnerships.resetHand()
	out.HandNumber++

	first := out.NextPlayer(out.Dealer)
	out.Bidding = NewBiddingState(first)
	out.CurrentPlayer = first

	if err := out.transition(PhaseBidding); err != nil {
		return nil, err
	}
	return out, nil
}

func validateDeal(g *GameState, hands map[string][]Domino, boneyard []Domino) ValidationResult {
	res := NewValidationResult()
	var all []Domino
	for _, p := range g.Players {
		hand, ok := hands[p.ID]
		if !ok {
			res.AddError(CodeDominoCountMismatch, "hands", "no hand dealt to %s", p.ID)
			continue
		}
		if len(hand) != HandSize {
			res.AddError(CodeDominoCountMismatch, "hands", "%s was dealt %d dominoes, want %d", p.ID, len(hand), HandSize)
		}
		all = append(all, hand...)
	}
	for id := range hands {
		if _, ok := g.Player(id); !ok {
			res.AddError(CodeUnknownPlayer, "hands", "hand dealt to unseated player %s", id)
		}
	}
	all = append(all, boneyard...)
	return CombineValidationResults(res, validateDominoAccounting(all))
}

// ApplyBid validates bid and records it, returning the next state. When
// bidding closes on a bid, trump is fixed and play begins with the bidder
// leading. When all four pass, Bidding.Redeal is set and the state waits
// for DealHand.
func ApplyBid(g *GameState, bid Bid) (*GameState, error) {
	if g.GameComplete {
		return nil, ruleViolation(CodeGameComplete, "phase", "game %s is over", g.ID)
	}
	if g.Phase != PhaseBidding || g.HandNumber == 0 {
		return nil, ruleViolation(CodeInvalidPhase, "phase", "bids are not accepted during %s", g.Phase)
	}
	player, ok := g.Player(bid.PlayerID)
	if !ok {
		return nil, ruleViolation(CodeUnknownPlayer, "playerId", "player %s is not seated", bid.PlayerID)
	}
	if bid.Type == BidSpecial {
		if res := ValidateSpecialContract(bid, player.Hand, g.Rules); !res.IsValid {
			return nil, res.Err()
		}
	}

	bidding, err := g.Bidding.Apply(bid, g.NextPlayer(bid.PlayerID), g.Rules)
	if err != nil {
		return nil, err
	}

	out := g.Clone()
	out.Bidding = bidding
	out.CurrentPlayer = bidding.CurrentBidder
	if !bidding.BiddingComplete || bidding.Redeal {
		return out, nil
	}

	win := bidding.WinningBid()
	trump := win.TrumpSystem()
	out.WinningBid = win
	out.Trump = &trump
	team := out.Partnerships.TeamOf(win.PlayerID)
	out.Partnerships.Team(team).IsBiddingTeam = true
	if win.Type == BidSpecial && win.Contract == ContractNello {
		bidder, _ := out.Player(win.PlayerID)
		partner, _ := out.PlayerAt(bidder.Position.Partner())
		out.SittingOut = partner.ID
	}
	out.CurrentPlayer = win.PlayerID
	out.CurrentTrick = &Trick{Number: 1}

	if err := out.transition(PhasePlaying); err != nil {
		return nil, err
	}
	return out, nil
}

// PlayDomino plays d from the current player's hand. Completing a trick
// credits it to the winner, who leads the next one; the seventh trick scores
// the hand and may end the game.
func PlayDomino(g *GameState, playerID string, d Domino) (*GameState, error) {
	if g.GameComplete {
		return nil, ruleViolation(CodeGameComplete, "phase", "game %s is over", g.ID)
	}
	if g.Phase != PhasePlaying || g.CurrentTrick == nil || g.Trump == nil {
		return nil, ruleViolation(CodeInvalidPhase, "phase", "dominoes cannot be played during %s", g.Phase)
	}
	player, ok := g.Player(playerID)
	if !ok {
		return nil, ruleViolation(CodeUnknownPlayer, "playerId", "player %s is not seated", playerID)
	}
	if playerID == g.SittingOut {
		return nil, ruleViolation(CodePlayerSittingOut, "playerId", "%s sits out this hand", playerID)
	}
	if playerID != g.CurrentPlayer {
		return nil, ruleViolation(CodeNotYourTurn, "playerId", "it is %s's turn to play", g.CurrentPlayer)
	}
	idx := indexOfDomino(player.Hand, d)
	if idx < 0 {
		return nil, ruleViolation(CodeDominoNotInHand, "domino", "%s does not hold %s", playerID, d)
	}
	d = player.Hand[idx]
	if !ContainsDomino(legalPlays(g, player), d) {
		return nil, ruleViolation(CodeMustFollowSuit, "domino", "%s must follow %s", playerID, g.CurrentTrick.LeadSuit)
	}

	out := g.Clone()
	p, _ := out.Player(playerID)
	p.Hand, _ = RemoveDomino(p.Hand, d)
	trick := out.CurrentTrick.Add(playerID, p.Position, d, *out.Trump)
	out.CurrentTrick = &trick

	if len(trick.Dominoes) < out.ActivePlayers() {
		out.CurrentPlayer = out.NextPlayer(playerID)
		return out, nil
	}
	if err := completeTrick(out); err != nil {
		return nil, err
	}
	return out, nil
}

func completeTrick(g *GameState) error {
	trick, err := ResolveTrick(*g.CurrentTrick, *g.Trump, g.Contract())
	if err != nil {
		return err
	}
	team := g.Partnerships.TeamOf(trick.Winner)
	scoring, err := g.Scoring.RecordTrick(trick, team)
	if err != nil {
		return err
	}
	g.Scoring = scoring
	g.Tricks = append(g.Tricks, trick)
	t := g.Partnerships.Team(team)
	t.TricksWon++
	t.CurrentHandScore += trick.PointValue

	if !scoring.RoundComplete {
		g.CurrentTrick = &Trick{Number: trick.Number + 1}
		g.CurrentPlayer = trick.Winner
		return nil
	}
	g.CurrentTrick = nil
	g.CurrentPlayer = ""
	return scoreHand(g)
}

func scoreHand(g *GameState) error {
	if err := g.transition(PhaseScoring); err != nil {
		return err
	}
	hs, err := CalculateHandScore(g.Scoring, *g.WinningBid, g.Partnerships.BiddingTeam())
	if err != nil {
		return err
	}
	hs.HandNumber = g.HandNumber
	g.Partnerships = ApplyHandScore(g.Partnerships, hs)
	g.HandHistory = append(g.HandHistory, hs)

	if winner := GameWinner(g.Partnerships, g.MarksToWin); winner != "" {
		g.GameComplete = true
		g.Winner = winner
		return g.transition(PhaseFinished)
	}
	return nil
}

// LastHandScore returns the most recently scored hand.
func (g *GameState) LastHandScore() (HandScore, bool) {
	if len(g.HandHistory) == 0 {
		return HandScore{}, false
	}
	return g.HandHistory[len(g.HandHistory)-1], true
}

// LegalPlays lists the dominoes playerID may play now; nil when it is not
// their turn.
func LegalPlays(g *GameState, playerID string) []Domino {
	if g.Phase != PhasePlaying || g.CurrentTrick == nil || g.Trump == nil || playerID != g.CurrentPlayer {
		return nil
	}
	p, ok := g.Player(playerID)
	if !ok {
		return nil
	}
	return legalPlays(g, p)
}

// legalPlays applies the follow rule. Under sevens a player must play the
// domino nearest seven pips; otherwise a player who can follow the lead suit must.
func legalPlays(g *GameState, p *Player) []Domino {
	hand := p.Hand
	if g.Contract() == ContractSevens {
		best := -1
		for _, d := range hand {
			if dist := sevensDistance(d); best < 0 || dist < best {
				best = dist
			}
		}
		var out []Domino
		for _, d := range hand {
			if sevensDistance(d) == best {
				out = append(out, d)
			}
		}
		return out
	}
	if len(g.CurrentTrick.Dominoes) == 0 {
		return append([]Domino(nil), hand...)
	}
	lead := g.CurrentTrick.LeadSuit
	var out []Domino
	for _, d := range hand {
		if FollowsSuit(d, lead, *g.Trump) {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return append([]Domino(nil), hand...)
	}
	return out
}
