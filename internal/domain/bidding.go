package domain

// SpecialContract is the contract in force once bidding closes on a special bid.
type SpecialContract struct {
	Type          ContractType  `json:"type"`
	BidderID      string        `json:"bidderId"`
	Marks         int           `json:"marks"`
	Trump         DominoSuit    `json:"trump,omitempty"`
	DoublesOption DoublesOption `json:"doublesOption,omitempty"`
}

// BiddingState tracks one round of bidding. PassCount counts consecutive
// passes; it resets whenever a bid is made.
type BiddingState struct {
	BidHistory      []Bid            `json:"bidHistory"`
	CurrentBidder   string           `json:"currentBidder"`
	CurrentBid      *Bid             `json:"currentBid,omitempty"`
	PassCount       int              `json:"passCount"`
	MinimumBid      int              `json:"minimumBid"`
	BiddingComplete bool             `json:"biddingComplete"`
	WinningBidder   string           `json:"winningBidder,omitempty"`
	SpecialContract *SpecialContract `json:"specialContract,omitempty"`
	Redeal          bool             `json:"redeal"`
}

// NewBiddingState opens bidding with firstBidder to act.
func NewBiddingState(firstBidder string) BiddingState {
	return BiddingState{
		CurrentBidder: firstBidder,
		MinimumBid:    MinimumBid,
	}
}

// Apply records bid and returns the next bidding state; next is the player
// who acts after the bidder. The receiver is not modified.
func (s BiddingState) Apply(bid Bid, next string, rules Rules) (BiddingState, error) {
	if s.BiddingComplete {
		return s, invalidBid(CodeBiddingComplete, "bidding is already complete").Err()
	}
	if s.CurrentBidder != "" && bid.PlayerID != s.CurrentBidder {
		return s, ruleViolation(CodeNotYourTurn, "playerId", "it is %s's turn to bid", s.CurrentBidder)
	}
	if res := ValidateBidWithRules(bid, s.CurrentBid, s.BiddingComplete, rules); !res.IsValid {
		return s, res.Err()
	}

	out := s.clone()
	out.BidHistory = append(out.BidHistory, bid)

	if bid.IsPass() {
		out.PassCount++
		switch {
		case out.CurrentBid != nil && out.PassCount >= PlayerCount-1:
			out.close(out.CurrentBid.PlayerID)
			return out, nil
		case out.CurrentBid == nil && out.PassCount >= PlayerCount:
			out.close("")
			out.Redeal = true
			return out, nil
		}
	} else {
		high := bid
		out.CurrentBid = &high
		out.PassCount = 0
	}
	out.CurrentBidder = next
	return out, nil
}

func (s *BiddingState) close(winner string) {
	s.BiddingComplete = true
	s.CurrentBidder = ""
	s.WinningBidder = winner
	s.SpecialContract = nil
	if s.CurrentBid != nil && s.CurrentBid.Type == BidSpecial {
		b := s.CurrentBid
		s.SpecialContract = &SpecialContract{
			Type:          b.Contract,
			BidderID:      b.PlayerID,
			Marks:         b.MarksAtStake(),
			Trump:         b.Trump,
			DoublesOption: b.DoublesOption,
		}
	}
}

// WinningBid returns the bid that won, or nil while open or after a redeal.
func (s BiddingState) WinningBid() *Bid {
	if !s.BiddingComplete || s.WinningBidder == "" || s.CurrentBid == nil {
		return nil
	}
	b := *s.CurrentBid
	return &b
}

func (s BiddingState) clone() BiddingState {
	out := s
	out.BidHistory = append([]Bid(nil), s.BidHistory...)
	if s.CurrentBid != nil {
		b := *s.CurrentBid
		out.CurrentBid = &b
	}
	if s.SpecialContract != nil {
		c := *s.SpecialContract
		out.SpecialContract = &c
	}
	return out
}
