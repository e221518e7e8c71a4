package domain

import "fmt"

// BidType tags the bid variants.
type BidType string

const (
	BidPass    BidType = "pass"
	BidPoints  BidType = "points"
	BidMarks   BidType = "marks"
	BidSpecial BidType = "special"
)

// ContractType names a special contract.
type ContractType string

const (
	ContractNello    ContractType = "nello"
	ContractPlunge   ContractType = "plunge"
	ContractSevens   ContractType = "sevens"
	ContractFollowMe ContractType = "follow-me"
)

// IsValid reports whether c is a known contract.
func (c ContractType) IsValid() bool {
	switch c {
	case ContractNello, ContractPlunge, ContractSevens, ContractFollowMe:
		return true
	default:
		return false
	}
}

// Bid is one bidding action. Amount is used by point bids (and follow-me bid
// in points); Marks by mark bids and special contracts. Timestamp is unix
// milliseconds supplied by the caller.
type Bid struct {
	Type          BidType       `json:"type"`
	PlayerID      string        `json:"playerId"`
	Amount        int           `json:"amount,omitempty"`
	Marks         int           `json:"marks,omitempty"`
	Trump         DominoSuit    `json:"trump,omitempty"`
	Contract      ContractType  `json:"contract,omitempty"`
	DoublesOption DoublesOption `json:"doublesOption,omitempty"`
	Timestamp     int64         `json:"timestamp"`
}

// PassBid builds a pass.
func PassBid(playerID string) Bid {
	return Bid{Type: BidPass, PlayerID: playerID}
}

// PointBid builds a 30..41 bid with trump.
func PointBid(playerID string, amount int, trump DominoSuit) Bid {
	return Bid{Type: BidPoints, PlayerID: playerID, Amount: amount, Trump: trump}
}

// MarkBid builds a bid of one or more marks with trump.
func MarkBid(playerID string, marks int, trump DominoSuit) Bid {
	return Bid{Type: BidMarks, PlayerID: playerID, Marks: marks, Trump: trump}
}

// ContractBid builds a special contract bid at the given marks.
func ContractBid(playerID string, contract ContractType, marks int, trump DominoSuit, opt DoublesOption) Bid {
	return Bid{Type: BidSpecial, PlayerID: playerID, Contract: contract, Marks: marks, Trump: trump, DoublesOption: opt}
}

// IsPass reports whether the bid is a pass.
func (b Bid) IsPass() bool { return b.Type == BidPass }

// EffectiveAmount is the point value bids are compared by; marks count 42 each.
func (b Bid) EffectiveAmount() int {
	switch b.Type {
	case BidPoints:
		return b.Amount
	case BidMarks:
		return ConvertMarksToBid(b.Marks)
	case BidSpecial:
		if b.Marks > 0 {
			return ConvertMarksToBid(b.Marks)
		}
		return b.Amount
	default:
		return 0
	}
}

// MarksAtStake is what the hand is worth: the bid marks, or one for a point bid.
func (b Bid) MarksAtStake() int {
	switch b.Type {
	case BidMarks:
		return b.Marks
	case BidSpecial:
		if b.Marks > 0 {
			return b.Marks
		}
		return 1
	case BidPoints:
		return 1
	default:
		return 0
	}
}

// PointRequirement is how many points the bidding team needs. Mark bids
// require every point in the hand.
func (b Bid) PointRequirement() int {
	amount := b.EffectiveAmount()
	if amount > HandPoints {
		return HandPoints
	}
	return amount
}

// TrumpSystem returns the trump a winning bid establishes.
func (b Bid) TrumpSystem() TrumpSystem {
	if b.Type != BidSpecial {
		return SuitTrump(b.Trump)
	}
	switch b.Contract {
	case ContractPlunge:
		return SuitTrump(b.Trump)
	case ContractNello, ContractFollowMe:
		return NoTrump(b.DoublesOption)
	default:
		return TrumpSystem{NoTrump: true}
	}
}

func (b Bid) String() string {
	switch b.Type {
	case BidPass:
		return "pass"
	case BidPoints:
		return fmt.Sprintf("%d %s", b.Amount, b.Trump)
	case BidMarks:
		return fmt.Sprintf("%d marks %s", b.Marks, b.Trump)
	case BidSpecial:
		if b.Marks > 0 {
			return fmt.Sprintf("%s %d marks", b.Contract, b.Marks)
		}
		return fmt.Sprintf("%s %d", b.Contract, b.Amount)
	default:
		return string(b.Type)
	}
}

// BidValidationResult is the outcome of ValidateBid.
type BidValidationResult struct {
	IsValid bool   `json:"isValid"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Err converts a failed result into a *RuleError, or nil.
func (r BidValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return &RuleError{Code: r.Code, Message: r.Message, Field: "bid"}
}

func validBid() BidValidationResult { return BidValidationResult{IsValid: true} }

func invalidBid(code Code, format string, args ...any) BidValidationResult {
	return BidValidationResult{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ValidateBid checks a bid against the standing high bid under DefaultRules.
func ValidateBid(bid Bid, currentHigh *Bid, biddingComplete bool) BidValidationResult {
	return ValidateBidWithRules(bid, currentHigh, biddingComplete, DefaultRules())
}

// ValidateBidWithRules checks a bid against the standing high bid. It does not
// inspect the bidder's hand; see ValidateSpecialContract.
func ValidateBidWithRules(bid Bid, currentHigh *Bid, biddingComplete bool, rules Rules) BidValidationResult {
	if biddingComplete {
		return invalidBid(CodeBiddingComplete, "bidding is already complete")
	}
	rules = rules.Normalize()

	switch bid.Type {
	case BidPass:
		return validBid()
	case BidPoints:
		if bid.Amount < MinimumBid {
			return invalidBid(CodeBidTooLow, "bid of %d is below the minimum of %d", bid.Amount, MinimumBid)
		}
		if bid.Amount > MaximumPointBid {
			return invalidBid(CodeBidTooHigh, "point bids stop at %d; bid marks instead", MaximumPointBid)
		}
		if !bid.Trump.IsValid() {
			return invalidBid(CodeMissingTrump, "point bid requires a trump suit")
		}
	case BidMarks:
		if bid.Marks < 1 || bid.Marks > rules.MaxMarks {
			return invalidBid(CodeInvalidMarkBid, "mark bids must be between 1 and %d marks", rules.MaxMarks)
		}
		if !bid.Trump.IsValid() {
			return invalidBid(CodeMissingTrump, "mark bid requires a trump suit")
		}
	case BidSpecial:
		if res := validateContractShape(bid, rules); !res.IsValid {
			return res
		}
	default:
		return invalidBid(CodeInvalidBidType, "unknown bid type %q", bid.Type)
	}

	if currentHigh != nil && bid.EffectiveAmount() <= currentHigh.EffectiveAmount() {
		return invalidBid(CodeBidNotHigher, "bid of %d must exceed current bid of %d", bid.EffectiveAmount(), currentHigh.EffectiveAmount())
	}
	return validBid()
}

// ValidateSpecialContract checks a contract bid, including the bidder's hand
// where the contract depends on it.
func ValidateSpecialContract(bid Bid, hand []Domino, rules Rules) BidValidationResult {
	rules = rules.Normalize()
	if res := validateContractShape(bid, rules); !res.IsValid {
		return res
	}
	if bid.Contract == ContractPlunge {
		if n := CountDoubles(hand); n < rules.PlungeMinDoubles {
			return invalidBid(CodeInsufficientDoubles, "plunge requires %d doubles, hand has %d", rules.PlungeMinDoubles, n)
		}
	}
	return validBid()
}

func validateContractShape(bid Bid, rules Rules) BidValidationResult {
	if bid.Type != BidSpecial || !bid.Contract.IsValid() {
		return invalidBid(CodeInvalidSpecialContract, "unknown special contract %q", bid.Contract)
	}
	if !rules.AllowsContract(bid.Contract) {
		return invalidBid(CodeContractNotAllowed, "%s is not played at this table", bid.Contract)
	}

	switch bid.Contract {
	case ContractPlunge:
		if !bid.Trump.IsValid() {
			return invalidBid(CodeMissingTrump, "plunge requires a trump suit")
		}
		if bid.DoublesOption != "" {
			return invalidBid(CodeInvalidSpecialContract, "plunge is played with trump; doubles option not allowed")
		}
	case ContractNello, ContractFollowMe:
		if bid.Trump != "" {
			return invalidBid(CodeInvalidSpecialContract, "%s is played without trump", bid.Contract)
		}
		if !bid.DoublesOption.IsValid() {
			return invalidBid(CodeInvalidSpecialContract, "%s requires doubles high or low", bid.Contract)
		}
	case ContractSevens:
		if bid.Trump != "" || bid.DoublesOption != "" {
			return invalidBid(CodeInvalidSpecialContract, "sevens takes neither trump nor doubles option")
		}
	}

	if bid.Contract == ContractFollowMe && bid.Marks == 0 {
		if bid.Amount < MinimumBid || bid.Amount > MaximumPointBid {
			return invalidBid(CodeInvalidSpecialContract, "follow-me in points must be between %d and %d", MinimumBid, MaximumPointBid)
		}
		return validBid()
	}
	if bid.Amount != 0 {
		return invalidBid(CodeInvalidSpecialContract, "%s is bid in marks, not points", bid.Contract)
	}
	if least := rules.minimumContractMarks(bid.Contract); bid.Marks < least {
		return invalidBid(CodeInvalidSpecialContract, "%s requires at least %d marks", bid.Contract, least)
	}
	if bid.Marks > rules.MaxMarks {
		return invalidBid(CodeInvalidMarkBid, "mark bids must be between 1 and %d marks", rules.MaxMarks)
	}
	return validBid()
}

// ConvertBidToMarks converts points to marks. points must be a multiple of 42.
func ConvertBidToMarks(points int) int {
	return points / PointsPerMark
}

// ConvertMarksToBid converts marks to their point equivalent.
func ConvertMarksToBid(marks int) int {
	return marks * PointsPerMark
}

// GetMinimumBidAmount is the lowest effective amount that may be bid next.
func GetMinimumBidAmount(currentHigh *Bid) int {
	if currentHigh == nil {
		return MinimumBid
	}
	return currentHigh.EffectiveAmount() + 1
}

// LegalBidAmounts lists the effective amounts a player may still bid:
// remaining point values 30..41 followed by whole marks up to the table limit.
func LegalBidAmounts(currentHigh *Bid, rules Rules) []int {
	rules = rules.Normalize()
	floor := GetMinimumBidAmount(currentHigh)
	var out []int
	for amount := floor; amount <= MaximumPointBid; amount++ {
		out = append(out, amount)
	}
	for marks := 1; marks <= rules.MaxMarks; marks++ {
		if amount := ConvertMarksToBid(marks); amount >= floor {
			out = append(out, amount)
		}
	}
	return out
}
