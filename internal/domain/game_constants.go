package domain

// Domino set shape.
const (
	MinPip           = 0
	MaxPip           = 6
	DominoCount      = 28
	HandSize         = 7
	PlayerCount      = 4
	TricksPerHand    = 7
	TotalCountPoints = 35
	// HandPoints is the namesake total: 35 count points plus one point per trick.
	HandPoints = TotalCountPoints + TricksPerHand
)

// Bidding bounds.
const (
	MinimumBid        = 30
	MaximumPointBid   = 41
	PointsPerMark     = 42
	MaxMarks          = 6
	DefaultMarksToWin = 7
)

// Trump hierarchy sizes.
const (
	SuitTrumpSize    = 7
	DoublesTrumpSize = 7
)

// Rules are the tunable parameters of a table. Zero values are replaced by
// DefaultRules through Normalize.
type Rules struct {
	MarksToWin       int            `json:"marksToWin"`
	MaxMarks         int            `json:"maxMarks"`
	PlungeMinDoubles int            `json:"plungeMinDoubles"`
	PlungeMinMarks   int            `json:"plungeMinMarks"`
	NelloMinMarks    int            `json:"nelloMinMarks"`
	SevensMinMarks   int            `json:"sevensMinMarks"`
	Contracts        []ContractType `json:"contracts"`
}

// DefaultRules returns the common Texas 42 table rules.
func DefaultRules() Rules {
	return Rules{
		MarksToWin:       DefaultMarksToWin,
		MaxMarks:         MaxMarks,
		PlungeMinDoubles: 4,
		PlungeMinMarks:   4,
		NelloMinMarks:    1,
		SevensMinMarks:   1,
		Contracts:        []ContractType{ContractNello, ContractPlunge, ContractSevens, ContractFollowMe},
	}
}

// Normalize fills unset fields from DefaultRules.
func (r Rules) Normalize() Rules {
	def := DefaultRules()
	if r.MarksToWin <= 0 {
		r.MarksToWin = def.MarksToWin
	}
	if r.MaxMarks <= 0 {
		r.MaxMarks = def.MaxMarks
	}
	if r.PlungeMinDoubles <= 0 {
		r.PlungeMinDoubles = def.PlungeMinDoubles
	}
	if r.PlungeMinMarks <= 0 {
		r.PlungeMinMarks = def.PlungeMinMarks
	}
	if r.NelloMinMarks <= 0 {
		r.NelloMinMarks = def.NelloMinMarks
	}
	if r.SevensMinMarks <= 0 {
		r.SevensMinMarks = def.SevensMinMarks
	}
	if r.Contracts == nil {
		r.Contracts = def.Contracts
	}
	return r
}

// AllowsContract reports whether the special contract is enabled at this table.
func (r Rules) AllowsContract(c ContractType) bool {
	for _, allowed := range r.Contracts {
		if allowed == c {
			return true
		}
	}
	return false
}

// minimumContractMarks is the least number of marks a special contract may be bid at.
func (r Rules) minimumContractMarks(c ContractType) int {
	switch c {
	case ContractNello:
		return r.NelloMinMarks
	case ContractPlunge:
		return r.PlungeMinMarks
	case ContractSevens:
		return r.SevensMinMarks
	default:
		return 1
	}
}
