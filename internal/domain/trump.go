package domain

// DominoSuit is one of the seven pip suits or the doubles suit.
type DominoSuit string

const (
	SuitBlanks  DominoSuit = "blanks"
	SuitOnes    DominoSuit = "ones"
	SuitTwos    DominoSuit = "twos"
	SuitThrees  DominoSuit = "threes"
	SuitFours   DominoSuit = "fours"
	SuitFives   DominoSuit = "fives"
	SuitSixes   DominoSuit = "sixes"
	SuitDoubles DominoSuit = "doubles"
)

var pipSuits = [...]DominoSuit{SuitBlanks, SuitOnes, SuitTwos, SuitThrees, SuitFours, SuitFives, SuitSixes}

// AllSuits lists the eight suits, pip suits first.
func AllSuits() []DominoSuit {
	out := make([]DominoSuit, 0, len(pipSuits)+1)
	out = append(out, pipSuits[:]...)
	return append(out, SuitDoubles)
}

// SuitForPip maps 0..6 to its numeric suit. Out-of-range pips yield "".
func SuitForPip(pip int) DominoSuit {
	if pip < MinPip || pip > MaxPip {
		return ""
	}
	return pipSuits[pip]
}

// Pip returns the pip value of a numeric suit; ok is false for doubles.
func (s DominoSuit) Pip() (int, bool) {
	for i, ps := range pipSuits {
		if ps == s {
			return i, true
		}
	}
	return -1, false
}

// IsValid reports whether s is one of the eight suits.
func (s DominoSuit) IsValid() bool {
	if s == SuitDoubles {
		return true
	}
	_, ok := s.Pip()
	return ok
}

// DoublesOption places doubles within their pip suit when nothing is trump.
type DoublesOption string

const (
	DoublesHigh DoublesOption = "high"
	DoublesLow  DoublesOption = "low"
)

// IsValid reports whether o is high or low.
func (o DoublesOption) IsValid() bool {
	return o == DoublesHigh || o == DoublesLow
}

// TrumpSystem is the declared trump for a hand.
type TrumpSystem struct {
	Suit          DominoSuit    `json:"suit,omitempty"`
	NoTrump       bool          `json:"noTrump"`
	DoublesOption DoublesOption `json:"doublesOption,omitempty"`
}

// SuitTrump declares s as trump.
func SuitTrump(s DominoSuit) TrumpSystem {
	return TrumpSystem{Suit: s}
}

// NoTrump declares a hand without trump, with doubles ranked per opt.
func NoTrump(opt DoublesOption) TrumpSystem {
	return TrumpSystem{NoTrump: true, DoublesOption: opt}
}

// HasTrump reports whether a suit is trump.
func (t TrumpSystem) HasTrump() bool {
	return !t.NoTrump && t.Suit.IsValid()
}

// doublesJoinPipSuit is true when no-trump play folds doubles into their pip suit.
func (t TrumpSystem) doublesJoinPipSuit() bool {
	return t.NoTrump && t.DoublesOption.IsValid()
}

// GetDominoSuits returns every suit d belongs to under trump. A non-double
// belongs to both of its pip suits. A double always belongs to doubles and
// additionally to its pip suit when that suit is trump, or when no-trump play
// ranks doubles within their suit.
func GetDominoSuits(d Domino, trump TrumpSystem) []DominoSuit {
	if !d.IsDouble() {
		return []DominoSuit{SuitForPip(d.High), SuitForPip(d.Low)}
	}
	suits := []DominoSuit{SuitDoubles}
	own := SuitForPip(d.High)
	if (trump.HasTrump() && trump.Suit == own) || trump.doublesJoinPipSuit() {
		suits = append(suits, own)
	}
	return suits
}

// IsTrumpDomino reports whether d belongs to the trump suit.
func IsTrumpDomino(d Domino, trump TrumpSystem) bool {
	if !trump.HasTrump() {
		return false
	}
	for _, s := range GetDominoSuits(d, trump) {
		if s == trump.Suit {
			return true
		}
	}
	return false
}

// GetTrumpRank orders trump dominoes; higher beats lower. Non-trump yields -1.
// Under a pip suit the double ranks 7 and the rest rank by their other end.
// Under doubles trump a double ranks by its pip.
func GetTrumpRank(d Domino, trump TrumpSystem) int {
	if !IsTrumpDomino(d, trump) {
		return -1
	}
	if trump.Suit == SuitDoubles {
		return d.High
	}
	if d.IsDouble() {
		return MaxPip + 1
	}
	pip, _ := trump.Suit.Pip()
	return d.Other(pip)
}

// CompareTrumpDominoes returns >0 when a outranks b in trump, <0 when b
// outranks a, 0 when equal or both non-trump.
func CompareTrumpDominoes(a, b Domino, trump TrumpSystem) int {
	return GetTrumpRank(a, trump) - GetTrumpRank(b, trump)
}

// CompareNonTrumpDominoes orders by pip sum, then by the higher end.
func CompareNonTrumpDominoes(a, b Domino) int {
	if a.PipSum() != b.PipSum() {
		return a.PipSum() - b.PipSum()
	}
	return a.High - b.High
}

// CreateTrumpHierarchy lists trump dominoes from highest to lowest.
func CreateTrumpHierarchy(trump TrumpSystem) ([]Domino, error) {
	if !trump.HasTrump() {
		re := newRuleError(CodeMissingTrump, "trump", "no trump suit declared")
		return nil, &re
	}
	var out []Domino
	if trump.Suit == SuitDoubles {
		for pip := MaxPip; pip >= MinPip; pip-- {
			out = append(out, MustDomino(pip, pip))
		}
	} else {
		pip, _ := trump.Suit.Pip()
		out = append(out, MustDomino(pip, pip))
		for other := MaxPip; other >= MinPip; other-- {
			if other != pip {
				out = append(out, MustDomino(pip, other))
			}
		}
	}
	want := SuitTrumpSize
	if trump.Suit == SuitDoubles {
		want = DoublesTrumpSize
	}
	if len(out) != want {
		re := newRuleError(CodeTrumpHierarchyMismatch, "trump", "hierarchy for %s has %d dominoes, want %d", trump.Suit, len(out), want)
		return nil, &re
	}
	return out, nil
}

// LeadSuit is the suit a domino calls for when it opens a trick. Trump leads
// trump; a double leads doubles unless no-trump play folds it into its pip
// suit; any other domino leads its higher end.
func LeadSuit(d Domino, trump TrumpSystem) DominoSuit {
	switch {
	case IsTrumpDomino(d, trump):
		return trump.Suit
	case d.IsDouble() && !trump.doublesJoinPipSuit():
		return SuitDoubles
	default:
		return SuitForPip(d.High)
	}
}

// FollowsSuit reports whether d answers lead. A trump domino only follows a trump lead.
func FollowsSuit(d Domino, lead DominoSuit, trump TrumpSystem) bool {
	if IsTrumpDomino(d, trump) {
		return lead == trump.Suit
	}
	for _, s := range GetDominoSuits(d, trump) {
		if s == lead {
			return true
		}
	}
	return false
}

// suitRank orders dominoes that follow a non-trump lead suit.
func suitRank(d Domino, lead DominoSuit, trump TrumpSystem) int {
	if lead == SuitDoubles {
		return d.High
	}
	pip, _ := lead.Pip()
	if d.IsDouble() {
		if trump.NoTrump && trump.DoublesOption == DoublesLow {
			return -1
		}
		return MaxPip + 1
	}
	return d.Other(pip)
}
