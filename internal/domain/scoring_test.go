package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finishedHand has north/south taking five tricks and 25 count, east/west
// two tricks and 10 count: 30 to 12.
func finishedHand() ScoringState {
	return ScoringState{
		NorthSouth: TeamTally{
			TrickPoints:   5,
			TricksWon:     5,
			CountDominoes: []Domino{MustDomino(5, 5), MustDomino(6, 4), MustDomino(3, 2)},
		},
		EastWest: TeamTally{
			TrickPoints:   2,
			TricksWon:     2,
			CountDominoes: []Domino{MustDomino(4, 1), MustDomino(5, 0)},
		},
		TricksPlayed:  7,
		RoundComplete: true,
	}
}

func TestCalculateHandScore(t *testing.T) {
	tests := []struct {
		name      string
		bid       Bid
		team      PartnershipID
		fulfilled bool
		want      MarksAwarded
	}{
		{name: "30 made with 30", bid: PointBid("n", 30, SuitSixes), team: NorthSouth, fulfilled: true, want: MarksAwarded{NorthSouth: 1}},
		{name: "31 set with 30", bid: PointBid("n", 31, SuitSixes), team: NorthSouth, want: MarksAwarded{EastWest: 1}},
		{name: "east-west 30 set with 12", bid: PointBid("e", 30, SuitSixes), team: EastWest, want: MarksAwarded{NorthSouth: 1}},
		{name: "two marks need all 42", bid: MarkBid("n", 2, SuitSixes), team: NorthSouth, want: MarksAwarded{EastWest: 2}},
		{name: "follow-me in points", bid: Bid{Type: BidSpecial, PlayerID: "n", Contract: ContractFollowMe, Amount: 30, DoublesOption: DoublesHigh}, team: NorthSouth, fulfilled: true, want: MarksAwarded{NorthSouth: 1}},
		{name: "sevens needs every trick", bid: ContractBid("n", ContractSevens, 1, "", ""), team: NorthSouth, want: MarksAwarded{EastWest: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs, err := CalculateHandScore(finishedHand(), tt.bid, tt.team)
			require.NoError(t, err)
			assert.Equal(t, tt.fulfilled, hs.BidFulfilled)
			assert.Equal(t, tt.want, hs.MarksAwarded)
			assert.Equal(t, HandPoints, hs.TotalPoints+hs.OpponentPoints)
		})
	}
}

func TestCalculateHandScoreBreakdown(t *testing.T) {
	hs, err := CalculateHandScore(finishedHand(), PointBid("n", 30, SuitSixes), NorthSouth)
	require.NoError(t, err)
	assert.Equal(t, 25, hs.CountPoints)
	assert.Equal(t, 5, hs.TrickPoints)
	assert.Equal(t, 30, hs.TotalPoints)
	assert.Equal(t, 12, hs.OpponentPoints)
	assert.Equal(t, 5, hs.TricksWon)
}

func TestCalculateHandScoreAllTricks(t *testing.T) {
	s := ScoringState{
		NorthSouth: TeamTally{
			TrickPoints:   7,
			TricksWon:     7,
			CountDominoes: CountDominoes(NewFullDominoSet().Dominoes),
		},
		TricksPlayed:  7,
		RoundComplete: true,
	}

	hs, err := CalculateHandScore(s, ContractBid("s", ContractPlunge, 4, SuitSixes, ""), NorthSouth)
	require.NoError(t, err)
	assert.True(t, hs.BidFulfilled)
	assert.Equal(t, 42, hs.TotalPoints)
	assert.Equal(t, MarksAwarded{NorthSouth: 4}, hs.MarksAwarded)
}

func TestCalculateHandScoreNello(t *testing.T) {
	s := ScoringState{
		EastWest:      TeamTally{TrickPoints: 7, TricksWon: 7, CountDominoes: []Domino{MustDomino(5, 5)}},
		TricksPlayed:  7,
		RoundComplete: true,
	}
	hs, err := CalculateHandScore(s, ContractBid("n", ContractNello, 2, "", DoublesLow), NorthSouth)
	require.NoError(t, err, "nello hands do not total 42")
	assert.True(t, hs.BidFulfilled)
	assert.Equal(t, MarksAwarded{NorthSouth: 2}, hs.MarksAwarded)

	s.NorthSouth = TeamTally{TrickPoints: 1, TricksWon: 1}
	s.EastWest.TrickPoints, s.EastWest.TricksWon = 6, 6
	hs, err = CalculateHandScore(s, ContractBid("n", ContractNello, 2, "", DoublesLow), NorthSouth)
	require.NoError(t, err)
	assert.False(t, hs.BidFulfilled)
	assert.Equal(t, MarksAwarded{EastWest: 2}, hs.MarksAwarded)
}

func TestCalculateHandScoreRejects(t *testing.T) {
	short := finishedHand()
	short.EastWest.CountDominoes = short.EastWest.CountDominoes[:1]
	_, err := CalculateHandScore(short, PointBid("n", 30, SuitSixes), NorthSouth)
	require.Error(t, err)
	assert.Equal(t, CodePointTotalMismatch, CodeOf(err))
	assert.True(t, IsDefect(err))

	open := finishedHand()
	open.RoundComplete = false
	_, err = CalculateHandScore(open, PointBid("n", 30, SuitSixes), NorthSouth)
	assert.Equal(t, CodeInvalidPhase, CodeOf(err))

	_, err = CalculateHandScore(finishedHand(), PointBid("n", 30, SuitSixes), "")
	assert.Equal(t, CodeInvalidPartnership, CodeOf(err))
}

func TestRecordTrick(t *testing.T) {
	s := NewEmptyScoringState()
	trick := Trick{Number: 1, IsComplete: true, PointValue: 11, CountDominoes: []Domino{MustDomino(6, 4)}}

	next, err := s.RecordTrick(trick, EastWest)
	require.NoError(t, err)
	assert.Equal(t, 1, next.EastWest.TrickPoints)
	assert.Equal(t, 11, next.EastWest.TotalPoints())
	assert.Equal(t, 1, next.TricksPlayed)
	assert.Zero(t, s.TricksPlayed, "input state must not change")

	_, err = s.RecordTrick(Trick{Number: 1}, EastWest)
	assert.True(t, IsDefect(err))

	for i := 1; i < TricksPerHand; i++ {
		next, err = next.RecordTrick(Trick{Number: i + 1, IsComplete: true, PointValue: 1}, NorthSouth)
		require.NoError(t, err)
	}
	assert.True(t, next.RoundComplete)
	_, err = next.RecordTrick(Trick{Number: 8, IsComplete: true}, NorthSouth)
	assert.Error(t, err)
}

func TestApplyHandScoreAndWinner(t *testing.T) {
	ps := PartnershipState{
		NorthSouth: Partnership{ID: NorthSouth, Marks: 6},
		EastWest:   Partnership{ID: EastWest, Marks: 3},
	}
	hs := HandScore{BiddingTeam: NorthSouth, TotalPoints: 34, OpponentPoints: 8, BidFulfilled: true, MarksAwarded: MarksAwarded{NorthSouth: 1}}

	assert.Equal(t, PartnershipID(""), GameWinner(ps, 7))
	ps = ApplyHandScore(ps, hs)
	assert.Equal(t, 7, ps.NorthSouth.Marks)
	assert.Equal(t, 34, ps.NorthSouth.TotalGameScore)
	assert.Equal(t, 8, ps.EastWest.TotalGameScore)
	assert.Equal(t, NorthSouth, GameWinner(ps, 7))
}
