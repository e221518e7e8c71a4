package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers() []Player {
	return []Player{
		{ID: "n", Name: "North", Position: North, IsConnected: true},
		{ID: "e", Name: "East", Position: East, IsConnected: true},
		{ID: "s", Name: "South", Position: South, IsConnected: true},
		{ID: "w", Name: "West", Position: West, IsConnected: true},
	}
}

// seatedGame has west dealing, so north bids and leads first.
func seatedGame(t *testing.T) *GameState {
	t.Helper()
	g, err := NewGame("g1", testPlayers(), "w", DefaultRules())
	require.NoError(t, err)
	return g
}

// fixedHands gives north four doubles and the high sixes.
func fixedHands() map[string][]Domino {
	mk := func(pairs ...[2]int) []Domino {
		out := make([]Domino, len(pairs))
		for i, p := range pairs {
			out[i] = MustDomino(p[0], p[1])
		}
		return out
	}
	return map[string][]Domino{
		"n": mk([2]int{6, 6}, [2]int{5, 5}, [2]int{4, 4}, [2]int{3, 3}, [2]int{6, 5}, [2]int{6, 4}, [2]int{6, 3}),
		"e": mk([2]int{2, 2}, [2]int{1, 1}, [2]int{0, 0}, [2]int{6, 2}, [2]int{6, 1}, [2]int{6, 0}, [2]int{5, 4}),
		"s": mk([2]int{5, 3}, [2]int{5, 2}, [2]int{5, 1}, [2]int{5, 0}, [2]int{4, 3}, [2]int{4, 2}, [2]int{4, 1}),
		"w": mk([2]int{4, 0}, [2]int{3, 2}, [2]int{3, 1}, [2]int{3, 0}, [2]int{2, 1}, [2]int{2, 0}, [2]int{1, 0}),
	}
}

func dealtGame(t *testing.T) *GameState {
	t.Helper()
	g, err := DealHand(seatedGame(t), fixedHands(), nil)
	require.NoError(t, err)
	return g
}

func applyBids(t *testing.T, g *GameState, bids ...Bid) *GameState {
	t.Helper()
	for _, b := range bids {
		next, err := ApplyBid(g, b)
		require.NoError(t, err, "bid %s by %s", b, b.PlayerID)
		g = next
	}
	return g
}

// playOut plays the first legal domino for whoever is to act until the hand ends.
func playOut(t *testing.T, g *GameState) *GameState {
	t.Helper()
	for g.Phase == PhasePlaying {
		plays := LegalPlays(g, g.CurrentPlayer)
		require.NotEmpty(t, plays, "no legal play for %s", g.CurrentPlayer)
		next, err := PlayDomino(g, g.CurrentPlayer, plays[0])
		require.NoError(t, err)
		g = next
	}
	return g
}

func TestNewGameRejectsBadSeating(t *testing.T) {
	players := testPlayers()
	_, err := NewGame("g", players[:3], "n", DefaultRules())
	assert.Equal(t, CodeInvalidPlayerCount, CodeOf(err))

	_, err = NewGame("g", players, "x", DefaultRules())
	assert.Equal(t, CodeDealerNotFound, CodeOf(err))
}

func TestDealHand(t *testing.T) {
	seated := seatedGame(t)
	g, err := DealHand(seated, fixedHands(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, g.HandNumber)
	assert.Equal(t, PhaseBidding, g.Phase)
	assert.Equal(t, "w", g.Dealer)
	assert.Equal(t, "n", g.Bidding.CurrentBidder)
	assert.Equal(t, "n", g.CurrentPlayer)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, HandSize)
	}
	assert.Empty(t, seated.Players[0].Hand, "input state must not change")
	assert.True(t, IsValidGameState(g))
}

func TestDealHandRejects(t *testing.T) {
	g := seatedGame(t)

	hands := fixedHands()
	hands["w"] = hands["w"][:6]
	_, err := DealHand(g, hands, nil)
	require.Error(t, err)
	assert.True(t, IsDefect(err))

	hands = fixedHands()
	hands["w"][0] = hands["n"][0]
	_, err = DealHand(g, hands, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has(CodeDuplicateDomino))

	_, err = DealHand(dealtGame(t), fixedHands(), nil)
	assert.Equal(t, CodeInvalidPhase, CodeOf(err))
}

func TestApplyBidFlow(t *testing.T) {
	g := dealtGame(t)

	_, err := ApplyBid(g, PointBid("e", 30, SuitSixes))
	assert.Equal(t, CodeNotYourTurn, CodeOf(err))

	_, err = ApplyBid(g, PointBid("x", 30, SuitSixes))
	assert.Equal(t, CodeUnknownPlayer, CodeOf(err))

	g = applyBids(t, g, PointBid("n", 30, SuitSixes), PassBid("e"), PassBid("s"))
	assert.Equal(t, PhaseBidding, g.Phase)
	assert.Equal(t, "w", g.CurrentPlayer)

	g = applyBids(t, g, PassBid("w"))
	assert.Equal(t, PhasePlaying, g.Phase)
	require.NotNil(t, g.Trump)
	assert.Equal(t, SuitSixes, g.Trump.Suit)
	require.NotNil(t, g.WinningBid)
	assert.Equal(t, 30, g.WinningBid.Amount)
	assert.Equal(t, NorthSouth, g.Partnerships.BiddingTeam())
	assert.Equal(t, "n", g.CurrentPlayer)
	require.NotNil(t, g.CurrentTrick)
	assert.Equal(t, 1, g.CurrentTrick.Number)

	_, err = ApplyBid(g, PassBid("e"))
	assert.Equal(t, CodeInvalidPhase, CodeOf(err))
}

func TestApplyBidPlungeNeedsDoubles(t *testing.T) {
	g := dealtGame(t)
	g = applyBids(t, g, PassBid("n"))

	_, err := ApplyBid(g, ContractBid("e", ContractPlunge, 4, SuitSixes, ""))
	assert.Equal(t, CodeInsufficientDoubles, CodeOf(err))

	g = dealtGame(t)
	g = applyBids(t, g, ContractBid("n", ContractPlunge, 4, SuitSixes, ""), PassBid("e"), PassBid("s"), PassBid("w"))
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Equal(t, ContractPlunge, g.Contract())
}

func TestRedealRotatesDealer(t *testing.T) {
	g := dealtGame(t)
	g = applyBids(t, g, PassBid("n"), PassBid("e"), PassBid("s"), PassBid("w"))
	require.True(t, g.Bidding.Redeal)
	assert.Equal(t, PhaseBidding, g.Phase)

	_, err := ApplyBid(g, PassBid("n"))
	assert.Equal(t, CodeBiddingComplete, CodeOf(err))

	dealer := NextDealer(g)
	assert.Equal(t, "n", dealer)
	hands, boneyard := SplitHands(g, dealer, ShuffledSet(rand.New(rand.NewSource(3))))
	g, err = DealHand(g, hands, boneyard)
	require.NoError(t, err)
	assert.Equal(t, "n", g.Dealer)
	assert.Equal(t, "e", g.Bidding.CurrentBidder)
	assert.Equal(t, 2, g.HandNumber)
	assert.False(t, g.Bidding.Redeal)
}

func TestPlayDominoRules(t *testing.T) {
	g := applyBids(t, dealtGame(t), PointBid("n", 30, SuitSixes), PassBid("e"), PassBid("s"), PassBid("w"))

	_, err := PlayDomino(g, "e", MustDomino(6, 0))
	assert.Equal(t, CodeNotYourTurn, CodeOf(err))

	_, err = PlayDomino(g, "n", MustDomino(1, 0))
	assert.Equal(t, CodeDominoNotInHand, CodeOf(err))

	g, err = PlayDomino(g, "n", MustDomino(6, 6))
	require.NoError(t, err)
	assert.Equal(t, SuitSixes, g.CurrentTrick.LeadSuit)
	assert.Equal(t, "e", g.CurrentPlayer)

	assert.ElementsMatch(t, []Domino{MustDomino(6, 2), MustDomino(6, 1), MustDomino(6, 0)}, LegalPlays(g, "e"))
	_, err = PlayDomino(g, "e", MustDomino(2, 2))
	assert.Equal(t, CodeMustFollowSuit, CodeOf(err))

	g, err = PlayDomino(g, "e", MustDomino(6, 0))
	require.NoError(t, err)
	assert.Len(t, LegalPlays(g, "s"), 7, "south has no sixes")
	g, err = PlayDomino(g, "s", MustDomino(5, 0))
	require.NoError(t, err)
	g, err = PlayDomino(g, "w", MustDomino(4, 0))
	require.NoError(t, err)

	require.Len(t, g.Tricks, 1)
	trick := g.Tricks[0]
	assert.Equal(t, "n", trick.Winner)
	assert.Equal(t, 6, trick.PointValue)
	assert.Equal(t, "n", g.CurrentPlayer)
	assert.Equal(t, 2, g.CurrentTrick.Number)
	assert.Equal(t, 6, g.Partnerships.NorthSouth.CurrentHandScore)
	assert.Equal(t, 1, g.Scoring.NorthSouth.TrickPoints)
	assert.True(t, IsValidGameState(g))
}

func TestNelloPartnerSitsOut(t *testing.T) {
	g := applyBids(t, dealtGame(t), ContractBid("n", ContractNello, 1, "", DoublesLow), PassBid("e"), PassBid("s"), PassBid("w"))
	assert.Equal(t, "s", g.SittingOut)
	assert.Equal(t, 3, g.ActivePlayers())

	g, err := PlayDomino(g, "n", MustDomino(6, 3))
	require.NoError(t, err)
	g, err = PlayDomino(g, "e", MustDomino(6, 2))
	require.NoError(t, err)
	assert.Equal(t, "w", g.CurrentPlayer, "south is skipped")

	_, err = PlayDomino(g, "s", MustDomino(5, 3))
	assert.Equal(t, CodePlayerSittingOut, CodeOf(err))

	g = playOut(t, g)
	assert.Len(t, g.Tricks, TricksPerHand)
	for _, tr := range g.Tricks {
		assert.Len(t, tr.Dominoes, 3)
	}
	hs, ok := g.LastHandScore()
	require.True(t, ok)
	assert.Equal(t, hs.TricksWon == 0, hs.BidFulfilled)
	assert.Len(t, g.Players[2].Hand, HandSize)
}

func TestSevensMustPlayNearestSeven(t *testing.T) {
	g := applyBids(t, dealtGame(t), ContractBid("n", ContractSevens, 1, "", ""), PassBid("e"), PassBid("s"), PassBid("w"))
	// 4-4 and 3-3 are both one pip from seven.
	assert.ElementsMatch(t, []Domino{MustDomino(4, 4), MustDomino(3, 3)}, LegalPlays(g, "n"))
	_, err := PlayDomino(g, "n", MustDomino(6, 6))
	assert.Equal(t, CodeMustFollowSuit, CodeOf(err))
}

func TestFullHandTotals42(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := seatedGame(t)
		hands, boneyard := SplitHands(g, NextDealer(g), ShuffledSet(rand.New(rand.NewSource(seed))))
		require.Empty(t, boneyard)

		g, err := DealHand(g, hands, boneyard)
		require.NoError(t, err)
		g = applyBids(t, g, PointBid("n", 30, SuitFives), PassBid("e"), PassBid("s"), PassBid("w"))
		g = playOut(t, g)

		require.Equal(t, PhaseScoring, g.Phase)
		require.Len(t, g.Tricks, TricksPerHand)
		total := 0
		for _, tr := range g.Tricks {
			total += tr.PointValue
		}
		assert.Equal(t, HandPoints, total)

		ns, ew := g.Scoring.NorthSouth, g.Scoring.EastWest
		assert.Equal(t, TricksPerHand, ns.TrickPoints+ew.TrickPoints)
		assert.Equal(t, TotalCountPoints, ns.CountPoints()+ew.CountPoints())
		assert.Equal(t, HandPoints, ns.TotalPoints()+ew.TotalPoints())

		hs, ok := g.LastHandScore()
		require.True(t, ok)
		assert.Equal(t, HandPoints, hs.TotalPoints+hs.OpponentPoints)
		assert.Equal(t, hs.TotalPoints >= 30, hs.BidFulfilled)
		assert.Equal(t, 1, hs.MarksAwarded.NorthSouth+hs.MarksAwarded.EastWest)
		assert.Equal(t, 1, g.Partnerships.NorthSouth.Marks+g.Partnerships.EastWest.Marks)
		assert.Empty(t, g.CurrentPlayer)
		assert.True(t, IsValidGameState(g))
	}
}

func TestGamePlaysToMarksToWin(t *testing.T) {
	rules := DefaultRules()
	rules.MarksToWin = 3
	g, err := NewGame("g", testPlayers(), "w", rules)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))

	dealers := map[string]bool{}
	for hand := 0; hand < 20 && !g.GameComplete; hand++ {
		dealer := NextDealer(g)
		dealers[dealer] = true
		hands, boneyard := SplitHands(g, dealer, ShuffledSet(rng))
		g, err = DealHand(g, hands, boneyard)
		require.NoError(t, err)

		bidder := g.Bidding.CurrentBidder
		bids := []Bid{PointBid(bidder, 30, SuitDoubles)}
		for id := g.NextPlayer(bidder); id != bidder; id = g.NextPlayer(id) {
			bids = append(bids, PassBid(id))
		}
		g = applyBids(t, g, bids...)
		g = playOut(t, g)
	}

	require.True(t, g.GameComplete)
	assert.Equal(t, PhaseFinished, g.Phase)
	assert.Equal(t, 3, g.Partnerships.Get(g.Winner).Marks)
	assert.Len(t, g.HandHistory, g.HandNumber)
	assert.GreaterOrEqual(t, len(dealers), 3)

	_, err = DealHand(g, fixedHands(), nil)
	assert.Equal(t, CodeGameComplete, CodeOf(err))
}

func TestCloneIsDeep(t *testing.T) {
	g := applyBids(t, dealtGame(t), PointBid("n", 30, SuitSixes))
	c := g.Clone()
	c.Players[0].Hand[0] = MustDomino(0, 0)
	c.Bidding.BidHistory[0].Amount = 41
	c.Bidding.CurrentBid.Amount = 41

	assert.Equal(t, MustDomino(6, 6), g.Players[0].Hand[0])
	assert.Equal(t, 30, g.Bidding.BidHistory[0].Amount)
	assert.Equal(t, 30, g.Bidding.CurrentBid.Amount)
}
