package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGameStateSeating(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *GameState)
		want   Code
	}{
		{name: "valid"},
		{name: "three players", mutate: func(g *GameState) { g.Players = g.Players[:3] }, want: CodeInvalidPlayerCount},
		{name: "five players", mutate: func(g *GameState) {
			g.Players = append(g.Players, Player{ID: "x", Position: North})
		}, want: CodeInvalidPlayerCount},
		{name: "duplicate position", mutate: func(g *GameState) { g.Players[1].Position = North }, want: CodeDuplicatePosition},
		{name: "duplicate id", mutate: func(g *GameState) { g.Players[1].ID = "n" }, want: CodeDuplicatePlayer},
		{name: "dealer not seated", mutate: func(g *GameState) { g.Dealer = "ghost" }, want: CodeDealerNotFound},
		{name: "bad position", mutate: func(g *GameState) { g.Players[3].Position = "center" }, want: CodeInvalidPosition},
		{name: "negative marks", mutate: func(g *GameState) { g.Partnerships.EastWest.Marks = -1 }, want: CodeNegativeScore},
		{name: "unknown phase", mutate: func(g *GameState) { g.Phase = "lobby" }, want: CodeInvalidPhase},
		{name: "lost domino", mutate: func(g *GameState) { g.Players[0].Hand = g.Players[0].Hand[1:] }, want: CodeDominoCountMismatch},
		{name: "duplicated domino", mutate: func(g *GameState) { g.Boneyard = []Domino{g.Players[0].Hand[0]} }, want: CodeDuplicateDomino},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := dealtGame(t).Clone()
			if tt.mutate != nil {
				tt.mutate(g)
			}
			res := ValidateGameState(g)
			if tt.want == "" {
				assert.True(t, res.IsValid, "%v", res.Errors)
				assert.True(t, IsValidGameState(g))
				return
			}
			assert.False(t, IsValidGameState(g))
			var ve *ValidationError
			require.ErrorAs(t, res.Err(), &ve)
			assert.True(t, ve.Has(tt.want), "codes %v", ve.Codes())
		})
	}
}

func TestValidateGameStateDefects(t *testing.T) {
	g := dealtGame(t).Clone()
	g.Players[0].Hand = g.Players[0].Hand[1:]
	res := ValidateGameState(g)
	assert.True(t, res.HasDefect())
	assert.True(t, IsDefect(res.Err()))
	assert.Equal(t, "g1", res.Context["gameId"])

	g = dealtGame(t).Clone()
	g.Dealer = "ghost"
	res = ValidateGameState(g)
	assert.False(t, res.HasDefect(), "a missing dealer is a rule violation")
}

func TestValidateGameStateWarnings(t *testing.T) {
	g := dealtGame(t).Clone()
	g.Players[1].IsConnected = false
	res := ValidateGameState(g)
	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.NoError(t, res.Err())

	g.Players[1].IsBot = true
	assert.Empty(t, ValidateGameState(g).Warnings)
}

func TestValidateGameStateNil(t *testing.T) {
	assert.False(t, IsValidGameState(nil))
}

func TestIsValidPlayer(t *testing.T) {
	assert.True(t, IsValidPlayer(Player{ID: "p", Position: East}))
	assert.False(t, IsValidPlayer(Player{Position: East}))
	assert.False(t, IsValidPlayer(Player{ID: "p", Position: "up"}))
	assert.False(t, IsValidPlayer(Player{ID: "p", Position: East, Hand: []Domino{MustDomino(1, 1), MustDomino(1, 1)}}))
	assert.False(t, IsValidPlayer(Player{ID: "p", Position: East, Hand: []Domino{{High: 9, Low: 1}}}))
}

func TestIsValidBid(t *testing.T) {
	assert.True(t, IsValidBid(PassBid("p")))
	assert.True(t, IsValidBid(PointBid("p", 30, SuitBlanks)))
	assert.False(t, IsValidBid(PointBid("", 30, SuitBlanks)))
	assert.False(t, IsValidBid(PointBid("p", 12, SuitBlanks)))
	assert.False(t, IsValidBid(Bid{Type: "double", PlayerID: "p"}))
}

func TestEnumGuards(t *testing.T) {
	assert.True(t, IsValidPosition("west"))
	assert.False(t, IsValidPosition("West"))
	assert.True(t, IsValidPhase("scoring"))
	assert.False(t, IsValidPhase("lobby"))
	assert.True(t, IsValidSuit("doubles"))
	assert.True(t, IsValidSuit("blanks"))
	assert.False(t, IsValidSuit("sevens"))
}

func TestValidateLobbyState(t *testing.T) {
	good := LobbyState{
		AvailableGames: []LobbyGame{
			{ID: "a", Name: "Friday", PlayerCount: 2, MaxPlayers: 4, Status: LobbyWaiting},
			{ID: "b", Name: "Saturday", PlayerCount: 4, MaxPlayers: 4, Status: LobbyPlaying},
		},
		ConnectedPlayers: 6,
	}
	assert.True(t, IsValidLobbyState(good))
	assert.True(t, IsValidLobbyState(LobbyState{}))

	tests := []struct {
		name   string
		mutate func(l *LobbyState)
	}{
		{name: "negative connected", mutate: func(l *LobbyState) { l.ConnectedPlayers = -1 }},
		{name: "duplicate id", mutate: func(l *LobbyState) { l.AvailableGames[1].ID = "a" }},
		{name: "missing id", mutate: func(l *LobbyState) { l.AvailableGames[0].ID = "" }},
		{name: "six seats", mutate: func(l *LobbyState) { l.AvailableGames[0].MaxPlayers = 6 }},
		{name: "overfull", mutate: func(l *LobbyState) { l.AvailableGames[0].PlayerCount = 5 }},
		{name: "unknown status", mutate: func(l *LobbyState) { l.AvailableGames[0].Status = "paused" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := good
			l.AvailableGames = append([]LobbyGame(nil), good.AvailableGames...)
			tt.mutate(&l)
			res := ValidateLobbyState(l)
			assert.False(t, res.IsValid)
			assert.Equal(t, CodeInvalidLobbyState, res.Errors[0].Code)
		})
	}
}

func TestCombineValidationResults(t *testing.T) {
	a := NewValidationResult()
	a.AddWarning(CodeInvalidPlayer, "players", "slow connection")
	b := NewValidationResult()
	b.AddError(CodeBidTooLow, "bid", "too low")
	c := NewValidationResult().WithContext("hand", 3)

	got := CombineValidationResults(a, b, c)
	assert.False(t, got.IsValid)
	assert.Len(t, got.Errors, 1)
	assert.Len(t, got.Warnings, 1)
	assert.Equal(t, 3, got.Context["hand"])

	ok := CombineValidationResults(a, c)
	assert.True(t, ok.IsValid)
	assert.NoError(t, ok.Err())
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, CategoryRuleViolation, CodeBidTooLow.Category())
	assert.Equal(t, CategoryRuleViolation, CodeInsufficientDoubles.Category())
	assert.Equal(t, CategoryInvalidGameState, CodeDominoCountMismatch.Category())
	assert.Equal(t, CategoryInvalidGameState, CodePointTotalMismatch.Category())
	assert.False(t, IsDefect(nil))
	assert.Equal(t, Code(""), CodeOf(assert.AnError))
}
