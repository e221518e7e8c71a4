package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameFortyTwo is the authoritative match handler name registered with Nakama.
	MatchNameFortyTwo = "fortytwo_match"

	// gameLabel identifies our matches in label queries.
	gameLabel = "fortytwo"
)

// Op codes for client messages and server events. Payloads are JSON.
const (
	// Client -> Server
	OpStartGame  int64 = 1
	OpPlaceBid   int64 = 2
	OpPlayDomino int64 = 3

	// Server -> Client events
	OpMatchState      int64 = 101
	OpGameStarted     int64 = 103
	OpHandDealt       int64 = 104 // send privately
	OpHandStarted     int64 = 105
	OpBidPlaced       int64 = 106
	OpBiddingComplete int64 = 107
	OpRedeal          int64 = 108
	OpDominoPlayed    int64 = 109
	OpTrickCompleted  int64 = 110
	OpHandScored      int64 = 111
	OpGameEnded       int64 = 112
	OpGameError       int64 = 120
)

// Match timing defaults, in seconds (one tick per second).
const (
	tickRate             = 1
	defaultBotMinDelay   = 1
	defaultBotMaxDelay   = 3
	nextHandDelaySeconds = 3
)
