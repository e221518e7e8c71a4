package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"fortytwo/internal/app"
	"fortytwo/internal/bot"
	"fortytwo/internal/config"
	"fortytwo/internal/domain"
)

const (
	MatchLabelKeyOpenSeats = "open" // Key for the open seats in the match label
	gameConfigPath         = "data/game_config.yaml"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
// Seat i is domain.Positions[i].
type MatchState struct {
	Seats          [domain.PlayerCount]string  `json:"seats"`      // user IDs, empty string means seat is empty
	OwnerSeat      int                         `json:"owner_seat"` // seat index of the match owner
	Tick           int64                       `json:"tick"`
	Presences      map[string]runtime.Presence `json:"-"` // user ID -> presence for targeted messaging
	Names          map[string]string           `json:"-"` // user ID -> display name
	App            *app.Service                `json:"-"`
	Game           *domain.GameState           `json:"-"` // nil while in the lobby
	BotsEnabled    bool                        `json:"bots_enabled"`
	BotMinDelay    int                         `json:"bot_min_delay"`
	BotMaxDelay    int                         `json:"bot_max_delay"`
	BotAutoFill    int                         `json:"bot_auto_fill_delay"` // seconds a lobby waits before seating bots
	BotWaitUntil   int64                       `json:"bot_wait_until"`      // tick when the current bot acts
	FillTimerStart int64                       `json:"fill_timer_start"`    // tick the auto-fill countdown began
	TurnDuration   int                         `json:"turn_duration"`       // seconds before an idle human is played for; 0 disables
	TurnUserID     string                      `json:"turn_user_id"`
	TurnDeadline   int64                       `json:"turn_deadline"`
	NextHandAt     int64                       `json:"next_hand_at"` // tick the next hand is dealt; 0 when none is pending
	Bots           map[string]*bot.Agent       `json:"-"`
}

func newMatchState(cfg *config.GameConfig) *MatchState {
	return &MatchState{
		OwnerSeat:    -1,
		Tick:         time.Now().Unix(),
		Presences:    make(map[string]runtime.Presence),
		Names:        make(map[string]string),
		App:          app.NewService(nil, app.WithRules(cfg.Rules())),
		BotsEnabled:  cfg.BotsEnabled,
		BotMinDelay:  defaultBotMinDelay,
		BotMaxDelay:  defaultBotMaxDelay,
		BotAutoFill:  cfg.BotAutoFillDelaySeconds,
		TurnDuration: cfg.TurnDurationSeconds,
		Bots:         make(map[string]*bot.Agent),
	}
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat != "" && seat == userID {
			return i
		}
	}
	return -1
}

func (ms *MatchState) displayName(userID string) string {
	if name := ms.Names[userID]; name != "" {
		return name
	}
	return userID
}

// players builds the seated roster for a new game.
func (ms *MatchState) players() []domain.Player {
	out := make([]domain.Player, 0, len(ms.Seats))
	for i, uid := range ms.Seats {
		isBot := isBotUserId(uid)
		_, present := ms.Presences[uid]
		out = append(out, domain.Player{
			ID:          uid,
			Name:        ms.displayName(uid),
			Position:    domain.Positions[i],
			IsBot:       isBot,
			IsConnected: isBot || present,
		})
	}
	return out
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans reports whether no seated human is still connected.
// Humans keep their seat when they drop mid-game, so presence decides.
func shouldTerminateNoHumans(seats []string, presences map[string]runtime.Presence) bool {
	for _, userId := range seats {
		if userId == "" || isBotUserId(userId) {
			continue
		}
		if _, ok := presences[userId]; ok {
			return false
		}
	}
	return true
}

// currentActor is the user the game is waiting on, or "".
func currentActor(g *domain.GameState) string {
	if g == nil {
		return ""
	}
	switch g.Phase {
	case domain.PhaseBidding:
		return g.Bidding.CurrentBidder
	case domain.PhasePlaying:
		return g.CurrentPlayer
	default:
		return ""
	}
}

// canJoin applies the join rules: rejoin is always allowed, new players
// only join a lobby with an empty seat or a bot to replace.
func canJoin(ms *MatchState, userID string) (bool, string) {
	if ms.seatOf(userID) >= 0 {
		return true, ""
	}
	if ms.Game != nil {
		return false, "match_in_progress"
	}
	if ms.GetOpenSeatsCount() > 0 {
		return true, ""
	}
	for _, seat := range ms.Seats {
		if isBotUserId(seat) {
			return true, ""
		}
	}
	return false, "match_full"
}

func applyEnv(ctx context.Context, state *MatchState) {
	env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if !ok {
		return
	}
	if val, ok := env["fortytwo_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	intVar := func(key string, dst *int) {
		if val, ok := env[key]; ok {
			if i, err := strconv.Atoi(val); err == nil && i >= 0 {
				*dst = i
			}
		}
	}
	intVar("fortytwo_bot_min_delay_sec", &state.BotMinDelay)
	intVar("fortytwo_bot_max_delay_sec", &state.BotMaxDelay)
	intVar("fortytwo_bot_auto_fill_delay_sec", &state.BotAutoFill)
	intVar("fortytwo_turn_duration_sec", &state.TurnDuration)
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()
	if cfg == nil {
		cfg, _ = config.Load("")
	}

	state := newMatchState(cfg)
	applyEnv(ctx, state)

	label, err := buildLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	accept, reason := canJoin(matchState, presence.GetUserId())
	return state, accept, reason
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		matchState.Presences[uid] = p
		matchState.Names[uid] = p.GetUsername()

		if seat := matchState.seatOf(uid); seat >= 0 {
			logger.Info("MatchJoin: User %s rejoined seat %d.", uid, seat)
			mh.setConnected(matchState, uid, true)
			mh.sendHand(matchState, dispatcher, logger, uid)
			continue
		}

		if !mh.takeSeat(matchState, logger, uid) {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", uid)
		}
	}

	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)
	return matchState
}

// takeSeat seats uid in the first empty seat, else replaces a lobby bot.
func (mh *matchHandler) takeSeat(state *MatchState, logger runtime.Logger, uid string) bool {
	for i, seat := range state.Seats {
		if seat == "" {
			state.Seats[i] = uid
			return true
		}
	}
	if state.Game != nil {
		return false
	}
	for i, seat := range state.Seats {
		if isBotUserId(seat) {
			logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seat, uid, i)
			delete(state.Bots, seat)
			state.Seats[i] = uid
			return true
		}
	}
	return false
}

// MatchLeave is called when one or more players leave the match. Mid-game a
// leaver keeps their seat and the turn timer plays for them.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(matchState.Presences, uid)
		seat := matchState.seatOf(uid)
		if seat < 0 {
			continue
		}
		if matchState.Game != nil {
			logger.Debug("MatchLeave: User %s disconnected from seat %d mid-game.", uid, seat)
			mh.setConnected(matchState, uid, false)
			continue
		}
		matchState.Seats[seat] = ""
		logger.Debug("MatchLeave: User %s left, seat %d freed.", uid, seat)
	}

	if matchState.Game == nil {
		if newOwner := findFirstHumanSeat(matchState.Seats[:]); newOwner != matchState.OwnerSeat {
			matchState.OwnerSeat = newOwner
			logger.Debug("MatchLeave: Owner set to seat %d.", newOwner)
		}
	}

	if shouldTerminateNoHumans(matchState.Seats[:], matchState.Presences) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		sender := msg.GetUserId()
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, sender, msg.GetData())
		case OpPlaceBid:
			mh.handlePlaceBid(matchState, dispatcher, logger, sender, msg.GetData())
		case OpPlayDomino:
			mh.handlePlayDomino(matchState, dispatcher, logger, sender, msg.GetData())
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}
	mh.processTurnTimer(matchState, dispatcher, logger)
	mh.processNextHand(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, data []byte) {
	senderSeat := state.seatOf(senderID)
	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if len(data) > 0 && !json.Valid(data) {
		logger.Warn("StartGame: Invalid payload from %s", senderID)
		mh.sendError(state, dispatcher, logger, senderID, errBadPayload)
		return
	}
	if senderSeat < 0 || senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, errNotOwner)
		return
	}
	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, errGameInProgress)
		return
	}

	if state.BotsEnabled && state.GetOpenSeatsCount() > 0 {
		mh.fillWithBots(state, logger)
	}
	if state.GetOpenSeatsCount() > 0 {
		logger.Warn("StartGame: Cannot start with %d players.", state.GetOccupiedSeatCount())
		mh.sendError(state, dispatcher, logger, senderID, errNotEnoughPlayers)
		return
	}

	game, events, err := state.App.StartGame("", state.players())
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	state.Game = game
	state.FillTimerStart = 0
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastMatchState(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	mh.resetTurn(state)

	logger.Info("StartGame: Game %s started, dealer %s.", game.ID, game.Dealer)
}

func (mh *matchHandler) handlePlaceBid(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, data []byte) {
	var request PlaceBidRequest
	if err := json.Unmarshal(data, &request); err != nil {
		logger.Warn("PlaceBid: Failed to unmarshal request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, fmt.Errorf("%w: %v", errBadPayload, err))
		return
	}
	if err := mh.applyMove(state, dispatcher, logger, senderID, request.move(senderID)); err != nil {
		logger.Warn("PlaceBid: User %s failed to bid: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
	}
}

func (mh *matchHandler) handlePlayDomino(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, data []byte) {
	var request PlayDominoRequest
	if err := json.Unmarshal(data, &request); err != nil {
		logger.Warn("PlayDomino: Failed to unmarshal request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, fmt.Errorf("%w: %v", errBadPayload, err))
		return
	}
	move, err := request.move()
	if err == nil {
		err = mh.applyMove(state, dispatcher, logger, senderID, move)
	}
	if err != nil {
		var hand []domain.Domino
		if state.Game != nil {
			if p, ok := state.Game.Player(senderID); ok {
				hand = p.Hand
			}
		}
		logger.Warn("PlayDomino: User %s failed to play %d-%d: %v. Hand: %v", senderID, request.High, request.Low, err, hand)
		mh.sendError(state, dispatcher, logger, senderID, err)
	}
}

// applyMove runs a bid or play through the app service, publishes the
// resulting events and advances the match timers. Human and bot moves share it.
func (mh *matchHandler) applyMove(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, move bot.Move) error {
	if state.Game == nil {
		return errGameNotStarted
	}
	if state.seatOf(userID) < 0 {
		return errNotSeated
	}

	var (
		next   *domain.GameState
		events []app.Event
		err    error
	)
	if move.IsBid() {
		bid := *move.Bid
		bid.PlayerID = userID
		next, events, err = state.App.PlaceBid(state.Game, bid)
	} else {
		next, events, err = state.App.PlayDomino(state.Game, userID, *move.Domino)
	}
	if err != nil {
		return err
	}

	state.Game = next
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	switch {
	case next.GameComplete:
		logger.Info("Match: Game %s won by %s.", next.ID, next.Winner)
		state.Game = nil
		state.NextHandAt = 0
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(state, dispatcher, logger)
	case next.Phase == domain.PhaseScoring:
		state.NextHandAt = state.Tick + nextHandDelaySeconds
	}
	mh.resetTurn(state)
	return nil
}

// resetTurn restarts the turn clock for whoever the game now waits on.
func (mh *matchHandler) resetTurn(state *MatchState) {
	state.TurnUserID = currentActor(state.Game)
	state.TurnDeadline = state.Tick + int64(state.TurnDuration)
	state.BotWaitUntil = 0
}

func (mh *matchHandler) processNextHand(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.NextHandAt == 0 || state.Tick < state.NextHandAt {
		return
	}
	state.NextHandAt = 0
	next, events, err := state.App.NextHand(state.Game)
	if err != nil {
		logger.Error("NextHand: Failed to deal: %v", err)
		return
	}
	state.Game = next
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	mh.resetTurn(state)
}

// processTurnTimer plays for a human who let the turn clock run out.
func (mh *matchHandler) processTurnTimer(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	uid := state.TurnUserID
	if state.Game == nil || uid == "" || state.TurnDuration <= 0 || isBotUserId(uid) {
		return
	}
	if state.Tick < state.TurnDeadline {
		return
	}

	stand := &bot.Agent{ID: uid, Strategy: &bot.GoodBot{}}
	move, err := stand.Play(state.Game)
	if err == nil {
		logger.Info("TurnTimer: %s timed out, moving on their behalf.", uid)
		err = mh.applyMove(state, dispatcher, logger, uid, move)
	}
	if err != nil {
		logger.Error("TurnTimer: Failed to move for %s: %v", uid, err)
		mh.resetTurn(state)
	}
}

func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Seat bots in a lobby that has waited long enough with humans present.
	if state.Game == nil {
		if state.GetHumanPlayerCount() > 0 && state.GetOpenSeatsCount() > 0 {
			if state.FillTimerStart == 0 {
				state.FillTimerStart = state.Tick
				logger.Debug("processBots: Open seats detected, starting auto-fill timer.")
			}
			if state.Tick-state.FillTimerStart >= int64(state.BotAutoFill) {
				if mh.fillWithBots(state, logger) {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(state, dispatcher, logger)
				}
				state.FillTimerStart = 0
			}
		} else {
			state.FillTimerStart = 0
		}
		return
	}

	uid := state.TurnUserID
	if uid == "" || !isBotUserId(uid) {
		state.BotWaitUntil = 0
		return
	}
	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
			delay += rand.Intn(span + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", uid, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, err := mh.agentFor(state, uid)
	if err != nil {
		logger.Error("processBots: Failed to create agent for %s: %v", uid, err)
		return
	}
	move, err := agent.Play(state.Game)
	if err != nil {
		logger.Error("processBots: Bot %s failed to calculate move: %v", uid, err)
		return
	}
	if err := mh.applyMove(state, dispatcher, logger, uid, move); err != nil {
		logger.Error("processBots: Bot %s move rejected: %v", uid, err)
	}
}

func (mh *matchHandler) agentFor(state *MatchState, uid string) (*bot.Agent, error) {
	if agent, ok := state.Bots[uid]; ok {
		return agent, nil
	}
	identity, ok := bot.GetBotConfig(uid)
	if !ok {
		identity = bot.BotIdentity{UserID: uid, DisplayName: state.displayName(uid)}
	}
	agent, err := bot.NewAgent(identity)
	if err != nil {
		return nil, err
	}
	state.Bots[uid] = agent
	return agent, nil
}

// fillWithBots seats a distinct bot in every empty seat.
func (mh *matchHandler) fillWithBots(state *MatchState, logger runtime.Logger) bool {
	added := false
	next := 0
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := freeBotIdentity(state, &next)
		state.Seats[i] = identity.UserID
		state.Names[identity.UserID] = identity.DisplayName
		if _, err := mh.agentFor(state, identity.UserID); err != nil {
			logger.Error("processBots: Failed to create bot agent for %s: %v", identity.UserID, err)
		}
		logger.Info("processBots: Added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
		added = true
	}
	return added
}

// freeBotIdentity returns the first roster identity from *next on that is
// not already seated, minting one when the roster is smaller than the table.
func freeBotIdentity(state *MatchState, next *int) bot.BotIdentity {
	for tries := 0; tries < 4*domain.PlayerCount; tries++ {
		identity := bot.GetBotIdentity(*next)
		*next++
		if identity.UserID != "" && state.seatOf(identity.UserID) < 0 {
			return identity
		}
	}
	*next++
	id := fmt.Sprintf("bot-%d", 100+*next)
	return bot.BotIdentity{UserID: id, Username: id, DisplayName: fmt.Sprintf("AI Player %d", *next), Level: bot.BotLevelGood.String()}
}

// setConnected records a human's connection on the game state.
func (mh *matchHandler) setConnected(state *MatchState, uid string, connected bool) {
	if state.Game == nil {
		return
	}
	g := state.Game.Clone()
	if p, ok := g.Player(uid); ok {
		p.IsConnected = connected
		state.Game = g
	}
}

// sendHand resends a rejoining player's hand privately.
func (mh *matchHandler) sendHand(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, uid string) {
	if state.Game == nil {
		return
	}
	p, ok := state.Game.Player(uid)
	if !ok {
		return
	}
	mh.broadcastEvent(state, dispatcher, logger, app.Event{
		Kind:       app.EventHandDealt,
		Payload:    app.HandDealtPayload{UserID: uid, HandNumber: state.Game.HandNumber, Hand: p.Hand},
		Recipients: []string{uid},
	})
}

func (mh *matchHandler) snapshot(state *MatchState) MatchSnapshot {
	snap := MatchSnapshot{
		OwnerSeat:  state.OwnerSeat,
		Tick:       state.Tick,
		Phase:      "lobby",
		MarksToWin: state.App.Rules().MarksToWin,
	}
	g := state.Game
	if g != nil {
		snap.Phase = string(g.Phase)
		snap.HandNumber = g.HandNumber
		snap.CurrentPlayer = currentActor(g)
		snap.MarksNS = g.Partnerships.NorthSouth.Marks
		snap.MarksEW = g.Partnerships.EastWest.Marks
		snap.MarksToWin = g.MarksToWin
	}
	for i, uid := range state.Seats {
		if uid == "" {
			continue
		}
		_, present := state.Presences[uid]
		seat := SeatSnapshot{
			Seat:        i,
			UserID:      uid,
			DisplayName: state.displayName(uid),
			Position:    domain.Positions[i],
			IsOwner:     i == state.OwnerSeat,
			IsBot:       isBotUserId(uid),
			IsConnected: present,
		}
		seat.IsConnected = seat.IsConnected || seat.IsBot
		if g != nil {
			if p, ok := g.Player(uid); ok {
				seat.DominoesRemaining = len(p.Hand)
			}
		}
		snap.Seats = append(snap.Seats, seat)
	}
	return snap
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	bytes, err := json.Marshal(mh.snapshot(state))
	if err != nil {
		logger.Error("Failed to marshal match state: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpMatchState, bytes, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast match state: %v", err)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Private events for absent players (bots) must never fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to dispatch event %v: %v", ev.Kind, err)
	}
}

// sendError sends an ErrorPayload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, cause error) {
	bytes, err := json.Marshal(ErrorPayload{Code: errorCode(cause), Message: cause.Error()})
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

// buildLabel renders the match label queried by quick match.
func buildLabel(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Game != nil {
		phase = "playing"
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":                 gameLabel,
		MatchLabelKeyOpenSeats: state.GetOpenSeatsCount(),
		"phase":                phase,
	})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := buildLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
