package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the bot roster file.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Level       string `json:"level"` // "random", "good"
}

var (
	rosterMu      sync.RWMutex
	botIdentities []BotIdentity
	botConfigMap  = map[string]BotIdentity{}
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot roster from path once per process.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		var roster []BotIdentity
		if err := json.Unmarshal(data, &roster); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		for _, identity := range roster {
			if _, err := ParseLevel(identity.Level); err != nil {
				loadErr = fmt.Errorf("bot %q: %w", identity.Username, err)
				return
			}
		}
		setRoster(roster)
	})
	return loadErr
}

func setRoster(roster []BotIdentity) {
	rosterMu.Lock()
	defer rosterMu.Unlock()
	botIdentities = roster
	botConfigMap = make(map[string]BotIdentity, len(roster))
	for _, identity := range roster {
		if identity.UserID != "" {
			botConfigMap[identity.UserID] = identity
		}
	}
}

// ProvisionBots ensures every roster bot has a Nakama account flagged is_bot.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	var err error
	provisionOnce.Do(func() {
		if err = ctx.Err(); err != nil {
			return
		}
		rosterMu.RLock()
		roster := append([]BotIdentity(nil), botIdentities...)
		rosterMu.RUnlock()

		for i := range roster {
			identity := &roster[i]
			if identity.DeviceID == "" {
				continue
			}
			userID, username, _, authErr := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if authErr != nil {
				logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, authErr)
				continue
			}
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot": true,
				"level":  identity.Level,
			}
			if authErr = nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); authErr != nil {
				logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, authErr)
			}
			logger.Info("ProvisionBots: bot %s (%s) is ready, level %s", identity.DisplayName, userID, identity.Level)
		}
		setRoster(roster)
	})
	return err
}

// GetBotConfig returns the roster entry for a bot user ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	rosterMu.RLock()
	defer rosterMu.RUnlock()
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotIdentity returns a roster identity by index (mod roster size), or a
// generated one when no roster is loaded.
func GetBotIdentity(index int) BotIdentity {
	rosterMu.RLock()
	defer rosterMu.RUnlock()
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			Username:    fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Level:       BotLevelGood.String(),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the given user ID belongs to the roster or was
// generated by GetBotIdentity.
func IsBot(userID string) bool {
	if _, ok := GetBotConfig(userID); ok {
		return true
	}
	var n int
	_, err := fmt.Sscanf(userID, "bot-%d", &n)
	return err == nil
}

// NewAgent builds the agent for a roster identity.
func NewAgent(identity BotIdentity) (*Agent, error) {
	level, err := ParseLevel(identity.Level)
	if err != nil {
		return nil, err
	}
	brain, err := NewBrain(level, nil)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: identity.UserID, Name: identity.DisplayName, Strategy: brain}, nil
}
