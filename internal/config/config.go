package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"

	"fortytwo/internal/domain"
)

// GameConfig holds table rules and match timings.
type GameConfig struct {
	MarksToWin       int      `mapstructure:"marks_to_win"`
	MaxMarks         int      `mapstructure:"max_marks"`
	PlungeMinDoubles int      `mapstructure:"plunge_min_doubles"`
	PlungeMinMarks   int      `mapstructure:"plunge_min_marks"`
	NelloMinMarks    int      `mapstructure:"nello_min_marks"`
	SevensMinMarks   int      `mapstructure:"sevens_min_marks"`
	Contracts        []string `mapstructure:"contracts"`

	TurnDurationSeconds int `mapstructure:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds is how long a lobby waits before empty seats are filled with bots.
	BotAutoFillDelaySeconds int  `mapstructure:"bot_auto_fill_delay_seconds"`
	BotsEnabled             bool `mapstructure:"bots_enabled"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

func setDefaults(v *viper.Viper) {
	def := domain.DefaultRules()
	contracts := make([]string, len(def.Contracts))
	for i, c := range def.Contracts {
		contracts[i] = string(c)
	}
	v.SetDefault("marks_to_win", def.MarksToWin)
	v.SetDefault("max_marks", def.MaxMarks)
	v.SetDefault("plunge_min_doubles", def.PlungeMinDoubles)
	v.SetDefault("plunge_min_marks", def.PlungeMinMarks)
	v.SetDefault("nello_min_marks", def.NelloMinMarks)
	v.SetDefault("sevens_min_marks", def.SevensMinMarks)
	v.SetDefault("contracts", contracts)
	v.SetDefault("turn_duration_seconds", 30)
	v.SetDefault("bot_auto_fill_delay_seconds", 10)
	v.SetDefault("bots_enabled", true)
}

// Load reads a YAML or JSON config file. An empty path yields the defaults.
func Load(path string) (*GameConfig, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read game config: %w", err)
		}
	}

	var c GameConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadGameConfig loads the process-wide configuration once.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		cfg, loadErr = Load(path)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil before LoadGameConfig.
func GetGameConfig() *GameConfig {
	return cfg
}

// Validate rejects settings the engine cannot play with.
func (c *GameConfig) Validate() error {
	if c.MarksToWin <= 0 {
		return fmt.Errorf("marks_to_win must be positive, got %d", c.MarksToWin)
	}
	if c.MaxMarks <= 0 || c.MaxMarks > domain.MaxMarks {
		return fmt.Errorf("max_marks must be between 1 and %d, got %d", domain.MaxMarks, c.MaxMarks)
	}
	if c.PlungeMinDoubles <= 0 || c.PlungeMinDoubles > domain.HandSize {
		return fmt.Errorf("plunge_min_doubles must be between 1 and %d, got %d", domain.HandSize, c.PlungeMinDoubles)
	}
	for _, name := range c.Contracts {
		if !domain.ContractType(name).IsValid() {
			return fmt.Errorf("unknown contract %q", name)
		}
	}
	return nil
}

// Rules converts the configuration to engine rules.
func (c *GameConfig) Rules() domain.Rules {
	contracts := make([]domain.ContractType, 0, len(c.Contracts))
	for _, name := range c.Contracts {
		contracts = append(contracts, domain.ContractType(name))
	}
	return domain.Rules{
		MarksToWin:       c.MarksToWin,
		MaxMarks:         c.MaxMarks,
		PlungeMinDoubles: c.PlungeMinDoubles,
		PlungeMinMarks:   c.PlungeMinMarks,
		NelloMinMarks:    c.NelloMinMarks,
		SevensMinMarks:   c.SevensMinMarks,
		Contracts:        contracts,
	}.Normalize()
}

// Rules returns the loaded rules, or the defaults when nothing is loaded.
func Rules() domain.Rules {
	if cfg == nil {
		return domain.DefaultRules()
	}
	return cfg.Rules()
}
