package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address        string `hcl:"address,optional"`
	Port           int    `hcl:"port,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	AIWorkers      int    `hcl:"ai_workers,optional"`
	IdleTTLMinutes int    `hcl:"idle_ttl_minutes,optional"`
}

// GameSettings contains the table defaults applied when a create-game
// request leaves them out.
type GameSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	MaxSeats      int    `hcl:"max_seats,optional"`
	BotPolicy     string `hcl:"bot_policy,optional"`
	BotDifficulty string `hcl:"bot_difficulty,optional"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:        "localhost",
			Port:           8080,
			LogLevel:       "info",
			AIWorkers:      4,
			IdleTTLMinutes: 30,
		},
		Game: GameSettings{
			SmallBlind:    10,
			BigBlind:      20,
			StartingChips: 1000,
			MaxSeats:      6,
			BotPolicy:     "equity",
			BotDifficulty: "medium",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Server.AIWorkers == 0 {
		config.Server.AIWorkers = defaults.Server.AIWorkers
	}
	if config.Server.IdleTTLMinutes == 0 {
		config.Server.IdleTTLMinutes = defaults.Server.IdleTTLMinutes
	}
	if config.Game.SmallBlind == 0 {
		config.Game.SmallBlind = defaults.Game.SmallBlind
	}
	if config.Game.BigBlind == 0 {
		config.Game.BigBlind = defaults.Game.BigBlind
	}
	if config.Game.StartingChips == 0 {
		config.Game.StartingChips = defaults.Game.StartingChips
	}
	if config.Game.MaxSeats == 0 {
		config.Game.MaxSeats = defaults.Game.MaxSeats
	}
	if config.Game.BotPolicy == "" {
		config.Game.BotPolicy = defaults.Game.BotPolicy
	}
	if config.Game.BotDifficulty == "" {
		config.Game.BotDifficulty = defaults.Game.BotDifficulty
	}

	return &config, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.AIWorkers < 1 {
		return fmt.Errorf("ai_workers must be positive, got %d", c.Server.AIWorkers)
	}
	if c.Server.IdleTTLMinutes < 1 {
		return fmt.Errorf("idle_ttl_minutes must be positive, got %d", c.Server.IdleTTLMinutes)
	}
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Game.BigBlind <= c.Game.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Game.StartingChips < c.Game.BigBlind {
		return fmt.Errorf("starting chips must cover at least the big blind")
	}
	if c.Game.MaxSeats < 2 || c.Game.MaxSeats > 10 {
		return fmt.Errorf("max seats must be between 2 and 10, got %d", c.Game.MaxSeats)
	}
	validPolicies := map[string]bool{"random": true, "heuristic": true, "equity": true}
	if !validPolicies[c.Game.BotPolicy] {
		return fmt.Errorf("invalid bot policy %q", c.Game.BotPolicy)
	}
	validDifficulties := map[string]bool{"easy": true, "medium": true, "hard": true}
	if !validDifficulties[c.Game.BotDifficulty] {
		return fmt.Errorf("invalid bot difficulty %q", c.Game.BotDifficulty)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
