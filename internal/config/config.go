// Package config provides YAML-based configuration loading and validation
// for the 2048 game, its storage and its servers.
package config

import (
	"errors"
	"fmt"
	"math/bits"
	"time"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Size limits accepted for the board side length.
const (
	MinBoardSize = 2
	MaxBoardSize = 8
)

// Config is the full configuration file.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Timing  TimingConfig  `yaml:"timing"`
	Input   InputConfig   `yaml:"input"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// BoardConfig defines the playing field.
type BoardConfig struct {
	Size         int `yaml:"size"`
	Target       int `yaml:"target"`        // tile value that wins the game
	InitialTiles int `yaml:"initial_tiles"` // tiles spawned on a new game
}

// TimingConfig defines the tick rate and animation lengths in ticks.
type TimingConfig struct {
	TickRate   int `yaml:"tick_rate"`
	SlideTicks int `yaml:"slide_ticks"`
	PopTicks   int `yaml:"pop_ticks"`
}

// InputConfig tunes mouse input.
type InputConfig struct {
	SwipeMinDistance int `yaml:"swipe_min_distance"` // terminal cells
}

// StorageConfig locates the score database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"` // empty means ~/.t2048/scores.db
}

// ServerConfig configures `t2048 serve`.
type ServerConfig struct {
	SSHAddr            string `yaml:"ssh_addr"`
	HostKey            string `yaml:"host_key"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
	SpectateAddr       string `yaml:"spectate_addr"` // empty disables the spectator endpoint
}

// IdleTimeout returns the SSH idle timeout as a duration.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// Validate checks the values the game cannot run without.
func (c Config) Validate() error {
	b := c.Board
	if b.Size < MinBoardSize || b.Size > MaxBoardSize {
		return fmt.Errorf("%w: board.size %d outside [%d, %d]", ErrInvalidConfig, b.Size, MinBoardSize, MaxBoardSize)
	}
	if b.Target < 4 || bits.OnesCount(uint(b.Target)) != 1 {
		return fmt.Errorf("%w: board.target %d is not a power of two >= 4", ErrInvalidConfig, b.Target)
	}
	if b.InitialTiles < 1 || b.InitialTiles > b.Size*b.Size {
		return fmt.Errorf("%w: board.initial_tiles %d outside [1, %d]", ErrInvalidConfig, b.InitialTiles, b.Size*b.Size)
	}

	t := c.Timing
	if t.TickRate <= 0 {
		return fmt.Errorf("%w: timing.tick_rate must be positive", ErrInvalidConfig)
	}
	if t.SlideTicks < 0 || t.PopTicks < 0 {
		return fmt.Errorf("%w: timing tick counts must not be negative", ErrInvalidConfig)
	}

	if c.Input.SwipeMinDistance < 1 {
		return fmt.Errorf("%w: input.swipe_min_distance must be at least 1", ErrInvalidConfig)
	}
	if c.Server.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("%w: server.idle_timeout_minutes must not be negative", ErrInvalidConfig)
	}
	return nil
}
