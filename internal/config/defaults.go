package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches defaults/t2048.yaml
// and is used when the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Size:         4,
			Target:       2048,
			InitialTiles: 2,
		},
		Timing: TimingConfig{
			TickRate:   60,
			SlideTicks: 6,
			PopTicks:   4,
		},
		Input: InputConfig{
			SwipeMinDistance: 3,
		},
		Server: ServerConfig{
			SSHAddr:            ":2222",
			HostKey:            ".ssh/t2048_ed25519",
			IdleTimeoutMinutes: 30,
		},
	}
}
