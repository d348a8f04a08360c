// Package config provides configuration loading for upsidedown.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gigurra/upsidedown/cmd/comms"
	"github.com/gigurra/upsidedown/cmd/common"
	"github.com/samber/lo"
)

// Config represents the upsidedown configuration file structure.
type Config struct {
	Timing        *TimingConfig       `json:"timing,omitempty"`
	Sanity        *SanityConfig       `json:"sanity,omitempty"`
	Audio         *AudioConfig        `json:"audio,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty"`
}

// TimingConfig holds symbol durations in milliseconds.
type TimingConfig struct {
	DotMs       int `json:"dot_ms,omitempty"`
	DashMs      int `json:"dash_ms,omitempty"`
	LetterGapMs int `json:"letter_gap_ms,omitempty"`
	WordGapMs   int `json:"word_gap_ms,omitempty"`
	SymbolGapMs int `json:"symbol_gap_ms,omitempty"`
}

// SanityConfig holds the decay and possession settings.
type SanityConfig struct {
	IntervalMs          int      `json:"interval_ms,omitempty"`
	Step                int      `json:"step,omitempty"`
	AutoRecoverySeconds int      `json:"auto_recovery_seconds,omitempty"`
	RecoveryCode        []string `json:"recovery_code,omitempty"`
}

// AudioConfig holds sound settings.
type AudioConfig struct {
	Muted bool `json:"muted"`
}

// NotificationConfig holds settings for desktop notifications.
type NotificationConfig struct {
	Enabled         bool `json:"enabled"`
	CooldownSeconds int  `json:"cooldown_seconds,omitempty"`
}

// Allowed gap ranges, values outside are clamped.
const (
	minLetterGapMs = 400
	maxLetterGapMs = 600
	minWordGapMs   = 800
	maxWordGapMs   = 1200
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timing: &TimingConfig{
			DotMs:       200,
			DashMs:      600,
			LetterGapMs: 400,
			WordGapMs:   800,
			SymbolGapMs: 200,
		},
		Sanity: &SanityConfig{
			IntervalMs:          3000,
			Step:                7,
			AutoRecoverySeconds: 30,
			RecoveryCode:        comms.DefaultRecoveryCode,
		},
		Audio: &AudioConfig{},
		Notifications: &NotificationConfig{
			Enabled:         false,
			CooldownSeconds: 5,
		},
	}
}

// ConfigPath returns the path to the config file (~/.upsidedown/config.json).
func ConfigPath() string {
	return filepath.Join(common.StateDir(), "config.json")
}

// Load loads the config from ~/.upsidedown/config.json.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile loads the config from path, filling missing values with defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Timing == nil {
		c.Timing = def.Timing
	} else {
		t := c.Timing
		t.DotMs = orDefault(t.DotMs, def.Timing.DotMs)
		t.DashMs = orDefault(t.DashMs, def.Timing.DashMs)
		t.LetterGapMs = orDefault(t.LetterGapMs, def.Timing.LetterGapMs)
		t.WordGapMs = orDefault(t.WordGapMs, def.Timing.WordGapMs)
		t.SymbolGapMs = orDefault(t.SymbolGapMs, def.Timing.SymbolGapMs)
	}

	if c.Sanity == nil {
		c.Sanity = def.Sanity
	} else {
		s := c.Sanity
		s.IntervalMs = orDefault(s.IntervalMs, def.Sanity.IntervalMs)
		s.Step = orDefault(s.Step, def.Sanity.Step)
		s.AutoRecoverySeconds = orDefault(s.AutoRecoverySeconds, def.Sanity.AutoRecoverySeconds)
		if len(s.RecoveryCode) == 0 {
			s.RecoveryCode = def.Sanity.RecoveryCode
		}
	}

	if c.Audio == nil {
		c.Audio = def.Audio
	}

	if c.Notifications == nil {
		c.Notifications = def.Notifications
	} else if c.Notifications.CooldownSeconds == 0 {
		c.Notifications.CooldownSeconds = def.Notifications.CooldownSeconds
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Save saves the config to ~/.upsidedown/config.json.
func Save(config *Config) error {
	return SaveFile(ConfigPath(), config)
}

// SaveFile writes the config to path, creating its directory if needed.
func SaveFile(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ControllerOptions converts the config into communicator options. Speaker,
// lights, randomness and logger are left for the caller.
func (c *Config) ControllerOptions() comms.Options {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return comms.Options{
		Timing: comms.Timing{
			Dot:       ms(c.Timing.DotMs),
			Dash:      ms(c.Timing.DashMs),
			LetterGap: ms(lo.Clamp(c.Timing.LetterGapMs, minLetterGapMs, maxLetterGapMs)),
			WordGap:   ms(lo.Clamp(c.Timing.WordGapMs, minWordGapMs, maxWordGapMs)),
			SymbolGap: ms(c.Timing.SymbolGapMs),
		},
		SanityInterval: ms(c.Sanity.IntervalMs),
		SanityStep:     c.Sanity.Step,
		AutoRecovery:   time.Duration(c.Sanity.AutoRecoverySeconds) * time.Second,
		RecoveryCode:   c.Sanity.RecoveryCode,
	}
}
