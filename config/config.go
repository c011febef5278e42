package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppName names the config directory.
const AppName = "go-violet"

// MIDIConfig selects MIDI ports
type MIDIConfig struct {
	InputPort     string   `json:"inputPort,omitempty"` // empty = every keyboard
	OutputPort    string   `json:"outputPort,omitempty"`
	OutputChannel int      `json:"outputChannel,omitempty"` // 1-16
	Exclude       []string `json:"exclude,omitempty"`       // input name fragments to ignore
}

// AudioConfig controls the built-in synth
type AudioConfig struct {
	Enabled      bool `json:"enabled"`
	SampleRate   int  `json:"sampleRate,omitempty"`
	MasterVolume int  `json:"masterVolume"` // 0-100

	// Effect wet levels, 0-100
	Reverb int `json:"reverb,omitempty"`
	Delay  int `json:"delay,omitempty"`
	Chorus int `json:"chorus,omitempty"`
	Drive  int `json:"drive,omitempty"`
}

// PlayConfig stores the last used performance settings
type PlayConfig struct {
	Octave      int    `json:"octave,omitempty"`
	BPM         int    `json:"bpm,omitempty"`
	PerformMode string `json:"performMode,omitempty"`
	BassMode    string `json:"bassMode,omitempty"`
	Key         string `json:"key,omitempty"`
	Poly        bool   `json:"poly,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // path to a GIMP .gpl palette
}

// Config is the main configuration structure
type Config struct {
	MIDI  MIDIConfig  `json:"midi"`
	Audio AudioConfig `json:"audio"`
	Play  PlayConfig  `json:"play"`
	UI    UIConfig    `json:"ui,omitempty"`

	Debug bool `json:"-"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MIDI: MIDIConfig{
			OutputChannel: 1,
			Exclude:       []string{"midi through", "rtmidi"},
		},
		Audio: AudioConfig{
			Enabled:      true,
			SampleRate:   44100,
			MasterVolume: 80,
		},
		Play: PlayConfig{
			Octave:      4,
			BPM:         120,
			PerformMode: "chord",
			BassMode:    "off",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Environment overrides are applied on top.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// applyEnv loads .env (if present) and applies VIOLET_* overrides.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	c.MIDI.InputPort = getEnv("VIOLET_MIDI_IN", c.MIDI.InputPort)
	c.MIDI.OutputPort = getEnv("VIOLET_MIDI_OUT", c.MIDI.OutputPort)
	if ch, err := strconv.Atoi(getEnv("VIOLET_MIDI_CHANNEL", "")); err == nil {
		c.MIDI.OutputChannel = ch
	}
	if v := getEnv("VIOLET_AUDIO", ""); v != "" {
		c.Audio.Enabled = parseBool(v)
	}
	if v := getEnv("VIOLET_DEBUG", ""); v != "" {
		c.Debug = parseBool(v)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Channel returns the zero-based MIDI output channel.
func (c *Config) Channel() uint8 {
	ch := c.MIDI.OutputChannel
	if ch < 1 || ch > 16 {
		ch = 1
	}
	return uint8(ch - 1)
}
