package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Logical action names used as keys of KeyBindings.
const (
	ActionFish  = "fish"
	ActionEsc   = "esc"
	ActionEnter = "enter"
)

// Config holds runtime configuration for the fishing loop and its collaborators.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug    bool   `json:"debug" yaml:"debug"`
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Screen geometry. Zero screen dimensions mean "detect from the primary display".
	ScreenWidth  int `json:"screen_width" yaml:"screen_width"`
	ScreenHeight int `json:"screen_height" yaml:"screen_height"`
	ZoneWidth    int `json:"zone_width" yaml:"zone_width"`
	ZoneHeight   int `json:"zone_height" yaml:"zone_height"`
	ZoneOffsetY  int `json:"zone_offset_y" yaml:"zone_offset_y"`

	// Logical action -> physical key.
	KeyBindings map[string]string `json:"key_bindings" yaml:"key_bindings"`

	// Audio
	SampleRate           int      `json:"sample_rate" yaml:"sample_rate"`
	ListenSeconds        float64  `json:"listen_seconds" yaml:"listen_seconds"`
	SoundThreshold       float64  `json:"sound_threshold" yaml:"sound_threshold"`
	AudioDevice          string   `json:"audio_device" yaml:"audio_device"`
	ExcludedAudioDevices []string `json:"excluded_audio_devices" yaml:"excluded_audio_devices"`

	// Loop timing
	WaitParameter    float64 `json:"wait_parameter" yaml:"wait_parameter"`
	ListenAttempts   int     `json:"listen_attempts" yaml:"listen_attempts"`
	ListenIntervalMS int     `json:"listen_interval_ms" yaml:"listen_interval_ms"`
	LootDelayMS      int     `json:"loot_delay_ms" yaml:"loot_delay_ms"`
	CastHoldMin      float64 `json:"cast_hold_min" yaml:"cast_hold_min"`
	CastHoldMax      float64 `json:"cast_hold_max" yaml:"cast_hold_max"`
	SettleMin        float64 `json:"settle_min" yaml:"settle_min"`
	SettleMax        float64 `json:"settle_max" yaml:"settle_max"`
	MoveMin          float64 `json:"move_min" yaml:"move_min"`
	MoveMax          float64 `json:"move_max" yaml:"move_max"`

	// Bait locator
	Channel    string  `json:"channel" yaml:"channel"`
	BlurKernel int     `json:"blur_kernel" yaml:"blur_kernel"`
	MinPeak    float64 `json:"min_peak" yaml:"min_peak"`

	OutputFolder string `json:"output_folder" yaml:"output_folder"`
	WindowTitle  string `json:"window_title" yaml:"window_title"`
	FocusPollMS  int    `json:"focus_poll_ms" yaml:"focus_poll_ms"`
	PauseKey     string `json:"pause_key" yaml:"pause_key"`
	LogoutOnExit bool   `json:"logout_on_exit" yaml:"logout_on_exit"`
	LoginOnStart bool   `json:"login_on_start" yaml:"login_on_start"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:        false,
		LogLevel:     "info",
		ScreenWidth:  0,
		ScreenHeight: 0,
		ZoneWidth:    250,
		ZoneHeight:   250,
		ZoneOffsetY:  -100,
		KeyBindings: map[string]string{
			ActionFish:  "1",
			ActionEsc:   "esc",
			ActionEnter: "enter",
		},
		SampleRate:       44100,
		ListenSeconds:    1.0,
		SoundThreshold:   0.05,
		WaitParameter:    2.0,
		ListenAttempts:   8,
		ListenIntervalMS: 800,
		LootDelayMS:      500,
		CastHoldMin:      0.9,
		CastHoldMax:      1.1,
		SettleMin:        0.3,
		SettleMax:        0.5,
		MoveMin:          0.2,
		MoveMax:          0.7,
		Channel:          "red",
		BlurKernel:       20,
		MinPeak:          0,
		OutputFolder:     "fishing_debug",
		WindowTitle:      "World of Warcraft",
		FocusPollMS:      2000,
		PauseKey:         "p",
		LogoutOnExit:     false,
		LoginOnStart:     false,
	}
}

// Validate clamps/normalizes values to safe ranges. It returns an error only for
// values that cannot be repaired (unknown channel or log level, missing fish key).
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.ZoneWidth <= 0 {
		c.ZoneWidth = def.ZoneWidth
	}
	if c.ZoneHeight <= 0 {
		c.ZoneHeight = def.ZoneHeight
	}
	if c.ScreenWidth < 0 {
		c.ScreenWidth = 0
	}
	if c.ScreenHeight < 0 {
		c.ScreenHeight = 0
	}
	if c.SampleRate <= 0 {
		c.SampleRate = def.SampleRate
	}
	if c.ListenSeconds <= 0 {
		c.ListenSeconds = def.ListenSeconds
	}
	if c.SoundThreshold < 0 {
		c.SoundThreshold = def.SoundThreshold
	}
	if c.WaitParameter <= 0 {
		c.WaitParameter = def.WaitParameter
	}
	if c.ListenAttempts <= 0 {
		c.ListenAttempts = def.ListenAttempts
	}
	if c.ListenIntervalMS < 0 {
		c.ListenIntervalMS = def.ListenIntervalMS
	}
	if c.LootDelayMS < 0 {
		c.LootDelayMS = def.LootDelayMS
	}
	c.CastHoldMin, c.CastHoldMax = clampRange(c.CastHoldMin, c.CastHoldMax, def.CastHoldMin, def.CastHoldMax)
	c.SettleMin, c.SettleMax = clampRange(c.SettleMin, c.SettleMax, def.SettleMin, def.SettleMax)
	c.MoveMin, c.MoveMax = clampRange(c.MoveMin, c.MoveMax, def.MoveMin, def.MoveMax)
	if c.BlurKernel <= 0 {
		c.BlurKernel = def.BlurKernel
	}
	if c.MinPeak < 0 {
		c.MinPeak = 0
	}
	if strings.TrimSpace(c.OutputFolder) == "" {
		c.OutputFolder = def.OutputFolder
	}
	if c.FocusPollMS <= 0 {
		c.FocusPollMS = def.FocusPollMS
	}
	if c.KeyBindings == nil {
		c.KeyBindings = map[string]string{}
	}
	for action, key := range def.KeyBindings {
		if _, ok := c.KeyBindings[action]; !ok && action != ActionFish {
			c.KeyBindings[action] = key
		}
	}

	var errs []error
	switch strings.ToLower(c.Channel) {
	case "red", "green", "blue":
		c.Channel = strings.ToLower(c.Channel)
	case "":
		c.Channel = def.Channel
	default:
		errs = append(errs, fmt.Errorf("channel %q is invalid; valid values: red, green, blue", c.Channel))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	case "":
		c.LogLevel = def.LogLevel
	default:
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", c.LogLevel))
	}
	if strings.TrimSpace(c.KeyBindings[ActionFish]) == "" {
		errs = append(errs, fmt.Errorf("key_bindings.%s is required", ActionFish))
	}
	return errors.Join(errs...)
}

func clampRange(lo, hi, defLo, defHi float64) (float64, float64) {
	if lo <= 0 || hi <= 0 {
		return defLo, defHi
	}
	if hi < lo {
		return hi, lo
	}
	return lo, hi
}

// Key resolves the physical key bound to a logical action.
func (c *Config) Key(action string) (string, error) {
	key, ok := c.KeyBindings[action]
	if !ok || strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("config: no key bound to action %q", action)
	}
	return key, nil
}

// ListenFrames is the number of audio frames recorded per listening attempt.
func (c *Config) ListenFrames() int {
	return int(float64(c.SampleRate) * c.ListenSeconds)
}

// ListenInterval is the pause between two listening attempts.
func (c *Config) ListenInterval() time.Duration {
	return time.Duration(c.ListenIntervalMS) * time.Millisecond
}

// LootDelay is the fixed pause after the catch click.
func (c *Config) LootDelay() time.Duration {
	return time.Duration(c.LootDelayMS) * time.Millisecond
}

// FocusPoll is the interval between focus checks during setup.
func (c *Config) FocusPoll() time.Duration {
	return time.Duration(c.FocusPollMS) * time.Millisecond
}

// Load attempts to read configuration from the given file path. If the file does not
// exist it returns DefaultConfig(). Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return cfg, fmt.Errorf("config: decode yaml %q: %w", path, err)
		}
	default:
		dec := json.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return cfg, fmt.Errorf("config: decode json %q: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path, YAML or JSON by extension.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(f)
		defer enc.Close()
		return enc.Encode(c)
	default:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
}
