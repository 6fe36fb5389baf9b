// Package config loads server settings from a YAML file, MUDRA_* environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/lobby"
)

// Detector backends.
const (
	BackendMediaPipe = "mediapipe"
	BackendMock      = "mock"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Detector DetectorConfig `mapstructure:"detector"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr               string  `mapstructure:"addr"`
	StaticDir          string  `mapstructure:"static_dir"`
	MaxEventsPerSecond float64 `mapstructure:"max_events_per_second"`
	EventBurst         int     `mapstructure:"event_burst"`
}

type GameConfig struct {
	CountdownInterval time.Duration `mapstructure:"countdown_interval"`
	AutoStartAIRounds bool          `mapstructure:"auto_start_ai_rounds"`
	AIName            string        `mapstructure:"ai_name"`
}

type DetectorConfig struct {
	Backend       string        `mapstructure:"backend"`
	ScriptPath    string        `mapstructure:"script_path"`
	PythonPath    string        `mapstructure:"python_path"`
	MaxHands      int           `mapstructure:"max_hands"`
	MinConfidence float64       `mapstructure:"min_confidence"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// New returns a viper instance with defaults and environment overrides set
// up. Callers may bind command-line flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.max_events_per_second", 10)
	v.SetDefault("server.event_burst", 20)

	v.SetDefault("game.countdown_interval", time.Second)
	v.SetDefault("game.auto_start_ai_rounds", true)
	v.SetDefault("game.ai_name", "🤖 AI")

	def := detector.DefaultConfig()
	v.SetDefault("detector.backend", BackendMediaPipe)
	v.SetDefault("detector.script_path", "")
	v.SetDefault("detector.python_path", "")
	v.SetDefault("detector.max_hands", def.MaxHands)
	v.SetDefault("detector.min_confidence", def.MinConfidence)
	v.SetDefault("detector.idle_timeout", def.IdleTimeout)

	v.SetDefault("metrics.namespace", "mudra")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetEnvPrefix("mudra")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and decodes the result. An empty file
// searches for mudra.yaml in the working directory and $HOME/.mudra; not
// finding one is fine. A file named explicitly must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("mudra")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mudra"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Detector.Backend {
	case BackendMediaPipe, BackendMock:
	default:
		return fmt.Errorf("config: unknown detector backend %q", c.Detector.Backend)
	}
	if c.Game.CountdownInterval <= 0 {
		return fmt.Errorf("config: game.countdown_interval must be positive, got %s", c.Game.CountdownInterval)
	}
	if c.Server.MaxEventsPerSecond <= 0 || c.Server.EventBurst <= 0 {
		return fmt.Errorf("config: server event rate and burst must be positive")
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		return fmt.Errorf("config: detector.min_confidence must be within [0,1], got %v", c.Detector.MinConfidence)
	}
	return nil
}

// DetectorConfig converts the detector section for the detector package.
func (c *Config) DetectorConfig() detector.Config {
	return detector.Config{
		MaxHands:      c.Detector.MaxHands,
		MinConfidence: c.Detector.MinConfidence,
		ScriptPath:    c.Detector.ScriptPath,
		PythonPath:    c.Detector.PythonPath,
		IdleTimeout:   c.Detector.IdleTimeout,
	}
}

// LobbyConfig converts the game section for the lobby package.
func (c *Config) LobbyConfig() lobby.Config {
	return lobby.Config{
		CountdownInterval: c.Game.CountdownInterval,
		AutoStartAIRounds: c.Game.AutoStartAIRounds,
		AIName:            c.Game.AIName,
	}
}
