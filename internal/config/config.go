package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Board   BoardConfig   `yaml:"board"`
	Session SessionConfig `yaml:"session"`
	JWT     JWTConfig     `yaml:"jwt"`
	Redis   RedisConfig   `yaml:"redis"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BoardConfig holds the board served when a request leaves a value out
type BoardConfig struct {
	Radius    int     `yaml:"radius"`
	MaxRadius int     `yaml:"max_radius"` // Largest radius a client may ask for
	Width     float64 `yaml:"width"`      // px
	Height    float64 `yaml:"height"`     // px
	Columns   int     `yaml:"columns"`
	Gap       float64 `yaml:"gap"` // px between neighboring hexes
}

// SessionConfig holds viewer session settings
type SessionConfig struct {
	MaxViewers int `yaml:"max_viewers"`
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Enabled             bool   `yaml:"enabled"`
	Issuer              string `yaml:"issuer"`
	PublicKeyURL        string `yaml:"public_key_url"`
	PublicKeyPath       string `yaml:"public_key_path"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours"`
}

// RedisConfig holds Redis connection settings. An empty address disables
// the board cache and the token blacklist.
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
	BoardTTLSeconds int    `yaml:"board_ttl_seconds"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultBoardRadius is used when the config file has no board.radius
const DefaultBoardRadius = 5

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults
func Parse(data []byte) (*Config, error) {
	// Radius 0 is a valid board, so the default is seeded before decoding
	// rather than filled in for zero values.
	cfg := Config{Board: BoardConfig{Radius: DefaultBoardRadius}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := Config{Board: BoardConfig{Radius: DefaultBoardRadius}}
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Board.MaxRadius == 0 {
		cfg.Board.MaxRadius = 64
	}
	if cfg.Board.Width == 0 {
		cfg.Board.Width = 600
	}
	if cfg.Board.Height == 0 {
		cfg.Board.Height = 600
	}
	if cfg.Board.Columns == 0 {
		cfg.Board.Columns = 9
	}
	if cfg.Session.MaxViewers == 0 {
		cfg.Session.MaxViewers = 100
	}
	if cfg.JWT.PublicKeyRefreshHrs == 0 {
		cfg.JWT.PublicKeyRefreshHrs = 24
	}
	if cfg.Redis.BlacklistPrefix == "" {
		cfg.Redis.BlacklistPrefix = "blacklist:"
	}
	if cfg.Redis.BoardTTLSeconds == 0 {
		cfg.Redis.BoardTTLSeconds = 3600
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate rejects settings the server cannot run with
func (cfg *Config) Validate() error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if cfg.Board.Radius < 0 || cfg.Board.Radius > cfg.Board.MaxRadius {
		return fmt.Errorf("board radius %d outside 0..%d", cfg.Board.Radius, cfg.Board.MaxRadius)
	}
	if cfg.Board.Width <= 0 || cfg.Board.Height <= 0 {
		return fmt.Errorf("board size %gx%g must be positive", cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Board.Columns < 0 {
		return fmt.Errorf("board columns %d must be positive", cfg.Board.Columns)
	}
	if cfg.Board.Gap < 0 {
		return fmt.Errorf("board gap %g must not be negative", cfg.Board.Gap)
	}
	if cfg.JWT.Enabled && cfg.JWT.PublicKeyURL == "" && cfg.JWT.PublicKeyPath == "" {
		return fmt.Errorf("jwt enabled but neither public_key_url nor public_key_path is set")
	}
	return nil
}
