// Package config loads the go-avatar configuration: built-in defaults, then
// an optional TOML file, then AVATAR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/avatar"
)

// DefaultAvatar is a Ready Player Me avatar exported with ARKit morph
// targets.
const DefaultAvatar = "https://models.readyplayer.me/622952275de1ae64c9ebe969.glb?morphTargets=ARKit"

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig  `toml:"server"`
	Log    LogConfig     `toml:"log"`
	Store  StoreConfig   `toml:"store"`
	Avatar avatar.Config `toml:"avatar"`
	Env    AvatarEnv     `toml:"-"`
}

// ServerConfig configures the HTTP and WebSocket API.
type ServerConfig struct {
	Addr          string `toml:"addr" env:"AVATAR_ADDR"`
	DefaultAvatar string `toml:"default_avatar" env:"AVATAR_SOURCE"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" env:"AVATAR_LOG_LEVEL"`
}

// StoreConfig configures accessory persistence.
type StoreConfig struct {
	Path string `toml:"path" env:"AVATAR_DB"`
}

// AvatarEnv holds environment overrides for the avatar session. Pointers
// distinguish "unset" from zero values.
type AvatarEnv struct {
	BodyWindow          *int     `env:"AVATAR_BODY_WINDOW"`
	HandWindow          *int     `env:"AVATAR_HAND_WINDOW"`
	VisibilityThreshold *float64 `env:"AVATAR_VISIBILITY_THRESHOLD"`
	MirrorHandedness    *bool    `env:"AVATAR_MIRROR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8080",
			DefaultAvatar: DefaultAvatar,
		},
		Log:    LogConfig{Level: "info"},
		Store:  StoreConfig{Path: "avatar.db"},
		Avatar: avatar.DefaultConfig(),
	}
}

// Load builds the configuration. A missing file at path is not an error;
// an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	e := c.Env
	if e.BodyWindow != nil {
		c.Avatar.BodyWindow = *e.BodyWindow
	}
	if e.HandWindow != nil {
		c.Avatar.HandWindow = *e.HandWindow
	}
	if e.VisibilityThreshold != nil {
		c.Avatar.VisibilityThreshold = *e.VisibilityThreshold
	}
	if e.MirrorHandedness != nil {
		c.Avatar.MirrorHandedness = *e.MirrorHandedness
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if err := c.Avatar.Validate(); err != nil {
		return fmt.Errorf("avatar: %w", err)
	}
	return nil
}

// TOML returns the configuration encoded as TOML.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}
