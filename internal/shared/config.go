package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Folders  []FolderConfig `toml:"folders"`
	Player   PlayerConfig   `toml:"player"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
}

// LibraryConfig points the player at a songs server.
type LibraryConfig struct {
	BaseURL       string `toml:"base_url"`
	Extension     string `toml:"extension"`
	DefaultArtist string `toml:"default_artist"`
}

// FolderConfig names a playlist folder and the artist label shown for its tracks.
type FolderConfig struct {
	Name   string `toml:"name"`
	Artist string `toml:"artist"`
}

// PlayerConfig contains playback defaults.
type PlayerConfig struct {
	InitialVolume   float64 `toml:"initial_volume"`
	AutoplayDelayMS int     `toml:"autoplay_delay_ms"`
	SeekStep        float64 `toml:"seek_step"`   // seconds
	VolumeStep      float64 `toml:"volume_step"` // fraction of full volume
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	Dir  string `toml:"dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Addr returns the host:port pair the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AutoplayDelay returns the pause between loading a folder and starting its first track.
func (p PlayerConfig) AutoplayDelay() time.Duration {
	return time.Duration(p.AutoplayDelayMS) * time.Millisecond
}

// SeekStepDuration returns the distance the seek keys jump.
func (p PlayerConfig) SeekStepDuration() time.Duration {
	return time.Duration(p.SeekStep * float64(time.Second))
}

// ArtistTable maps configured folder names to their artist labels.
func (c *Config) ArtistTable() map[string]string {
	table := make(map[string]string, len(c.Folders))
	for _, f := range c.Folders {
		if f.Name != "" && f.Artist != "" {
			table[f.Name] = f.Artist
		}
	}
	return table
}

// FolderNames returns the configured folder names in file order.
func (c *Config) FolderNames() []string {
	names := make([]string, 0, len(c.Folders))
	for _, f := range c.Folders {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return names
}

// Validate checks value ranges that would otherwise surface as odd playback behaviour.
func (c *Config) Validate() error {
	if c.Library.BaseURL == "" {
		return fmt.Errorf("%w: library.base_url is required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Library.Extension, ".") {
		return fmt.Errorf("%w: library.extension must start with a dot, got %q", ErrInvalidConfig, c.Library.Extension)
	}
	if c.Player.InitialVolume < 0 || c.Player.InitialVolume > 1 {
		return fmt.Errorf("%w: player.initial_volume must be within [0, 1], got %v", ErrInvalidConfig, c.Player.InitialVolume)
	}
	if c.Player.AutoplayDelayMS < 0 {
		return fmt.Errorf("%w: player.autoplay_delay_ms cannot be negative", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range: %d", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	defaults := config.Folders
	config.Folders = nil

	md, err := toml.Decode(string(data), config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !md.IsDefined("folders") {
		config.Folders = defaults
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes config to path as TOML, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
