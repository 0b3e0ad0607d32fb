package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	// Persistence configuration
	Store StoreConfig `json:"store"`

	// Catalog source configuration
	Catalog CatalogConfig `json:"catalog"`

	// Game configuration
	Game GameConfig `json:"game"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// StoreConfig holds persistence specific configuration
type StoreConfig struct {
	// Store driver (file, sqlite, memory)
	Driver string `json:"driver" env:"HONEY_STORE_DRIVER"`

	// JSON file path or SQLite database path
	Path string `json:"path" env:"HONEY_STORE_PATH"`

	// Number of keys held in the read cache, 0 disables it
	CacheSize int `json:"cache_size" env:"HONEY_STORE_CACHE_SIZE"`
}

// CatalogConfig holds the location of the region, product and event catalogs
type CatalogConfig struct {
	// Catalog source (embedded, file, http)
	Source string `json:"source" env:"HONEY_CATALOG_SOURCE"`

	// Directory holding regions.json, products.json and events.json
	Dir string `json:"dir" env:"HONEY_CATALOG_DIR"`

	// URL of a single catalog document
	URL string `json:"url" env:"HONEY_CATALOG_URL"`

	// Timeout for the HTTP fetch in seconds
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds" env:"HONEY_CATALOG_TIMEOUT"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Starting honey
	DefaultHoney int `json:"default_honey" env:"HONEY_DEFAULT_HONEY"`

	// Starting satisfaction (0-100)
	DefaultSatisfaction int `json:"default_satisfaction" env:"HONEY_DEFAULT_SATISFACTION"`

	// Starting reputation (0-100)
	DefaultReputation int `json:"default_reputation" env:"HONEY_DEFAULT_REPUTATION"`

	// Upper bound of events drawn per round
	EventsPerRound int `json:"events_per_round" env:"HONEY_EVENTS_PER_ROUND"`

	// Size of the virtual player cohort
	VirtualPlayers int `json:"virtual_players" env:"HONEY_VIRTUAL_PLAYERS"`

	// Random seed, 0 seeds from the clock
	Seed int64 `json:"seed" env:"HONEY_SEED"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" env:"HONEY_PORT"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" env:"HONEY_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Driver:    "file",
			Path:      "./data/game_state.json",
			CacheSize: 64,
		},
		Catalog: CatalogConfig{
			Source:              "embedded",
			Dir:                 "./data/catalog",
			FetchTimeoutSeconds: 5,
		},
		Game: GameConfig{
			DefaultHoney:        300000,
			DefaultSatisfaction: 50,
			DefaultReputation:   50,
			EventsPerRound:      7,
			VirtualPlayers:      8,
		},
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file, creating it with defaults if
// it does not exist. Environment variables override file values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, ApplyEnv(&config)
	}

	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("decode %s: %w", path, err)
	}

	return config, ApplyEnv(&config)
}

// ApplyEnv overrides fields whose environment variable is set
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(config)
}
