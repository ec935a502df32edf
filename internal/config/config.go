package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for the gits CLI. It is read once
// at startup and passed into components explicitly; nothing reads ambient
// environment state.
type Config struct {
	APIURL  string        `toml:"api_url"`
	UserID  string        `toml:"user_id"`
	GitHub  GitHubConfig  `toml:"github"`
	Sealing SealingConfig `toml:"sealing"`
	History HistoryConfig `toml:"history"`
}

// GitHubConfig holds the commit identity and credential settings.
type GitHubConfig struct {
	User        string `toml:"user"`
	Email       string `toml:"email"`
	DisplayName string `toml:"display_name,omitempty"`

	// TokenSecret names the remote secret the compute runner reads.
	TokenSecret string `toml:"token_secret"`

	// Token is the personal access token, kept only in this 0600 file.
	// It is sealed before transmission; see SealingConfig.
	Token string `toml:"token,omitempty"`
}

// SealingConfig configures how the token is sealed for transport.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SealingConfig struct {
	Type string `toml:"type"` // "age" (default) or "test"

	// RecipientPath points at the scheduling service's age recipient key.
	RecipientPath string `toml:"recipient_path,omitempty"`
}

// HistoryConfig configures the local submission log.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type HistoryConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a new Config with the provided values and default paths
// under baseDir.
func NewConfig(apiURL, userID, baseDir string) *Config {
	return &Config{
		APIURL: apiURL,
		UserID: userID,
		Sealing: SealingConfig{
			Type:          "age",
			RecipientPath: filepath.Join(baseDir, "keys", "service.pub"),
		},
		History: HistoryConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// WriteToFile writes a Config to the specified file path. The file is created
// 0600 since it may hold the access token.
func WriteToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := WriteToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
