package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		APIURL: "https://api.example.com/prod",
		UserID: "user-abc",
		GitHub: GitHubConfig{
			User:        "octocat",
			Email:       "octocat@example.com",
			DisplayName: "Octo Cat",
			TokenSecret: "gits/token/user-abc",
			Token:       "ghp_secret",
		},
		Sealing: SealingConfig{
			Type:          "age",
			RecipientPath: "/home/user/.gits/keys/service.pub",
		},
		History: HistoryConfig{Type: "sqlite", DataDir: "/home/user/.gits/data"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.APIURL != original.APIURL {
		t.Errorf("APIURL = %q, want %q", got.APIURL, original.APIURL)
	}
	if got.UserID != original.UserID {
		t.Errorf("UserID = %q, want %q", got.UserID, original.UserID)
	}
	if got.GitHub.User != original.GitHub.User {
		t.Errorf("GitHub.User = %q, want %q", got.GitHub.User, original.GitHub.User)
	}
	if got.GitHub.TokenSecret != original.GitHub.TokenSecret {
		t.Errorf("GitHub.TokenSecret = %q, want %q", got.GitHub.TokenSecret, original.GitHub.TokenSecret)
	}
	if got.GitHub.Token != original.GitHub.Token {
		t.Errorf("GitHub.Token = %q, want %q", got.GitHub.Token, original.GitHub.Token)
	}
	if got.Sealing.Type != "age" {
		t.Errorf("Sealing.Type = %q, want %q", got.Sealing.Type, "age")
	}
	if got.Sealing.RecipientPath != original.Sealing.RecipientPath {
		t.Errorf("Sealing.RecipientPath = %q, want %q", got.Sealing.RecipientPath, original.Sealing.RecipientPath)
	}
	if got.History.Type != "sqlite" {
		t.Errorf("History.Type = %q, want %q", got.History.Type, "sqlite")
	}
	if got.History.DataDir != original.History.DataDir {
		t.Errorf("History.DataDir = %q, want %q", got.History.DataDir, original.History.DataDir)
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("https://api.example.com/prod", "user-abc", "/home/user/.gits")

	if cfg.APIURL != "https://api.example.com/prod" {
		t.Errorf("APIURL = %q, want constructor value", cfg.APIURL)
	}
	if cfg.Sealing.Type != "age" {
		t.Errorf("Sealing.Type = %q, want age", cfg.Sealing.Type)
	}
	if cfg.Sealing.RecipientPath != filepath.Join("/home/user/.gits", "keys", "service.pub") {
		t.Errorf("Sealing.RecipientPath = %q, want default under base dir", cfg.Sealing.RecipientPath)
	}
	if cfg.History.Type != "sqlite" {
		t.Errorf("History.Type = %q, want sqlite", cfg.History.Type)
	}
	if cfg.History.DataDir != filepath.Join("/home/user/.gits", "data") {
		t.Errorf("History.DataDir = %q, want default under base dir", cfg.History.DataDir)
	}
}

func TestWriteToFile_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := NewConfig("https://api.example.com/prod", "user-abc", "/home/user/.gits")

	if err := WriteToFile(path, cfg); err != nil {
		t.Fatalf("WriteToFile() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.UserID != "user-abc" {
		t.Errorf("UserID = %q, want round-tripped value", got.UserID)
	}
}

func TestInit_RefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := NewConfig("https://api.example.com/prod", "user-abc", "/home/user/.gits")

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := Init(path, cfg); err == nil {
		t.Error("second Init() error = nil, want refusal to overwrite")
	}
}
