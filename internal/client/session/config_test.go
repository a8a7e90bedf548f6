package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	want := Config{APIBaseURL: "http://othello.test:9000", Username: "alice"}

	if err := writeConfig(path, &want, 0o600); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	got := DefaultConfig
	if err := readConfig(path, &got); err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig
	if err := readConfig(filepath.Join(dir, "missing.json"), &cfg); err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg != DefaultConfig {
		t.Errorf("missing file changed config: %+v", cfg)
	}

	path := filepath.Join(dir, "partial.json")
	if err := os.WriteFile(path, []byte(`{"username":"bob"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := readConfig(path, &cfg); err != nil {
		t.Fatalf("partial file: %v", err)
	}
	if cfg.APIBaseURL != DefaultConfig.APIBaseURL || cfg.Username != "bob" {
		t.Errorf("partial config = %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := readConfig(bad, &cfg); err == nil {
		t.Error("malformed config accepted")
	}
}

func TestSetCurrentGameResetsState(t *testing.T) {
	s := New("http://localhost:8080")
	s.SetCurrentGame("g1")
	s.SetPlayerColor("b")
	s.SetCurrentGame("g1")
	if s.GetPlayerColor() != "b" {
		t.Error("re-selecting the same game dropped the color")
	}
	s.SetCurrentGame("g2")
	if s.GetPlayerColor() != "" || s.GetGameState() != nil {
		t.Error("switching games kept the previous game state")
	}
}
