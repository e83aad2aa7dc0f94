package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate keeps Load from finding a real aura.yaml in the working directory
// or the developer's home.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aura.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Username != "Friend" || cfg.Assistant != "Aura" {
		t.Errorf("default names = %q/%q", cfg.Username, cfg.Assistant)
	}
	if cfg.Provider != "openai" {
		t.Errorf("default provider = %q", cfg.Provider)
	}
	if cfg.HistoryWindow != 20 {
		t.Errorf("default history window = %d", cfg.HistoryWindow)
	}
	if cfg.SlotDir != filepath.Join(cfg.DataDir, "slots") {
		t.Errorf("slot dir %q not derived from data dir %q", cfg.SlotDir, cfg.DataDir)
	}
	if cfg.DBPath != filepath.Join(cfg.DataDir, "aura.db") {
		t.Errorf("db path %q not derived from data dir %q", cfg.DBPath, cfg.DataDir)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
username: Alice
assistant: Jeeves
provider: groq
city: Lisbon
country_code: "+351"
contacts:
  Mom: "912345678"
favorites:
  - Clair de Lune
image_worker: ["python3", "imagegen.py"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Username != "Alice" || cfg.Assistant != "Jeeves" {
		t.Errorf("names = %q/%q", cfg.Username, cfg.Assistant)
	}
	if cfg.Provider != "groq" || cfg.City != "Lisbon" {
		t.Errorf("provider/city = %q/%q", cfg.Provider, cfg.City)
	}
	// Contact keys are normalized to lowercase.
	if cfg.Contacts["mom"] != "912345678" {
		t.Errorf("contacts = %v", cfg.Contacts)
	}
	if len(cfg.Favorites) != 1 || cfg.Favorites[0] != "Clair de Lune" {
		t.Errorf("favorites = %v", cfg.Favorites)
	}
	if len(cfg.ImageWorker) != 2 || cfg.ImageWorker[0] != "python3" {
		t.Errorf("image worker = %v", cfg.ImageWorker)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("AURA_USERNAME", "Envy")
	// Keys without defaults must pick up their env vars too.
	t.Setenv("AURA_API_KEY", "sk-test")
	t.Setenv("AURA_WEATHER_API_KEY", "wk-test")
	t.Setenv("AURA_SLOT_DIR", "/var/run/aura-slots")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Username != "Envy" {
		t.Errorf("username = %q, want env override", cfg.Username)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("api key = %q, want env override", cfg.APIKey)
	}
	if cfg.WeatherAPIKey != "wk-test" {
		t.Errorf("weather api key = %q, want env override", cfg.WeatherAPIKey)
	}
	if cfg.SlotDir != "/var/run/aura-slots" {
		t.Errorf("slot dir = %q, want env override kept over derived default", cfg.SlotDir)
	}
}
