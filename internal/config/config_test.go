package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("GEMINI_API_KEY", "from-gemini-env")
	t.Setenv("DATAEXPLORER_CLEAN_DELAY_MS", "10")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.APIKey != "from-gemini-env" {
		t.Fatalf("api key = %q", c.APIKey)
	}
	if c.Provider != "gemini" || c.FadeOutMs != 300 || c.FadeInMs != 50 || c.SessionTTLMin != 60 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.CleanDelayMs != 10 {
		t.Fatalf("env override ignored: %d", c.CleanDelayMs)
	}
	if c.ReportRecipient != "evyervina59@guru.smp.belajar.id" {
		t.Fatalf("recipient = %q", c.ReportRecipient)
	}
}

func TestPrefixedKeyWins(t *testing.T) {
	t.Setenv("DATAEXPLORER_API_KEY", "prefixed")
	t.Setenv("API_KEY", "legacy")
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.APIKey != "prefixed" {
		t.Fatalf("api key = %q", c.APIKey)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Set("provider", "OLLAMA"); err != nil {
		t.Fatalf("Set provider: %v", err)
	}
	if err := c.Set("allowed_origins", "https://a.example, https://b.example"); err != nil {
		t.Fatalf("Set origins: %v", err)
	}
	if err := c.Set("fade_out_ms", "x"); err == nil {
		t.Fatalf("expected parse error")
	}
	if err := c.Set("nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Provider != "ollama" || len(again.AllowedOrigins) != 2 || again.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("round trip lost values: %+v", again)
	}
}

func TestGetMasksKey(t *testing.T) {
	c := &Global{APIKey: "abcdefgh1234"}
	got, _ := c.Get("api_key")
	if got != "********1234" {
		t.Fatalf("masked = %q", got)
	}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Errorf("Get(%s): %v", k, err)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte("DATAEXPLORER_TEST_DOTENV=yes\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("DATAEXPLORER_TEST_DOTENV") })
	if err := LoadDotEnv(filepath.Join(dir, "absent.env"), env); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if os.Getenv("DATAEXPLORER_TEST_DOTENV") != "yes" {
		t.Fatalf("variable not loaded")
	}
}
