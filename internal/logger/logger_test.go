package logger

import "testing"

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		l, err := New(env)
		if err != nil || l == nil {
			t.Fatalf("New(%q): %v", env, err)
		}
		_ = l.Sync()
	}
}

func TestForCLIQuietByDefault(t *testing.T) {
	if ForCLI("development", false).Core().Enabled(-1) {
		t.Fatalf("expected no-op logger without debug")
	}
	if !ForCLI("development", true).Core().Enabled(-1) {
		t.Fatalf("expected debug level enabled with debug")
	}
}
