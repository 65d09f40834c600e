package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTempSettings creates a minimal settings file and returns its path.
func writeTempSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.conf")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

const fullSettings = `[production]
CLIENT_KEY = prod-key
CLIENT_SECRET = prod-secret

[sandbox]
CLIENT_KEY = sandbox-key
CLIENT_SECRET = sandbox-secret
`

func TestLoadProduction(t *testing.T) {
	path := writeTempSettings(t, fullSettings)

	s, err := Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if s.Section != "production" {
		t.Errorf("section = %s", s.Section)
	}
	if s.ClientKey != "prod-key" || s.ClientSecret != "prod-secret" {
		t.Errorf("credentials = %s/%s", s.ClientKey, s.ClientSecret)
	}
	if s.BaseURL != ProductionBaseURL {
		t.Errorf("base url = %s", s.BaseURL)
	}
}

func TestLoadSandbox(t *testing.T) {
	path := writeTempSettings(t, fullSettings)

	s, err := Load(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.Section != "sandbox" {
		t.Errorf("section = %s", s.Section)
	}
	if s.ClientKey != "sandbox-key" {
		t.Errorf("client key = %s", s.ClientKey)
	}
	if s.BaseURL != SandboxBaseURL {
		t.Errorf("base url = %s, want sandbox", s.BaseURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.conf"), false); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMissingSection(t *testing.T) {
	path := writeTempSettings(t, "[production]\nCLIENT_KEY = k\nCLIENT_SECRET = s\n")

	if _, err := Load(path, true); err == nil {
		t.Fatal("expected error for missing sandbox section")
	}
}

func TestLoadMissingKeys(t *testing.T) {
	path := writeTempSettings(t, "[production]\nCLIENT_KEY = k\n")

	if _, err := Load(path, false); err == nil {
		t.Fatal("expected error for missing CLIENT_SECRET")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeTempSettings(t, fullSettings)
	t.Setenv("GEMINI_CLIENT_KEY", "env-key")
	t.Setenv("GEMINI_CLIENT_SECRET", "env-secret")

	s, err := Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if s.ClientKey != "env-key" || s.ClientSecret != "env-secret" {
		t.Errorf("credentials = %s/%s, want env overrides", s.ClientKey, s.ClientSecret)
	}
}
