package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

const (
	ProductionBaseURL = "https://api.gemini.com"
	SandboxBaseURL    = "https://api.sandbox.gemini.com"

	ProductionWSURL = "wss://api.gemini.com"
	SandboxWSURL    = "wss://api.sandbox.gemini.com"
)

// Settings holds everything one run needs to talk to Gemini.
// Built once at startup and passed by value into the wiring.
type Settings struct {
	Section      string // "production" or "sandbox"
	ClientKey    string
	ClientSecret string
	BaseURL      string
	WSURL        string
}

// Load reads the INI settings file and returns the credentials for the
// selected section. GEMINI_CLIENT_KEY / GEMINI_CLIENT_SECRET in the
// environment (or a .env file) override the file values.
func Load(path string, sandbox bool) (Settings, error) {
	_ = godotenv.Load()

	section := "production"
	baseURL := envStr("GEMINI_BASE_URL", ProductionBaseURL)
	wsURL := envStr("GEMINI_WS_URL", ProductionWSURL)
	if sandbox {
		section = "sandbox"
		baseURL = envStr("GEMINI_BASE_URL", SandboxBaseURL)
		wsURL = envStr("GEMINI_WS_URL", SandboxWSURL)
	}

	file, err := ini.Load(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	sec, err := file.GetSection(section)
	if err != nil {
		return Settings{}, fmt.Errorf("settings %s: missing [%s] section", path, section)
	}

	key := envStr("GEMINI_CLIENT_KEY", sec.Key("CLIENT_KEY").String())
	secret := envStr("GEMINI_CLIENT_SECRET", sec.Key("CLIENT_SECRET").String())
	if key == "" || secret == "" {
		return Settings{}, fmt.Errorf("settings %s: [%s] needs CLIENT_KEY and CLIENT_SECRET", path, section)
	}

	return Settings{
		Section:      section,
		ClientKey:    key,
		ClientSecret: secret,
		BaseURL:      baseURL,
		WSURL:        wsURL,
	}, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
