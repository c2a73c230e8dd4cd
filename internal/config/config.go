package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port    int
	DataDir string // runtime files (PID file), not domain state
}

type ProviderConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:    8000,
			DataDir: defaultDataDir(),
		},
		Provider: ProviderConfig{
			BaseURL:        "https://api.sea-lion.ai/v1",
			Model:          "aisingapore/Gemma-SEA-LION-v3-9B-IT",
			TimeoutSeconds: 45,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and the platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.coverly.advisor) and
// the API key falls back to the macOS Keychain. On Linux the backend is a
// JSON file at $XDG_CONFIG_HOME/advisor/config.json and the key falls
// back to a secrets file under $XDG_DATA_HOME.
//
// Environment variables (ADVISOR_*) override backend values everywhere.
// The provider API key is the only required setting.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// ConfigBackend abstracts platform-specific config storage: UserDefaults
// on macOS (via the `defaults` CLI), a JSON file in the XDG config
// directory elsewhere.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}

// keychain abstracts secret-store access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Provider.APIKey == "" {
		if key, err := kc.Get("advisor", "api_key"); err == nil && key != "" {
			cfg.Provider.APIKey = key
		}
	}

	if cfg.Provider.APIKey == "" {
		msg := "missing required config: provider API key. " +
			"Set it via environment variable ADVISOR_API_KEY" +
			apiKeyHint()
		return Config{}, fmt.Errorf("%s", msg)
	}

	return cfg, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
