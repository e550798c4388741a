package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/onboarding/internal/client/onboarding"
)

// Config is the client configuration. Values come from the YAML file and
// are then overridden by any flag the user set explicitly.
type Config struct {
	BaseURL  string        `yaml:"base_url"`
	Provider string        `yaml:"provider"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
	// Session is the path of the session file. Empty means the default
	// location under the user config directory.
	Session string `yaml:"session"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:  onboarding.DefaultBaseURL,
		Provider: onboarding.DefaultProvider,
		Timeout:  onboarding.DefaultTimeout,
		LogLevel: "warn",
	}
}

// DefaultConfigPath returns <user config dir>/onboarding/config.yaml, or ""
// when the user config directory cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "onboarding", "config.yaml")
}

// LoadConfig reads path over the defaults. A missing file is only an error
// when required is set, i.e. the user named the file explicitly.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	// a zero http.Client timeout means no timeout at all
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// FormFile is the YAML shape accepted by `register submit --file`. Keys
// match the registration payload.
type FormFile struct {
	FirstName     string `yaml:"firstName"`
	Surname       string `yaml:"surname"`
	Phone         string `yaml:"phone"`
	Email         string `yaml:"email"`
	NIN           string `yaml:"nin"`
	BVN           string `yaml:"bvn"`
	Address       string `yaml:"address"`
	RegionID      string `yaml:"region_id"`
	ZoneID        string `yaml:"zone_id"`
	BankID        string `yaml:"bank_id"`
	AccountNumber string `yaml:"account_number"`
	ParallexID    string `yaml:"parallex_id"`
}

func LoadFormFile(path string) (FormFile, error) {
	var f FormFile
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("failed to read form file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse form file: %w", err)
	}
	return f, nil
}
