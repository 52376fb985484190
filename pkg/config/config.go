package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

type Config struct {
	// Platform is the vendor API base URL.
	Platform string `yaml:"platform"`
	// WorkingFolder holds the mission cache (tasks.json).
	WorkingFolder string `yaml:"working_folder"`
	// TokenFile is the file holding the platform bearer token.
	TokenFile string `yaml:"token_file"`
	// TemplatesDir is the bundled (app-provided) template root.
	TemplatesDir string `yaml:"templates_dir"`
	// UserTemplatesDir is the override root: preferred for reads, used
	// for all writes. Empty means degraded single-root mode.
	UserTemplatesDir string `yaml:"user_templates_dir"`
	// KnownSafeDomains are never flagged by the redaction scanner.
	KnownSafeDomains []string `yaml:"known_safe_domains"`

	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`
}

func DefaultConfig() *Config {
	return &Config{
		Platform:         "https://platform.synack.com",
		WorkingFolder:    "data",
		TokenFile:        "/tmp/synacktoken",
		TemplatesDir:     "text_templates",
		SelectedProvider: "gemini",
		SelectedModel:    "gemini-pro",
		Providers:        make(map[string]ProviderConfig),
	}
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".missions-helper")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(path)
}

func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigTo(cfg, path)
}

func SaveConfigTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

// applyEnvOverrides lets MH_* environment variables win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MH_PLATFORM"); v != "" {
		c.Platform = v
	}
	if v := os.Getenv("MH_WORKING_FOLDER"); v != "" {
		c.WorkingFolder = v
	}
	if v := os.Getenv("MH_TOKEN_FILE"); v != "" {
		c.TokenFile = v
	}
	if v := os.Getenv("MH_TEMPLATES_DIR"); v != "" {
		c.TemplatesDir = v
	}
	if v := os.Getenv("MH_USER_TEMPLATES_DIR"); v != "" {
		c.UserTemplatesDir = v
	}
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}
