package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where archfolio looks for its configuration, relative to the workspace.
const DefaultConfigPath = ".archfolio/config.yaml"

// Config holds all archfolio configuration.
type Config struct {
	// Core settings
	Name string `yaml:"name"`

	// Generative model used by the assistant
	LLM LLMConfig `yaml:"llm"`

	// Document file and reconciliation behavior
	Document DocumentConfig `yaml:"document"`

	// Preview/API server
	Server ServerConfig `yaml:"server"`

	// Terminal editor
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DocumentConfig configures where the portfolio comes from and how AI updates merge.
type DocumentConfig struct {
	Path       string `yaml:"path"`        // JSON or YAML file; empty = built-in preset
	ItemPolicy string `yaml:"item_policy"` // preserve, replace
	Watch      bool   `yaml:"watch"`       // reload the file when it changes on disk
}

// ServerConfig configures the preview/API server.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "archfolio",

		LLM: LLMConfig{
			Model:   DefaultModel,
			Timeout: "60s",
		},

		Document: DocumentConfig{
			ItemPolicy: "preserve",
			Watch:      true,
		},

		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},

		UI: *DefaultUIConfig(),

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A .env file next to the workspace (the
// current directory) is read first so its variables take part in the overrides.
// A missing config file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// API key: API_KEY is the generic name, GEMINI_API_KEY wins when both are set
	if key := os.Getenv("API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}

	if model := os.Getenv("ARCHFOLIO_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if path := os.Getenv("ARCHFOLIO_DOCUMENT"); path != "" {
		c.Document.Path = path
	}
	if policy := os.Getenv("ARCHFOLIO_ITEM_POLICY"); policy != "" {
		c.Document.ItemPolicy = policy
	}

	// PORT follows the usual hosting convention: a bare port number
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
}

// ValidItemPolicies lists the accepted document.item_policy values.
var ValidItemPolicies = []string{"preserve", "replace"}

// Validate validates the configuration. A missing API key is not an error: the
// editor works without the assistant and reports the missing key when it is used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("llm.model must not be empty")
	}

	validPolicy := false
	for _, p := range ValidItemPolicies {
		if strings.EqualFold(strings.TrimSpace(c.Document.ItemPolicy), p) {
			validPolicy = true
			break
		}
	}
	if !validPolicy {
		return fmt.Errorf("invalid document.item_policy: %s (valid: %v)", c.Document.ItemPolicy, ValidItemPolicies)
	}

	if c.UI.WordWrap < 0 {
		return fmt.Errorf("ui.word_wrap must not be negative")
	}

	return nil
}

// HasAPIKey reports whether a credential for the generative model is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.LLM.APIKey) != ""
}
