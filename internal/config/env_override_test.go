package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_APIKey(t *testing.T) {
	t.Run("API_KEY sets the key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "generic-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "generic-key", cfg.LLM.APIKey)
	})

	t.Run("GEMINI_API_KEY wins over API_KEY", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "generic-key")
		t.Setenv("GEMINI_API_KEY", "gemini-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
	})

	t.Run("empty env keeps file value", func(t *testing.T) {
		clearEnv(t)

		cfg := &Config{LLM: LLMConfig{APIKey: "from-file"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "from-file", cfg.LLM.APIKey)
	})
}

func TestEnvOverrides_Document(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARCHFOLIO_DOCUMENT", "/tmp/portfolio.json")
	t.Setenv("ARCHFOLIO_ITEM_POLICY", "replace")
	t.Setenv("ARCHFOLIO_MODEL", "gemini-2.5-pro")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/tmp/portfolio.json", cfg.Document.Path)
	assert.Equal(t, "replace", cfg.Document.ItemPolicy)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
}

func TestEnvOverrides_Port(t *testing.T) {
	for _, port := range []string{"9000", ":9000"} {
		t.Run(port, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", port)

			cfg := DefaultConfig()
			cfg.applyEnvOverrides()

			assert.Equal(t, ":9000", cfg.Server.Addr)
		})
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  api_key: file-key\n"), 0644))
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
}
