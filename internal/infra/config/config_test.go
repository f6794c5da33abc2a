package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"
)

var envKeys = []string{
	"SERVER_ADDR", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOW_ORIGINS", "LLM_PROVIDER", "LLM_BASE_URL",
	"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "VISION_MODEL", "GENERATION_MODEL",
	"GENERATION_STRATEGY", "GENERATION_TEMPERATURE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func missingPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func TestLoadFileDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadFile(missingPath(t))
	assert.Equal(t, nil, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, ProviderOpenAI, cfg.Provider.Name)
	assert.Equal(t, "sk-test", cfg.Provider.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Vision.Model)
	assert.Equal(t, 500, cfg.Vision.MaxTokens)
	assert.Equal(t, "gpt-4", cfg.Generation.Model)
	assert.Equal(t, 300, cfg.Generation.MaxTokens)
	assert.Equal(t, 0.7, cfg.Generation.Temperature)
	assert.Equal(t, StrategyTemplate, cfg.Generation.Strategy)
	assert.Equal(t, true, cfg.Generation.StrictParse)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoadFileYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  addr: ":9090"
provider:
  name: anthropic
  api_key: from-file
generation:
  strategy: html
  temperature: 0.3
cors:
  allow_origins: ["http://localhost:8501"]
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("GENERATION_MODEL", "claude-opus-4-1")

	cfg, err := LoadFile(path)
	assert.Equal(t, nil, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, ProviderAnthropic, cfg.Provider.Name)
	assert.Equal(t, "from-file", cfg.Provider.APIKey)
	assert.Equal(t, "claude-haiku-4-5", cfg.Vision.Model)
	assert.Equal(t, "claude-opus-4-1", cfg.Generation.Model)
	assert.Equal(t, StrategyHTML, cfg.Generation.Strategy)
	assert.Equal(t, 0.3, cfg.Generation.Temperature)
	assert.Equal(t, []string{"http://localhost:8501"}, cfg.CORS.AllowOrigins)
}

func TestLoadFileProviderKeyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	t.Setenv("OPENAI_API_KEY", "sk-ignored")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadFile(missingPath(t))
	assert.Equal(t, nil, err)
	assert.Equal(t, "ak-test", cfg.Provider.APIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing api key", env: map[string]string{"OPENAI_API_KEY": ""}},
		{name: "unknown provider", env: map[string]string{"LLM_PROVIDER": "mistral", "OPENAI_API_KEY": "sk"}},
		{name: "unknown strategy", env: map[string]string{"OPENAI_API_KEY": "sk", "GENERATION_STRATEGY": "freeform"}},
		{name: "bad temperature", env: map[string]string{"OPENAI_API_KEY": "sk", "GENERATION_TEMPERATURE": "hot"}},
		{name: "temperature out of range", env: map[string]string{"OPENAI_API_KEY": "sk", "GENERATION_TEMPERATURE": "3.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFile(missingPath(t))
			assert.NotEqual(t, nil, err)
		})
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "sk")

	_, err := LoadFile(path)
	assert.NotEqual(t, nil, err)
}
