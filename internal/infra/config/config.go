package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	HTTPClient HTTPClientConfig `yaml:"http_client"`
	CORS       CORSConfig       `yaml:"cors"`
	Provider   ProviderConfig   `yaml:"provider"`
	Vision     VisionConfig     `yaml:"vision"`
	Generation GenerationConfig `yaml:"generation"`
}

type ServerConfig struct {
	Addr                string `yaml:"addr"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	MaxUploadMB         int64  `yaml:"max_upload_mb"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HTTPClientConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// ProviderConfig selects the LLM backend. Name is "openai" or "anthropic".
type ProviderConfig struct {
	Name    string `yaml:"name"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type VisionConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type GenerationConfig struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Strategy    string  `yaml:"strategy"`
	StrictParse bool    `yaml:"strict_parse"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	StrategyTemplate = "template"
	StrategyHTML     = "html"
)

var providerDefaults = map[string]struct{ vision, generation string }{
	ProviderOpenAI:    {vision: "gpt-4o-mini", generation: "gpt-4"},
	ProviderAnthropic: {vision: "claude-haiku-4-5", generation: "claude-sonnet-4-5"},
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	return LoadFile(configPath)
}

// LoadFile reads path over the defaults; a missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.applyModelDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                ":8000",
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 120,
			MaxUploadMB:         10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTPClient: HTTPClientConfig{
			TimeoutSeconds: 60,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		Provider: ProviderConfig{
			Name: ProviderOpenAI,
		},
		Vision: VisionConfig{
			MaxTokens: 500,
		},
		Generation: GenerationConfig{
			MaxTokens:   300,
			Temperature: 0.7,
			Strategy:    StrategyTemplate,
			StrictParse: true,
		},
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORS.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.Provider.Name = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if cfg.Provider.APIKey == "" {
		switch cfg.Provider.Name {
		case ProviderOpenAI:
			cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderAnthropic:
			cfg.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if v := os.Getenv("VISION_MODEL"); v != "" {
		cfg.Vision.Model = v
	}
	if v := os.Getenv("GENERATION_MODEL"); v != "" {
		cfg.Generation.Model = v
	}
	if v := os.Getenv("GENERATION_STRATEGY"); v != "" {
		cfg.Generation.Strategy = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("GENERATION_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid GENERATION_TEMPERATURE %q", v)
		}
		cfg.Generation.Temperature = t
	}
	return nil
}

func (c *Config) applyModelDefaults() {
	d, ok := providerDefaults[c.Provider.Name]
	if !ok {
		return
	}
	if c.Vision.Model == "" {
		c.Vision.Model = d.vision
	}
	if c.Generation.Model == "" {
		c.Generation.Model = d.generation
	}
}

// Validate reports the first setting the service cannot start with.
func (c *Config) Validate() error {
	if _, ok := providerDefaults[c.Provider.Name]; !ok {
		return fmt.Errorf("unknown provider %q", c.Provider.Name)
	}
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return fmt.Errorf("api key for provider %q is required", c.Provider.Name)
	}
	switch c.Generation.Strategy {
	case StrategyTemplate, StrategyHTML:
	default:
		return fmt.Errorf("unknown generation strategy %q", c.Generation.Strategy)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation temperature %.2f out of range [0, 2]", c.Generation.Temperature)
	}
	if c.Vision.MaxTokens <= 0 || c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
