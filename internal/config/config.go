package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the service reads at startup. It is read-only
// after process start; requests never mutate it.
type Config struct {
	ProjectDir   string `json:"project_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	LLMAPIKey   string `json:"llm_api_key"`
	LLMBaseURL  string `json:"llm_base_url"`

	SerperAPIKey       string `json:"serper_api_key"`
	AlphaVantageAPIKey string `json:"alpha_vantage_api_key"`

	ListenAddr   string `json:"listen_addr"`
	LogLevel     string `json:"log_level"`
	CacheEnabled bool   `json:"cache_enabled"`
	Debug        bool   `json:"debug"`
}

// DefaultConfig builds the config from defaults, a local .env file if one
// exists, and environment variable overrides, in that order.
func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		LLMProvider: "openai",
		LLMModel:    "gpt-4o-mini",
		LLMBaseURL:  "",

		ListenAddr:   ":8080",
		LogLevel:     "info",
		CacheEnabled: true,
		Debug:        false,
	}

	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" && c.LLMProvider == "deepseek" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("LLM_BASE_URL"); val != "" {
		c.LLMBaseURL = val
	}
	if val := os.Getenv("SERPER_API_KEY"); val != "" {
		c.SerperAPIKey = val
	}
	if val := os.Getenv("ALPHAVANTAGE_API_KEY"); val != "" {
		c.AlphaVantageAPIKey = val
	}
	if val := os.Getenv("LISTEN_ADDR"); val != "" {
		c.ListenAddr = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = parsed
		}
	}
	if val := os.Getenv("DEBUG"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			c.Debug = parsed
		}
	}
}

// Validate enforces the startup credential contract. A missing credential is
// fatal at process start, never a per-request condition.
func (c *Config) Validate() error {
	if c.LLMAPIKey == "" {
		if c.LLMProvider == "deepseek" {
			return fmt.Errorf("DEEPSEEK_API_KEY is required")
		}
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.SerperAPIKey == "" {
		return fmt.Errorf("SERPER_API_KEY is required")
	}
	if c.AlphaVantageAPIKey == "" {
		return fmt.Errorf("ALPHAVANTAGE_API_KEY is required")
	}
	switch c.LLMProvider {
	case "openai", "deepseek":
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLMProvider)
	}
	return nil
}

// EnsureDirectories creates the data and cache directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.DataCacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
