package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/viper"
)

const (
	DefaultChatModel          = "gpt-4-1106-preview"
	DefaultTranscriptionModel = openai.Whisper1
	DefaultOutputFile         = "moving_dataset.csv"
)

type Config struct {
	Dir        string `mapstructure:"dir"`
	OutputFile string `mapstructure:"output_file"`
	WriteXLSX  bool   `mapstructure:"write_xlsx"`
	SortByName bool   `mapstructure:"sort_by_name"`
	OpenAI     OpenAI `mapstructure:"openai"`
	Log        Log    `mapstructure:"log"`
}

// OpenAI holds everything needed to talk to the remote model endpoints.
type OpenAI struct {
	APIKey             string        `mapstructure:"api_key"`
	BaseURL            string        `mapstructure:"base_url"`
	ChatModel          string        `mapstructure:"chat_model"`
	TranscriptionModel string        `mapstructure:"transcription_model"`
	MaxRetries         uint64        `mapstructure:"max_retries"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
}

type Log struct {
	Environment string `mapstructure:"environment"`
	Level       string `mapstructure:"level"`
}

var envBindings = map[string]string{
	"dir":                        "QUOTES_DIR",
	"output_file":                "OUTPUT_FILE",
	"write_xlsx":                 "WRITE_XLSX",
	"sort_by_name":               "SORT_BY_NAME",
	"openai.api_key":             "OPENAI_API_KEY",
	"openai.base_url":            "OPENAI_BASE_URL",
	"openai.chat_model":          "CHAT_MODEL",
	"openai.transcription_model": "TRANSCRIPTION_MODEL",
	"openai.max_retries":         "MAX_RETRIES",
	"openai.request_timeout":     "REQUEST_TIMEOUT",
	"log.environment":            "ENVIRONMENT",
	"log.level":                  "LOG_LEVEL",
}

// Load reads .env (if present), an optional quotes.yaml and the process
// environment, in increasing order of precedence.
func Load(configFile string) (Config, error) {
	_ = godotenv.Load() // loads .env

	v := viper.New()
	v.SetDefault("dir", ".")
	v.SetDefault("output_file", DefaultOutputFile)
	v.SetDefault("write_xlsx", false)
	v.SetDefault("sort_by_name", true)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.chat_model", DefaultChatModel)
	v.SetDefault("openai.transcription_model", DefaultTranscriptionModel)
	v.SetDefault("openai.max_retries", 0)
	v.SetDefault("openai.request_timeout", time.Duration(0))
	v.SetDefault("log.environment", "local")
	v.SetDefault("log.level", "info")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("quotes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// NewOpenAIClient builds the client shared by the extraction and
// transcription stages.
func NewOpenAIClient(c OpenAI) *openai.Client {
	cfg := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	return openai.NewClientWithConfig(cfg)
}
