package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Vocabulary  VocabularyConfig  `mapstructure:"vocabulary"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Audio       AudioConfig       `mapstructure:"audio"`
	Speech      SpeechConfig      `mapstructure:"speech"`
	Translation TranslationConfig `mapstructure:"translation"`
}

type ServerConfig struct {
	Port       int        `mapstructure:"port" validate:"min=1,max=65535"`
	AdminToken string     `mapstructure:"admin_token"`
	CORS       CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type VocabularyConfig struct {
	CanonicalFile string `mapstructure:"canonical_file" validate:"required,file"`
	Watch         bool   `mapstructure:"watch"`
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=sqlite3 mysql"`
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite3"`
	Host            string            `mapstructure:"host" validate:"required_if=Driver mysql"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database" validate:"required_if=Driver mysql"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type AudioConfig struct {
	CacheDirectory string `mapstructure:"cache_directory" validate:"required,notfile"`
	PauseMS        int    `mapstructure:"pause_ms" validate:"min=0,max=5000"`
	// InvalidateOnContentChange regenerates clips whose term text changed.
	InvalidateOnContentChange bool   `mapstructure:"invalidate_on_content_change"`
	FFmpegPath                string `mapstructure:"ffmpeg_path" validate:"required"`
}

func (c AudioConfig) Pause() time.Duration {
	return time.Duration(c.PauseMS) * time.Millisecond
}

type SpeechConfig struct {
	BaseURL           string `mapstructure:"base_url" validate:"required,url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" validate:"min=1"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"min=1,max=9"`
	RetryAttempts     uint   `mapstructure:"retry_attempts" validate:"max=5"`
}

func (c SpeechConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type TranslationConfig struct {
	Provider       string         `mapstructure:"provider" validate:"oneof=disabled offline online"`
	OnlineBackend  string         `mapstructure:"online_backend" validate:"oneof=mymemory openai"`
	ContactEmail   string         `mapstructure:"contact_email" validate:"omitempty,email"`
	TimeoutSeconds int            `mapstructure:"timeout_seconds" validate:"min=1,max=9"`
	MyMemory       MyMemoryConfig `mapstructure:"mymemory"`
	OpenAI         OpenAIConfig   `mapstructure:"openai"`
}

func (c TranslationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type MyMemoryConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type OpenAIConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	RetryAttempts uint   `mapstructure:"retry_attempts" validate:"max=5"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vocabaudio")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// envBindings maps configuration keys that may come from the environment.
var envBindings = map[string]string{
	"server.admin_token":         "VOCABAUDIO_ADMIN_TOKEN",
	"database.password":          "DB_PASSWORD",
	"translation.provider":       "TRANSLATION_PROVIDER",
	"translation.contact_email":  "TRANSLATION_CONTACT_EMAIL",
	"translation.openai.api_key": "OPENAI_API_KEY",
	"translation.openai.model":   "OPENAI_MODEL",
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("vocabulary.canonical_file", filepath.Join("data", "terms.json"))
	v.SetDefault("vocabulary.watch", true)
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", filepath.Join("data", "vocabaudio.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "vocabaudio")
	v.SetDefault("database.username", "user")
	v.SetDefault("audio.cache_directory", filepath.Join("static", "audio"))
	v.SetDefault("audio.pause_ms", 650)
	v.SetDefault("audio.invalidate_on_content_change", false)
	v.SetDefault("audio.ffmpeg_path", "ffmpeg")
	v.SetDefault("speech.base_url", "https://translate.google.com")
	v.SetDefault("speech.requests_per_minute", 50)
	v.SetDefault("speech.timeout_seconds", 8)
	v.SetDefault("speech.retry_attempts", 2)
	v.SetDefault("translation.provider", "offline")
	v.SetDefault("translation.online_backend", "mymemory")
	v.SetDefault("translation.timeout_seconds", 5)
	v.SetDefault("translation.mymemory.base_url", "https://api.mymemory.translated.net")
	v.SetDefault("translation.openai.model", "gpt-4o-mini")
	v.SetDefault("translation.openai.retry_attempts", 1)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
