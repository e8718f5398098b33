package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddr string
	GinMode    string

	LogLevel  string
	LogFormat string

	// DBDriver is "sqlite" or "mysql". DSN demo for mysql:
	// app:apppass@tcp(127.0.0.1:3306)/botize?charset=utf8mb4&parseTime=true&loc=Local
	DBDriver string
	DBDSN    string

	// Redis caches website extraction results. Empty addr disables the cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ carries chat turn diagnostics. Empty URL disables publishing.
	RabbitURL   string
	RabbitQueue string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	AnthropicBaseURL string
	AnthropicAPIKey  string
	AnthropicModel   string

	ChatContextWindowSize int
}

// Load reads configuration from an optional yaml file plus environment
// variables. Env keys are the upper-case form of the config keys, e.g.
// DB_DSN, OPENAI_API_KEY, CHAT_CONTEXT_WINDOW_SIZE.
func Load(configPath string) Config {
	v := viper.New()

	v.SetDefault("server_addr", ":8080")
	v.SetDefault("gin_mode", "release")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "botize.db")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("rabbit_url", "")
	v.SetDefault("rabbit_queue", "chat_events")

	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", "gpt-4o-mini")

	v.SetDefault("anthropic_base_url", "https://api.anthropic.com")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_model", "claude-3-haiku-20240307")

	v.SetDefault("chat_context_window_size", 20)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		// a missing file is fine, env + defaults still apply
		_ = v.ReadInConfig()
	}

	return Config{
		ServerAddr: v.GetString("server_addr"),
		GinMode:    v.GetString("gin_mode"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),

		DBDriver: v.GetString("db_driver"),
		DBDSN:    v.GetString("db_dsn"),

		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),

		RabbitURL:   v.GetString("rabbit_url"),
		RabbitQueue: v.GetString("rabbit_queue"),

		OpenAIBaseURL: v.GetString("openai_base_url"),
		OpenAIAPIKey:  v.GetString("openai_api_key"),
		OpenAIModel:   v.GetString("openai_model"),

		AnthropicBaseURL: v.GetString("anthropic_base_url"),
		AnthropicAPIKey:  v.GetString("anthropic_api_key"),
		AnthropicModel:   v.GetString("anthropic_model"),

		ChatContextWindowSize: v.GetInt("chat_context_window_size"),
	}
}
