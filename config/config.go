package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Rooms     RoomsConfig     `mapstructure:"rooms"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	AllowOrigins string        `mapstructure:"allow_origins"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RoomsConfig holds the room lifecycle policy. A zero DeletionGrace deletes
// emptied rooms synchronously.
type RoomsConfig struct {
	MaxPlayersCap int           `mapstructure:"max_players_cap"`
	DeletionGrace time.Duration `mapstructure:"deletion_grace"`
	CodeAttempts  int           `mapstructure:"code_attempts"`
	SendBuffer    int           `mapstructure:"send_buffer"`
}

type RateLimitConfig struct {
	HTTPRequestsPerMinute int     `mapstructure:"http_requests_per_minute"`
	HTTPBurst             int     `mapstructure:"http_burst"`
	WSMessagesPerSecond   float64 `mapstructure:"ws_messages_per_second"`
	WSBurst               int     `mapstructure:"ws_burst"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "quiz-service")
	v.SetDefault("app.version", "0.1.0")

	v.SetDefault("server.port", "8082")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.allow_origins", "http://localhost:5173")
	v.SetDefault("server.idle_timeout", "5s")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	v.SetDefault("rooms.max_players_cap", 16)
	v.SetDefault("rooms.deletion_grace", "30s")
	v.SetDefault("rooms.code_attempts", 64)
	v.SetDefault("rooms.send_buffer", 256)

	v.SetDefault("ratelimit.http_requests_per_minute", 600)
	v.SetDefault("ratelimit.http_burst", 60)
	v.SetDefault("ratelimit.ws_messages_per_second", 10)
	v.SetDefault("ratelimit.ws_burst", 20)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

func Read() Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	setDefaults(v)

	// ENV overrides with prefix QUIZ_ and dot-to-underscore replacement
	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		zap.L().Warn("Failed to read configuration file", zap.Error(err))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		zap.L().Error("Configuration could not be parsed", zap.Error(err))
	}

	return config
}
