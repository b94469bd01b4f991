package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "SIGNAL"

type Config struct {
	Viper    *viper.Viper   `mapstructure:"-"`
	Server   ServerConfig   `mapstructure:"server"`
	Jwt      JwtConfig      `mapstructure:"jwt"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Socket   SocketConfig   `mapstructure:"socket"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type JwtConfig struct {
	Secret string `mapstructure:"secret"`
	// ExpirationTime is the token lifetime in seconds.
	ExpirationTime int `mapstructure:"expiration_time"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSL      string `mapstructure:"ssl"`
	Timezone string `mapstructure:"timezone"`
}

// DSN renders the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%v user=%v password=%v dbname=%v port=%v sslmode=%v TimeZone=%v",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSL, d.Timezone,
	)
}

type RedisConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Addr           string `mapstructure:"addr"`
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	VoteChannel    string `mapstructure:"vote_channel"`
	InsightChannel string `mapstructure:"insight_channel"`
}

type SocketConfig struct {
	ReadLimit        int64         `mapstructure:"read_limit"`
	SendBuffer       int           `mapstructure:"send_buffer"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	LivenessInterval time.Duration `mapstructure:"liveness_interval"`
	StoreTimeout     time.Duration `mapstructure:"store_timeout"`
	RateLimit        float64       `mapstructure:"rate_limit"`
	RateBurst        int           `mapstructure:"rate_burst"`
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_time", 3600)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "signal")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "UTC")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.vote_channel", "signal:vote_events")
	v.SetDefault("redis.insight_channel", "signal:insight_events")

	v.SetDefault("socket.read_limit", 65536)
	v.SetDefault("socket.send_buffer", 64)
	v.SetDefault("socket.write_timeout", "5s")
	v.SetDefault("socket.liveness_interval", "30s")
	v.SetDefault("socket.store_timeout", "5s")
	v.SetDefault("socket.rate_limit", 50)
	v.SetDefault("socket.rate_burst", 100)
	v.SetDefault("socket.allowed_origins", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration from path (optional), then SIGNAL_* environment
// variables, on top of the built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Warn().Str("module", "configs").Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "configs").Str("file", v.ConfigFileUsed()).Msg("loaded config")
	}

	cfg := &Config{Viper: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Socket.SendBuffer <= 0 {
		return fmt.Errorf("socket.send_buffer must be positive")
	}
	if c.Socket.ReadLimit <= 0 {
		return fmt.Errorf("socket.read_limit must be positive")
	}
	if c.Socket.RateLimit < 0 {
		return fmt.Errorf("socket.rate_limit must not be negative")
	}
	return nil
}

// JwtKey returns the signing secret as bytes.
func (c *Config) JwtKey() []byte {
	return []byte(c.Jwt.Secret)
}

// JwtExpiration returns the token lifetime.
func (c *Config) JwtExpiration() time.Duration {
	return time.Duration(c.Jwt.ExpirationTime) * time.Second
}
