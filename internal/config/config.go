package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	JWT      JWTConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Push     PushConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type JWTConfig struct {
	Issuer          string        `env:"JWT_ISSUER" env-default:"lifeboard-api"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type RedisConfig struct {
	Host        string        `env:"REDIS_HOST" env-required:"true"`
	Port        int           `env:"REDIS_PORT" env-default:"6379"`
	Password    string        `env:"REDIS_PASSWORD" env-default:""`
	DB          int           `env:"REDIS_DB" env-default:"0"`
	PingTimeout time.Duration `env:"REDIS_PING_TIMEOUT" env-default:"10s"`
}

type PushConfig struct {
	VAPIDPublicKey  string        `env:"PUSH_VAPID_PUBLIC_KEY" env-required:"true"`
	VAPIDPrivateKey string        `env:"PUSH_VAPID_PRIVATE_KEY" env-required:"true"`
	Subscriber      string        `env:"PUSH_SUBSCRIBER" env-default:"notify@betterlifeboard.com"`
	PollInterval    time.Duration `env:"PUSH_POLL_INTERVAL" env-default:"1m"`
	DedupTTL        time.Duration `env:"PUSH_DEDUP_TTL" env-default:"24h"`
	TTLSeconds      int           `env:"PUSH_TTL_SECONDS" env-default:"30"`
}
