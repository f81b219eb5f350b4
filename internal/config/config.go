package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env        string `env:"ENV" env-default:"local"`
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`

	// Credenciais obrigatórias: sem elas a aplicação não sobe.
	DBUrl     string        `env:"DATABASE_URL" env-required:"true"`
	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL    time.Duration `env:"JWT_TTL" env-default:"24h"`

	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGINS" env-default:""`
	LoginRatePerMin   int    `env:"LOGIN_RATE_PER_MIN" env-default:"10"`
	StatsSchedule     string `env:"STATS_SCHEDULE" env-default:"@every 1m"`

	Admin   AdminConfig
	Redis   RedisConfig
	S3      S3Config
	SMTP    SMTPConfig
	Payment PaymentConfig
}

// AdminConfig cria o primeiro administrador na subida quando preenchido.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL" env-default:""`
	Password string `env:"ADMIN_PASSWORD" env-default:""`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:""`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type S3Config struct {
	Bucket    string `env:"S3_BUCKET" env-default:""`
	Region    string `env:"S3_REGION" env-default:"us-east-1"`
	Endpoint  string `env:"S3_ENDPOINT" env-default:""`
	AccessKey string `env:"S3_ACCESS_KEY" env-default:""`
	SecretKey string `env:"S3_SECRET_KEY" env-default:""`
	PublicURL string `env:"S3_PUBLIC_URL" env-default:""`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" env-default:""`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	User     string `env:"SMTP_USER" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:"nao-responda@cuidar.app"`
}

type PaymentConfig struct {
	AccessToken string `env:"MP_ACCESS_TOKEN" env-default:""`
	SuccessURL  string `env:"MP_SUCCESS_URL" env-default:""`
}

// Load lê a configuração do ambiente. Variáveis obrigatórias ausentes
// retornam erro; quem chama decide encerrar o processo.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *AdminConfig) Enabled() bool {
	return c.Email != "" && c.Password != ""
}

func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func (c *S3Config) Enabled() bool {
	return c.Bucket != ""
}

func (c *SMTPConfig) Enabled() bool {
	return c.Host != ""
}

func (c *PaymentConfig) Enabled() bool {
	return c.AccessToken != ""
}
