package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort               string `env:"HTTP_PORT" envDefault:"8080"`
	PublicBaseURL          string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	VerifySecret           string `env:"VERIFY_SECRET,required"`
	SessionTTLSeconds      int    `env:"SESSION_TTL_SECONDS" envDefault:"3600"`
	TokenTTLSeconds        int    `env:"TOKEN_TTL_SECONDS" envDefault:"86400"`
	DeeplinkScheme         string `env:"DEEPLINK_SCHEME" envDefault:"myapp"`
	IssueRateWindowSeconds int    `env:"ISSUE_RATE_WINDOW_SECONDS" envDefault:"60"`
	IssueRateMax           int    `env:"ISSUE_RATE_MAX" envDefault:"10"`
	RedisAddr              string `env:"REDIS_ADDR"`
	RedisPassword          string `env:"REDIS_PASSWORD"`
	RedisDB                int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
