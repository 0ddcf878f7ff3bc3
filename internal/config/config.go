package config

import (
	"flag"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	// MasterSecret: корень шифрования секретов; только из окружения
	MasterSecret string `env:"MASTER_SECRET"`

	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	// PublicURL: внешний адрес сервиса для ссылок в письмах
	PublicURL string `env:"PUBLIC_URL"`

	VerificationTTL time.Duration `env:"VERIFICATION_TTL"`

	SMTPAddr     string `env:"SMTP_ADDR"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
}

const (
	defaultBaseURL  = "localhost:8080"
	defaultSMTPFrom = "keyguardian@localhost"
)

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги перекрывают значения из окружения
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres:// или путь к SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "адрес сервера host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "сервис доступен по https (для ссылок в письмах)")
	flag.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "внешний адрес сервиса")
	flag.DurationVar(&cfg.VerificationTTL, "verification-ttl", cfg.VerificationTTL, "срок жизни ссылки подтверждения email")
	flag.StringVar(&cfg.SMTPAddr, "smtp", cfg.SMTPAddr, "SMTP сервер host:port; пусто: ссылки пишутся в лог")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	// BaseURL только в виде host:port, иначе значение по умолчанию
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PublicURL == "" {
		scheme := "http://"
		if cfg.EnableHTTPS {
			scheme = "https://"
		}
		cfg.PublicURL = scheme + cfg.BaseURL
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = defaultSMTPFrom
	}

	return cfg
}
