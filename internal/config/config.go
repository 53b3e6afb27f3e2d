package config

import (
	"flag"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Attachment settings
	ImageMaxSizeMB  int `env:"IMAGE_MAX_MB"`
	BlobChunkSizeKB int `env:"BLOB_CHUNK_KB"`

	// Email settings
	PublicHost   string `env:"PUBLIC_HOST"` // хост для ссылок подтверждения в письмах
	SMTPAddr     string `env:"SMTP_ADDR"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM"`

	ServerURL string `env:"-"`
	PublicURL string `env:"-"` // база ссылок в письмах: схема + PublicHost
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the BlogKeeper server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS scheme for ServerURL")
	flag.IntVar(&cfg.ImageMaxSizeMB, "image-max-mb", cfg.ImageMaxSizeMB, "максимальный размер картинки поста, MB")
	flag.IntVar(&cfg.BlobChunkSizeKB, "blob-chunk-kb", cfg.BlobChunkSizeKB, "размер куска блоба в хранилище, KB")
	flag.StringVar(&cfg.PublicHost, "public-host", cfg.PublicHost, "публичный хост для ссылок в письмах")
	flag.StringVar(&cfg.SMTPAddr, "smtp-addr", cfg.SMTPAddr, "адрес SMTP-сервера (host:port)")
	flag.StringVar(&cfg.EmailFrom, "email-from", cfg.EmailFrom, "адрес отправителя писем")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.ImageMaxSizeMB <= 0 {
		cfg.ImageMaxSizeMB = 5
	}
	if cfg.BlobChunkSizeKB <= 0 {
		cfg.BlobChunkSizeKB = 255
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.PublicHost == "" {
		cfg.PublicHost = cfg.BaseURL
	}
	if cfg.EnableHTTPS {
		cfg.PublicURL = "https://" + cfg.PublicHost
	} else {
		cfg.PublicURL = "http://" + cfg.PublicHost
	}

	return cfg
}
