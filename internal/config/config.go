package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Поддерживаемые драйверы хранилища контента.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port        string
	StoreDriver string // postgres|memory

	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	RedisURL string

	MeiliURL       string
	MeiliMasterKey string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	JWTSecret         string
	AccessTokenTTL    string
	AdminUsername     string
	AdminPasswordHash string

	AutosaveInterval string

	Log      string
	LogLevel string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	AdminEmail   string

	SiteURL     string
	CORSOrigins []string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:        def(os.Getenv("PORT"), "8080"),
		StoreDriver: strings.ToLower(def(os.Getenv("STORE_DRIVER"), StoreDriverPostgres)),

		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliURL:       os.Getenv("MEILI_URL"),
		MeiliMasterKey: os.Getenv("MEILI_MASTER_KEY"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    def(os.Getenv("MINIO_BUCKET"), "portfolio"),
		MinioUseSSL:    strings.EqualFold(os.Getenv("MINIO_USE_SSL"), "true"),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenTTL:    def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "12h"),
		AdminUsername:     def(os.Getenv("ADMIN_USERNAME"), "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		AutosaveInterval: def(os.Getenv("AUTOSAVE_INTERVAL"), "2s"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),

		SiteURL:     os.Getenv("SITEURL"),
		CORSOrigins: splitCSV(def(os.Getenv("CORS_ORIGINS"), "*")),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
			return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
		}
	case StoreDriverMemory:
		warnings = append(warnings, "STORE_DRIVER=memory: content is not persisted")
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if _, perr := time.ParseDuration(c.AutosaveInterval); perr != nil {
		return nil, fmt.Errorf("bad AUTOSAVE_INTERVAL: %w", perr)
	}
	if _, perr := time.ParseDuration(c.AccessTokenTTL); perr != nil {
		return nil, fmt.Errorf("bad ACCESS_TOKEN_EXPIRY: %w", perr)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty")
	}
	if c.AdminPasswordHash == "" {
		warnings = append(warnings, "ADMIN_PASSWORD_HASH is empty, admin login is disabled")
	}
	if c.RedisURL == "" {
		warnings = append(warnings, "REDIS_URL is empty, realtime updates stay within this instance")
	}
	if c.MeiliURL == "" {
		warnings = append(warnings, "MEILI_URL is empty, search falls back to the content store")
	}
	if c.MinioEndpoint == "" {
		warnings = append(warnings, "MINIO_ENDPOINT is empty, uploads are disabled")
	}
	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured")
	}

	return warnings, nil
}

// AutosaveDelay — интервал тишины перед автосохранением.
func (c *Config) AutosaveDelay() time.Duration {
	d, err := time.ParseDuration(c.AutosaveInterval)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// AccessTTL — время жизни access-токена администратора.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
