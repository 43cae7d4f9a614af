package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	JWT       JWTConfig
	OTP       OTPConfig
	Mail      MailConfig
	Report    ReportConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string // json or console
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string
}

type DatabaseConfig struct {
	URL      string // takes precedence over the discrete fields
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

// DSN returns the connection string for pgx.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type StorageConfig struct {
	Driver string
}

type JWTConfig struct {
	SecretKey  string
	Issuer     string
	SessionTTL time.Duration
	ResetTTL   time.Duration
}

type OTPConfig struct {
	TTL    time.Duration
	Length int
}

type MailConfig struct {
	Host          string // empty disables SMTP delivery
	Port          int
	Username      string
	Password      string
	From          string
	TestRecipient string
}

type ReportConfig struct {
	Location *time.Location
}

type RateLimitConfig struct {
	AuthPerMinute int
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work for containers
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	driver := getEnv("STORAGE_DRIVER", StorageDriverPostgres)
	if driver != StorageDriverPostgres && driver != StorageDriverMemory {
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}

	mailUser := getEnv("EMAIL_USER", "")

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
			StaticDir:    getEnv("STATIC_DIR", ""),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fintrack"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		},
		Storage: StorageConfig{
			Driver: driver,
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "change-me-in-production"),
			Issuer:     getEnv("JWT_ISSUER", "fintrack"),
			SessionTTL: time.Duration(getEnvInt("JWT_SESSION_TTL_MINUTES", 60)) * time.Minute,
			ResetTTL:   time.Duration(getEnvInt("JWT_RESET_TTL_MINUTES", 10)) * time.Minute,
		},
		OTP: OTPConfig{
			TTL:    time.Duration(getEnvInt("OTP_TTL_MINUTES", 10)) * time.Minute,
			Length: getEnvInt("OTP_LENGTH", 6),
		},
		Mail: MailConfig{
			Host:          getEnv("SMTP_HOST", ""),
			Port:          getEnvInt("SMTP_PORT", 587),
			Username:      mailUser,
			Password:      getEnv("EMAIL_PASS", ""),
			From:          getEnv("MAIL_FROM", mailUser),
			TestRecipient: getEnv("MAIL_TEST_RECIPIENT", mailUser),
		},
		Report: ReportConfig{
			Location: loc,
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 10),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns defaultValue for unset, non-numeric or non-positive values.
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
