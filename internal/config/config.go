package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Telemetry TelemetryConfig
	Fetch     FetchConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	FrontendURL string // dipakai untuk URL verifikasi di QR sertifikat
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret          string
	ExpireHours     int
	RefreshExpHours int
}

type MinIOConfig struct {
	Endpoint string
	User     string
	Password string
	Bucket   string
	UseSSL   bool
}

// RedisConfig opsional: Addr kosong berarti cache leaderboard dimatikan
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	TTL      time.Duration
}

// SMTPConfig opsional: tanpa kredensial, pengiriman email hanya dicatat di log
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.User != "" && c.Password != ""
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

type FetchConfig struct {
	ImageTimeout time.Duration
	MaxImageSize int64
}

func Load() *Config {
	// Load .env jika ada (development), di production pakai env variable langsung
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "24"))
	jwtRefreshExpire, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRE_HOURS", "168"))
	minioSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisTTL, _ := time.ParseDuration(getEnv("REDIS_LEADERBOARD_TTL", "30s"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	fetchTimeout, _ := time.ParseDuration(getEnv("IMAGE_FETCH_TIMEOUT", "5s"))
	maxImage, _ := strconv.ParseInt(getEnv("IMAGE_FETCH_MAX_BYTES", "8388608"), 10, 64)

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			FrontendURL: getEnv("FRONTEND_URL", "https://museus.app"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "museum_user"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "museum_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-this-secret"),
			ExpireHours:     jwtExpire,
			RefreshExpHours: jwtRefreshExpire,
		},
		MinIO: MinIOConfig{
			Endpoint: getEnv("MINIO_ENDPOINT", "localhost:9000"),
			User:     getEnv("MINIO_USER", "minioadmin"),
			Password: getEnv("MINIO_PASSWORD", "minioadmin123"),
			Bucket:   getEnv("MINIO_BUCKET", "museum-assets"),
			UseSSL:   minioSSL,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Username: getEnv("REDIS_USER", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      redisTTL,
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     smtpPort,
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", "Museus <no-reply@museus.app>"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "museum-engagement-ledger"),
		},
		Fetch: FetchConfig{
			ImageTimeout: fetchTimeout,
			MaxImageSize: maxImage,
		},
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
