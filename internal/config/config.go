package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB        DBConfig
	MinIO     MinIOConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Server    ServerConfig
	Upload    UploadConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Admin     AdminConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MinIOConfig struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	Timeout        time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration
}

type CookieConfig struct {
	// EncryptionKey is a base64 32-byte key for fiber's encryptcookie.
	EncryptionKey string
	Secure        bool
}

type ServerConfig struct {
	Port        string
	FrontendURL string
	BodyLimitMB int
}

type UploadConfig struct {
	TempDir     string
	MaxImageMB  int
	AllowedMIME []string
}

type LogConfig struct {
	Level  string
	Format string
}

type RateLimitConfig struct {
	AuthPerMinute int
}

type AuthConfig struct {
	AllowRoleSignup bool
}

type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "volunteerhub"),
			Password: getEnv("DB_PASSWORD", "volunteerhub_secret"),
			Name:     getEnv("DB_NAME", "volunteerhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MinIO: MinIOConfig{
			Endpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
			PublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
			AccessKey:      getEnv("MINIO_ACCESS_KEY", "volunteerhub"),
			SecretKey:      getEnv("MINIO_SECRET_KEY", "volunteerhub_secret"),
			Bucket:         getEnv("MINIO_BUCKET", "event-media"),
			Region:         getEnv("MINIO_REGION", ""),
			UseSSL:         getEnvAsBool("MINIO_USE_SSL", false),
			Timeout:        getEnvAsDuration("MINIO_TIMEOUT", 30*time.Second),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("ACCESS_TOKEN_SECRET", "change-me-access"),
			AccessExpiry:  getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshSecret: getEnv("REFRESH_TOKEN_SECRET", "change-me-refresh"),
			RefreshExpiry: getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 240*time.Hour),
		},
		Cookie: CookieConfig{
			EncryptionKey: getEnv("COOKIE_ENCRYPTION_KEY", ""),
			Secure:        getEnvAsBool("COOKIE_SECURE", true),
		},
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8000"),
			FrontendURL: getEnv("CORS_ORIGIN", "http://localhost:5173"),
			BodyLimitMB: getEnvAsInt("SERVER_BODY_LIMIT_MB", 30),
		},
		Upload: UploadConfig{
			TempDir:     getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
			MaxImageMB:  getEnvAsInt("UPLOAD_MAX_IMAGE_MB", 5),
			AllowedMIME: getEnvAsList("UPLOAD_ALLOWED_MIME", []string{"image/jpeg", "image/png", "image/webp", "image/gif"}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getEnvAsInt("RATE_LIMIT_AUTH_PER_MINUTE", 10),
		},
		Auth: AuthConfig{
			AllowRoleSignup: getEnvAsBool("AUTH_ALLOW_ROLE_SIGNUP", false),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			FullName: getEnv("ADMIN_FULL_NAME", "Event Admin"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
