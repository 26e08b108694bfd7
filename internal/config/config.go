package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	// Timezone, AppName and StatementTimeout are session settings applied to
	// every pooled connection. Empty or zero leaves the server default.
	Timezone           string
	AppName            string
	StatementTimeout   time.Duration
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	Migrate            bool
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects the blob store backing uploaded documents.
type StorageConfig struct {
	// Driver is "local" (directory tree under UploadDir) or "minio".
	Driver    string
	UploadDir string
	MinIO     MinIOConfig
}

// AuthConfig holds session token settings. An empty Secret disables token
// issuance and validation entirely.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env         string
	Port        string
	LogLevel    string
	Timezone    string
	CORSOrigins string
	Auth        AuthConfig
	Database    DatabaseConfig
	Storage     StorageConfig
}

// IsLocal reports whether the deployment mode allows debug detail in responses.
func (c *AppConfig) IsLocal() bool {
	return strings.EqualFold(c.Env, "local")
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	tz := getEnv("APP_TIMEZONE", "UTC")
	return &AppConfig{
		Env:         getEnv("APP_ENV", "production"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    tz,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:4200"),
		Auth: AuthConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    time.Duration(getEnvInt("JWT_TTL_SEC", 3600)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			Timezone:           getEnv("DB_TIMEZONE", tz),
			AppName:            getEnv("DB_APP_NAME", "hrdocs"),
			StatementTimeout:   time.Duration(getEnvInt("DB_STATEMENT_TIMEOUT_MS", 30000)) * time.Millisecond,
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			Migrate:            getEnvBool("DB_MIGRATE", true),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
