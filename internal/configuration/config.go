package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// DefaultMaxUploadBytes is the upload size ceiling applied when
// MAX_UPLOAD_BYTES is not set.
const DefaultMaxUploadBytes int64 = 5 << 20 // 5 MiB

var defaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	NATSURL  string
	LogLevel string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type StorageConfig struct {
	Backend        string // "local" or "remote"
	MaxUploadBytes int64
	AllowedTypes   []string
	ScratchDir     string
	Local          LocalStorageConfig
	Remote         RemoteStorageConfig
}

type LocalStorageConfig struct {
	Root         string
	BaseURL      string
	PublicPrefix string
}

type RemoteStorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Folder        string
	PublicBaseURL string
	UseSSL        bool
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLMins  int
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "portfolio"),
			Password: getEnv("DB_PASSWORD", "portfolio"),
			DBName:   getEnv("DB_NAME", "portfolio"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Storage: StorageConfig{
			Backend:        getEnv("STORAGE_BACKEND", BackendLocal),
			MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
			AllowedTypes:   getEnvList("ALLOWED_MIME_TYPES", defaultAllowedTypes),
			ScratchDir:     getEnv("SCRATCH_DIR", "tmp/staging"),
			Local: LocalStorageConfig{
				Root:         getEnv("LOCAL_STORAGE_ROOT", "uploads"),
				BaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
				PublicPrefix: getEnv("STATIC_PREFIX", "/static"),
			},
			Remote: RemoteStorageConfig{
				Endpoint:      getEnv("REMOTE_STORAGE_ENDPOINT", ""),
				AccessKey:     getEnv("REMOTE_STORAGE_ACCESS_KEY", ""),
				SecretKey:     getEnv("REMOTE_STORAGE_SECRET_KEY", ""),
				Bucket:        getEnv("REMOTE_STORAGE_BUCKET", "portfolio"),
				Folder:        getEnv("REMOTE_STORAGE_FOLDER", "portfolio"),
				PublicBaseURL: getEnv("REMOTE_PUBLIC_BASE_URL", ""),
				UseSSL:        getEnv("REMOTE_STORAGE_USE_SSL", "true") == "true",
			},
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLMins:  getEnvInt("JWT_EXPIRE_MINUTES", 60),
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		NATSURL:  getEnv("NATS_URL", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate fails fast on configuration that would otherwise only surface on
// the first upload request.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.Local.Root == "" {
			return fmt.Errorf("local backend selected but LOCAL_STORAGE_ROOT is empty")
		}
		if c.Storage.Local.BaseURL == "" {
			return fmt.Errorf("local backend selected but PUBLIC_BASE_URL is empty")
		}
	case BackendRemote:
		var missing []string
		if c.Storage.Remote.Endpoint == "" {
			missing = append(missing, "REMOTE_STORAGE_ENDPOINT")
		}
		if c.Storage.Remote.AccessKey == "" {
			missing = append(missing, "REMOTE_STORAGE_ACCESS_KEY")
		}
		if c.Storage.Remote.SecretKey == "" {
			missing = append(missing, "REMOTE_STORAGE_SECRET_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("remote backend selected but credentials are missing: %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (expected %q or %q)", c.Storage.Backend, BackendLocal, BackendRemote)
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Storage.MaxUploadBytes)
	}
	if len(c.Storage.AllowedTypes) == 0 {
		return fmt.Errorf("ALLOWED_MIME_TYPES must not be empty")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
