package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLocalConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        BackendLocal,
			MaxUploadBytes: DefaultMaxUploadBytes,
			AllowedTypes:   []string{"image/png"},
			Local: LocalStorageConfig{
				Root:    "uploads",
				BaseURL: "http://localhost:8080",
			},
		},
		Auth: AuthConfig{JWTSecret: "secret"},
	}
}

func TestValidateLocalBackend(t *testing.T) {
	assert.NoError(t, validLocalConfig().Validate())
}

func TestValidateRemoteBackendMissingCredentialsFailsFast(t *testing.T) {
	cfg := validLocalConfig()
	cfg.Storage.Backend = BackendRemote
	cfg.Storage.Remote = RemoteStorageConfig{Endpoint: "minio:9000"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMOTE_STORAGE_ACCESS_KEY")
	assert.Contains(t, err.Error(), "REMOTE_STORAGE_SECRET_KEY")
}

func TestValidateRemoteBackendComplete(t *testing.T) {
	cfg := validLocalConfig()
	cfg.Storage.Backend = BackendRemote
	cfg.Storage.Remote = RemoteStorageConfig{
		Endpoint:  "minio:9000",
		AccessKey: "ak",
		SecretKey: "sk",
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := validLocalConfig()
	cfg.Storage.Backend = "s3-ish"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingJWTSecret(t *testing.T) {
	cfg := validLocalConfig()
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveMaxUpload(t *testing.T) {
	cfg := validLocalConfig()
	cfg.Storage.MaxUploadBytes = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "remote")
	t.Setenv("MAX_UPLOAD_BYTES", "10485760")
	t.Setenv("ALLOWED_MIME_TYPES", "image/png, image/jpeg")
	t.Setenv("REMOTE_STORAGE_ENDPOINT", "minio:9000")

	cfg := Load()
	assert.Equal(t, BackendRemote, cfg.Storage.Backend)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, []string{"image/png", "image/jpeg"}, cfg.Storage.AllowedTypes)
	assert.Equal(t, "minio:9000", cfg.Storage.Remote.Endpoint)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, DefaultMaxUploadBytes, cfg.Storage.MaxUploadBytes)
	assert.NotEmpty(t, cfg.Storage.AllowedTypes)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
}
