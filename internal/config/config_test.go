package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if val, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, val) })
	}
	os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	t.Run("returns config with defaults when no env vars set", func(t *testing.T) {
		for _, key := range []string{"DB_HOST", "DB_PORT", "SERVER_PORT", "ACCESS_TOKEN_EXPIRY", "REFRESH_TOKEN_EXPIRY", "COOKIE_SECURE", "UPLOAD_ALLOWED_MIME", "AUTH_ALLOW_ROLE_SIGNUP"} {
			unsetEnv(t, key)
		}

		cfg := Load()
		if cfg == nil {
			t.Fatal("expected non-nil config")
		}
		if cfg.DB.Host != "localhost" {
			t.Errorf("expected DB.Host 'localhost', got %s", cfg.DB.Host)
		}
		if cfg.DB.Port != "5432" {
			t.Errorf("expected DB.Port '5432', got %s", cfg.DB.Port)
		}
		if cfg.Server.Port != "8000" {
			t.Errorf("expected Server.Port '8000', got %s", cfg.Server.Port)
		}
		if cfg.JWT.AccessExpiry != 15*time.Minute {
			t.Errorf("expected JWT.AccessExpiry 15m, got %v", cfg.JWT.AccessExpiry)
		}
		if cfg.JWT.RefreshExpiry != 240*time.Hour {
			t.Errorf("expected JWT.RefreshExpiry 240h, got %v", cfg.JWT.RefreshExpiry)
		}
		if !cfg.Cookie.Secure {
			t.Error("expected secure cookies by default")
		}
		if cfg.Auth.AllowRoleSignup {
			t.Error("expected role signup to be disabled by default")
		}
		if len(cfg.Upload.AllowedMIME) != 4 {
			t.Errorf("expected 4 default mime types, got %v", cfg.Upload.AllowedMIME)
		}
	})

	t.Run("reads environment variables", func(t *testing.T) {
		t.Setenv("DB_HOST", "custom-host")
		t.Setenv("DB_SSLMODE", "require")
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("ACCESS_TOKEN_SECRET", "access")
		t.Setenv("ACCESS_TOKEN_EXPIRY", "5m")
		t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
		t.Setenv("REFRESH_TOKEN_EXPIRY", "72h")
		t.Setenv("COOKIE_SECURE", "false")
		t.Setenv("MINIO_BUCKET", "media")
		t.Setenv("MINIO_TIMEOUT", "3s")
		t.Setenv("AUTH_ALLOW_ROLE_SIGNUP", "true")
		t.Setenv("UPLOAD_ALLOWED_MIME", "image/png, image/jpeg ,")

		cfg := Load()

		if cfg.DB.Host != "custom-host" {
			t.Errorf("expected DB.Host 'custom-host', got %s", cfg.DB.Host)
		}
		if cfg.DB.SSLMode != "require" {
			t.Errorf("expected DB.SSLMode 'require', got %s", cfg.DB.SSLMode)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("expected Server.Port '9090', got %s", cfg.Server.Port)
		}
		if cfg.JWT.AccessSecret != "access" || cfg.JWT.RefreshSecret != "refresh" {
			t.Errorf("unexpected secrets %q / %q", cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
		}
		if cfg.JWT.AccessExpiry != 5*time.Minute {
			t.Errorf("expected access expiry 5m, got %v", cfg.JWT.AccessExpiry)
		}
		if cfg.JWT.RefreshExpiry != 72*time.Hour {
			t.Errorf("expected refresh expiry 72h, got %v", cfg.JWT.RefreshExpiry)
		}
		if cfg.Cookie.Secure {
			t.Error("expected insecure cookies when COOKIE_SECURE=false")
		}
		if cfg.MinIO.Bucket != "media" || cfg.MinIO.Timeout != 3*time.Second {
			t.Errorf("unexpected minio config %+v", cfg.MinIO)
		}
		if !cfg.Auth.AllowRoleSignup {
			t.Error("expected role signup to be enabled")
		}
		if !reflect.DeepEqual(cfg.Upload.AllowedMIME, []string{"image/png", "image/jpeg"}) {
			t.Errorf("unexpected mime list %v", cfg.Upload.AllowedMIME)
		}
	})

	t.Run("falls back on unparsable values", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_EXPIRY", "soon")
		t.Setenv("RATE_LIMIT_AUTH_PER_MINUTE", "many")
		t.Setenv("COOKIE_SECURE", "maybe")

		cfg := Load()

		if cfg.JWT.AccessExpiry != 15*time.Minute {
			t.Errorf("expected fallback access expiry, got %v", cfg.JWT.AccessExpiry)
		}
		if cfg.RateLimit.AuthPerMinute != 10 {
			t.Errorf("expected fallback rate limit 10, got %d", cfg.RateLimit.AuthPerMinute)
		}
		if !cfg.Cookie.Secure {
			t.Error("expected fallback secure cookies")
		}
	})

	t.Run("applies values from a .env file", func(t *testing.T) {
		unsetEnv(t, "DB_NAME")
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_NAME=from-dotenv\n"), 0o600); err != nil {
			t.Fatalf("failed writing .env: %v", err)
		}
		wd, _ := os.Getwd()
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("failed changing dir: %v", err)
		}
		t.Cleanup(func() {
			_ = os.Chdir(wd)
			os.Unsetenv("DB_NAME")
		})

		cfg := Load()
		if cfg.DB.Name != "from-dotenv" {
			t.Errorf("expected DB.Name from .env, got %s", cfg.DB.Name)
		}
	})
}
