package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// setRequiredEnv sets the minimum environment for a REST backend
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MAPALENGKE_BACKEND_URL", "https://project.supabase.co")
	t.Setenv("MAPALENGKE_BACKEND_ANON_KEY", "test-anon-key")
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when only required env vars set", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.MarketName != "Toril Public Market" {
			t.Errorf("Server.MarketName = %s, want Toril Public Market", cfg.Server.MarketName)
		}
		if cfg.Backend.Type != BackendREST {
			t.Errorf("Backend.Type = %s, want rest", cfg.Backend.Type)
		}
		if cfg.Backend.RequestsPerSecond != 10 || cfg.Backend.Burst != 20 {
			t.Errorf("Backend rate = %v/%d, want 10/20", cfg.Backend.RequestsPerSecond, cfg.Backend.Burst)
		}
		if cfg.Backend.Timeout != 15*time.Second {
			t.Errorf("Backend.Timeout = %v, want 15s", cfg.Backend.Timeout)
		}
		if cfg.Backend.MaxRetries != 3 {
			t.Errorf("Backend.MaxRetries = %d, want 3", cfg.Backend.MaxRetries)
		}
		if cfg.Cache.TTL != 5*time.Minute {
			t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "info" || cfg.Log.Encoding != "json" {
			t.Errorf("Log = %+v, want info/json", cfg.Log)
		}
		if cfg.IsProduction() {
			t.Errorf("IsProduction() = true, want false")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("MAPALENGKE_SERVER_PORT", "9090")
		t.Setenv("MAPALENGKE_SERVER_ENVIRONMENT", "production")
		t.Setenv("MAPALENGKE_SERVER_ALLOWED_ORIGINS", "https://mapalengke.ph,https://*.mapalengke.ph")
		t.Setenv("MAPALENGKE_SERVER_MARKET_NAME", "Bankerohan Public Market")
		t.Setenv("MAPALENGKE_BACKEND_TIMEOUT", "30s")
		t.Setenv("MAPALENGKE_BACKEND_MAX_RETRIES", "5")
		t.Setenv("MAPALENGKE_CACHE_TTL", "1h")
		t.Setenv("MAPALENGKE_RATELIMIT_PER_IP", "200")
		t.Setenv("MAPALENGKE_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if !cfg.IsProduction() {
			t.Errorf("IsProduction() = false, want true")
		}
		if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://*.mapalengke.ph" {
			t.Errorf("Server.AllowedOrigins = %v, want two origins", cfg.Server.AllowedOrigins)
		}
		if cfg.Server.MarketName != "Bankerohan Public Market" {
			t.Errorf("Server.MarketName = %s", cfg.Server.MarketName)
		}
		if cfg.Backend.URL != "https://project.supabase.co" {
			t.Errorf("Backend.URL = %s", cfg.Backend.URL)
		}
		if cfg.Backend.Timeout != 30*time.Second {
			t.Errorf("Backend.Timeout = %v, want 30s", cfg.Backend.Timeout)
		}
		if cfg.Backend.MaxRetries != 5 {
			t.Errorf("Backend.MaxRetries = %d, want 5", cfg.Backend.MaxRetries)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("postgres backend only needs a database URL", func(t *testing.T) {
		t.Setenv("MAPALENGKE_BACKEND_TYPE", "postgres")
		t.Setenv("MAPALENGKE_BACKEND_DATABASE_URL", "postgres://localhost/mapalengke?sslmode=disable")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Backend.DatabaseURL != "postgres://localhost/mapalengke?sslmode=disable" {
			t.Errorf("Backend.DatabaseURL = %s", cfg.Backend.DatabaseURL)
		}
	})

	t.Run("fails validation when backend URL is missing", func(t *testing.T) {
		t.Setenv("MAPALENGKE_BACKEND_ANON_KEY", "test-anon-key")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing backend URL")
		}
		if err.Error() != "invalid configuration: backend URL is required (set MAPALENGKE_BACKEND_URL)" {
			t.Errorf("Load() error = %v, want 'backend URL is required'", err)
		}
	})

	t.Run("fails validation for invalid backend type", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("MAPALENGKE_BACKEND_TYPE", "firebase")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid backend type")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	// chdir runs the subtest in a fresh directory
	chdir := func(t *testing.T) {
		t.Helper()
		originalDir, err := os.Getwd()
		if err != nil {
			t.Fatalf("Getwd() error = %v", err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("Chdir() error = %v", err)
		}
		t.Cleanup(func() { _ = os.Chdir(originalDir) })
	}

	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		chdir(t)

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		chdir(t)

		envContent := `
# Comment line
TEST_VAR_1=value1

TEST_VAR_2=value2
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Cleanup(func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
		})

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		chdir(t)
		t.Setenv("TEST_OVERRIDE", "existing-value")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})

	t.Run("feeds Load", func(t *testing.T) {
		chdir(t)

		envContent := "MAPALENGKE_BACKEND_URL=https://from-dotenv.supabase.co\nMAPALENGKE_BACKEND_ANON_KEY=dotenv-key\n"
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Cleanup(func() {
			os.Unsetenv("MAPALENGKE_BACKEND_URL")
			os.Unsetenv("MAPALENGKE_BACKEND_ANON_KEY")
		})

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if !strings.Contains(cfg.Backend.URL, "from-dotenv") {
			t.Errorf("Backend.URL = %s, want value from .env", cfg.Backend.URL)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Backend: BackendConfig{
				Type:              BackendREST,
				URL:               "https://project.supabase.co",
				AnonKey:           "test-anon-key",
				RequestsPerSecond: 10,
				Burst:             20,
			},
			RateLimit: RateLimitConfig{PerIP: 100},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid rest config", mutate: func(c *Config) {}},
		{name: "missing anon key", mutate: func(c *Config) { c.Backend.AnonKey = "" }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.Backend.Burst = 0 }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend.Type = "sqlite" }, wantErr: true},
		{name: "postgres without URL", mutate: func(c *Config) { c.Backend.Type = BackendPostgres }, wantErr: true},
		{
			name: "postgres with URL",
			mutate: func(c *Config) {
				c.Backend = BackendConfig{Type: BackendPostgres, DatabaseURL: "postgres://localhost/db"}
			},
		},
		{name: "zero per-IP limit", mutate: func(c *Config) { c.RateLimit.PerIP = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
