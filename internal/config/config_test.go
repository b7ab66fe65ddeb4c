package config_test

import (
	"testing"
	"time"

	"go-shortview/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, config.EnvDevelopment, cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.True(t, cfg.MainWorker)
	assert.Equal(t, 100, cfg.APIRateLimit)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProduction())
}

func TestParse_FromEnvironment(t *testing.T) {
	t.Setenv("SHORTVIEW_ENV", "production")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://sv:sv@localhost/sv?sslmode=disable")
	t.Setenv("PUBLIC_SCHEME", "https")
	t.Setenv("PUBLIC_DOMAIN", "sv.example")
	t.Setenv("MAIL_FROM", "noreply@sv.example")
	t.Setenv("SMTP_HOST", "smtp.sv.example")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("SHORTVIEW_MAIN_WORKER", "false")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.False(t, cfg.MainWorker)

	site := cfg.Site()
	assert.Equal(t, "https://sv.example", site.BaseURL())
	assert.Equal(t, "noreply@sv.example", site.MailFrom)

	smtp := cfg.SMTP()
	assert.Equal(t, "smtp.sv.example", smtp.Host)
	assert.Equal(t, 2525, smtp.Port)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "driver", env: map[string]string{"DATABASE_DRIVER": "mysql"}, want: "DATABASE_DRIVER"},
		{name: "scheme", env: map[string]string{"PUBLIC_SCHEME": "ftp"}, want: "PUBLIC_SCHEME"},
		{name: "rate limit", env: map[string]string{"API_RATE_LIMIT": "0"}, want: "API_RATE_LIMIT"},
		{name: "sweep interval", env: map[string]string{"SWEEP_INTERVAL": "0s"}, want: "SWEEP_INTERVAL"},
		{name: "production secret", env: map[string]string{"SHORTVIEW_ENV": "production"}, want: "JWT_SECRET"},
		{name: "malformed port", env: map[string]string{"SMTP_PORT": "abc"}, want: "parse env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Parse()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
