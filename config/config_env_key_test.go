package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"media": map[string]any{
			"bucketURL":     "mem://",
			"publicBaseURL": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"auth": map[string]any{
			"allowAdminSignup": false,
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "MEDIA_BUCKETURL", want: "media.bucketURL"},
		{envKey: "MEDIA_PUBLICBASEURL", want: "media.publicBaseURL"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "AUTH_ALLOWADMINSIGNUP", want: "auth.allowAdminSignup"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestLoadWithEnv_SampleConfig(t *testing.T) {
	t.Setenv("SECRETKEY_ACCESS", "from-env")
	t.Setenv("STORAGE_DRIVER", "mongo")

	cfg, err := LoadWithEnv[Config]("config", ".")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SecretKey.Access)
	assert.Equal(t, StorageDriverMongo, cfg.Storage.Driver)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
	require.NotNil(t, cfg.Media)
	assert.Equal(t, int64(5*1024*1024), cfg.Media.MaxUploadSize)
	assert.False(t, cfg.IsProduction())
}
