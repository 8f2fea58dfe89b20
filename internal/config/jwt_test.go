package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name          string
		secret        string
		expiration    int
		expectedHours int
		wantErr       string
	}{
		{"default expiration", "test-secret-key-0123", 0, 24, ""},
		{"custom expiration", "test-secret-key-0123", 48, 48, ""},
		{"one hour", "test-secret-key-0123", 1, 1, ""},
		{"empty secret", "", 24, 0, "jwt_secret cannot be empty"},
		{"short secret", "short", 24, 0, "at least 16 characters"},
		{"negative expiration", "test-secret-key-0123", -1, 0, "at least 1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(tt.secret, tt.expiration)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
			assert.Equal(t, time.Duration(tt.expectedHours)*time.Hour, cfg.TTL())
		})
	}
}

func TestConfig_JWT(t *testing.T) {
	cfg := Default()
	cfg.JWTSecret = "config-secret-0123456"
	cfg.JWTExpirationHours = 12

	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "config-secret-0123456", jwtCfg.Secret)
	assert.Equal(t, 12, jwtCfg.ExpirationHours)

	cfg.JWTSecret = ""
	_, err = cfg.JWT()
	assert.Error(t, err)
}
