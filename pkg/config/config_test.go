package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryDriverDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CACHE_TTL", "45s")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 45*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}

func TestLoadRejectsFirestoreWithoutProject(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "firestore")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "your-secret-key")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}
