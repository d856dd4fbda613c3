package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "LOCAL")
	t.Setenv("LOCAL_STORE_DIR", "/tmp/etracking")
	t.Setenv("JWT_EXPIRY_DURATION", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("PERSIST_TIMEOUT", "not-a-duration")
	t.Setenv("KERUING_WAREHOUSE_NAME", "Keruing Main")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverLocal, cfg.StorageDriver)
	assert.Equal(t, "/tmp/etracking", cfg.LocalStoreDir)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.PersistTimeout)
	assert.Equal(t, "Keruing Main", cfg.KeruingWarehouseName)
}

func TestLoadConfig_UnknownStorageDriverFallsBack(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
}
