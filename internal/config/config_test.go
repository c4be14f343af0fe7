package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	content := `
env: dev
admin_token: bootstrap
http_server:
  address: 0.0.0.0:8085
  timeout: 5s
db:
  addr: db.local
  port: "5433"
  user: digesto
  password: secret
  db: registry
cache:
  addr: cache.local:6379
  session_ttl: 12h
  document_ttl: 5m
file_storage:
  path: /var/lib/digesto
`

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var cfg Config
	require.NoError(t, cleanenv.ReadConfig(path, &cfg))

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "bootstrap", cfg.AdminToken)
	assert.Equal(t, "0.0.0.0:8085", cfg.HTTPServer.Address)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, "registry", cfg.DB.DB)
	assert.Equal(t, 12*time.Hour, cfg.Cache.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DocumentTTL)
	assert.Equal(t, "/var/lib/digesto", cfg.FileStorage.Path)
}
