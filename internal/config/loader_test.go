package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/HSCode-Intelligence/internal/config"
)

const minimalYAML = `
server:
  port: 8181
  mode: test
database:
  host: db.internal
  user: hscode
  password: secret
  db_name: hscode_test
classify:
  match_threshold: 75
  require_maker: false
  product_domain_allowlist:
    - rakuten.co.jp
    - amazon.co.jp
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "hscode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ReadsFileAndAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeTempConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)

	// Defaults fill everything the file omits.
	assert.Equal(t, config.DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, config.DefaultKafkaGroupID, cfg.Kafka.GroupID)
	assert.Equal(t, config.DefaultLogFormat, cfg.Log.Format)

	// Classify knobs pass through untouched.
	assert.Equal(t, 75, cfg.Classify.MatchThreshold)
	require.NotNil(t, cfg.Classify.RequireMaker)
	assert.False(t, *cfg.Classify.RequireMaker)
	assert.Equal(t, []string{"rakuten.co.jp", "amazon.co.jp"}, cfg.Classify.ProductDomainAllowlist)
}

func TestLoad_UnsetClassifyBoolsStayNil(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeTempConfig(t, `
database:
  host: db
  user: u
  db_name: d
`))
	require.NoError(t, err)
	assert.Nil(t, cfg.Classify.RequireMaker)
	assert.Nil(t, cfg.Classify.RequireNegativeForReview)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	t.Parallel()

	_, err := config.Load(writeTempConfig(t, `
server:
  mode: staging
database:
  host: db
  user: u
  db_name: d
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnv_EnvOverrides(t *testing.T) {
	t.Setenv("HSCODE_DATABASE_HOST", "env-db")
	t.Setenv("HSCODE_DATABASE_USER", "env-user")
	t.Setenv("HSCODE_DATABASE_DB_NAME", "env-name")
	t.Setenv("HSCODE_SERVER_PORT", "9090")

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-db", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		config.MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}

//Personal.AI order the ending
