package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 10*time.Second, cfg.Store.FetchTimeout)
	assert.Equal(t, 5, cfg.View.LatestRuns)
	assert.Equal(t, "etherscan.io", cfg.View.ExplorerHost)
	assert.Equal(t, "info", cfg.Log.Level)

	loc, err := cfg.View.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: 127.0.0.1:9000
store:
  backend: sqlite
  sqlite_path: /tmp/x.db
  fetch_timeout: 3s
view:
  latest_runs: 10
  explorer_host: ropsten.etherscan.io
  timezone: UTC
log:
  format: console
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, 3*time.Second, cfg.Store.FetchTimeout)
	assert.Equal(t, 10, cfg.View.LatestRuns)
	assert.Equal(t, "ropsten.etherscan.io", cfg.View.ExplorerHost)
	assert.Equal(t, "console", cfg.Log.Format)

	loc, err := cfg.View.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("JOBDASH_VIEW_LATEST_RUNS", "3")
	t.Setenv("JOBDASH_SERVER_ADDR", ":9999")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.View.LatestRuns)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	bad := *cfg
	bad.Store.Backend = "postgres"
	bad.View.LatestRuns = 0
	bad.View.Timezone = "Mars/Olympus"
	bad.Log.Format = "xml"

	err = bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"store.backend", "view.latest_runs", "view.timezone", "log.format"} {
		assert.ErrorContains(t, err, want)
	}
}
