package pkgconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
goroutine:
  max: 100
modules:
  country:
    enabled: true
    store:
      driver: memory
    report:
      backoff: 200ms
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestViperReadsYAML(t *testing.T) {
	cfg, err := NewViper(writeConfig(t, "config.yaml", sample))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, cfg.Close()) })

	assert.EqualValues(t, 100, cfg.GetInt("goroutine.max"))
	assert.True(t, cfg.GetBool("modules.country.enabled"))
	assert.Equal(t, "memory", cfg.GetString("modules.country.store.driver"))
	assert.Equal(t, 200*time.Millisecond, cfg.GetDuration("modules.country.report.backoff"))
	assert.Empty(t, cfg.GetString("modules.country.missing"))
	assert.Zero(t, cfg.GetDuration("modules.country.missing"))
}

func TestViperEnvOverride(t *testing.T) {
	t.Setenv("MODULES_COUNTRY_STORE_DRIVER", "postgres")
	t.Setenv("GOROUTINE_MAX", "7")

	cfg, err := NewViper(writeConfig(t, "config.yaml", sample))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.GetString("modules.country.store.driver"))
	assert.EqualValues(t, 7, cfg.GetInt("goroutine.max"))
}

func TestViperMissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.ErrorContains(t, err, "read config")
}
