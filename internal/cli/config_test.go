package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rowlist"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rowlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, used, err := LoadConfig("", nil)
	require.NoError(t, err)
	require.Empty(t, used)

	require.Equal(t, "contacts.yaml", cfg.Contacts)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "Contacts to display", cfg.FilterTitle)
	require.Equal(t, rowlist.DefaultConfig(), cfg.List)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
contacts: /data/people.yaml
log_level: debug
list:
  locale: ru
  loader:
    timeout: 5s
    concurrency: 2
  kv:
    bucket: people
`)

	cfg, used, err := LoadConfig(path, nil)
	require.NoError(t, err)
	require.Equal(t, path, used)

	require.Equal(t, "/data/people.yaml", cfg.Contacts)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat, "unset keys keep their defaults")
	require.Equal(t, "ru", cfg.List.Locale)
	require.Equal(t, 5*time.Second, cfg.List.Loader.Timeout)
	require.Equal(t, 2, cfg.List.Loader.Concurrency)
	require.Equal(t, "people", cfg.List.KV.Bucket)
	require.Equal(t, 3, cfg.List.KV.CreateRetries)
	require.Equal(t, rowlist.DefaultConfig().Partitions, cfg.List.Partitions)
}

func TestLoadConfig_PartitionsReplaceDefaults(t *testing.T) {
	path := writeConfig(t, `
list:
  indexedPartition: contacts
  partitions:
    - name: starred
      title: Starred
      hasHeader: true
    - name: contacts
      title: All contacts
      hasHeader: true
`)

	cfg, _, err := LoadConfig(path, nil)
	require.NoError(t, err)
	require.Equal(t, []rowlist.PartitionConfig{
		{Name: "starred", Title: "Starred", HasHeader: true},
		{Name: "contacts", Title: "All contacts", HasHeader: true},
	}, cfg.List.Partitions)
}

func TestLoadConfig_Env(t *testing.T) {
	path := writeConfig(t, "log_level: debug\nlist:\n  locale: ru\n")
	t.Setenv("ROWLIST_LOG_LEVEL", "error")
	t.Setenv("ROWLIST_LIST__LOCALE", "ja")

	cfg, _, err := LoadConfig(path, nil)
	require.NoError(t, err)
	require.Equal(t, "error", cfg.LogLevel)
	require.Equal(t, "ja", cfg.List.Locale)
}

func TestLoadConfig_Flags(t *testing.T) {
	path := writeConfig(t, "log_level: debug\nlist:\n  locale: ru\n")
	t.Setenv("ROWLIST_LOG_FORMAT", "json")

	flags := NewRootCmd().PersistentFlags()
	require.NoError(t, flags.Parse([]string{"--locale", "de", "--log-level", "info", "-f", "/tmp/c.yaml"}))

	cfg, _, err := LoadConfig(path, flags)
	require.NoError(t, err)
	require.Equal(t, "de", cfg.List.Locale)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "/tmp/c.yaml", cfg.Contacts)
	require.Equal(t, "json", cfg.LogFormat, "unchanged flags do not override env")
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, _, err := LoadConfig(writeConfig(t, "list: [\n"), nil)
		require.Error(t, err)
	})

	t.Run("invalid list", func(t *testing.T) {
		path := writeConfig(t, `
list:
  indexedPartition: nowhere
  partitions:
    - name: contacts
`)
		_, _, err := LoadConfig(path, nil)
		require.ErrorIs(t, err, rowlist.ErrInvalidConfig)
	})
}
