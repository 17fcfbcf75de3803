package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, values map[string]interface{}) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestDefaultsArePermissive(t *testing.T) {
	cfg, err := fromViper(newViper(t, nil))
	require.NoError(t, err)
	assert.Equal(t, PublishPolicy{}, cfg.Publish)
	assert.False(t, cfg.Notification.NotifyOnRecompletion)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, "@every 1m", cfg.OutboxCron)
}

func TestPolicyFromEnvKeys(t *testing.T) {
	cfg, err := fromViper(newViper(t, map[string]interface{}{
		"PUBLISH_REQUIRE_DESCRIPTION":       true,
		"PUBLISH_REQUIRE_PUBLISHED_CHAPTER": true,
		"NOTIFY_ON_RECOMPLETION":            true,
		"DB_DRIVER":                         "SQLite",
	}))
	require.NoError(t, err)
	assert.Equal(t, PublishPolicy{RequireDescription: true, RequirePublishedChapter: true}, cfg.Publish)
	assert.True(t, cfg.Notification.NotifyOnRecompletion)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publish.yaml")
	require.NoError(t, os.WriteFile(path, []byte("requireImage: true\nrequirePublishedChapter: false\n"), 0o600))

	cfg, err := fromViper(newViper(t, map[string]interface{}{
		"PUBLISH_REQUIRE_DESCRIPTION":       true,
		"PUBLISH_REQUIRE_PUBLISHED_CHAPTER": true,
		"PUBLISH_POLICY_FILE":               path,
	}))
	require.NoError(t, err)
	assert.Equal(t, PublishPolicy{RequireDescription: true, RequireImage: true}, cfg.Publish)
}

func TestPolicyFileErrors(t *testing.T) {
	_, err := LoadPublishPolicyFile(filepath.Join(t.TempDir(), "missing.yaml"), PublishPolicy{})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("requireImage: [oops"), 0o600))
	base := StrictPublishPolicy()
	got, err := LoadPublishPolicyFile(path, base)
	assert.Error(t, err)
	assert.Equal(t, base, got)
}

func TestRejectsUnknownDrivers(t *testing.T) {
	_, err := fromViper(newViper(t, map[string]interface{}{"DB_DRIVER": "oracle"}))
	assert.Error(t, err)

	_, err = fromViper(newViper(t, map[string]interface{}{"STORAGE_DRIVER": "ftp"}))
	assert.Error(t, err)
}
