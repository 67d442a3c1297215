package googlestt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultLanguageCode, cfg.LanguageCode)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.False(t, cfg.EnableAutomaticPunctuation)
	assert.Empty(t, cfg.ServiceAccountKeyPath)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "googlestt.yaml")
	data := `service_account_key_path: /etc/keys/stt.json
language_code: sv-SE
model: latest_long
enable_automatic_punctuation: true
stream_timeout: 300000000000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/keys/stt.json", cfg.ServiceAccountKeyPath)
	assert.Equal(t, "sv-SE", cfg.LanguageCode)
	assert.Equal(t, "latest_long", cfg.Model)
	assert.True(t, cfg.EnableAutomaticPunctuation)
	assert.Equal(t, 5*time.Minute, cfg.StreamTimeout)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint, "unset keys keep their defaults")
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "googlestt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language_code: ja-JP\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ja-JP", cfg.LanguageCode)
	assert.Equal(t, DefaultModel, cfg.Model)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "googlestt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language_code: [unterminated\n"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, IsErrorStatus(err, ErrorStatusConfig))
}
