package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600)
	require.NoError(t, err)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OMNITRON_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 8888, cfg.Port)
	assert.Equal(t, "default", cfg.Source("port"))
	assert.Equal(t, "0.0.0.0:8888", cfg.ListenAddr())
}

func TestLoadFromFile(t *testing.T) {
	dir := writeConfigFile(t, "port: 9000\nbind_address: 127.0.0.1\nticket_ttl: 3600\n")
	t.Setenv("OMNITRON_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.BindAddress)
	assert.Equal(t, "file", cfg.Source("port"))
	assert.Equal(t, "file", cfg.Source("ticket_ttl"))
	assert.Equal(t, "default", cfg.Source("upstream_timeout"))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := writeConfigFile(t, "port: 9000\n")
	t.Setenv("OMNITRON_CONFIG_PATH", dir)
	t.Setenv("OMNITRON_PORT", "9001")
	t.Setenv("OMNITRON_ADMIN_TOKEN", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "environment", cfg.Source("port"))
	assert.Equal(t, "s3cret", cfg.AdminToken)

	// The admin token value never appears in attribute listings
	for _, attr := range cfg.Attributes() {
		assert.NotEqual(t, "s3cret", attr.Value)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := writeConfigFile(t, "port: [not a number\n")
	t.Setenv("OMNITRON_CONFIG_PATH", dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	cfg.AdminToken = "s3cret"
	assert.NoError(t, cfg.Validate())

	// The admin API never runs open: a server without a token must not
	// pass validation
	cfg.AdminToken = ""
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.AdminToken = "s3cret"
	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.AdminToken = "s3cret"
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	assert.NoError(t, cfg.Validate())

	cfg.TrustedProxies = []string{"not-a-cidr"}
	assert.Error(t, cfg.Validate())
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.1"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.1"))
	assert.False(t, cfg.IsTrustedProxy("172.16.0.1"))
	assert.False(t, cfg.IsTrustedProxy("not-an-ip"))
}
