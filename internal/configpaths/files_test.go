package configpaths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExt(t *testing.T) {
	assert.Equal(t, "yaml", Ext("YML"))
	assert.Equal(t, "toml", Ext(".toml"))
	assert.Equal(t, "json", Ext("json"))
	assert.Empty(t, Ext("ini"))
}

func TestConfigCandidatePaths(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix layout")
	}
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	c := ConfigCandidatePaths("/tmp/custom.yml")

	require.NotEmpty(t, c.YAML)
	assert.Equal(t, "/tmp/custom.yml", c.YAML[0], "user path has priority")
	assert.Contains(t, c.TOML, filepath.Join("/xdg", "hoja", "run.toml"))
	assert.Contains(t, c.JSON, "/etc/hoja/hoja.json")
	assert.Contains(t, c.YAML, "/etc/hoja/config.yml")
	for _, p := range c.TOML {
		assert.Equal(t, ".toml", filepath.Ext(p))
	}
}

func TestDefaultNamedConfigPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix layout")
	}
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := DefaultNamedConfigPath("run", "yml")
	require.NoError(t, err)
	assert.Equal(t, "/xdg/hoja/run.yaml", p)

	p, err = DefaultNamedConfigPath("run", "")
	require.NoError(t, err)
	assert.Equal(t, "/xdg/hoja/run.json", p)
}

func TestFindUserConfig(t *testing.T) {
	t.Setenv(EnvConfig, "/env.toml")
	assert.Equal(t, "a.yaml", FindUserConfig([]string{"run", "--config=a.yaml"}))
	assert.Equal(t, "b.json", FindUserConfig([]string{"--config", "b.json", "run"}))
	assert.Equal(t, "/env.toml", FindUserConfig([]string{"run", "--config"}))
}
