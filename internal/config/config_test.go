package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBaseline(t *testing.T) {
	c := Default()
	assert.Equal(t, 10, c.DefaultVarLengthCap)
	assert.Equal(t, 100_000, c.RowCeiling)
	assert.Equal(t, 30*time.Second, c.QueryTimeout)
}

func TestDefaultWithOptions(t *testing.T) {
	c := Default(WithDefaultVarLengthCap(5), WithRowCeiling(100), WithQueryTimeout(time.Second))
	assert.Equal(t, 5, c.DefaultVarLengthCap)
	assert.Equal(t, 100, c.RowCeiling)
	assert.Equal(t, time.Second, c.QueryTimeout)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodeql.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaultVarLengthCap: 4\nrowCeiling: 50\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.DefaultVarLengthCap)
	assert.Equal(t, 50, c.RowCeiling)
	assert.Equal(t, 30*time.Second, c.QueryTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
