package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Taraxa-project/light-verifier/crypto/bls"
	"github.com/Taraxa-project/light-verifier/types"
)

func write_file(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "verifier.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, types.FormatV0, cfg.HeaderFormat())
	assert.False(t, cfg.Metrics)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := write_file(t, `
workers = 3
metrics = true
format = "legacy"
strict_trie = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.Metrics)
	assert.True(t, cfg.StrictTrie)
	assert.Equal(t, types.FormatLegacy, cfg.HeaderFormat())
	assert.Equal(t, Default().KeyCacheSize, cfg.KeyCacheSize)
	assert.Equal(t, Default().Verbosity, cfg.Verbosity)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(write_file(t, "workerz = 3\n"))
	assert.ErrorContains(t, err, "workerz")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{Workers: 0, KeyCacheSize: -1, Verbosity: 9, Format: "v1"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)
	assert.ErrorIs(t, err, types.ErrUnknownFormat)
}

func TestKeySource(t *testing.T) {
	cfg := Default()
	src, err := cfg.KeySource()
	require.NoError(t, err)
	assert.IsType(t, &bls.KeyCache{}, src)

	cfg.KeyCacheSize = 0
	src, err = cfg.KeySource()
	require.NoError(t, err)
	assert.Equal(t, bls.Decoder, src)
}
