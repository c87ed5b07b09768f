package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hasssanezzz/bloomspell/internal/bloom"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig, *cfg)

	cfg, err = Load(newFlags(t))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig, *cfg)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bloomspell.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
num_bits = 500
dictionary = "from-file.txt"
workers = 3

[log]
level = "debug"
`), 0o644))

	t.Setenv("BLOOMSPELL_WORKERS", "6")
	t.Setenv("BLOOMSPELL_LOG_FORMAT", "json")

	cfg, err := Load(newFlags(t, "--config", path, "--num-bits", "42"))
	require.NoError(t, err)
	require.Equal(t, 42, cfg.NumBits)
	require.Equal(t, "from-file.txt", cfg.Dictionary)
	require.Equal(t, 6, cfg.Workers)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "absent.toml")))
	require.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(newFlags(t, "--strategy", "crc32"))
	require.ErrorContains(t, err, "config validation failed")

	_, err = Load(newFlags(t, "--workers", "0"))
	require.Error(t, err)

	_, err = Load(newFlags(t, "--log-level", "loud"))
	require.Error(t, err)
}

func TestNewFilter(t *testing.T) {
	f, err := NewConfig().WithNumBits(128).NewFilter()
	require.NoError(t, err)
	require.Equal(t, 128, f.Size())

	_, err = NewConfig().WithNumBits(0).NewFilter()
	require.True(t, errors.Is(err, bloom.ErrInvalidConfiguration))

	f, err = NewConfig().WithStrategy(StrategyDouble, 2).WithCapacity(1000, 0.01).NewFilter()
	require.NoError(t, err)
	require.Equal(t, 9586, f.Size())

	_, err = NewConfig().WithCapacity(1000, 1.5).NewFilter()
	require.True(t, errors.Is(err, bloom.ErrInvalidConfiguration))
}

func TestHashStrategy(t *testing.T) {
	require.Equal(t, bloom.SHA512Strategy{}, NewConfig().HashStrategy())
	require.Equal(t, bloom.XXHashStrategy{K: 3}, NewConfig().WithStrategy(StrategyXXHash, 3).HashStrategy())
	require.Equal(t, bloom.DoubleHashStrategy{K: 5}, NewConfig().WithStrategy(StrategyDouble, 5).HashStrategy())
}
