package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeKeepsOrderAndCase(t *testing.T) {
	got := Dedupe([]string{"fox", "Fox", "quick", "fox", "dog", "quick"})
	assert.Equal(t, []string{"fox", "Fox", "quick", "dog"}, got)
}

func TestWordFilterFold(t *testing.T) {
	f := NewWordFilter(true)
	assert.True(t, f.ShouldInclude("Fox"))
	assert.False(t, f.ShouldInclude("fox"))
	assert.True(t, f.ShouldInclude("dog"))
}

func TestCleanTargets(t *testing.T) {
	got := CleanTargets([]string{" quick ", "", "brown fox", "fox", "fox", "   "})
	assert.Equal(t, []string{"quick", "fox"}, got)
}

func TestIsValidTarget(t *testing.T) {
	assert.True(t, IsValidTarget("fox"))
	assert.True(t, IsValidTarget("42"))
	assert.False(t, IsValidTarget(""))
	assert.False(t, IsValidTarget("two words"))
	assert.False(t, IsValidTarget("tab\tword"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"quick", "fox", "dog"}, SplitList(" quick, fox,,dog "))
	assert.Nil(t, SplitList("  "))
}

func TestTOMLRoundTripAndRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.toml")

	type section struct {
		Workers int  `toml:"workers"`
		Enabled bool `toml:"enabled"`
	}
	type doc struct {
		Pool section `toml:"pool"`
	}
	require.NoError(t, SaveTOMLFile(doc{Pool: section{Workers: 3, Enabled: true}}, path))
	assert.True(t, FileExists(path))

	var loaded doc
	require.NoError(t, LoadTOMLFile(path, &loaded))
	assert.Equal(t, 3, loaded.Pool.Workers)

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	pool, ok := ExtractSection(raw, "pool")
	require.True(t, ok)
	n, ok := ExtractInt64(pool, "workers")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	b, ok := ExtractBool(pool, "enabled")
	assert.True(t, ok)
	assert.True(t, b)
	_, ok = ExtractString(pool, "workers")
	assert.False(t, ok)
}

func TestEnsureDirAndCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)

	_, err := os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err))
}

func TestGetAbsolutePath(t *testing.T) {
	assert.Equal(t, "unknown", GetAbsolutePath(""))
	assert.True(t, filepath.IsAbs(GetAbsolutePath("relative.toml")))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
